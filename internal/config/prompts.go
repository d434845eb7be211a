package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var DefaultStarterPrompts = []string{
	"What are you working on right now that excites you?",
	"What brought you to photonics?",
	"What's one thing you'd like to learn this year?",
}

type promptsFile struct {
	StarterPrompts []string `yaml:"starter_prompts"`
}

// LoadStarterPrompts reads the prompt list from a YAML file. An empty path or a
// file without prompts yields DefaultStarterPrompts.
func LoadStarterPrompts(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return append([]string(nil), DefaultStarterPrompts...), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read starter prompts: %w", err)
	}

	var pf promptsFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("parse starter prompts: %w", err)
	}

	out := make([]string, 0, len(pf.StarterPrompts))
	for _, p := range pf.StarterPrompts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultStarterPrompts...), nil
	}
	return out, nil
}
