package notification

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var ErrTemplateNotFound = errors.New("email template not found")

// Template is a stored email with {{name}} placeholders.
type Template struct {
	Name     string
	Subject  string
	HTMLBody string
	TextBody string
}

type Variables map[string]string

type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

type TemplateRenderer interface {
	Render(ctx context.Context, vars Variables) (Rendered, error)
}

// TemplateSource looks templates up by name and returns ErrTemplateNotFound
// when none is stored.
type TemplateSource interface {
	FindTemplate(ctx context.Context, name string) (Template, error)
}

var placeholderRe = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Substitute replaces every {{key}} present in vars with its value in a single
// pass. Unknown placeholders are left as written.
func Substitute(tmpl string, vars Variables) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return m
	})
}

func (t Template) Render(vars Variables) Rendered {
	out := Rendered{
		Subject: Substitute(t.Subject, vars),
		HTML:    Substitute(t.HTMLBody, vars),
	}
	if t.TextBody != "" {
		out.Text = Substitute(t.TextBody, vars)
	}
	return out
}

// StoreRenderer renders a named template from a TemplateSource.
type StoreRenderer struct {
	Source TemplateSource
	Name   string
}

func (r StoreRenderer) Render(ctx context.Context, vars Variables) (Rendered, error) {
	if r.Source == nil {
		return Rendered{}, ErrTemplateNotFound
	}
	t, err := r.Source.FindTemplate(ctx, r.Name)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return Rendered{}, err
		}
		return Rendered{}, fmt.Errorf("load template %s: %w", r.Name, err)
	}
	return t.Render(vars), nil
}

// StaticRenderer renders a template compiled into the binary.
type StaticRenderer struct {
	Template Template
}

func (r StaticRenderer) Render(_ context.Context, vars Variables) (Rendered, error) {
	return r.Template.Render(vars), nil
}

// FallbackRenderer tries Primary and uses Secondary only when Primary has no
// template. Other Primary errors are returned unchanged.
type FallbackRenderer struct {
	Primary   TemplateRenderer
	Secondary TemplateRenderer
}

func (r FallbackRenderer) Render(ctx context.Context, vars Variables) (Rendered, error) {
	if r.Primary != nil {
		out, err := r.Primary.Render(ctx, vars)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, ErrTemplateNotFound) {
			return Rendered{}, err
		}
	}
	if r.Secondary == nil {
		return Rendered{}, ErrTemplateNotFound
	}
	return r.Secondary.Render(ctx, vars)
}

// NewDefaultRenderer looks up the stored random_coffee template and falls back
// to the built-in copy.
func NewDefaultRenderer(src TemplateSource) TemplateRenderer {
	return FallbackRenderer{
		Primary:   StoreRenderer{Source: src, Name: DefaultTemplateName},
		Secondary: StaticRenderer{Template: DefaultTemplate},
	}
}
