package notification

import (
	"strings"

	"random-coffee/internal/domain/pairing"
)

const (
	defaultName = "New friend"
	notProvided = "Not provided"
)

func prettyName(c pairing.Candidate) string {
	if n := strings.TrimSpace(c.FullName); n != "" {
		return n
	}
	return defaultName
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// legacy Telegram Markdown treats these as entity delimiters
var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func telegramContact(c pairing.Candidate) string {
	if c.Username == "" {
		return notProvided
	}
	return "@" + c.Username
}

// ChatMessage renders the Markdown card telling a recipient who match is.
func ChatMessage(match pairing.Candidate, prompts []string) string {
	var b strings.Builder
	b.WriteString("☕ *Your Random Coffee match for this week*\n\n")
	b.WriteString("👤 *Name*: " + escapeMarkdown(prettyName(match)) + "\n")
	b.WriteString("🎓 *Segment*: " + escapeMarkdown(orDefault(match.Segment, "—")) + "\n")
	b.WriteString("🏫 *Affiliation*: " + escapeMarkdown(orDefault(match.Affiliation, "—")) + "\n")
	b.WriteString("📲 *Contact*: " + escapeMarkdown(telegramContact(match)) + " / " + escapeMarkdown(orDefault(match.Email, notProvided)) + "\n\n")
	about := "_(not provided)_"
	if strings.TrimSpace(match.About) != "" {
		about = escapeMarkdown(match.About)
	}
	b.WriteString("📝 *About them*:\n" + about)
	for i, p := range prompts {
		if i == 0 {
			b.WriteString("\n\n💬 *Starter questions:*")
		}
		b.WriteString("\n- " + escapeMarkdown(p))
	}
	return b.String()
}

// EmailVariables builds the placeholder values for an email sent to recipient
// about match.
func EmailVariables(recipient, match pairing.Candidate, prompts []string) Variables {
	name := prettyName(match)
	first := name
	if f := strings.Fields(name); len(f) > 0 {
		first = f[0]
	}

	var html strings.Builder
	html.WriteString("<ul>")
	for _, p := range prompts {
		html.WriteString("<li>" + p + "</li>")
	}
	html.WriteString("</ul>")

	text := make([]string, 0, len(prompts))
	for _, p := range prompts {
		text = append(text, "• "+p)
	}

	return Variables{
		"user_name":              prettyName(recipient),
		"match_name":             name,
		"match_first_name":       first,
		"match_segment":          orDefault(match.Segment, "Not specified"),
		"match_affiliation":      orDefault(match.Affiliation, "Not specified"),
		"match_about":            orDefault(match.About, "No information provided"),
		"match_email":            orDefault(match.Email, notProvided),
		"match_telegram":         telegramContact(match),
		"starter_questions":      html.String(),
		"starter_questions_text": strings.Join(text, "\n"),
	}
}
