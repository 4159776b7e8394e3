package quotes

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// maxContentLength keeps a single quoted message readable.
	maxContentLength = 1024
	emptyContent     = "[- kein Text -]"
	dateLayout       = "02.01.2006"
)

// Renderer formats quotes as plain text messages
type Renderer struct{}

// NewRenderer creates a new quote renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render formats a quote under the given title
func (r *Renderer) Render(q *Quote, title string) (string, error) {
	if q == nil {
		return "", fmt.Errorf("cannot render nil quote")
	}
	if len(q.Messages) == 0 {
		return "", fmt.Errorf("cannot render quote %d: %w", q.ID, ErrNoMessages)
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	if q.Comment != nil && *q.Comment != "" {
		fmt.Fprintf(&b, "💬 %s\n", *q.Comment)
	}

	for _, m := range q.Messages {
		b.WriteString("\n")
		fmt.Fprintf(&b, "“%s”\n", truncate(m.Content, maxContentLength))
		fmt.Fprintf(&b, "~ %s\n", m.Author.Name())
		if m.Link != "" {
			fmt.Fprintf(&b, "🔗 %s\n", m.Link)
		}
	}

	fmt.Fprintf(&b, "\nEingereicht von %s · %s", q.Reporter.Name(), q.Messages[0].Date.Format(dateLayout))

	return b.String(), nil
}

// truncate shortens s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return emptyContent
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit-3]) + "..."
}
