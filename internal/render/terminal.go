package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWrap is used when the terminal width is unknown.
const DefaultWrap = 80

// glamourStyle maps a UI theme to a glamour standard style.
func glamourStyle(theme string) string {
	if theme == "light" {
		return "light"
	}
	return "dracula"
}

// Terminal renders Markdown for reading in a terminal using glamour.
func Terminal(md, theme string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle(theme)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
