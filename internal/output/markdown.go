package output

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Rendered reports wrap at the terminal width, clamped so a tiny window
// never produces one-word lines.
const (
	fallbackWidth = 80
	minWidth      = 20
)

// TerminalWidth probes stdout for the terminal width, then the COLUMNS
// variable, then the fallback.
func TerminalWidth(fallback int) int {
	if fallback <= 0 {
		fallback = fallbackWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	if v := os.Getenv("COLUMNS"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

// RenderMarkdown styles markdown for the current terminal.
func RenderMarkdown(text string) (string, error) {
	return RenderMarkdownWithWidth(text, TerminalWidth(fallbackWidth))
}

// RenderMarkdownWithWidth styles markdown wrapped at the given width.
// Blank input renders to nothing.
func RenderMarkdownWithWidth(text string, width int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if width < minWidth {
		width = minWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(text)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
