package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// styles decorates terminal output; it is a no-op when stdout is not a tty
type styles struct {
	enabled bool
	title   lipgloss.Style
	heading lipgloss.Style
	warning lipgloss.Style
}

func newStyles(f *os.File) styles {
	return styles{
		enabled: term.IsTerminal(int(f.Fd())),
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// decorate styles the card title, view headings and notices
func (s styles) decorate(out string) string {
	if !s.enabled {
		return out
	}
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			lines[i] = s.title.Render(line)
		case strings.HasPrefix(line, "⚠️"):
			lines[i] = s.warning.Render(line)
		case strings.HasSuffix(line, ":") && !strings.Contains(line, ": "):
			lines[i] = s.heading.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
