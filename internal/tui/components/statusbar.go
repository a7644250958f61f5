package components

import (
	"strings"

	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the status bar reports.
type Status struct {
	Filter  string // active date filter, empty for none
	Message string // last action result
	IsError bool
	Right   string // e.g. record count and backend
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	filterStyle := lipgloss.NewStyle().Foreground(t.Filter).Background(t.Surface).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	if s.IsError {
		msgStyle = msgStyle.Foreground(t.Error)
	}

	left := base.Render(" ") + keyStyle.Render("?") + base.Render(" help  ") +
		keyStyle.Render("q") + base.Render(" quit")
	if s.Filter != "" {
		left += base.Render("  ") + filterStyle.Render("⏷ "+s.Filter)
	}
	if s.Message != "" {
		left += base.Render("  ") + msgStyle.Render(s.Message)
	}
	right := base.Render(s.Right + " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		return lipgloss.NewStyle().Background(t.Surface).Width(width).MaxWidth(width).Render(left)
	}
	return left + base.Render(strings.Repeat(" ", padding)) + right
}
