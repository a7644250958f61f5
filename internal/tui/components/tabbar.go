package components

import (
	"strings"

	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Records", Key: '1'},
	{Name: "Totals", Key: '2'},
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.Selected).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	inactive := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	return inactive.Render(" "+tab.Name) +
		dim.Render("[") + key.Render(string(tab.Key)) + dim.Render("]") +
		inactive.Render(" ")
}

// TabVisualWidth returns the rendered width of a tab, for mouse hit tests.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index and a
// right-aligned brand label.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	left := strings.Join(parts, sep)

	brand := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Render("◈ tally ")
	gap := width - lipgloss.Width(left) - lipgloss.Width(brand)
	if gap < 1 {
		return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(left)
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap))
	return left + fill + brand
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
