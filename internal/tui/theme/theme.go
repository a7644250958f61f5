// Package theme holds the color palettes of the tally dashboard.
package theme

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Share levels index Theme.Share by how much of the total a category takes.
const (
	ShareSmall = iota
	ShareNotable
	ShareLarge
	ShareDominant
)

// Theme maps what the dashboard draws to colors.
type Theme struct {
	Name string

	Background lipgloss.Color
	Surface    lipgloss.Color // cards, bars, overlays
	Selected   lipgloss.Color // active tab and table cursor
	Border     lipgloss.Color
	Focus      lipgloss.Color // border of forms and the help overlay

	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Key          lipgloss.Color // key names in help

	Money  lipgloss.Color // amounts and the spend sparkline
	Chart  lipgloss.Color // daily bars
	Today  lipgloss.Color // today's bar
	Filter lipgloss.Color // active filter in the status bar
	Error  lipgloss.Color

	Share [4]lipgloss.Color // share bar fill, ShareSmall to ShareDominant
}

// Active is the theme every view renders with.
var Active = FlexokiDark

// FlexokiDark is the default: warm inks on near-black paper.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   "#100F0F",
	Surface:      "#1C1B1A",
	Selected:     "#282726",
	Border:       "#403E3C",
	Focus:        "#3AA99F",
	TextDim:      "#575653",
	TextMuted:    "#878580",
	TextPrimary:  "#FFFCF0",
	Accent:       "#3AA99F",
	AccentBright: "#5BC8BE",
	Key:          "#24837B",
	Money:        "#879A39",
	Chart:        "#4385BE",
	Today:        "#DA702C",
	Filter:       "#D0A215",
	Error:        "#D14D41",
	Share:        [4]lipgloss.Color{"#879A39", "#D0A215", "#DA702C", "#D14D41"},
}

// CatppuccinMocha uses the mocha pastels.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   "#1E1E2E",
	Surface:      "#313244",
	Selected:     "#45475A",
	Border:       "#585B70",
	Focus:        "#89B4FA",
	TextDim:      "#6C7086",
	TextMuted:    "#A6ADC8",
	TextPrimary:  "#CDD6F4",
	Accent:       "#89B4FA",
	AccentBright: "#B4D0FB",
	Key:          "#94E2D5",
	Money:        "#A6E3A1",
	Chart:        "#74C7EC",
	Today:        "#FAB387",
	Filter:       "#F9E2AF",
	Error:        "#F38BA8",
	Share:        [4]lipgloss.Color{"#A6E3A1", "#F9E2AF", "#FAB387", "#F38BA8"},
}

// TokyoNight is cool blues and purples.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   "#1A1B26",
	Surface:      "#24283B",
	Selected:     "#343A52",
	Border:       "#565F89",
	Focus:        "#7AA2F7",
	TextDim:      "#565F89",
	TextMuted:    "#A9B1D6",
	TextPrimary:  "#C0CAF5",
	Accent:       "#7AA2F7",
	AccentBright: "#A9C1FF",
	Key:          "#7DCFFF",
	Money:        "#9ECE6A",
	Chart:        "#BB9AF7",
	Today:        "#FF9E64",
	Filter:       "#E0AF68",
	Error:        "#F7768E",
	Share:        [4]lipgloss.Color{"#9ECE6A", "#E0AF68", "#FF9E64", "#F7768E"},
}

// Terminal sticks to the 16 ANSI colors so it follows the terminal's palette.
var Terminal = Theme{
	Name:         "terminal",
	Background:   "0",
	Surface:      "0",
	Selected:     "8",
	Border:       "8",
	Focus:        "6",
	TextDim:      "8",
	TextMuted:    "7",
	TextPrimary:  "15",
	Accent:       "6",
	AccentBright: "14",
	Key:          "6",
	Money:        "2",
	Chart:        "4",
	Today:        "3",
	Filter:       "11",
	Error:        "1",
	Share:        [4]lipgloss.Color{"2", "11", "3", "1"},
}

// All lists the themes in the order setup offers them.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

func index(name string) int {
	return slices.IndexFunc(All, func(t Theme) bool { return t.Name == name })
}

// ByName returns the named theme, or FlexokiDark for an unknown name.
func ByName(name string) Theme {
	if i := index(name); i >= 0 {
		return All[i]
	}
	return FlexokiDark
}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Known reports whether name is a defined theme.
func Known(name string) bool { return index(name) >= 0 }

// SetActive makes the named theme active.
func SetActive(name string) { Active = ByName(name) }
