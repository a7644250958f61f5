package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	peak := maxOf(values)
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}
	return style.Render(buf.String())
}

// Chart describes a vertical bar chart.
type Chart struct {
	Values    []float64
	Labels    []string // x-axis labels, one per value
	Color     lipgloss.Color
	Width     int
	Height    int
	Highlight int // index of a bar drawn in the highlight color, -1 for none
}

// scale holds the y-axis layout of a chart.
type scale struct {
	ceiling   float64
	rows      int
	tickLabel map[int]string
	labelW    int
}

func newScale(maxVal float64, height int) scale {
	if maxVal <= 0 {
		maxVal = 1
	}

	step := chartTickStep(maxVal)
	maxIntervals := max(2, height/2)
	for int(math.Ceil(maxVal/step)) > maxIntervals {
		step *= 2
	}
	ceiling := math.Ceil(maxVal/step) * step
	intervals := max(1, int(math.Round(ceiling/step)))
	rowsPerTick := max(2, height/intervals)

	s := scale{
		ceiling:   ceiling,
		rows:      rowsPerTick * intervals,
		tickLabel: make(map[int]string, intervals),
		labelW:    max(4, len(formatChartLabel(ceiling))+1),
	}
	for i := 1; i <= intervals; i++ {
		s.tickLabel[i*rowsPerTick] = formatChartLabel(step * float64(i))
	}
	return s
}

// Render draws the chart. Narrow or short areas fall back to a sparkline.
func (c Chart) Render() string {
	if len(c.Values) == 0 {
		return ""
	}
	if c.Width < 15 || c.Height < 3 {
		return Sparkline(c.Values, c.Color)
	}

	t := theme.Active
	sc := newScale(maxOf(c.Values), c.Height)

	values, labels, highlight := c.Values, c.Labels, c.Highlight
	chartW := max(5, c.Width-sc.labelW-1)
	n := len(values)

	gap := 1
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 2 && n > 1 {
		values, labels, highlight = sample(values, labels, highlight, max(2, (chartW+1)/3))
		n = len(values)
		barW = 2
	}
	if n <= 1 {
		gap = 0
	}
	barW = min(barW, 6)
	axisLen := n*barW + max(0, n-1)*gap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blankStyle := lipgloss.NewStyle().Background(t.Surface)
	hiStyle := lipgloss.NewStyle().Foreground(t.Today).Background(t.Surface)

	var b strings.Builder
	for row := sc.rows; row >= 1; row-- {
		rowTop := sc.ceiling * float64(row) / float64(sc.rows)
		rowBottom := sc.ceiling * float64(row-1) / float64(sc.rows)

		barColor := t.Accent
		if float64(row)/float64(sc.rows) > 0.5 {
			barColor = c.Color
		}
		barStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", sc.labelW, sc.tickLabel[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blankStyle.Render(strings.Repeat(" ", gap)))
			}
			style := barStyle
			if i == highlight {
				style = hiStyle
			}
			switch {
			case v >= rowTop:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
				idx = max(1, min(idx, 8))
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blankStyle.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", sc.labelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if len(labels) == n && n > 0 {
		labelStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		b.WriteString("\n")
		b.WriteString(blankStyle.Render(strings.Repeat(" ", sc.labelW+1)))
		b.WriteString(labelStyle.Render(xAxisLabels(labels, barW, gap, axisLen)))
	}

	return b.String()
}

// sample picks n evenly spaced points so bars stay at least two cells wide.
func sample(values []float64, labels []string, highlight, n int) ([]float64, []string, int) {
	src := len(values)
	out := make([]float64, n)
	var outLabels []string
	if len(labels) == src {
		outLabels = make([]string, n)
	}
	hi := -1
	for i := range out {
		j := i * (src - 1) / (n - 1)
		out[i] = values[j]
		if outLabels != nil {
			outLabels[i] = labels[j]
		}
		if j == highlight {
			hi = i
		}
	}
	return out, outLabels, hi
}

// xAxisLabels lays labels under their bars, skipping ones that would
// collide, and always tries to show the last label.
func xAxisLabels(labels []string, barW, gap, axisLen int) string {
	n := len(labels)
	buf := []byte(strings.Repeat(" ", axisLen))

	step := max(1, (n*8)/(axisLen+1))
	lastEnd := -1
	for i := 0; i < n; i += step {
		pos := i * (barW + gap)
		lbl := labels[i]
		end := pos + len(lbl)
		if pos <= lastEnd {
			continue
		}
		if end > axisLen {
			end = axisLen
			if end-pos < 3 {
				continue
			}
			lbl = lbl[:end-pos]
		}
		copy(buf[pos:end], lbl)
		lastEnd = end + 1
	}

	if n > 1 {
		lbl := labels[n-1]
		pos := (n - 1) * (barW + gap)
		end := pos + len(lbl)
		if end > axisLen {
			pos = axisLen - len(lbl)
			end = axisLen
		}
		if pos >= 0 && pos > lastEnd {
			copy(buf[pos:end], lbl)
		}
	}
	return strings.TrimRight(string(buf), " ")
}

func maxOf(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// formatChartLabel formats an amount for the y-axis: whole units from 10
// up, cents below.
func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e4:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 10:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
