package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/tally/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowPadsShortCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	want := lipgloss.Width(tallCard) + lipgloss.Width(shortCard)
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d padding is unstyled", i)
		}
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for total := 10; total < 40; total++ {
		for n := 1; n <= 5; n++ {
			sum := 0
			for _, w := range LayoutRow(total, n) {
				sum += w
			}
			if sum != total {
				t.Fatalf("LayoutRow(%d, %d) sums to %d", total, n, sum)
			}
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Total", Value: "Q.15.75"},
		{Label: "Days", Value: "2", Delta: "Q.7.88/day"},
	}, 60)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 60 {
			t.Errorf("line %d width = %d, want 60", i, w)
		}
	}
}

func TestChartFallsBackToSparkline(t *testing.T) {
	out := Chart{Values: []float64{1, 2, 3}, Color: theme.Active.Chart, Width: 10, Height: 2, Highlight: -1}.Render()
	if strings.Contains(out, "\n") {
		t.Errorf("narrow chart should be a single-line sparkline, got %q", out)
	}
	if (Chart{Color: theme.Active.Chart, Width: 80, Height: 10, Highlight: -1}).Render() != "" {
		t.Error("empty chart should render nothing")
	}
}

func TestChartLabels(t *testing.T) {
	out := Chart{
		Values:    []float64{5, 10, 2.5},
		Labels:    []string{"Jan", "2", "3"},
		Color:     theme.Active.Chart,
		Width:     40,
		Height:    6,
		Highlight: -1,
	}.Render()
	last := strings.Split(out, "\n")
	if !strings.Contains(last[len(last)-1], "Jan") {
		t.Errorf("x-axis labels missing from\n%s", out)
	}
}

func TestChartSampleKeepsHighlight(t *testing.T) {
	values := make([]float64, 100)
	labels := make([]string, 100)
	for i := range values {
		values[i] = float64(i)
		labels[i] = "x"
	}
	_, outLabels, hi := sample(values, labels, 99, 10)
	if len(outLabels) != 10 {
		t.Fatalf("got %d labels, want 10", len(outLabels))
	}
	if hi != 9 {
		t.Errorf("highlight = %d, want 9", hi)
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{2.5, "2.50"},
		{40, "40"},
		{20000, "20k"},
		{2500000, "2.5M"},
	}
	for _, tt := range tests {
		if got := formatChartLabel(tt.v); got != tt.want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('2'); got != 1 {
		t.Errorf("TabIdxByKey('2') = %d, want 1", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestShareBarClamps(t *testing.T) {
	a := ShareBar("Groceries", 1.7, "Q.10.00", 12, 20)
	b := ShareBar("Groceries", 1, "Q.10.00", 12, 20)
	if a != b {
		t.Error("share above 1 should render like 1")
	}
	if !strings.Contains(a, "100%") {
		t.Errorf("missing percentage in %q", a)
	}
}

func TestColorForPctWarms(t *testing.T) {
	share := theme.Active.Share
	cases := []struct {
		pct  float64
		want string
	}{
		{0.05, string(share[theme.ShareSmall])},
		{0.2, string(share[theme.ShareNotable])},
		{0.3, string(share[theme.ShareLarge])},
		{0.75, string(share[theme.ShareDominant])},
	}
	for _, c := range cases {
		if got := ColorForPct(c.pct); got != c.want {
			t.Errorf("ColorForPct(%v) = %q, want %q", c.pct, got, c.want)
		}
	}
}
