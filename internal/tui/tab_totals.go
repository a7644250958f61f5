package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/pipeline"
	"github.com/theirongolddev/tally/internal/tui/components"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// chartDays caps how many days the daily chart covers.
const chartDays = 30

func (a App) renderTotalsTab(cw int) string {
	t := theme.Active
	r := a.report
	sum := r.Summary

	avg := "-"
	if sum.UniqueDays > 0 {
		avg = cli.FormatMoney(pipeline.Rounded(sum.GrandTotal.Div(decimal.NewFromInt(int64(sum.UniqueDays)))))
	}

	metrics := []components.Metric{
		{Label: "Total", Value: cli.FormatMoney(sum.GrandTotal), Delta: a.recentSparkline()},
		{Label: "Records", Value: cli.FormatNumber(int64(sum.Records))},
		{Label: "Days", Value: cli.FormatNumber(int64(sum.UniqueDays))},
		{Label: "Per day", Value: avg},
	}
	if a.isCompactLayout() {
		metrics = metrics[:2]
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	if sum.Records == 0 {
		hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
		b.WriteString(hint.Render("  Nothing to total yet."))
		return b.String()
	}

	if a.isCompactLayout() || len(r.Days) < 2 {
		b.WriteString(a.renderCategoryCard(cw))
		if len(r.Days) >= 2 {
			b.WriteString("\n")
			b.WriteString(a.renderDailyCard(cw))
		}
		return b.String()
	}

	widths := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.renderCategoryCard(widths[0]),
		a.renderDailyCard(widths[1]),
	}))
	return b.String()
}

// recentSparkline plots the last two weeks of daily totals.
func (a App) recentSparkline() string {
	days := a.report.Days
	if len(days) < 2 {
		return ""
	}
	until := days[len(days)-1].Date
	since := until.AddDays(-13)
	filled := pipeline.FillDays(trimBefore(days, since), since, until)
	values := make([]float64, len(filled))
	for i, d := range filled {
		values[i], _ = d.Total.Float64()
	}
	return components.Sparkline(values, theme.Active.Money)
}

func (a App) renderCategoryCard(outer int) string {
	inner := components.CardInnerWidth(outer)
	total := a.report.Summary.GrandTotal

	labelW := 12
	for _, c := range a.report.Categories {
		labelW = max(labelW, min(lipgloss.Width(c.Category), 18))
	}

	amounts := make([]string, len(a.report.Categories))
	amountW := 0
	for i, c := range a.report.Categories {
		amounts[i] = cli.FormatMoney(c.Total)
		amountW = max(amountW, lipgloss.Width(amounts[i]))
	}
	// label, gap, bar, gap, "100%", two spaces, amount
	barW := inner - labelW - 1 - 1 - 4 - 2 - amountW

	lines := make([]string, len(a.report.Categories))
	for i, c := range a.report.Categories {
		lines[i] = components.ShareBar(c.Category, cli.Share(c.Total, total),
			fmt.Sprintf("%*s", amountW, amounts[i]), labelW, barW)
	}
	return components.ContentCard("By category", strings.Join(lines, "\n"), outer)
}

// renderDailyCard charts the most recent days with records, gaps filled.
func (a App) renderDailyCard(outer int) string {
	days := a.report.Days

	until := days[len(days)-1].Date
	since := days[0].Date
	if floor := until.AddDays(-(chartDays - 1)); since.Before(floor) {
		since = floor
	}
	filled := pipeline.FillDays(trimBefore(days, since), since, until)

	values := make([]float64, len(filled))
	highlight := -1
	today := a.today()
	for i, d := range filled {
		values[i], _ = d.Total.Float64()
		if d.Date.Equal(today) {
			highlight = i
		}
	}

	title := fmt.Sprintf("Daily spend %s to %s", since.Format("Jan 2"), until.Format("Jan 2"))
	chart := components.Chart{
		Values:    values,
		Labels:    chartDateLabels(filled),
		Color:     theme.Active.Chart,
		Width:     components.CardInnerWidth(outer),
		Height:    10,
		Highlight: highlight,
	}.Render()
	return components.ContentCard(title, chart, outer)
}

func trimBefore(days []pipeline.DayTotal, since model.Date) []pipeline.DayTotal {
	for i, d := range days {
		if !d.Date.Before(since) {
			return days[i:]
		}
	}
	return nil
}

// chartDateLabels builds compact X-axis labels for a chronological date series.
// First label and month boundaries get the month abbreviation, the rest
// just the day number.
func chartDateLabels(days []pipeline.DayTotal) []string {
	labels := make([]string, len(days))
	prevMonth := 0
	for i, d := range days {
		m := int(d.Date.Month())
		switch {
		case i == 0, m != prevMonth:
			labels[i] = d.Date.Format("Jan")
		default:
			labels[i] = strconv.Itoa(d.Date.Day())
		}
		prevMonth = m
	}
	return labels
}
