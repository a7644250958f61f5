package tui

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	colDate     = 10
	colCategory = 14
	colPrice    = 12
	minColNote  = 10
)

// chrome lines around the records table: summary line and a blank.
const recordsChrome = 2

func newRecordTable() table.Model {
	tbl := table.New(
		table.WithColumns(recordColumns(maxContentWidth)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	tbl.SetStyles(tableStyles())
	return tbl
}

func tableStyles() table.Styles {
	t := theme.Active
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(t.Accent).
		Background(t.Background).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Background).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.Foreground(t.TextPrimary).Background(t.Background)
	s.Selected = s.Selected.
		Foreground(t.AccentBright).
		Background(t.Selected).
		Bold(true)
	return s
}

// recordColumns sizes the note column to whatever width remains.
// Every cell carries one space of padding on each side.
func recordColumns(width int) []table.Column {
	fixed := colDate + colCategory + colPrice + 4*2
	note := max(width-fixed, minColNote)
	return []table.Column{
		{Title: "Date", Width: colDate},
		{Title: "Category", Width: colCategory},
		{Title: "Price", Width: colPrice},
		{Title: "Note", Width: note},
	}
}

func recordRow(r model.Record) table.Row {
	return table.Row{
		cli.FormatDate(r.Date),
		cli.Truncate(r.Category, colCategory),
		fmt.Sprintf("%*s", colPrice, cli.FormatAmount(r.Price)),
		r.Note,
	}
}

func (a *App) refreshTable() {
	rows := make([]table.Row, len(a.visible))
	for i, r := range a.visible {
		rows[i] = recordRow(r)
	}
	cursor := a.table.Cursor()
	a.table.SetRows(rows)
	switch {
	case len(rows) == 0:
		a.table.SetCursor(0)
	case cursor >= len(rows):
		a.table.SetCursor(len(rows) - 1)
	case cursor < 0:
		a.table.SetCursor(0)
	}
}

func (a *App) resizeTable() {
	cw := a.contentWidth()
	a.table.SetColumns(recordColumns(cw))
	a.table.SetWidth(cw)
	// tab bar and status bar take one line each
	a.table.SetHeight(max(a.height-2-recordsChrome, minContentHeight))
}

// selected returns the record under the table cursor.
func (a App) selected() (model.Record, bool) {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.visible) {
		return model.Record{}, false
	}
	return a.visible[i], true
}

func (a App) renderRecordsTab(h int) string {
	t := theme.Active

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Background).Bold(true)
	money := lipgloss.NewStyle().Foreground(t.Money).Background(t.Background).Bold(true)
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)

	sum := a.report.Summary
	line := muted.Render(" ") +
		value.Render(cli.FormatNumber(int64(sum.Records))) + muted.Render(" records  ") +
		value.Render(cli.FormatNumber(int64(sum.UniqueDays))) + muted.Render(" days  ") +
		muted.Render("total ") + money.Render(cli.FormatMoney(sum.GrandTotal))

	if len(a.visible) == 0 {
		msg := "No records yet. Press a to add one."
		if _, filtered := a.activeFilter(); filtered {
			msg = "No records on this day. Press Esc to clear the filter."
		}
		return line + "\n\n" + hint.Render("  "+msg)
	}

	tbl := a.table
	tbl.SetHeight(max(h-recordsChrome, minContentHeight))
	return line + "\n\n" + tbl.View()
}
