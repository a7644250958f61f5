// Package tui provides the interactive Bubble Tea dashboard for tally.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/export"
	"github.com/theirongolddev/tally/internal/log"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/pipeline"
	"github.com/theirongolddev/tally/internal/session"
	"github.com/theirongolddev/tally/internal/store"
	"github.com/theirongolddev/tally/internal/tui/components"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	tabRecords = 0
	tabTotals  = 1
)

// mode is what currently owns the keyboard.
type mode int

const (
	modeBrowse mode = iota
	modeRecordForm
	modeConfirmClear
	modeFilterDate
)

const (
	minTerminalWidth = 60
	compactWidth     = 100
	maxContentWidth  = 160
	minContentHeight = 5
)

// App is the root Bubble Tea model.
type App struct {
	store   *store.Store
	sess    *session.Session
	cfg     config.Config
	log     *log.Logger
	backend string
	today   func() model.Date
	now     func() time.Time

	// Pre-computed for the current filter
	visible []model.Record
	report  pipeline.Report
	table   table.Model

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Filter state
	todayOnly  bool
	filterDate model.Date

	// Active form, if any
	mode       mode
	form       *huh.Form
	formVals   *recordValues
	confirmed  *bool
	dateInput  *string
	status     string
	statusErr  bool
	lastExport string
}

// Options configures NewApp.
type Options struct {
	Config  config.Config
	Logger  *log.Logger
	Backend string
	Today   func() model.Date
	Now     func() time.Time
}

// NewApp creates the dashboard over an opened store.
func NewApp(st *store.Store, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	if opts.Today == nil {
		opts.Today = model.Today
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	a := App{
		store:   st,
		cfg:     opts.Config,
		log:     opts.Logger.WithComponent("tui"),
		backend: opts.Backend,
		today:   opts.Today,
		now:     opts.Now,
		table:   newRecordTable(),
	}
	a.sess = session.New(st,
		session.WithCategories(opts.Config.Records.Categories),
		session.WithToday(opts.Today),
	)
	a.recompute()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

// activeFilter returns the day the records view is narrowed to, if any.
func (a App) activeFilter() (model.Date, bool) {
	if a.todayOnly {
		return a.today(), true
	}
	if !a.filterDate.IsZero() {
		return a.filterDate, true
	}
	return model.Date{}, false
}

func (a *App) recompute() {
	records := a.store.List()
	if day, ok := a.activeFilter(); ok {
		records = pipeline.FilterByDate(records, day)
	}
	a.visible = records
	a.report = pipeline.Aggregate(records)
	a.refreshTable()
}

func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
	a.statusErr = false
}

func (a *App) setError(err error) {
	a.status = err.Error()
	a.statusErr = true
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeTable()
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, 72))
		}
		return a, nil

	case tea.MouseMsg:
		if a.form != nil || a.showHelp {
			return a, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
			return a, nil
		}
		if a.activeTab == tabRecords {
			var cmd tea.Cmd
			a.table, cmd = a.table.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.form != nil {
			if msg.String() == "esc" {
				if a.mode == modeRecordForm {
					a.sess.Cancel()
				}
				a.closeForm()
				return a, nil
			}
			return a.updateForm(msg)
		}
		return a.updateBrowse(msg)
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "1", "2":
		a.activeTab = components.TabIdxByKey(rune(key[0]))
		return a, nil
	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab", "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "a":
		a.sess.Cancel()
		return a.openRecordForm("New record")
	case "e", "enter":
		r, ok := a.selected()
		if !ok {
			return a, nil
		}
		if err := a.sess.Edit(r.ID); err != nil {
			a.setError(err)
			a.recompute()
			return a, nil
		}
		return a.openRecordForm("Edit record")
	case "d", "delete":
		return a.deleteSelected()
	case "C":
		if a.store.Len() == 0 {
			a.setStatus("nothing to clear")
			return a, nil
		}
		confirmed := false
		a.confirmed = &confirmed
		return a.openForm(modeConfirmClear, newClearForm(a.store.Len(), a.confirmed))
	case "x":
		a.exportCSV()
		return a, nil
	case "t":
		a.todayOnly = !a.todayOnly
		a.recompute()
		return a, nil
	case "f":
		input := a.filterDate.String()
		a.dateInput = &input
		return a.openForm(modeFilterDate, newDateForm(a.dateInput))
	case "esc":
		a.todayOnly = false
		a.filterDate = model.Date{}
		a.status = ""
		a.recompute()
		return a, nil
	}

	if a.activeTab == tabRecords {
		var cmd tea.Cmd
		a.table, cmd = a.table.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) openRecordForm(title string) (tea.Model, tea.Cmd) {
	a.formVals = newRecordValues(a.sess.Values())
	return a.openForm(modeRecordForm, newRecordForm(title, a.formVals, a.cfg.Records.Categories))
}

func (a App) openForm(m mode, form *huh.Form) (tea.Model, tea.Cmd) {
	a.mode = m
	a.form = form
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width, 72))
	}
	return a, a.form.Init()
}

func (a *App) closeForm() {
	a.mode = modeBrowse
	a.form = nil
	a.formVals = nil
	a.confirmed = nil
	a.dateInput = nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.completeForm()
		a.closeForm()
		a.recompute()
		return a, nil
	case huh.StateAborted:
		if a.mode == modeRecordForm {
			a.sess.Cancel()
		}
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) completeForm() {
	switch a.mode {
	case modeRecordForm:
		editing := a.sess.State() == session.Editing
		a.sess.SetValues(a.formVals.sessionValues())
		r, err := a.sess.Save()
		if err != nil {
			a.log.Warn("save failed", "error", err)
			a.setError(err)
			return
		}
		if editing {
			a.setStatus("updated %s %s", r.Category, r.Price.StringFixed(2))
		} else {
			a.setStatus("added %s %s", r.Category, r.Price.StringFixed(2))
		}

	case modeConfirmClear:
		if a.confirmed == nil || !*a.confirmed {
			a.setStatus("clear cancelled")
			return
		}
		if err := a.store.Clear(); err != nil {
			a.setError(err)
			return
		}
		a.sess.Cancel()
		a.setStatus("all records deleted")

	case modeFilterDate:
		input := strings.TrimSpace(*a.dateInput)
		if input == "" {
			a.filterDate = model.Date{}
			return
		}
		d, err := model.ParseDate(input)
		if err != nil {
			a.setError(err)
			return
		}
		a.filterDate = d
		a.todayOnly = false
	}
}

func (a App) deleteSelected() (tea.Model, tea.Cmd) {
	r, ok := a.selected()
	if !ok {
		return a, nil
	}
	if _, err := a.store.Delete(r.ID); err != nil {
		a.setError(err)
		return a, nil
	}
	if a.sess.Target() == r.ID {
		a.sess.Cancel()
	}
	a.setStatus("deleted %s %s", r.Category, r.Price.StringFixed(2))
	a.recompute()
	return a, nil
}

func (a *App) exportCSV() {
	path, err := export.ToDir(a.cfg.ExportDir(), a.store.List(), a.now())
	if errors.Is(err, export.ErrEmpty) {
		a.setStatus("nothing to export")
		return
	}
	if err != nil {
		a.log.Warn("export failed", "error", err)
		a.setError(err)
		return
	}
	a.lastExport = path
	a.setStatus("exported %s", path)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  tally needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Focus).
		Padding(1, 2)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(a.form.View()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Focus).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"1 2", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k ↑ ↓", "Move through records"},
		}},
		{"Records", []struct{ key, desc string }{
			{"a", "Add a record"},
			{"e Enter", "Edit selected record"},
			{"d", "Delete selected record"},
			{"C", "Delete all records"},
			{"x", "Export CSV"},
		}},
		{"Filters", []struct{ key, desc string }{
			{"t", "Toggle today only"},
			{"f", "Show a single day"},
			{"Esc", "Clear filters"},
		}},
		{"", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for _, sec := range sections {
		if sec.name != "" {
			b.WriteString(sectionStyle.Render(sec.name))
			b.WriteString("\n")
		}
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusLine() components.Status {
	s := components.Status{
		Message: a.status,
		IsError: a.statusErr,
		Right:   fmt.Sprintf("%d records · %s", a.store.Len(), a.backend),
	}
	if a.todayOnly {
		s.Filter = "today"
	} else if !a.filterDate.IsZero() {
		s.Filter = a.filterDate.String()
	}
	return s
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.statusLine())

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabRecords:
		content = a.renderRecordsTab(contentH)
	case tabTotals:
		content = a.renderTotalsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same widths RenderTabBar uses.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}
