package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/session"

	"github.com/charmbracelet/huh"
)

// recordValues backs the record form fields. It lives on the heap so the
// huh fields can keep pointers into it while App is copied by value.
type recordValues struct {
	Day      int
	Month    int
	Year     int
	Category string
	Price    string
	Note     string
}

func newRecordValues(v session.Values) *recordValues {
	return &recordValues{
		Day:      v.Day,
		Month:    v.Month,
		Year:     v.Year,
		Category: v.Category,
		Price:    v.Price,
		Note:     v.Note,
	}
}

func (r *recordValues) sessionValues() session.Values {
	return session.Values{
		Day:      r.Day,
		Month:    r.Month,
		Year:     r.Year,
		Category: r.Category,
		Price:    r.Price,
		Note:     r.Note,
	}
}

func intOptions(from, to int, label func(int) string) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, to-from+1)
	for i := from; i <= to; i++ {
		opts = append(opts, huh.NewOption(label(i), i))
	}
	return opts
}

// newRecordForm builds the add/edit form. The year range always includes
// the record's own year.
func newRecordForm(title string, vals *recordValues, categories []string) *huh.Form {
	thisYear := time.Now().Year()
	fromYear, toYear := thisYear-10, thisYear+1
	fromYear = min(fromYear, vals.Year)
	toYear = max(toYear, vals.Year)

	catOpts := huh.NewOptions(categories...)
	if vals.Category != "" && !model.HasCategory(categories, vals.Category) {
		catOpts = append(catOpts, huh.NewOption(vals.Category, vals.Category))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(title).
				Description("Tab moves between fields, Esc cancels."),

			huh.NewSelect[int]().
				Title("Day").
				Options(intOptions(1, 31, strconv.Itoa)...).
				Value(&vals.Day),

			huh.NewSelect[int]().
				Title("Month").
				Options(intOptions(1, 12, func(m int) string { return time.Month(m).String() })...).
				Value(&vals.Month),

			huh.NewSelect[int]().
				Title("Year").
				Options(intOptions(fromYear, toYear, strconv.Itoa)...).
				Value(&vals.Year).
				Validate(func(y int) error {
					if !model.ValidDate(y, vals.Month, vals.Day) {
						return &model.ValidationError{Field: "date", Reason: "not a calendar day"}
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Category").
				Options(catOpts...).
				Height(8).
				Value(&vals.Category),

			huh.NewInput().
				Title("Price").
				Placeholder("0.00").
				Value(&vals.Price).
				Validate(func(s string) error {
					_, err := model.ParsePrice(s)
					return err
				}),

			huh.NewInput().
				Title("Note").
				Description("Optional").
				CharLimit(model.MaxNoteLength).
				Value(&vals.Note),
		),
	).WithShowHelp(false)
}

// newClearForm asks before every record is deleted.
func newClearForm(count int, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete all records?").
				Description("This removes "+strconv.Itoa(count)+" records and cannot be undone.").
				Affirmative("Delete all").
				Negative("Keep").
				Value(confirmed),
		),
	).WithShowHelp(false)
}

// newDateForm asks for the day to filter the records view by.
func newDateForm(input *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Show records on").
				Description("YYYY-MM-DD, empty clears the filter").
				Value(input).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := model.ParseDate(s)
					return err
				}),
		),
	).WithShowHelp(false)
}
