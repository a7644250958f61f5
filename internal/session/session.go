// Package session tracks which record, if any, the input form is editing.
//
// A Session is Idle (the form creates new records) or Editing a target id
// (the form rewrites that record). Save runs the validation gate and then
// routes to Store.Add or Store.Update; any failure leaves the session as it
// was.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/model"
)

// State is the session's mode.
type State int

const (
	Idle State = iota
	Editing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Store is the part of the record store a session drives.
type Store interface {
	Get(id int64) (model.Record, error)
	Add(d model.Draft) (model.Record, error)
	Update(id int64, d model.Draft) (model.Record, error)
}

// Values are the form's working values. Price stays text until Save so
// partially typed input survives.
type Values struct {
	Day      int
	Month    int
	Year     int
	Category string
	Price    string
	Note     string
}

// ValuesFor returns the form values of an existing record.
func ValuesFor(r model.Record) Values {
	return Values{
		Day:      r.Date.Day(),
		Month:    int(r.Date.Month()),
		Year:     r.Date.Year(),
		Category: r.Category,
		Price:    r.Price.String(),
		Note:     r.Note,
	}
}

// DefaultValues is an empty form dated today.
func DefaultValues(today model.Date) Values {
	return Values{Day: today.Day(), Month: int(today.Month()), Year: today.Year()}
}

// Date returns the calendar date the values name.
func (v Values) Date() (model.Date, error) {
	if !model.ValidDate(v.Year, v.Month, v.Day) {
		return model.Date{}, &model.ValidationError{
			Field:  "date",
			Reason: fmt.Sprintf("%04d-%02d-%02d is not a calendar day", v.Year, v.Month, v.Day),
		}
	}
	return model.NewDate(v.Year, time.Month(v.Month), v.Day), nil
}

// Draft converts the values to a validated draft.
func (v Values) Draft(categories []string) (model.Draft, error) {
	date, err := v.Date()
	if err != nil {
		return model.Draft{}, err
	}
	category := strings.TrimSpace(v.Category)
	if category == "" {
		return model.Draft{}, &model.ValidationError{Field: "category", Reason: "required"}
	}
	price, err := model.ParsePrice(v.Price)
	if err != nil {
		return model.Draft{}, err
	}

	d := model.Draft{Date: date, Category: category, Price: price, Note: strings.TrimSpace(v.Note)}
	if err := d.Validate(categories); err != nil {
		return model.Draft{}, err
	}
	return d, nil
}

// Option configures a Session.
type Option func(*Session)

// WithCategories restricts the categories the gate accepts.
func WithCategories(categories []string) Option {
	return func(s *Session) { s.categories = categories }
}

// WithToday overrides the clock used for default values.
func WithToday(today func() model.Date) Option {
	return func(s *Session) { s.today = today }
}

// Session is the edit state machine. It is not safe for concurrent use.
type Session struct {
	store      Store
	categories []string
	today      func() model.Date

	state  State
	target int64
	kept   string // target's category when loaded
	values Values
}

// New returns an Idle session over st.
func New(st Store, opts ...Option) *Session {
	s := &Session{store: st, today: model.Today}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.state = Idle
	s.target = 0
	s.kept = ""
	s.values = DefaultValues(s.today())
}

// State returns the current mode.
func (s *Session) State() State { return s.state }

// Target returns the id being edited, or 0 when Idle.
func (s *Session) Target() int64 { return s.target }

// Values returns the working values.
func (s *Session) Values() Values { return s.values }

// SetValues replaces the working values.
func (s *Session) SetValues(v Values) { s.values = v }

// Edit loads the record with id into the working values and targets it.
// If the record is gone the session is unchanged.
func (s *Session) Edit(id int64) error {
	r, err := s.store.Get(id)
	if err != nil {
		return err
	}
	s.state = Editing
	s.target = id
	s.kept = r.Category
	s.values = ValuesFor(r)
	return nil
}

// Cancel drops any target and restores default values.
func (s *Session) Cancel() {
	s.reset()
}

// Save validates the working values and creates or updates a record. On
// success the session returns to Idle with default values; on any error it
// is left untouched. An edited record may keep its category even when that
// label is outside the accepted set.
func (s *Session) Save() (model.Record, error) {
	d, err := s.values.Draft(model.AllowCategory(s.categories, s.kept))
	if err != nil {
		return model.Record{}, err
	}

	var r model.Record
	if s.state == Editing {
		r, err = s.store.Update(s.target, d)
	} else {
		r, err = s.store.Add(d)
	}
	if err != nil {
		return model.Record{}, err
	}

	s.reset()
	return r, nil
}
