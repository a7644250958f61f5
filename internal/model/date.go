package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical persisted form of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar date (year, month, day) without time-of-day.
// The zero value means "no date".
type Date struct {
	t time.Time // always midnight UTC
}

// NewDate returns the calendar date y-m-d. Out-of-range values are
// normalized the way time.Date does; use ValidDate to reject them.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ValidDate reports whether year-month-day names a real calendar day.
func ValidDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	d := NewDate(year, time.Month(month), day)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}

// ParseDate accepts YYYY-MM-DD, YYYY.MM.DD and RFC 3339 timestamps.
// Timestamps are converted to the local calendar date, which is how
// midnight-local dates written by a browser come back as the same day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, "2006.01.02", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t.Local()), nil
	}
	return Date{}, fmt.Errorf("unrecognized date %q", s)
}

func (d Date) Year() int { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int { return d.t.Day() }
func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool { return d.t.After(o.t) }

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Time returns midnight of the date in UTC.
func (d Date) Time() time.Time { return d.t }

// Format formats the date with a time layout.
func (d Date) Format(layout string) string { return d.t.Format(layout) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts any form ParseDate understands; "" and null
// decode to the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
