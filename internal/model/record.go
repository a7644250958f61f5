// Package model defines the domain types for tally records.
package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxNoteLength is the maximum note length in characters.
const MaxNoteLength = 50

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a field that failed the save gate.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Record is a single dated, categorized expense.
type Record struct {
	ID       int64
	Date     Date
	Category string
	Price    decimal.Decimal
	Note     string
}

// Draft holds the user-editable fields of a Record, without an id.
type Draft struct {
	Date     Date
	Category string
	Price    decimal.Decimal
	Note     string
}

// Draft returns the editable fields of r.
func (r Record) Draft() Draft {
	return Draft{Date: r.Date, Category: r.Category, Price: r.Price, Note: r.Note}
}

// Equal compares records field by field, prices by numeric value.
func (r Record) Equal(o Record) bool {
	return r.ID == o.ID &&
		r.Date.Equal(o.Date) &&
		r.Category == o.Category &&
		r.Price.Equal(o.Price) &&
		r.Note == o.Note
}

// WithID turns the draft into a Record carrying id.
func (d Draft) WithID(id int64) Record {
	return Record{ID: id, Date: d.Date, Category: d.Category, Price: d.Price, Note: d.Note}
}

// Validate checks the save gate. categories restricts the accepted labels;
// an empty list accepts any non-empty category.
func (d Draft) Validate(categories []string) error {
	if d.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if strings.TrimSpace(d.Category) == "" {
		return &ValidationError{Field: "category", Reason: "required"}
	}
	if len(categories) > 0 && !HasCategory(categories, d.Category) {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("%q is not a known category", d.Category)}
	}
	if !d.Price.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	if utf8.RuneCountInString(d.Note) > MaxNoteLength {
		return &ValidationError{Field: "note", Reason: fmt.Sprintf("longer than %d characters", MaxNoteLength)}
	}
	return nil
}

// ParsePrice converts user input to a positive decimal. Both "12.34" and
// "12,34" are accepted.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, &ValidationError{Field: "price", Reason: "required"}
	}
	s = strings.ReplaceAll(s, ",", ".")
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: "price", Reason: fmt.Sprintf("%q is not a number", s)}
	}
	if !p.IsPositive() {
		return decimal.Decimal{}, &ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	return p, nil
}
