// Package export writes records as CSV files.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/model"
)

// Header is the first line of every export.
const Header = "Date,Category,Price,Note"

const (
	dateLayout     = "2006.01.02"
	filenameLayout = "20060102150405"
)

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("no records to export")

// Filename returns the export file name for an export made at t.
func Filename(t time.Time) string {
	return t.Format(filenameLayout) + ".csv"
}

// Row formats one record. Fields are joined without quoting, so a comma in
// a note shifts the columns after it.
func Row(r model.Record) string {
	return strings.Join([]string{
		r.Date.Format(dateLayout),
		r.Category,
		r.Price.StringFixed(2),
		r.Note,
	}, ",")
}

// WriteCSV writes the header and one row per record to w.
func WriteCSV(w io.Writer, records []model.Record) error {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, r := range records {
		b.WriteString(Row(r))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// ToDir writes records to a new timestamped file in dir and returns its
// path. With no records it writes nothing and returns ErrEmpty.
func ToDir(dir string, records []model.Record, now time.Time) (string, error) {
	if len(records) == 0 {
		return "", ErrEmpty
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	path := filepath.Join(dir, Filename(now))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // dir comes from config or flags
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	if err := WriteCSV(f, records); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}
