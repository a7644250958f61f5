// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/theirongolddev/tally/internal/model"
)

// Currency is the symbol FormatMoney prefixes amounts with.
var Currency = "Q."

// FormatMoney formats an amount rounded to cents with thousands separators.
// e.g., 1234.5 -> "Q.1,234.50"
func FormatMoney(d decimal.Decimal) string {
	return FormatMoneyIn(Currency, d)
}

// FormatMoneyIn is FormatMoney with an explicit currency symbol.
func FormatMoneyIn(currency string, d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		// Beyond int64; skip the separators.
		return sign + currency + fixed
	}
	return sign + currency + humanize.Comma(n) + "." + frac
}

// FormatAmount formats an amount without a currency symbol.
func FormatAmount(d decimal.Decimal) string {
	return FormatMoneyIn("", d)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// Share returns part/total as a 0-1 float, or 0 when total is zero.
func Share(part, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	f, _ := part.Div(total).Float64()
	return f
}

// FormatDate formats a record date for tables.
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("2006-01-02")
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatWeekday returns the 3-letter weekday of a date.
func FormatWeekday(d model.Date) string {
	return FormatDayOfWeek(int(d.Time().Weekday()))
}

// Truncate shortens s to max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max || max < 2 {
		return s
	}
	return string(r[:max-1]) + "…"
}
