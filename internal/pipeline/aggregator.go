// Package pipeline loads records and computes the derived views over them.
package pipeline

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/tally/internal/model"
)

// CategoryTotal is the summed spend of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// DayTotal is the summed spend of one calendar day.
type DayTotal struct {
	Date  model.Date
	Total decimal.Decimal
	Count int
}

// Summary holds the headline numbers of a record set.
type Summary struct {
	UniqueDays int
	GrandTotal decimal.Decimal
	Records    int
}

// Report bundles every view the dashboards render.
type Report struct {
	Summary    Summary
	Categories []CategoryTotal
	Days       []DayTotal
}

// Rounded returns v rounded to cents for display.
func Rounded(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// amount is the contribution of a record to any sum. Non-positive prices,
// which only appear in repaired payloads, count as zero.
func amount(r model.Record) decimal.Decimal {
	if !r.Price.IsPositive() {
		return decimal.Zero
	}
	return r.Price
}

// Aggregate computes the full report for records.
func Aggregate(records []model.Record) Report {
	return Report{
		Summary:    Summarize(records),
		Categories: TotalsByCategory(records),
		Days:       TotalsByDay(records),
	}
}

// Summarize counts distinct days and sums every price.
func Summarize(records []model.Record) Summary {
	stats := Summary{GrandTotal: decimal.Zero, Records: len(records)}
	days := make(map[model.Date]struct{})

	for _, r := range records {
		stats.GrandTotal = stats.GrandTotal.Add(amount(r))
		days[r.Date] = struct{}{}
	}

	stats.UniqueDays = len(days)
	return stats
}

// TotalsByCategory sums prices per category, largest first. Ties keep the
// order in which the categories were first seen.
func TotalsByCategory(records []model.Record) []CategoryTotal {
	catMap := make(map[string]int)
	var totals []CategoryTotal

	for _, r := range records {
		i, ok := catMap[r.Category]
		if !ok {
			i = len(totals)
			catMap[r.Category] = i
			totals = append(totals, CategoryTotal{Category: r.Category, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(amount(r))
		totals[i].Count++
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	return totals
}

// TotalsByDay sums prices per calendar day, oldest first.
func TotalsByDay(records []model.Record) []DayTotal {
	dayMap := make(map[model.Date]*DayTotal)

	for _, r := range records {
		dt, ok := dayMap[r.Date]
		if !ok {
			dt = &DayTotal{Date: r.Date, Total: decimal.Zero}
			dayMap[r.Date] = dt
		}
		dt.Total = dt.Total.Add(amount(r))
		dt.Count++
	}

	days := make([]DayTotal, 0, len(dayMap))
	for _, dt := range dayMap {
		days = append(days, *dt)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// FillDays returns one entry per day in [since, until], taking totals from
// days and zero elsewhere, so charts show gaps.
func FillDays(days []DayTotal, since, until model.Date) []DayTotal {
	if since.IsZero() || until.IsZero() || until.Before(since) {
		return days
	}

	byDate := make(map[model.Date]DayTotal, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}

	var filled []DayTotal
	for day := since; !day.After(until); day = day.AddDays(1) {
		if d, ok := byDate[day]; ok {
			filled = append(filled, d)
			continue
		}
		filled = append(filled, DayTotal{Date: day, Total: decimal.Zero})
	}
	return filled
}

// FilterByDate returns the records dated target, in their original order.
func FilterByDate(records []model.Record, target model.Date) []model.Record {
	result := []model.Record{}
	for _, r := range records {
		if r.Date.Equal(target) {
			result = append(result, r)
		}
	}
	return result
}

// FilterByRange returns records dated within [since, until]. A zero bound
// is open.
func FilterByRange(records []model.Record, since, until model.Date) []model.Record {
	if since.IsZero() && until.IsZero() {
		return records
	}

	result := []model.Record{}
	for _, r := range records {
		if !since.IsZero() && r.Date.Before(since) {
			continue
		}
		if !until.IsZero() && r.Date.After(until) {
			continue
		}
		result = append(result, r)
	}
	return result
}

// FilterByCategory returns records whose category contains the substring.
func FilterByCategory(records []model.Record, category string) []model.Record {
	if category == "" {
		return records
	}
	result := []model.Record{}
	for _, r := range records {
		if containsIgnoreCase(r.Category, category) {
			result = append(result, r)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
