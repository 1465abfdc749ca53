// Package dateutils provides calendar-day helpers built on civil.Date.
package dateutils

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Date layouts accepted when reading transaction files and CLI flags.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutSlash    = "02/01/2006"
	DateLayoutUS       = "01/02/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	MonthLayout        = "2006-01"
)

// CommonFormats is tried in order by ParseDate. Day-first wins over US order.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutSlash,
	DateLayoutUS,
	DateLayoutFull,
	DateLayoutISO + "T15:04:05Z07:00",
	"2006/01/02",
	"02-01-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses dateStr with the first matching layout in CommonFormats.
func ParseDate(dateStr string) (civil.Date, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return civil.Date{}, fmt.Errorf("empty date")
	}
	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims whitespace and collapses inner runs of spaces.
func CleanDateString(dateStr string) string {
	return strings.Join(strings.Fields(dateStr), " ")
}

// ToISODate formats d as YYYY-MM-DD, or "" for the zero date.
func ToISODate(d civil.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// DaysBetween returns the whole days from a to b (negative when b is before a).
func DaysBetween(a, b civil.Date) int {
	return b.DaysSince(a)
}

// AddMonths shifts d by n calendar months, normalizing overflowing days the way time.AddDate does.
func AddMonths(d civil.Date, n int) civil.Date {
	return civil.DateOf(d.In(time.UTC).AddDate(0, n, 0))
}

// CompareDates returns -1, 0 or 1 as a is before, equal to or after b.
func CompareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// InRange reports whether d lies in [from, to]. A zero bound is open.
func InRange(d, from, to civil.Date) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the month containing d.
func YearMonthOf(d civil.Date) YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, fmt.Errorf("unable to parse month %q: %w", s, err)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Prev returns the preceding calendar month.
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// Contains reports whether d falls inside the month.
func (ym YearMonth) Contains(d civil.Date) bool {
	return d.Year == ym.Year && d.Month == ym.Month
}

// FirstDay returns the first day of the month.
func (ym YearMonth) FirstDay() civil.Date {
	return civil.Date{Year: ym.Year, Month: ym.Month, Day: 1}
}

// LastDay returns the last day of the month.
func (ym YearMonth) LastDay() civil.Date {
	return AddMonths(ym.FirstDay(), 1).AddDays(-1)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
