package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the only date layout accepted and produced at service boundaries
const ISODate = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// DateOf returns the civil date of t as midnight UTC.
// Two values with the same wall-clock day compare equal after DateOf,
// whatever their original locations were.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a civil date (midnight UTC)
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns the first day of the given month as a civil date
func StartOfMonth(year int, month time.Month) time.Time {
	return Date(year, month, 1)
}

// StartOfNextMonth returns the first day of the month after the given one
func StartOfNextMonth(year int, month time.Month) time.Time {
	return StartOfMonth(year, month).AddDate(0, 1, 0)
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(ISODate)
}

// ParseDate parses a strict ISO-8601 calendar date (YYYY-MM-DD)
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(ISODate, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", dateStr)
	}
	return t, nil
}

// ParseDateLenient parses a date that may carry a time-of-day component
// and truncates it to the civil date. Used when reading data files, where
// spreadsheet exports often write "2025-11-02 00:00:00".
func ParseDateLenient(dateStr string) (time.Time, error) {
	formats := []string{
		ISODate,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}

	dateStr = strings.TrimSpace(dateStr)
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return DateOf(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", dateStr)
}

// Today returns today's civil date as seen in loc
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(now.In(loc))
}
