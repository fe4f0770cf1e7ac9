package taskflow

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for due and start dates.
const DateLayout = "2006-01-02"

// FormatDate renders the UTC calendar date of t. Today, due dates and
// completion dates all compare in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// AddDays shifts a calendar date by n days.
func AddDays(date string, n int) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(d.AddDate(0, 0, n)), nil
}

// Millis converts t to Unix milliseconds, the storage form of timestamps.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// MillisDate returns the UTC calendar date of a millisecond timestamp.
func MillisDate(ms int64) string {
	return FormatDate(time.UnixMilli(ms))
}
