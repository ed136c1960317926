// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/calcdash/pkg/constants"
)

const (
	// DateLayout is the day format of every persisted record date.
	DateLayout = constants.DateLayout

	// MonthLayout is the format of month buckets.
	MonthLayout = constants.MonthLayout

	// ClockLayout is the format of sleep and wake times.
	ClockLayout = constants.ClockLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDay parses a YYYY-MM-DD record date.
func ParseDay(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", date, err)
	}
	return t, nil
}

// FormatDay formats a time as a YYYY-MM-DD record date.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthOf returns the YYYY-MM bucket of a YYYY-MM-DD date.
func MonthOf(date string) (string, error) {
	t, err := ParseDay(date)
	if err != nil {
		return "", err
	}
	return t.Format(MonthLayout), nil
}

// OffsetDays returns the YYYY-MM-DD date offset by the given number of days.
func OffsetDays(date string, days int) (string, error) {
	t, err := ParseDay(date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// OffsetMonth returns the YYYY-MM month offset by the given number of months.
func OffsetMonth(month string, months int) (string, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return month, err
	}
	return t.AddDate(0, months, 0).Format(MonthLayout), nil
}

// ParseClock parses an HH:MM time of day and returns minutes since midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ClockHour returns the hour component of an HH:MM time of day.
func ClockHour(clock string) (int, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return 0, err
	}
	return minutes / 60, nil
}

// ForwardDuration returns the time elapsed going forward from one HH:MM
// clock reading to the next occurrence of another. Equal readings span a full
// day.
func ForwardDuration(from, to string) (time.Duration, error) {
	start, err := ParseClock(from)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(to)
	if err != nil {
		return 0, err
	}
	if end <= start {
		end += 24 * 60
	}
	return time.Duration(end-start) * time.Minute, nil
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate string, secondDate string) (bool, error) {
	firstDateT, err := ParseDay(firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := ParseDay(secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}
