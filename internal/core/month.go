package core

import (
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	monthKeyLen = len(MonthLayout)
)

// MonthOf returns the YYYY-MM bucket of an ISO date by taking its first seven
// characters. Shorter strings are returned unchanged; a malformed date simply
// lands in a bucket nothing else matches.
func MonthOf(date string) string {
	if len(date) < monthKeyLen {
		return date
	}
	return date[:monthKeyLen]
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// CurrentMonth returns the YYYY-MM key of now.
func CurrentMonth(now time.Time) string {
	return MonthKey(now)
}

// PreviousMonth returns the month before month, rolling back across the year
// boundary (2024-01 -> 2023-12).
func PreviousMonth(month string) (string, error) {
	t, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	return MonthKey(t.AddDate(0, -1, 0)), nil
}

func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
