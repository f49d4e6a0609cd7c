package core

import (
	"testing"
	"time"
)

func TestMonthOf(t *testing.T) {
	cases := map[string]string{
		"2024-03-05": "2024-03",
		"2024-03":    "2024-03",
		"2024":       "2024",
		"":           "",
		"garbage!!":  "garbage",
	}
	for in, want := range cases {
		if got := MonthOf(in); got != want {
			t.Fatalf("MonthOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPreviousMonth(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2024-03", "2024-02"},
		{"2024-01", "2023-12"},
		{"2000-12", "2000-11"},
	}
	for _, tc := range cases {
		got, err := PreviousMonth(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("PreviousMonth(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
	if _, err := PreviousMonth("2024-3"); err != ErrInvalidMonth {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestCurrentMonth(t *testing.T) {
	now := time.Date(2025, time.January, 31, 23, 59, 0, 0, time.UTC)
	if got := CurrentMonth(now); got != "2025-01" {
		t.Fatalf("expected 2025-01, got %s", got)
	}
}
