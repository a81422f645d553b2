package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used for transaction dates,
// installment start dates and goal deadlines.
const DateLayout = "2006-01-02"

// MonthLayout is the format of monthly-limit keys ("YYYY-MM").
const MonthLayout = "2006-01"

// ParseDate parses a calendar date in the given location at midnight.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats t as a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthKey returns the "YYYY-MM" key of t.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}
