// Package derive computes the figures renderers show: monthly totals, limit
// status, period buckets, installment schedules, goal projections and
// investment results. Every function is a pure function of its arguments.
package derive

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// civil truncates t to midnight of its calendar date, expressed in UTC so
// that day arithmetic is immune to DST shifts.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(math.Round(civil(b).Sub(civil(a)).Hours() / 24))
}

// daysInMonth returns the day count of t's month.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// firstOfMonth returns the first day of t's month.
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// mondayOf returns the Monday starting t's ISO week.
func mondayOf(t time.Time) time.Time {
	d := civil(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
