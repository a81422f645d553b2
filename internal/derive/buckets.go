package derive

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
)

// ViewMode selects how the period chart is bucketed.
type ViewMode string

// View modes.
const (
	ViewDaily   ViewMode = "daily"
	ViewWeekly  ViewMode = "weekly"
	ViewMonthly ViewMode = "monthly"
)

// trailingMonths is the window of the monthly view.
const trailingMonths = 6

// ParseViewMode validates a view mode name.
func ParseViewMode(s string) (ViewMode, error) {
	switch v := ViewMode(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewDaily, ViewWeekly, ViewMonthly:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view mode %q (want daily, weekly or monthly)", s)
	}
}

// Next cycles daily -> weekly -> monthly -> daily.
func (v ViewMode) Next() ViewMode {
	switch v {
	case ViewDaily:
		return ViewWeekly
	case ViewWeekly:
		return ViewMonthly
	default:
		return ViewDaily
	}
}

// Bucket is one bar of the period chart.
type Bucket struct {
	ByCategory map[string]float64
	Label      string
	Start      string
	End        string
	Total      float64
	Count      int
	OverLimit  bool
}

func newBucket(label string, start, end time.Time) Bucket {
	return Bucket{
		Label:      label,
		Start:      model.FormatDate(start),
		End:        model.FormatDate(end),
		ByCategory: map[string]float64{},
	}
}

func (b *Bucket) fill(txns []model.Transaction) {
	for _, t := range txns {
		if !t.InRange(b.Start, b.End) {
			continue
		}
		b.Total += t.Amount
		b.Count++
		b.ByCategory[t.CategoryID] += t.Amount
	}
}

// DailyBuckets returns one bucket per day of ref's month. Days whose total
// exceeds a positive dailyLimit are flagged.
func DailyBuckets(txns []model.Transaction, ref time.Time, dailyLimit float64) []Bucket {
	first := firstOfMonth(ref)
	n := daysInMonth(ref)
	out := make([]Bucket, 0, n)
	for i := 0; i < n; i++ {
		d := first.AddDate(0, 0, i)
		b := newBucket(fmt.Sprintf("%d", i+1), d, d)
		b.fill(txns)
		b.OverLimit = dailyLimit > 0 && b.Total > dailyLimit
		out = append(out, b)
	}
	return out
}

// WeeklyBuckets returns Monday-Sunday weeks overlapping ref's month, each
// clipped to the month's first and last day.
func WeeklyBuckets(txns []model.Transaction, ref time.Time) []Bucket {
	first := firstOfMonth(ref)
	last := first.AddDate(0, 1, -1)

	var out []Bucket
	for monday, week := mondayOf(first), 1; !monday.After(last); monday, week = monday.AddDate(0, 0, 7), week+1 {
		start, end := monday, monday.AddDate(0, 0, 6)
		if start.Before(first) {
			start = first
		}
		if end.After(last) {
			end = last
		}
		b := newBucket(fmt.Sprintf("Week %d", week), start, end)
		b.fill(txns)
		out = append(out, b)
	}
	return out
}

// MonthlyBuckets returns the six months ending with ref's month, oldest
// first.
func MonthlyBuckets(txns []model.Transaction, ref time.Time) []Bucket {
	first := firstOfMonth(ref)
	out := make([]Bucket, 0, trailingMonths)
	for i := trailingMonths - 1; i >= 0; i-- {
		start := first.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1)
		b := newBucket(start.Format("01/2006"), start, end)
		b.fill(txns)
		out = append(out, b)
	}
	return out
}

// Buckets dispatches on view.
func Buckets(view ViewMode, txns []model.Transaction, limits map[string]float64, ref time.Time) []Bucket {
	switch view {
	case ViewWeekly:
		return WeeklyBuckets(txns, ref)
	case ViewMonthly:
		return MonthlyBuckets(txns, ref)
	default:
		return DailyBuckets(txns, ref, limits[model.MonthKey(ref)])
	}
}
