package derive

import (
	"time"

	"github.com/Veraticus/smartspend/internal/model"
)

// Aggregate is the spending total of one month.
type Aggregate struct {
	Month string
	Total float64
	Count int
}

// MonthTransactions returns the transactions dated in ref's month.
func MonthTransactions(txns []model.Transaction, ref time.Time) []model.Transaction {
	key := model.MonthKey(ref)
	var out []model.Transaction
	for _, t := range txns {
		if t.InMonth(key) {
			out = append(out, t)
		}
	}
	return out
}

// MonthlyAggregate sums the amounts of transactions dated in ref's month.
func MonthlyAggregate(txns []model.Transaction, ref time.Time) Aggregate {
	agg := Aggregate{Month: model.MonthKey(ref)}
	for _, t := range txns {
		if t.InMonth(agg.Month) {
			agg.Total += t.Amount
			agg.Count++
		}
	}
	return agg
}

// LimitStatus compares spending against the daily limit accumulated over
// the elapsed part of the period.
type LimitStatus struct {
	DailyLimit  float64
	Accumulated float64
	Spent       float64
	Diff        float64
	DaysElapsed int
	Configured  bool
	Safe        bool
}

// ComputeLimitStatus evaluates ref's month against its configured daily
// limit. Days elapsed is now's day-of-month when ref is the current month
// and the full length of ref's month otherwise.
func ComputeLimitStatus(limits map[string]float64, spent float64, ref, now time.Time) LimitStatus {
	st := LimitStatus{
		DailyLimit: limits[model.MonthKey(ref)],
		Spent:      spent,
	}
	if st.DailyLimit <= 0 {
		return st
	}
	st.Configured = true

	if sameMonth(ref, now) {
		st.DaysElapsed = now.Day()
	} else {
		st.DaysElapsed = daysInMonth(ref)
	}
	st.Accumulated = st.DailyLimit * float64(st.DaysElapsed)
	st.Diff = st.Accumulated - spent
	st.Safe = st.Diff >= 0
	return st
}
