package model

import "time"

// Default notes for goal entries without one.
const (
	DepositNote    = "Deposit"
	WithdrawalNote = "Withdrawal"
)

// GoalEntry is one deposit (positive) or withdrawal (negative).
type GoalEntry struct {
	Date   string  `json:"date"` // RFC3339
	Note   string  `json:"note"`
	Amount float64 `json:"amount"`
}

// Goal is a savings target with an append-only history.
type Goal struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Color     string      `json:"color"`
	Deadline  string      `json:"deadline,omitempty"` // YYYY-MM-DD
	StartDate string      `json:"startDate"`          // RFC3339
	History   []GoalEntry `json:"history"`
	Target    float64     `json:"target"`
	Current   float64     `json:"current"`
}

// HistoryTotal sums every entry amount.
func (g Goal) HistoryTotal() float64 {
	var sum float64
	for _, h := range g.History {
		sum += h.Amount
	}
	return sum
}

// Seed is the part of Current not explained by History, carried over from
// records that predate history tracking.
func (g Goal) Seed() float64 {
	return g.Current - g.HistoryTotal()
}

// Append records a signed entry and recomputes Current as seed plus the
// running sum of the history.
func (g *Goal) Append(amount float64, note string, at time.Time) {
	seed := g.Seed()
	if note == "" {
		note = DepositNote
		if amount < 0 {
			note = WithdrawalNote
		}
	}
	g.History = append(g.History, GoalEntry{
		Date:   at.Format(time.RFC3339),
		Amount: amount,
		Note:   note,
	})
	g.Current = seed + g.HistoryTotal()
}
