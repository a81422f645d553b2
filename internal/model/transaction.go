package model

import "strings"

// Transaction is a single expense entry.
type Transaction struct {
	ID         string  `json:"id"`
	CategoryID string  `json:"categoryId"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Note       string  `json:"note"`
	Amount     float64 `json:"amount"`
	CreatedAt  int64   `json:"createdAt"` // unix milliseconds
}

// InMonth reports whether the transaction date falls in the "YYYY-MM" month.
func (t Transaction) InMonth(monthKey string) bool {
	return strings.HasPrefix(t.Date, monthKey)
}

// InRange reports whether the transaction date lies in [start, end], both
// inclusive calendar dates.
func (t Transaction) InRange(start, end string) bool {
	return t.Date >= start && t.Date <= end
}
