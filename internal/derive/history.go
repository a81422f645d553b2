package derive

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Veraticus/smartspend/internal/model"
)

// Filter narrows the transaction history. Empty fields match everything.
type Filter struct {
	Term       string // matched against note and amount, case-insensitive
	CategoryID string
	StartDate  string // inclusive YYYY-MM-DD
	EndDate    string // inclusive YYYY-MM-DD
}

// Active reports whether any field is set.
func (f Filter) Active() bool {
	return f.Term != "" || f.CategoryID != "" || f.StartDate != "" || f.EndDate != ""
}

func (f Filter) matches(t model.Transaction) bool {
	if f.CategoryID != "" && t.CategoryID != f.CategoryID {
		return false
	}
	if f.StartDate != "" && t.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && t.Date > f.EndDate {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Term)); term != "" {
		amount := strconv.FormatFloat(t.Amount, 'f', -1, 64)
		if !strings.Contains(strings.ToLower(t.Note), term) && !strings.Contains(amount, term) {
			return false
		}
	}
	return true
}

// History is a filtered, newest-first view of transactions.
type History struct {
	Transactions []model.Transaction
	Total        float64
	Count        int
}

// FilterHistory applies f and sorts the result newest first.
func FilterHistory(txns []model.Transaction, f Filter) History {
	var h History
	for _, t := range txns {
		if f.matches(t) {
			h.Transactions = append(h.Transactions, t)
			h.Total += t.Amount
		}
	}
	h.Count = len(h.Transactions)
	SortNewestFirst(h.Transactions)
	return h
}

// SortNewestFirst orders by date descending, then creation time descending.
func SortNewestFirst(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if txns[i].Date != txns[j].Date {
			return txns[i].Date > txns[j].Date
		}
		return txns[i].CreatedAt > txns[j].CreatedAt
	})
}

// Recent returns the n newest transactions without modifying txns.
func Recent(txns []model.Transaction, n int) []model.Transaction {
	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	SortNewestFirst(sorted)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
