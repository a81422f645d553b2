package derive

import (
	"sort"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
)

// CategorySlice is one category's share of a month's spending.
type CategorySlice struct {
	Category model.Category
	Total    float64
	OverBy   float64
	Count    int
	Known    bool
	Over     bool
}

// CategoryBreakdown totals ref's month per category, largest first. Ids that
// no longer resolve are reported with the unknown-category placeholder.
func CategoryBreakdown(txns []model.Transaction, categories []model.Category, ref time.Time) []CategorySlice {
	key := model.MonthKey(ref)
	byID := map[string]*CategorySlice{}
	var order []string

	for _, t := range txns {
		if !t.InMonth(key) {
			continue
		}
		s, ok := byID[t.CategoryID]
		if !ok {
			cat, known := model.LookupCategory(categories, t.CategoryID)
			s = &CategorySlice{Category: cat, Known: known}
			byID[t.CategoryID] = s
			order = append(order, t.CategoryID)
		}
		s.Total += t.Amount
		s.Count++
	}

	out := make([]CategorySlice, 0, len(order))
	for _, id := range order {
		s := *byID[id]
		if limit := s.Category.BudgetLimit; s.Known && limit > 0 && s.Total > limit {
			s.Over = true
			s.OverBy = s.Total - limit
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}
