package model

import (
	"maps"
	"slices"
)

// Snapshot is every synced collection. Its JSON form is the blob stored
// remotely; monthly limits travel under "limits".
type Snapshot struct {
	MonthlyLimits map[string]float64 `json:"limits"`
	Transactions  []Transaction      `json:"transactions"`
	Categories    []Category         `json:"categories"`
	Installments  []Installment      `json:"installments"`
	Goals         []Goal             `json:"goals"`
	Todos         []Todo             `json:"todos"`
	Investments   []Investment       `json:"investments"`
}

// EmptySnapshot returns a snapshot with non-nil collections and the default
// categories.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Transactions:  []Transaction{},
		Categories:    DefaultCategories(),
		Installments:  []Installment{},
		Goals:         []Goal{},
		Todos:         []Todo{},
		Investments:   []Investment{},
		MonthlyLimits: map[string]float64{},
	}
}

// Clone returns a deep copy safe to hand to renderers or another goroutine.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Transactions:  slices.Clone(s.Transactions),
		Categories:    slices.Clone(s.Categories),
		Installments:  slices.Clone(s.Installments),
		Todos:         slices.Clone(s.Todos),
		MonthlyLimits: maps.Clone(s.MonthlyLimits),
	}
	if s.Goals != nil {
		out.Goals = make([]Goal, len(s.Goals))
		for i, g := range s.Goals {
			g.History = slices.Clone(g.History)
			out.Goals[i] = g
		}
	}
	if s.Investments != nil {
		out.Investments = make([]Investment, len(s.Investments))
		for i, inv := range s.Investments {
			inv.History = slices.Clone(inv.History)
			if inv.Capital != nil {
				c := *inv.Capital
				inv.Capital = &c
			}
			if inv.Profit != nil {
				p := *inv.Profit
				inv.Profit = &p
			}
			out.Investments[i] = inv
		}
	}
	return out
}

// MigrateInvestments runs the legacy investment migration over every record
// and returns how many changed.
func (s *Snapshot) MigrateInvestments() int {
	n := 0
	for i := range s.Investments {
		if s.Investments[i].MigrateLegacy() {
			n++
		}
	}
	return n
}
