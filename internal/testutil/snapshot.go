package testutil

import (
	"fmt"

	"github.com/Veraticus/smartspend/internal/model"
)

// SnapshotBuilder assembles a snapshot fluently. Ids are sequential per
// collection so tests can refer to them ("t1", "g1", ...).
type SnapshotBuilder struct {
	snap model.Snapshot
}

// NewSnapshotBuilder starts from the empty snapshot with default categories.
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{snap: model.EmptySnapshot()}
}

// WithoutCategories drops the default categories.
func (b *SnapshotBuilder) WithoutCategories() *SnapshotBuilder {
	b.snap.Categories = []model.Category{}
	return b
}

// WithCategory adds a category with the given id.
func (b *SnapshotBuilder) WithCategory(id, name string, limit float64) *SnapshotBuilder {
	b.snap.Categories = append(b.snap.Categories, model.Category{
		ID:          id,
		Name:        name,
		Color:       "#0ea5e9",
		BudgetLimit: limit,
	})
	return b
}

// WithTransaction adds an expense on date (YYYY-MM-DD).
func (b *SnapshotBuilder) WithTransaction(date, categoryID string, amount float64) *SnapshotBuilder {
	return b.WithNote(date, categoryID, amount, "")
}

// WithNote adds an expense carrying a note.
func (b *SnapshotBuilder) WithNote(date, categoryID string, amount float64, note string) *SnapshotBuilder {
	n := len(b.snap.Transactions) + 1
	b.snap.Transactions = append(b.snap.Transactions, model.Transaction{
		ID:         fmt.Sprintf("t%d", n),
		Date:       date,
		CategoryID: categoryID,
		Amount:     amount,
		Note:       note,
		CreatedAt:  int64(n),
	})
	return b
}

// WithLimit sets the spending limit of a month (YYYY-MM).
func (b *SnapshotBuilder) WithLimit(month string, limit float64) *SnapshotBuilder {
	b.snap.MonthlyLimits[month] = limit
	return b
}

// WithInstallment adds an installment plan.
func (b *SnapshotBuilder) WithInstallment(inst model.Installment) *SnapshotBuilder {
	if inst.ID == "" {
		inst.ID = fmt.Sprintf("i%d", len(b.snap.Installments)+1)
	}
	b.snap.Installments = append(b.snap.Installments, inst)
	return b
}

// WithGoal adds a goal.
func (b *SnapshotBuilder) WithGoal(g model.Goal) *SnapshotBuilder {
	if g.ID == "" {
		g.ID = fmt.Sprintf("g%d", len(b.snap.Goals)+1)
	}
	b.snap.Goals = append(b.snap.Goals, g)
	return b
}

// WithInvestment adds an investment.
func (b *SnapshotBuilder) WithInvestment(inv model.Investment) *SnapshotBuilder {
	if inv.ID == "" {
		inv.ID = fmt.Sprintf("v%d", len(b.snap.Investments)+1)
	}
	b.snap.Investments = append(b.snap.Investments, inv)
	return b
}

// WithTodo adds an open todo.
func (b *SnapshotBuilder) WithTodo(text string) *SnapshotBuilder {
	b.snap.Todos = append(b.snap.Todos, model.Todo{
		ID:   fmt.Sprintf("d%d", len(b.snap.Todos)+1),
		Text: text,
	})
	return b
}

// Build returns a deep copy, so the builder can keep being used.
func (b *SnapshotBuilder) Build() model.Snapshot {
	return b.snap.Clone()
}
