package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/smartspend/internal/model"
)

func TestBuildDashboard(t *testing.T) {
	s := model.EmptySnapshot()
	s.Transactions = []model.Transaction{
		txn("1", "2024-03-02", "c1", 100),
		txn("2", "2024-03-03", "c2", 50),
		txn("3", "2024-02-03", "c2", 5),
	}
	s.MonthlyLimits["2024-03"] = 40
	s.Installments = []model.Installment{{TotalValue: 1200, Term: 12}}
	s.Goals = []model.Goal{{ID: "g", Target: 100, Current: 10}}
	s.Todos = []model.Todo{{ID: "t1"}, {ID: "t2", Completed: true}}

	d := BuildDashboard(s, date("2024-03-01"), ViewWeekly, date("2024-03-04"))

	assert.Equal(t, "2024-03", d.Aggregate.Month)
	assert.InDelta(t, 150, d.Aggregate.Total, 1e-9)
	assert.True(t, d.Limit.Configured)
	assert.Equal(t, 4, d.Limit.DaysElapsed)
	assert.True(t, d.Limit.Safe)
	assert.Len(t, d.Buckets, 5)
	assert.Len(t, d.Categories, 2)
	assert.Len(t, d.Recent, 3)
	assert.InDelta(t, 100, d.MonthlyDue, 1e-9)
	assert.Equal(t, 1, d.ActiveInstalls)
	assert.Len(t, d.Goals, 1)
	assert.Equal(t, GoalNoDeadline, d.Goals[0].Projection.Status)
	assert.Equal(t, 1, d.TodosRemaining)
}
