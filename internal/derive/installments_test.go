package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smartspend/internal/model"
)

func TestSchedule(t *testing.T) {
	inst := model.Installment{
		ID:           "i1",
		StartDate:    "2024-01-31",
		TotalValue:   1200000,
		InterestRate: 1,
		Term:         12,
		PaidMonths:   3,
	}

	entries, err := Schedule(inst)
	require.NoError(t, err)
	require.Len(t, entries, 12)

	assert.Equal(t, "2024-01-31", model.FormatDate(entries[0].DueDate))
	assert.Equal(t, 1, entries[0].Period())
	// Month overflow normalizes into the following month.
	assert.Equal(t, "2024-03-02", model.FormatDate(entries[1].DueDate))
	assert.Equal(t, "2024-03-31", model.FormatDate(entries[2].DueDate))

	for i, e := range entries {
		assert.Equal(t, i < 3, e.Paid, "period %d", e.Period())
		assert.InDelta(t, 112000, e.Payment, 1e-6)
	}

	_, err = Schedule(model.Installment{StartDate: "not a date", Term: 2})
	assert.Error(t, err)
}

func TestSummarizeInstallment(t *testing.T) {
	inst := model.Installment{TotalValue: 1200, InterestRate: 2, Term: 12, PaidMonths: 4}
	s := SummarizeInstallment(inst)

	assert.InDelta(t, 124, s.Monthly, 1e-9)
	assert.InDelta(t, 24, s.MonthlyInterest, 1e-9)
	assert.InDelta(t, 1488, s.TotalPayable, 1e-9)
	assert.InDelta(t, 288, s.TotalInterest, 1e-9)
	assert.InDelta(t, 496, s.PaidAmount, 1e-9)
	assert.InDelta(t, 992, s.RemainingAmount, 1e-9)
	assert.InDelta(t, 100.0/3, s.Percent, 1e-9)
	assert.Equal(t, 8, s.RemainingPeriods)
	assert.False(t, s.Finished)

	inst.PaidMonths = 12
	assert.True(t, SummarizeInstallment(inst).Finished)
}

func TestTotalMonthlyDue(t *testing.T) {
	insts := []model.Installment{
		{TotalValue: 1200, Term: 12, PaidMonths: 0},
		{TotalValue: 600, Term: 6, PaidMonths: 6},
		{TotalValue: 300, InterestRate: 10, Term: 3, PaidMonths: 1},
	}
	assert.InDelta(t, 100+130, TotalMonthlyDue(insts), 1e-9)
	assert.Equal(t, 2, ActiveInstallments(insts))
}
