package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smartspend/internal/model"
)

func date(s string) time.Time {
	t, err := time.ParseInLocation(model.DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func txn(id, d, cat string, amount float64) model.Transaction {
	return model.Transaction{ID: id, Date: d, CategoryID: cat, Amount: amount}
}

func TestMonthlyAggregate(t *testing.T) {
	txns := []model.Transaction{
		txn("1", "2024-03-01", "c1", 100),
		txn("2", "2024-03-31", "c2", 50.5),
		txn("3", "2024-04-01", "c1", 999),
		txn("4", "2024-02-29", "c1", 7),
	}

	agg := MonthlyAggregate(txns, date("2024-03-15"))
	assert.Equal(t, "2024-03", agg.Month)
	assert.InDelta(t, 150.5, agg.Total, 1e-9)
	assert.Equal(t, 2, agg.Count)

	assert.Len(t, MonthTransactions(txns, date("2024-03-15")), 2)
	assert.Zero(t, MonthlyAggregate(txns, date("2023-03-15")).Count)
}

func TestComputeLimitStatus(t *testing.T) {
	limits := map[string]float64{"2024-03": 100000, "2024-02": 50}
	tests := []struct {
		ref, now   time.Time
		name       string
		spent      float64
		wantDays   int
		wantAccum  float64
		wantDiff   float64
		wantConfig bool
		wantSafe   bool
	}{
		{
			name:       "current month counts elapsed days",
			ref:        date("2024-03-01"),
			now:        date("2024-03-10"),
			spent:      1200000,
			wantConfig: true,
			wantDays:   10,
			wantAccum:  1000000,
			wantDiff:   -200000,
		},
		{
			name:       "past month counts every day",
			ref:        date("2024-02-10"),
			now:        date("2024-03-10"),
			spent:      1000,
			wantConfig: true,
			wantDays:   29,
			wantAccum:  1450,
			wantDiff:   450,
			wantSafe:   true,
		},
		{
			name:       "exactly on budget is safe",
			ref:        date("2024-03-01"),
			now:        date("2024-03-02"),
			spent:      200000,
			wantConfig: true,
			wantDays:   2,
			wantAccum:  200000,
			wantSafe:   true,
		},
		{
			name:  "unconfigured month",
			ref:   date("2024-05-01"),
			now:   date("2024-05-05"),
			spent: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := ComputeLimitStatus(limits, tt.spent, tt.ref, tt.now)
			assert.Equal(t, tt.wantConfig, st.Configured)
			assert.Equal(t, tt.wantDays, st.DaysElapsed)
			assert.InDelta(t, tt.wantAccum, st.Accumulated, 1e-9)
			assert.InDelta(t, tt.wantDiff, st.Diff, 1e-9)
			assert.Equal(t, tt.wantSafe, st.Safe)
			assert.InDelta(t, tt.spent, st.Spent, 1e-9)
		})
	}
}

func TestParseViewMode(t *testing.T) {
	v, err := ParseViewMode(" Weekly ")
	require.NoError(t, err)
	assert.Equal(t, ViewWeekly, v)

	_, err = ParseViewMode("yearly")
	assert.Error(t, err)

	assert.Equal(t, ViewWeekly, ViewDaily.Next())
	assert.Equal(t, ViewMonthly, ViewWeekly.Next())
	assert.Equal(t, ViewDaily, ViewMonthly.Next())
}
