package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smartspend/internal/model"
)

func TestDailyBuckets(t *testing.T) {
	txns := []model.Transaction{
		txn("1", "2024-02-01", "c1", 30),
		txn("2", "2024-02-01", "c2", 80),
		txn("3", "2024-02-29", "c1", 10),
		txn("4", "2024-03-01", "c1", 500),
	}

	buckets := DailyBuckets(txns, date("2024-02-15"), 100)
	require.Len(t, buckets, 29)

	assert.Equal(t, "1", buckets[0].Label)
	assert.InDelta(t, 110, buckets[0].Total, 1e-9)
	assert.Equal(t, 2, buckets[0].Count)
	assert.True(t, buckets[0].OverLimit)
	assert.InDelta(t, 30, buckets[0].ByCategory["c1"], 1e-9)
	assert.InDelta(t, 80, buckets[0].ByCategory["c2"], 1e-9)

	assert.Equal(t, "2024-02-29", buckets[28].Start)
	assert.InDelta(t, 10, buckets[28].Total, 1e-9)
	assert.False(t, buckets[28].OverLimit)

	noLimit := DailyBuckets(txns, date("2024-02-15"), 0)
	assert.False(t, noLimit[0].OverLimit)
}

func TestWeeklyBuckets_ClippedToMonth(t *testing.T) {
	// June 2024 starts on a Saturday and ends on a Sunday.
	txns := []model.Transaction{
		txn("1", "2024-05-31", "c1", 1000),
		txn("2", "2024-06-01", "c1", 5),
		txn("3", "2024-06-02", "c1", 5),
		txn("4", "2024-06-03", "c1", 7),
		txn("5", "2024-06-30", "c1", 9),
	}

	buckets := WeeklyBuckets(txns, date("2024-06-10"))
	require.Len(t, buckets, 5)

	wantRanges := [][2]string{
		{"2024-06-01", "2024-06-02"},
		{"2024-06-03", "2024-06-09"},
		{"2024-06-10", "2024-06-16"},
		{"2024-06-17", "2024-06-23"},
		{"2024-06-24", "2024-06-30"},
	}
	for i, r := range wantRanges {
		assert.Equal(t, r[0], buckets[i].Start, "week %d start", i+1)
		assert.Equal(t, r[1], buckets[i].End, "week %d end", i+1)
	}
	assert.InDelta(t, 10, buckets[0].Total, 1e-9)
	assert.InDelta(t, 7, buckets[1].Total, 1e-9)
	assert.InDelta(t, 9, buckets[4].Total, 1e-9)
	assert.Equal(t, "Week 1", buckets[0].Label)
}

func TestWeeklyBuckets_MonthStartingMonday(t *testing.T) {
	// April 2024 starts on a Monday.
	buckets := WeeklyBuckets(nil, date("2024-04-01"))
	require.Len(t, buckets, 5)
	assert.Equal(t, "2024-04-01", buckets[0].Start)
	assert.Equal(t, "2024-04-07", buckets[0].End)
	assert.Equal(t, "2024-04-29", buckets[4].Start)
	assert.Equal(t, "2024-04-30", buckets[4].End)
}

func TestMonthlyBuckets(t *testing.T) {
	txns := []model.Transaction{
		txn("1", "2023-10-31", "c1", 1),
		txn("2", "2023-11-01", "c1", 2),
		txn("3", "2024-01-15", "c1", 3),
		txn("4", "2024-04-30", "c1", 4),
		txn("5", "2024-05-01", "c1", 100),
	}

	buckets := MonthlyBuckets(txns, date("2024-04-10"))
	require.Len(t, buckets, 6)
	assert.Equal(t, "11/2023", buckets[0].Label)
	assert.Equal(t, "2023-11-01", buckets[0].Start)
	assert.Equal(t, "2023-11-30", buckets[0].End)
	assert.InDelta(t, 2, buckets[0].Total, 1e-9)
	assert.InDelta(t, 3, buckets[2].Total, 1e-9)
	assert.Equal(t, "04/2024", buckets[5].Label)
	assert.InDelta(t, 4, buckets[5].Total, 1e-9)
}

func TestBuckets_Dispatch(t *testing.T) {
	limits := map[string]float64{"2024-02": 10}
	txns := []model.Transaction{txn("1", "2024-02-03", "c1", 20)}

	assert.Len(t, Buckets(ViewDaily, txns, limits, date("2024-02-01")), 29)
	assert.True(t, Buckets(ViewDaily, txns, limits, date("2024-02-01"))[2].OverLimit)
	assert.Len(t, Buckets(ViewWeekly, txns, limits, date("2024-02-01")), 5)
	assert.Len(t, Buckets(ViewMonthly, txns, limits, date("2024-02-01")), 6)
}

func TestCategoryBreakdown(t *testing.T) {
	cats := []model.Category{
		{ID: "c1", Name: "Food", Color: "#f00", BudgetLimit: 100},
		{ID: "c2", Name: "Travel", Color: "#0f0"},
	}
	txns := []model.Transaction{
		txn("1", "2024-03-02", "c1", 60),
		txn("2", "2024-03-03", "c1", 70),
		txn("3", "2024-03-04", "c2", 20),
		txn("4", "2024-03-05", "gone", 300),
		txn("5", "2024-04-01", "c2", 1000),
	}

	slices := CategoryBreakdown(txns, cats, date("2024-03-01"))
	require.Len(t, slices, 3)

	assert.Equal(t, "gone", slices[0].Category.ID)
	assert.False(t, slices[0].Known)
	assert.Equal(t, model.UnknownCategoryColor, slices[0].Category.Color)

	assert.Equal(t, "c1", slices[1].Category.ID)
	assert.InDelta(t, 130, slices[1].Total, 1e-9)
	assert.Equal(t, 2, slices[1].Count)
	assert.True(t, slices[1].Over)
	assert.InDelta(t, 30, slices[1].OverBy, 1e-9)

	assert.Equal(t, "c2", slices[2].Category.ID)
	assert.False(t, slices[2].Over)
}
