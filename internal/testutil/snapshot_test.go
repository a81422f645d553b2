package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/smartspend/internal/testutil"
)

func TestSnapshotBuilder(t *testing.T) {
	b := testutil.NewSnapshotBuilder().
		WithTransaction("2024-05-01", "c1", 10).
		WithNote("2024-05-02", "c2", 5, "bus").
		WithLimit("2024-05", 200).
		WithTodo("pay rent")

	snap := b.Build()
	assert.Len(t, snap.Transactions, 2)
	assert.Equal(t, "t2", snap.Transactions[1].ID)
	assert.Equal(t, "bus", snap.Transactions[1].Note)
	assert.Len(t, snap.Categories, 7)
	assert.InDelta(t, 200, snap.MonthlyLimits["2024-05"], 0.001)

	snap.MonthlyLimits["2024-05"] = 1
	assert.InDelta(t, 200, b.Build().MonthlyLimits["2024-05"], 0.001, "built snapshots are independent")
}

func TestSetupTestStoreWith(t *testing.T) {
	snap := testutil.NewSnapshotBuilder().
		WithoutCategories().
		WithCategory("x", "Travel", 50).
		WithTransaction("2024-06-10", "x", 42).
		Build()

	store := testutil.SetupTestStoreWith(t, snap)
	got := store.Snapshot()
	assert.Equal(t, snap.Transactions, got.Transactions)
	assert.Equal(t, snap.Categories, got.Categories)
	assert.JSONEq(t, `[{"id":"x","name":"Travel","color":"#0ea5e9","budgetLimit":50,"isDefault":false}]`, string(store.MustRaw("categories")))
}
