package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvestment_MigrateLegacy(t *testing.T) {
	var inv Investment
	require.NoError(t, json.Unmarshal([]byte(`{"id":"i1","name":"Gold","capital":1000,"profit":250}`), &inv))

	assert.True(t, inv.Legacy())
	assert.True(t, inv.MigrateLegacy())
	assert.InDelta(t, 1000, inv.Invested, 0.001)
	assert.InDelta(t, 1250, inv.Revenue, 0.001)
	assert.Nil(t, inv.Capital)
	assert.Nil(t, inv.Profit)

	before := inv
	assert.False(t, inv.MigrateLegacy(), "second migration must be a no-op")
	assert.Equal(t, before, inv)

	out, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "capital")
	assert.NotContains(t, string(out), "profit")
}

func TestInvestment_MigrateLegacy_AlreadyMigrated(t *testing.T) {
	var inv Investment
	require.NoError(t, json.Unmarshal([]byte(`{"id":"i1","invested":10,"revenue":30}`), &inv))

	assert.False(t, inv.Legacy())
	assert.False(t, inv.MigrateLegacy())
	assert.InDelta(t, 10, inv.Invested, 0.001)
	assert.InDelta(t, 30, inv.Revenue, 0.001)
}

func TestInvestment_MigrateLegacy_BothShapes(t *testing.T) {
	// invested already present: keep it, only drop the stale legacy keys
	var inv Investment
	require.NoError(t, json.Unmarshal([]byte(`{"id":"i1","invested":5,"revenue":7,"capital":100,"profit":1}`), &inv))

	assert.True(t, inv.MigrateLegacy())
	assert.InDelta(t, 5, inv.Invested, 0.001)
	assert.InDelta(t, 7, inv.Revenue, 0.001)
	assert.Nil(t, inv.Capital)
}

func TestInvestment_Record(t *testing.T) {
	inv := Investment{ID: "i1"}
	inv.Record(100, 0, "2024-01-01T00:00:00Z")
	inv.Record(0, 160, "2024-02-01T00:00:00Z")
	inv.Record(20, 5, "2024-03-01T00:00:00Z")

	assert.InDelta(t, 120, inv.Invested, 0.001)
	assert.InDelta(t, 165, inv.Revenue, 0.001)
	assert.InDelta(t, 45, inv.Net(), 0.001)
	assert.Len(t, inv.History, 3)
}

func TestSnapshot_MigrateInvestments(t *testing.T) {
	var snap Snapshot
	blob := `{"investments":[{"id":"a","capital":1,"profit":1},{"id":"b","invested":3,"revenue":4}]}`
	require.NoError(t, json.Unmarshal([]byte(blob), &snap))

	assert.Equal(t, 1, snap.MigrateInvestments())
	assert.Equal(t, 0, snap.MigrateInvestments())
	assert.InDelta(t, 2, snap.Investments[0].Revenue, 0.001)
}
