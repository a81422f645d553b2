package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smartspend/internal/model"
)

func historyFixture() []model.Transaction {
	return []model.Transaction{
		{ID: "1", Date: "2024-03-01", CategoryID: "c1", Amount: 50000, Note: "Lunch", CreatedAt: 1},
		{ID: "2", Date: "2024-03-05", CategoryID: "c2", Amount: 12.5, Note: "Bus ticket", CreatedAt: 2},
		{ID: "3", Date: "2024-03-05", CategoryID: "c1", Amount: 20, Note: "lunch again", CreatedAt: 3},
		{ID: "4", Date: "2024-04-01", CategoryID: "c1", Amount: 7, Note: "Coffee", CreatedAt: 4},
	}
}

func ids(txns []model.Transaction) []string {
	out := make([]string, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterHistory(t *testing.T) {
	tests := []struct {
		name      string
		filter    Filter
		wantIDs   []string
		wantTotal float64
	}{
		{name: "no filter sorts newest first", wantIDs: []string{"4", "3", "2", "1"}, wantTotal: 50039.5},
		{name: "term matches note case-insensitively", filter: Filter{Term: "LUNCH"}, wantIDs: []string{"3", "1"}, wantTotal: 50020},
		{name: "term matches amount", filter: Filter{Term: "12.5"}, wantIDs: []string{"2"}, wantTotal: 12.5},
		{name: "term matches integral amount", filter: Filter{Term: "500"}, wantIDs: []string{"1"}, wantTotal: 50000},
		{name: "category", filter: Filter{CategoryID: "c1"}, wantIDs: []string{"4", "3", "1"}, wantTotal: 50027},
		{name: "inclusive range", filter: Filter{StartDate: "2024-03-05", EndDate: "2024-04-01"}, wantIDs: []string{"4", "3", "2"}, wantTotal: 39.5},
		{name: "nothing matches", filter: Filter{Term: "rent"}, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := FilterHistory(historyFixture(), tt.filter)
			assert.Equal(t, tt.wantIDs, ids(h.Transactions))
			assert.Equal(t, len(tt.wantIDs), h.Count)
			assert.InDelta(t, tt.wantTotal, h.Total, 1e-9)
		})
	}
}

func TestFilterActive(t *testing.T) {
	assert.False(t, Filter{}.Active())
	assert.True(t, Filter{EndDate: "2024-01-01"}.Active())
}

func TestRecent(t *testing.T) {
	txns := historyFixture()
	recent := Recent(txns, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, []string{"4", "3"}, ids(recent))
	assert.Equal(t, "1", txns[0].ID, "input must not be reordered")

	assert.Len(t, Recent(txns, 10), 4)
}
