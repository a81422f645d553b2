package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smartspend/internal/model"
)

func TestBulkRangeFor(t *testing.T) {
	tests := []struct {
		name      string
		scope     BulkScope
		anchor    string
		wantStart string
		wantEnd   string
		wantMonth string
		wantErr   bool
	}{
		{name: "day", scope: BulkDay, anchor: "2024-03-13", wantStart: "2024-03-13", wantEnd: "2024-03-13"},
		{name: "week from wednesday", scope: BulkWeek, anchor: "2024-03-13", wantStart: "2024-03-11", wantEnd: "2024-03-17"},
		{name: "week from sunday", scope: BulkWeek, anchor: "2024-03-17", wantStart: "2024-03-11", wantEnd: "2024-03-17"},
		{name: "week from monday", scope: BulkWeek, anchor: "2024-03-11", wantStart: "2024-03-11", wantEnd: "2024-03-17"},
		{name: "week spanning months", scope: BulkWeek, anchor: "2024-03-01", wantStart: "2024-02-26", wantEnd: "2024-03-03"},
		{name: "month key", scope: BulkMonth, anchor: "2024-03", wantMonth: "2024-03"},
		{name: "month from date", scope: BulkMonth, anchor: "2024-03-13", wantMonth: "2024-03"},
		{name: "bad day", scope: BulkDay, anchor: "2024-13-01", wantErr: true},
		{name: "bad month", scope: BulkMonth, anchor: "March", wantErr: true},
		{name: "month from impossible date", scope: BulkMonth, anchor: "2024-03-99", wantErr: true},
		{name: "month with trailing junk", scope: BulkMonth, anchor: "2024-03x", wantErr: true},
		{name: "bad scope", scope: "year", anchor: "2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := BulkRangeFor(tt.scope, tt.anchor)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, r.Start)
			assert.Equal(t, tt.wantEnd, r.End)
			assert.Equal(t, tt.wantMonth, r.Month)
		})
	}
}

func TestBulkRange_Matches(t *testing.T) {
	txns := []model.Transaction{
		txn("1", "2024-03-10", "c1", 1),
		txn("2", "2024-03-11", "c1", 1),
		txn("3", "2024-03-17", "c1", 1),
		txn("4", "2024-03-18", "c1", 1),
		txn("5", "2024-04-01", "c1", 1),
	}

	week, err := BulkRangeFor(BulkWeek, "2024-03-14")
	require.NoError(t, err)
	assert.Equal(t, 2, CountMatches(txns, week))

	month, err := BulkRangeFor(BulkMonth, "2024-03")
	require.NoError(t, err)
	assert.Equal(t, 4, CountMatches(txns, month))
	assert.Equal(t, "month 2024-03", month.String())

	scope, err := ParseBulkScope("WEEK")
	require.NoError(t, err)
	assert.Equal(t, BulkWeek, scope)
}
