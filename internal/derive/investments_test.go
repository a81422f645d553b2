package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smartspend/internal/model"
)

func TestSummarizePortfolio(t *testing.T) {
	invs := []model.Investment{
		{ID: "a", Name: "Loser", Color: "#111", Invested: 1000, Revenue: 800, MonthlyTarget: 100},
		{ID: "b", Name: "Winner", Invested: 1000, Revenue: 1300, MonthlyTarget: 50},
		{ID: "c", Name: "Small", Color: "#333", Invested: 100, Revenue: 200},
		{ID: "d", Name: "Flat", Color: "#444", Invested: 10, Revenue: 10},
	}

	p := SummarizePortfolio(invs)
	assert.InDelta(t, 2110, p.TotalInvested, 1e-9)
	assert.InDelta(t, 2310, p.TotalRevenue, 1e-9)
	assert.InDelta(t, 200, p.TotalNet, 1e-9)
	assert.InDelta(t, 150, p.TotalMonthlyTarget, 1e-9)

	require.Len(t, p.Distribution, 2)
	assert.Equal(t, "b", p.Distribution[0].ID)
	assert.InDelta(t, 75, p.Distribution[0].Share, 1e-9)
	assert.Equal(t, DefaultInvestmentColor, p.Distribution[0].Color)
	assert.Equal(t, "c", p.Distribution[1].ID)
	assert.InDelta(t, 25, p.Distribution[1].Share, 1e-9)

	require.Len(t, p.Legend, 4)
	var order []string
	for _, r := range p.Legend {
		order = append(order, r.ID)
	}
	assert.Equal(t, []string{"b", "c", "d", "a"}, order)
	assert.InDelta(t, -200, InvestmentNet(invs[0]), 1e-9)
}

func TestSummarizePortfolio_NoProfit(t *testing.T) {
	p := SummarizePortfolio([]model.Investment{{ID: "a", Invested: 10, Revenue: 5}})
	assert.Empty(t, p.Distribution)
	assert.Len(t, p.Legend, 1)
}
