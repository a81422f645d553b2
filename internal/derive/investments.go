package derive

import (
	"sort"

	"github.com/Veraticus/smartspend/internal/model"
)

// DefaultInvestmentColor is used for holdings saved without a color.
const DefaultInvestmentColor = "#8b5cf6"

// HoldingResult is one investment's net result and share of total profit.
type HoldingResult struct {
	ID    string
	Name  string
	Color string
	Net   float64
	Share float64 // percent of the positive-net total; 0 for non-profitable holdings
}

// Portfolio aggregates every investment.
type Portfolio struct {
	Distribution       []HoldingResult // profitable holdings only
	Legend             []HoldingResult // every holding, net descending
	TotalInvested      float64
	TotalRevenue       float64
	TotalNet           float64
	TotalMonthlyTarget float64
}

// InvestmentNet is revenue minus invested.
func InvestmentNet(inv model.Investment) float64 {
	return inv.Net()
}

// SummarizePortfolio totals the holdings and ranks them by net result.
func SummarizePortfolio(invs []model.Investment) Portfolio {
	var p Portfolio
	var positive float64
	results := make([]HoldingResult, 0, len(invs))

	for _, inv := range invs {
		p.TotalInvested += inv.Invested
		p.TotalRevenue += inv.Revenue
		p.TotalMonthlyTarget += inv.MonthlyTarget

		color := inv.Color
		if color == "" {
			color = DefaultInvestmentColor
		}
		r := HoldingResult{ID: inv.ID, Name: inv.Name, Color: color, Net: inv.Net()}
		if r.Net > 0 {
			positive += r.Net
		}
		results = append(results, r)
	}
	p.TotalNet = p.TotalRevenue - p.TotalInvested

	for i := range results {
		if results[i].Net > 0 && positive > 0 {
			results[i].Share = results[i].Net / positive * 100
			p.Distribution = append(p.Distribution, results[i])
		}
	}

	p.Legend = results
	sort.SliceStable(p.Legend, func(i, j int) bool {
		return p.Legend[i].Net > p.Legend[j].Net
	})
	return p
}
