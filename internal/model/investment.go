package model

import "encoding/json"

// InvestmentEntry records money put in (Out) and taken out (In) at one time.
type InvestmentEntry struct {
	Date string  `json:"date"` // RFC3339
	Out  float64 `json:"out"`
	In   float64 `json:"in"`
}

// Investment tracks cumulative outflow and inflow for one holding.
//
// Records written before outflow/inflow tracking carry Capital and Profit
// instead; MigrateLegacy converts them.
type Investment struct {
	Capital       *float64          `json:"capital,omitempty"`
	Profit        *float64          `json:"profit,omitempty"`
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Color         string            `json:"color"`
	History       []InvestmentEntry `json:"history"`
	MonthlyTarget float64           `json:"monthlyTarget"`
	Invested      float64           `json:"invested"`
	Revenue       float64           `json:"revenue"`

	// set when the decoded record had no "invested" field
	needsBalances bool
}

// UnmarshalJSON remembers whether the record predates invested/revenue.
func (inv *Investment) UnmarshalJSON(data []byte) error {
	type plain Investment
	aux := struct {
		*plain
		Invested *float64 `json:"invested"`
		Revenue  *float64 `json:"revenue"`
	}{plain: (*plain)(inv)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	inv.needsBalances = aux.Invested == nil
	if aux.Invested != nil {
		inv.Invested = *aux.Invested
	}
	if aux.Revenue != nil {
		inv.Revenue = *aux.Revenue
	}
	return nil
}

// Net is revenue minus invested.
func (inv Investment) Net() float64 {
	return inv.Revenue - inv.Invested
}

// Legacy reports whether MigrateLegacy would change the record.
func (inv Investment) Legacy() bool {
	return inv.needsBalances || inv.Capital != nil || inv.Profit != nil
}

// MigrateLegacy converts {capital, profit} into invested = capital and
// revenue = capital + profit, then drops the legacy fields. It reports
// whether anything changed; a second call is a no-op.
func (inv *Investment) MigrateLegacy() bool {
	changed := false
	if inv.needsBalances {
		var capital, profit float64
		if inv.Capital != nil {
			capital = *inv.Capital
		}
		if inv.Profit != nil {
			profit = *inv.Profit
		}
		inv.Invested = capital
		inv.Revenue = capital + profit
		inv.needsBalances = false
		changed = true
	}
	if inv.Capital != nil || inv.Profit != nil {
		inv.Capital = nil
		inv.Profit = nil
		changed = true
	}
	return changed
}

// Record adds an outflow/inflow pair to the running totals and history.
func (inv *Investment) Record(out, in float64, date string) {
	inv.Invested += out
	inv.Revenue += in
	inv.History = append(inv.History, InvestmentEntry{Date: date, Out: out, In: in})
}
