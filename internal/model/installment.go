package model

// Installment is a flat-rate installment loan.
type Installment struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	StartDate    string  `json:"startDate"` // YYYY-MM-DD
	TotalValue   float64 `json:"totalValue"`
	InterestRate float64 `json:"interestRate"` // percent per period
	Term         int     `json:"term"`
	PaidMonths   int     `json:"paidMonths"`
	CreatedAt    int64   `json:"createdAt"`
}

// MonthlyPayment is the flat per-period payment: principal share plus
// interest on the original principal.
func (i Installment) MonthlyPayment() float64 {
	if i.Term <= 0 {
		return 0
	}
	return i.TotalValue/float64(i.Term) + i.TotalValue*i.InterestRate/100
}

// Active reports whether periods remain to be paid.
func (i Installment) Active() bool {
	return i.PaidMonths < i.Term
}

// TogglePeriod marks period index as paid (and all before it) or, when it is
// already paid, unpays it and every later period.
func (i *Installment) TogglePeriod(index int) {
	if index < i.PaidMonths {
		i.PaidMonths = index
		return
	}
	i.PaidMonths = index + 1
}

// ClampPaid keeps PaidMonths within [0, Term].
func (i *Installment) ClampPaid() {
	if i.PaidMonths < 0 {
		i.PaidMonths = 0
	}
	if i.PaidMonths > i.Term {
		i.PaidMonths = i.Term
	}
}
