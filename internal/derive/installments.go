package derive

import (
	"fmt"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
)

// ScheduleEntry is one period of an installment plan.
type ScheduleEntry struct {
	DueDate time.Time
	Index   int // zero-based, the argument to TogglePeriod
	Payment float64
	Paid    bool
}

// Period is the one-based period number.
func (e ScheduleEntry) Period() int {
	return e.Index + 1
}

// Schedule lists every period of inst. Period i is due i months after the
// start date and is paid iff i < PaidMonths.
func Schedule(inst model.Installment) ([]ScheduleEntry, error) {
	start, err := model.ParseDate(inst.StartDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("installment %s: %w", inst.ID, err)
	}
	if inst.Term <= 0 {
		return nil, nil
	}

	payment := inst.MonthlyPayment()
	out := make([]ScheduleEntry, inst.Term)
	for i := range out {
		out[i] = ScheduleEntry{
			Index:   i,
			DueDate: start.AddDate(0, i, 0),
			Payment: payment,
			Paid:    i < inst.PaidMonths,
		}
	}
	return out, nil
}

// InstallmentSummary holds the headline figures of one installment plan.
type InstallmentSummary struct {
	Monthly          float64
	MonthlyInterest  float64
	TotalPayable     float64
	TotalInterest    float64
	PaidAmount       float64
	RemainingAmount  float64
	Percent          float64
	RemainingPeriods int
	Finished         bool
}

// SummarizeInstallment computes payable, paid and remaining amounts.
func SummarizeInstallment(inst model.Installment) InstallmentSummary {
	monthly := inst.MonthlyPayment()
	s := InstallmentSummary{
		Monthly:          monthly,
		MonthlyInterest:  inst.TotalValue * inst.InterestRate / 100,
		TotalPayable:     monthly * float64(inst.Term),
		PaidAmount:       monthly * float64(inst.PaidMonths),
		RemainingPeriods: inst.Term - inst.PaidMonths,
		Finished:         !inst.Active(),
	}
	if s.RemainingPeriods < 0 {
		s.RemainingPeriods = 0
	}
	s.TotalInterest = s.MonthlyInterest * float64(inst.Term)
	s.RemainingAmount = s.TotalPayable - s.PaidAmount
	if inst.Term > 0 {
		s.Percent = float64(inst.PaidMonths) / float64(inst.Term) * 100
	}
	return s
}

// TotalMonthlyDue sums the monthly payment of every active installment.
func TotalMonthlyDue(insts []model.Installment) float64 {
	var total float64
	for _, inst := range insts {
		if inst.Active() {
			total += inst.MonthlyPayment()
		}
	}
	return total
}

// ActiveInstallments counts plans with periods left to pay.
func ActiveInstallments(insts []model.Installment) int {
	n := 0
	for _, inst := range insts {
		if inst.Active() {
			n++
		}
	}
	return n
}
