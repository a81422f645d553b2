package tracker

import (
	"context"
	"slices"

	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/storage"
)

// InstallmentInput is the editable part of an installment plan.
type InstallmentInput struct {
	Name         string
	StartDate    string
	TotalValue   float64
	InterestRate float64
	Term         int
}

func (c *Controller) validateInstallment(in InstallmentInput) (InstallmentInput, error) {
	name, err := requireText("name", in.Name)
	if err != nil {
		return in, err
	}
	if err := requirePositive("total value", in.TotalValue); err != nil {
		return in, err
	}
	if err := requireNonNegative("interest rate", in.InterestRate); err != nil {
		return in, err
	}
	if in.Term < 1 {
		return in, invalid("term", "must be at least one period")
	}
	start, err := requireDate("start date", in.StartDate, c.loc)
	if err != nil {
		return in, err
	}
	in.Name = name
	in.StartDate = start
	return in, nil
}

func (c *Controller) installment(id string) (*model.Installment, error) {
	i := slices.IndexFunc(c.snap.Installments, func(inst model.Installment) bool { return inst.ID == id })
	if i < 0 {
		return nil, notFound("installment", id)
	}
	return &c.snap.Installments[i], nil
}

// AddInstallment creates a plan with nothing paid.
func (c *Controller) AddInstallment(ctx context.Context, in InstallmentInput) (model.Installment, error) {
	in, err := c.validateInstallment(in)
	if err != nil {
		return model.Installment{}, err
	}
	inst := model.Installment{
		ID:           model.NewID(),
		Name:         in.Name,
		StartDate:    in.StartDate,
		TotalValue:   in.TotalValue,
		InterestRate: in.InterestRate,
		Term:         in.Term,
		CreatedAt:    c.now().UnixMilli(),
	}
	c.snap.Installments = append(c.snap.Installments, inst)
	return inst, c.commit(ctx, storage.KeyInstallments)
}

// UpdateInstallment edits plan id. Paid periods are kept, clamped to the
// new term.
func (c *Controller) UpdateInstallment(ctx context.Context, id string, in InstallmentInput) error {
	in, err := c.validateInstallment(in)
	if err != nil {
		return err
	}
	inst, err := c.installment(id)
	if err != nil {
		return err
	}
	inst.Name = in.Name
	inst.StartDate = in.StartDate
	inst.TotalValue = in.TotalValue
	inst.InterestRate = in.InterestRate
	inst.Term = in.Term
	inst.ClampPaid()
	return c.commit(ctx, storage.KeyInstallments)
}

// DeleteInstallment removes plan id.
func (c *Controller) DeleteInstallment(ctx context.Context, id string) error {
	n := len(c.snap.Installments)
	c.snap.Installments = slices.DeleteFunc(c.snap.Installments, func(inst model.Installment) bool { return inst.ID == id })
	if len(c.snap.Installments) == n {
		return notFound("installment", id)
	}
	return c.commit(ctx, storage.KeyInstallments)
}

// ToggleInstallmentPeriod checks period index (zero based) and every period
// before it, or unchecks it and every period after it when already paid.
func (c *Controller) ToggleInstallmentPeriod(ctx context.Context, id string, index int) error {
	inst, err := c.installment(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= inst.Term {
		return invalid("period", "is outside the installment term")
	}
	inst.TogglePeriod(index)
	return c.commit(ctx, storage.KeyInstallments)
}

// ActiveInstallmentCount is the number of plans PayAllInstallments would
// advance.
func (c *Controller) ActiveInstallmentCount() int {
	n := 0
	for _, inst := range c.snap.Installments {
		if inst.Active() {
			n++
		}
	}
	return n
}

// PayAllInstallments marks one more period paid on every active plan and
// returns how many advanced. Nothing is written when none are active.
func (c *Controller) PayAllInstallments(ctx context.Context) (int, error) {
	n := 0
	for i := range c.snap.Installments {
		if c.snap.Installments[i].Active() {
			c.snap.Installments[i].PaidMonths++
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, c.commit(ctx, storage.KeyInstallments)
}
