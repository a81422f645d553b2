package tracker

import (
	"context"
	"slices"
	"time"

	"github.com/Veraticus/smartspend/internal/derive"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/storage"
)

// InvestmentInput is the editable part of an investment.
type InvestmentInput struct {
	Name          string
	Color         string
	MonthlyTarget float64
}

func validateInvestment(in InvestmentInput) (InvestmentInput, error) {
	name, err := requireText("name", in.Name)
	if err != nil {
		return in, err
	}
	if err := requireNonNegative("monthly target", in.MonthlyTarget); err != nil {
		return in, err
	}
	in.Name = name
	if in.Color == "" {
		in.Color = derive.DefaultInvestmentColor
	}
	return in, nil
}

func (c *Controller) investment(id string) (*model.Investment, error) {
	i := slices.IndexFunc(c.snap.Investments, func(inv model.Investment) bool { return inv.ID == id })
	if i < 0 {
		return nil, notFound("investment", id)
	}
	return &c.snap.Investments[i], nil
}

// AddInvestment creates a holding with nothing invested.
func (c *Controller) AddInvestment(ctx context.Context, in InvestmentInput) (model.Investment, error) {
	in, err := validateInvestment(in)
	if err != nil {
		return model.Investment{}, err
	}
	inv := model.Investment{
		ID:            model.NewID(),
		Name:          in.Name,
		Color:         in.Color,
		MonthlyTarget: in.MonthlyTarget,
		History:       []model.InvestmentEntry{},
	}
	c.snap.Investments = append(c.snap.Investments, inv)
	return inv, c.commit(ctx, storage.KeyInvestments)
}

// UpdateInvestment edits holding id. Balances and history are untouched.
func (c *Controller) UpdateInvestment(ctx context.Context, id string, in InvestmentInput) error {
	in, err := validateInvestment(in)
	if err != nil {
		return err
	}
	inv, err := c.investment(id)
	if err != nil {
		return err
	}
	inv.Name = in.Name
	inv.Color = in.Color
	inv.MonthlyTarget = in.MonthlyTarget
	return c.commit(ctx, storage.KeyInvestments)
}

// DeleteInvestment removes holding id.
func (c *Controller) DeleteInvestment(ctx context.Context, id string) error {
	n := len(c.snap.Investments)
	c.snap.Investments = slices.DeleteFunc(c.snap.Investments, func(inv model.Investment) bool { return inv.ID == id })
	if len(c.snap.Investments) == n {
		return notFound("investment", id)
	}
	return c.commit(ctx, storage.KeyInvestments)
}

// AppendInvestmentEntry adds money put in (out) and taken out (in) to
// holding id. Either may be zero, not both.
func (c *Controller) AppendInvestmentEntry(ctx context.Context, id string, out, in float64) (model.Investment, error) {
	if !finite(out) {
		return model.Investment{}, invalid("outflow", "must be a number")
	}
	if !finite(in) {
		return model.Investment{}, invalid("inflow", "must be a number")
	}
	if out == 0 && in == 0 {
		return model.Investment{}, invalid("entry", "needs an outflow or an inflow")
	}

	inv, err := c.investment(id)
	if err != nil {
		return model.Investment{}, err
	}
	inv.Record(out, in, c.now().UTC().Format(time.RFC3339))
	return *inv, c.commit(ctx, storage.KeyInvestments)
}
