package tracker

import (
	"context"
	"slices"

	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/storage"
)

// CategoryInput is the editable part of a category.
type CategoryInput struct {
	Name        string
	Color       string
	BudgetLimit float64
}

// DefaultCategoryColor is used when a category is added without a color.
const DefaultCategoryColor = "#64748b"

func validateCategory(in CategoryInput) (CategoryInput, error) {
	name, err := requireText("name", in.Name)
	if err != nil {
		return in, err
	}
	if err := requireNonNegative("budget limit", in.BudgetLimit); err != nil {
		return in, err
	}
	in.Name = name
	if in.Color == "" {
		in.Color = DefaultCategoryColor
	}
	return in, nil
}

func (c *Controller) category(id string) (*model.Category, error) {
	i := slices.IndexFunc(c.snap.Categories, func(cat model.Category) bool { return cat.ID == id })
	if i < 0 {
		return nil, notFound("category", id)
	}
	return &c.snap.Categories[i], nil
}

// AddCategory creates a user category.
func (c *Controller) AddCategory(ctx context.Context, in CategoryInput) (model.Category, error) {
	in, err := validateCategory(in)
	if err != nil {
		return model.Category{}, err
	}
	cat := model.Category{
		ID:          model.NewID(),
		Name:        in.Name,
		Color:       in.Color,
		BudgetLimit: in.BudgetLimit,
	}
	c.snap.Categories = append(c.snap.Categories, cat)
	return cat, c.commit(ctx, storage.KeyCategories)
}

// UpdateCategory renames, recolors and re-limits category id.
func (c *Controller) UpdateCategory(ctx context.Context, id string, in CategoryInput) error {
	in, err := validateCategory(in)
	if err != nil {
		return err
	}
	cat, err := c.category(id)
	if err != nil {
		return err
	}
	cat.Name = in.Name
	cat.Color = in.Color
	cat.BudgetLimit = in.BudgetLimit
	return c.commit(ctx, storage.KeyCategories)
}

// DeleteCategory removes category id. Transactions that reference it are
// kept and render as the unknown category.
func (c *Controller) DeleteCategory(ctx context.Context, id string) error {
	n := len(c.snap.Categories)
	c.snap.Categories = slices.DeleteFunc(c.snap.Categories, func(cat model.Category) bool { return cat.ID == id })
	if len(c.snap.Categories) == n {
		return notFound("category", id)
	}
	return c.commit(ctx, storage.KeyCategories)
}

// SetCategoryLimit sets the monthly budget of category id; zero clears it.
func (c *Controller) SetCategoryLimit(ctx context.Context, id string, limit float64) error {
	if err := requireNonNegative("budget limit", limit); err != nil {
		return err
	}
	cat, err := c.category(id)
	if err != nil {
		return err
	}
	cat.BudgetLimit = limit
	return c.commit(ctx, storage.KeyCategories)
}

// SetMonthlyLimit sets the daily spending limit in effect for month
// (YYYY-MM).
func (c *Controller) SetMonthlyLimit(ctx context.Context, month string, limit float64) error {
	key, err := requireMonth("month", month)
	if err != nil {
		return err
	}
	if err := requireNonNegative("limit", limit); err != nil {
		return err
	}
	if c.snap.MonthlyLimits == nil {
		c.snap.MonthlyLimits = map[string]float64{}
	}
	c.snap.MonthlyLimits[key] = limit
	return c.commit(ctx, storage.KeyMonthlyLimits)
}
