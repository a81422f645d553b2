package model

// UnknownCategoryColor is the display color of a category id that no longer
// resolves to a category.
const UnknownCategoryColor = "#cbd5e1"

// UnknownCategoryName labels transactions whose category was deleted.
const UnknownCategoryName = "Other"

// Category groups transactions and optionally carries a monthly budget cap.
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	BudgetLimit float64 `json:"budgetLimit,omitempty"`
	IsDefault   bool    `json:"isDefault"`
}

// DefaultCategories returns the categories a fresh store starts with.
func DefaultCategories() []Category {
	return []Category{
		{ID: "c1", Name: "Food & Dining", Color: "#ef4444", IsDefault: true},
		{ID: "c2", Name: "Transportation", Color: "#f97316", IsDefault: true},
		{ID: "c3", Name: "Housing", Color: "#eab308", IsDefault: true},
		{ID: "c4", Name: "Shopping", Color: "#3b82f6", IsDefault: true},
		{ID: "c5", Name: "Entertainment", Color: "#8b5cf6", IsDefault: true},
		{ID: "c6", Name: "Health", Color: "#ec4899", IsDefault: true},
		{ID: "c7", Name: "Other", Color: "#64748b", IsDefault: true},
	}
}

// LookupCategory resolves id against categories. Unknown ids resolve to a
// placeholder category and ok=false.
func LookupCategory(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{ID: id, Name: UnknownCategoryName, Color: UnknownCategoryColor}, false
}
