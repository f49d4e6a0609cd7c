// Package categories is the fixed, process-wide category list. It exposes
// read accessors only; callers always receive copies.
package categories

import "fintrack/internal/core"

const (
	UnknownName  = "Unknown"
	UnknownColor = "#BDC3C7"
	UnknownIcon  = "Circle"
)

var predefined = []core.Category{
	// Expense categories
	{ID: "food", Name: "Food & Dining", Color: "#FF6B6B", Icon: "UtensilsCrossed", Type: core.Expense},
	{ID: "transport", Name: "Transportation", Color: "#4ECDC4", Icon: "Car", Type: core.Expense},
	{ID: "entertainment", Name: "Entertainment", Color: "#45B7D1", Icon: "Gamepad2", Type: core.Expense},
	{ID: "shopping", Name: "Shopping", Color: "#96CEB4", Icon: "ShoppingBag", Type: core.Expense},
	{ID: "bills", Name: "Bills & Utilities", Color: "#FFEAA7", Icon: "Receipt", Type: core.Expense},
	{ID: "healthcare", Name: "Healthcare", Color: "#DDA0DD", Icon: "Heart", Type: core.Expense},
	{ID: "education", Name: "Education", Color: "#98D8E8", Icon: "GraduationCap", Type: core.Expense},
	{ID: "travel", Name: "Travel", Color: "#F7DC6F", Icon: "Plane", Type: core.Expense},
	{ID: "other-expense", Name: "Other Expenses", Color: "#BDC3C7", Icon: "MoreHorizontal", Type: core.Expense},

	// Income categories
	{ID: "salary", Name: "Salary", Color: "#2ECC71", Icon: "Briefcase", Type: core.Income},
	{ID: "freelance", Name: "Freelance", Color: "#3498DB", Icon: "Laptop", Type: core.Income},
	{ID: "investments", Name: "Investments", Color: "#E74C3C", Icon: "TrendingUp", Type: core.Income},
	{ID: "business", Name: "Business", Color: "#9B59B6", Icon: "Building", Type: core.Income},
	{ID: "other-income", Name: "Other Income", Color: "#1ABC9C", Icon: "PlusCircle", Type: core.Income},
}

var byID = func() map[string]int {
	idx := make(map[string]int, len(predefined))
	for i, c := range predefined {
		idx[c.ID] = i
	}
	return idx
}()

// Lookup returns the category with the given id. The boolean is false when
// the id is not registered; it never fails otherwise.
func Lookup(id string) (core.Category, bool) {
	i, ok := byID[id]
	if !ok {
		return core.Category{}, false
	}
	return predefined[i], true
}

// Resolve is Lookup with the display placeholder substituted for unknown ids.
func Resolve(id string) core.Category {
	if c, ok := Lookup(id); ok {
		return c
	}
	return core.Category{ID: id, Name: UnknownName, Color: UnknownColor, Icon: UnknownIcon}
}

// ListByType returns the categories of type t in registry order.
func ListByType(t core.TransactionType) []core.Category {
	out := make([]core.Category, 0, len(predefined))
	for _, c := range predefined {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// All returns every registered category in registry order.
func All() []core.Category {
	return append([]core.Category(nil), predefined...)
}
