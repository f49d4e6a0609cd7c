package core

import "github.com/shopspring/decimal"

// MonthlyData is the income/expense roll-up of one YYYY-MM bucket.
type MonthlyData struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// CategoryTotal is the summed amount of one category, with the display hints
// resolved from the category registry.
type CategoryTotal struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
	Color        string          `json:"color"`
	Icon         string          `json:"icon"`
}
