package finance

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/categories"
	"fintrack/internal/core"
)

// Status classifies how much of a budget has been used.
type Status string

const (
	OnTrack    Status = "on-track"
	NearLimit  Status = "near-limit"
	OverBudget Status = "over-budget"
)

var (
	hundred          = decimal.NewFromInt(100)
	nearLimitPercent = decimal.NewFromInt(80)
)

// StatusResult is the outcome of evaluating spend against a budget.
// Percent is unclamped so "over by" messages stay accurate; DisplayPercent
// is capped at 100 for progress bars.
type StatusResult struct {
	Status         Status          `json:"status"`
	Percent        decimal.Decimal `json:"percent"`
	DisplayPercent decimal.Decimal `json:"displayPercent"`
}

// ComputeBudgetSpend sums the expense transactions of the budget's category
// whose YYYY-MM prefix equals the budget month exactly. A malformed month
// matches nothing and yields zero.
func ComputeBudgetSpend(b core.Budget, transactions []core.Transaction) decimal.Decimal {
	spent := decimal.Zero
	for _, t := range transactions {
		if t.Category != b.CategoryID || t.Type != core.Expense {
			continue
		}
		if core.MonthOf(t.Date) != b.Month {
			continue
		}
		spent = spent.Add(t.Amount)
	}
	return spent
}

// Classify maps a usage percentage to a status: 100 and above is over budget,
// 80 up to 100 is near the limit, anything lower is on track.
func Classify(percent decimal.Decimal) Status {
	switch {
	case percent.GreaterThanOrEqual(hundred):
		return OverBudget
	case percent.GreaterThanOrEqual(nearLimitPercent):
		return NearLimit
	default:
		return OnTrack
	}
}

// BudgetStatus evaluates spent against b.Amount.
//
// A non-positive budget amount is a caller error. It is not guarded beyond
// avoiding a division by zero: any positive spend reports over budget with a
// full progress bar, and zero spend reports on track. Percent is zero in
// both cases.
func BudgetStatus(b core.Budget, spent decimal.Decimal) StatusResult {
	if !b.Amount.IsPositive() {
		if spent.IsPositive() {
			return StatusResult{Status: OverBudget, Percent: decimal.Zero, DisplayPercent: hundred}
		}
		return StatusResult{Status: OnTrack, Percent: decimal.Zero, DisplayPercent: decimal.Zero}
	}

	percent := spent.Mul(hundred).Div(b.Amount)
	return StatusResult{
		Status:         Classify(percent),
		Percent:        percent,
		DisplayPercent: decimal.Min(percent, hundred),
	}
}

// BudgetView is a budget with its spend-to-date attached. It is built fresh
// on every read and never persisted.
type BudgetView struct {
	core.Budget
	CategoryName string          `json:"categoryName"`
	Color        string          `json:"color"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Overage      decimal.Decimal `json:"overage"`
	StatusResult
}

// BudgetProgress attaches spend and status to every budget, keeping the
// budget list order. Duplicate budgets are not merged.
func BudgetProgress(budgets []core.Budget, transactions []core.Transaction) []BudgetView {
	out := make([]BudgetView, 0, len(budgets))
	for _, b := range budgets {
		spent := ComputeBudgetSpend(b, transactions)
		c := categories.Resolve(b.CategoryID)
		out = append(out, BudgetView{
			Budget:       b,
			CategoryName: c.Name,
			Color:        c.Color,
			Spent:        spent,
			Remaining:    b.Amount.Sub(spent),
			Overage:      decimal.Max(spent.Sub(b.Amount), decimal.Zero),
			StatusResult: BudgetStatus(b, spent),
		})
	}
	return out
}

// BudgetsForMonth returns the budgets set for month, in list order.
func BudgetsForMonth(budgets []core.Budget, month string) []core.Budget {
	out := make([]core.Budget, 0)
	for _, b := range budgets {
		if b.Month == month {
			out = append(out, b)
		}
	}
	return out
}
