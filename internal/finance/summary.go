package finance

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// MonthSummary is the headline view of a single month: what came in, what went
// out, and how much of the month's combined budget the expenses consumed.
type MonthSummary struct {
	Month             string          `json:"month"`
	Income            decimal.Decimal `json:"income"`
	Expenses          decimal.Decimal `json:"expenses"`
	Net               decimal.Decimal `json:"net"`
	TransactionCount  int             `json:"transactionCount"`
	BudgetTotal       decimal.Decimal `json:"budgetTotal"`
	BudgetUtilization decimal.Decimal `json:"budgetUtilization"`
	UtilizationStatus Status          `json:"utilizationStatus"`
}

// SummarizeMonth computes the MonthSummary for month. Utilization is zero when
// no budget is set for the month.
func SummarizeMonth(transactions []core.Transaction, budgets []core.Budget, month string) MonthSummary {
	inMonth := FilterMonth(transactions, month)
	income := SumByType(inMonth, core.Income)
	expenses := SumByType(inMonth, core.Expense)

	budgetTotal := decimal.Zero
	for _, b := range BudgetsForMonth(budgets, month) {
		budgetTotal = budgetTotal.Add(b.Amount)
	}

	utilization := decimal.Zero
	if budgetTotal.IsPositive() {
		utilization = expenses.Mul(hundred).Div(budgetTotal)
	}

	return MonthSummary{
		Month:             month,
		Income:            income,
		Expenses:          expenses,
		Net:               income.Sub(expenses),
		TransactionCount:  len(inMonth),
		BudgetTotal:       budgetTotal,
		BudgetUtilization: utilization,
		UtilizationStatus: Classify(utilization),
	}
}
