// Package insights compares the current calendar month with the one before it
// and condenses the result into the three headline insights of the dashboard:
// spending trend, top spending category and budget compliance.
package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/categories"
	"fintrack/internal/core"
	"fintrack/internal/finance"
)

type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// Severity grades a spending increase for display emphasis.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityElevated Severity = "elevated"
	SeverityHigh     Severity = "high"
)

// Outcome is one of three mutually exclusive budget compliance results.
type Outcome string

const (
	OutcomeOverBudget Outcome = "over-budget"
	OutcomeAllOnTrack Outcome = "all-on-track"
	OutcomeNoBudgets  Outcome = "no-budgets"
)

const maxReportedOverages = 2

var (
	hundred           = decimal.NewFromInt(100)
	highIncreaseLimit = decimal.NewFromInt(10)
)

type SpendingTrend struct {
	CurrentMonth     string          `json:"currentMonth"`
	PreviousMonth    string          `json:"previousMonth"`
	CurrentExpenses  decimal.Decimal `json:"currentExpenses"`
	PreviousExpenses decimal.Decimal `json:"previousExpenses"`
	ChangePercent    decimal.Decimal `json:"changePercent"`
	Direction        Direction       `json:"direction"`
	Severity         Severity        `json:"severity"`
}

// TopCategory is the highest-spending expense category of the month.
// Category is nil when the month has no expenses.
type TopCategory struct {
	HasData  bool                `json:"hasData"`
	Category *core.CategoryTotal `json:"category"`
}

type Overage struct {
	BudgetID     string          `json:"budgetId"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
	Spent        decimal.Decimal `json:"spent"`
	Over         decimal.Decimal `json:"over"`
}

// BudgetCompliance reports how the month's budgets are doing. Overages lists
// at most the first two over-budget entries in budget-list order; OverCount
// counts all of them.
type BudgetCompliance struct {
	Outcome     Outcome   `json:"outcome"`
	BudgetCount int       `json:"budgetCount"`
	OverCount   int       `json:"overCount"`
	Overages    []Overage `json:"overages"`
}

type Insights struct {
	Month       string           `json:"month"`
	Trend       SpendingTrend    `json:"trend"`
	TopCategory TopCategory      `json:"topCategory"`
	Budgets     BudgetCompliance `json:"budgets"`
}

// Generate builds the insights for the calendar month containing now.
func Generate(transactions []core.Transaction, budgets []core.Budget, now time.Time) Insights {
	current := now.Format(core.MonthLayout)
	previous := now.AddDate(0, 0, 1-now.Day()).AddDate(0, -1, 0).Format(core.MonthLayout)
	return generate(transactions, budgets, current, previous)
}

// GenerateForMonth builds the insights for an explicit YYYY-MM month.
func GenerateForMonth(transactions []core.Transaction, budgets []core.Budget, month string) (Insights, error) {
	previous, err := core.PreviousMonth(month)
	if err != nil {
		return Insights{}, err
	}
	return generate(transactions, budgets, month, previous), nil
}

func generate(transactions []core.Transaction, budgets []core.Budget, current, previous string) Insights {
	currentTx := finance.FilterMonth(transactions, current)
	previousTx := finance.FilterMonth(transactions, previous)

	return Insights{
		Month:       current,
		Trend:       spendingTrend(currentTx, previousTx, current, previous),
		TopCategory: topCategory(currentTx),
		Budgets:     budgetCompliance(finance.BudgetsForMonth(budgets, current), currentTx),
	}
}

// spendingTrend reports the month-over-month expense change. With no prior
// expenses the change is defined as zero, which also reads as a decrease;
// "no prior data" and "no change" are deliberately reported the same way.
func spendingTrend(currentTx, previousTx []core.Transaction, current, previous string) SpendingTrend {
	cur := finance.SumByType(currentTx, core.Expense)
	prev := finance.SumByType(previousTx, core.Expense)

	change := decimal.Zero
	if prev.IsPositive() {
		change = cur.Sub(prev).Div(prev).Mul(hundred)
	}

	trend := SpendingTrend{
		CurrentMonth:     current,
		PreviousMonth:    previous,
		CurrentExpenses:  cur,
		PreviousExpenses: prev,
		ChangePercent:    change,
		Direction:        Decrease,
		Severity:         SeverityNormal,
	}
	if change.IsPositive() {
		trend.Direction = Increase
		trend.Severity = SeverityElevated
		if change.GreaterThan(highIncreaseLimit) {
			trend.Severity = SeverityHigh
		}
	}
	return trend
}

func topCategory(currentTx []core.Transaction) TopCategory {
	totals := finance.AggregateByCategory(currentTx, core.Expense)
	if len(totals) == 0 {
		return TopCategory{}
	}
	top := totals[0]
	return TopCategory{HasData: true, Category: &top}
}

func budgetCompliance(monthBudgets []core.Budget, currentTx []core.Transaction) BudgetCompliance {
	bc := BudgetCompliance{BudgetCount: len(monthBudgets), Overages: []Overage{}}
	if len(monthBudgets) == 0 {
		bc.Outcome = OutcomeNoBudgets
		return bc
	}

	for _, b := range monthBudgets {
		spent := finance.ComputeBudgetSpend(b, currentTx)
		// Compliance counts strictly exceeded budgets; one spent exactly to
		// its amount is still within budget here.
		if !spent.GreaterThan(b.Amount) {
			continue
		}
		bc.OverCount++
		if len(bc.Overages) < maxReportedOverages {
			bc.Overages = append(bc.Overages, Overage{
				BudgetID:     b.ID,
				CategoryID:   b.CategoryID,
				CategoryName: categories.Resolve(b.CategoryID).Name,
				Amount:       b.Amount,
				Spent:        spent,
				Over:         spent.Sub(b.Amount),
			})
		}
	}

	if bc.OverCount > 0 {
		bc.Outcome = OutcomeOverBudget
	} else {
		bc.Outcome = OutcomeAllOnTrack
	}
	return bc
}
