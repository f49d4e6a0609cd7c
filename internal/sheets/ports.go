// Package sheets exports ledger reports to spreadsheets.
package sheets

import (
	"context"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/finance"
)

// ReportWriter replaces the contents of a report destination.
type ReportWriter interface {
	WriteReport(ctx context.Context, r Report) error
}

// Report is the exported view of the ledger: every month's totals plus the
// expense breakdown and budget progress of one month.
type Report struct {
	Month       string
	GeneratedAt time.Time
	Monthly     []core.MonthlyData
	Categories  []core.CategoryTotal
	Budgets     []finance.BudgetView
}

// BuildReport derives a Report for month from the raw ledger.
func BuildReport(transactions []core.Transaction, budgets []core.Budget, month string, now time.Time) Report {
	monthTx := finance.FilterMonth(transactions, month)
	return Report{
		Month:       month,
		GeneratedAt: now.UTC(),
		Monthly:     finance.AggregateMonthly(transactions),
		Categories:  finance.AggregateByCategory(monthTx, core.Expense),
		Budgets:     finance.BudgetProgress(finance.BudgetsForMonth(budgets, month), transactions),
	}
}

// Rows lays the report out as a grid of cells, one section after another,
// separated by blank rows.
func (r Report) Rows() [][]string {
	rows := [][]string{
		{"Report", r.Month, r.GeneratedAt.Format(time.RFC3339)},
		{},
		{"Month", "Income", "Expenses", "Net"},
	}
	for _, m := range r.Monthly {
		rows = append(rows, []string{m.Month, core.FormatAmount(m.Income), core.FormatAmount(m.Expenses), core.FormatAmount(m.Net)})
	}

	rows = append(rows, []string{}, []string{"Category", "Expenses"})
	for _, c := range r.Categories {
		rows = append(rows, []string{c.CategoryName, core.FormatAmount(c.Total)})
	}

	rows = append(rows, []string{}, []string{"Budget", "Amount", "Spent", "Remaining", "Percent", "Status"})
	for _, b := range r.Budgets {
		rows = append(rows, []string{
			b.CategoryName,
			core.FormatAmount(b.Amount),
			core.FormatAmount(b.Spent),
			core.FormatAmount(b.Remaining),
			b.Percent.StringFixed(1),
			string(b.Status),
		})
	}
	return rows
}
