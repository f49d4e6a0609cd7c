package finance

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

type monthTotals struct {
	income   decimal.Decimal
	expenses decimal.Decimal
}

// AggregateMonthly groups transactions by the YYYY-MM prefix of their date and
// returns one entry per month present, oldest first. Anything that is not
// income counts as an expense.
func AggregateMonthly(transactions []core.Transaction) []core.MonthlyData {
	byMonth := make(map[string]*monthTotals)
	var months []string

	for _, t := range transactions {
		key := core.MonthOf(t.Date)
		acc, ok := byMonth[key]
		if !ok {
			acc = &monthTotals{income: decimal.Zero, expenses: decimal.Zero}
			byMonth[key] = acc
			months = append(months, key)
		}
		if t.Type == core.Income {
			acc.income = acc.income.Add(t.Amount)
		} else {
			acc.expenses = acc.expenses.Add(t.Amount)
		}
	}

	// Zero-padded YYYY-MM keys sort chronologically as strings.
	sort.Strings(months)

	out := make([]core.MonthlyData, 0, len(months))
	for _, m := range months {
		acc := byMonth[m]
		out = append(out, core.MonthlyData{
			Month:    m,
			Income:   acc.income,
			Expenses: acc.expenses,
			Net:      acc.income.Sub(acc.expenses),
		})
	}
	return out
}
