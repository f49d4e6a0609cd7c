package finance

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// FilterMonth returns the transactions whose date falls in month (exact
// YYYY-MM prefix match).
func FilterMonth(transactions []core.Transaction, month string) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, t := range transactions {
		if core.MonthOf(t.Date) == month {
			out = append(out, t)
		}
	}
	return out
}

// SumByType totals the amounts of the transactions of type typ.
func SumByType(transactions []core.Transaction, typ core.TransactionType) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range transactions {
		if t.Type == typ {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// SortByDateDesc returns a copy of transactions, newest date first. Equal
// dates keep their input order. A positive limit truncates the result.
func SortByDateDesc(transactions []core.Transaction, limit int) []core.Transaction {
	out := append([]core.Transaction(nil), transactions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
