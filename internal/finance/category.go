package finance

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/categories"
	"fintrack/internal/core"
)

// AggregateByCategory sums the transactions of type typ per category and
// returns the totals largest first. Ties keep the order in which categories
// first appeared in the input. Unregistered category ids are reported under
// the "Unknown" placeholder rather than dropped.
func AggregateByCategory(transactions []core.Transaction, typ core.TransactionType) []core.CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	var order []string

	for _, t := range transactions {
		if t.Type != typ {
			continue
		}
		sum, ok := totals[t.Category]
		if !ok {
			order = append(order, t.Category)
			sum = decimal.Zero
		}
		totals[t.Category] = sum.Add(t.Amount)
	}

	out := make([]core.CategoryTotal, 0, len(order))
	for _, id := range order {
		c := categories.Resolve(id)
		out = append(out, core.CategoryTotal{
			CategoryID:   id,
			CategoryName: c.Name,
			Total:        totals[id],
			Color:        c.Color,
			Icon:         c.Icon,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}
