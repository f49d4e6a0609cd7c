package finance

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fintrack/internal/core"
)

func tx(amount string, typ core.TransactionType, category, date string) core.Transaction {
	return core.Transaction{
		ID:          fmt.Sprintf("%s-%s-%s", category, date, amount),
		Amount:      decimal.RequireFromString(amount),
		Description: category,
		Date:        date,
		Category:    category,
		Type:        typ,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

// scenarioTransactions is the reference March 2024 data set.
func scenarioTransactions() []core.Transaction {
	return []core.Transaction{
		tx("100", core.Expense, "food", "2024-03-05"),
		tx("50", core.Expense, "food", "2024-03-20"),
		tx("1000", core.Income, "salary", "2024-03-01"),
	}
}

var randomCategories = []string{"food", "transport", "bills", "salary", "freelance", "mystery"}

// randomTransactions builds a reproducible mixed set spanning several years.
func randomTransactions(r *rand.Rand, n int) []core.Transaction {
	out := make([]core.Transaction, 0, n)
	for i := 0; i < n; i++ {
		typ := core.Expense
		if r.Intn(3) == 0 {
			typ = core.Income
		}
		date := fmt.Sprintf("%04d-%02d-%02d", 2022+r.Intn(3), 1+r.Intn(12), 1+r.Intn(28))
		amount := decimal.New(int64(r.Intn(100000)), -2)
		out = append(out, core.Transaction{
			ID:       fmt.Sprintf("t%d", i),
			Amount:   amount,
			Date:     date,
			Category: randomCategories[r.Intn(len(randomCategories))],
			Type:     typ,
		})
	}
	return out
}
