package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func budget(category, amount, month string) core.Budget {
	return core.Budget{ID: category + month, CategoryID: category, Amount: dec(amount), Month: month}
}

func TestComputeBudgetSpendScenario(t *testing.T) {
	b := budget("food", "100", "2024-03")
	spent := ComputeBudgetSpend(b, scenarioTransactions())
	assertDecimal(t, "150", spent)

	res := BudgetStatus(b, spent)
	assert.Equal(t, OverBudget, res.Status)
	assertDecimal(t, "150", res.Percent)
	assertDecimal(t, "100", res.DisplayPercent)
}

func TestComputeBudgetSpendFilters(t *testing.T) {
	in := []core.Transaction{
		tx("10", core.Expense, "food", "2024-03-01"),
		tx("20", core.Expense, "food", "2024-04-01"),      // other month
		tx("40", core.Expense, "transport", "2024-03-02"), // other category
		tx("80", core.Income, "food", "2024-03-03"),       // income never counts
	}
	assertDecimal(t, "10", ComputeBudgetSpend(budget("food", "100", "2024-03"), in))
}

func TestComputeBudgetSpendNoMatches(t *testing.T) {
	in := scenarioTransactions()
	assertDecimal(t, "0", ComputeBudgetSpend(budget("travel", "100", "2024-03"), in))
	assertDecimal(t, "0", ComputeBudgetSpend(budget("food", "100", "2024-3"), in))
	assertDecimal(t, "0", ComputeBudgetSpend(budget("food", "100", "2024-03"), nil))
}

func TestBudgetStatusBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		amount  string
		spent   string
		want    Status
		percent string
		display string
	}{
		{"exactly at amount", "100", "100", OverBudget, "100", "100"},
		{"exactly eighty percent", "250", "200", NearLimit, "80", "80"},
		{"just below eighty", "100", "79.99", OnTrack, "79.99", "79.99"},
		{"just below amount", "100", "99.99", NearLimit, "99.99", "99.99"},
		{"nothing spent", "100", "0", OnTrack, "0", "0"},
		{"way over", "50", "125", OverBudget, "250", "100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := BudgetStatus(budget("food", tc.amount, "2024-03"), dec(tc.spent))
			assert.Equal(t, tc.want, res.Status)
			assertDecimal(t, tc.percent, res.Percent)
			assertDecimal(t, tc.display, res.DisplayPercent)
		})
	}
}

func TestBudgetStatusNonPositiveAmountDoesNotPanic(t *testing.T) {
	b := budget("food", "0", "2024-03")
	assert.NotPanics(t, func() {
		assert.Equal(t, OverBudget, BudgetStatus(b, dec("1")).Status)
		assert.Equal(t, OnTrack, BudgetStatus(b, decimal.Zero).Status)
	})
}

func TestBudgetProgress(t *testing.T) {
	budgets := []core.Budget{
		budget("food", "100", "2024-03"),
		budget("transport", "400", "2024-03"),
		budget("food", "100", "2024-03"), // duplicates are evaluated independently
	}
	views := BudgetProgress(budgets, scenarioTransactions())
	require.Len(t, views, 3)

	assert.Equal(t, "Food & Dining", views[0].CategoryName)
	assertDecimal(t, "150", views[0].Spent)
	assertDecimal(t, "-50", views[0].Remaining)
	assertDecimal(t, "50", views[0].Overage)
	assert.Equal(t, OverBudget, views[0].Status)

	assert.Equal(t, "transport", views[1].CategoryID)
	assertDecimal(t, "0", views[1].Spent)
	assertDecimal(t, "400", views[1].Remaining)
	assertDecimal(t, "0", views[1].Overage)
	assert.Equal(t, OnTrack, views[1].Status)

	assert.True(t, views[0].Spent.Equal(views[2].Spent))
}

func TestBudgetsForMonth(t *testing.T) {
	budgets := []core.Budget{
		budget("food", "100", "2024-03"),
		budget("food", "100", "2024-04"),
		budget("bills", "100", "2024-03"),
	}
	got := BudgetsForMonth(budgets, "2024-03")
	require.Len(t, got, 2)
	assert.Equal(t, "food", got[0].CategoryID)
	assert.Equal(t, "bills", got[1].CategoryID)
	assert.Empty(t, BudgetsForMonth(budgets, "2023-03"))
}
