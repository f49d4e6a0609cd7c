package insights

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func tx(amount string, typ core.TransactionType, category, date string) core.Transaction {
	return core.Transaction{
		ID:       category + date,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
		Category: category,
		Type:     typ,
	}
}

func budget(id, category, amount, month string) core.Budget {
	return core.Budget{ID: id, CategoryID: category, Amount: decimal.RequireFromString(amount), Month: month}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

var march2024 = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestSpendingTrendIncrease(t *testing.T) {
	in := []core.Transaction{
		tx("100", core.Expense, "food", "2024-02-10"),
		tx("150", core.Expense, "food", "2024-03-10"),
		tx("5000", core.Income, "salary", "2024-03-01"),
	}
	got := Generate(in, nil, march2024)
	assert.Equal(t, "2024-03", got.Trend.CurrentMonth)
	assert.Equal(t, "2024-02", got.Trend.PreviousMonth)
	assertDecimal(t, "150", got.Trend.CurrentExpenses)
	assertDecimal(t, "100", got.Trend.PreviousExpenses)
	assertDecimal(t, "50", got.Trend.ChangePercent)
	assert.Equal(t, Increase, got.Trend.Direction)
	assert.Equal(t, SeverityHigh, got.Trend.Severity)
}

func TestSpendingTrendSeverity(t *testing.T) {
	cases := []struct {
		prev, cur string
		dir       Direction
		sev       Severity
	}{
		{"100", "105", Increase, SeverityElevated},
		{"100", "110", Increase, SeverityElevated},
		{"100", "111", Increase, SeverityHigh},
		{"100", "100", Decrease, SeverityNormal},
		{"100", "40", Decrease, SeverityNormal},
	}
	for _, tc := range cases {
		in := []core.Transaction{
			tx(tc.prev, core.Expense, "food", "2024-02-10"),
			tx(tc.cur, core.Expense, "food", "2024-03-10"),
		}
		got := Generate(in, nil, march2024).Trend
		assert.Equal(t, tc.dir, got.Direction, "%s -> %s", tc.prev, tc.cur)
		assert.Equal(t, tc.sev, got.Severity, "%s -> %s", tc.prev, tc.cur)
	}
}

func TestSpendingTrendZeroPreviousIsZeroChange(t *testing.T) {
	in := []core.Transaction{
		tx("200", core.Expense, "food", "2024-03-10"),
	}
	got := Generate(in, nil, march2024).Trend
	assertDecimal(t, "0", got.ChangePercent)
	assert.Equal(t, Decrease, got.Direction)
	assert.Equal(t, SeverityNormal, got.Severity)
}

func TestPreviousMonthRollsBackAcrossYear(t *testing.T) {
	in := []core.Transaction{
		tx("80", core.Expense, "food", "2023-12-20"),
		tx("40", core.Expense, "food", "2024-01-05"),
	}
	now := time.Date(2024, time.January, 31, 23, 0, 0, 0, time.UTC)
	got := Generate(in, nil, now).Trend
	assert.Equal(t, "2024-01", got.CurrentMonth)
	assert.Equal(t, "2023-12", got.PreviousMonth)
	assertDecimal(t, "-50", got.ChangePercent)
	assert.Equal(t, Decrease, got.Direction)
}

func TestPreviousMonthFromMonthEnd(t *testing.T) {
	// March 31 minus one month must not normalize back into March.
	now := time.Date(2024, time.March, 31, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02", Generate(nil, nil, now).Trend.PreviousMonth)
}

func TestTopCategory(t *testing.T) {
	in := []core.Transaction{
		tx("30", core.Expense, "transport", "2024-03-02"),
		tx("70", core.Expense, "food", "2024-03-03"),
		tx("900", core.Expense, "travel", "2024-02-03"), // previous month ignored
	}
	got := Generate(in, nil, march2024).TopCategory
	require.True(t, got.HasData)
	require.NotNil(t, got.Category)
	assert.Equal(t, "food", got.Category.CategoryID)
	assert.Equal(t, "Food & Dining", got.Category.CategoryName)
	assertDecimal(t, "70", got.Category.Total)
}

func TestTopCategoryNoData(t *testing.T) {
	in := []core.Transaction{tx("1000", core.Income, "salary", "2024-03-01")}
	got := Generate(in, nil, march2024).TopCategory
	assert.False(t, got.HasData)
	assert.Nil(t, got.Category)
}

func TestBudgetComplianceNoBudgets(t *testing.T) {
	budgets := []core.Budget{budget("b1", "food", "100", "2024-02")}
	got := Generate(nil, budgets, march2024).Budgets
	assert.Equal(t, OutcomeNoBudgets, got.Outcome)
	assert.Zero(t, got.BudgetCount)
	assert.Empty(t, got.Overages)
}

func TestBudgetComplianceAllOnTrack(t *testing.T) {
	in := []core.Transaction{tx("50", core.Expense, "food", "2024-03-02")}
	budgets := []core.Budget{budget("b1", "food", "100", "2024-03")}
	got := Generate(in, budgets, march2024).Budgets
	assert.Equal(t, OutcomeAllOnTrack, got.Outcome)
	assert.Equal(t, 1, got.BudgetCount)
	assert.Zero(t, got.OverCount)
}

func TestBudgetComplianceOverBudgetReportsFirstTwo(t *testing.T) {
	in := []core.Transaction{
		tx("100", core.Expense, "food", "2024-03-05"),
		tx("50", core.Expense, "food", "2024-03-20"),
		tx("60", core.Expense, "transport", "2024-03-06"),
		tx("500", core.Expense, "bills", "2024-03-07"),
		tx("10", core.Expense, "shopping", "2024-03-07"),
	}
	budgets := []core.Budget{
		budget("b1", "shopping", "100", "2024-03"),
		budget("b2", "food", "100", "2024-03"),
		budget("b3", "transport", "50", "2024-03"),
		budget("b4", "bills", "200", "2024-03"),
	}
	got := Generate(in, budgets, march2024).Budgets
	assert.Equal(t, OutcomeOverBudget, got.Outcome)
	assert.Equal(t, 4, got.BudgetCount)
	assert.Equal(t, 3, got.OverCount)
	require.Len(t, got.Overages, 2)

	assert.Equal(t, "b2", got.Overages[0].BudgetID)
	assert.Equal(t, "Food & Dining", got.Overages[0].CategoryName)
	assertDecimal(t, "150", got.Overages[0].Spent)
	assertDecimal(t, "50", got.Overages[0].Over)

	assert.Equal(t, "b3", got.Overages[1].BudgetID)
	assertDecimal(t, "10", got.Overages[1].Over)
}

func TestBudgetComplianceSpentEqualsAmountIsWithin(t *testing.T) {
	in := []core.Transaction{tx("100", core.Expense, "food", "2024-03-05")}
	budgets := []core.Budget{budget("b1", "food", "100", "2024-03")}
	got := Generate(in, budgets, march2024).Budgets
	assert.Equal(t, OutcomeAllOnTrack, got.Outcome)
	assert.Equal(t, 0, got.OverCount)
	assert.Empty(t, got.Overages)

	in = append(in, tx("0.01", core.Expense, "food", "2024-03-06"))
	got = Generate(in, budgets, march2024).Budgets
	assert.Equal(t, OutcomeOverBudget, got.Outcome)
	require.Len(t, got.Overages, 1)
	assertDecimal(t, "0.01", got.Overages[0].Over)
}

func TestGenerateForMonth(t *testing.T) {
	in := []core.Transaction{
		tx("80", core.Expense, "food", "2023-12-20"),
		tx("120", core.Expense, "food", "2024-01-05"),
	}
	got, err := GenerateForMonth(in, nil, "2024-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", got.Month)
	assert.Equal(t, "2023-12", got.Trend.PreviousMonth)
	assertDecimal(t, "50", got.Trend.ChangePercent)

	_, err = GenerateForMonth(in, nil, "January")
	assert.ErrorIs(t, err, core.ErrInvalidMonth)
}
