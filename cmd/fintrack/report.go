package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/cli"
	"fintrack/internal/core"
	"fintrack/internal/finance"
	"fintrack/internal/insights"
	"fintrack/internal/services"
)

func reportCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a report to the terminal",
	}
	cmd.PersistentFlags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month where one is needed)")

	views := []struct {
		use, short string
		render     func(io.Writer, services.Snapshot, string) error
	}{
		{"monthly", "Income, expenses and net per month", renderMonthly},
		{"categories", "Expenses per category", renderCategories},
		{"budgets", "Budget progress", renderBudgets},
		{"insights", "Spending trend, top category and budget compliance", renderInsights},
	}
	for _, v := range views {
		render := v.render
		cmd.AddCommand(&cobra.Command{
			Use:   v.use,
			Short: v.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if month != "" {
					if _, err := core.ParseMonth(month); err != nil {
						return core.ErrInvalidMonth
					}
				}
				snap, err := loadSnapshot(cmd)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), snap, month)
			},
		})
	}
	return cmd
}

func loadSnapshot(cmd *cobra.Command) (services.Snapshot, error) {
	readOnly := *cfg
	readOnly.SeedSampleData = false
	svc, err := cli.OpenLedger(cmd.Context(), &readOnly, logger)
	if err != nil {
		return services.Snapshot{}, err
	}
	defer svc.Close()
	return svc.Snapshot(cmd.Context())
}

func orCurrentMonth(month string) string {
	if month == "" {
		return core.CurrentMonth(time.Now())
	}
	return month
}

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = cli.HeaderStyle.Render(h)
	}
	fmt.Fprintln(tw, strings.Join(styled, "\t"))
	return tw
}

func renderMonthly(w io.Writer, snap services.Snapshot, month string) error {
	fmt.Fprintln(w, cli.TitleStyle.Render("Monthly totals"))
	data := finance.AggregateMonthly(snap.Transactions)
	if month != "" {
		filtered := data[:0:0]
		for _, m := range data {
			if m.Month == month {
				filtered = append(filtered, m)
			}
		}
		data = filtered
	}
	if len(data) == 0 {
		fmt.Fprintln(w, cli.SubtleStyle.Render("No transactions."))
		return nil
	}

	tw := newTable(w, "Month", "Income", "Expenses", "Net")
	for _, m := range data {
		net := core.FormatAmount(m.Net)
		if m.Net.IsNegative() {
			net = cli.ErrorStyle.Render(net)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Month, core.FormatAmount(m.Income), core.FormatAmount(m.Expenses), net)
	}
	return tw.Flush()
}

func renderCategories(w io.Writer, snap services.Snapshot, month string) error {
	txs := snap.Transactions
	title := "Expenses by category"
	if month != "" {
		txs = finance.FilterMonth(txs, month)
		title += " in " + month
	}
	fmt.Fprintln(w, cli.TitleStyle.Render(title))

	totals := finance.AggregateByCategory(txs, core.Expense)
	if len(totals) == 0 {
		fmt.Fprintln(w, cli.SubtleStyle.Render("No expenses."))
		return nil
	}
	tw := newTable(w, "Category", "Total")
	for _, c := range totals {
		fmt.Fprintf(tw, "%s\t%s\n", c.CategoryName, core.FormatAmount(c.Total))
	}
	return tw.Flush()
}

func renderBudgets(w io.Writer, snap services.Snapshot, month string) error {
	month = orCurrentMonth(month)
	fmt.Fprintln(w, cli.TitleStyle.Render("Budgets for "+month))

	views := finance.BudgetProgress(finance.BudgetsForMonth(snap.Budgets, month), snap.Transactions)
	if len(views) == 0 {
		fmt.Fprintln(w, cli.SubtleStyle.Render("No budgets set."))
		return nil
	}
	tw := newTable(w, "Category", "Budget", "Spent", "Remaining", "Used", "Status")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\t%s\n",
			v.CategoryName,
			core.FormatAmount(v.Amount),
			core.FormatAmount(v.Spent),
			core.FormatAmount(v.Remaining),
			v.Percent.StringFixed(1),
			cli.StatusStyle(v.Status).Render(string(v.Status)))
	}
	return tw.Flush()
}

func renderInsights(w io.Writer, snap services.Snapshot, month string) error {
	month = orCurrentMonth(month)
	ins, err := insights.GenerateForMonth(snap.Transactions, snap.Budgets, month)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, cli.TitleStyle.Render("Insights for "+month))

	t := ins.Trend
	trend := fmt.Sprintf("Spending %s %s%% vs %s (%s -> %s)",
		t.Direction, t.ChangePercent.Abs().StringFixed(1), t.PreviousMonth,
		core.FormatAmount(t.PreviousExpenses), core.FormatAmount(t.CurrentExpenses))
	switch t.Severity {
	case insights.SeverityHigh:
		trend = cli.ErrorStyle.Render(trend)
	case insights.SeverityElevated:
		trend = cli.WarningStyle.Render(trend)
	}
	fmt.Fprintln(w, trend)

	if ins.TopCategory.HasData {
		c := ins.TopCategory.Category
		fmt.Fprintf(w, "Top category: %s (%s)\n", c.CategoryName, core.FormatAmount(c.Total))
	} else {
		fmt.Fprintln(w, cli.SubtleStyle.Render("No expenses this month."))
	}

	b := ins.Budgets
	switch b.Outcome {
	case insights.OutcomeNoBudgets:
		fmt.Fprintln(w, cli.SubtleStyle.Render("No budgets set."))
	case insights.OutcomeAllOnTrack:
		fmt.Fprintln(w, cli.SuccessStyle.Render(fmt.Sprintf("All %d budgets on track.", b.BudgetCount)))
	default:
		fmt.Fprintln(w, cli.ErrorStyle.Render(fmt.Sprintf("%d of %d budgets exceeded:", b.OverCount, b.BudgetCount)))
		for _, o := range b.Overages {
			fmt.Fprintf(w, "  %s over by %s\n", o.CategoryName, core.FormatAmount(o.Over))
		}
	}
	return nil
}
