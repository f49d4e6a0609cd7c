// Package worker reacts to ledger changes outside the request path: it
// watches budgets and keeps the exported report current.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/finance"
	flog "fintrack/internal/log"
	"fintrack/internal/ports"
	"fintrack/internal/sheets"
)

// LedgerReader is the read half of a ports.Store.
type LedgerReader interface {
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	LoadBudgets(ctx context.Context) ([]core.Budget, error)
}

var _ LedgerReader = (ports.Store)(nil)

type ReportWorker struct {
	store           LedgerReader
	writer          sheets.ReportWriter
	logger          *slog.Logger
	nearLimitAlerts bool
	now             func() time.Time
}

// NewReportWorker returns a worker reading from store. writer may be nil, in
// which case reports are not exported.
func NewReportWorker(store LedgerReader, writer sheets.ReportWriter, nearLimitAlerts bool, logger *slog.Logger) *ReportWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWorker{
		store:           store,
		writer:          writer,
		logger:          logger.With(flog.FieldComponent, flog.ComponentWorker),
		nearLimitAlerts: nearLimitAlerts,
		now:             time.Now,
	}
}

// HandleLedgerChanged re-evaluates the budgets of the changed month and
// exports a fresh report for it.
func (w *ReportWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	month := msg.Month
	if _, err := core.ParseMonth(month); err != nil {
		month = core.CurrentMonth(w.now())
	}

	txs, budgets, err := w.load(ctx)
	if err != nil {
		return err
	}

	w.CheckBudgets(ctx, txs, budgets, month)
	return w.export(ctx, txs, budgets, month)
}

// ExportCurrentMonth is the scheduled entry point.
func (w *ReportWorker) ExportCurrentMonth(ctx context.Context) error {
	txs, budgets, err := w.load(ctx)
	if err != nil {
		return err
	}
	return w.export(ctx, txs, budgets, core.CurrentMonth(w.now()))
}

// CheckBudgets logs a warning for every budget of month that is over its
// limit, and for those near it when near-limit alerts are on. It returns the
// budgets it warned about.
func (w *ReportWorker) CheckBudgets(ctx context.Context, txs []core.Transaction, budgets []core.Budget, month string) []finance.BudgetView {
	views := finance.BudgetProgress(finance.BudgetsForMonth(budgets, month), txs)
	alerts := make([]finance.BudgetView, 0)
	for _, v := range views {
		if v.Status != finance.OverBudget && (v.Status != finance.NearLimit || !w.nearLimitAlerts) {
			continue
		}
		alerts = append(alerts, v)
		fields := flog.NewFields().WithBudget(v.CategoryID, v.Month,
			core.FormatAmount(v.Amount), core.FormatAmount(v.Spent), v.Percent.StringFixed(1), string(v.Status))
		fields[flog.FieldBudgetID] = v.ID
		w.logger.WarnContext(ctx, "Budget limit alert", fields.ToSlice()...)
	}
	return alerts
}

func (w *ReportWorker) load(ctx context.Context) ([]core.Transaction, []core.Budget, error) {
	var (
		txs     []core.Transaction
		budgets []core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txs, err = w.store.LoadTransactions(gctx)
		return err
	})
	g.Go(func() (err error) {
		budgets, err = w.store.LoadBudgets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load ledger: %w", err)
	}
	return txs, budgets, nil
}

func (w *ReportWorker) export(ctx context.Context, txs []core.Transaction, budgets []core.Budget, month string) error {
	if w.writer == nil {
		return nil
	}
	report := sheets.BuildReport(txs, budgets, month, w.now())
	if err := w.writer.WriteReport(ctx, report); err != nil {
		return fmt.Errorf("export report for %s: %w", month, err)
	}
	w.logger.InfoContext(ctx, "Report exported", flog.FieldMonth, month, flog.FieldOperation, flog.OpExport)
	return nil
}
