package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cli"
	flog "fintrack/internal/log"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/worker"
)

const jobTimeout = 2 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fintrack-worker:", err)
		os.Exit(1)
	}
}

func run() error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig(nil, os.Getenv("FINTRACK_CONFIG"))
	if err != nil {
		return err
	}
	if err := cfg.ValidateWorker(); err != nil {
		return err
	}
	logger, err := cli.SetupLogger(cfg, flog.ComponentWorker)
	if err != nil {
		return err
	}
	logger.Info("Starting fintrack-worker")

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	store, err := backend.NewFactory(logger.WithComponent(flog.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	if store.Cleanup != nil {
		defer func() { _ = store.Cleanup() }()
	}

	var writer sheets.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		w, err := gsheet.NewReportWriter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleReportSheet)
		if err != nil {
			return fmt.Errorf("google sheets: %w", err)
		}
		writer = w
		logger.Info("Report export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleReportSheet)
	} else {
		logger.Info("Report export disabled, no GOOGLE_SPREADSHEET_ID provided")
	}

	rw := worker.NewReportWorker(store.Store, writer, cfg.NearLimitAlerts, logger.Logger)

	scheduler := worker.NewScheduler(ctx, jobTimeout, logger.Logger)
	if writer != nil {
		export := worker.JobFunc{JobName: "export-report", Fn: rw.ExportCurrentMonth}
		if err := scheduler.AddJob(cfg.ReportSchedule, export); err != nil {
			return fmt.Errorf("schedule report export: %w", err)
		}
		// Startup export; a failure is logged and retried on schedule.
		_ = scheduler.RunNow(export)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled, budget alerts only run with ledger events")
		<-ctx.Done()
		logger.Info("Worker shutdown complete")
		return nil
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("amqp: %w", err)
	}
	defer client.Close()

	logger.Info("Consuming ledger events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	if err := client.ConsumeLedgerChanged(ctx, rw.HandleLedgerChanged); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume ledger events: %w", err)
	}
	logger.Info("Worker shutdown complete")
	return nil
}
