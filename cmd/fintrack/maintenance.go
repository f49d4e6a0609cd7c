package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fintrack/internal/cli"
	"fintrack/internal/storage"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add sample transactions to an empty ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			seedless := *cfg
			seedless.SeedSampleData = false

			svc, err := cli.OpenLedger(ctx, &seedless, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			n, err := svc.SeedSampleData(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("Ledger already has transactions, nothing seeded."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(fmt.Sprintf("Seeded %d sample transactions.", n)))
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQLite schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir := filepath.Dir(cfg.SQLiteDBPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create database directory: %w", err)
				}
			}
			version, err := storage.RunMigrations(cfg.SQLiteDBPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(
				fmt.Sprintf("Schema at version %d (%s)", version, cfg.SQLiteDBPath)))
			return nil
		},
	}
}
