package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	flog "fintrack/internal/log"
)

const shutdownTimeout = 30 * time.Second

func serveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, err := cli.OpenLedger(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.Close(); err != nil {
					logger.Error("Failed to close ledger", flog.FieldError, err.Error())
				}
			}()

			opts := apphttp.DefaultOptions()
			opts.Addr = ":" + cfg.Port
			opts.CacheSize = cfg.CacheSize
			opts.CacheTTL = cfg.CacheTTL
			srv := apphttp.NewServer(opts, svc, logger)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting fintrack server", "port", cfg.Port, "backend", cfg.DataBackend)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-ctx.Done():
				logger.Info("Shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			logger.Info("Server stopped gracefully")
			return nil
		},
	}
	cmd.Flags().String("port", "", "listen port")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}
