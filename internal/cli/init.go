// Package cli holds the start-up steps shared by cmd/fintrack and
// cmd/fintrack-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	flog "fintrack/internal/log"
	"fintrack/internal/services"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig reads and validates the configuration. v may be nil.
func LoadConfig(v *viper.Viper, configFile string) (*config.Config, error) {
	if v == nil {
		v = config.NewViper()
	}
	cfg, err := config.LoadViper(v, configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger from cfg and makes it the slog default.
func SetupLogger(cfg *config.Config, component string) (*flog.Logger, error) {
	level, err := flog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := flog.New(flog.Config{
		Level:     level,
		Format:    strings.ToLower(cfg.LogFormat),
		Component: component,
		Output:    os.Stdout,
	})
	flog.SetDefault(logger)
	return logger, nil
}

// OpenLedger opens the configured store and wraps it in a ledger service.
// When AMQP is configured but unreachable the ledger still opens; changes
// are then not announced.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *flog.Logger) (*services.LedgerService, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger.WithComponent(flog.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, err
	}

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, ledger events disabled", flog.FieldError, err.Error())
		} else {
			publisher = client
		}
	}

	svc := services.NewLedgerService(result.Store, publisher,
		services.WithLogger(logger.WithComponent(flog.ComponentLedger)))

	if cfg.SeedSampleData {
		n, err := svc.SeedSampleData(ctx)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("seed sample data: %w", err)
		}
		if n > 0 {
			logger.Info("Seeded sample transactions", flog.FieldCount, n)
		}
	}
	return svc, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
