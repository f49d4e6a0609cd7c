package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Config struct {
	// HTTP Server
	Port string `mapstructure:"port"`

	// Backend selection
	DataBackend    string `mapstructure:"data_backend"`
	SQLiteDBPath   string `mapstructure:"sqlite_db_path"`
	DataFile       string `mapstructure:"data_file"`
	SeedSampleData bool   `mapstructure:"seed_sample_data"`

	// AMQP, disabled when the URL is empty
	AMQPURL      string `mapstructure:"amqp_url"`
	AMQPExchange string `mapstructure:"amqp_exchange"`
	AMQPQueue    string `mapstructure:"amqp_queue"`

	// Google Sheets report export, disabled when the spreadsheet id is empty
	GoogleSpreadsheetID string `mapstructure:"google_spreadsheet_id"`
	GoogleReportSheet   string `mapstructure:"google_report_sheet"`
	ReportSchedule      string `mapstructure:"report_schedule"`

	// View cache
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	CacheSize int           `mapstructure:"cache_size"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	NearLimitAlerts bool `mapstructure:"near_limit_alerts"`
}

var defaults = map[string]any{
	"port":                  "8081",
	"data_backend":          "memory",
	"sqlite_db_path":        "./data/fintrack.db",
	"data_file":             "./data/ledger.json",
	"seed_sample_data":      true,
	"amqp_url":              "",
	"amqp_exchange":         "fintrack",
	"amqp_queue":            "ledger_events",
	"google_spreadsheet_id": "",
	"google_report_sheet":   "Report",
	"report_schedule":       "@daily",
	"cache_ttl":             30 * time.Second,
	"cache_size":            64,
	"log_level":             "info",
	"log_format":            "text",
	"near_limit_alerts":     true,
}

// NewViper returns a viper instance with every key defaulted and bound to
// its upper-case environment variable (port -> PORT).
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the environment. When configFile is not
// empty it is read first and environment variables still take precedence.
func Load(configFile string) (*Config, error) {
	return LoadViper(NewViper(), configFile)
}

// LoadViper is Load on a caller-prepared viper, typically one with command
// line flags bound to its keys.
func LoadViper(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper decodes every defaulted key. Defaults make the keys known to
// viper, so environment overrides reach Unmarshal too.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "memory":
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [memory sqlite]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" && c.GoogleReportSheet == "" {
		problems = append(problems, "Google report sheet name is required when a spreadsheet id is set")
	}
	if c.ReportSchedule != "" {
		if _, err := cron.ParseStandard(c.ReportSchedule); err != nil {
			problems = append(problems, fmt.Sprintf("invalid report schedule '%s': %v", c.ReportSchedule, err))
		}
	}

	if c.CacheTTL < 0 {
		problems = append(problems, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}
	if c.CacheSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// ErrWorkerBackend is returned by ValidateWorker when the worker would read a
// store no other process writes to.
var ErrWorkerBackend = errors.New("worker requires the sqlite backend")

// ValidateWorker adds the checks that only apply to the worker process.
func (c *Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DataBackend != "sqlite" {
		return ErrWorkerBackend
	}
	return nil
}
