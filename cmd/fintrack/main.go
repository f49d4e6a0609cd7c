package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	flog "fintrack/internal/log"
)

var (
	version = "dev"
	cfgFile string

	cfg    *config.Config
	logger *flog.Logger
)

func rootCmd() *cobra.Command {
	v := config.NewViper()
	root := &cobra.Command{
		Use:           "fintrack",
		Short:         "Personal finance tracker",
		Long:          `fintrack records income and expenses, tracks monthly budgets and reports on where the money went.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cli.LoadEnvFile()
			var err error
			if cfg, err = cli.LoadConfig(v, cfgFile); err != nil {
				return err
			}
			logger, err = cli.SetupLogger(cfg, flog.ComponentApp)
			return err
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml); environment variables take precedence")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (text, json)")
	root.PersistentFlags().String("backend", "", "data backend (memory, sqlite)")
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", root.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("data_backend", root.PersistentFlags().Lookup("backend"))

	root.AddCommand(serveCmd(v))
	root.AddCommand(reportCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := cli.SignalContext(context.Background())
	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fintrack %s\n", version)
		},
	}
}
