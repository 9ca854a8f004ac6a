// Package cli is the rota-engine command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"rota-engine/internal/config"
	"rota-engine/internal/engine"
	"rota-engine/internal/metrics"
	"rota-engine/internal/planregistry"
)

const appName = "rota-engine"

// Version is overridden at build time with -ldflags.
var Version = "dev"

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Schedule analytics and commute fare engine",
		Long: `rota-engine analyzes a monthly shift schedule: who overlaps with whom,
consecutive working-day streaks, and the cheapest commute fare per employee.

Run it as an HTTP service with "serve" or on files with "analyze" and "diff".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Config file path (TOML)")

	cmd.AddCommand(newServeCmd(opts), newAnalyzeCmd(opts), newDiffCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

// loadConfig only fails on a missing file when --config was given explicitly.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	return config.Load(o.configPath, cmd.Flags().Changed("config"))
}

// newEngine wires the engine from cfg. catalog overrides the configured fare
// catalog; an empty result means fares are skipped.
func newEngine(cfg *config.AppConfig, catalog string, logger *slog.Logger, m *metrics.Metrics) (*engine.Engine, *planregistry.Registry, error) {
	if catalog == "" {
		catalog = cfg.Fares.Catalog
	}
	var plans *planregistry.Registry
	if catalog != "" {
		var err error
		plans, err = planregistry.Open(catalog,
			planregistry.WithLogger(logger),
			planregistry.WithReloadHook(m.ObserveReload))
		if err != nil {
			return nil, nil, err
		}
	}
	e := engine.New(engine.Options{
		Risk:    cfg.Streaks,
		Fare:    cfg.FarePolicy(),
		Plans:   plans,
		Logger:  logger,
		Metrics: m,
		Workers: cfg.Server.Workers,
	})
	return e, plans, nil
}

func cliLogger(w io.Writer, cfg *config.AppConfig) (*slog.Logger, error) {
	lc := cfg.Log
	lc.Format = "text"
	return config.NewLogger(w, lc)
}
