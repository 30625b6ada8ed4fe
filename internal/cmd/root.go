// Package cmd provides CLI commands for the gpdrive tool.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/plotworks/gpdrive/internal/config"
	"github.com/plotworks/gpdrive/internal/console"
	"github.com/plotworks/gpdrive/internal/gnuplot"
	"github.com/plotworks/gpdrive/internal/logging"
	"github.com/plotworks/gpdrive/internal/session"
)

// Version is the gpdrive release version.
const Version = "0.3.0"

var (
	cfg     config.Config
	printer *console.Printer

	flagEngine   string
	flagVerbose  bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:     "gpdrive",
	Short:   "Drive a gnuplot process over pipes",
	Version: Version,
	Long: `gpdrive drives a long-lived interactive gnuplot process over OS pipes.

It sends statements and data blocks, reliably detects when the engine has
finished each statement, captures textual replies, and surfaces
engine-reported errors, even while gnuplot emits unsolicited diagnostics
and pager prompts on the same stream.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

// setup loads config, wires logging, and sweeps orphaned temp files
// before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if flagEngine != "" {
		cfg.Engine.Path = flagEngine
	}
	if flagVerbose {
		cfg.Console.Verbose = true
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if _, err := logging.Setup(cfg.Log.Level, cfg.Log.File); err != nil {
		return err
	}
	printer = console.NewPrinter(os.Stderr, cfg.Console.Verbose)

	// Best effort; a failed sweep never blocks the actual command.
	_ = session.SweepOrphans(cfg.Data.TempDir, nil)
	return nil
}

// Execute runs the root command and returns an exit code.
// The caller (main) should call os.Exit with this code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEngine, "engine", "", "gnuplot binary (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "echo engine diagnostics")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// newRegistry builds the session registry for this invocation. Every
// spawned engine's diagnostic channel is handed to the console printer.
func newRegistry(dry bool) *session.Registry {
	rc := session.RegistryConfig{
		TempDir:        cfg.Data.TempDir,
		InitStatements: cfg.Engine.Init,
		PreferText:     cfg.Data.PreferText,
		TextThreshold:  cfg.Data.TextThreshold,
	}
	if !dry {
		rc.Spawn = func() (session.Runner, error) {
			h, err := gnuplot.Spawn(gnuplot.SpawnOptions{
				Path:       cfg.Engine.Path,
				MinVersion: cfg.Engine.MinVersion,
			})
			if err != nil {
				return nil, err
			}
			printer.Watch(h.Diag())
			return gnuplot.NewExecutor(h), nil
		}
	}
	return session.NewRegistry(rc)
}
