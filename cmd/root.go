// Package cmd implements the tally CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/log"
	"github.com/theirongolddev/tally/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagBackend string
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:          "tally",
	Short:        "Personal expense tracker",
	Long:         "Record daily expenses by category and see where the money goes.",
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory holding the record store (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "", "Storage backend: bolt, file, memory, sqlite")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagBackend != "" {
		cfg.General.Backend = flagBackend
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}
	if cfg.Appearance.Currency != "" {
		cli.Currency = cfg.Appearance.Currency
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelWarn
	}
	return log.New(log.Config{Level: level, Component: "cli", Output: os.Stderr})
}

// loadData is the shared store loading path used by all record commands.
// Callers must Close the result.
func loadData() (*pipeline.LoadResult, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}

	result, err := pipeline.Load(cfg, newLogger(cfg))
	if err != nil {
		return nil, cfg, err
	}

	return result, cfg, nil
}

// info prints a progress line to stderr unless --quiet is set.
func info(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
