package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/kv"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the saved config (or defaults) without flag overrides,
	// so one-off flags are not persisted.
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	dataDir := cfg.General.DataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	backend := cfg.General.Backend
	themeName := cfg.Appearance.Theme
	currency := cfg.Appearance.Currency
	exportDir := cfg.Export.Dir

	backendOpts := make([]huh.Option[string], 0, len(kv.Backends()))
	for _, b := range kv.Backends() {
		if b == kv.BackendMemory {
			continue
		}
		backendOpts = append(backendOpts, huh.NewOption(b, b))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to tally").
				Description("Track daily expenses from the terminal."),

			huh.NewSelect[string]().
				Title("Storage backend").
				Description("file keeps a JSON file, sqlite and bolt keep a single database file.").
				Options(backendOpts...).
				Value(&backend),

			huh.NewInput().
				Title("Data directory").
				Value(&dataDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("data directory is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&themeName),

			huh.NewInput().
				Title("Currency symbol").
				Description("Shown before every amount.").
				Value(&currency),

			huh.NewInput().
				Title("Export directory").
				Description("Where CSV exports go. Empty means the current directory.").
				Value(&exportDir),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup form: %w", err)
	}

	cfg.General.DataDir = strings.TrimSpace(dataDir)
	cfg.General.Backend = backend
	cfg.Appearance.Theme = themeName
	cfg.Appearance.Currency = strings.TrimSpace(currency)
	cfg.Export.Dir = strings.TrimSpace(exportDir)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `tally setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
