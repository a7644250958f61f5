package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tally/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", cfg.DataDir())
	fmt.Printf("    Backend:        %s\n", cfg.General.Backend)
	fmt.Println()

	fmt.Println("  [Records]")
	fmt.Printf("    Categories: %s\n", strings.Join(cfg.Records.Categories, ", "))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:    %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Currency: %s\n", cfg.Appearance.Currency)
	fmt.Println()

	fmt.Println("  [Export]")
	fmt.Printf("    Directory: %s\n", cfg.ExportDir())
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Printf("    File:  %s (tui)\n", cfg.LogFile())
	fmt.Println()

	fmt.Println("  Run `tally setup` to reconfigure.")
	return nil
}
