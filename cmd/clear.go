package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagClearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&flagClearYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(_ *cobra.Command, _ []string) error {
	result, _, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = result.Close() }()

	n := result.Store.Len()
	if n == 0 {
		info("  Nothing to clear.")
		return nil
	}

	if !flagClearYes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete all %d records?", n)).
			Description("This cannot be undone.").
			Affirmative("Delete all").
			Negative("Keep").
			Value(&confirmed).
			Run()
		if err != nil {
			return fmt.Errorf("confirmation: %w", err)
		}
		if !confirmed {
			info("  Kept %d records.", n)
			return nil
		}
	}

	if err := result.Store.Clear(); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	info("  Deleted %d records.", n)
	return nil
}
