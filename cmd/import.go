package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/store"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Append records from a JSON dump",
	Long: "Append records from a JSON array in the stored layout. Ids in the file are " +
		"ignored and fresh ones assigned, so dumps without ids import too. " +
		"Use - to read from stdin.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name) //nolint:gosec // user-named input file
}

func runImport(_ *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	decoded, stats, err := store.DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	result, _, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = result.Close() }()

	drafts := make([]model.Draft, len(decoded))
	for i, r := range decoded {
		drafts[i] = r.Draft()
	}

	added, skipped, err := result.Store.Import(drafts)
	if err != nil {
		return fmt.Errorf("importing: %w", err)
	}

	info("  Imported %d records, skipped %d", len(added), skipped+stats.Skipped)
	if stats.BadPrice > 0 {
		info("%s", cli.RenderWarning(fmt.Sprintf("  %d records had no usable price and count as zero", stats.BadPrice)))
	}
	return nil
}
