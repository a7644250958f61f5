package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/tally/internal/export"

	"github.com/spf13/cobra"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all records to a timestamped CSV file",
	Long: "Write all records to <dir>/<yyyyMMddHHmmss>.csv. " +
		"Use --out - to write the CSV to stdout instead.",
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output directory (default from config, else the current directory)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	result, cfg, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = result.Close() }()

	records := result.Store.List()

	if flagExportOut == "-" {
		if len(records) == 0 {
			info("  Nothing to export.")
			return nil
		}
		return export.WriteCSV(os.Stdout, records)
	}

	dir := cfg.ExportDir()
	if flagExportOut != "" {
		dir = flagExportOut
	}

	path, err := export.ToDir(dir, records, time.Now())
	if errors.Is(err, export.ErrEmpty) {
		info("  Nothing to export.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	info("  Exported %d records to %s", len(records), path)
	return nil
}
