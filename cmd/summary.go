package cmd

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Days, grand total and totals per category",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	result, _, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = result.Close() }()

	records := result.Store.List()
	if len(records) == 0 {
		fmt.Println("\n  No records yet.")
		fmt.Println("  Add one with `tally add --category Groceries --price 12.50`.")
		return nil
	}

	report := pipeline.Aggregate(records)
	sum := report.Summary

	fmt.Println()
	fmt.Println(cli.RenderTitle("EXPENSES"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Records", cli.FormatNumber(int64(sum.Records))},
			{"Days", cli.FormatNumber(int64(sum.UniqueDays))},
			{"---"},
			{"Total", cli.FormatMoney(sum.GrandTotal)},
		},
	}))
	fmt.Println()

	rows := make([][]string, 0, len(report.Categories))
	for _, c := range report.Categories {
		rows = append(rows, []string{
			c.Category,
			cli.FormatNumber(int64(c.Count)),
			cli.FormatMoney(c.Total),
			cli.FormatPercent(cli.Share(c.Total, sum.GrandTotal)),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By category",
		Headers: []string{"Category", "Records", "Total", "Share"},
		Rows:    rows,
	}))

	return nil
}
