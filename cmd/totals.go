package cmd

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/pipeline"

	"github.com/spf13/cobra"
)

const barWidth = 24

var flagTotalsBy string

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Totals per category or per day",
	Args:  cobra.NoArgs,
	RunE:  runTotals,
}

func init() {
	totalsCmd.Flags().StringVar(&flagTotalsBy, "by", "category", "Group by: category or day")
	totalsCmd.Flags().StringVar(&flagListDate, "date", "", "Only records on this day (YYYY-MM-DD)")
	totalsCmd.Flags().BoolVar(&flagListToday, "today", false, "Only records dated today")
	totalsCmd.Flags().StringVar(&flagListSince, "since", "", "Only records on or after this day")
	totalsCmd.Flags().StringVar(&flagListUntil, "until", "", "Only records on or before this day")
	totalsCmd.MarkFlagsMutuallyExclusive("date", "today")
	rootCmd.AddCommand(totalsCmd)
}

func runTotals(_ *cobra.Command, _ []string) error {
	if flagTotalsBy != "category" && flagTotalsBy != "day" {
		return fmt.Errorf("--by must be category or day, got %q", flagTotalsBy)
	}

	result, _, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = result.Close() }()

	records, err := filterRecords(result.Store.List())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("\n  No data for the selected period.")
		return nil
	}

	report := pipeline.Aggregate(records)
	if flagTotalsBy == "day" {
		printDayTotals(report)
	} else {
		printCategoryTotals(report)
	}
	fmt.Printf("  Total %s\n", cli.RenderMoney(cli.FormatMoney(report.Summary.GrandTotal)))
	return nil
}

func printCategoryTotals(report pipeline.Report) {
	var peak float64
	for _, c := range report.Categories {
		v, _ := c.Total.Float64()
		peak = max(peak, v)
	}

	rows := make([][]string, 0, len(report.Categories))
	for _, c := range report.Categories {
		v, _ := c.Total.Float64()
		rows = append(rows, []string{
			c.Category,
			cli.FormatNumber(int64(c.Count)),
			cli.FormatMoney(c.Total),
			cli.FormatPercent(cli.Share(c.Total, report.Summary.GrandTotal)),
			cli.RenderHorizontalBar(v, peak, barWidth),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("TOTALS BY CATEGORY"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Records", "Total", "Share", ""},
		Rows:    rows,
		Right:   []bool{false, true, true, true, false},
	}))
}

func printDayTotals(report pipeline.Report) {
	days := report.Days
	values := make([]float64, len(days))
	var peak float64
	for i, d := range days {
		values[i], _ = d.Total.Float64()
		peak = max(peak, values[i])
	}

	rows := make([][]string, 0, len(days))
	for i, d := range days {
		rows = append(rows, []string{
			cli.FormatDate(d.Date),
			cli.FormatWeekday(d.Date),
			cli.FormatNumber(int64(d.Count)),
			cli.FormatMoney(d.Total),
			cli.RenderHorizontalBar(values[i], peak, barWidth),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("TOTALS BY DAY"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Records", "Total", ""},
		Rows:    rows,
		Right:   []bool{false, false, true, true, false},
	}))
	if len(days) > 1 {
		fmt.Printf("  %s\n", cli.RenderSparkline(values))
	}
}
