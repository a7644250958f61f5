package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagListDate     string
	flagListToday    bool
	flagListSince    string
	flagListUntil    string
	flagListCategory string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List records, optionally filtered",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVar(&flagListDate, "date", "", "Only records on this day (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&flagListToday, "today", false, "Only records dated today")
	listCmd.Flags().StringVar(&flagListSince, "since", "", "Only records on or after this day")
	listCmd.Flags().StringVar(&flagListUntil, "until", "", "Only records on or before this day")
	listCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "Filter to category (substring match)")
	listCmd.MarkFlagsMutuallyExclusive("date", "today")
	rootCmd.AddCommand(listCmd)
}

// parseOptionalDate parses s, returning the zero Date for "".
func parseOptionalDate(s string) (model.Date, error) {
	if s == "" {
		return model.Date{}, nil
	}
	return model.ParseDate(s)
}

// filterRecords applies the list/totals filters in a fixed order: day,
// range, category.
func filterRecords(records []model.Record) ([]model.Record, error) {
	switch {
	case flagListToday:
		records = pipeline.FilterByDate(records, model.Today())
	case flagListDate != "":
		d, err := model.ParseDate(flagListDate)
		if err != nil {
			return nil, fmt.Errorf("--date: %w", err)
		}
		records = pipeline.FilterByDate(records, d)
	}

	since, err := parseOptionalDate(flagListSince)
	if err != nil {
		return nil, fmt.Errorf("--since: %w", err)
	}
	until, err := parseOptionalDate(flagListUntil)
	if err != nil {
		return nil, fmt.Errorf("--until: %w", err)
	}
	records = pipeline.FilterByRange(records, since, until)

	return pipeline.FilterByCategory(records, flagListCategory), nil
}

func runList(_ *cobra.Command, _ []string) error {
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
		fmt.Println("\n  No records match.")
		return nil
	}

	printRecords("RECORDS", records)

	sum := pipeline.Summarize(records)
	fmt.Printf("  %s records across %s days, total %s\n",
		cli.FormatNumber(int64(sum.Records)),
		cli.FormatNumber(int64(sum.UniqueDays)),
		cli.RenderMoney(cli.FormatMoney(sum.GrandTotal)),
	)
	return nil
}

func printRecords(title string, records []model.Record) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			cli.FormatDate(r.Date),
			cli.FormatWeekday(r.Date),
			r.Category,
			cli.FormatMoney(r.Price),
			r.Note,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Date", "Day", "Category", "Price", "Note"},
		Rows:    rows,
		Right:   []bool{true, false, false, false, true, false},
	}))
}
