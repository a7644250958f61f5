package cmd

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/session"

	"github.com/spf13/cobra"
)

// recordFlags are the editable fields shared by add and edit.
type recordFlags struct {
	date     string
	category string
	price    string
	note     string
}

var addFlags recordFlags

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Example: `  tally add --category Groceries --price 12.50
  tally add --date 2024-03-01 --category "Eating Out" --price 8,75 --note lunch`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	bindRecordFlags(addCmd, &addFlags)
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("price")
	rootCmd.AddCommand(addCmd)
}

func bindRecordFlags(cmd *cobra.Command, f *recordFlags) {
	cmd.Flags().StringVar(&f.date, "date", "", "Date of the expense, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category label")
	cmd.Flags().StringVarP(&f.price, "price", "p", "", "Amount, '.' or ',' as decimal separator")
	cmd.Flags().StringVarP(&f.note, "note", "n", "", "Optional note, up to 50 characters")
}

// applyRecordFlags copies the flags the user actually set onto vals.
func applyRecordFlags(cmd *cobra.Command, f recordFlags, vals *session.Values) error {
	flags := cmd.Flags()
	if flags.Changed("date") {
		d, err := model.ParseDate(f.date)
		if err != nil {
			return err
		}
		vals.Day, vals.Month, vals.Year = d.Day(), int(d.Month()), d.Year()
	}
	if flags.Changed("category") {
		vals.Category = f.category
	}
	if flags.Changed("price") {
		vals.Price = f.price
	}
	if flags.Changed("note") {
		vals.Note = f.note
	}
	return nil
}

func runAdd(cmd *cobra.Command, _ []string) error {
	result, cfg, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = result.Close() }()

	sess := session.New(result.Store, session.WithCategories(cfg.Records.Categories))
	vals := sess.Values()
	if err := applyRecordFlags(cmd, addFlags, &vals); err != nil {
		return err
	}
	sess.SetValues(vals)

	r, err := sess.Save()
	if err != nil {
		return fmt.Errorf("adding record: %w", err)
	}

	if !flagQuiet {
		printRecords("Added", []model.Record{r})
	}
	return nil
}
