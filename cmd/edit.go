package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/session"

	"github.com/spf13/cobra"
)

var editFlags recordFlags

var editCmd = &cobra.Command{
	Use:     "edit ID",
	Short:   "Change fields of an existing record",
	Example: "  tally edit 1789012345678901234 --price 14 --note refund",
	Args:    cobra.ExactArgs(1),
	RunE:    runEdit,
}

func init() {
	bindRecordFlags(editCmd, &editFlags)
	rootCmd.AddCommand(editCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", s)
	}
	return id, nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	result, cfg, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = result.Close() }()

	sess := session.New(result.Store, session.WithCategories(cfg.Records.Categories))
	if err := sess.Edit(id); err != nil {
		return fmt.Errorf("record %d: %w", id, err)
	}

	vals := sess.Values()
	if err := applyRecordFlags(cmd, editFlags, &vals); err != nil {
		return err
	}
	sess.SetValues(vals)

	r, err := sess.Save()
	if err != nil {
		return fmt.Errorf("updating record %d: %w", id, err)
	}

	if !flagQuiet {
		printRecords("Updated", []model.Record{r})
	}
	return nil
}
