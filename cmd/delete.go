package cmd

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/cli"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID...",
	Aliases: []string{"rm"},
	Short:   "Delete records by id",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(_ *cobra.Command, args []string) error {
	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids[i] = id
	}

	result, _, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = result.Close() }()

	deleted := 0
	for _, id := range ids {
		ok, err := result.Store.Delete(id)
		if err != nil {
			return fmt.Errorf("deleting record %d: %w", id, err)
		}
		if !ok {
			info("%s", cli.RenderMuted(fmt.Sprintf("  No record %d", id)))
			continue
		}
		deleted++
	}

	info("  Deleted %d of %d", deleted, len(ids))
	return nil
}
