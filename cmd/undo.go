package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seam-cli/seam/pkg/prompts"
)

var undoCmd = &cobra.Command{
	Use:   "undo [ref]",
	Short: "Revert an applied plan",
	Long: `Inverts the operations of a history entry in reverse order: created files
are removed, edited and deleted files are restored from their recorded
backups, renames are moved back. Operations that cannot be inverted safely
are skipped with a warning rather than failing the whole undo.

The entry stays in history afterwards, so "seam redo" can reapply it.

The reference is an entry id, a name given at apply time, or a recency
number where 1 is the most recent entry. Default: 1.

Examples:
  seam undo              # revert the most recent plan
  seam undo 3            # revert the third most recent plan
  seam undo healthcheck  # revert by name`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject()
		if err != nil {
			return err
		}
		defer proj.Close()

		report, err := proj.engine.Undo(refArg(args))
		if err != nil {
			return err
		}
		for _, w := range report.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		fmt.Println(prompts.UndoComplete(report.Reverted, len(report.Warnings)))
		return nil
	},
}

// refArg returns the history reference argument, defaulting to the most
// recent entry.
func refArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "1"
}

func init() {
	rootCmd.AddCommand(undoCmd)
}
