package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seam-cli/seam/pkg/prompts"
)

var dropYes bool

var dropCmd = &cobra.Command{
	Use:   "drop <ref>",
	Short: "Delete a history entry without touching files",
	Long: `Removes an entry from the history log. The working tree is left exactly as
it is; only the recorded plan and its backups are discarded, so the entry
can no longer be undone or redone.

The reference is an entry id, a name given at apply time, or a recency
number where 1 is the most recent entry.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject()
		if err != nil {
			return err
		}
		defer proj.Close()

		entry, err := proj.store.Resolve(args[0])
		if err != nil {
			return err
		}
		if !dropYes {
			question := fmt.Sprintf("Delete history entry %s (%s)? Its backups go with it.", entry.ID, entry.Title())
			if !confirmPrompt(question) {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if _, err := proj.store.Delete(entry.ID); err != nil {
			return err
		}
		proj.logger.Logf("dropped history entry %s", entry.ID)
		fmt.Println(prompts.EntryDeleted(entry.ID))
		return nil
	},
}

func init() {
	dropCmd.Flags().BoolVarP(&dropYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(dropCmd)
}
