package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seam-cli/seam/pkg/engine"
	"github.com/seam-cli/seam/pkg/prompts"
	"github.com/seam-cli/seam/pkg/review"
)

var redoForce bool

var redoCmd = &cobra.Command{
	Use:   "redo [ref]",
	Short: "Reapply an undone plan",
	Long: `Replays a history entry forward, restoring every file it touched to the
state the entry recorded. Before touching anything, each file is checked for
divergence: if its current content matches neither the entry's result nor
its pre-plan backup, something else has changed it since, and the redo stops
for confirmation. --force overwrites diverged files without asking.

The reference is an entry id, a name given at apply time, or a recency
number where 1 is the most recent entry. Default: 1.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject()
		if err != nil {
			return err
		}
		defer proj.Close()
		return runRedo(proj, refArg(args), redoForce)
	},
}

func runRedo(proj *projectContext, ref string, force bool) error {
	report, err := proj.engine.Redo(ref, force)

	var diverged *engine.DivergenceError
	if errors.As(err, &diverged) {
		fmt.Println(prompts.DivergenceDetected(diverged.Paths))
		if !review.Interactive() || !confirmPrompt("Overwrite these files?") {
			return err
		}
		report, err = proj.engine.Redo(ref, true)
	}
	if report == nil {
		return err
	}

	for _, w := range report.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	if err != nil {
		proj.logger.LogError(err)
		fmt.Println(prompts.PlanFailed(report.Succeeded, report.Failed, report.Skipped))
		return err
	}
	fmt.Println(prompts.RedoComplete(report.Succeeded))
	return nil
}

func init() {
	redoCmd.Flags().BoolVar(&redoForce, "force", false, "Overwrite files that changed since the plan ran")
	rootCmd.AddCommand(redoCmd)
}
