package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seam-cli/seam/pkg/prompts"
	"github.com/seam-cli/seam/pkg/review"
	"github.com/seam-cli/seam/pkg/workspace"
)

var (
	applyYes         bool
	applyForce       bool
	applyName        string
	applyMessage     string
	applyPrompt      string
	applyPreflight   bool
	applyNoPreflight bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [plan-file]",
	Short: "Review and apply a plan from a file or stdin",
	Long: `Parses plan text, shows it with per-operation previews, and asks whether to
apply, edit or cancel. Pass a file path, or "-" to read the plan from stdin;
with no argument stdin is read as well.

Applying records a history entry with enough backup to undo the plan, even
when an operation fails partway. A failed plan stops at the first failing
operation; everything applied before it stays applied and is reported.

Examples:
  seam apply plan.txt
  assistant-cli "add a healthcheck" | seam apply --yes
  seam apply plan.txt --name healthcheck --message "add /healthz endpoint"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply(cmd, args)
	},
}

func runApply(cmd *cobra.Command, args []string) error {
	raw, err := readPlanText(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		fmt.Println(prompts.NothingToApply())
		return nil
	}

	proj, err := openProject()
	if err != nil {
		return err
	}
	defer proj.Close()

	yes := applyYes || proj.cfg.SkipPrompt
	ui := review.NewTerminal(proj.root, yes, proj.cfg.Editor)
	coord := review.NewCoordinator(proj.root, proj.engine, ui, workspace.GetIgnoreRules(proj.root), proj.logger)

	report, err := coord.Run(raw, review.Options{
		Force:     applyForce,
		Preflight: preflightEnabled(cmd, proj),
		Prompt:    applyPrompt,
		Message:   applyMessage,
		Name:      applyName,
	})
	if errors.Is(err, review.ErrCancelled) {
		fmt.Println(prompts.PlanCancelled())
		return nil
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
	fmt.Println(prompts.PlanApplied(report.Succeeded, report.EntryID))
	return nil
}

// preflightEnabled resolves the preflight setting: explicit flags win, then
// the project configuration.
func preflightEnabled(cmd *cobra.Command, proj *projectContext) bool {
	if applyNoPreflight {
		return false
	}
	if cmd.Flags().Changed("preflight") {
		return applyPreflight
	}
	return !proj.cfg.SkipPreflight
}

func init() {
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false, "Apply without the interactive review prompt")
	applyCmd.Flags().BoolVar(&applyForce, "force", false, "Apply the valid operations even when some records failed validation or preflight")
	applyCmd.Flags().StringVar(&applyName, "name", "", "Name for the history entry (not purely numeric)")
	applyCmd.Flags().StringVarP(&applyMessage, "message", "m", "", "Description recorded in history")
	applyCmd.Flags().StringVar(&applyPrompt, "prompt", "", "The assistant prompt that produced this plan, recorded in history")
	applyCmd.Flags().BoolVar(&applyPreflight, "preflight", true, "Check targets against the working tree before review")
	applyCmd.Flags().BoolVar(&applyNoPreflight, "no-preflight", false, "Skip the preflight checks")
	rootCmd.AddCommand(applyCmd)
}
