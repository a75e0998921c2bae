package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "seam",
	Short: "Review, apply and reverse assistant-proposed file changes",
	Long: `Seam takes a structured change plan written by a generative assistant,
shows it to you, and applies it to your working tree. Every applied plan is
recorded with enough backup to undo it later, and an undone plan can be
redone as long as the files have not drifted.

Typical flow:
  seam init                      # set up .seam/ in the project root
  seam protocol                  # print the plan format for your assistant
  seam apply plan.txt            # review and apply a proposed plan
  seam history                   # list applied plans, most recent first
  seam undo                      # revert the most recent plan
  seam redo                      # reapply it

Plans reference files relative to the project root, which seam discovers by
walking upward for a .seam directory (falling back to .git).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
