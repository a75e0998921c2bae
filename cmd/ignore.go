package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seam-cli/seam/pkg/workspace"
)

var ignoreCmd = &cobra.Command{
	Use:   "ignore <pattern>",
	Short: "Add a pattern to the seamignore file",
	Long: `Adds a pattern to .seam/seamignore. Plans that touch matching paths are
flagged as warnings during preflight, in addition to anything .gitignore
already covers. Patterns use gitignore syntax.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject()
		if err != nil {
			return err
		}
		defer proj.Close()

		if err := workspace.AddIgnorePattern(proj.root, args[0]); err != nil {
			return fmt.Errorf("could not update %s: %w", workspace.IgnorePath(proj.root), err)
		}
		fmt.Printf("Added %q to %s\n", args[0], workspace.IgnorePath(proj.root))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ignoreCmd)
}
