package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seam-cli/seam/pkg/config"
	"github.com/seam-cli/seam/pkg/filesystem"
	"github.com/seam-cli/seam/pkg/prompts"
	"github.com/seam-cli/seam/pkg/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize seam state in the current directory",
	Long: `Creates the .seam directory in the current working directory with a default
config.json and an empty seamignore file. The directory also pins the project
root: every seam command run below it addresses files relative to it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("could not determine working directory: %w", err)
		}

		_, created, err := config.Init(root)
		if err != nil {
			return err
		}
		if err := ensureIgnoreFile(root); err != nil {
			return err
		}

		if created {
			fmt.Println(prompts.ProjectInitialized(root))
		} else {
			fmt.Println(prompts.ProjectAlreadyInitialized(root))
		}
		return nil
	},
}

// ensureIgnoreFile writes the seamignore stub unless one already exists.
func ensureIgnoreFile(root string) error {
	path := workspace.IgnorePath(root)
	if filesystem.FileExists(path) {
		return nil
	}
	stub := "# Plans that touch paths matching these patterns are flagged during\n" +
		"# preflight. Same syntax as .gitignore; both files are consulted.\n"
	return filesystem.WriteFileWithDir(path, []byte(stub), 0644)
}

func init() {
	rootCmd.AddCommand(initCmd)
}
