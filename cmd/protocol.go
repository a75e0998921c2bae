package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seam-cli/seam/pkg/prompts"
)

var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Print the plan format for an assistant's system prompt",
	Long: `Prints the instruction text describing the plan protocol: the block markers,
the fields each operation takes, and the rules for line-addressed edits.
Paste it into the system prompt of whatever assistant proposes your changes;
the text is generated from the same schema the parser enforces.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(prompts.ProtocolInstructions())
	},
}

func init() {
	rootCmd.AddCommand(protocolCmd)
}
