package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seam-cli/seam/pkg/diffview"
	"github.com/seam-cli/seam/pkg/history"
	"github.com/seam-cli/seam/pkg/prompts"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List applied plans, most recent first",
	Long: `Lists every recorded plan with its recency number, id, name and outcome.
The recency number is accepted anywhere a history reference is: 1 is always
the most recent entry.

Use "seam history show <ref>" for the full record of one entry, including
per-operation outcomes and the diffs it produced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject()
		if err != nil {
			return err
		}
		defer proj.Close()
		printHistoryList(proj.store.Entries())
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Show one history entry in full",
	Args:  cobra.ExactArgs(1),
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
		printHistoryEntry(entry)
		return nil
	},
}

func printHistoryList(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Println(prompts.HistoryEmpty())
		return
	}
	for i, e := range entries {
		fmt.Println(formatHistoryLine(i+1, e))
	}
}

// formatHistoryLine renders one listing row:
//
//	1  20250301T103045-1a2b3c4d  (healthcheck)  Sat, 01 Mar 2025 10:30:45 UTC  add /healthz endpoint [3 ops]
func formatHistoryLine(recency int, e history.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%3d  \033[36m%s\033[0m", recency, e.ID)
	if e.Name != "" {
		fmt.Fprintf(&b, "  \033[1m(%s)\033[0m", e.Name)
	}
	fmt.Fprintf(&b, "  %s  %s [%d ops]", e.Timestamp.Format(time.RFC1123), e.Title(), len(e.Operations))
	if e.Failed() {
		b.WriteString(" \033[31m[failed]\033[0m")
	}
	return b.String()
}

func printHistoryEntry(e history.Entry) {
	fmt.Printf("\033[36mEntry: %s\033[0m\n", e.ID)
	if e.Name != "" {
		fmt.Printf("Name: %s\n", e.Name)
	}
	fmt.Printf("Time: %s\n", e.Timestamp.Format(time.RFC1123))
	fmt.Printf("Description: %s\n", e.Description)
	if e.Prompt != "" {
		fmt.Printf("Prompt: %s\n", e.Prompt)
	}

	fmt.Printf("\nOperations (%d):\n", len(e.Operations))
	for i, op := range e.Operations {
		fmt.Printf("%4d. %-7s %s\n", i+1, historyStatus(e.Results, i), op.Summary())
		if i < len(e.Results) && e.Results[i].Error != "" {
			fmt.Printf("      %s\n", e.Results[i].Error)
		}
	}

	if diffs := entryDiffs(e); diffs != "" {
		fmt.Printf("\nChanges:\n%s", diffs)
	}
}

func historyStatus(results []history.OperationResult, i int) string {
	if i >= len(results) {
		return "?"
	}
	switch {
	case results[i].Success:
		return "ok"
	case results[i].Skipped:
		return "skipped"
	default:
		return "\033[31mfailed\033[0m"
	}
}

// entryDiffs renders the recorded before/after content of every path the
// entry touched. A path missing from the original snapshot was created; one
// missing from the result snapshot was deleted.
func entryDiffs(e history.Entry) string {
	paths := map[string]bool{}
	for p := range e.OriginalContent {
		paths[p] = true
	}
	for p := range e.ResultContent {
		paths[p] = true
	}
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var b strings.Builder
	for _, p := range sorted {
		b.WriteString(diffview.Render(p, e.OriginalContent[p], e.ResultContent[p]))
	}
	return b.String()
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
