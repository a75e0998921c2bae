package prompts

import (
	"fmt"
	"strings"
)

// --- Apply messages ---

func PlanApplied(succeeded int, entryID string) string {
	return fmt.Sprintf("Applied %d operation(s). History entry: %s", succeeded, entryID)
}

func PlanFailed(succeeded, failed, skipped int) string {
	return fmt.Sprintf("Plan failed: %d applied, %d failed, %d skipped. The attempt was recorded in history; use undo to unwind the applied part.",
		succeeded, failed, skipped)
}

func PlanCancelled() string {
	return "Plan cancelled. Nothing was changed."
}

func NothingToApply() string {
	return "The plan text contains no operations."
}

func NonInteractiveHint() string {
	return "Standard input is not a terminal. Rerun with --yes to apply without review."
}

// --- History messages ---

func HistoryEmpty() string {
	return "No history yet. Applied plans will appear here."
}

func EntryDeleted(id string) string {
	return fmt.Sprintf("Deleted history entry %s. Files were not touched.", id)
}

func UndoComplete(reverted, warnings int) string {
	if warnings > 0 {
		return fmt.Sprintf("Reverted %d operation(s) with %d warning(s); see above.", reverted, warnings)
	}
	return fmt.Sprintf("Reverted %d operation(s).", reverted)
}

func RedoComplete(succeeded int) string {
	return fmt.Sprintf("Reapplied %d operation(s).", succeeded)
}

func DivergenceDetected(paths []string) string {
	return fmt.Sprintf("Files changed since this plan ran: %s\nRerun with --force to overwrite them.",
		strings.Join(paths, ", "))
}

// --- Init messages ---

func ProjectInitialized(root string) string {
	return fmt.Sprintf("Initialized seam state in %s", root)
}

func ProjectAlreadyInitialized(root string) string {
	return fmt.Sprintf("Seam state already exists in %s", root)
}
