package engine

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/seam-cli/seam/pkg/filesystem"
	"github.com/seam-cli/seam/pkg/history"
	"github.com/seam-cli/seam/pkg/plan"
)

// DivergenceError reports paths whose on-disk state matches neither the
// result the entry produced nor the pre-plan backup, meaning something else
// changed them since.
type DivergenceError struct {
	Paths []string
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("working tree has diverged at %s; rerun with force to overwrite",
		strings.Join(e.Paths, ", "))
}

// Redo reapplies a history entry's succeeded operations in their original
// order, bringing every touched path back to the state the entry recorded.
// Before touching anything it checks each path for divergence; any diverged
// path blocks the redo unless force is set, in which case the divergence is
// logged and overwritten. No new history entry is appended.
func (e *Engine) Redo(ref string, force bool) (*Report, error) {
	entry, err := e.store.Resolve(ref)
	if err != nil {
		return nil, err
	}

	report := &Report{EntryID: entry.ID, Results: make([]history.OperationResult, len(entry.Operations))}

	if diverged := e.divergedPaths(entry); len(diverged) > 0 {
		if !force {
			return nil, &DivergenceError{Paths: diverged}
		}
		for _, p := range diverged {
			report.Warnings = append(report.Warnings, fmt.Sprintf("overwriting diverged file %s", p))
		}
		e.logger.Logf("redo %s: forcing over diverged paths %s", entry.ID, strings.Join(diverged, ", "))
	}

	failedAt := -1
	for i, op := range entry.Operations {
		switch {
		case failedAt >= 0:
			report.Results[i] = history.OperationResult{Skipped: true, Error: "skipped: earlier operation failed"}
		case i >= len(entry.Results) || !entry.Results[i].Success:
			report.Results[i] = history.OperationResult{Skipped: true, Error: "skipped: did not succeed in the original run"}
		default:
			err := e.redoOperation(entry, op)
			e.logger.LogOperation(i, op.Summary(), err)
			if err != nil {
				report.Results[i] = history.OperationResult{Error: err.Error()}
				failedAt = i
				continue
			}
			report.Results[i] = history.OperationResult{Success: true}
		}
	}
	report.countResults()

	if failedAt >= 0 {
		return report, fmt.Errorf("operation %d failed: %s", failedAt+1, report.Results[failedAt].Error)
	}
	return report, nil
}

// redoOperation restores each path the operation touched to its recorded
// post-plan state. Replaying recorded outcomes rather than re-running edit
// arithmetic keeps redo idempotent: a path already at the result state is
// rewritten with identical bytes, and a forced redo lands on the recorded
// result no matter what was on disk.
func (e *Engine) redoOperation(entry history.Entry, op plan.Operation) error {
	for _, p := range plan.MutatedPaths(op) {
		if err := e.settlePath(entry, p); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) settlePath(entry history.Entry, path string) error {
	abs, err := filesystem.ResolveWithin(e.root, path)
	if err != nil {
		return err
	}
	content, ok := entry.ResultContent[path]
	if !ok {
		// Recorded state is absence.
		if !filesystem.FileExists(abs) {
			return nil
		}
		if err := os.Remove(abs); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		return nil
	}
	return filesystem.WriteFileWithDir(abs, []byte(content), 0644)
}

// divergedPaths returns, sorted, every path touched by a succeeded operation
// whose current disk state matches neither the recorded result nor the
// pre-plan backup.
func (e *Engine) divergedPaths(entry history.Entry) []string {
	var diverged []string
	seen := map[string]bool{}
	for i, op := range entry.Operations {
		if i >= len(entry.Results) || !entry.Results[i].Success {
			continue
		}
		for _, p := range plan.MutatedPaths(op) {
			if seen[p] {
				continue
			}
			seen[p] = true
			if !e.pathClean(entry, p) {
				diverged = append(diverged, p)
			}
		}
	}
	sort.Strings(diverged)
	return diverged
}

func (e *Engine) pathClean(entry history.Entry, path string) bool {
	abs, err := filesystem.ResolveWithin(e.root, path)
	if err != nil {
		return false
	}
	current, exists := "", false
	if filesystem.FileExists(abs) {
		c, err := filesystem.ReadFileString(abs)
		if err != nil {
			return false
		}
		current, exists = c, true
	}
	return matchesSnapshot(entry.ResultContent, path, current, exists) ||
		matchesSnapshot(entry.OriginalContent, path, current, exists)
}

// matchesSnapshot compares disk state to a recorded snapshot where a missing
// key means the path should be absent.
func matchesSnapshot(snap map[string]string, path, current string, exists bool) bool {
	want, ok := snap[path]
	if !ok {
		return !exists
	}
	return exists && current == want
}
