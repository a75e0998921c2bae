// Package engine applies validated plans to the working tree, tracking
// cumulative line deltas per file so later ranged edits land where the plan
// author addressed them, and records every attempt in history with enough
// state to undo or redo it.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/seam-cli/seam/pkg/filesystem"
	"github.com/seam-cli/seam/pkg/history"
	"github.com/seam-cli/seam/pkg/logging"
	"github.com/seam-cli/seam/pkg/plan"
	"github.com/seam-cli/seam/pkg/utils"
)

// Engine applies plans within one project root.
type Engine struct {
	root   string
	store  *history.Store
	logger *logging.Logger
}

// New builds an engine rooted at the project directory. A nil logger
// disables logging.
func New(root string, store *history.Store, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{root: root, store: store, logger: logger}
}

// ExecuteOptions carries plan metadata persisted alongside the results.
type ExecuteOptions struct {
	Prompt      string
	Description string
	Name        string
}

// Report summarizes one plan application. Results is index-aligned with the
// operations that were passed in.
type Report struct {
	EntryID   string
	Results   []history.OperationResult
	Warnings  []string
	Succeeded int
	Failed    int
	Skipped   int
}

func (r *Report) countResults() {
	r.Succeeded, r.Failed, r.Skipped = 0, 0, 0
	for _, res := range r.Results {
		switch {
		case res.Success:
			r.Succeeded++
		case res.Skipped:
			r.Skipped++
		default:
			r.Failed++
		}
	}
}

// planState tracks per-path bookkeeping for the lifetime of one plan. The
// delta map translates original-file line coordinates into current-file
// coordinates; it is never persisted or shared across plans.
type planState struct {
	deltas     map[string]int
	unreliable map[string]bool // line coordinates lost to a whole-file or find edit
}

func newPlanState() *planState {
	return &planState{deltas: map[string]int{}, unreliable: map[string]bool{}}
}

func (st *planState) transfer(oldPath, newPath string) {
	if d, ok := st.deltas[oldPath]; ok {
		st.deltas[newPath] = d
		delete(st.deltas, oldPath)
	}
	if st.unreliable[oldPath] {
		st.unreliable[newPath] = true
		delete(st.unreliable, oldPath)
	}
}

func (st *planState) drop(path string) {
	delete(st.deltas, path)
	delete(st.unreliable, path)
}

// Execute applies the operations in order, fail-fast. Whatever the outcome,
// a history entry recording every attempted operation and the pre-plan
// backups is persisted, so a partial apply can still be undone.
func (e *Engine) Execute(ops plan.Operations, opts ExecuteOptions) (*Report, error) {
	if err := history.ValidateName(opts.Name); err != nil {
		return nil, err
	}

	now := time.Now()
	description := planDescription(ops, opts)
	entryID := history.NewEntryID(now, opts.Prompt, description)
	report := &Report{EntryID: entryID, Results: make([]history.OperationResult, len(ops))}

	original := e.snapshotPaths(ops)

	st := newPlanState()
	failedAt := -1
	for i, op := range ops {
		if failedAt >= 0 {
			report.Results[i] = history.OperationResult{Skipped: true, Error: "skipped: earlier operation failed"}
			continue
		}
		warnings, err := e.applyOperation(st, op)
		report.Warnings = append(report.Warnings, warnings...)
		e.logger.LogOperation(i, op.Summary(), err)
		if err != nil {
			report.Results[i] = history.OperationResult{Error: err.Error()}
			failedAt = i
			continue
		}
		report.Results[i] = history.OperationResult{Success: true}
	}
	report.countResults()

	entry := history.Entry{
		ID:              entryID,
		Name:            opts.Name,
		Timestamp:       now,
		Prompt:          opts.Prompt,
		Description:     description,
		Operations:      ops,
		Results:         report.Results,
		OriginalContent: original,
		ResultContent:   e.captureResults(ops, report.Results),
	}
	if err := e.store.Append(entry); err != nil {
		return report, fmt.Errorf("plan executed but history was not saved: %w", err)
	}
	e.logger.LogPlan(entryID, description, len(ops))

	if failedAt >= 0 {
		return report, fmt.Errorf("operation %d failed: %s", failedAt+1, report.Results[failedAt].Error)
	}
	return report, nil
}

func planDescription(ops plan.Operations, opts ExecuteOptions) string {
	if opts.Description != "" {
		return opts.Description
	}
	if line := utils.FirstLine(opts.Prompt); line != "" {
		return line
	}
	return fmt.Sprintf("plan with %d operation(s)", len(ops))
}

// snapshotPaths captures pre-plan contents for every referenced path that
// currently exists. Missing paths are skipped silently; there is nothing to
// back up.
func (e *Engine) snapshotPaths(ops plan.Operations) map[string]string {
	snap := map[string]string{}
	for _, op := range ops {
		for _, p := range plan.MutatedPaths(op) {
			if _, done := snap[p]; done {
				continue
			}
			abs, err := filesystem.ResolveWithin(e.root, p)
			if err != nil || !filesystem.FileExists(abs) {
				continue
			}
			if content, err := filesystem.ReadFileString(abs); err == nil {
				snap[p] = content
			}
		}
	}
	return snap
}

// captureResults records post-plan contents for paths touched by succeeded
// operations. Paths that no longer exist are omitted, which is itself the
// record that the plan removed them.
func (e *Engine) captureResults(ops plan.Operations, results []history.OperationResult) map[string]string {
	out := map[string]string{}
	for i, op := range ops {
		if !results[i].Success {
			continue
		}
		for _, p := range plan.MutatedPaths(op) {
			abs, err := filesystem.ResolveWithin(e.root, p)
			if err != nil || !filesystem.FileExists(abs) {
				delete(out, p)
				continue
			}
			if content, err := filesystem.ReadFileString(abs); err == nil {
				out[p] = content
			}
		}
	}
	return out
}

func (e *Engine) applyOperation(st *planState, op plan.Operation) ([]string, error) {
	switch o := op.(type) {
	case plan.Create:
		return nil, e.applyCreate(o)
	case plan.Edit:
		return e.applyEdit(st, o)
	case plan.Rename:
		return nil, e.applyRename(st, o)
	case plan.Delete:
		return nil, e.applyDelete(st, o)
	case plan.Response:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported operation kind %q", op.Kind())
	}
}

func (e *Engine) applyCreate(c plan.Create) error {
	abs, err := filesystem.ResolveWithin(e.root, c.Path)
	if err != nil {
		return err
	}
	if filesystem.FileExists(abs) {
		return fmt.Errorf("file already exists: %s", c.Path)
	}
	return filesystem.WriteFileWithDir(abs, []byte(c.Content), 0644)
}

func (e *Engine) applyEdit(st *planState, edit plan.Edit) ([]string, error) {
	abs, err := filesystem.ResolveWithin(e.root, edit.Path)
	if err != nil {
		return nil, err
	}
	if !filesystem.FileExists(abs) {
		return nil, fmt.Errorf("file does not exist: %s", edit.Path)
	}

	switch {
	case edit.Ranged():
		return e.applyRangedEdit(st, edit, abs)
	case edit.Find != "":
		return nil, e.applyFindEdit(st, edit, abs)
	default:
		return nil, e.applyWholeFileEdit(st, edit, abs)
	}
}

func (e *Engine) applyRangedEdit(st *planState, edit plan.Edit, abs string) ([]string, error) {
	var warnings []string
	if st.unreliable[edit.Path] {
		warnings = append(warnings, fmt.Sprintf(
			"ambiguous plan: %s uses line numbers after an earlier edit rewrote the file", edit.Path))
	}

	doc, err := filesystem.LoadDocument(abs)
	if err != nil {
		return warnings, err
	}

	delta := st.deltas[edit.Path]
	start := edit.StartLine + delta
	end := edit.EndLine + delta
	if start < 1 || end > doc.LineCount()+1 {
		if delta != 0 {
			return warnings, fmt.Errorf(
				"line range %d-%d (shifted to %d-%d by earlier edits) is outside the file's %d lines",
				edit.StartLine, edit.EndLine, start, end, doc.LineCount())
		}
		return warnings, fmt.Errorf(
			"line range %d-%d is outside the file's %d lines",
			edit.StartLine, edit.EndLine, doc.LineCount())
	}

	newLines := filesystem.SplitContentLines(edit.Content)
	doc.Replace(start, end, newLines)
	if err := doc.Save(abs); err != nil {
		return warnings, err
	}
	st.deltas[edit.Path] = delta + len(newLines) - (edit.EndLine - edit.StartLine)
	return warnings, nil
}

func (e *Engine) applyFindEdit(st *planState, edit plan.Edit, abs string) error {
	content, err := filesystem.ReadFileString(abs)
	if err != nil {
		return err
	}
	switch n := strings.Count(content, edit.Find); {
	case n == 0:
		return fmt.Errorf("find snippet not found in %s", edit.Path)
	case n > 1:
		return fmt.Errorf("find snippet occurs %d times in %s; it must be unique", n, edit.Path)
	}

	updated := strings.Replace(content, edit.Find, edit.Content, 1)
	if err := filesystem.WriteFileWithDir(abs, []byte(updated), 0644); err != nil {
		return err
	}
	// The replacement may change line counts anywhere in the file, so
	// original-file coordinates no longer map cleanly.
	st.unreliable[edit.Path] = true
	return nil
}

func (e *Engine) applyWholeFileEdit(st *planState, edit plan.Edit, abs string) error {
	content := filesystem.MatchEOL(abs, edit.Content)
	if err := filesystem.WriteFileWithDir(abs, []byte(content), 0644); err != nil {
		return err
	}
	st.deltas[edit.Path] = 0
	st.unreliable[edit.Path] = true
	return nil
}

func (e *Engine) applyRename(st *planState, r plan.Rename) error {
	oldAbs, err := filesystem.ResolveWithin(e.root, r.OldPath)
	if err != nil {
		return err
	}
	newAbs, err := filesystem.ResolveWithin(e.root, r.NewPath)
	if err != nil {
		return err
	}
	if !filesystem.FileExists(oldAbs) {
		return fmt.Errorf("source file does not exist: %s", r.OldPath)
	}
	if filesystem.FileExists(newAbs) {
		return fmt.Errorf("destination already exists: %s", r.NewPath)
	}
	if err := filesystem.EnsureDir(filepath.Dir(newAbs)); err != nil {
		return err
	}
	if err := os.Rename(oldAbs, newAbs); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", r.OldPath, r.NewPath, err)
	}
	st.transfer(r.OldPath, r.NewPath)
	return nil
}

func (e *Engine) applyDelete(st *planState, d plan.Delete) error {
	abs, err := filesystem.ResolveWithin(e.root, d.Path)
	if err != nil {
		return err
	}
	if !filesystem.FileExists(abs) {
		return fmt.Errorf("file does not exist: %s", d.Path)
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("failed to delete %s: %w", d.Path, err)
	}
	st.drop(d.Path)
	return nil
}
