package engine

import (
	"fmt"
	"os"

	"github.com/seam-cli/seam/pkg/filesystem"
	"github.com/seam-cli/seam/pkg/history"
	"github.com/seam-cli/seam/pkg/plan"
)

// UndoReport summarizes an undo pass over one history entry.
type UndoReport struct {
	EntryID  string
	Reverted int
	Warnings []string
}

// Undo resolves a history entry and inverts its succeeded operations in
// reverse order. Operations that cannot be inverted safely, such as an edit
// with no recorded backup, are warned about and skipped; undo never
// fail-fasts. The entry is retained afterwards so redo remains possible.
func (e *Engine) Undo(ref string) (*UndoReport, error) {
	entry, err := e.store.Resolve(ref)
	if err != nil {
		return nil, err
	}

	report := &UndoReport{EntryID: entry.ID}
	for i := len(entry.Operations) - 1; i >= 0; i-- {
		if i >= len(entry.Results) || !entry.Results[i].Success {
			continue
		}
		e.undoOperation(entry, i, report)
	}

	e.logger.Logf("undo %s: reverted %d operations, %d warnings",
		entry.ID, report.Reverted, len(report.Warnings))
	return report, nil
}

func (e *Engine) undoOperation(entry history.Entry, index int, report *UndoReport) {
	switch op := entry.Operations[index].(type) {
	case plan.Create:
		e.undoCreate(op, report)
	case plan.Edit:
		e.undoEdit(entry, index, op, report)
	case plan.Rename:
		e.undoRename(op, report)
	case plan.Delete:
		e.undoDelete(entry, op, report)
	}
}

// undoCreate removes the created file. An already absent file is a no-op,
// not an error.
func (e *Engine) undoCreate(op plan.Create, report *UndoReport) {
	abs, err := filesystem.ResolveWithin(e.root, op.Path)
	if err != nil {
		report.warnf("cannot undo create of %s: %v", op.Path, err)
		return
	}
	if !filesystem.FileExists(abs) {
		return
	}
	if err := os.Remove(abs); err != nil {
		report.warnf("cannot undo create of %s: %v", op.Path, err)
		return
	}
	report.Reverted++
}

func (e *Engine) undoEdit(entry history.Entry, index int, op plan.Edit, report *UndoReport) {
	original, ok := entry.OriginalContent[op.Path]
	if !ok {
		// A file the same plan created has no pre-plan content; the
		// create's own inversion removes it.
		if createdEarlierInPlan(entry, index, op.Path) {
			return
		}
		report.warnf("no backup recorded for %s; leaving the edit in place", op.Path)
		return
	}
	abs, err := filesystem.ResolveWithin(e.root, op.Path)
	if err != nil {
		report.warnf("cannot undo edit of %s: %v", op.Path, err)
		return
	}
	if err := filesystem.WriteFileWithDir(abs, []byte(original), 0644); err != nil {
		report.warnf("cannot undo edit of %s: %v", op.Path, err)
		return
	}
	report.Reverted++
}

// undoRename moves the file back by path alone; content is untouched, so no
// backup is needed.
func (e *Engine) undoRename(op plan.Rename, report *UndoReport) {
	oldAbs, err := filesystem.ResolveWithin(e.root, op.OldPath)
	if err != nil {
		report.warnf("cannot undo rename to %s: %v", op.NewPath, err)
		return
	}
	newAbs, err := filesystem.ResolveWithin(e.root, op.NewPath)
	if err != nil {
		report.warnf("cannot undo rename to %s: %v", op.NewPath, err)
		return
	}
	if !filesystem.FileExists(newAbs) {
		report.warnf("renamed file %s is missing; skipping", op.NewPath)
		return
	}
	if filesystem.FileExists(oldAbs) {
		report.warnf("original path %s is occupied; skipping rename inversion", op.OldPath)
		return
	}
	if err := os.Rename(newAbs, oldAbs); err != nil {
		report.warnf("cannot undo rename to %s: %v", op.NewPath, err)
		return
	}
	report.Reverted++
}

func (e *Engine) undoDelete(entry history.Entry, op plan.Delete, report *UndoReport) {
	original, ok := entry.OriginalContent[op.Path]
	if !ok {
		report.warnf("no backup recorded for deleted file %s; cannot restore", op.Path)
		return
	}
	abs, err := filesystem.ResolveWithin(e.root, op.Path)
	if err != nil {
		report.warnf("cannot restore %s: %v", op.Path, err)
		return
	}
	if filesystem.FileExists(abs) {
		report.warnf("path %s is occupied; not restoring deleted content over it", op.Path)
		return
	}
	if err := filesystem.WriteFileWithDir(abs, []byte(original), 0644); err != nil {
		report.warnf("cannot restore %s: %v", op.Path, err)
		return
	}
	report.Reverted++
}

// createdEarlierInPlan reports whether a succeeded create for path appears
// before index in the entry.
func createdEarlierInPlan(entry history.Entry, index int, path string) bool {
	for i := 0; i < index && i < len(entry.Results); i++ {
		if !entry.Results[i].Success {
			continue
		}
		if c, ok := entry.Operations[i].(plan.Create); ok && c.Path == path {
			return true
		}
	}
	return false
}

func (r *UndoReport) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
