package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seam-cli/seam/pkg/history"
	"github.com/seam-cli/seam/pkg/plan"
)

func TestUndoRestoresPrePlanState(t *testing.T) {
	eng, root, _ := newTestEngine(t)
	writeProjectFile(t, root, "edit.txt", "original content\n")
	writeProjectFile(t, root, "del.txt", "doomed\n")
	writeProjectFile(t, root, "ren.txt", "moving\n")

	_, err := eng.Execute(plan.Operations{
		plan.Create{Path: "new.txt", Content: "fresh\n"},
		plan.Edit{Path: "edit.txt", Content: "rewritten\n"},
		plan.Delete{Path: "del.txt"},
		plan.Rename{OldPath: "ren.txt", NewPath: "moved.txt"},
	}, ExecuteOptions{})
	require.NoError(t, err)

	report, err := eng.Undo("1")
	require.NoError(t, err)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, 4, report.Reverted)

	assert.False(t, projectFileExists(root, "new.txt"), "created file must be removed")
	assert.Equal(t, "original content\n", readProjectFile(t, root, "edit.txt"))
	assert.Equal(t, "doomed\n", readProjectFile(t, root, "del.txt"))
	assert.True(t, projectFileExists(root, "ren.txt"))
	assert.False(t, projectFileExists(root, "moved.txt"))
}

func TestUndoOnlyInvertsSucceededOperations(t *testing.T) {
	eng, root, _ := newTestEngine(t)
	writeProjectFile(t, root, "precious.txt", "keep me\n")

	// The create fails because the file exists; undo must not treat the
	// failed create as something to invert.
	_, err := eng.Execute(plan.Operations{
		plan.Create{Path: "precious.txt", Content: "clobber"},
	}, ExecuteOptions{})
	require.Error(t, err)

	report, err := eng.Undo("1")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Reverted)
	assert.Equal(t, "keep me\n", readProjectFile(t, root, "precious.txt"))
}

func TestUndoPartialPlan(t *testing.T) {
	eng, root, _ := newTestEngine(t)

	_, err := eng.Execute(plan.Operations{
		plan.Create{Path: "a.txt", Content: "A\n"},
		plan.Delete{Path: "missing.txt"},
	}, ExecuteOptions{})
	require.Error(t, err)
	require.True(t, projectFileExists(root, "a.txt"))

	_, err = eng.Undo("1")
	require.NoError(t, err)
	assert.False(t, projectFileExists(root, "a.txt"), "the applied part must be unwound")
}

func TestUndoRenameIsPathOnly(t *testing.T) {
	eng, root, _ := newTestEngine(t)
	writeProjectFile(t, root, "a.txt", "contents stay put\n")

	_, err := eng.Execute(plan.Operations{
		plan.Rename{OldPath: "a.txt", NewPath: "b.txt"},
	}, ExecuteOptions{})
	require.NoError(t, err)

	report, err := eng.Undo("1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Reverted)
	assert.Equal(t, "contents stay put\n", readProjectFile(t, root, "a.txt"))
	assert.False(t, projectFileExists(root, "b.txt"))
}

func TestUndoCreateAlreadyAbsent(t *testing.T) {
	eng, root, _ := newTestEngine(t)

	_, err := eng.Execute(plan.Operations{
		plan.Create{Path: "gone.txt", Content: "x"},
	}, ExecuteOptions{})
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(root, "gone.txt")))

	report, err := eng.Undo("1")
	require.NoError(t, err)
	assert.Empty(t, report.Warnings, "an already absent file is a no-op, not a problem")
	assert.Equal(t, 0, report.Reverted)
}

func TestUndoMissingBackupWarnsAndSkips(t *testing.T) {
	root := t.TempDir()
	store, err := history.Open(root, 0)
	require.NoError(t, err)
	eng := New(root, store, nil)

	writeProjectFile(t, root, "noback.txt", "current state\n")
	require.NoError(t, store.Append(history.Entry{
		ID:          "handmade",
		Timestamp:   time.Now(),
		Description: "entry without backups",
		Operations:  plan.Operations{plan.Edit{Path: "noback.txt", Content: "current state\n"}},
		Results:     []history.OperationResult{{Success: true}},
	}))

	report, err := eng.Undo("handmade")
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "no backup recorded")
	assert.Equal(t, "current state\n", readProjectFile(t, root, "noback.txt"))
}

func TestUndoSkipsEditOfFileCreatedInSamePlan(t *testing.T) {
	eng, root, _ := newTestEngine(t)

	_, err := eng.Execute(plan.Operations{
		plan.Create{Path: "both.txt", Content: "v1\n"},
		plan.Edit{Path: "both.txt", Content: "v2\n"},
	}, ExecuteOptions{})
	require.NoError(t, err)

	report, err := eng.Undo("1")
	require.NoError(t, err)
	assert.Empty(t, report.Warnings)
	assert.False(t, projectFileExists(root, "both.txt"), "the create inversion removes the file")
}

func TestUndoKeepsHistoryEntry(t *testing.T) {
	eng, root, store := newTestEngine(t)
	writeProjectFile(t, root, "f.txt", "old\n")

	_, err := eng.Execute(plan.Operations{
		plan.Edit{Path: "f.txt", Content: "new\n"},
	}, ExecuteOptions{})
	require.NoError(t, err)

	_, err = eng.Undo("1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len(), "undo retains the entry so redo stays possible")
}

func TestRedoAfterUndo(t *testing.T) {
	eng, root, store := newTestEngine(t)
	writeProjectFile(t, root, "f.txt", "old\n")

	_, err := eng.Execute(plan.Operations{
		plan.Edit{Path: "f.txt", Content: "new\n"},
	}, ExecuteOptions{})
	require.NoError(t, err)

	_, err = eng.Undo("1")
	require.NoError(t, err)
	require.Equal(t, "old\n", readProjectFile(t, root, "f.txt"))

	report, err := eng.Redo("1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, "new\n", readProjectFile(t, root, "f.txt"))
	assert.Equal(t, 1, store.Len(), "redo must not append a new entry")
}

func TestRedoDivergenceBlocksWithoutForce(t *testing.T) {
	eng, root, _ := newTestEngine(t)
	writeProjectFile(t, root, "f.txt", "old\n")

	_, err := eng.Execute(plan.Operations{
		plan.Edit{Path: "f.txt", Content: "new\n"},
	}, ExecuteOptions{})
	require.NoError(t, err)

	writeProjectFile(t, root, "f.txt", "external change\n")

	_, err = eng.Redo("1", false)
	var divErr *DivergenceError
	require.ErrorAs(t, err, &divErr)
	assert.Equal(t, []string{"f.txt"}, divErr.Paths)
	assert.Equal(t, "external change\n", readProjectFile(t, root, "f.txt"),
		"a blocked redo must not touch the tree")

	report, err := eng.Redo("1", true)
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "overwriting diverged file")
	assert.Equal(t, "new\n", readProjectFile(t, root, "f.txt"))
}

func TestRedoWithoutPriorUndoIsIdempotent(t *testing.T) {
	eng, root, _ := newTestEngine(t)
	writeProjectFile(t, root, "doc.txt", numberedLines(5))

	_, err := eng.Execute(plan.Operations{
		plan.Edit{Path: "doc.txt", Content: "X", StartLine: 2, EndLine: 4},
	}, ExecuteOptions{})
	require.NoError(t, err)
	applied := readProjectFile(t, root, "doc.txt")

	report, err := eng.Redo("1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, applied, readProjectFile(t, root, "doc.txt"),
		"redoing an already applied entry must not change the file again")
}

func TestRedoRestoresDeletionAndCreation(t *testing.T) {
	eng, root, _ := newTestEngine(t)
	writeProjectFile(t, root, "del.txt", "bye\n")

	_, err := eng.Execute(plan.Operations{
		plan.Delete{Path: "del.txt"},
		plan.Create{Path: "new.txt", Content: "hi\n"},
	}, ExecuteOptions{})
	require.NoError(t, err)

	_, err = eng.Undo("1")
	require.NoError(t, err)
	require.True(t, projectFileExists(root, "del.txt"))
	require.False(t, projectFileExists(root, "new.txt"))

	_, err = eng.Redo("1", false)
	require.NoError(t, err)
	assert.False(t, projectFileExists(root, "del.txt"))
	assert.Equal(t, "hi\n", readProjectFile(t, root, "new.txt"))
}

func TestRedoRename(t *testing.T) {
	eng, root, _ := newTestEngine(t)
	writeProjectFile(t, root, "a.txt", "payload\n")

	_, err := eng.Execute(plan.Operations{
		plan.Rename{OldPath: "a.txt", NewPath: "b.txt"},
	}, ExecuteOptions{})
	require.NoError(t, err)

	_, err = eng.Undo("1")
	require.NoError(t, err)

	_, err = eng.Redo("1", false)
	require.NoError(t, err)
	assert.False(t, projectFileExists(root, "a.txt"))
	assert.Equal(t, "payload\n", readProjectFile(t, root, "b.txt"))
}

func TestRedoSkipsOriginallyFailedOperations(t *testing.T) {
	eng, root, _ := newTestEngine(t)

	_, err := eng.Execute(plan.Operations{
		plan.Create{Path: "ok.txt", Content: "fine\n"},
		plan.Delete{Path: "never-there.txt"},
	}, ExecuteOptions{})
	require.Error(t, err)

	_, err = eng.Undo("1")
	require.NoError(t, err)
	require.False(t, projectFileExists(root, "ok.txt"))

	report, err := eng.Redo("1", false)
	require.NoError(t, err)
	assert.True(t, report.Results[0].Success)
	assert.True(t, report.Results[1].Skipped)
	assert.Contains(t, report.Results[1].Error, "did not succeed in the original run")
	assert.Equal(t, "fine\n", readProjectFile(t, root, "ok.txt"))
}

func TestRedoUnknownReference(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	_, err := eng.Redo("nothing", false)
	require.Error(t, err)
	var divErr *DivergenceError
	assert.False(t, errors.As(err, &divErr), "a resolve failure is not a divergence")
}
