package plan

import (
	"fmt"
	"os"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/seam-cli/seam/pkg/filesystem"
)

// Issue is one preflight finding tied to an operation index. Warnings do
// not block an apply; errors should.
type Issue struct {
	Index   int
	Path    string
	Message string
	Warning bool
}

func (i Issue) String() string {
	severity := "error"
	if i.Warning {
		severity = "warning"
	}
	if i.Path == "" {
		return fmt.Sprintf("operation %d [%s]: %s", i.Index+1, severity, i.Message)
	}
	return fmt.Sprintf("operation %d [%s]: %s: %s", i.Index+1, severity, i.Path, i.Message)
}

// HasBlockingIssues reports whether any issue is an error rather than a
// warning.
func HasBlockingIssues(issues []Issue) bool {
	for _, issue := range issues {
		if !issue.Warning {
			return true
		}
	}
	return false
}

// Preflight checks a validated plan against the working tree without
// modifying it: target existence expectations, find-snippet uniqueness,
// line bounds against current file sizes, and ignore-rule collisions.
// Plan-order effects are simulated, so an edit following a create in the
// same plan is not reported as missing.
func Preflight(root string, ops Operations, rules *ignore.GitIgnore) []Issue {
	pf := &preflight{
		root:         root,
		rules:        rules,
		created:      map[string]bool{},
		removed:      map[string]bool{},
		contentDrift: map[string]bool{},
		coordsLost:   map[string]bool{},
	}
	for i, op := range ops {
		pf.check(i, op)
	}
	return pf.issues
}

type preflight struct {
	root   string
	rules  *ignore.GitIgnore
	issues []Issue

	created map[string]bool // paths the plan will have created
	removed map[string]bool // paths the plan will have removed

	// contentDrift marks paths whose simulated content differs from disk,
	// which invalidates find-snippet checks. coordsLost marks paths whose
	// original line coordinates are gone (created mid-plan, rewritten
	// wholesale, or edited by snippet), which invalidates bounds checks;
	// ranged edits alone do not lose coordinates because bounds are always
	// addressed against the pre-plan file.
	contentDrift map[string]bool
	coordsLost   map[string]bool
}

func (pf *preflight) check(index int, op Operation) {
	for _, p := range MutatedPaths(op) {
		if _, err := filesystem.ResolveWithin(pf.root, p); err != nil {
			pf.add(index, p, err.Error(), false)
			return
		}
		if pf.rules != nil && pf.rules.MatchesPath(p) {
			pf.add(index, p, "path matches the workspace ignore rules", true)
		}
	}

	switch o := op.(type) {
	case Create:
		if pf.exists(o.Path) {
			pf.add(index, o.Path, "file already exists", false)
		}
		pf.markCreated(o.Path)
	case Edit:
		pf.checkEdit(index, o)
	case Rename:
		if !pf.exists(o.OldPath) {
			pf.add(index, o.OldPath, "source file does not exist", false)
		}
		if pf.exists(o.NewPath) {
			pf.add(index, o.NewPath, "destination already exists", false)
		}
		pf.markRemoved(o.OldPath)
		pf.markCreated(o.NewPath)
	case Delete:
		if !pf.exists(o.Path) {
			pf.add(index, o.Path, "file does not exist", false)
		}
		pf.markRemoved(o.Path)
	}
}

func (pf *preflight) checkEdit(index int, edit Edit) {
	if !pf.exists(edit.Path) {
		pf.add(index, edit.Path, "file does not exist", false)
		pf.coordsLost[edit.Path] = true
		pf.contentDrift[edit.Path] = true
		return
	}

	switch {
	case edit.Find != "":
		if !pf.contentDrift[edit.Path] {
			pf.checkFind(index, edit)
		}
		pf.coordsLost[edit.Path] = true
	case edit.Ranged():
		if !pf.coordsLost[edit.Path] {
			pf.checkBounds(index, edit)
		}
	default:
		pf.coordsLost[edit.Path] = true
	}
	pf.contentDrift[edit.Path] = true
}

func (pf *preflight) checkFind(index int, edit Edit) {
	content, ok := pf.readFile(index, edit.Path)
	if !ok {
		return
	}
	switch n := strings.Count(content, edit.Find); {
	case n == 0:
		pf.add(index, edit.Path, "find snippet not found", false)
	case n > 1:
		pf.add(index, edit.Path, fmt.Sprintf("find snippet occurs %d times; it must be unique", n), false)
	}
}

func (pf *preflight) checkBounds(index int, edit Edit) {
	content, ok := pf.readFile(index, edit.Path)
	if !ok {
		return
	}
	lineCount := filesystem.ParseDocument(content).LineCount()
	if edit.EndLine > lineCount+1 {
		pf.add(index, edit.Path,
			fmt.Sprintf("end_line %d is beyond the file's %d lines", edit.EndLine, lineCount), false)
	}
}

func (pf *preflight) readFile(index int, path string) (string, bool) {
	abs, err := filesystem.ResolveWithin(pf.root, path)
	if err != nil {
		return "", false
	}
	content, err := filesystem.ReadFileString(abs)
	if err != nil {
		pf.add(index, path, fmt.Sprintf("cannot read file: %v", err), false)
		return "", false
	}
	return content, true
}

func (pf *preflight) exists(path string) bool {
	if pf.created[path] {
		return true
	}
	if pf.removed[path] {
		return false
	}
	abs, err := filesystem.ResolveWithin(pf.root, path)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && !info.IsDir()
}

func (pf *preflight) markCreated(path string) {
	pf.created[path] = true
	delete(pf.removed, path)
	pf.contentDrift[path] = true
	pf.coordsLost[path] = true
}

func (pf *preflight) markRemoved(path string) {
	pf.removed[path] = true
	delete(pf.created, path)
	delete(pf.contentDrift, path)
	delete(pf.coordsLost, path)
}

func (pf *preflight) add(index int, path, message string, warning bool) {
	pf.issues = append(pf.issues, Issue{Index: index, Path: path, Message: message, Warning: warning})
}
