// Package plan defines the typed operations a plan is made of, validates
// parsed protocol records into them, and offers an optional preflight pass
// against the working tree.
package plan

import (
	"fmt"
	"strings"
)

// Kind discriminates the operation variants. The values double as the block
// kind tokens in the plan text protocol.
type Kind string

const (
	KindCreate   Kind = "create"
	KindEdit     Kind = "edit"
	KindRename   Kind = "rename"
	KindDelete   Kind = "delete"
	KindResponse Kind = "response"
)

// Kinds lists every operation kind in documentation order.
func Kinds() []Kind {
	return []Kind{KindCreate, KindEdit, KindRename, KindDelete, KindResponse}
}

// Operation is one typed plan action. The implementation set is closed:
// exactly one type per protocol block kind, constructed only by validation
// or by decoding a persisted history entry.
type Operation interface {
	Kind() Kind
	// Summary returns a one-line description for review and history output.
	Summary() string
}

// Create writes a new file. It fails at execution time if the target
// already exists.
type Create struct {
	Path    string
	Content string
	Comment string
}

func (Create) Kind() Kind { return KindCreate }

func (c Create) Summary() string {
	return fmt.Sprintf("create %s (%s)", c.Path, countLines(c.Content))
}

// Edit replaces content in an existing file. With StartLine/EndLine set it
// replaces the half-open line range [StartLine, EndLine), addressed against
// the file as it was before the plan started. With Find set it replaces the
// unique occurrence of that snippet. With neither it rewrites the whole file.
type Edit struct {
	Path      string
	Content   string
	StartLine int // 1-based inclusive start; 0 when not ranged
	EndLine   int // 1-based exclusive end; 0 when not ranged
	Find      string
	Comment   string
}

func (Edit) Kind() Kind { return KindEdit }

// Ranged reports whether the edit addresses an explicit line range.
func (e Edit) Ranged() bool { return e.StartLine != 0 }

func (e Edit) Summary() string {
	switch {
	case e.Ranged():
		return fmt.Sprintf("edit %s lines %d-%d (%s)", e.Path, e.StartLine, e.EndLine, countLines(e.Content))
	case e.Find != "":
		return fmt.Sprintf("edit %s at matched snippet", e.Path)
	default:
		return fmt.Sprintf("rewrite %s (%s)", e.Path, countLines(e.Content))
	}
}

// Rename moves a file. Content is untouched, so undo inverts it by path
// alone.
type Rename struct {
	OldPath string
	NewPath string
	Comment string
}

func (Rename) Kind() Kind { return KindRename }

func (r Rename) Summary() string {
	return fmt.Sprintf("rename %s -> %s", r.OldPath, r.NewPath)
}

// Delete removes a file.
type Delete struct {
	Path    string
	Comment string
}

func (Delete) Kind() Kind { return KindDelete }

func (d Delete) Summary() string {
	return fmt.Sprintf("delete %s", d.Path)
}

// Response carries assistant commentary. It never touches storage and
// always succeeds.
type Response struct {
	Text string
}

func (Response) Kind() Kind { return KindResponse }

func (Response) Summary() string { return "response" }

func countLines(content string) string {
	if content == "" {
		return "empty"
	}
	n := strings.Count(content, "\n") + 1
	if n == 1 {
		return "1 line"
	}
	return fmt.Sprintf("%d lines", n)
}

// MutatedPaths returns the project-relative paths an operation would touch.
func MutatedPaths(op Operation) []string {
	switch o := op.(type) {
	case Create:
		return []string{o.Path}
	case Edit:
		return []string{o.Path}
	case Rename:
		return []string{o.OldPath, o.NewPath}
	case Delete:
		return []string{o.Path}
	default:
		return nil
	}
}
