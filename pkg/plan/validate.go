package plan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/seam-cli/seam/pkg/protocol"
)

// ValidationError describes why one parsed record was rejected. Index is the
// record's position in the plan; Line points at the block's opening marker.
type ValidationError struct {
	Index   int
	Line    int
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("operation %d (line %d): %s", e.Index+1, e.Line, e.Message)
}

var allowedFields = map[Kind][]string{
	KindCreate:   {"path", "content", "comment"},
	KindEdit:     {"path", "content", "start_line", "end_line", "find", "comment"},
	KindRename:   {"old_path", "new_path", "comment"},
	KindDelete:   {"path", "comment"},
	KindResponse: {"text"},
}

// AllowedFields returns the field names a kind accepts, in documentation
// order. It returns nil for unknown kinds.
func AllowedFields(kind Kind) []string {
	fields := allowedFields[kind]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// Validate checks one record against its kind's schema and builds the typed
// operation. Validation is purely structural; the filesystem is never
// consulted. The returned errors carry the record's line but not its plan
// index, which ValidateAll stamps in.
func Validate(rec protocol.Record) (Operation, []ValidationError) {
	v := &recordValidator{rec: rec}

	kind := Kind(rec.Kind)
	if _, known := allowedFields[kind]; !known {
		v.errorf("unknown operation kind %q", rec.Kind)
		return nil, v.errs
	}
	v.rejectUnknownFields(kind)

	var op Operation
	switch kind {
	case KindCreate:
		op = Create{
			Path:    v.required("path"),
			Content: v.requiredAllowEmpty("content"),
			Comment: v.optional("comment"),
		}
	case KindEdit:
		op = v.buildEdit()
	case KindRename:
		op = v.buildRename()
	case KindDelete:
		op = Delete{
			Path:    v.required("path"),
			Comment: v.optional("comment"),
		}
	case KindResponse:
		op = Response{Text: v.optional("text")}
	}

	if len(v.errs) > 0 {
		return nil, v.errs
	}
	return op, nil
}

// ValidateAll validates every record, preserving index correspondence so
// errors read as "operation N". Valid operations are returned in plan order;
// records with errors are omitted from the list. Ranged edits to the same
// path must be supplied top-to-bottom without overlap, which is checked here
// across records.
func ValidateAll(records []protocol.Record) (Operations, []ValidationError) {
	var ops Operations
	var errs []ValidationError
	rangedEnd := map[string]int{}   // path -> exclusive end of the last ranged edit
	rangedIndex := map[string]int{} // path -> plan index of that edit

	for i, rec := range records {
		op, recErrs := Validate(rec)
		if len(recErrs) > 0 {
			for _, e := range recErrs {
				e.Index = i
				errs = append(errs, e)
			}
			continue
		}

		if edit, ok := op.(Edit); ok && edit.Ranged() {
			if end, seen := rangedEnd[edit.Path]; seen && edit.StartLine < end {
				errs = append(errs, ValidationError{
					Index: i,
					Line:  rec.Line,
					Message: fmt.Sprintf(
						"ranged edits to %s must be ordered top-to-bottom without overlap (operation %d already covers lines up to %d)",
						edit.Path, rangedIndex[edit.Path]+1, end-1),
				})
				continue
			}
			rangedEnd[edit.Path] = edit.EndLine
			rangedIndex[edit.Path] = i
		}

		ops = append(ops, op)
	}
	return ops, errs
}

type recordValidator struct {
	rec  protocol.Record
	errs []ValidationError
}

func (v *recordValidator) errorf(format string, args ...interface{}) {
	v.errs = append(v.errs, ValidationError{
		Line:    v.rec.Line,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *recordValidator) rejectUnknownFields(kind Kind) {
	allowed := map[string]bool{}
	for _, name := range allowedFields[kind] {
		allowed[name] = true
	}
	var unknown []string
	for name := range v.rec.Fields {
		if !allowed[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		v.errorf("unknown field %q for %s operation", name, kind)
	}
}

func (v *recordValidator) required(name string) string {
	value, ok := v.rec.Fields[name]
	if !ok {
		v.errorf("missing required field %q", name)
		return ""
	}
	if strings.TrimSpace(value) == "" {
		v.errorf("field %q must not be empty", name)
		return ""
	}
	return value
}

// requiredAllowEmpty accepts an empty value, distinguishing "field absent"
// from "field deliberately empty" (an empty file, a pure deletion edit).
func (v *recordValidator) requiredAllowEmpty(name string) string {
	value, ok := v.rec.Fields[name]
	if !ok {
		v.errorf("missing required field %q", name)
		return ""
	}
	return value
}

func (v *recordValidator) optional(name string) string {
	return v.rec.Fields[name]
}

func (v *recordValidator) positiveInt(name string) (int, bool) {
	raw, ok := v.rec.Fields[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		v.errorf("field %q must be a positive integer, got %q", name, raw)
		return 0, false
	}
	return n, true
}

func (v *recordValidator) buildEdit() Operation {
	edit := Edit{
		Path:    v.required("path"),
		Content: v.requiredAllowEmpty("content"),
		Comment: v.optional("comment"),
	}

	start, hasStart := v.positiveInt("start_line")
	end, hasEnd := v.positiveInt("end_line")
	_, startPresent := v.rec.Fields["start_line"]
	_, endPresent := v.rec.Fields["end_line"]

	if startPresent != endPresent {
		v.errorf("start_line and end_line must be given together")
	} else if hasStart && hasEnd {
		if end < start {
			v.errorf("end_line (%d) must not be less than start_line (%d)", end, start)
		} else {
			edit.StartLine = start
			edit.EndLine = end
		}
	}

	if find, present := v.rec.Fields["find"]; present {
		if find == "" {
			v.errorf("field \"find\" must not be empty")
		} else if startPresent || endPresent {
			v.errorf("find and line bounds are mutually exclusive")
		} else {
			edit.Find = find
		}
	}

	return edit
}

func (v *recordValidator) buildRename() Operation {
	rename := Rename{
		OldPath: v.required("old_path"),
		NewPath: v.required("new_path"),
		Comment: v.optional("comment"),
	}
	if rename.OldPath != "" && rename.OldPath == rename.NewPath {
		v.errorf("old_path and new_path must differ")
	}
	return rename
}
