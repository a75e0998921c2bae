// Package protocol parses the delimited plan text that the generative
// assistant emits in place of a native data format.
//
// A plan is a sequence of blocks. A block opens with a marker line such as
// [[seam.edit]] and closes with the matching [[/seam.edit]]. Marker text
// must occupy the whole line after trimming surrounding whitespace. Inside
// a block a field is either a single line "key: value", or a multi-line
// field bracketed by its own marker pair:
//
//	[[seam.create]]
//	path: cmd/main.go
//	[[content]]
//	package main
//	[[/content]]
//	[[/seam.create]]
//
// Multi-line field bodies are taken verbatim; nothing nests inside them.
// Text outside blocks is ignored. Malformed input never fails the parse as
// a whole: the offending block is dropped and reported as a Diagnostic, and
// parsing resumes at the top level.
package protocol

import (
	"fmt"
	"regexp"
	"strings"
)

// Record is one parsed block: the operation kind and an untyped field map.
// Records are positional; validation into typed operations happens later.
type Record struct {
	Kind      string
	Line      int // 1-based line of the opening marker
	Fields    map[string]string
	FieldLine map[string]int
}

// Diagnostic reports a recoverable parse problem at a specific input line.
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}

var (
	blockOpenRegex  = regexp.MustCompile(`^\[\[seam\.([a-z][a-z0-9_]*)\]\]$`)
	blockCloseRegex = regexp.MustCompile(`^\[\[/seam\.([a-z][a-z0-9_]*)\]\]$`)
	fieldOpenRegex  = regexp.MustCompile(`^\[\[([a-z][a-z0-9_]*)\]\]$`)
	fieldCloseRegex = regexp.MustCompile(`^\[\[/([a-z][a-z0-9_]*)\]\]$`)
	fieldKeyRegex   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

// BlockOpenMarker returns the opening marker line for an operation kind.
func BlockOpenMarker(kind string) string {
	return "[[seam." + kind + "]]"
}

// BlockCloseMarker returns the closing marker line for an operation kind.
func BlockCloseMarker(kind string) string {
	return "[[/seam." + kind + "]]"
}

// FieldOpenMarker returns the opening marker line for a multi-line field.
func FieldOpenMarker(name string) string {
	return "[[" + name + "]]"
}

// FieldCloseMarker returns the closing marker line for a multi-line field.
func FieldCloseMarker(name string) string {
	return "[[/" + name + "]]"
}

// Parse scans raw plan text into block records plus diagnostics for every
// part it had to drop or skip. It never returns an error: a fully malformed
// input yields zero records and one diagnostic per problem.
func Parse(raw string) ([]Record, []Diagnostic) {
	p := &parser{eol: "\n"}
	if strings.Contains(raw, "\r\n") {
		p.eol = "\r\n"
	}

	lines := strings.Split(raw, "\n")
	for i, rawLine := range lines {
		p.scanLine(i+1, strings.TrimSuffix(rawLine, "\r"))
	}
	p.finish(len(lines))

	return p.records, p.diags
}

type parser struct {
	records []Record
	diags   []Diagnostic
	eol     string

	block *Record // currently open block, nil at top level

	fieldName string // currently open multi-line field, "" when none
	fieldLine int
	fieldBuf  []string
}

func (p *parser) scanLine(lineNo int, line string) {
	trimmed := strings.TrimSpace(line)

	// Inside a multi-line field everything is verbatim until the exact
	// closing marker.
	if p.fieldName != "" {
		if name, ok := matchMarker(fieldCloseRegex, trimmed); ok && name == p.fieldName {
			p.setField(p.fieldName, strings.Join(p.fieldBuf, p.eol), p.fieldLine)
			p.fieldName = ""
			p.fieldBuf = nil
			return
		}
		p.fieldBuf = append(p.fieldBuf, line)
		return
	}

	if p.block == nil {
		if kind, ok := matchMarker(blockOpenRegex, trimmed); ok {
			p.openBlock(kind, lineNo)
		}
		// Anything else outside a block is surrounding prose; ignore it.
		return
	}

	if kind, ok := matchMarker(blockCloseRegex, trimmed); ok {
		if kind == p.block.Kind {
			p.records = append(p.records, *p.block)
			p.block = nil
		} else {
			p.diag(lineNo, "closing marker %s does not match open block %s; line skipped",
				BlockCloseMarker(kind), BlockOpenMarker(p.block.Kind))
		}
		return
	}

	if kind, ok := matchMarker(blockOpenRegex, trimmed); ok {
		// A new opener while a block is open means the previous block never
		// closed. Drop it and resume with the new block.
		p.dropBlock("a new block opened at line %d", lineNo)
		p.openBlock(kind, lineNo)
		return
	}

	if name, ok := matchMarker(fieldOpenRegex, trimmed); ok {
		p.fieldName = name
		p.fieldLine = lineNo
		p.fieldBuf = []string{}
		return
	}

	if name, ok := matchMarker(fieldCloseRegex, trimmed); ok {
		p.diag(lineNo, "closing marker %s has no matching opening marker; line skipped", FieldCloseMarker(name))
		return
	}

	if trimmed == "" {
		return
	}

	if idx := strings.Index(line, ":"); idx > 0 {
		key := strings.TrimSpace(line[:idx])
		if fieldKeyRegex.MatchString(key) {
			// The value keeps its whitespace except for the single
			// separator space after the colon.
			p.setField(strings.ToLower(key), strings.TrimPrefix(line[idx+1:], " "), lineNo)
			return
		}
	}

	p.diag(lineNo, "unrecognized line inside %s block; line skipped", BlockOpenMarker(p.block.Kind))
}

// finish reports whatever is still open when input ends.
func (p *parser) finish(lastLine int) {
	if p.fieldName != "" {
		p.diag(p.fieldLine, "multi-line field %s not closed before end of input", FieldOpenMarker(p.fieldName))
		p.fieldName = ""
		p.fieldBuf = nil
	}
	if p.block != nil {
		p.dropBlock("end of input reached at line %d", lastLine)
	}
}

func (p *parser) openBlock(kind string, lineNo int) {
	p.block = &Record{
		Kind:      kind,
		Line:      lineNo,
		Fields:    make(map[string]string),
		FieldLine: make(map[string]int),
	}
}

func (p *parser) dropBlock(reasonFormat string, args ...interface{}) {
	reason := fmt.Sprintf(reasonFormat, args...)
	p.diag(p.block.Line, "block %s is missing its closing marker %s (%s); block dropped",
		BlockOpenMarker(p.block.Kind), BlockCloseMarker(p.block.Kind), reason)
	p.block = nil
}

func (p *parser) setField(name, value string, lineNo int) {
	if _, exists := p.block.Fields[name]; exists {
		p.diag(lineNo, "duplicate field %q in %s block; keeping the later value", name, BlockOpenMarker(p.block.Kind))
	}
	p.block.Fields[name] = value
	p.block.FieldLine[name] = lineNo
}

func (p *parser) diag(lineNo int, format string, args ...interface{}) {
	p.diags = append(p.diags, Diagnostic{Line: lineNo, Message: fmt.Sprintf(format, args...)})
}

func matchMarker(re *regexp.Regexp, line string) (string, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}
