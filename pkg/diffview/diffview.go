// Package diffview renders colored line diffs of file contents for plan
// review and history inspection.
package diffview

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	redColor    = "\x1b[31m"
	greenColor  = "\x1b[32m"
	yellowColor = "\x1b[33m"
	boldStyle   = "\x1b[1m"
	resetColor  = "\x1b[0m"

	// contextLines is how many unchanged lines to keep on each side of a
	// change block before collapsing the rest.
	contextLines = 2
)

// Render returns a colored line diff between two versions of a file,
// prefixed with a one-line stats header. Unchanged stretches are collapsed.
// It returns "" when the contents are identical.
func Render(filename, before, after string) string {
	if before == after {
		return ""
	}

	segments := diffSegments(before, after)

	var out strings.Builder
	added, removed := countChanges(segments)
	writeHeader(&out, filename, added, removed)

	for i, seg := range segments {
		switch seg.op {
		case diffmatchpatch.DiffEqual:
			writeContext(&out, seg.lines, i == 0, i == len(segments)-1)
		case diffmatchpatch.DiffDelete:
			for _, line := range seg.lines {
				fmt.Fprintf(&out, "%s- %s%s\n", redColor, line, resetColor)
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range seg.lines {
				fmt.Fprintf(&out, "%s+ %s%s\n", greenColor, line, resetColor)
			}
		}
	}
	return out.String()
}

type segment struct {
	op    diffmatchpatch.Operation
	lines []string
}

// diffSegments runs the diff in line mode so changes never split a line,
// then regroups the result into per-line segments.
func diffSegments(before, after string) []segment {
	dmp := diffmatchpatch.New()
	c1, c2, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lineArray)

	segments := make([]segment, 0, len(diffs))
	for _, d := range diffs {
		lines := splitDiffLines(d.Text)
		if len(lines) == 0 {
			continue
		}
		segments = append(segments, segment{op: d.Type, lines: lines})
	}
	return segments
}

func splitDiffLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func countChanges(segments []segment) (added, removed int) {
	for _, seg := range segments {
		switch seg.op {
		case diffmatchpatch.DiffInsert:
			added += len(seg.lines)
		case diffmatchpatch.DiffDelete:
			removed += len(seg.lines)
		}
	}
	return
}

func writeHeader(out *strings.Builder, filename string, added, removed int) {
	fmt.Fprintf(out, "%s%s%s%s ", boldStyle, yellowColor, filename, resetColor)
	if added > 0 {
		fmt.Fprintf(out, "%s%s+++%d%s ", boldStyle, greenColor, added, resetColor)
	}
	if removed > 0 {
		fmt.Fprintf(out, "%s%s---%d%s", boldStyle, redColor, removed, resetColor)
	}
	out.WriteString("\n")
}

// writeContext prints an unchanged stretch, keeping only the lines adjacent
// to change blocks. Leading context before the first change and trailing
// context after the last are trimmed from the far side.
func writeContext(out *strings.Builder, lines []string, first, last bool) {
	head, tail := contextLines, contextLines
	if first {
		head = 0
	}
	if last {
		tail = 0
	}

	if hidden := len(lines) - head - tail; hidden > 1 {
		for _, line := range lines[:head] {
			fmt.Fprintf(out, "  %s\n", line)
		}
		fmt.Fprintf(out, "  [%d unchanged lines]\n", hidden)
		for _, line := range lines[len(lines)-tail:] {
			fmt.Fprintf(out, "  %s\n", line)
		}
		return
	}

	for _, line := range lines {
		fmt.Fprintf(out, "  %s\n", line)
	}
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripColors removes ANSI escape sequences, for plain-text sinks such as
// log files.
func StripColors(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
