package filesystem

import (
	"os"
	"strings"
)

// Document is the line-oriented view of one text file. It remembers the
// file's dominant end-of-line style and whether the file ended with a line
// break, so edits can be written back without disturbing either.
type Document struct {
	Lines           []string
	EOL             string
	TrailingNewline bool
}

// ParseDocument splits content into lines. Lines are split on "\n" with a
// single trailing "\r" stripped per line; the EOL style is recorded as CRLF
// when any CRLF appears in the input.
func ParseDocument(content string) *Document {
	doc := &Document{EOL: "\n"}
	if strings.Contains(content, "\r\n") {
		doc.EOL = "\r\n"
	}
	if content == "" {
		return doc
	}
	doc.TrailingNewline = strings.HasSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	if doc.TrailingNewline {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	doc.Lines = lines
	return doc
}

// LoadDocument reads path and parses it into a Document.
func LoadDocument(path string) (*Document, error) {
	content, err := ReadFileString(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(content), nil
}

// Content reassembles the document using its recorded EOL style.
func (d *Document) Content() string {
	if len(d.Lines) == 0 {
		return ""
	}
	out := strings.Join(d.Lines, d.EOL)
	if d.TrailingNewline {
		out += d.EOL
	}
	return out
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// Replace substitutes the half-open line range [start, end) with the given
// lines. Bounds are 1-based and must already be validated by the caller;
// start == end inserts before start without removing anything.
func (d *Document) Replace(start, end int, lines []string) {
	head := d.Lines[:start-1]
	tail := d.Lines[end-1:]
	merged := make([]string, 0, len(head)+len(lines)+len(tail))
	merged = append(merged, head...)
	merged = append(merged, lines...)
	merged = append(merged, tail...)
	d.Lines = merged
}

// Save writes the document back to path, creating parent directories.
func (d *Document) Save(path string) error {
	return WriteFileWithDir(path, []byte(d.Content()), 0644)
}

// SplitContentLines splits operation content into the lines it contributes
// to a file. Empty content contributes no lines, so a ranged edit with empty
// content deletes the range.
func SplitContentLines(content string) []string {
	if content == "" {
		return nil
	}
	return ParseDocument(content).Lines
}

// MatchEOL rewrites content to use CRLF line breaks when the file previously
// stored at path used them. Used for whole-file writes over an existing file.
func MatchEOL(path, content string) string {
	existing, err := os.ReadFile(path)
	if err != nil {
		return content
	}
	if !strings.Contains(string(existing), "\r\n") {
		return content
	}
	if strings.Contains(content, "\r\n") {
		return content
	}
	return strings.ReplaceAll(content, "\n", "\r\n")
}
