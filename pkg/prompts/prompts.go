// Package prompts holds the instruction text handed to the external
// text-generation collaborator and the fixed messages shown to operators.
package prompts

import (
	"fmt"
	"strings"

	"github.com/seam-cli/seam/pkg/plan"
	"github.com/seam-cli/seam/pkg/protocol"
)

// ProtocolInstructions renders the plan text contract for inclusion in a
// system prompt. It is assembled from the same markers and field schemas
// the parser and validator enforce, so the documented format cannot drift
// from the accepted one.
func ProtocolInstructions() string {
	var b strings.Builder

	b.WriteString(`Propose file changes as a plan: a sequence of blocks in the exact format below.
Prose outside blocks is ignored, so explanations may surround them, but every
change must be inside a block. Markers must each sit alone on their own line.

Operations and their fields:

`)

	for _, kind := range plan.Kinds() {
		fmt.Fprintf(&b, "%s\n", protocol.BlockOpenMarker(string(kind)))
		for _, field := range plan.AllowedFields(kind) {
			if multiLineField(field) {
				fmt.Fprintf(&b, "%s\n...\n%s\n", protocol.FieldOpenMarker(field), protocol.FieldCloseMarker(field))
				continue
			}
			fmt.Fprintf(&b, "%s: ...\n", field)
		}
		fmt.Fprintf(&b, "%s\n\n", protocol.BlockCloseMarker(string(kind)))
	}

	b.WriteString(`Rules:
- create: path and content are required; content may be empty for an empty file.
- edit with start_line and end_line: replaces the half-open line range
  [start_line, end_line) with the content. Both are 1-based and always refer
  to the file as it was BEFORE this plan; give bounds together, top to
  bottom, never overlapping for the same file. start_line equal to end_line
  inserts without replacing.
- edit with find: replaces exactly one occurrence of the find text, which
  must appear in the file exactly once. Never combine find with line bounds.
- edit with neither: rewrites the whole file with the content.
- rename: old_path and new_path must differ; contents are untouched.
- response: free-form commentary when no file change is needed.
- paths are always relative to the project root; never use absolute paths
  or "..".
- single-line fields are "key: value" lines; multi-line fields use their
  own marker pair and their body is taken verbatim.`)

	return b.String()
}

// multiLineField reports whether a field is documented with a marker pair
// rather than a key: value line.
func multiLineField(name string) bool {
	switch name {
	case "content", "text", "find":
		return true
	}
	return false
}
