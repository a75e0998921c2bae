// Package history persists applied plans per project and resolves user
// references to them for inspection, undo, redo and deletion.
package history

import (
	"fmt"
	"time"

	"github.com/seam-cli/seam/pkg/plan"
	"github.com/seam-cli/seam/pkg/utils"
)

// OperationResult records the outcome of one plan operation. The results
// slice of an entry is index-aligned with its operation list.
type OperationResult struct {
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Entry is one applied plan together with everything needed to report,
// undo or redo it. Entries are written once and never modified.
type Entry struct {
	ID          string            `json:"id"`
	Name        string            `json:"name,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Prompt      string            `json:"prompt,omitempty"`
	Description string            `json:"description"`
	Operations  plan.Operations   `json:"operations"`
	Results     []OperationResult `json:"results"`

	// OriginalContent holds the pre-plan bytes of every file an operation
	// could modify or remove. A missing key means the path did not exist
	// when the plan started.
	OriginalContent map[string]string `json:"original_content,omitempty"`
	// ResultContent holds the post-plan bytes of paths touched by
	// succeeded operations that still existed when the plan finished.
	ResultContent map[string]string `json:"result_content,omitempty"`
}

// Failed reports whether any operation in the entry failed.
func (e *Entry) Failed() bool {
	for _, r := range e.Results {
		if !r.Success && !r.Skipped {
			return true
		}
	}
	return false
}

// SucceededCount returns how many operations in the entry succeeded.
func (e *Entry) SucceededCount() int {
	n := 0
	for _, r := range e.Results {
		if r.Success {
			n++
		}
	}
	return n
}

// Title returns a short single-line label for listings.
func (e *Entry) Title() string {
	return utils.TruncateString(utils.FirstLine(e.Description), 72)
}

// NewEntryID builds an entry identifier from the apply time. The UTC stamp
// keeps ids sortable; the hash suffix disambiguates entries created within
// the same second.
func NewEntryID(ts time.Time, prompt, description string) string {
	stamp := ts.UTC().Format("20060102T150405")
	seed := fmt.Sprintf("%s\n%s\n%d", prompt, description, ts.UnixNano())
	return stamp + "-" + utils.ShortHash(seed)
}

// ValidateName rejects entry names that Resolve could mistake for a numeric
// recency reference.
func ValidateName(name string) error {
	if name == "" {
		return nil
	}
	if isAllDigits(name) {
		return fmt.Errorf("entry name %q is numeric; numbers are reserved for recency references", name)
	}
	return nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
