package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/seam-cli/seam/pkg/diffview"
	"github.com/seam-cli/seam/pkg/history"
	"github.com/seam-cli/seam/pkg/plan"
)

func listingEntry() history.Entry {
	return history.Entry{
		ID:          "20250301T103045-1a2b3c4d",
		Name:        "healthcheck",
		Timestamp:   time.Date(2025, 3, 1, 10, 30, 45, 0, time.UTC),
		Description: "add /healthz endpoint",
		Operations: plan.Operations{
			plan.Create{Path: "healthz.go", Content: "package main\n"},
			plan.Delete{Path: "old.go"},
		},
		Results: []history.OperationResult{
			{Success: true},
			{Error: "file does not exist: old.go"},
		},
		OriginalContent: map[string]string{"old.go": "package old\n"},
		ResultContent: map[string]string{
			"healthz.go": "package main\n",
			"old.go":     "package old\n",
		},
	}
}

func TestFormatHistoryLine(t *testing.T) {
	line := diffview.StripColors(formatHistoryLine(1, listingEntry()))

	for _, want := range []string{
		"  1  ",
		"20250301T103045-1a2b3c4d",
		"(healthcheck)",
		"add /healthz endpoint",
		"[2 ops]",
		"[failed]",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("listing line missing %q: %s", want, line)
		}
	}

	unnamed := listingEntry()
	unnamed.Name = ""
	unnamed.Results[1] = history.OperationResult{Success: true}
	line = diffview.StripColors(formatHistoryLine(2, unnamed))
	if strings.Contains(line, "(") || strings.Contains(line, "[failed]") {
		t.Errorf("unnamed healthy entry rendered wrong: %s", line)
	}
}

func TestHistoryStatus(t *testing.T) {
	results := []history.OperationResult{
		{Success: true},
		{Error: "boom"},
		{Skipped: true, Error: "skipped: earlier operation failed"},
	}
	if got := historyStatus(results, 0); got != "ok" {
		t.Errorf("status 0 = %q", got)
	}
	if got := diffview.StripColors(historyStatus(results, 1)); got != "failed" {
		t.Errorf("status 1 = %q", got)
	}
	if got := historyStatus(results, 2); got != "skipped" {
		t.Errorf("status 2 = %q", got)
	}
	if got := historyStatus(results, 7); got != "?" {
		t.Errorf("status out of range = %q", got)
	}
}

func TestEntryDiffsCoverCreatedAndDeleted(t *testing.T) {
	e := history.Entry{
		OriginalContent: map[string]string{"gone.txt": "bye\n"},
		ResultContent:   map[string]string{"new.txt": "hi\n"},
	}
	diffs := diffview.StripColors(entryDiffs(e))

	if !strings.Contains(diffs, "+ hi") {
		t.Errorf("created file not shown as addition:\n%s", diffs)
	}
	if !strings.Contains(diffs, "- bye") {
		t.Errorf("deleted file not shown as removal:\n%s", diffs)
	}
}

func TestRefArgDefaultsToMostRecent(t *testing.T) {
	if got := refArg(nil); got != "1" {
		t.Errorf("refArg(nil) = %q", got)
	}
	if got := refArg([]string{"healthcheck"}); got != "healthcheck" {
		t.Errorf("refArg = %q", got)
	}
}
