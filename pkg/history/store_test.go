package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/seam-cli/seam/pkg/plan"
	"github.com/seam-cli/seam/pkg/workspace"
)

func testStore(t *testing.T, maxEntries int) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	s, err := Open(root, maxEntries)
	if err != nil {
		t.Fatal(err)
	}
	return s, root
}

func entryAt(t *testing.T, id, name string, ts time.Time) Entry {
	t.Helper()
	return Entry{
		ID:          id,
		Name:        name,
		Timestamp:   ts,
		Description: "test plan " + id,
		Operations:  plan.Operations{plan.Response{Text: "ok"}},
		Results:     []OperationResult{{Success: true}},
	}
}

func TestStoreAppendKeepsMostRecentFirst(t *testing.T) {
	s, root := testStore(t, 0)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := s.Append(entryAt(t, "first", "", base)); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(entryAt(t, "second", "", base.Add(time.Minute))); err != nil {
		t.Fatal(err)
	}

	if got := s.Entries(); got[0].ID != "second" || got[1].ID != "first" {
		t.Fatalf("entries not most-recent-first: %s, %s", got[0].ID, got[1].ID)
	}

	// The order must survive a reload from disk.
	reloaded, err := Open(root, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Entries(); len(got) != 2 || got[0].ID != "second" {
		t.Fatalf("reloaded order wrong: %+v", got)
	}
}

func TestStoreResolve(t *testing.T) {
	s, _ := testStore(t, 0)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"aaa", "bbb", "ccc"} {
		name := ""
		if id == "bbb" {
			name = "refactor"
		}
		if err := s.Append(entryAt(t, id, name, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}
	// Stored order is now ccc, bbb, aaa.

	t.Run("by id", func(t *testing.T) {
		e, err := s.Resolve("aaa")
		if err != nil || e.ID != "aaa" {
			t.Fatalf("Resolve(aaa) = %v, %v", e.ID, err)
		}
	})

	t.Run("by name", func(t *testing.T) {
		e, err := s.Resolve("refactor")
		if err != nil || e.ID != "bbb" {
			t.Fatalf("Resolve(refactor) = %v, %v", e.ID, err)
		}
	})

	t.Run("by recency", func(t *testing.T) {
		e, err := s.Resolve("1")
		if err != nil || e.ID != "ccc" {
			t.Fatalf("Resolve(1) = %v, %v", e.ID, err)
		}
		e, err = s.Resolve("3")
		if err != nil || e.ID != "aaa" {
			t.Fatalf("Resolve(3) = %v, %v", e.ID, err)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := s.Resolve("4")
		if !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("expected ErrOutOfRange, got %v", err)
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, err := s.Resolve("nope")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if errors.Is(err, ErrOutOfRange) {
			t.Fatal("not-found must be distinct from out-of-range")
		}
	})
}

func TestStoreDelete(t *testing.T) {
	s, root := testStore(t, 0)
	ts := time.Now()
	for _, id := range []string{"one", "two", "three"} {
		if err := s.Append(entryAt(t, id, "", ts)); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := s.Delete("two")
	if err != nil {
		t.Fatal(err)
	}
	if deleted.ID != "two" {
		t.Errorf("deleted wrong entry: %s", deleted.ID)
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 entries after delete, got %d", s.Len())
	}

	reloaded, err := Open(root, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reloaded.Resolve("two"); err == nil {
		t.Error("deleted entry still resolvable after reload")
	}
}

func TestStoreCapDropsOldest(t *testing.T) {
	s, _ := testStore(t, 2)
	ts := time.Now()
	for _, id := range []string{"one", "two", "three"} {
		if err := s.Append(entryAt(t, id, "", ts)); err != nil {
			t.Fatal(err)
		}
	}

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("cap not applied: %d entries", len(entries))
	}
	if entries[0].ID != "three" || entries[1].ID != "two" {
		t.Errorf("wrong entries survived the cap: %s, %s", entries[0].ID, entries[1].ID)
	}
}

func TestStoreRejectsNumericNames(t *testing.T) {
	s, _ := testStore(t, 0)
	err := s.Append(entryAt(t, "id1", "42", time.Now()))
	if err == nil || !strings.Contains(err.Error(), "numeric") {
		t.Fatalf("expected numeric-name rejection, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("rejected entry must not be stored")
	}
}

func TestStoreRoundTripsEntryPayload(t *testing.T) {
	s, root := testStore(t, 0)
	entry := Entry{
		ID:          "payload",
		Timestamp:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Prompt:      "make an empty marker file",
		Description: "create marker",
		Operations: plan.Operations{
			plan.Create{Path: "marker.txt", Content: ""},
			plan.Edit{Path: "a.go", Content: "x\n", StartLine: 2, EndLine: 4},
		},
		Results: []OperationResult{
			{Success: true},
			{Success: false, Error: "boom"},
		},
		OriginalContent: map[string]string{"a.go": "old\n"},
		ResultContent:   map[string]string{"marker.txt": ""},
	}
	if err := s.Append(entry); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Open(root, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reloaded.Resolve("payload")
	if err != nil {
		t.Fatal(err)
	}

	create := got.Operations[0].(plan.Create)
	if create.Content != "" {
		t.Errorf("empty create content lost: %+v", create)
	}
	edit := got.Operations[1].(plan.Edit)
	if edit.StartLine != 2 || edit.EndLine != 4 {
		t.Errorf("edit bounds lost: %+v", edit)
	}
	if got.Results[1].Error != "boom" {
		t.Errorf("results lost: %+v", got.Results)
	}
	if got.OriginalContent["a.go"] != "old\n" {
		t.Errorf("original content lost: %+v", got.OriginalContent)
	}
	if content, ok := got.ResultContent["marker.txt"]; !ok || content != "" {
		t.Errorf("empty result content lost: %+v", got.ResultContent)
	}
}

func TestStoreDocumentIsAnArray(t *testing.T) {
	s, root := testStore(t, 0)
	if err := s.Append(entryAt(t, "only", "", time.Now())); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(workspace.HistoryPath(root))
	if err != nil {
		t.Fatal(err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("history document is not a JSON array: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 element, got %d", len(raw))
	}

	// Deleting the last entry must leave an empty array, not null.
	if _, err := s.Delete("only"); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(workspace.HistoryPath(root))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty history document = %q", data)
	}
}

func TestStoreCorruptDocument(t *testing.T) {
	root := t.TempDir()
	path := workspace.HistoryPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(root, 0)
	if err == nil || !strings.Contains(err.Error(), "corrupt") {
		t.Fatalf("expected corrupt-document error, got %v", err)
	}
}

func TestNewEntryIDFormat(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 30, 45, 123, time.UTC)
	id := NewEntryID(ts, "prompt", "desc")
	if !strings.HasPrefix(id, "20250301T103045-") {
		t.Errorf("id stamp wrong: %s", id)
	}
	if len(id) != len("20250301T103045-")+8 {
		t.Errorf("id suffix not 8 hex chars: %s", id)
	}

	other := NewEntryID(ts.Add(time.Nanosecond), "prompt", "desc")
	if other == id {
		t.Error("ids for different apply times must differ")
	}
}
