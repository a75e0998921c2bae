package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/seam-cli/seam/pkg/filesystem"
	"github.com/seam-cli/seam/pkg/workspace"
)

// Sentinel errors for reference resolution, so callers can tell a bad
// reference from a bad index.
var (
	ErrNotFound   = errors.New("no matching history entry")
	ErrOutOfRange = errors.New("history reference out of range")
)

// Store reads and writes the per-project history document: one JSON array of
// entries, most recent first, rewritten in full on every mutation. There is
// no locking; concurrent invocations against the same project race and the
// last writer wins.
type Store struct {
	path       string
	maxEntries int
	entries    []Entry
}

// Open loads the history document for a project root. A missing document
// yields an empty store; a corrupt one is an error rather than silent loss.
// maxEntries caps how many entries Append retains, oldest dropped first;
// zero or negative means no cap.
func Open(root string, maxEntries int) (*Store, error) {
	return openPath(workspace.HistoryPath(root), maxEntries)
}

func openPath(path string, maxEntries int) (*Store, error) {
	s := &Store{path: path, maxEntries: maxEntries}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("history document %s is corrupt: %w", path, err)
	}
	return s, nil
}

// Entries returns all entries, most recent first. Callers must not modify
// the returned slice.
func (s *Store) Entries() []Entry {
	return s.entries
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Append records a new entry as the most recent and persists the document.
func (s *Store) Append(entry Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("history entry has no id")
	}
	if err := ValidateName(entry.Name); err != nil {
		return err
	}

	s.entries = append([]Entry{entry}, s.entries...)
	if s.maxEntries > 0 && len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
	return s.save()
}

// Resolve finds an entry by reference: first as an exact id, then as a
// name (most recent wins), then as a 1-based recency index where "1" is
// the most recent entry.
func (s *Store) Resolve(ref string) (Entry, error) {
	idx, err := s.resolveIndex(ref)
	if err != nil {
		return Entry{}, err
	}
	return s.entries[idx], nil
}

// Delete removes the referenced entry and persists the document.
func (s *Store) Delete(ref string) (Entry, error) {
	idx, err := s.resolveIndex(ref)
	if err != nil {
		return Entry{}, err
	}
	entry := s.entries[idx]
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	if err := s.save(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *Store) resolveIndex(ref string) (int, error) {
	if ref == "" {
		return 0, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	for i, e := range s.entries {
		if e.ID == ref {
			return i, nil
		}
	}
	for i, e := range s.entries {
		if e.Name != "" && e.Name == ref {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(s.entries) {
			return 0, fmt.Errorf("%w: %d of %d entries", ErrOutOfRange, n, len(s.entries))
		}
		return n - 1, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

func (s *Store) save() error {
	if s.entries == nil {
		// Keep the document a JSON array even when the last entry is
		// deleted.
		s.entries = []Entry{}
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := filesystem.WriteFileWithDir(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
