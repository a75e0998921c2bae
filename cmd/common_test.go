package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadPlanTextFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.txt")
	if err := os.WriteFile(path, []byte("[[seam.response]]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := readPlanText([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	if got != "[[seam.response]]\n" {
		t.Errorf("readPlanText = %q", got)
	}
}

func TestReadPlanTextMissingFile(t *testing.T) {
	_, err := readPlanText([]string{filepath.Join(t.TempDir(), "absent.txt")})
	if err == nil || !strings.Contains(err.Error(), "could not read plan file") {
		t.Fatalf("expected read error, got %v", err)
	}
}
