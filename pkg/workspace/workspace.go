// Package workspace locates the project root and the seam state directory
// inside it. All other packages address project files relative to the root
// returned from here.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// StateDirName is the per-project directory holding history, config and logs.
	StateDirName = ".seam"

	HistoryFileName = "history.json"
	ConfigFileName  = "config.json"
	IgnoreFileName  = "seamignore"
)

// FindRoot walks upward from start looking for a directory containing
// StateDirName. If none exists, the nearest ancestor containing .git is
// used; failing both, start itself is the root.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("could not resolve starting directory: %w", err)
	}

	gitRoot := ""
	for dir := abs; ; {
		if isDir(filepath.Join(dir, StateDirName)) {
			return dir, nil
		}
		if gitRoot == "" && isDir(filepath.Join(dir, ".git")) {
			gitRoot = dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if gitRoot != "" {
		return gitRoot, nil
	}
	return abs, nil
}

// FindRootFromWd is FindRoot starting at the current working directory.
func FindRootFromWd() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("could not determine working directory: %w", err)
	}
	return FindRoot(wd)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// StateDir returns the state directory path for a project root.
func StateDir(root string) string {
	return filepath.Join(root, StateDirName)
}

// EnsureStateDir creates the state directory if missing.
func EnsureStateDir(root string) error {
	if err := os.MkdirAll(StateDir(root), 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", StateDirName, err)
	}
	return nil
}

// HistoryPath returns the history document path for a project root.
func HistoryPath(root string) string {
	return filepath.Join(StateDir(root), HistoryFileName)
}

// ConfigPath returns the config file path for a project root.
func ConfigPath(root string) string {
	return filepath.Join(StateDir(root), ConfigFileName)
}

// IgnorePath returns the seam ignore file path for a project root.
func IgnorePath(root string) string {
	return filepath.Join(StateDir(root), IgnoreFileName)
}
