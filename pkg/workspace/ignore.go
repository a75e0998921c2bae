package workspace

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// GetIgnoreRules compiles the ignore rules for a project root, combining the
// project's .gitignore, the .seam/seamignore file, and built-in patterns.
// Plans that target ignored paths are flagged during preflight.
func GetIgnoreRules(root string) *ignore.GitIgnore {
	var allLines []string

	allLines = append(allLines, builtinIgnorePatterns()...)

	gitIgnorePath := filepath.Join(root, ".gitignore")
	if content, err := os.ReadFile(gitIgnorePath); err == nil {
		allLines = append(allLines, strings.Split(string(content), "\n")...)
	}

	if content, err := os.ReadFile(IgnorePath(root)); err == nil {
		allLines = append(allLines, strings.Split(string(content), "\n")...)
	}

	var filtered []string
	for _, line := range allLines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			filtered = append(filtered, line)
		}
	}

	return ignore.CompileIgnoreLines(filtered...)
}

// AddIgnorePattern appends a pattern to the project's seamignore file.
func AddIgnorePattern(root, pattern string) error {
	if err := EnsureStateDir(root); err != nil {
		return err
	}
	f, err := os.OpenFile(IgnorePath(root), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(pattern + "\n"); err != nil {
		return err
	}
	return nil
}

// builtinIgnorePatterns lists paths a plan should never touch. The state
// directory and version-control metadata always match, independent of any
// project ignore files.
func builtinIgnorePatterns() []string {
	return []string{
		StateDirName + "/",
		StateDirName + "/*",
		".git/",
		".svn/",
		".hg/",
		"node_modules/",
		"__pycache__/",
		".DS_Store",
		"*.swp",
		"*.bak",
		"*.tmp",
	}
}
