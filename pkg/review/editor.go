package review

import (
	"fmt"
	"os"
	"os/exec"
)

// OpenInEditor opens the provided content in an editor via a temp file and
// returns the edited content. An empty editorCmd falls back to $EDITOR,
// then to vim.
func OpenInEditor(editorCmd, content, fileExtension string) (string, error) {
	tempFile, err := os.CreateTemp("", "seam-*"+fileExtension)
	if err != nil {
		return "", fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		return "", fmt.Errorf("could not write to temp file: %w", err)
	}
	tempFile.Close()

	if editorCmd == "" {
		editorCmd = os.Getenv("EDITOR")
	}
	if editorCmd == "" {
		editorCmd = "vim"
	}
	cmd := exec.Command(editorCmd, tempFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running editor: %w", err)
	}

	editedContent, err := os.ReadFile(tempFile.Name())
	if err != nil {
		return "", fmt.Errorf("could not read edited file: %w", err)
	}
	return string(editedContent), nil
}
