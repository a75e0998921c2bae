package main

import (
	"os"

	"github.com/seam-cli/seam/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Cobra has already printed the error; exit non-zero so callers
		// can tell the plan was not applied.
		os.Exit(1)
	}
}
