package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/seam-cli/seam/pkg/config"
	"github.com/seam-cli/seam/pkg/engine"
	"github.com/seam-cli/seam/pkg/history"
	"github.com/seam-cli/seam/pkg/logging"
	"github.com/seam-cli/seam/pkg/workspace"
)

// projectContext bundles what most commands need: the discovered project
// root, its configuration, the activity logger, the history store and an
// engine over all of them. Commands construct it per invocation and pass
// the pieces down explicitly.
type projectContext struct {
	root   string
	cfg    *config.Config
	logger *logging.Logger
	store  *history.Store
	engine *engine.Engine
}

// openProject locates the project root from the working directory and wires
// up the shared state. The caller must Close it to flush the log.
func openProject() (*projectContext, error) {
	root, err := workspace.FindRootFromWd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	logger := logging.New(workspace.StateDir(root))
	store, err := history.Open(root, cfg.HistoryCap())
	if err != nil {
		logger.Close()
		return nil, err
	}
	return &projectContext{
		root:   root,
		cfg:    cfg,
		logger: logger,
		store:  store,
		engine: engine.New(root, store, logger),
	}, nil
}

func (p *projectContext) Close() {
	if p.logger != nil {
		p.logger.Close()
	}
}

// confirmPrompt asks a yes/no question on the terminal and defaults to no.
func confirmPrompt(question string) bool {
	fmt.Printf("%s (y/N): ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// readPlanText loads plan text from the argument file, or from stdin when
// the argument is "-" or absent.
func readPlanText(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("could not read plan file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("could not read plan from stdin: %w", err)
	}
	return string(data), nil
}
