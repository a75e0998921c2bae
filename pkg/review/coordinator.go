// Package review runs the loop between a proposed plan and the operator:
// parse, validate, present, then apply, edit or cancel. The operator surface
// is a capability interface, so the core never calls a specific external
// program directly.
package review

import (
	"errors"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/seam-cli/seam/pkg/engine"
	"github.com/seam-cli/seam/pkg/logging"
	"github.com/seam-cli/seam/pkg/plan"
	"github.com/seam-cli/seam/pkg/protocol"
)

// Choice is the operator's decision about a presented plan.
type Choice int

const (
	Apply Choice = iota
	Edit
	Cancel
)

// Plan bundles one parsed plan with everything found wrong with it, for
// presentation.
type Plan struct {
	Operations  plan.Operations
	Diagnostics []protocol.Diagnostic
	Errors      []plan.ValidationError
	Issues      []plan.Issue
}

// Applyable reports whether the plan could be applied as presented, given
// whether the operator is forcing past validation errors.
func (p Plan) Applyable(force bool) bool {
	if len(p.Operations) == 0 {
		return false
	}
	if force {
		return true
	}
	return len(p.Errors) == 0 && !plan.HasBlockingIssues(p.Issues)
}

// UI is the operator surface the coordinator drives.
type UI interface {
	// PresentPlan shows the plan, its diagnostics and its problems.
	PresentPlan(p Plan)
	// ConfirmChoice asks what to do next. canApply is false when the plan
	// has blocking problems and is not being forced.
	ConfirmChoice(canApply bool) (Choice, error)
	// EditPlanText lets the operator rework the raw plan text.
	EditPlanText(raw string) (string, error)
}

// Options configure one review session.
type Options struct {
	// Force applies the valid subset of operations even when some records
	// failed validation or preflight found blocking issues.
	Force bool
	// Preflight enables filesystem checks before presenting.
	Preflight bool

	Prompt  string
	Message string
	Name    string
}

// Coordinator wires the parser, validator, engine and UI together.
type Coordinator struct {
	root   string
	engine *engine.Engine
	ui     UI
	rules  *ignore.GitIgnore
	logger *logging.Logger
}

func NewCoordinator(root string, eng *engine.Engine, ui UI, rules *ignore.GitIgnore, logger *logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Coordinator{root: root, engine: eng, ui: ui, rules: rules, logger: logger}
}

// ErrCancelled is returned when the operator cancels the plan.
var ErrCancelled = errors.New("plan cancelled")

// Run reviews raw plan text until it is applied or cancelled. Each edit
// round re-parses and re-validates the text from scratch. On apply it
// returns the engine's report; on cancel it returns ErrCancelled.
func (c *Coordinator) Run(raw string, opts Options) (*engine.Report, error) {
	text := raw
	for {
		p := c.inspect(text, opts)
		c.ui.PresentPlan(p)

		canApply := p.Applyable(opts.Force)
		choice, err := c.ui.ConfirmChoice(canApply)
		if err != nil {
			return nil, err
		}

		switch choice {
		case Apply:
			if !canApply {
				return nil, errors.New("plan has blocking problems; edit it, or force past them")
			}
			if len(p.Errors) > 0 {
				c.logger.Logf("forcing plan with %d validation errors; applying %d valid operations",
					len(p.Errors), len(p.Operations))
			}
			return c.engine.Execute(p.Operations, engine.ExecuteOptions{
				Prompt:      opts.Prompt,
				Description: opts.Message,
				Name:        opts.Name,
			})
		case Edit:
			edited, err := c.ui.EditPlanText(text)
			if err != nil {
				return nil, err
			}
			text = edited
		case Cancel:
			c.logger.Log("plan cancelled by operator")
			return nil, ErrCancelled
		}
	}
}

func (c *Coordinator) inspect(text string, opts Options) Plan {
	records, diags := protocol.Parse(text)
	ops, errs := plan.ValidateAll(records)

	var issues []plan.Issue
	if opts.Preflight {
		issues = plan.Preflight(c.root, ops, c.rules)
	}
	return Plan{Operations: ops, Diagnostics: diags, Errors: errs, Issues: issues}
}
