package review

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/seam-cli/seam/pkg/diffview"
	"github.com/seam-cli/seam/pkg/filesystem"
	"github.com/seam-cli/seam/pkg/plan"
	"github.com/seam-cli/seam/pkg/prompts"
	"github.com/seam-cli/seam/pkg/utils"
)

// Terminal is the interactive operator adapter: plan summaries and diff
// previews on stdout, decisions from stdin.
type Terminal struct {
	root   string
	editor string
	yes    bool
	in     *bufio.Reader
	out    io.Writer
}

// NewTerminal builds the adapter. With yes set, plans apply without asking
// whenever they have no blocking problems. editor overrides $EDITOR for the
// edit choice.
func NewTerminal(root string, yes bool, editor string) *Terminal {
	return &Terminal{
		root:   root,
		editor: editor,
		yes:    yes,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Interactive reports whether stdin is attached to a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (t *Terminal) PresentPlan(p Plan) {
	fmt.Fprintf(t.out, "\nPlan: %d operation(s)\n", len(p.Operations))

	for i, op := range p.Operations {
		fmt.Fprintf(t.out, "%3d. %s\n", i+1, op.Summary())
		t.preview(op)
	}

	if len(p.Diagnostics) > 0 {
		fmt.Fprintf(t.out, "\nParser diagnostics:\n")
		for _, d := range p.Diagnostics {
			fmt.Fprintf(t.out, "  %s\n", d)
		}
	}
	if len(p.Errors) > 0 {
		fmt.Fprintf(t.out, "\nValidation errors:\n")
		for _, e := range p.Errors {
			fmt.Fprintf(t.out, "  %s\n", e.Error())
		}
	}
	if len(p.Issues) > 0 {
		fmt.Fprintf(t.out, "\nPreflight findings:\n")
		for _, issue := range p.Issues {
			fmt.Fprintf(t.out, "  %s\n", issue)
		}
	}
}

// preview prints what an operation would change. Whole-file writes get a
// real diff against the current content; ranged and snippet edits show the
// replacement text, since their final shape depends on execution order.
func (t *Terminal) preview(op plan.Operation) {
	switch o := op.(type) {
	case plan.Create:
		t.printDiff(o.Path, "", o.Content)
	case plan.Edit:
		if !o.Ranged() && o.Find == "" {
			t.printDiff(o.Path, t.currentContent(o.Path), o.Content)
			return
		}
		t.printIndented(o.Content)
	case plan.Response:
		t.printIndented(o.Text)
	}
}

func (t *Terminal) printDiff(path, before, after string) {
	if diff := diffview.Render(path, before, after); diff != "" {
		fmt.Fprint(t.out, diff)
	}
}

func (t *Terminal) printIndented(content string) {
	if content == "" {
		return
	}
	preview := utils.TruncateString(content, 400)
	for _, line := range strings.Split(preview, "\n") {
		fmt.Fprintf(t.out, "     | %s\n", line)
	}
}

func (t *Terminal) currentContent(path string) string {
	abs, err := filesystem.ResolveWithin(t.root, path)
	if err != nil {
		return ""
	}
	content, err := filesystem.ReadFileString(abs)
	if err != nil {
		return ""
	}
	return content
}

func (t *Terminal) ConfirmChoice(canApply bool) (Choice, error) {
	if t.yes {
		if canApply {
			return Apply, nil
		}
		fmt.Fprintln(t.out, "plan has blocking problems; not applying")
		return Cancel, nil
	}
	if !Interactive() {
		return Cancel, errors.New(prompts.NonInteractiveHint())
	}

	prompt := "[a]pply, [e]dit, [c]ancel? "
	if !canApply {
		prompt = "plan cannot be applied as is: [e]dit, [c]ancel? "
	}
	for {
		fmt.Fprint(t.out, prompt)
		line, err := t.in.ReadString('\n')
		if err != nil {
			return Cancel, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a", "apply":
			if canApply {
				return Apply, nil
			}
		case "e", "edit":
			return Edit, nil
		case "c", "cancel", "q", "quit":
			return Cancel, nil
		}
	}
}

func (t *Terminal) EditPlanText(raw string) (string, error) {
	return OpenInEditor(t.editor, raw, ".plan")
}
