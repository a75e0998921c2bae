package plan

import (
	"encoding/json"
	"fmt"
)

// Operations is an ordered operation list that round-trips through JSON
// with a kind discriminator, so history entries can persist the closed
// variant type.
type Operations []Operation

type operationJSON struct {
	Kind      Kind    `json:"kind"`
	Path      string  `json:"path,omitempty"`
	Content   *string `json:"content,omitempty"`
	StartLine int     `json:"start_line,omitempty"`
	EndLine   int     `json:"end_line,omitempty"`
	Find      string  `json:"find,omitempty"`
	OldPath   string  `json:"old_path,omitempty"`
	NewPath   string  `json:"new_path,omitempty"`
	Comment   string  `json:"comment,omitempty"`
	Text      string  `json:"text,omitempty"`
}

func (ops Operations) MarshalJSON() ([]byte, error) {
	encoded := make([]operationJSON, 0, len(ops))
	for _, op := range ops {
		encoded = append(encoded, encodeOperation(op))
	}
	return json.Marshal(encoded)
}

func (ops *Operations) UnmarshalJSON(data []byte) error {
	var raw []operationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := make(Operations, 0, len(raw))
	for i, r := range raw {
		op, err := r.decode()
		if err != nil {
			return fmt.Errorf("operation %d: %w", i+1, err)
		}
		decoded = append(decoded, op)
	}
	*ops = decoded
	return nil
}

func encodeOperation(op Operation) operationJSON {
	switch o := op.(type) {
	case Create:
		content := o.Content
		return operationJSON{Kind: KindCreate, Path: o.Path, Content: &content, Comment: o.Comment}
	case Edit:
		content := o.Content
		return operationJSON{
			Kind:      KindEdit,
			Path:      o.Path,
			Content:   &content,
			StartLine: o.StartLine,
			EndLine:   o.EndLine,
			Find:      o.Find,
			Comment:   o.Comment,
		}
	case Rename:
		return operationJSON{Kind: KindRename, OldPath: o.OldPath, NewPath: o.NewPath, Comment: o.Comment}
	case Delete:
		return operationJSON{Kind: KindDelete, Path: o.Path, Comment: o.Comment}
	case Response:
		return operationJSON{Kind: KindResponse, Text: o.Text}
	default:
		// The variant set is closed; reaching this means a new kind was
		// added without extending the codec.
		panic(fmt.Sprintf("plan: cannot encode operation kind %q", op.Kind()))
	}
}

func (r operationJSON) decode() (Operation, error) {
	content := ""
	if r.Content != nil {
		content = *r.Content
	}
	switch r.Kind {
	case KindCreate:
		return Create{Path: r.Path, Content: content, Comment: r.Comment}, nil
	case KindEdit:
		return Edit{
			Path:      r.Path,
			Content:   content,
			StartLine: r.StartLine,
			EndLine:   r.EndLine,
			Find:      r.Find,
			Comment:   r.Comment,
		}, nil
	case KindRename:
		return Rename{OldPath: r.OldPath, NewPath: r.NewPath, Comment: r.Comment}, nil
	case KindDelete:
		return Delete{Path: r.Path, Comment: r.Comment}, nil
	case KindResponse:
		return Response{Text: r.Text}, nil
	default:
		return nil, fmt.Errorf("unknown operation kind %q", r.Kind)
	}
}
