package forms

import (
	"github.com/goliatone/go-formstate/pkg/pathutil"
)

// ErrorsKey is the reserved key holding the messages attached to a node
// itself, distinct from errors on its children. A container can carry both.
const ErrorsKey = "_errors"

// ErrorTree mirrors the data shape: each node is a map that may hold an
// ErrorsKey entry ([]string) plus child nodes. Array indices become decimal
// string keys so container-level errors and per-entry errors coexist. The
// tree is sparse: a node with no errors of its own has no ErrorsKey entry.
type ErrorTree map[string]any

// MapIssues groups a flat issue list into a nested error tree. Issues with an
// empty path attach to the root node; same-path issues append in the order
// received.
func MapIssues(issues []Issue) (ErrorTree, error) {
	tree := ErrorTree{}
	for _, issue := range issues {
		if err := tree.add(issue.Path, []string{issue.Message}, false); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// At returns the messages attached to the node addressed by path, or nil.
// An empty path reads the root node's own messages.
func (t ErrorTree) At(path string) ([]string, error) {
	if t == nil {
		return nil, nil
	}
	node := map[string]any(t)
	if path != "" {
		parsed, err := pathutil.Parse(path)
		if err != nil {
			return nil, err
		}
		value, ok := pathutil.Get(node, parsed)
		if !ok {
			return nil, nil
		}
		node, ok = value.(map[string]any)
		if !ok {
			return nil, nil
		}
	}
	messages, _ := node[ErrorsKey].([]string)
	return messages, nil
}

// add attaches messages at path, creating intermediate object nodes on
// demand. overwrite replaces any existing messages instead of appending.
func (t ErrorTree) add(path string, messages []string, overwrite bool) error {
	node := map[string]any(t)
	if path != "" {
		parsed, err := pathutil.Parse(path)
		if err != nil {
			return err
		}
		slot, err := pathutil.Resolve(node, parsed, pathutil.CreateObjects)
		if err != nil {
			return err
		}
		if slot == nil {
			return &pathutil.MalformedPathError{Path: path, Reason: "path crosses a non-container error node"}
		}
		child, ok := slot.Value.(map[string]any)
		if !ok {
			child = map[string]any{}
			slot.Assign(child)
		}
		node = child
	}

	if overwrite {
		node[ErrorsKey] = append([]string(nil), messages...)
		return nil
	}
	existing, _ := node[ErrorsKey].([]string)
	node[ErrorsKey] = append(existing, messages...)
	return nil
}
