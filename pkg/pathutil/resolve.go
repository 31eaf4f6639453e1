package pathutil

import (
	"errors"
	"strconv"
)

// Slot references the final location a path resolved to. Parent is the
// containing map or slice, so callers can overwrite the value in place. The
// slot borrows from the resolved root and is invalidated when the root is
// replaced.
type Slot struct {
	Parent any
	Key    string
	Index  int
	Value  any
}

// Assign overwrites the value the slot points at.
func (s *Slot) Assign(value any) {
	switch parent := s.Parent.(type) {
	case map[string]any:
		parent[s.Key] = value
	case []any:
		parent[s.Index] = value
	}
	s.Value = value
}

// OnMissing is invoked during resolution when an intermediate segment has no
// value. The hook may return a fresh container to attach and continue the
// walk, or nil to stop resolution. The next segment tells the hook whether an
// object or an array is expected underneath.
type OnMissing func(parent any, seg, next Segment) any

// CreateContainers is the standard creation hook: objects for key segments,
// arrays for index segments, chosen by the next segment in the path.
func CreateContainers(parent any, seg, next Segment) any {
	if next.IsIndex {
		return make([]any, 0)
	}
	return map[string]any{}
}

// CreateObjects always creates object nodes, turning index segments into
// decimal string keys. Error trees use this so container-level errors can
// coexist with per-index children.
func CreateObjects(parent any, seg, next Segment) any {
	return map[string]any{}
}

// Resolve walks root following path and returns the slot at the final
// segment, or nil when the path cannot be resolved. onMissing controls
// creation of absent intermediates: nil means read-only (reads never create
// containers). Index segments applied to maps address the decimal string key
// so error trees and data records share one traversal.
func Resolve(root any, path Path, onMissing OnMissing) (*Slot, error) {
	if len(path) == 0 {
		return nil, &MalformedPathError{Reason: "path is empty"}
	}

	cur := root
	// writeBack reattaches the current container into its parent after a
	// slice is grown and therefore reallocated.
	writeBack := func(v any) error {
		return errors.New("pathutil: cannot replace the root container")
	}

	for i, seg := range path {
		last := i == len(path)-1
		switch container := cur.(type) {
		case map[string]any:
			key := seg.Key
			if seg.IsIndex {
				key = strconv.Itoa(seg.Index)
			}
			value, ok := container[key]
			if last {
				return &Slot{Parent: container, Key: key, Index: -1, Value: value}, nil
			}
			if !ok || value == nil {
				if onMissing == nil {
					return nil, nil
				}
				created := onMissing(container, seg, path[i+1])
				if created == nil {
					return nil, nil
				}
				container[key] = created
				value = created
			}
			parent, parentKey := container, key
			writeBack = func(v any) error {
				parent[parentKey] = v
				return nil
			}
			cur = value

		case []any:
			if !seg.IsIndex {
				return nil, nil
			}
			if seg.Index >= len(container) {
				if onMissing == nil {
					return nil, nil
				}
				grown := container
				for len(grown) <= seg.Index {
					grown = append(grown, nil)
				}
				if err := writeBack(grown); err != nil {
					return nil, err
				}
				container = grown
			}
			value := container[seg.Index]
			if last {
				return &Slot{Parent: container, Index: seg.Index, Value: value}, nil
			}
			if value == nil {
				if onMissing == nil {
					return nil, nil
				}
				created := onMissing(container, seg, path[i+1])
				if created == nil {
					return nil, nil
				}
				container[seg.Index] = created
				value = created
			}
			parent, parentIndex := container, seg.Index
			writeBack = func(v any) error {
				parent[parentIndex] = v
				return nil
			}
			cur = value

		default:
			// A scalar in the middle of the path: unresolvable. Resolution
			// never overwrites existing values while locating a slot.
			return nil, nil
		}
	}
	return nil, nil
}

// Get reads the value at path without creating intermediate containers.
func Get(root any, path Path) (any, bool) {
	slot, err := Resolve(root, path, nil)
	if err != nil || slot == nil {
		return nil, false
	}
	if m, ok := slot.Parent.(map[string]any); ok {
		if _, exists := m[slot.Key]; !exists {
			return nil, false
		}
	}
	return slot.Value, true
}

// GetString is Get for string paths, propagating parse failures.
func GetString(root any, path string) (any, bool, error) {
	parsed, err := Parse(path)
	if err != nil {
		return nil, false, err
	}
	value, ok := Get(root, parsed)
	return value, ok, nil
}

// Set writes value at path, creating intermediate objects and arrays on
// demand.
func Set(root any, path Path, value any) error {
	slot, err := Resolve(root, path, CreateContainers)
	if err != nil {
		return err
	}
	if slot == nil {
		return errors.New("pathutil: path is not resolvable against the root")
	}
	slot.Assign(value)
	return nil
}

// SetString is Set for string paths, propagating parse failures.
func SetString(root any, path string, value any) error {
	parsed, err := Parse(path)
	if err != nil {
		return err
	}
	return Set(root, parsed, value)
}
