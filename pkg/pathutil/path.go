package pathutil

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step in a Path: either an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment constructs an object-key segment.
func KeySegment(key string) Segment {
	return Segment{Key: key}
}

// IndexSegment constructs an array-index segment.
func IndexSegment(index int) Segment {
	return Segment{Index: index, IsIndex: true}
}

// String renders the segment in canonical form: bare keys for objects,
// bracketed decimals for indices.
func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Path addresses a location inside a nested record/array structure.
type Path []Segment

// MalformedPathError reports a path string that could not be parsed.
type MalformedPathError struct {
	Path   string
	Reason string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("pathutil: malformed path %q: %s", e.Path, e.Reason)
}

// Parse splits a dotted/bracketed path string into an ordered segment
// sequence. Both syntaxes normalize to the same sequence: "a.b[2].c" yields
// [a b 2 c]. Leading/trailing/duplicate dots, empty segments, unbalanced
// brackets, and non-numeric or negative indices fail with
// *MalformedPathError.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return nil, &MalformedPathError{Path: raw, Reason: "path is empty"}
	}

	var path Path
	i := 0
	expectKey := true
	for i < len(raw) {
		switch raw[i] {
		case '.':
			if expectKey || i == len(raw)-1 {
				return nil, &MalformedPathError{Path: raw, Reason: "empty segment"}
			}
			expectKey = true
			i++
		case '[':
			if expectKey && len(path) > 0 {
				return nil, &MalformedPathError{Path: raw, Reason: "index after dot"}
			}
			end := strings.IndexByte(raw[i:], ']')
			if end < 0 {
				return nil, &MalformedPathError{Path: raw, Reason: "unbalanced bracket"}
			}
			digits := raw[i+1 : i+end]
			if digits == "" {
				return nil, &MalformedPathError{Path: raw, Reason: "empty index"}
			}
			index, err := strconv.Atoi(digits)
			if err != nil || index < 0 {
				return nil, &MalformedPathError{Path: raw, Reason: fmt.Sprintf("invalid index %q", digits)}
			}
			path = append(path, IndexSegment(index))
			i += end + 1
			expectKey = false
		case ']':
			return nil, &MalformedPathError{Path: raw, Reason: "unbalanced bracket"}
		default:
			if !expectKey && len(path) > 0 {
				// A bare key may only follow a dot or an index bracket.
				return nil, &MalformedPathError{Path: raw, Reason: "missing separator"}
			}
			start := i
			for i < len(raw) && raw[i] != '.' && raw[i] != '[' && raw[i] != ']' {
				i++
			}
			path = append(path, KeySegment(raw[start:i]))
			expectKey = false
		}
	}
	if expectKey {
		return nil, &MalformedPathError{Path: raw, Reason: "empty segment"}
	}
	if len(path) == 0 {
		return nil, &MalformedPathError{Path: raw, Reason: "path is empty"}
	}
	return path, nil
}

// MustParse panics when the path cannot be parsed. Useful for tests and
// compile-time-constant paths.
func MustParse(raw string) Path {
	path, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return path
}

// String renders the canonical textual form of the path: keys joined with
// dots, indices appended as [n].
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if !seg.IsIndex && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}
