package fields

import (
	"errors"
	"fmt"
	"strings"
)

const (
	segmentSeparator = "|"
	keySeparator     = ":"
)

// Fields maps a field name to its trimmed value.
type Fields map[string]string

// ParseError reports a segment that is not of the form "name: value".
type ParseError struct {
	Index   int    // zero-based segment position
	Segment string // the offending segment, trimmed
}

func (e *ParseError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("segment %d is empty, expected 'name: value'", e.Index+1)
	}
	return fmt.Sprintf("segment %d %q has no ':' separator, expected 'name: value'", e.Index+1, e.Segment)
}

// MissingFieldError lists required fields absent from the input.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("missing required field %q", e.Fields[0])
	}
	quoted := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		quoted[i] = fmt.Sprintf("%q", f)
	}
	return "missing required fields " + strings.Join(quoted, ", ")
}

// Parse converts input into a Fields map.
func Parse(input string) (Fields, error) {
	segments := strings.Split(input, segmentSeparator)
	out := make(Fields, len(segments))
	for i, segment := range segments {
		segment = strings.TrimSpace(segment)
		name, value, ok := strings.Cut(segment, keySeparator)
		if !ok {
			return nil, &ParseError{Index: i, Segment: segment}
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return out, nil
}

// ParseTrailing splits input into a free-form head, the text before the
// first "|", and the option fields that follow it. The head is trimmed and
// may itself contain ':'.
func ParseTrailing(input string) (string, Fields, error) {
	head, rest, ok := strings.Cut(input, segmentSeparator)
	head = strings.TrimSpace(head)
	if !ok {
		return head, Fields{}, nil
	}
	opts, err := Parse(rest)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Index++
		}
		return "", nil, err
	}
	return head, opts, nil
}

// Require returns a *MissingFieldError naming every field in names that is
// not present. A field present with an empty value counts as present.
func (f Fields) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := f[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	return nil
}

// Get returns the value of name, or def when the field is absent.
func (f Fields) Get(name, def string) string {
	if v, ok := f[name]; ok {
		return v
	}
	return def
}
