package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind classifies why a field value was rejected
type ErrorKind int

const (
	MissingField ErrorKind = iota + 1
	TypeMismatch
	SizeExceeded
	PatternMismatch
	ValueNotAllowed
	OutOfRange
)

// Sentinels for errors.Is against a *FieldError or *TableError
var (
	ErrMissingField    = errors.New("missing field")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrSizeExceeded    = errors.New("size exceeded")
	ErrPatternMismatch = errors.New("pattern mismatch")
	ErrValueNotAllowed = errors.New("value not allowed")
	ErrOutOfRange      = errors.New("out of range")
)

var errorKindCodes = map[ErrorKind]string{
	MissingField:    "missing_field",
	TypeMismatch:    "type_mismatch",
	SizeExceeded:    "size_exceeded",
	PatternMismatch: "pattern_mismatch",
	ValueNotAllowed: "value_not_allowed",
	OutOfRange:      "out_of_range",
}

func (k ErrorKind) sentinel() error {
	switch k {
	case MissingField:
		return ErrMissingField
	case TypeMismatch:
		return ErrTypeMismatch
	case SizeExceeded:
		return ErrSizeExceeded
	case PatternMismatch:
		return ErrPatternMismatch
	case ValueNotAllowed:
		return ErrValueNotAllowed
	case OutOfRange:
		return ErrOutOfRange
	default:
		return nil
	}
}

// String returns the snake_case code used in JSON output
func (k ErrorKind) String() string {
	if code, ok := errorKindCodes[k]; ok {
		return code
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// FieldError reports one rejected field. Only the members relevant to
// Kind are set.
type FieldError struct {
	Kind  ErrorKind
	Field string

	// TypeMismatch
	Expected string
	Actual   string

	// SizeExceeded
	Bound int
	Size  int

	// PatternMismatch
	Pattern string

	// ValueNotAllowed
	Values []string

	// OutOfRange; nil means that side is open
	Min *int64
	Max *int64
}

func (e *FieldError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("field %s: missing required value", e.Field)
	case TypeMismatch:
		return fmt.Sprintf("field %s: expected %s, got %s", e.Field, e.Expected, e.Actual)
	case SizeExceeded:
		return fmt.Sprintf("field %s: size %d bytes exceeds bound of %d", e.Field, e.Size, e.Bound)
	case PatternMismatch:
		return fmt.Sprintf("field %s: value does not match pattern %s", e.Field, e.Pattern)
	case ValueNotAllowed:
		return fmt.Sprintf("field %s: value not in [%s]", e.Field, strings.Join(e.Values, ", "))
	case OutOfRange:
		return fmt.Sprintf("field %s: value outside %s", e.Field, rangeString(e.Min, e.Max))
	default:
		return fmt.Sprintf("field %s: rejected", e.Field)
	}
}

// Is matches the sentinel of the error's kind
func (e *FieldError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

type fieldErrorJSON struct {
	Kind     string   `json:"kind"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
	Bound    *int     `json:"bound,omitempty"`
	Size     *int     `json:"size,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`
	Values   []string `json:"values,omitempty"`
	Min      *int64   `json:"min,omitempty"`
	Max      *int64   `json:"max,omitempty"`
}

// MarshalJSON writes the error for API responses
func (e *FieldError) MarshalJSON() ([]byte, error) {
	out := fieldErrorJSON{
		Kind:     e.Kind.String(),
		Field:    e.Field,
		Message:  e.Error(),
		Expected: e.Expected,
		Actual:   e.Actual,
		Pattern:  e.Pattern,
		Values:   e.Values,
		Min:      e.Min,
		Max:      e.Max,
	}
	if e.Kind == SizeExceeded {
		bound, size := e.Bound, e.Size
		out.Bound, out.Size = &bound, &size
	}
	return json.Marshal(out)
}

func rangeString(lo, hi *int64) string {
	bound := func(p *int64, open string) string {
		if p == nil {
			return open
		}
		return strconv.FormatInt(*p, 10)
	}
	return "[" + bound(lo, "-inf") + ", " + bound(hi, "+inf") + "]"
}

// TableError collects the field errors of one rejected record
type TableError struct {
	Table  string
	Errors []*FieldError
}

func (e *TableError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("table %s: %v", e.Table, e.Errors[0])
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("table %s: %d fields rejected: %s", e.Table, len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the field errors to errors.Is and errors.As
func (e *TableError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		errs[i] = fe
	}
	return errs
}

// MarshalJSON writes the error for API responses
func (e *TableError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Table  string        `json:"table"`
		Errors []*FieldError `json:"errors"`
	}{e.Table, e.Errors})
}
