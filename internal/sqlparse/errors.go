package sqlparse

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a schema parse failure
type Kind int

const (
	UnknownType Kind = iota + 1
	DuplicateColumn
	MalformedStatement
	DuplicateTable
)

// Sentinels for errors.Is against a *ParseError
var (
	ErrUnknownType        = errors.New("unknown type")
	ErrDuplicateColumn    = errors.New("duplicate column")
	ErrMalformedStatement = errors.New("malformed statement")
	ErrDuplicateTable     = errors.New("duplicate table")
)

func (k Kind) sentinel() error {
	switch k {
	case UnknownType:
		return ErrUnknownType
	case DuplicateColumn:
		return ErrDuplicateColumn
	case MalformedStatement:
		return ErrMalformedStatement
	case DuplicateTable:
		return ErrDuplicateTable
	default:
		return nil
	}
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseError reports where and why a schema could not be parsed
type ParseError struct {
	Kind   Kind
	Table  string
	Column string
	Token  string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Kind.String())
	switch e.Kind {
	case UnknownType:
		fmt.Fprintf(&b, " %q", e.Token)
	case DuplicateColumn:
		fmt.Fprintf(&b, " %q", e.Column)
	case DuplicateTable:
		fmt.Fprintf(&b, " %q", e.Table)
	}
	if e.Table != "" && e.Kind != DuplicateTable {
		fmt.Fprintf(&b, " in table %s", e.Table)
	}
	if e.Column != "" && e.Kind != DuplicateColumn {
		fmt.Fprintf(&b, " at column %s", e.Column)
	}
	if e.Kind == MalformedStatement && e.Token != "" {
		fmt.Fprintf(&b, " near %q", e.Token)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// Is matches the sentinel of the error's kind
func (e *ParseError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}
