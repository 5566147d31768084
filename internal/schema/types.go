package schema

import (
	"fmt"
	"strings"
)

// FieldType is the value type a field accepts
type FieldType int

const (
	Integer FieldType = iota + 1
	Float
	Boolean
	Text
	Date
	Binary
)

var fieldTypeNames = map[FieldType]string{
	Integer: "integer",
	Float:   "float",
	Boolean: "boolean",
	Text:    "text",
	Date:    "date",
	Binary:  "binary",
}

// FieldTypes lists every field type in declaration order
func FieldTypes() []FieldType {
	return []FieldType{Integer, Float, Boolean, Text, Date, Binary}
}

// Valid reports whether t is one of the declared field types
func (t FieldType) Valid() bool {
	_, ok := fieldTypeNames[t]
	return ok
}

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// MarshalText encodes the type by name for design snapshots
func (t FieldType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid field type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name written by MarshalText
func (t *FieldType) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for ft, n := range fieldTypeNames {
		if n == name {
			*t = ft
			return nil
		}
	}
	return fmt.Errorf("unknown field type %q", string(text))
}

// FieldDesign describes the constraints on one table column
type FieldDesign struct {
	Name     string
	Type     FieldType
	Required bool
	MaxBytes *int     // nil means unbounded
	Pattern  string   // empty means no pattern
	Values   []string // allowed values of an enum or set column
	Min      *int64   // lowest accepted integer; nil means no lower bound
	Max      *int64   // highest accepted integer; nil means no upper bound
}

// TableDesign is an ordered set of field designs under one table name
type TableDesign struct {
	Name   string
	Fields []FieldDesign
}

// DatabaseDesign holds every table design of a schema
type DatabaseDesign struct {
	Title  string
	Tables []TableDesign

	byName map[string]int
}

// Bytes returns a pointer to n, for building MaxBytes literals
func Bytes(n int) *int {
	return &n
}

// Int64 returns a pointer to n, for building Min and Max literals
func Int64(n int64) *int64 {
	return &n
}
