// Package sqltype maps SQL column type names onto field types.
//
// The same table serves the CREATE TABLE parser and the live-database
// introspection sources, so a column declared as VARCHAR(100) yields the
// same field design whichever way it was read.
package sqltype

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tordrt/sqlshape/internal/schema"
)

// ErrUnknownType is returned for a type name missing from the table
var ErrUnknownType = errors.New("unknown column type")

type boundRule int

const (
	boundNone    boundRule = iota
	boundWidth             // first param is a digit width
	boundLength            // first param is a byte length
	boundDecimal           // precision and scale
)

type entry struct {
	fieldType schema.FieldType
	bound     boundRule
	generated bool
	enum      bool
	bits      int // storage width of a fixed-size integer; 0 when unsized
}

var types = map[string]entry{}

func register(e entry, names ...string) {
	for _, n := range names {
		types[n] = e
	}
}

func init() {
	register(entry{fieldType: schema.Integer, bound: boundWidth, bits: 8}, "TINYINT")
	register(entry{fieldType: schema.Integer, bound: boundWidth, bits: 16}, "SMALLINT", "INT2")
	register(entry{fieldType: schema.Integer, bound: boundWidth, bits: 24}, "MEDIUMINT")
	register(entry{fieldType: schema.Integer, bound: boundWidth, bits: 32}, "INT", "INTEGER", "INT4")
	register(entry{fieldType: schema.Integer, bound: boundWidth, bits: 64}, "BIGINT", "INT8")
	register(entry{fieldType: schema.Integer, generated: true, bits: 16}, "SMALLSERIAL", "SERIAL2")
	register(entry{fieldType: schema.Integer, generated: true, bits: 32}, "SERIAL", "SERIAL4")
	register(entry{fieldType: schema.Integer, generated: true, bits: 64}, "BIGSERIAL", "SERIAL8")
	register(entry{fieldType: schema.Float},
		"FLOAT", "REAL", "DOUBLE", "DOUBLE PRECISION", "FLOAT4", "FLOAT8")
	register(entry{fieldType: schema.Float, bound: boundDecimal},
		"DECIMAL", "NUMERIC", "DEC", "MONEY")
	register(entry{fieldType: schema.Boolean},
		"BOOLEAN", "BOOL", "BIT")
	register(entry{fieldType: schema.Text, bound: boundLength},
		"VARCHAR", "CHAR", "CHARACTER", "CHARACTER VARYING", "NVARCHAR", "NCHAR",
		"VARCHAR2", "NVARCHAR2", "NATIONAL CHARACTER", "NATIONAL CHARACTER VARYING",
		"BIT VARYING", "VARBIT")
	register(entry{fieldType: schema.Text},
		"TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "CLOB", "CITEXT", "UUID",
		"TIME", "TIMETZ", "TIME WITH TIME ZONE", "TIME WITHOUT TIME ZONE")
	register(entry{fieldType: schema.Text, enum: true}, "ENUM", "SET")
	register(entry{fieldType: schema.Date},
		"DATE", "DATETIME", "TIMESTAMP", "TIMESTAMPTZ", "DATETIME2", "SMALLDATETIME",
		"TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITHOUT TIME ZONE")
	register(entry{fieldType: schema.Binary},
		"BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BYTEA", "IMAGE")
	register(entry{fieldType: schema.Binary, bound: boundLength},
		"BINARY", "VARBINARY")
}

// Info is the field shape resolved from a column type
type Info struct {
	Type      schema.FieldType
	MaxBytes  *int
	Generated bool
	Values    []string

	// Min and Max bound the value of a fixed-size integer type
	Min *int64
	Max *int64
	// Bits is the storage width of a fixed-size integer; 0 when unsized
	Bits int
}

// Unsigned shifts a fixed-size integer range to start at zero. A 64-bit
// unsigned column keeps only the lower bound since extraction reads int64.
func (i Info) Unsigned() Info {
	if i.Type != schema.Integer || i.Bits == 0 {
		return i
	}
	i.Min = schema.Int64(0)
	i.Max = nil
	if i.Bits < 64 {
		i.Max = schema.Int64(int64(1)<<i.Bits - 1)
	}
	return i
}

// Unranged drops the integer range, for stores such as SQLite whose integer
// columns hold any 64-bit value whatever their declared width
func (i Info) Unranged() Info {
	i.Min, i.Max = nil, nil
	return i
}

func signedRange(bits int) (lo, hi *int64) {
	if bits == 0 || bits >= 64 {
		return nil, nil
	}
	return schema.Int64(-(int64(1) << (bits - 1))), schema.Int64(int64(1)<<(bits-1) - 1)
}

// Normalize upper-cases a type name and collapses inner whitespace
func Normalize(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

// Known reports whether name, one or more words, is in the table
func Known(name string) bool {
	_, ok := types[Normalize(name)]
	return ok
}

// IsPrefix reports whether name is the leading words of a longer known type
func IsPrefix(name string) bool {
	p := Normalize(name) + " "
	for n := range types {
		if strings.HasPrefix(n, p) {
			return true
		}
	}
	return false
}

// Resolve maps a type name and its parenthesised parameters to a field shape.
// Numeric params are given as written; ENUM and SET params are the unquoted
// values.
func Resolve(name string, params []string) (Info, error) {
	norm := Normalize(name)
	e, ok := types[norm]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}

	info := Info{Type: e.fieldType, Generated: e.generated, Bits: e.bits}
	info.Min, info.Max = signedRange(e.bits)
	if e.enum {
		if len(params) == 0 {
			return Info{}, fmt.Errorf("%s requires at least one value", norm)
		}
		info.Values = append([]string(nil), params...)
		return info, nil
	}
	if len(params) == 0 {
		return info, nil
	}

	switch e.bound {
	case boundWidth, boundLength:
		if strings.EqualFold(params[0], "MAX") {
			return info, nil
		}
		n, err := parseParam(norm, params[0])
		if err != nil {
			return Info{}, err
		}
		info.MaxBytes = schema.Bytes(n)
	case boundDecimal:
		p, err := parseParam(norm, params[0])
		if err != nil {
			return Info{}, err
		}
		size := p + 1
		if len(params) > 1 {
			s, err := parseParam(norm, params[1])
			if err != nil {
				return Info{}, err
			}
			if s > 0 {
				size++
			}
		}
		info.MaxBytes = schema.Bytes(size)
	}
	return info, nil
}

func parseParam(typeName, p string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(p))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s has invalid size parameter %q", typeName, p)
	}
	return n, nil
}

// TypeScript returns the TypeScript type for a field
func TypeScript(f schema.FieldDesign) string {
	if len(f.Values) > 0 {
		lits := make([]string, len(f.Values))
		for i, v := range f.Values {
			lits[i] = strconv.Quote(v)
		}
		return strings.Join(lits, " | ")
	}
	switch f.Type {
	case schema.Integer, schema.Float:
		return "number"
	case schema.Boolean:
		return "boolean"
	case schema.Text, schema.Date, schema.Binary:
		return "string"
	default:
		return "unknown"
	}
}
