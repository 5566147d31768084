package extract

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/tordrt/sqlshape/internal/schema"
)

// Value is a field value coerced to its native Go type
type Value struct {
	absent bool
	typ    schema.FieldType
	i      int64
	f      float64
	b      bool
	s      string
	t      time.Time
	raw    []byte
}

// AbsentValue marks an optional field that was missing or null
func AbsentValue(t schema.FieldType) Value {
	return Value{absent: true, typ: t}
}

// IsAbsent reports whether an optional field was missing or null
func (v Value) IsAbsent() bool { return v.absent }

// Type returns the field type the value was extracted as
func (v Value) Type() schema.FieldType { return v.typ }

func (v Value) Int64() (int64, bool) {
	return v.i, !v.absent && v.typ == schema.Integer
}

func (v Value) Float64() (float64, bool) {
	return v.f, !v.absent && v.typ == schema.Float
}

func (v Value) Bool() (bool, bool) {
	return v.b, !v.absent && v.typ == schema.Boolean
}

func (v Value) Text() (string, bool) {
	return v.s, !v.absent && v.typ == schema.Text
}

func (v Value) Time() (time.Time, bool) {
	return v.t, !v.absent && v.typ == schema.Date
}

func (v Value) Bytes() ([]byte, bool) {
	return v.raw, !v.absent && v.typ == schema.Binary
}

// Interface returns the native value, or nil when absent
func (v Value) Interface() any {
	if v.absent {
		return nil
	}
	switch v.typ {
	case schema.Integer:
		return v.i
	case schema.Float:
		return v.f
	case schema.Boolean:
		return v.b
	case schema.Text:
		return v.s
	case schema.Date:
		return v.t
	case schema.Binary:
		return v.raw
	default:
		return nil
	}
}

// MarshalJSON writes absent values as null, dates as RFC 3339 and bytes as base64
func (v Value) MarshalJSON() ([]byte, error) {
	if v.absent {
		return []byte("null"), nil
	}
	if v.typ == schema.Date {
		return json.Marshal(v.t.Format(time.RFC3339Nano))
	}
	return json.Marshal(v.Interface())
}

// Entry is one extracted field of a record
type Entry struct {
	Name  string
	Value Value
}

// Record is the extracted form of one table row, in field order
type Record struct {
	Table   string
	Entries []Entry
}

// Get returns the named entry's value
func (r Record) Get(name string) (Value, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Map returns the present values keyed by field name
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Entries))
	for _, e := range r.Entries {
		if !e.Value.IsAbsent() {
			m[e.Name] = e.Value.Interface()
		}
	}
	return m
}

// MarshalJSON writes the record as an object with members in field order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
