package sqltype

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tordrt/sqlshape/internal/schema"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		typ    string
		params []string
		want   Info
	}{
		{name: "int", typ: "int", want: Info{Type: schema.Integer, Min: schema.Int64(math.MinInt32), Max: schema.Int64(math.MaxInt32), Bits: 32}},
		{name: "int width", typ: "INT", params: []string{"11"}, want: Info{Type: schema.Integer, MaxBytes: schema.Bytes(11), Min: schema.Int64(math.MinInt32), Max: schema.Int64(math.MaxInt32), Bits: 32}},
		{name: "tinyint", typ: "tinyint", want: Info{Type: schema.Integer, Min: schema.Int64(math.MinInt8), Max: schema.Int64(math.MaxInt8), Bits: 8}},
		{name: "bigint", typ: "BIGINT", want: Info{Type: schema.Integer, Bits: 64}},
		{name: "serial", typ: "bigserial", want: Info{Type: schema.Integer, Generated: true, Bits: 64}},
		{name: "double precision", typ: "double  precision", want: Info{Type: schema.Float}},
		{name: "decimal", typ: "DECIMAL", params: []string{"10", "2"}, want: Info{Type: schema.Float, MaxBytes: schema.Bytes(12)}},
		{name: "decimal no scale", typ: "numeric", params: []string{"5"}, want: Info{Type: schema.Float, MaxBytes: schema.Bytes(6)}},
		{name: "decimal zero scale", typ: "numeric", params: []string{"5", "0"}, want: Info{Type: schema.Float, MaxBytes: schema.Bytes(6)}},
		{name: "bool", typ: "BOOLEAN", want: Info{Type: schema.Boolean}},
		{name: "varchar", typ: "varchar", params: []string{"100"}, want: Info{Type: schema.Text, MaxBytes: schema.Bytes(100)}},
		{name: "varchar max", typ: "NVARCHAR", params: []string{"max"}, want: Info{Type: schema.Text}},
		{name: "character varying", typ: "character varying", params: []string{"64"}, want: Info{Type: schema.Text, MaxBytes: schema.Bytes(64)}},
		{name: "text", typ: "TEXT", want: Info{Type: schema.Text}},
		{name: "uuid", typ: "uuid", want: Info{Type: schema.Text}},
		{name: "enum", typ: "ENUM", params: []string{"a", "b"}, want: Info{Type: schema.Text, Values: []string{"a", "b"}}},
		{name: "set", typ: "set", params: []string{"r", "w"}, want: Info{Type: schema.Text, Values: []string{"r", "w"}}},
		{name: "bit varying", typ: "bit varying", params: []string{"8"}, want: Info{Type: schema.Text, MaxBytes: schema.Bytes(8)}},
		{name: "timestamp tz", typ: "timestamp with time zone", want: Info{Type: schema.Date}},
		{name: "timestamp precision", typ: "TIMESTAMP", params: []string{"6"}, want: Info{Type: schema.Date}},
		{name: "bytea", typ: "bytea", want: Info{Type: schema.Binary}},
		{name: "varbinary", typ: "VARBINARY", params: []string{"16"}, want: Info{Type: schema.Binary, MaxBytes: schema.Bytes(16)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.typ, tt.params)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	if _, err := Resolve("JSONB", nil); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Resolve(JSONB) error = %v, want ErrUnknownType", err)
	}
	if _, err := Resolve("VARCHAR", []string{"abc"}); err == nil {
		t.Error("Resolve(VARCHAR(abc)) expected error")
	}
	if _, err := Resolve("ENUM", nil); err == nil {
		t.Error("Resolve(ENUM()) expected error")
	}
	if _, err := Resolve("SET", nil); err == nil {
		t.Error("Resolve(SET()) expected error")
	}
}

func TestUnsigned(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		want Info
	}{
		{name: "tinyint", typ: "TINYINT", want: Info{Type: schema.Integer, Min: schema.Int64(0), Max: schema.Int64(math.MaxUint8), Bits: 8}},
		{name: "int", typ: "INT", want: Info{Type: schema.Integer, Min: schema.Int64(0), Max: schema.Int64(math.MaxUint32), Bits: 32}},
		{name: "bigint", typ: "BIGINT", want: Info{Type: schema.Integer, Min: schema.Int64(0), Bits: 64}},
		{name: "decimal unchanged", typ: "DECIMAL", want: Info{Type: schema.Float}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Resolve(tt.typ, nil)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := info.Unsigned(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unsigned() = %+v, want %+v", got, tt.want)
			}
		})
	}

	info, _ := Resolve("SMALLINT", nil)
	if got := info.Unranged(); got.Min != nil || got.Max != nil {
		t.Errorf("Unranged() = %+v, want no range", got)
	}
}

func TestPrefixes(t *testing.T) {
	if !IsPrefix("timestamp") || !IsPrefix("TIMESTAMP WITH") || !IsPrefix("double") || !IsPrefix("bit") {
		t.Error("IsPrefix() missed a multi-word type")
	}
	if IsPrefix("varchar") {
		t.Error("IsPrefix(varchar) = true, want false")
	}
	if !Known("Character Varying") || Known("TIMESTAMP WITH") {
		t.Error("Known() gave the wrong answer")
	}
}

func TestTypeScript(t *testing.T) {
	tests := []struct {
		field schema.FieldDesign
		want  string
	}{
		{schema.FieldDesign{Type: schema.Integer}, "number"},
		{schema.FieldDesign{Type: schema.Float}, "number"},
		{schema.FieldDesign{Type: schema.Boolean}, "boolean"},
		{schema.FieldDesign{Type: schema.Text}, "string"},
		{schema.FieldDesign{Type: schema.Date}, "string"},
		{schema.FieldDesign{Type: schema.Binary}, "string"},
		{schema.FieldDesign{Type: schema.Text, Values: []string{"a", "b"}}, `"a" | "b"`},
	}
	for _, tt := range tests {
		if got := TypeScript(tt.field); got != tt.want {
			t.Errorf("TypeScript(%v) = %q, want %q", tt.field.Type, got, tt.want)
		}
	}
}
