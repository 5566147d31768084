package schema

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{name: "json", file: "design.json"},
		{name: "yaml", file: "design.yaml"},
		{name: "yml", file: "nested/design.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := usersDesign(t)
			if err := d.SetPattern("users", "email", `^\S+@\S+$`); err != nil {
				t.Fatal(err)
			}
			if err := d.AddTable(TableDesign{Name: "empty"}); err != nil {
				t.Fatal(err)
			}

			path := filepath.Join(t.TempDir(), tt.file)
			if err := Save(path, d); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !reflect.DeepEqual(got, d) {
				t.Errorf("Load() = %+v, want %+v", got, d)
			}
		})
	}
}

func TestEncodeJSONShape(t *testing.T) {
	d := usersDesign(t)
	var buf bytes.Buffer
	if err := Encode(&buf, d, FormatJSON); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`"title": "Database"`,
		`"name": "users"`,
		`"type": "integer"`,
		`"max_bytes": 100`,
		`"min": 1`,
		`"max": 2147483647`,
		`"values": [`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Encode() output missing %s\n%s", want, out)
		}
	}
	if strings.Contains(out, `"pattern"`) {
		t.Error("Encode() wrote an empty pattern")
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{
			name:   "unknown type",
			input:  `{"title":"x","tables":[{"name":"t","fields":[{"name":"a","type":"jsonb","required":true}]}]}`,
			format: FormatJSON,
		},
		{
			name:   "duplicate table",
			input:  `{"title":"x","tables":[{"name":"t","fields":[]},{"name":"t","fields":[]}]}`,
			format: FormatJSON,
		},
		{
			name:   "negative bound",
			input:  `{"title":"x","tables":[{"name":"t","fields":[{"name":"a","type":"text","required":false,"max_bytes":-1}]}]}`,
			format: FormatJSON,
		},
		{
			name:   "unknown key",
			input:  `{"title":"x","tables":[],"extra":1}`,
			format: FormatJSON,
		},
		{
			name:   "yaml inverted range",
			input:  "title: x\ntables:\n  - name: t\n    fields:\n      - {name: a, type: integer, min: 3, max: 1}\n",
			format: FormatYAML,
		},
		{
			name:   "yaml duplicate field",
			input:  "title: x\ntables:\n  - name: t\n    fields:\n      - {name: a, type: text}\n      - {name: a, type: text}\n",
			format: FormatYAML,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.input), tt.format); err == nil {
				t.Error("Decode() expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"design.json", FormatJSON},
		{"design.YAML", FormatYAML},
		{"design.yml", FormatYAML},
		{"design", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
