package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Format selects the encoding of a design snapshot
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFromPath picks the snapshot format from a file extension; JSON is the default
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type designFile struct {
	Title  string      `json:"title" yaml:"title"`
	Tables []tableFile `json:"tables" yaml:"tables"`
}

type tableFile struct {
	Name   string      `json:"name" yaml:"name"`
	Fields []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Required bool      `json:"required" yaml:"required"`
	MaxBytes *int      `json:"max_bytes,omitempty" yaml:"max_bytes,omitempty"`
	Pattern  string    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Values   []string  `json:"values,omitempty" yaml:"values,omitempty"`
	Min      *int64    `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *int64    `json:"max,omitempty" yaml:"max,omitempty"`
}

func toFile(d *DatabaseDesign) designFile {
	f := designFile{Title: d.Title, Tables: make([]tableFile, 0, len(d.Tables))}
	for _, t := range d.Tables {
		tf := tableFile{Name: t.Name, Fields: make([]fieldFile, 0, len(t.Fields))}
		for _, fd := range t.Fields {
			tf.Fields = append(tf.Fields, fieldFile(fd))
		}
		f.Tables = append(f.Tables, tf)
	}
	return f
}

func fromFile(f designFile) (*DatabaseDesign, error) {
	d := NewDatabaseDesign(f.Title)
	for _, tf := range f.Tables {
		t := TableDesign{Name: tf.Name}
		if len(tf.Fields) > 0 {
			t.Fields = make([]FieldDesign, 0, len(tf.Fields))
		}
		for _, ff := range tf.Fields {
			t.Fields = append(t.Fields, FieldDesign(ff))
		}
		if err := d.AddTable(t); err != nil {
			return nil, err
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Encode writes the design snapshot to w
func Encode(w io.Writer, d *DatabaseDesign, format Format) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("failed to encode design: %w", err)
	}
	f := toFile(d)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("failed to encode design: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("failed to encode design: %w", err)
		}
		return nil
	}
}

// Decode reads a design snapshot and checks its invariants
func Decode(r io.Reader, format Format) (*DatabaseDesign, error) {
	var f designFile
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode design: %w", err)
		}
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode design: %w", err)
		}
	}
	d, err := fromFile(f)
	if err != nil {
		return nil, fmt.Errorf("invalid design: %w", err)
	}
	return d, nil
}

// Save writes the snapshot to path, choosing the format from the extension
func Save(path string, d *DatabaseDesign) error {
	var buf bytes.Buffer
	if err := Encode(&buf, d, FormatFromPath(path)); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write design file: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save
func Load(path string) (*DatabaseDesign, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open design file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file, FormatFromPath(path))
}
