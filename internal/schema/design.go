package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
)

// DefaultTitle is used when a design is created without a title
const DefaultTitle = "Database"

// ErrNotFound is returned when a table or field lookup misses
var ErrNotFound = errors.New("not found")

// NewDatabaseDesign creates an empty design
func NewDatabaseDesign(title string) *DatabaseDesign {
	if title == "" {
		title = DefaultTitle
	}
	return &DatabaseDesign{
		Title:  title,
		byName: make(map[string]int),
	}
}

// AddTable appends a table, rejecting a name that is already present
func (d *DatabaseDesign) AddTable(t TableDesign) error {
	if t.Name == "" {
		return fmt.Errorf("table name is empty")
	}
	if _, ok := d.index(t.Name); ok {
		return fmt.Errorf("duplicate table %q", t.Name)
	}
	for i := range t.Fields {
		if len(t.Fields[i].Values) == 0 {
			t.Fields[i].Values = nil
		}
	}
	if d.byName == nil {
		d.reindex()
	}
	d.Tables = append(d.Tables, t)
	d.byName[t.Name] = len(d.Tables) - 1
	return nil
}

// Table returns the named table design
func (d *DatabaseDesign) Table(name string) (*TableDesign, bool) {
	i, ok := d.index(name)
	if !ok {
		return nil, false
	}
	return &d.Tables[i], true
}

// TableNames returns table names in schema order
func (d *DatabaseDesign) TableNames() []string {
	names := make([]string, len(d.Tables))
	for i, t := range d.Tables {
		names[i] = t.Name
	}
	return names
}

// IsEmpty reports whether the design holds no tables
func (d *DatabaseDesign) IsEmpty() bool {
	return len(d.Tables) == 0
}

func (d *DatabaseDesign) index(name string) (int, bool) {
	if d.byName != nil {
		i, ok := d.byName[name]
		return i, ok
	}
	for i := range d.Tables {
		if d.Tables[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

func (d *DatabaseDesign) reindex() {
	d.byName = make(map[string]int, len(d.Tables))
	for i, t := range d.Tables {
		d.byName[t.Name] = i
	}
}

// Field returns the named field design
func (t *TableDesign) Field(name string) (*FieldDesign, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// FieldNames returns field names in column order
func (t *TableDesign) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// Validate checks the design invariants
func (d *DatabaseDesign) Validate() error {
	seen := make(map[string]bool, len(d.Tables))
	for i := range d.Tables {
		t := &d.Tables[i]
		if t.Name == "" {
			return fmt.Errorf("table %d has an empty name", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate table %q", t.Name)
		}
		seen[t.Name] = true
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks field name uniqueness and each field's constraints
func (t *TableDesign) Validate() error {
	seen := make(map[string]bool, len(t.Fields))
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("table %s: field %d has an empty name", t.Name, i)
		}
		if seen[f.Name] {
			return fmt.Errorf("table %s: duplicate field %q", t.Name, f.Name)
		}
		seen[f.Name] = true
		if err := f.Validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	return nil
}

// Validate checks a single field's constraints for consistency
func (f *FieldDesign) Validate() error {
	if !f.Type.Valid() {
		return fmt.Errorf("field %s: invalid type %d", f.Name, int(f.Type))
	}
	if f.MaxBytes != nil && *f.MaxBytes < 0 {
		return fmt.Errorf("field %s: negative size bound %d", f.Name, *f.MaxBytes)
	}
	if f.Pattern != "" {
		if _, err := regexp.Compile(f.Pattern); err != nil {
			return fmt.Errorf("field %s: invalid pattern: %w", f.Name, err)
		}
	}
	if len(f.Values) > 0 && f.Type != Text {
		return fmt.Errorf("field %s: allowed values need a text field, got %s", f.Name, f.Type)
	}
	return checkRange(f.Name, f.Type, f.Min, f.Max)
}

func checkRange(name string, t FieldType, lo, hi *int64) error {
	if lo == nil && hi == nil {
		return nil
	}
	if t != Integer {
		return fmt.Errorf("field %s: a value range needs an integer field, got %s", name, t)
	}
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("field %s: range minimum %d is above maximum %d", name, *lo, *hi)
	}
	return nil
}

// SetPattern attaches a format pattern to a text field
func (d *DatabaseDesign) SetPattern(table, field, pattern string) error {
	f, err := d.lookup(table, field)
	if err != nil {
		return err
	}
	if pattern != "" {
		if f.Type != Text {
			return fmt.Errorf("field %s.%s: patterns apply to text fields, got %s", table, field, f.Type)
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("field %s.%s: invalid pattern: %w", table, field, err)
		}
	}
	f.Pattern = pattern
	return nil
}

// SetMaxBytes replaces a field's size bound; nil removes it
func (d *DatabaseDesign) SetMaxBytes(table, field string, n *int) error {
	f, err := d.lookup(table, field)
	if err != nil {
		return err
	}
	if n != nil && *n < 0 {
		return fmt.Errorf("field %s.%s: negative size bound %d", table, field, *n)
	}
	if n != nil {
		n = Bytes(*n)
	}
	f.MaxBytes = n
	return nil
}

// SetRequired overrides a field's required flag
func (d *DatabaseDesign) SetRequired(table, field string, required bool) error {
	f, err := d.lookup(table, field)
	if err != nil {
		return err
	}
	f.Required = required
	return nil
}

// SetValues restricts a text field to the given values; empty clears it
func (d *DatabaseDesign) SetValues(table, field string, values []string) error {
	f, err := d.lookup(table, field)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		f.Values = nil
		return nil
	}
	if f.Type != Text {
		return fmt.Errorf("field %s.%s: allowed values need a text field, got %s", table, field, f.Type)
	}
	f.Values = append([]string(nil), values...)
	return nil
}

// SetRange replaces an integer field's accepted range; nil leaves that side open
func (d *DatabaseDesign) SetRange(table, field string, lo, hi *int64) error {
	f, err := d.lookup(table, field)
	if err != nil {
		return err
	}
	if err := checkRange(table+"."+field, f.Type, lo, hi); err != nil {
		return err
	}
	f.Min, f.Max = nil, nil
	if lo != nil {
		f.Min = Int64(*lo)
	}
	if hi != nil {
		f.Max = Int64(*hi)
	}
	return nil
}

func (d *DatabaseDesign) lookup(table, field string) (*FieldDesign, error) {
	t, ok := d.Table(table)
	if !ok {
		return nil, fmt.Errorf("table %q: %w", table, ErrNotFound)
	}
	f, ok := t.Field(field)
	if !ok {
		return nil, fmt.Errorf("field %s.%s: %w", table, field, ErrNotFound)
	}
	return f, nil
}

// Clone returns a deep copy that shares no memory with d
func (d *DatabaseDesign) Clone() *DatabaseDesign {
	c := &DatabaseDesign{
		Title:  d.Title,
		Tables: make([]TableDesign, len(d.Tables)),
	}
	for i, t := range d.Tables {
		c.Tables[i] = t.Clone()
	}
	c.reindex()
	return c
}

// Clone returns a deep copy of the table
func (t TableDesign) Clone() TableDesign {
	c := TableDesign{Name: t.Name}
	if t.Fields != nil {
		c.Fields = make([]FieldDesign, len(t.Fields))
		for i, f := range t.Fields {
			c.Fields[i] = f.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of the field
func (f FieldDesign) Clone() FieldDesign {
	c := f
	if f.MaxBytes != nil {
		c.MaxBytes = Bytes(*f.MaxBytes)
	}
	if f.Values != nil {
		c.Values = append([]string(nil), f.Values...)
	}
	if f.Min != nil {
		c.Min = Int64(*f.Min)
	}
	if f.Max != nil {
		c.Max = Int64(*f.Max)
	}
	return c
}

// Equal reports whether two designs describe the same tables
func (d *DatabaseDesign) Equal(o *DatabaseDesign) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Title != o.Title || len(d.Tables) != len(o.Tables) {
		return false
	}
	for i := range d.Tables {
		if !reflect.DeepEqual(d.Tables[i], o.Tables[i]) {
			return false
		}
	}
	return true
}
