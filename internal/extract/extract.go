// Package extract validates untyped JSON input against a database design
// and coerces accepted values into native Go types.
//
// An Engine is built once from a design and is then safe for concurrent use.
// Each field goes through the same checks in the same order: presence,
// type, integer range, size bound, pattern, allowed values.
package extract

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tordrt/sqlshape/internal/schema"
)

// ErrUnknownTable is returned when the design has no such table
var ErrUnknownTable = errors.New("unknown table")

// ErrNotObject is returned when table input is not a JSON object
var ErrNotObject = errors.New("input is not a JSON object")

// DateLayouts are tried in order when reading a date field
var DateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Mode selects how table extraction reports failures
type Mode int

const (
	// ModeFailFast stops at the first failing field, in field order
	ModeFailFast Mode = iota
	// ModeAggregate reports every failing field
	ModeAggregate
)

func (m Mode) String() string {
	switch m {
	case ModeFailFast:
		return "fail-fast"
	case ModeAggregate:
		return "aggregate"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode reads "fail-fast" or "aggregate"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fail-fast", "failfast", "":
		return ModeFailFast, nil
	case "aggregate":
		return ModeAggregate, nil
	default:
		return 0, fmt.Errorf("unknown extraction mode %q (want fail-fast or aggregate)", s)
	}
}

// Options configures an Engine
type Options struct {
	Mode Mode
}

// Engine extracts records against a frozen copy of a design
type Engine struct {
	design   *schema.DatabaseDesign
	mode     Mode
	patterns map[string]*regexp.Regexp
}

// New validates a copy of d and compiles its patterns. Later changes to d
// do not affect the engine.
func New(d *schema.DatabaseDesign, opts Options) (*Engine, error) {
	if d == nil {
		return nil, fmt.Errorf("design is nil")
	}
	frozen := d.Clone()
	if err := frozen.Validate(); err != nil {
		return nil, fmt.Errorf("invalid design: %w", err)
	}
	if opts.Mode != ModeFailFast && opts.Mode != ModeAggregate {
		return nil, fmt.Errorf("invalid extraction mode %v", opts.Mode)
	}

	e := &Engine{design: frozen, mode: opts.Mode, patterns: make(map[string]*regexp.Regexp)}
	for _, t := range frozen.Tables {
		for _, f := range t.Fields {
			if f.Pattern == "" || e.patterns[f.Pattern] != nil {
				continue
			}
			re, err := compilePattern(f.Pattern)
			if err != nil {
				return nil, fmt.Errorf("table %s field %s: %w", t.Name, f.Name, err)
			}
			e.patterns[f.Pattern] = re
		}
	}
	return e, nil
}

// Design returns a copy of the engine's design
func (e *Engine) Design() *schema.DatabaseDesign {
	return e.design.Clone()
}

// Mode returns the configured failure mode
func (e *Engine) Mode() Mode {
	return e.mode
}

// Table returns a copy of the named table design
func (e *Engine) Table(name string) (schema.TableDesign, bool) {
	t, ok := e.design.Table(name)
	if !ok {
		return schema.TableDesign{}, false
	}
	return t.Clone(), true
}

// ExtractField reads field f from obj
func (e *Engine) ExtractField(f schema.FieldDesign, obj JSON) (Value, error) {
	re, err := e.pattern(f.Pattern)
	if err != nil {
		return Value{}, err
	}
	return extractField(&f, re, obj)
}

// ExtractTable reads every field of the named table from obj
func (e *Engine) ExtractTable(table string, obj JSON) (Record, error) {
	t, ok := e.design.Table(table)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return extractTable(t, obj, e.mode, e.pattern)
}

func (e *Engine) pattern(p string) (*regexp.Regexp, error) {
	if p == "" {
		return nil, nil
	}
	if re, ok := e.patterns[p]; ok {
		return re, nil
	}
	return cachedPattern(p)
}

// ExtractField reads field f from obj without an engine. Patterns are
// compiled once and cached process-wide.
func ExtractField(f schema.FieldDesign, obj JSON) (Value, error) {
	re, err := cachedPattern(f.Pattern)
	if err != nil {
		return Value{}, err
	}
	return extractField(&f, re, obj)
}

// ExtractTable reads every field of t from obj without an engine
func ExtractTable(t schema.TableDesign, obj JSON, mode Mode) (Record, error) {
	return extractTable(&t, obj, mode, cachedPattern)
}

var patternCache sync.Map

func cachedPattern(p string) (*regexp.Regexp, error) {
	if p == "" {
		return nil, nil
	}
	if re, ok := patternCache.Load(p); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := compilePattern(p)
	if err != nil {
		return nil, err
	}
	actual, _ := patternCache.LoadOrStore(p, re)
	return actual.(*regexp.Regexp), nil
}

// compilePattern anchors p so that it must match the whole value
func compilePattern(p string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + p + `)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
	}
	return re, nil
}

func extractTable(t *schema.TableDesign, obj JSON, mode Mode, patterns func(string) (*regexp.Regexp, error)) (Record, error) {
	if obj.Kind() != Object {
		return Record{}, fmt.Errorf("table %s: %w, got %s", t.Name, ErrNotObject, obj.Kind())
	}

	rec := Record{Table: t.Name, Entries: make([]Entry, 0, len(t.Fields))}
	var failed []*FieldError
	for i := range t.Fields {
		f := &t.Fields[i]
		re, err := patterns(f.Pattern)
		if err != nil {
			return Record{}, err
		}
		v, err := extractField(f, re, obj)
		if err != nil {
			var fe *FieldError
			if !errors.As(err, &fe) {
				return Record{}, err
			}
			failed = append(failed, fe)
			if mode == ModeFailFast {
				break
			}
			continue
		}
		rec.Entries = append(rec.Entries, Entry{Name: f.Name, Value: v})
	}
	if len(failed) > 0 {
		return Record{}, &TableError{Table: t.Name, Errors: failed}
	}
	return rec, nil
}

func extractField(f *schema.FieldDesign, re *regexp.Regexp, obj JSON) (Value, error) {
	raw, ok := obj.Get(f.Name)
	if !ok || raw.Kind() == Null {
		if f.Required {
			return Value{}, &FieldError{Kind: MissingField, Field: f.Name}
		}
		return AbsentValue(f.Type), nil
	}

	v, size, fe := coerce(f, raw)
	if fe != nil {
		return Value{}, fe
	}
	if f.Type == schema.Integer && ((f.Min != nil && v.i < *f.Min) || (f.Max != nil && v.i > *f.Max)) {
		return Value{}, &FieldError{Kind: OutOfRange, Field: f.Name, Min: copyBound(f.Min), Max: copyBound(f.Max)}
	}
	if f.MaxBytes != nil && size > *f.MaxBytes {
		return Value{}, &FieldError{Kind: SizeExceeded, Field: f.Name, Bound: *f.MaxBytes, Size: size}
	}
	if f.Type == schema.Text {
		if re != nil && !re.MatchString(v.s) {
			return Value{}, &FieldError{Kind: PatternMismatch, Field: f.Name, Pattern: f.Pattern}
		}
		if len(f.Values) > 0 && !slices.Contains(f.Values, v.s) {
			return Value{}, &FieldError{Kind: ValueNotAllowed, Field: f.Name, Values: slices.Clone(f.Values)}
		}
	}
	return v, nil
}

func copyBound(p *int64) *int64 {
	if p == nil {
		return nil
	}
	return schema.Int64(*p)
}

// coerce checks the JSON kind against the field type and converts it,
// returning the serialized size in bytes
func coerce(f *schema.FieldDesign, raw JSON) (Value, int, *FieldError) {
	mismatch := func() (Value, int, *FieldError) {
		return Value{}, 0, &FieldError{Kind: TypeMismatch, Field: f.Name, Expected: f.Type.String(), Actual: raw.Kind().String()}
	}
	v := Value{typ: f.Type}

	switch f.Type {
	case schema.Integer:
		if raw.Kind() != Number {
			return mismatch()
		}
		n, ok := parseInteger(raw.num)
		if !ok {
			return mismatch()
		}
		v.i = n
	case schema.Float:
		if raw.Kind() != Number {
			return mismatch()
		}
		n, err := strconv.ParseFloat(raw.num, 64)
		if err != nil {
			return mismatch()
		}
		v.f = n
	case schema.Boolean:
		if raw.Kind() != Bool {
			return mismatch()
		}
		v.b = raw.b
	case schema.Text:
		if raw.Kind() != String {
			return mismatch()
		}
		v.s = raw.str
	case schema.Date:
		if raw.Kind() != String {
			return mismatch()
		}
		t, ok := parseDate(raw.str)
		if !ok {
			return mismatch()
		}
		v.t = t
	case schema.Binary:
		b, ok := decodeBinary(raw)
		if !ok {
			return mismatch()
		}
		v.raw = b
		return v, len(b), nil
	default:
		return mismatch()
	}
	return v, len(raw.literal()), nil
}

// parseInteger accepts integral literals such as "42", "4.0" or "1e3" that fit an int64
func parseInteger(lit string) (int64, bool) {
	n, err := strconv.ParseInt(lit, 10, 64)
	if err == nil {
		return n, true
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	// bound the exponent before handing the literal to big.Float
	if f, err := strconv.ParseFloat(lit, 64); err != nil || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	bf, _, err := big.ParseFloat(lit, 10, 256, big.ToNearestEven)
	if err != nil || !bf.IsInt() {
		return 0, false
	}
	bi, _ := bf.Int(nil)
	if !bi.IsInt64() {
		return 0, false
	}
	return bi.Int64(), true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// decodeBinary reads a base64 string or an array of byte values
func decodeBinary(raw JSON) ([]byte, bool) {
	switch raw.Kind() {
	case String:
		b, err := base64.StdEncoding.DecodeString(raw.str)
		if err != nil {
			return nil, false
		}
		return b, true
	case Array:
		b := make([]byte, 0, len(raw.arr))
		for _, item := range raw.arr {
			if item.Kind() != Number {
				return nil, false
			}
			n, ok := parseInteger(item.num)
			if !ok || n < 0 || n > math.MaxUint8 {
				return nil, false
			}
			b = append(b, byte(n))
		}
		return b, true
	default:
		return nil, false
	}
}
