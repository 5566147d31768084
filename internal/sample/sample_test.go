package sample

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/tordrt/sqlshape/internal/extract"
	"github.com/tordrt/sqlshape/internal/schema"
)

func shopEngine(t *testing.T) *extract.Engine {
	t.Helper()

	d := schema.NewDatabaseDesign("Shop")
	tables := []schema.TableDesign{
		{
			Name: "users",
			Fields: []schema.FieldDesign{
				{Name: "id", Type: schema.Integer, Required: true, MaxBytes: schema.Bytes(4)},
				{Name: "email", Type: schema.Text, Required: true, MaxBytes: schema.Bytes(30)},
				{Name: "name", Type: schema.Text, MaxBytes: schema.Bytes(8)},
				{Name: "role", Type: schema.Text, Required: true, Values: []string{"admin", "member"}},
				{Name: "code", Type: schema.Text, Required: true, Pattern: `[A-Z]{3}-[0-9]{4}`},
				{Name: "active", Type: schema.Boolean, Required: true},
				{Name: "score", Type: schema.Float, Required: true, MaxBytes: schema.Bytes(4)},
				{Name: "born", Type: schema.Date, Required: true, MaxBytes: schema.Bytes(10)},
				{Name: "joined", Type: schema.Date, Required: true},
				{Name: "avatar", Type: schema.Binary, MaxBytes: schema.Bytes(8)},
				{Name: "bio", Type: schema.Text},
				{Name: "level", Type: schema.Integer, Required: true, Min: schema.Int64(1), Max: schema.Int64(5)},
				{Name: "offset", Type: schema.Integer, Required: true, Min: schema.Int64(-10), Max: schema.Int64(-1)},
			},
		},
		{
			Name:   "impossible",
			Fields: []schema.FieldDesign{{Name: "n", Type: schema.Integer, Required: true, MaxBytes: schema.Bytes(0)}},
		},
	}
	for _, tbl := range tables {
		if err := d.AddTable(tbl); err != nil {
			t.Fatalf("AddTable() error = %v", err)
		}
	}

	e, err := extract.New(d, extract.Options{Mode: extract.ModeAggregate})
	if err != nil {
		t.Fatalf("extract.New() error = %v", err)
	}
	return e
}

func TestRowsPassExtraction(t *testing.T) {
	e := shopEngine(t)
	g := New(e, 42)

	rows, err := g.Rows("users", 50)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 50 {
		t.Fatalf("len(rows) = %d, want 50", len(rows))
	}

	for i, row := range rows {
		// round trip through encoding/json like a real request body
		data, err := json.Marshal(row)
		if err != nil {
			t.Fatalf("row %d: Marshal() error = %v", i, err)
		}
		obj, err := extract.Parse(data)
		if err != nil {
			t.Fatalf("row %d: Parse() error = %v", i, err)
		}
		if _, err := e.ExtractTable("users", obj); err != nil {
			t.Errorf("row %d rejected: %v (%s)", i, err, data)
		}
	}
}

func TestRowsDeterministic(t *testing.T) {
	e := shopEngine(t)

	a, err := New(e, 7).Rows("users", 5)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	b, err := New(e, 7).Rows("users", 5)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("equal seeds produced different rows")
	}
}

func TestRowErrors(t *testing.T) {
	e := shopEngine(t)
	g := New(e, 1)

	if _, err := g.Row("ghosts"); !errors.Is(err, extract.ErrUnknownTable) {
		t.Errorf("unknown table error = %v", err)
	}

	_, err := g.Row("impossible")
	if !errors.Is(err, extract.ErrSizeExceeded) {
		t.Errorf("unsatisfiable table error = %v, want ErrSizeExceeded", err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		bound *int
		want  string
	}{
		{"no bound", "hello", nil, "hello"},
		{"fits", "hello", schema.Bytes(5), "hello"},
		{"cut", "hello", schema.Bytes(3), "hel"},
		{"rune boundary", "héllo", schema.Bytes(2), "h"},
		{"zero", "hello", schema.Bytes(0), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.bound); got != tt.want {
				t.Errorf("truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaxDigits(t *testing.T) {
	tests := []struct {
		bound *int
		want  int
	}{
		{nil, 999999},
		{schema.Bytes(2), 99},
		{schema.Bytes(20), 999999},
		{schema.Bytes(0), 0},
	}

	for _, tt := range tests {
		if got := maxDigits(tt.bound, 6); got != tt.want {
			t.Errorf("maxDigits(%v) = %d, want %d", tt.bound, got, tt.want)
		}
	}
}
