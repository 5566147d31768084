// Package sample generates JSON input rows that a table design accepts.
// Rows are useful as request fixtures for front-end work and as seed data.
package sample

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/tordrt/sqlshape/internal/extract"
	"github.com/tordrt/sqlshape/internal/schema"
)

// DefaultAttempts is how often a row is regenerated before giving up
const DefaultAttempts = 20

var (
	dateStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	dateEnd   = time.Date(2030, 12, 31, 23, 59, 59, 0, time.UTC)
)

// Generator produces rows for the tables of an engine's design. A Generator
// is not safe for concurrent use.
type Generator struct {
	faker    *gofakeit.Faker
	engine   *extract.Engine
	attempts int
}

// New creates a generator. Equal seeds give equal rows for the same design.
func New(engine *extract.Engine, seed int64) *Generator {
	return &Generator{
		faker:    gofakeit.New(seed),
		engine:   engine,
		attempts: DefaultAttempts,
	}
}

// Row returns one row for table that passes extraction
func (g *Generator) Row(table string) (map[string]any, error) {
	t, ok := g.engine.Table(table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", extract.ErrUnknownTable, table)
	}

	var lastErr error
	for i := 0; i < g.attempts; i++ {
		row := g.row(t)
		obj, err := extract.FromAny(row)
		if err != nil {
			return nil, err
		}
		if _, err := g.engine.ExtractTable(table, obj); err != nil {
			lastErr = err
			continue
		}
		return row, nil
	}
	return nil, fmt.Errorf("failed to generate a valid row for %s after %d attempts: %w", table, g.attempts, lastErr)
}

// Rows returns n rows for table
func (g *Generator) Rows(table string, n int) ([]map[string]any, error) {
	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		row, err := g.Row(table)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *Generator) row(t schema.TableDesign) map[string]any {
	row := make(map[string]any, len(t.Fields))
	for i := range t.Fields {
		f := &t.Fields[i]
		// leave out about a quarter of the optional fields
		if !f.Required && g.faker.Number(0, 3) == 0 {
			continue
		}
		row[f.Name] = g.value(f)
	}
	return row
}

func (g *Generator) value(f *schema.FieldDesign) any {
	switch f.Type {
	case schema.Integer:
		return g.integer(f)
	case schema.Float:
		return g.float(f.MaxBytes)
	case schema.Boolean:
		return g.faker.Bool()
	case schema.Date:
		return g.date(f.MaxBytes)
	case schema.Binary:
		n := 16
		if f.MaxBytes != nil && *f.MaxBytes < n {
			n = *f.MaxBytes
		}
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(g.faker.Number(0, 255))
		}
		return base64.StdEncoding.EncodeToString(b)
	default:
		return g.text(f)
	}
}

// integer picks a value inside both the digit budget and the declared range
func (g *Generator) integer(f *schema.FieldDesign) json.Number {
	lo, hi := int64(0), int64(maxDigits(f.MaxBytes, 6))
	if f.Min != nil && *f.Min > lo {
		lo = *f.Min
	}
	if f.Max != nil && *f.Max < hi {
		hi = *f.Max
	}
	if lo > hi {
		// the range lies wholly outside the digit budget; stay inside the range
		if f.Max != nil && *f.Max < 0 {
			lo = *f.Max
		}
		hi = lo
	}
	return json.Number(strconv.FormatInt(lo+int64(g.faker.Number(0, int(hi-lo))), 10))
}

// maxDigits is the largest number whose literal fits in bound bytes, capped
func maxDigits(bound *int, capDigits int) int {
	digits := capDigits
	if bound != nil && *bound < digits {
		digits = *bound
	}
	if digits <= 0 {
		return 0
	}
	return int(math.Pow10(digits)) - 1
}

func (g *Generator) float(bound *int) json.Number {
	whole := g.faker.Number(0, 9999)
	cents := g.faker.Number(0, 99)
	lit := fmt.Sprintf("%d.%02d", whole, cents)
	if bound == nil || len(lit) <= *bound {
		return json.Number(lit)
	}
	return json.Number(strconv.Itoa(g.faker.Number(0, maxDigits(bound, 6))))
}

func (g *Generator) date(bound *int) string {
	d := g.faker.DateRange(dateStart, dateEnd).UTC()
	if bound != nil && *bound < len(time.RFC3339) {
		return d.Format("2006-01-02")
	}
	return d.Format(time.RFC3339)
}

func (g *Generator) text(f *schema.FieldDesign) string {
	if len(f.Values) > 0 {
		return g.faker.RandomString(f.Values)
	}
	if f.Pattern != "" {
		return g.faker.Regex(f.Pattern)
	}

	var s string
	name := strings.ToLower(f.Name)
	switch {
	case strings.Contains(name, "email"):
		s = g.faker.Email()
	case strings.Contains(name, "phone"):
		s = g.faker.Phone()
	case strings.Contains(name, "url"), strings.Contains(name, "website"):
		s = g.faker.URL()
	case strings.Contains(name, "uuid"):
		s = g.faker.UUID()
	case strings.Contains(name, "city"):
		s = g.faker.City()
	case strings.Contains(name, "country"):
		s = g.faker.Country()
	case strings.Contains(name, "address"), strings.Contains(name, "street"):
		s = g.faker.Street()
	case strings.Contains(name, "zip"), strings.Contains(name, "postal"):
		s = g.faker.Zip()
	case strings.Contains(name, "first"):
		s = g.faker.FirstName()
	case strings.Contains(name, "last"):
		s = g.faker.LastName()
	case strings.Contains(name, "name"):
		s = g.faker.Name()
	case strings.Contains(name, "title"), strings.Contains(name, "subject"):
		s = g.faker.Sentence(3)
	case f.MaxBytes != nil && *f.MaxBytes < 20:
		s = g.faker.Word()
	default:
		s = g.faker.Sentence(8)
	}
	return truncate(s, f.MaxBytes)
}

// truncate cuts s to at most bound bytes without splitting a rune
func truncate(s string, bound *int) string {
	if bound == nil || len(s) <= *bound {
		return s
	}
	cut := *bound
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
