package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tordrt/sqlshape/internal/schema"
)

// TextFormatter formats a design as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the design in compact text format
func (f *TextFormatter) Format(d *schema.DatabaseDesign) error {
	for i, table := range d.Tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}

		if err := f.FormatTable(table); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable writes a single table (exported for use by multifile formatter)
func (f *TextFormatter) FormatTable(table schema.TableDesign) error {
	_, _ = fmt.Fprintf(f.writer, "TABLE %s\n", table.Name)

	for _, field := range table.Fields {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", f.formatField(field))
	}
	return nil
}

func (f *TextFormatter) formatField(field schema.FieldDesign) string {
	parts := []string{field.Name + ":", field.Type.String()}

	if len(field.Values) > 0 {
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(field.Values, "|")))
	}

	if field.Required {
		parts = append(parts, "REQUIRED")
	}

	if field.MaxBytes != nil {
		parts = append(parts, fmt.Sprintf("MAX %dB", *field.MaxBytes))
	}

	if r := rangeText(field); r != "" {
		parts = append(parts, "RANGE "+r)
	}

	if field.Pattern != "" {
		parts = append(parts, fmt.Sprintf("PATTERN %s", field.Pattern))
	}

	return strings.Join(parts, " ")
}

// rangeText writes an integer range as lo..hi with an open side left blank
func rangeText(field schema.FieldDesign) string {
	if field.Min == nil && field.Max == nil {
		return ""
	}
	var lo, hi string
	if field.Min != nil {
		lo = strconv.FormatInt(*field.Min, 10)
	}
	if field.Max != nil {
		hi = strconv.FormatInt(*field.Max, 10)
	}
	return lo + ".." + hi
}
