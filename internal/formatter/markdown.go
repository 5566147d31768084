package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/sqlshape/internal/schema"
)

// MarkdownFormatter formats a design as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the design in markdown format
func (f *MarkdownFormatter) Format(d *schema.DatabaseDesign) error {
	_, _ = fmt.Fprintf(f.writer, "# %s\n", d.Title)
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range d.Tables {
		if err := f.FormatTable(table); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(table schema.TableDesign) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.Name)

	_, _ = fmt.Fprintln(f.writer, "### Fields")
	_, _ = fmt.Fprintln(f.writer)

	for _, field := range table.Fields {
		typeStr := field.Type.String()
		if len(field.Values) > 0 {
			typeStr = fmt.Sprintf("%s (%s)", typeStr, strings.Join(field.Values, "|"))
		}

		constraintStr := f.formatConstraints(field)
		if constraintStr != "" {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", field.Name, typeStr, constraintStr)
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", field.Name, typeStr)
		}
	}
	_, _ = fmt.Fprintln(f.writer)

	return nil
}

func (f *MarkdownFormatter) formatConstraints(field schema.FieldDesign) string {
	var constraints []string

	if field.Required {
		constraints = append(constraints, "required")
	}

	if field.MaxBytes != nil {
		constraints = append(constraints, fmt.Sprintf("max %d bytes", *field.MaxBytes))
	}

	if r := rangeText(field); r != "" {
		constraints = append(constraints, "range "+r)
	}

	if field.Pattern != "" {
		constraints = append(constraints, fmt.Sprintf("pattern `%s`", field.Pattern))
	}

	return strings.Join(constraints, ", ")
}
