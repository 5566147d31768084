package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/tordrt/sqlshape/internal/schema"
	"github.com/tordrt/sqlshape/internal/sqltype"
)

// Header is the first line of every generated TypeScript file
const Header = "// Code generated by sqlshape. DO NOT EDIT."

// TypeScriptFormatter writes one exported interface per table
type TypeScriptFormatter struct {
	writer io.Writer
}

// NewTypeScriptFormatter creates a new TypeScript formatter
func NewTypeScriptFormatter(w io.Writer) *TypeScriptFormatter {
	return &TypeScriptFormatter{writer: w}
}

// Format writes every table of the design, in design order
func (f *TypeScriptFormatter) Format(d *schema.DatabaseDesign) error {
	if err := checkInterfaceNames(d); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(f.writer, Header)
	for _, table := range d.Tables {
		_, _ = fmt.Fprintln(f.writer)
		f.formatTable(table)
	}
	return nil
}

// FormatTable writes a single table with the file header (used by the multi-file formatter)
func (f *TypeScriptFormatter) FormatTable(table schema.TableDesign) error {
	_, _ = fmt.Fprintln(f.writer, Header)
	_, _ = fmt.Fprintln(f.writer)
	f.formatTable(table)
	return nil
}

func (f *TypeScriptFormatter) formatTable(table schema.TableDesign) {
	_, _ = fmt.Fprintf(f.writer, "export interface %s {\n", InterfaceName(table.Name))
	for _, field := range table.Fields {
		if doc := docComment(field); doc != "" {
			_, _ = fmt.Fprintf(f.writer, "  /** %s */\n", doc)
		}
		if field.Required {
			_, _ = fmt.Fprintf(f.writer, "  %s: %s;\n", memberName(field.Name), sqltype.TypeScript(field))
		} else {
			_, _ = fmt.Fprintf(f.writer, "  %s?: %s | null;\n", memberName(field.Name), sqltype.TypeScript(field))
		}
	}
	_, _ = fmt.Fprintln(f.writer, "}")
}

func docComment(field schema.FieldDesign) string {
	var parts []string
	if field.MaxBytes != nil {
		parts = append(parts, fmt.Sprintf("At most %d bytes.", *field.MaxBytes))
	}
	switch {
	case field.Min != nil && field.Max != nil:
		parts = append(parts, fmt.Sprintf("Integer from %d to %d.", *field.Min, *field.Max))
	case field.Min != nil:
		parts = append(parts, fmt.Sprintf("Integer of at least %d.", *field.Min))
	case field.Max != nil:
		parts = append(parts, fmt.Sprintf("Integer of at most %d.", *field.Max))
	}
	if field.Pattern != "" {
		parts = append(parts, fmt.Sprintf("Must match /%s/.", field.Pattern))
	}
	if len(field.Values) > 0 {
		parts = append(parts, fmt.Sprintf("One of: %s.", strings.Join(field.Values, ", ")))
	}
	if field.Type == schema.Date {
		parts = append(parts, "Date or timestamp string.")
	}
	if field.Type == schema.Binary {
		parts = append(parts, "Base64 encoded.")
	}
	return strings.ReplaceAll(strings.Join(parts, " "), "*/", `*\/`)
}

// InterfaceName converts a table name to a PascalCase identifier
func InterfaceName(table string) string {
	var b strings.Builder
	upper := true
	for _, r := range table {
		if !isIdentRune(r) || r == '_' || r == '$' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		return "Table"
	}
	if unicode.IsDigit([]rune(name)[0]) {
		return "T" + name
	}
	return name
}

func checkInterfaceNames(d *schema.DatabaseDesign) error {
	seen := make(map[string]string, len(d.Tables))
	for _, t := range d.Tables {
		name := InterfaceName(t.Name)
		if other, ok := seen[name]; ok {
			return fmt.Errorf("tables %s and %s both map to interface %s", other, t.Name, name)
		}
		seen[name] = t.Name
	}
	return nil
}

// memberName quotes field names that are not valid identifiers
func memberName(name string) string {
	if isIdentifier(name) {
		return name
	}
	return strconv.Quote(name)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !isIdentRune(r) || (i == 0 && unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
