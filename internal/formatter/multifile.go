package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/tordrt/sqlshape/internal/schema"
)

const (
	FormatTypeScript = "typescript"
	FormatMarkdown   = "markdown"
	FormatText       = "text"
)

// MultiFileFormatter writes a design to one file per table plus an overview
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "typescript", "markdown" or "text"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the design to multiple files
func (f *MultiFileFormatter) Format(d *schema.DatabaseDesign) error {
	switch f.OutputFormat {
	case FormatTypeScript, FormatMarkdown, FormatText:
	default:
		return fmt.Errorf("unknown output format %q", f.OutputFormat)
	}
	if f.OutputFormat == FormatTypeScript {
		if err := checkInterfaceNames(d); err != nil {
			return err
		}
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(d); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, table := range d.Tables {
		if err := f.writeTableFile(table); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table.Name, err)
		}
	}

	return nil
}

// OverviewName returns the overview file name for the output format
func (f *MultiFileFormatter) OverviewName() string {
	if f.OutputFormat == FormatTypeScript {
		return "index.ts"
	}
	return "_overview" + f.getFileExtension()
}

func (f *MultiFileFormatter) writeOverview(d *schema.DatabaseDesign) error {
	file, err := os.Create(filepath.Join(f.OutputDir, f.OverviewName()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	// Sort tables alphabetically
	names := d.TableNames()
	sort.Strings(names)

	switch f.OutputFormat {
	case FormatTypeScript:
		f.writeTypeScriptIndex(file, names)
	case FormatMarkdown:
		f.writeMarkdownOverview(file, d, names)
	default:
		f.writeTextOverview(file, d, names)
	}
	return nil
}

func (f *MultiFileFormatter) writeTypeScriptIndex(w io.Writer, names []string) {
	_, _ = fmt.Fprintln(w, Header)
	_, _ = fmt.Fprintln(w)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "export * from %s;\n", strconv.Quote("./"+name))
	}
}

func (f *MultiFileFormatter) writeMarkdownOverview(w io.Writer, d *schema.DatabaseDesign, names []string) {
	_, _ = fmt.Fprintf(w, "# %s Overview\n\n", d.Title)
	_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", f.getFileExtension())
	_, _ = fmt.Fprintf(w, "## Tables\n\n")

	for _, name := range names {
		table, _ := d.Table(name)
		_, _ = fmt.Fprintf(w, "- **%s** (%d fields, %d required)\n", name, len(table.Fields), countRequired(table))
	}
}

func (f *MultiFileFormatter) writeTextOverview(w io.Writer, d *schema.DatabaseDesign, names []string) {
	_, _ = fmt.Fprintf(w, "DESIGN OVERVIEW\n")
	_, _ = fmt.Fprintf(w, "Each table has a file: <table_name>%s\n\n", f.getFileExtension())

	for _, name := range names {
		table, _ := d.Table(name)
		_, _ = fmt.Fprintf(w, "%s (%d fields, %d required)\n", name, len(table.Fields), countRequired(table))
	}
}

func countRequired(table *schema.TableDesign) int {
	n := 0
	for _, field := range table.Fields {
		if field.Required {
			n++
		}
	}
	return n
}

// writeTableFile writes a single table to its own file
func (f *MultiFileFormatter) writeTableFile(table schema.TableDesign) error {
	filename := filepath.Join(f.OutputDir, table.Name+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	switch f.OutputFormat {
	case FormatTypeScript:
		return NewTypeScriptFormatter(file).FormatTable(table)
	case FormatMarkdown:
		return NewMarkdownFormatter(file).FormatTable(table)
	default:
		return NewTextFormatter(file).FormatTable(table)
	}
}

func (f *MultiFileFormatter) getFileExtension() string {
	switch f.OutputFormat {
	case FormatTypeScript:
		return ".ts"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}
