// Package db reads column metadata from a live database and turns it into
// a database design, resolving column types through the same lookup table as
// the schema parser.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/sqlshape/internal/schema"
	"github.com/tordrt/sqlshape/internal/sqlparse"
)

// Column is the raw metadata of one column as reported by a database
type Column struct {
	Name       string
	Type       string // declared type, e.g. "varchar(100)" or "enum('a','b')"
	Nullable   bool
	HasDefault bool
	Generated  bool // auto increment, identity, serial or computed

	// AnyWidth marks stores that keep any 64-bit integer whatever the
	// declared width, so no integer range is taken from the type
	AnyWidth bool
}

// Source lists tables and their columns
type Source interface {
	TableNames(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]Column, error)
	Close(ctx context.Context) error
}

// Options configures introspection.
//
// If Tables is empty every base table is read. ExcludeTables is applied after
// Tables.
type Options struct {
	Tables        []string
	ExcludeTables []string

	// SchemaName selects the PostgreSQL schema ("public" when empty) or the
	// MySQL database (taken from the DSN when empty). Ignored for SQLite.
	SchemaName string

	// UnknownAsText maps column types outside the lookup table to text
	UnknownAsText bool

	// Progress is called after each table is read
	Progress func(table string, done, total int)
}

// Introspect builds a design from every selected table of src
func Introspect(ctx context.Context, src Source, title string, opts Options) (*schema.DatabaseDesign, error) {
	tableNames := opts.Tables
	if len(tableNames) == 0 {
		var err error
		tableNames, err = src.TableNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}
	tableNames = filterExcludedTables(tableNames, opts.ExcludeTables)

	d := schema.NewDatabaseDesign(title)
	for i, tableName := range tableNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table, err := extractTable(ctx, src, tableName, opts.UnknownAsText)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		if err := d.AddTable(table); err != nil {
			return nil, err
		}
		if opts.Progress != nil {
			opts.Progress(tableName, i+1, len(tableNames))
		}
	}
	return d, nil
}

// extractTable reads the columns of a single table
func extractTable(ctx context.Context, src Source, tableName string, unknownAsText bool) (schema.TableDesign, error) {
	columns, err := src.Columns(ctx, tableName)
	if err != nil {
		return schema.TableDesign{}, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return schema.TableDesign{}, fmt.Errorf("table not found or has no columns")
	}

	table := schema.TableDesign{Name: tableName}
	for _, col := range columns {
		field, err := FieldFromColumn(col, unknownAsText)
		if err != nil {
			return schema.TableDesign{}, err
		}
		table.Fields = append(table.Fields, field)
	}
	return table, nil
}

// FieldFromColumn resolves a column's declared type into a field design
func FieldFromColumn(col Column, unknownAsText bool) (schema.FieldDesign, error) {
	field := schema.FieldDesign{Name: col.Name}

	if strings.TrimSpace(col.Type) == "" {
		if !unknownAsText {
			return field, fmt.Errorf("column %s: %w: no declared type", col.Name, sqlparse.ErrUnknownType)
		}
		field.Type = schema.Text
		field.Required = !col.Nullable && !col.HasDefault && !col.Generated
		return field, nil
	}

	info, err := sqlparse.ParseColumnType(col.Type)
	if err != nil {
		if !unknownAsText || !errors.Is(err, sqlparse.ErrUnknownType) {
			return field, fmt.Errorf("column %s: %w", col.Name, err)
		}
		field.Type = schema.Text
	} else {
		if col.AnyWidth {
			info = info.Unranged()
		}
		field.Type = info.Type
		field.MaxBytes = info.MaxBytes
		field.Values = info.Values
		field.Min = info.Min
		field.Max = info.Max
	}

	generated := col.Generated || info.Generated
	field.Required = !col.Nullable && !col.HasDefault && !generated
	return field, nil
}

func filterExcludedTables(tableNames, excludeList []string) []string {
	if len(excludeList) == 0 {
		return tableNames
	}

	excludeSet := make(map[string]bool)
	for _, tableName := range excludeList {
		excludeSet[tableName] = true
	}

	filtered := make([]string, 0, len(tableNames))
	for _, tableName := range tableNames {
		if !excludeSet[tableName] {
			filtered = append(filtered, tableName)
		}
	}
	return filtered
}
