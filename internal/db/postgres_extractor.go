package db

import (
	"context"
	"fmt"
	"strings"
)

// TableNames returns every base table of the schema
func (c *PostgresClient) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := c.conn.Query(ctx, query, c.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

type postgresColumn struct {
	name       string
	dataType   string
	udtName    string
	charLength *int
	precision  *int
	scale      *int
	nullable   string
	defaultVal *string
	identity   string
	generated  string
}

// Columns reads column metadata in ordinal order
func (c *PostgresClient) Columns(ctx context.Context, tableName string) ([]Column, error) {
	query := `
		SELECT
			column_name,
			data_type,
			udt_name,
			character_maximum_length::int,
			numeric_precision::int,
			numeric_scale::int,
			is_nullable,
			column_default,
			is_identity,
			is_generated
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := c.conn.Query(ctx, query, c.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var raw []postgresColumn
	for rows.Next() {
		var pc postgresColumn
		if err := rows.Scan(&pc.name, &pc.dataType, &pc.udtName, &pc.charLength, &pc.precision, &pc.scale,
			&pc.nullable, &pc.defaultVal, &pc.identity, &pc.generated); err != nil {
			return nil, err
		}
		raw = append(raw, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	columns := make([]Column, 0, len(raw))
	for _, pc := range raw {
		typ := postgresType(pc)
		if pc.dataType == "USER-DEFINED" {
			values, err := c.enumValues(ctx, pc.udtName)
			if err != nil {
				return nil, fmt.Errorf("failed to read enum %s: %w", pc.udtName, err)
			}
			if len(values) > 0 {
				typ = enumType(values)
			}
		}

		generated := pc.identity == "YES" || pc.generated == "ALWAYS" ||
			(pc.defaultVal != nil && strings.HasPrefix(*pc.defaultVal, "nextval("))
		columns = append(columns, Column{
			Name:       pc.name,
			Type:       typ,
			Nullable:   pc.nullable == "YES",
			HasDefault: pc.defaultVal != nil,
			Generated:  generated,
		})
	}
	return columns, nil
}

// enumValues returns the labels of a PostgreSQL enum type, or none for other types
func (c *PostgresClient) enumValues(ctx context.Context, typeName string) ([]string, error) {
	query := `
		SELECT e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON e.enumtypid = t.oid
		WHERE t.typname = $1
		ORDER BY e.enumsortorder
	`

	rows, err := c.conn.Query(ctx, query, typeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		values = append(values, label)
	}
	return values, rows.Err()
}

// postgresType rebuilds a declared type from information_schema columns
func postgresType(pc postgresColumn) string {
	switch {
	case pc.dataType == "USER-DEFINED":
		return pc.udtName
	case pc.dataType == "ARRAY":
		return strings.TrimPrefix(pc.udtName, "_") + "[]"
	case pc.charLength != nil:
		return fmt.Sprintf("%s(%d)", pc.dataType, *pc.charLength)
	case pc.dataType == "numeric" && pc.precision != nil:
		scale := 0
		if pc.scale != nil {
			scale = *pc.scale
		}
		return fmt.Sprintf("numeric(%d,%d)", *pc.precision, scale)
	default:
		return pc.dataType
	}
}

// enumType renders enum labels as enum('a','b') for the type parser
func enumType(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return "enum(" + strings.Join(quoted, ",") + ")"
}
