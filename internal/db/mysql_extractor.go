package db

import (
	"context"
	"database/sql"
	"strings"
)

// TableNames returns every base table of the database
func (c *MySQLClient) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := c.db.QueryContext(ctx, query, c.schemaName)
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

// Columns reads column metadata in ordinal order
func (c *MySQLClient) Columns(ctx context.Context, tableName string) ([]Column, error) {
	query := `
		SELECT
			c.column_name,
			c.column_type,
			c.is_nullable,
			c.column_default,
			c.extra
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	rows, err := c.db.QueryContext(ctx, query, c.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var name, columnType, nullable, extra string
		var defaultVal sql.NullString

		if err := rows.Scan(&name, &columnType, &nullable, &defaultVal, &extra); err != nil {
			return nil, err
		}

		extra = strings.ToLower(extra)
		columns = append(columns, Column{
			Name:       name,
			Type:       columnType,
			Nullable:   nullable == "YES",
			HasDefault: defaultVal.Valid,
			Generated:  strings.Contains(extra, "auto_increment") || strings.Contains(extra, "virtual generated") || strings.Contains(extra, "stored generated"),
		})
	}

	return columns, rows.Err()
}
