package db

import (
	"context"
	"database/sql"
	"strings"
)

// TableNames returns every user table of the database
func (c *SQLiteClient) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tableList = append(tableList, tableName)
	}

	return tableList, rows.Err()
}

// Columns reads column metadata through pragma_table_xinfo, which also
// reports generated columns
func (c *SQLiteClient) Columns(ctx context.Context, tableName string) ([]Column, error) {
	query := `
		SELECT name, type, "notnull", dflt_value, pk, hidden
		FROM pragma_table_xinfo(?)
		ORDER BY cid
	`

	rows, err := c.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	var pkCount int
	rowid := -1

	for rows.Next() {
		var name, colType string
		var notNull, pk, hidden int
		var defaultValue sql.NullString

		if err := rows.Scan(&name, &colType, &notNull, &defaultValue, &pk, &hidden); err != nil {
			return nil, err
		}
		// hidden columns of virtual tables
		if hidden == 1 {
			continue
		}

		if pk > 0 {
			pkCount++
			if strings.EqualFold(strings.TrimSpace(colType), "INTEGER") {
				rowid = len(columns)
			}
		}

		columns = append(columns, Column{
			Name:       name,
			Type:       colType,
			Nullable:   notNull == 0,
			HasDefault: defaultValue.Valid,
			Generated:  hidden == 2 || hidden == 3,
			AnyWidth:   true,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A lone INTEGER PRIMARY KEY aliases the rowid and is assigned on insert
	if pkCount == 1 && rowid >= 0 {
		columns[rowid].Generated = true
	}

	return columns, nil
}
