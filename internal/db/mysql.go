package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db         *sql.DB
	schemaName string
}

// NewMySQLClient connects and pings; schemaName defaults to the DSN's database
func NewMySQLClient(ctx context.Context, connString, schemaName string) (*MySQLClient, error) {
	if schemaName == "" {
		var err error
		schemaName, err = ParseDatabaseName(connString)
		if err != nil {
			return nil, fmt.Errorf("failed to determine database name: %w (please specify a schema name)", err)
		}
	}

	db, err := sql.Open("mysql", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db, schemaName: schemaName}, nil
}

// ParseDatabaseName returns the database named in a MySQL DSN
func ParseDatabaseName(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("DSN %q names no database", cfg.FormatDSN())
	}
	return cfg.DBName, nil
}

// Close closes the database connection
func (c *MySQLClient) Close(_ context.Context) error {
	return c.db.Close()
}
