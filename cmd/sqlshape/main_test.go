package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tordrt/sqlshape/internal/schema"
)

const schemaSQL = `
CREATE TABLE users (
  id INTEGER PRIMARY KEY AUTO_INCREMENT,
  email VARCHAR(100) NOT NULL,
  role ENUM('admin', 'member') NOT NULL,
  bio TEXT
);
`

func TestParseTableList(t *testing.T) {
	tests := []struct {
		name       string
		tablesStr  string
		wantTables []string
	}{
		{
			name:       "single table",
			tablesStr:  "users",
			wantTables: []string{"users"},
		},
		{
			name:       "multiple tables",
			tablesStr:  "users,posts,comments",
			wantTables: []string{"users", "posts", "comments"},
		},
		{
			name:       "tables with spaces",
			tablesStr:  "users, posts, comments",
			wantTables: []string{"users", "posts", "comments"},
		},
		{
			name:       "empty string",
			tablesStr:  "",
			wantTables: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTables := parseTableList(tt.tablesStr)

			if len(gotTables) != len(tt.wantTables) {
				t.Errorf("parseTableList() returned %d tables, want %d", len(gotTables), len(tt.wantTables))
				return
			}

			for i, table := range gotTables {
				if table != tt.wantTables[i] {
					t.Errorf("parseTableList() table[%d] = %s, want %s", i, table, tt.wantTables[i])
				}
			}
		})
	}
}

// run executes the root command with args and returns stdout
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// setup writes the schema and parses it into a design snapshot
func setup(t *testing.T) (dir, design string) {
	t.Helper()

	dir = t.TempDir()
	schemaPath := filepath.Join(dir, "schema.sql")
	if err := os.WriteFile(schemaPath, []byte(schemaSQL), 0644); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}
	design = filepath.Join(dir, "design.json")
	envFile := filepath.Join(dir, ".env")

	if _, err := run(t, "", "parse", "--env-file", envFile, "--schema", schemaPath, "--out", design); err != nil {
		t.Fatalf("parse error = %v", err)
	}
	return dir, design
}

func TestParseAndEmit(t *testing.T) {
	dir, design := setup(t)
	envFile := filepath.Join(dir, ".env")

	out, err := run(t, "", "emit", "--env-file", envFile, "--design", design, "--out", "-")
	if err != nil {
		t.Fatalf("emit error = %v", err)
	}
	for _, want := range []string{
		"export interface Users {",
		`  role: "admin" | "member";`,
		"  bio?: string | null;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("emit output missing %q:\n%s", want, out)
		}
	}

	typesDir := filepath.Join(dir, "types")
	if _, err := run(t, "", "emit", "--env-file", envFile, "--design", design, "--out", typesDir); err != nil {
		t.Fatalf("emit to directory error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(typesDir, "users.ts")); err != nil {
		t.Errorf("expected users.ts: %v", err)
	}
}

func TestCheck(t *testing.T) {
	dir, design := setup(t)
	envFile := filepath.Join(dir, ".env")

	tests := []struct {
		name       string
		mode       string
		input      string
		wantErr    error
		wantErrors int
	}{
		{
			name:  "accepted",
			mode:  "fail-fast",
			input: `{"email": "a@b.c", "role": "admin"}`,
		},
		{
			name:       "fail fast",
			mode:       "fail-fast",
			input:      `{"role": "owner"}`,
			wantErr:    errRejected,
			wantErrors: 1,
		},
		{
			name:       "aggregate",
			mode:       "aggregate",
			input:      `{"role": "owner"}`,
			wantErr:    errRejected,
			wantErrors: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.input, "check", "--env-file", envFile, "--design", design, "--table", "users", "--mode", tt.mode)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("check error = %v, want %v", err, tt.wantErr)
			}

			var got map[string]any
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("output is not JSON: %v\n%s", err, out)
			}
			if tt.wantErr == nil {
				if got["email"] != "a@b.c" {
					t.Errorf("record = %v", got)
				}
				return
			}
			errs, _ := got["errors"].([]any)
			if len(errs) != tt.wantErrors {
				t.Errorf("got %d errors, want %d: %s", len(errs), tt.wantErrors, out)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	dir, design := setup(t)
	envFile := filepath.Join(dir, ".env")

	out, err := run(t, "", "describe", "--env-file", envFile, "--design", design, "--format", "markdown", "--output", "", "--output-dir", "")
	if err != nil {
		t.Fatalf("describe error = %v", err)
	}
	if !strings.Contains(out, "## users") {
		t.Errorf("markdown output missing table heading:\n%s", out)
	}

	if _, err := run(t, "", "describe", "--env-file", envFile, "--design", design, "--format", "yaml"); err == nil {
		t.Error("expected invalid format error")
	}
}

func TestSample(t *testing.T) {
	dir, design := setup(t)
	envFile := filepath.Join(dir, ".env")

	out, err := run(t, "", "sample", "--env-file", envFile, "--design", design, "--table", "users", "--count", "3", "--seed", "9", "--output", "")
	if err != nil {
		t.Fatalf("sample error = %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, out)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	for _, row := range rows {
		input, _ := json.Marshal(row)
		if _, err := run(t, string(input), "check", "--env-file", envFile, "--design", design, "--table", "users", "--mode", "aggregate"); err != nil {
			t.Errorf("sample row %s rejected: %v", input, err)
		}
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.sql")
	if err := os.WriteFile(schemaPath, []byte(schemaSQL), 0644); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}
	design := filepath.Join(dir, "out", "design.yaml")
	types := filepath.Join(dir, "types.ts")

	_, err := run(t, "", "init", "--env-file", filepath.Join(dir, ".env"),
		"--schema", schemaPath, "--design", design, "--types", types, "--reload-schema", "--db-url", "")
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	for _, path := range []string{design, types} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s: %v", path, err)
		}
	}
}

func TestIntrospectTableFlags(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "app.db")

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("failed to open SQLite: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, email VARCHAR(100) NOT NULL)`,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, total DECIMAL(10,2) NOT NULL)`,
		`CREATE TABLE audit (id INTEGER PRIMARY KEY, note TEXT)`,
	} {
		if _, err := conn.ExecContext(context.Background(), stmt); err != nil {
			t.Fatalf("failed to exec %q: %v", stmt, err)
		}
	}
	_ = conn.Close()

	design := filepath.Join(dir, "design.json")
	_, err = run(t, "", "introspect", "--env-file", filepath.Join(dir, ".env"),
		"--db-url", "sqlite://"+dbPath, "--tables", "users, orders, audit", "--exclude", " audit", "--quiet", "--out", design)
	if err != nil {
		t.Fatalf("introspect error = %v", err)
	}

	d, err := schema.Load(design)
	if err != nil {
		t.Fatalf("failed to load design: %v", err)
	}
	if got := strings.Join(d.TableNames(), ","); got != "users,orders" {
		t.Errorf("tables = %s, want users,orders", got)
	}
}
