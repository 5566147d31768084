package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tordrt/sqlshape/internal/schema"
)

func usersDesign(t *testing.T) *schema.DatabaseDesign {
	t.Helper()
	d := schema.NewDatabaseDesign("App")
	err := d.AddTable(schema.TableDesign{
		Name: "users",
		Fields: []schema.FieldDesign{
			{Name: "id", Type: schema.Integer, Required: true},
			{Name: "email", Type: schema.Text, Required: true, MaxBytes: schema.Bytes(100)},
			{Name: "bio", Type: schema.Text},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestTypeScriptUsers(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTypeScriptFormatter(&buf).Format(usersDesign(t)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := `// Code generated by sqlshape. DO NOT EDIT.

export interface Users {
  id: number;
  /** At most 100 bytes. */
  email: string;
  bio?: string | null;
}
`
	if buf.String() != want {
		t.Errorf("Format() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestTypeScriptMembers(t *testing.T) {
	d := schema.NewDatabaseDesign("")
	err := d.AddTable(schema.TableDesign{
		Name: "order_items",
		Fields: []schema.FieldDesign{
			{Name: "price", Type: schema.Float, Required: true},
			{Name: "paid", Type: schema.Boolean},
			{Name: "placed_at", Type: schema.Date, Required: true},
			{Name: "receipt", Type: schema.Binary},
			{Name: "status", Type: schema.Text, Required: true, Values: []string{"open", "closed"}},
			{Name: "code", Type: schema.Text, Pattern: `^[a-z]*/$`},
			{Name: "unit price", Type: schema.Float},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewTypeScriptFormatter(&buf).Format(d); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"export interface OrderItems {",
		"  price: number;",
		"  paid?: boolean | null;",
		"  /** Date or timestamp string. */\n  placed_at: string;",
		"  /** Base64 encoded. */\n  receipt?: string | null;",
		`  /** One of: open, closed. */` + "\n" + `  status: "open" | "closed";`,
		`  /** Must match /^[a-z]*\/$/. */`,
		`  "unit price"?: number | null;`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q\n%s", want, out)
		}
	}
}

func TestTypeScriptDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	if err := NewTypeScriptFormatter(&first).Format(usersDesign(t)); err != nil {
		t.Fatal(err)
	}
	if err := NewTypeScriptFormatter(&second).Format(usersDesign(t)); err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Error("Format() output differs for equal designs")
	}
}

func TestTypeScriptNameCollision(t *testing.T) {
	d := schema.NewDatabaseDesign("")
	_ = d.AddTable(schema.TableDesign{Name: "user_roles"})
	_ = d.AddTable(schema.TableDesign{Name: "UserRoles"})
	if err := NewTypeScriptFormatter(&bytes.Buffer{}).Format(d); err == nil {
		t.Error("Format() expected collision error")
	}
}

func TestInterfaceName(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"users", "Users"},
		{"order_items", "OrderItems"},
		{"userProfile", "UserProfile"},
		{"audit-log 2024", "AuditLog2024"},
		{"2fa_codes", "T2faCodes"},
		{"___", "Table"},
	}
	for _, tt := range tests {
		if got := InterfaceName(tt.table); got != tt.want {
			t.Errorf("InterfaceName(%q) = %q, want %q", tt.table, got, tt.want)
		}
	}
}

func TestTextAndMarkdown(t *testing.T) {
	d := usersDesign(t)

	var text bytes.Buffer
	if err := NewTextFormatter(&text).Format(d); err != nil {
		t.Fatal(err)
	}
	wantText := "TABLE users\n  id: integer REQUIRED\n  email: text REQUIRED MAX 100B\n  bio: text\n"
	if text.String() != wantText {
		t.Errorf("text Format() =\n%s\nwant\n%s", text.String(), wantText)
	}

	var md bytes.Buffer
	if err := NewMarkdownFormatter(&md).Format(d); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# App", "## users", "- **id:** integer, required", "- **email:** text, required, max 100 bytes", "- **bio:** text\n"} {
		if !strings.Contains(md.String(), want) {
			t.Errorf("markdown Format() missing %q\n%s", want, md.String())
		}
	}
}

func TestIntegerRangeOutput(t *testing.T) {
	d := schema.NewDatabaseDesign("")
	err := d.AddTable(schema.TableDesign{
		Name: "stock",
		Fields: []schema.FieldDesign{
			{Name: "qty", Type: schema.Integer, Required: true, Min: schema.Int64(0), Max: schema.Int64(65535)},
			{Name: "total", Type: schema.Integer, Min: schema.Int64(0)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		write func(*bytes.Buffer) error
		want  []string
	}{
		{
			name:  "typescript",
			write: func(b *bytes.Buffer) error { return NewTypeScriptFormatter(b).Format(d) },
			want:  []string{"/** Integer in 0..65535. */\n  qty: number;", "/** Integer in 0... */\n  total?: number | null;"},
		},
		{
			name:  "text",
			write: func(b *bytes.Buffer) error { return NewTextFormatter(b).Format(d) },
			want:  []string{"qty: integer REQUIRED RANGE 0..65535\n", "total: integer RANGE 0..\n"},
		},
		{
			name:  "markdown",
			write: func(b *bytes.Buffer) error { return NewMarkdownFormatter(b).Format(d) },
			want:  []string{"- **qty:** integer, required, range 0..65535\n", "- **total:** integer, range 0..\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.write(&buf); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestMultiFile(t *testing.T) {
	d := usersDesign(t)
	if err := d.AddTable(schema.TableDesign{
		Name:   "accounts",
		Fields: []schema.FieldDesign{{Name: "id", Type: schema.Integer, Required: true}},
	}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		format   string
		files    []string
		overview string
		contains string
	}{
		{format: FormatTypeScript, files: []string{"index.ts", "users.ts", "accounts.ts"}, overview: "index.ts", contains: "export * from \"./accounts\";\nexport * from \"./users\";\n"},
		{format: FormatMarkdown, files: []string{"_overview.md", "users.md", "accounts.md"}, overview: "_overview.md", contains: "- **accounts** (1 fields, 1 required)\n- **users** (3 fields, 2 required)"},
		{format: FormatText, files: []string{"_overview.txt", "users.txt", "accounts.txt"}, overview: "_overview.txt", contains: "accounts (1 fields, 1 required)\nusers (3 fields, 2 required)"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			if err := NewMultiFileFormatter(dir, tt.format).Format(d); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			for _, name := range tt.files {
				if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
					t.Errorf("missing file %s: %v", name, err)
				}
			}
			data, err := os.ReadFile(filepath.Join(dir, tt.overview))
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tt.contains) {
				t.Errorf("overview =\n%s\nwant it to contain\n%s", data, tt.contains)
			}
		})
	}

	if err := NewMultiFileFormatter(t.TempDir(), "html").Format(d); err == nil {
		t.Error("Format() with unknown format expected error")
	}
}

func TestMultiFileTableContent(t *testing.T) {
	dir := t.TempDir()
	if err := NewMultiFileFormatter(dir, FormatTypeScript).Format(usersDesign(t)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "users.ts"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), Header+"\n\nexport interface Users {\n") {
		t.Errorf("users.ts =\n%s", data)
	}
}
