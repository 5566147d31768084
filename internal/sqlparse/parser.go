// Package sqlparse reads CREATE TABLE statements into a database design.
//
// It understands the column-level syntax shared by PostgreSQL, MySQL and
// SQLite well enough to recover each column's type, nullability and default.
// Statements other than CREATE TABLE are skipped.
package sqlparse

import (
	"fmt"
	"os"

	"github.com/tordrt/sqlshape/internal/schema"
	"github.com/tordrt/sqlshape/internal/sqltype"
)

// Options tunes how a schema is read
type Options struct {
	// Title names the resulting design; empty uses schema.DefaultTitle
	Title string
	// UnknownAsText maps unrecognised column types to unbounded text
	// instead of failing with UnknownType
	UnknownAsText bool
}

// Parse reads every CREATE TABLE statement in src
func Parse(src string, opts Options) (*schema.DatabaseDesign, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{opts: opts}
	d := schema.NewDatabaseDesign(opts.Title)
	for _, stmt := range splitStatements(tokens) {
		table, ok, err := p.statement(stmt)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if _, dup := d.Table(table.Name); dup {
			return nil, &ParseError{Kind: DuplicateTable, Table: table.Name, Line: stmt[0].line}
		}
		if err := d.AddTable(table); err != nil {
			return nil, fmt.Errorf("failed to add table %s: %w", table.Name, err)
		}
	}
	return d, nil
}

// ParseFile reads a schema file
func ParseFile(path string, opts Options) (*schema.DatabaseDesign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Parse(string(data), opts)
}

// ParseColumnType reads a standalone type such as "varchar(100)",
// "enum('a','b')" or "int(11) unsigned"
func ParseColumnType(s string) (sqltype.Info, error) {
	tokens, err := lex(s)
	if err != nil {
		return sqltype.Info{}, err
	}
	c := &cursor{toks: tokens}
	p := &parser{}
	info, err := p.columnType(c)
	if err != nil {
		return sqltype.Info{}, err
	}
	for !c.done() {
		tok, _ := c.next()
		switch tok.upper() {
		case "UNSIGNED", "ZEROFILL":
			info = info.Unsigned()
		case "SIGNED":
		default:
			return sqltype.Info{}, c.malformedAt(tok, "unexpected text after column type")
		}
	}
	return info, nil
}

type parser struct {
	opts Options
}

func splitStatements(tokens []token) [][]token {
	var stmts [][]token
	depth, start := 0, 0
	for i, t := range tokens {
		switch {
		case t.isPunct("("):
			depth++
		case t.isPunct(")"):
			if depth > 0 {
				depth--
			}
		case t.isPunct(";") && depth == 0:
			if i > start {
				stmts = append(stmts, tokens[start:i])
			}
			start = i + 1
		}
	}
	if start < len(tokens) {
		stmts = append(stmts, tokens[start:])
	}
	return stmts
}

// statement parses one statement; ok is false when it is not a CREATE TABLE
func (p *parser) statement(toks []token) (table schema.TableDesign, ok bool, err error) {
	c := &cursor{toks: toks}
	if !c.accept("CREATE") {
		return table, false, nil
	}
	for c.acceptAny("OR", "REPLACE", "TEMP", "TEMPORARY", "GLOBAL", "LOCAL", "UNLOGGED") {
	}
	if !c.accept("TABLE") {
		return table, false, nil
	}
	if c.accept("IF") {
		if !c.accept("NOT") || !c.accept("EXISTS") {
			return table, false, c.malformed("expected IF NOT EXISTS")
		}
	}

	name, err := c.qualifiedName()
	if err != nil {
		return table, false, err
	}
	c.table = name

	open, ok := c.peek()
	if !ok || !open.isPunct("(") {
		return table, false, c.malformed("table has no column list")
	}
	body, err := c.group()
	if err != nil {
		return table, false, err
	}
	items, err := c.splitItems(open, body)
	if err != nil {
		return table, false, err
	}

	table.Name = name
	seen := make(map[string]bool)
	for _, item := range items {
		if isConstraintItem(item) {
			if err := p.constraint(name, item); err != nil {
				return table, false, err
			}
			continue
		}
		f, err := p.column(name, item)
		if err != nil {
			return table, false, err
		}
		if seen[f.Name] {
			return table, false, &ParseError{Kind: DuplicateColumn, Table: name, Column: f.Name, Line: item[0].line}
		}
		seen[f.Name] = true
		table.Fields = append(table.Fields, f)
	}
	return table, true, nil
}

func isConstraintItem(item []token) bool {
	switch item[0].upper() {
	case "PRIMARY", "FOREIGN", "CONSTRAINT", "CHECK", "EXCLUDE", "FULLTEXT", "SPATIAL":
		return true
	case "KEY", "INDEX", "UNIQUE":
		if len(item) > 1 && item[1].kind == tokWord && (sqltype.Known(item[1].text) || sqltype.IsPrefix(item[1].text)) {
			return false
		}
		return true
	}
	return false
}

// constraint checks the shape of a table-level constraint, which is then discarded
func (p *parser) constraint(table string, item []token) error {
	c := &cursor{toks: item, table: table}
	if c.accept("CONSTRAINT") {
		if _, err := c.ident("constraint needs a name"); err != nil {
			return err
		}
	}
	tok, ok := c.next()
	if !ok {
		return c.malformed("constraint has no body")
	}
	switch tok.upper() {
	case "PRIMARY":
		if !c.accept("KEY") {
			return c.malformed("expected KEY after PRIMARY")
		}
		return c.indexColumns()
	case "FOREIGN":
		if !c.accept("KEY") {
			return c.malformed("expected KEY after FOREIGN")
		}
		if err := c.indexColumns(); err != nil {
			return err
		}
		if !c.accept("REFERENCES") {
			return c.malformed("foreign key has no REFERENCES")
		}
		return c.references()
	case "UNIQUE", "KEY", "INDEX", "FULLTEXT", "SPATIAL":
		c.acceptAny("KEY", "INDEX")
		return c.indexColumns()
	case "CHECK":
		return c.skipGroup()
	case "EXCLUDE":
		for !c.done() {
			if t, _ := c.peek(); t.isPunct("(") {
				return c.skipGroup()
			}
			c.next()
		}
		return c.malformed("EXCLUDE has no element list")
	default:
		return c.malformedAt(tok, "unknown table constraint")
	}
}

func (p *parser) column(table string, item []token) (schema.FieldDesign, error) {
	c := &cursor{toks: item, table: table}
	nameTok, _ := c.next()
	if !nameTok.isIdent() {
		return schema.FieldDesign{}, c.malformedAt(nameTok, "expected column name")
	}
	c.column = nameTok.text

	info, err := p.columnType(c)
	if err != nil {
		return schema.FieldDesign{}, err
	}

	var notNull, hasDefault bool
	generated := info.Generated
	for {
		tok, ok := c.next()
		if !ok {
			break
		}
		switch tok.upper() {
		case "NOT":
			if c.accept("NULL") {
				notNull = true
			} else if !c.accept("DEFERRABLE") {
				return schema.FieldDesign{}, c.malformedAt(tok, "expected NULL after NOT")
			}
		case "NULL":
			notNull = false
		case "DEFAULT":
			if err := c.expr(); err != nil {
				return schema.FieldDesign{}, err
			}
			hasDefault = true
		case "PRIMARY":
			if !c.accept("KEY") {
				return schema.FieldDesign{}, c.malformedAt(tok, "expected KEY after PRIMARY")
			}
			c.acceptAny("ASC", "DESC")
		case "UNIQUE":
			c.accept("KEY")
		case "UNSIGNED", "ZEROFILL":
			info = info.Unsigned()
		case "KEY", "SIGNED", "DEFERRABLE", "VISIBLE", "INVISIBLE", "STORED", "VIRTUAL":
		case "AUTO_INCREMENT", "AUTOINCREMENT":
			generated = true
		case "IDENTITY":
			generated = true
			if t, ok := c.peek(); ok && t.isPunct("(") {
				if err := c.skipGroup(); err != nil {
					return schema.FieldDesign{}, err
				}
			}
		case "GENERATED":
			generated = true
			if err := c.generatedClause(); err != nil {
				return schema.FieldDesign{}, err
			}
		case "AS":
			generated = true
			if err := c.skipGroup(); err != nil {
				return schema.FieldDesign{}, err
			}
		case "CHECK":
			if err := c.skipGroup(); err != nil {
				return schema.FieldDesign{}, err
			}
		case "REFERENCES":
			if err := c.references(); err != nil {
				return schema.FieldDesign{}, err
			}
		case "ON":
			switch {
			case c.accept("UPDATE"):
				if err := c.expr(); err != nil {
					return schema.FieldDesign{}, err
				}
			case c.accept("CONFLICT"):
				if _, err := c.ident("expected conflict resolution"); err != nil {
					return schema.FieldDesign{}, err
				}
			default:
				return schema.FieldDesign{}, c.malformedAt(tok, "expected UPDATE after ON")
			}
		case "CHARACTER":
			if !c.accept("SET") {
				return schema.FieldDesign{}, c.malformedAt(tok, "expected SET after CHARACTER")
			}
			if err := c.value("character set needs a name"); err != nil {
				return schema.FieldDesign{}, err
			}
		case "COLLATE", "CHARSET":
			if err := c.value(tok.upper() + " needs a name"); err != nil {
				return schema.FieldDesign{}, err
			}
		case "COMMENT":
			if t, ok := c.next(); !ok || t.kind != tokString {
				return schema.FieldDesign{}, c.malformedAt(tok, "COMMENT needs a string")
			}
		case "CONSTRAINT":
			if _, err := c.ident("constraint needs a name"); err != nil {
				return schema.FieldDesign{}, err
			}
		case "INITIALLY":
			if !c.acceptAny("DEFERRED", "IMMEDIATE") {
				return schema.FieldDesign{}, c.malformedAt(tok, "expected DEFERRED or IMMEDIATE")
			}
		default:
			return schema.FieldDesign{}, c.malformedAt(tok, "unexpected column clause")
		}
	}

	return schema.FieldDesign{
		Name:     nameTok.text,
		Type:     info.Type,
		Required: notNull && !hasDefault && !generated,
		MaxBytes: info.MaxBytes,
		Values:   info.Values,
		Min:      info.Min,
		Max:      info.Max,
	}, nil
}

// columnType reads the longest known type name, its parameters, any words
// that continue the name after them (TIMESTAMP(3) WITH TIME ZONE) and any
// array suffix
func (p *parser) columnType(c *cursor) (sqltype.Info, error) {
	first, ok := c.next()
	if !ok || first.kind != tokWord {
		if !ok {
			return sqltype.Info{}, c.malformed("expected column type")
		}
		return sqltype.Info{}, c.malformedAt(first, "expected column type")
	}

	name, known := extendType(c, first.text)

	var params []string
	if t, ok := c.peek(); ok && t.isPunct("(") {
		open := t
		inner, err := c.group()
		if err != nil {
			return sqltype.Info{}, err
		}
		params, err = c.params(open, inner)
		if err != nil {
			return sqltype.Info{}, err
		}
		if known {
			name, _ = extendType(c, name)
		}
	}

	array := false
	if t, ok := c.peek(); ok && t.kind == tokQuoted && t.quote == '[' {
		c.next()
		array = true
		name += "[" + t.text + "]"
	}

	if !known || array {
		if p.opts.UnknownAsText {
			return sqltype.Info{Type: schema.Text}, nil
		}
		return sqltype.Info{}, &ParseError{
			Kind:   UnknownType,
			Table:  c.table,
			Column: c.column,
			Token:  name,
			Line:   first.line,
		}
	}

	info, err := sqltype.Resolve(name, params)
	if err != nil {
		return sqltype.Info{}, c.malformedAt(first, err.Error())
	}
	return info, nil
}

// extendType consumes the words following name while they spell a longer
// known type and reports whether the result is known. On a match the cursor
// rests after the longest known name.
func extendType(c *cursor, name string) (string, bool) {
	best, bestPos := "", c.pos
	if sqltype.Known(name) {
		best = name
	}
	for sqltype.IsPrefix(name) {
		t, ok := c.peek()
		if !ok || t.kind != tokWord {
			break
		}
		candidate := name + " " + t.text
		if !sqltype.Known(candidate) && !sqltype.IsPrefix(candidate) {
			break
		}
		c.next()
		name = candidate
		if sqltype.Known(name) {
			best, bestPos = name, c.pos
		}
	}
	if best == "" {
		return name, false
	}
	c.pos = bestPos
	return best, true
}
