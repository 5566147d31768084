package sqlparse

import "strings"

// clauseKeywords end a DEFAULT or ON UPDATE expression
var clauseKeywords = map[string]bool{
	"NOT": true, "NULL": true, "DEFAULT": true, "PRIMARY": true, "UNIQUE": true,
	"KEY": true, "AUTO_INCREMENT": true, "AUTOINCREMENT": true, "IDENTITY": true,
	"GENERATED": true, "AS": true, "CHECK": true, "REFERENCES": true, "ON": true,
	"COLLATE": true, "CHARACTER": true, "CHARSET": true, "COMMENT": true,
	"CONSTRAINT": true, "UNSIGNED": true, "SIGNED": true, "ZEROFILL": true,
	"DEFERRABLE": true, "INITIALLY": true, "VISIBLE": true, "INVISIBLE": true,
	"STORED": true, "VIRTUAL": true,
}

var referentialActions = map[string]bool{
	"CASCADE": true, "RESTRICT": true, "NO": true, "SET": true,
}

// cursor walks the tokens of one statement or table element
type cursor struct {
	toks   []token
	pos    int
	table  string
	column string
}

func (c *cursor) done() bool {
	return c.pos >= len(c.toks)
}

func (c *cursor) peek() (token, bool) {
	return c.peekAt(0)
}

func (c *cursor) peekAt(off int) (token, bool) {
	if c.pos+off < len(c.toks) {
		return c.toks[c.pos+off], true
	}
	return token{}, false
}

func (c *cursor) next() (token, bool) {
	t, ok := c.peek()
	if ok {
		c.pos++
	}
	return t, ok
}

func (c *cursor) accept(kw string) bool {
	if t, ok := c.peek(); ok && t.is(kw) {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) acceptAny(kws ...string) bool {
	for _, kw := range kws {
		if c.accept(kw) {
			return true
		}
	}
	return false
}

func (c *cursor) acceptPunct(p string) bool {
	if t, ok := c.peek(); ok && t.isPunct(p) {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) lastLine() int {
	if len(c.toks) == 0 {
		return 0
	}
	i := c.pos
	if i >= len(c.toks) {
		i = len(c.toks) - 1
	}
	return c.toks[i].line
}

// malformed reports a problem at the current position
func (c *cursor) malformed(reason string) *ParseError {
	if t, ok := c.peek(); ok {
		return c.malformedAt(t, reason)
	}
	return &ParseError{
		Kind:   MalformedStatement,
		Table:  c.table,
		Column: c.column,
		Line:   c.lastLine(),
		Reason: reason,
	}
}

func (c *cursor) malformedAt(t token, reason string) *ParseError {
	return &ParseError{
		Kind:   MalformedStatement,
		Table:  c.table,
		Column: c.column,
		Token:  t.String(),
		Line:   t.line,
		Reason: reason,
	}
}

func (c *cursor) ident(reason string) (string, error) {
	t, ok := c.next()
	if !ok {
		return "", c.malformed(reason)
	}
	if !t.isIdent() {
		return "", c.malformedAt(t, reason)
	}
	return t.text, nil
}

// value reads a name that may also be written as a string literal
func (c *cursor) value(reason string) error {
	c.acceptPunct("=")
	t, ok := c.next()
	if !ok {
		return c.malformed(reason)
	}
	if !t.isIdent() && t.kind != tokString {
		return c.malformedAt(t, reason)
	}
	return nil
}

// qualifiedName reads schema.table and keeps the last segment
func (c *cursor) qualifiedName() (string, error) {
	name, err := c.ident("expected table name")
	if err != nil {
		return "", err
	}
	for c.acceptPunct(".") {
		if name, err = c.ident("expected name after '.'"); err != nil {
			return "", err
		}
	}
	return name, nil
}

// group consumes a parenthesised group and returns the tokens inside it
func (c *cursor) group() ([]token, error) {
	open, ok := c.next()
	if !ok {
		return nil, c.malformed("expected '('")
	}
	if !open.isPunct("(") {
		return nil, c.malformedAt(open, "expected '('")
	}
	start, depth := c.pos, 1
	for ; c.pos < len(c.toks); c.pos++ {
		switch t := c.toks[c.pos]; {
		case t.isPunct("("):
			depth++
		case t.isPunct(")"):
			depth--
			if depth == 0 {
				inner := c.toks[start:c.pos]
				c.pos++
				return inner, nil
			}
		}
	}
	return nil, c.malformedAt(open, "unbalanced parentheses")
}

func (c *cursor) skipGroup() error {
	_, err := c.group()
	return err
}

// splitItems splits a group on top-level commas
func (c *cursor) splitItems(open token, body []token) ([][]token, error) {
	if len(body) == 0 {
		return nil, c.malformedAt(open, "empty element list")
	}
	var items [][]token
	depth, start := 0, 0
	for i, t := range body {
		switch {
		case t.isPunct("("):
			depth++
		case t.isPunct(")"):
			depth--
		case t.isPunct(",") && depth == 0:
			if i == start {
				return nil, c.malformedAt(t, "empty element")
			}
			items = append(items, body[start:i])
			start = i + 1
		}
	}
	if start >= len(body) {
		return nil, c.malformedAt(body[len(body)-1], "empty element")
	}
	return append(items, body[start:]), nil
}

// params reads type parameters, keeping the first token of each
func (c *cursor) params(open token, inner []token) ([]string, error) {
	items, err := c.splitItems(open, inner)
	if err != nil {
		return nil, err
	}
	params := make([]string, 0, len(items))
	for _, item := range items {
		t := item[0]
		switch t.kind {
		case tokNumber, tokString, tokWord:
			params = append(params, t.text)
		default:
			return nil, c.malformedAt(t, "invalid type parameter")
		}
	}
	return params, nil
}

// indexColumns reads an optional index name followed by a column list
func (c *cursor) indexColumns() error {
	if t, ok := c.peek(); ok && t.isIdent() && !t.is("USING") {
		c.next()
	}
	if c.accept("USING") {
		if _, err := c.ident("expected index method"); err != nil {
			return err
		}
	}
	return c.skipGroup()
}

// references reads the target of a foreign key and its actions
func (c *cursor) references() error {
	if _, err := c.qualifiedName(); err != nil {
		return err
	}
	if t, ok := c.peek(); ok && t.isPunct("(") {
		if err := c.skipGroup(); err != nil {
			return err
		}
	}
	for {
		switch {
		case c.accept("MATCH"):
			if _, err := c.ident("expected match type"); err != nil {
				return err
			}
		case c.isReferentialAction():
			c.pos += 2
			action, _ := c.next()
			switch strings.ToUpper(action.text) {
			case "NO":
				if !c.accept("ACTION") {
					return c.malformed("expected ACTION after NO")
				}
			case "SET":
				if !c.acceptAny("NULL", "DEFAULT") {
					return c.malformed("expected NULL or DEFAULT after SET")
				}
			}
		default:
			return nil
		}
	}
}

func (c *cursor) isReferentialAction() bool {
	on, ok1 := c.peekAt(0)
	event, ok2 := c.peekAt(1)
	action, ok3 := c.peekAt(2)
	if !ok1 || !ok2 || !ok3 || !on.is("ON") {
		return false
	}
	if !event.is("DELETE") && !event.is("UPDATE") {
		return false
	}
	return referentialActions[action.upper()]
}

// generatedClause reads GENERATED ... AS IDENTITY or GENERATED ... AS (expr)
func (c *cursor) generatedClause() error {
	for {
		t, ok := c.next()
		if !ok {
			return c.malformed("GENERATED has no AS")
		}
		if t.is("AS") {
			break
		}
	}
	if c.accept("IDENTITY") {
		if t, ok := c.peek(); ok && t.isPunct("(") {
			return c.skipGroup()
		}
		return nil
	}
	return c.skipGroup()
}

// expr skips a default value expression
func (c *cursor) expr() error {
	if err := c.term(); err != nil {
		return err
	}
	for {
		t, ok := c.peek()
		if !ok {
			return nil
		}
		switch {
		case t.isPunct("("):
			if err := c.skipGroup(); err != nil {
				return err
			}
		case t.kind == tokPunct:
			c.next()
			if err := c.term(); err != nil {
				return err
			}
		case t.kind == tokWord && clauseKeywords[t.upper()]:
			return nil
		default:
			c.next()
		}
	}
}

func (c *cursor) term() error {
	t, ok := c.peek()
	if !ok {
		return c.malformed("expected expression")
	}
	if t.isPunct("(") {
		return c.skipGroup()
	}
	c.next()
	if t.isPunct("-") || t.isPunct("+") {
		return c.term()
	}
	if t.kind == tokPunct {
		return c.malformedAt(t, "expected expression")
	}
	return nil
}
