package sqlparse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokWord   tokenKind = iota // bare identifier or keyword
	tokQuoted                  // quoted identifier
	tokString                  // single-quoted literal
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	line int
	// quote is the opening quote of a quoted identifier
	quote byte
}

// upper returns the keyword form of a bare word, or "" for anything else
func (t token) upper() string {
	if t.kind != tokWord {
		return ""
	}
	return strings.ToUpper(t.text)
}

func (t token) is(kw string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, kw)
}

func (t token) isPunct(p string) bool {
	return t.kind == tokPunct && t.text == p
}

func (t token) isIdent() bool {
	return t.kind == tokWord || t.kind == tokQuoted
}

func (t token) String() string {
	switch t.kind {
	case tokString:
		return "'" + strings.ReplaceAll(t.text, "'", "''") + "'"
	case tokQuoted:
		closing := t.quote
		if closing == '[' {
			closing = ']'
		}
		return string(t.quote) + t.text + string(closing)
	default:
		return t.text
	}
}

type lexer struct {
	src  string
	pos  int
	line int
	err  error
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src, line: 1}
	var tokens []token
	for {
		l.skipSpaceAndComments()
		if l.err != nil {
			return nil, l.err
		}
		if l.pos >= len(l.src) {
			return tokens, nil
		}
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

func (l *lexer) peekByte(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
	}
	return c
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.advance()
		case c == '-' && l.peekByte(1) == '-', c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.peekByte(1) == '*':
			start := l.line
			l.pos += 2
			for {
				if l.pos >= len(l.src) {
					l.err = &ParseError{Kind: MalformedStatement, Line: start, Reason: "unterminated comment"}
					return
				}
				if l.src[l.pos] == '*' && l.peekByte(1) == '/' {
					l.pos += 2
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	line := l.line
	c := l.src[l.pos]
	switch {
	case c == '\'':
		text, ok := l.quoted('\'', '\'')
		if !ok {
			return token{}, &ParseError{Kind: MalformedStatement, Line: line, Reason: "unterminated string literal"}
		}
		return token{kind: tokString, text: text, line: line}, nil
	case c == '"' || c == '`' || c == '[':
		closing := c
		if c == '[' {
			closing = ']'
		}
		text, ok := l.quoted(c, closing)
		if !ok {
			return token{}, &ParseError{Kind: MalformedStatement, Line: line, Reason: "unterminated quoted identifier"}
		}
		return token{kind: tokQuoted, text: text, line: line, quote: c}, nil
	case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))):
		start := l.pos
		for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
			l.pos++
		}
		if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
			l.pos++
			if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
				l.pos++
			}
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
		return token{kind: tokNumber, text: l.src[start:l.pos], line: line}, nil
	case isWordStart(l.src[l.pos:]):
		start := l.pos
		for l.pos < len(l.src) && isWordPart(l.src[l.pos:]) {
			_, size := utf8.DecodeRuneInString(l.src[l.pos:])
			l.pos += size
		}
		return token{kind: tokWord, text: l.src[start:l.pos], line: line}, nil
	default:
		l.pos++
		if c == ':' && l.peekByte(0) == ':' {
			l.pos++
			return token{kind: tokPunct, text: "::", line: line}, nil
		}
		return token{kind: tokPunct, text: string(c), line: line}, nil
	}
}

// quoted reads a quoted run where a doubled closing quote is an escape
func (l *lexer) quoted(open, closing byte) (string, bool) {
	l.advance()
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.advance()
		if c == closing {
			if l.peekByte(0) == closing && open == closing {
				l.advance()
				b.WriteByte(c)
				continue
			}
			return b.String(), true
		}
		b.WriteByte(c)
	}
	return "", false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isWordPart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
