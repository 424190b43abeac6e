package lascrs

import (
	"bytes"
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokString
	tokOpen
	tokClose
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokWord:
		return "word"
	case tokString:
		return "quoted string"
	case tokOpen:
		return "opening bracket"
	case tokClose:
		return "closing bracket"
	case tokComma:
		return "comma"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

type token struct {
	kind tokenKind
	text string
	off  int
}

// lexer splits WKT into tokens. Both [] and () delimit clauses.
type lexer struct {
	src []byte
	pos int
}

func newLexer(src []byte) *lexer {
	src = bytes.TrimRight(src, "\x00 \t\r\n")
	l := &lexer{src: src}
	if bytes.HasPrefix(src, []byte("\xEF\xBB\xBF")) {
		l.pos = 3
	}
	return l
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', '\v':
		return true
	}
	return false
}

func isWordByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '.', c == '-', c == '+':
		return true
	}
	return false
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, off: l.pos}, nil
	}

	start := l.pos
	c := l.src[start]
	switch {
	case c == '[' || c == '(':
		l.pos++
		return token{kind: tokOpen, text: string(c), off: start}, nil
	case c == ']' || c == ')':
		l.pos++
		return token{kind: tokClose, text: string(c), off: start}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ",", off: start}, nil
	case c == '"':
		return l.quoted()
	case isWordByte(c):
		for l.pos < len(l.src) && isWordByte(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokWord, text: string(l.src[start:l.pos]), off: start}, nil
	default:
		return token{}, l.errorf(start, "unexpected character %q", c)
	}
}

// quoted reads a double-quoted string. A doubled quote is a literal quote.
func (l *lexer) quoted() (token, error) {
	start := l.pos
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		if c != '"' {
			sb.WriteByte(c)
			continue
		}
		if l.pos < len(l.src) && l.src[l.pos] == '"' {
			sb.WriteByte('"')
			l.pos++
			continue
		}
		return token{kind: tokString, text: sb.String(), off: start}, nil
	}
	return token{}, l.errorf(start, "unterminated quoted string")
}

const nearLen = 24

func (l *lexer) errorf(off int, format string, args ...any) *WKTSyntaxError {
	end := off + nearLen
	if end > len(l.src) {
		end = len(l.src)
	}
	near := ""
	if off < end {
		near = string(l.src[off:end])
	}
	return &WKTSyntaxError{Offset: off, Near: near, Reason: fmt.Sprintf(format, args...)}
}
