package lascrs

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// maxWKTDepth bounds clause nesting. Real CRS definitions stay below 10.
const maxWKTDepth = 64

// wktValue is one argument of a clause: a nested clause, a quoted string or
// a bare word (number or enumeration).
type wktValue struct {
	node   *wktNode
	text   string
	quoted bool
	off    int
}

type wktNode struct {
	keyword string
	off     int
	args    []wktValue
}

// child returns the first direct sub-clause named keyword.
func (n *wktNode) child(keyword string) *wktNode {
	for _, a := range n.args {
		if a.node != nil && strings.EqualFold(a.node.keyword, keyword) {
			return a.node
		}
	}
	return nil
}

type wktParser struct {
	lex *lexer
	tok token
}

func (p *wktParser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// parseWKTTree parses a single top level clause and rejects trailing input.
func parseWKTTree(b []byte) (*wktNode, error) {
	p := &wktParser{lex: newLexer(b)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokWord {
		return nil, p.lex.errorf(p.tok.off, "expected CRS keyword, found %v", p.tok.kind)
	}
	kw := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokOpen {
		return nil, p.lex.errorf(p.tok.off, "expected opening bracket after %s, found %v", kw.text, p.tok.kind)
	}

	root, err := p.clause(kw, 1)
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.lex.errorf(p.tok.off, "unexpected %v after end of %s", p.tok.kind, root.keyword)
	}
	return root, nil
}

// clause parses the body of kw. p.tok is the opening bracket.
func (p *wktParser) clause(kw token, depth int) (*wktNode, error) {
	if depth > maxWKTDepth {
		return nil, p.lex.errorf(kw.off, "clauses nested deeper than %d", maxWKTDepth)
	}

	open := p.tok.text
	n := &wktNode{keyword: kw.text, off: kw.off}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokClose {
		return n, p.closeClause(open)
	}

	for {
		v, err := p.value(depth)
		if err != nil {
			return nil, err
		}
		n.args = append(n.args, v)

		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokClose:
			return n, p.closeClause(open)
		default:
			return nil, p.lex.errorf(p.tok.off, "expected comma or closing bracket in %s, found %v", n.keyword, p.tok.kind)
		}
	}
}

func (p *wktParser) closeClause(open string) error {
	want := "]"
	if open == "(" {
		want = ")"
	}
	if p.tok.text != want {
		return p.lex.errorf(p.tok.off, "%q does not match %q", p.tok.text, open)
	}
	return p.advance()
}

func (p *wktParser) value(depth int) (wktValue, error) {
	switch p.tok.kind {
	case tokString:
		v := wktValue{text: p.tok.text, quoted: true, off: p.tok.off}
		return v, p.advance()
	case tokWord:
		w := p.tok
		if err := p.advance(); err != nil {
			return wktValue{}, err
		}
		if p.tok.kind != tokOpen {
			return wktValue{text: w.text, off: w.off}, nil
		}
		n, err := p.clause(w, depth+1)
		if err != nil {
			return wktValue{}, err
		}
		return wktValue{node: n, off: w.off}, nil
	default:
		return wktValue{}, p.lex.errorf(p.tok.off, "expected value, found %v", p.tok.kind)
	}
}

// parseWKTCodes extracts the horizontal and vertical EPSG codes of a WKT
// CRS definition of either dialect.
func parseWKTCodes(b []byte) (rawCodes, error) {
	d := DetectDialect(b)

	root, err := parseWKTTree(b)
	if err != nil {
		return rawCodes{}, err
	}
	if d == DialectUnknown {
		return rawCodes{}, &WKTSyntaxError{Offset: root.off, Near: root.keyword, Reason: "not a CRS keyword"}
	}

	raw, err := d.codes(root, 0)
	if err != nil {
		return rawCodes{}, err
	}
	if !raw.hasHorizontal && !raw.hasVertical && !d.hasEPSGCitation(root) {
		return rawCodes{}, &UnsupportedCRSError{Keyword: root.keyword, Reason: "no EPSG authority citation, user-defined CRS"}
	}
	return raw, nil
}

// codes dispatches on the kind of n. hops counts BOUNDCRS indirections.
func (d Dialect) codes(n *wktNode, hops int) (rawCodes, error) {
	switch d.kindOf(n.keyword) {
	case kindHorizontal:
		code, ok, err := d.ownCode(n)
		return rawCodes{horizontal: code, hasHorizontal: ok}, err
	case kindVertical:
		code, ok, err := d.ownCode(n)
		return rawCodes{vertical: code, hasVertical: ok}, err
	case kindCompound:
		return d.compoundCodes(n)
	case kindBound:
		if hops > 0 {
			return rawCodes{}, &UnsupportedCRSError{Keyword: n.keyword, Reason: "nested bound CRS"}
		}
		src := n.child("SOURCECRS")
		if src == nil {
			return rawCodes{}, &UnsupportedCRSError{Keyword: n.keyword, Reason: "missing SOURCECRS"}
		}
		crs := d.crsChildren(src)
		if len(crs) != 1 {
			return rawCodes{}, &UnsupportedCRSError{Keyword: n.keyword, Reason: "SOURCECRS must hold one CRS"}
		}
		return d.codes(crs[0], hops+1)
	case kindUnsupported:
		return rawCodes{}, &UnsupportedCRSError{Keyword: n.keyword, Reason: "local, engineering or derived CRS"}
	default:
		return rawCodes{}, &UnsupportedCRSError{Keyword: n.keyword, Reason: "not a CRS"}
	}
}

// compoundCodes takes the horizontal code from the first child CRS and the
// vertical code from the second.
func (d Dialect) compoundCodes(n *wktNode) (rawCodes, error) {
	crs := d.crsChildren(n)
	if len(crs) != 2 {
		return rawCodes{}, &UnsupportedCRSError{Keyword: n.keyword, Reason: "compound CRS must hold exactly two CRS"}
	}
	if d.kindOf(crs[0].keyword) != kindHorizontal {
		return rawCodes{}, &UnsupportedCRSError{Keyword: crs[0].keyword, Reason: "first compound member is not a horizontal CRS"}
	}
	if d.kindOf(crs[1].keyword) != kindVertical {
		return rawCodes{}, &UnsupportedCRSError{Keyword: crs[1].keyword, Reason: "second compound member is not a vertical CRS"}
	}

	var raw rawCodes
	var err error
	if raw.horizontal, raw.hasHorizontal, err = d.ownCode(crs[0]); err != nil {
		return rawCodes{}, err
	}
	if raw.vertical, raw.hasVertical, err = d.ownCode(crs[1]); err != nil {
		return rawCodes{}, err
	}
	return raw, nil
}

// crsChildren returns the direct sub-clauses of n that are CRS nodes.
func (d Dialect) crsChildren(n *wktNode) []*wktNode {
	var out []*wktNode
	for _, a := range n.args {
		if a.node != nil && d.kindOf(a.node.keyword) != kindNone {
			out = append(out, a.node)
		}
	}
	return out
}

// ownCode returns the EPSG code cited directly by n. Citations of nested
// clauses (datum, ellipsoid, base CRS, ...) are not considered.
func (d Dialect) ownCode(n *wktNode) (uint32, bool, error) {
	kw := d.authorityKeyword()
	for _, a := range n.args {
		if a.node == nil || !strings.EqualFold(a.node.keyword, kw) {
			continue
		}
		code, ok, err := epsgCitation(a.node)
		if err != nil || ok {
			return code, ok, err
		}
	}
	return 0, false, nil
}

func (d Dialect) hasEPSGCitation(n *wktNode) bool {
	kw := d.authorityKeyword()
	for _, a := range n.args {
		if a.node == nil {
			continue
		}
		if strings.EqualFold(a.node.keyword, kw) {
			if _, ok, _ := epsgCitation(a.node); ok {
				return true
			}
			continue
		}
		if d.hasEPSGCitation(a.node) {
			return true
		}
	}
	return false
}

// epsgCitation reads AUTHORITY["EPSG","n"] or ID["EPSG",n]. Citations of
// other authorities report ok == false.
func epsgCitation(n *wktNode) (uint32, bool, error) {
	if len(n.args) < 2 || n.args[0].node != nil || n.args[1].node != nil {
		return 0, false, nil
	}
	if !strings.EqualFold(strings.TrimSpace(n.args[0].text), "EPSG") {
		return 0, false, nil
	}

	arg := n.args[1]
	code, err := strconv.ParseUint(strings.TrimSpace(arg.text), 10, 32)
	switch {
	case errors.Is(err, strconv.ErrRange):
		// Too large to be an EPSG code; let the range check reject it.
		return math.MaxUint32, true, nil
	case err != nil:
		return 0, false, &WKTSyntaxError{Offset: arg.off, Near: arg.text, Reason: "EPSG code is not an unsigned integer"}
	}
	return uint32(code), true, nil
}
