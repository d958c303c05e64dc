package pluralforms

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	eofTok tokenKind = iota
	invalidTok
	numTok
	varTok
	opTok
)

type token struct {
	kind tokenKind
	op   string
	num  int
	pos  int
}

type lexer struct {
	data string
	pos  int
}

func (l *lexer) next() token {
	for l.pos < len(l.data) && (l.data[l.pos] == ' ' || l.data[l.pos] == '\t') {
		l.pos += 1
	}
	if l.pos >= len(l.data) {
		return token{kind: eofTok, pos: l.pos}
	}

	pos := l.pos
	c := l.data[pos]
	l.pos += 1
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		for l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '9' {
			l.pos += 1
		}
		if num, err := strconv.ParseInt(l.data[pos:l.pos], 10, 32); err == nil {
			return token{kind: numTok, num: int(num), pos: pos}
		}
		return token{kind: invalidTok, pos: pos}
	case 'n':
		return token{kind: varTok, pos: pos}
	case '=':
		if l.pos < len(l.data) && l.data[l.pos] == '=' {
			l.pos += 1
			return token{kind: opTok, op: "==", pos: pos}
		}
		return token{kind: invalidTok, pos: pos}
	case '!', '<', '>':
		if l.pos < len(l.data) && l.data[l.pos] == '=' {
			l.pos += 1
			return token{kind: opTok, op: string(c) + "=", pos: pos}
		}
		return token{kind: opTok, op: string(c), pos: pos}
	case '&', '|':
		if l.pos < len(l.data) && l.data[l.pos] == c {
			l.pos += 1
			return token{kind: opTok, op: string(c) + string(c), pos: pos}
		}
		return token{kind: invalidTok, pos: pos}
	case '?', ':', '(', ')', '*', '/', '%', '+', '-':
		return token{kind: opTok, op: string(c), pos: pos}
	case ';', '\n':
		// end of the expression in a Plural-Forms header
		l.pos = len(l.data)
		return token{kind: eofTok, pos: pos}
	default:
		return token{kind: invalidTok, pos: pos}
	}
}

// parser is a precedence climbing parser for the C subset used in
// Plural-Forms expressions.
type parser struct {
	lex lexer
	tok token
}

func (p *parser) advance() {
	p.tok = p.lex.next()
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("cannot parse expression: at offset %d: %s", p.tok.pos, fmt.Sprintf(format, args...))
}

func (p *parser) isOp(ops ...string) bool {
	if p.tok.kind != opTok {
		return false
	}
	for _, op := range ops {
		if p.tok.op == op {
			return true
		}
	}
	return false
}

func (p *parser) ternary() (Expression, error) {
	test, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.isOp("?") {
		return test, nil
	}
	p.advance()
	ifTrue, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if !p.isOp(":") {
		return nil, p.errorf("expected ':'")
	}
	p.advance()
	ifFalse, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return ternaryExpr{test: test, ifTrue: ifTrue, ifFalse: ifFalse}, nil
}

// binary parses a left associative chain of the operators in ops, with
// operands produced by sub.
func (p *parser) binary(sub func() (Expression, error), build func(op string, left, right Expression) Expression, ops ...string) (Expression, error) {
	left, err := sub()
	if err != nil {
		return nil, err
	}
	for p.isOp(ops...) {
		op := p.tok.op
		p.advance()
		right, err := sub()
		if err != nil {
			return nil, err
		}
		left = build(op, left, right)
	}
	return left, nil
}

func (p *parser) or() (Expression, error) {
	return p.binary(p.and, func(_ string, l, r Expression) Expression {
		return orExpr{left: l, right: r}
	}, "||")
}

func (p *parser) and() (Expression, error) {
	return p.binary(p.equality, func(_ string, l, r Expression) Expression {
		return andExpr{left: l, right: r}
	}, "&&")
}

func (p *parser) equality() (Expression, error) {
	return p.binary(p.relational, func(op string, l, r Expression) Expression {
		if op == "==" {
			return eqExpr{left: l, right: r}
		}
		return neExpr{left: l, right: r}
	}, "==", "!=")
}

func (p *parser) relational() (Expression, error) {
	return p.binary(p.additive, func(op string, l, r Expression) Expression {
		switch op {
		case "<":
			return ltExpr{left: l, right: r}
		case "<=":
			return lteExpr{left: l, right: r}
		case ">":
			return gtExpr{left: l, right: r}
		default:
			return gteExpr{left: l, right: r}
		}
	}, "<", "<=", ">", ">=")
}

func (p *parser) additive() (Expression, error) {
	return p.binary(p.multiplicative, func(op string, l, r Expression) Expression {
		if op == "+" {
			return addExpr{left: l, right: r}
		}
		return subExpr{left: l, right: r}
	}, "+", "-")
}

func (p *parser) multiplicative() (Expression, error) {
	return p.binary(p.unary, func(op string, l, r Expression) Expression {
		switch op {
		case "*":
			return mulExpr{left: l, right: r}
		case "/":
			return divExpr{left: l, right: r}
		default:
			return modExpr{left: l, right: r}
		}
	}, "*", "/", "%")
}

func (p *parser) unary() (Expression, error) {
	if p.isOp("!") {
		p.advance()
		sub, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notExpr{sub: sub}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Expression, error) {
	switch p.tok.kind {
	case numTok:
		e := numberExpr{p.tok.num}
		p.advance()
		return e, nil
	case varTok:
		p.advance()
		return varExpr{}, nil
	case opTok:
		if p.tok.op != "(" {
			return nil, p.errorf("unexpected %q", p.tok.op)
		}
		p.advance()
		e, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if !p.isOp(")") {
			return nil, p.errorf("expected ')'")
		}
		p.advance()
		return e, nil
	case eofTok:
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("invalid character")
}

// Compile a string containing a plural form expression to a Expression object.
func Compile(expr string) (Expression, error) {
	p := parser{lex: lexer{data: expr}}
	p.advance()
	e, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != eofTok {
		return nil, p.errorf("trailing input")
	}
	return e, nil
}

// ParseHeader parses a complete Plural-Forms header value such as
// "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : 1);" and returns the
// number of forms along with the compiled selector.
func ParseHeader(header string) (nplurals int, expr Expression, err error) {
	var pluralExpr string
	for _, part := range strings.Split(header, ";") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.TrimSpace(kv[0]) {
		case "nplurals":
			nplurals, err = strconv.Atoi(strings.TrimSpace(kv[1]))
			if err != nil {
				return 0, nil, fmt.Errorf("invalid nplurals: %v", err)
			}
		case "plural":
			pluralExpr = kv[1]
		}
	}
	if nplurals <= 0 {
		return 0, nil, fmt.Errorf("missing or invalid nplurals in %q", header)
	}
	if pluralExpr == "" {
		return 0, nil, fmt.Errorf("missing plural expression in %q", header)
	}
	expr, err = Compile(pluralExpr)
	if err != nil {
		return 0, nil, err
	}
	return nplurals, expr, nil
}
