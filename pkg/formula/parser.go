package formula

import "fmt"

// The expression language is deliberately small. It supports exactly what a
// schema author can write in a calculated field:
//
//	expr        = comparison [ "?" string ":" string ]
//	comparison  = additive [ ("<=" | "<" | ">=" | ">" | "==" | "!=") additive ]
//	additive    = multiplicative { ("+" | "-") multiplicative }
//	multiplicative = unary { ("*" | "/") unary }
//	unary       = "-" unary | primary
//	primary     = number | identifier | "(" expr ")"
//
// Formulas are interpreted over a bounded AST. There is no function call,
// no assignment and no way to reach outside the value map, so user-authored
// schema text cannot execute arbitrary logic.
type node interface{}

type numberNode struct{ value float64 }

type identNode struct{ name string }

type unaryNode struct {
	op tokenKind
	x  node
}

type binaryNode struct {
	op   tokenKind
	l, r node
}

// condNode is the conditional form: the branches are literals returned
// verbatim, never evaluated.
type condNode struct {
	cond      node
	then, els string
}

type parser struct {
	toks []token
	pos  int
}

func parse(src string) (node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("formula: unexpected trailing input at %q", p.peek().text)
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, fmt.Errorf("formula: expected %s, got %q", what, t.text)
	}
	return t, nil
}

func (p *parser) parseExpr() (node, error) {
	cond, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokQuestion {
		return cond, nil
	}
	p.next()
	then, err := p.expect(tokString, "string literal")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, `":"`); err != nil {
		return nil, err
	}
	els, err := p.expect(tokString, "string literal")
	if err != nil {
		return nil, err
	}
	return &condNode{cond: cond, then: then.text, els: els.text}, nil
}

func (p *parser) parseComparison() (node, error) {
	l, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	switch p.peek().kind {
	case tokLE, tokLT, tokGE, tokGT, tokEQ, tokNE:
		op := p.next().kind
		r, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: op, l: l, r: r}, nil
	}
	return l, nil
}

func (p *parser) parseAdditive() (node, error) {
	l, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokPlus || p.peek().kind == tokMinus {
		op := p.next().kind
		r, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		l = &binaryNode{op: op, l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseMultiplicative() (node, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokStar || p.peek().kind == tokSlash {
		op := p.next().kind
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = &binaryNode{op: op, l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tokMinus {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: tokMinus, x: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &numberNode{value: t.num}, nil
	case tokIdent:
		return &identNode{name: t.text}, nil
	case tokLParen:
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, `")"`); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("formula: expected operand, got %q", t.text)
	}
}
