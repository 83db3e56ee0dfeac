package formula

import (
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokString
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokLT
	tokLE
	tokGT
	tokGE
	tokEQ
	tokNE
	tokQuestion
	tokColon
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

// lex tokenizes a formula. Identifiers are consumed atomically, which gives
// the token-boundary guarantee for free: a field id that is a substring of
// another id can never be matched inside it.
func lex(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			i++
		case r >= '0' && r <= '9' || r == '.':
			start := i
			for i < len(runes) && (runes[i] >= '0' && runes[i] <= '9' || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("formula: bad number %q", text)
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: f})
		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i])})
		case r == '"' || r == '\'':
			quote := r
			i++
			start := i
			for i < len(runes) && runes[i] != quote {
				i++
			}
			if i >= len(runes) {
				return nil, fmt.Errorf("formula: unterminated string literal")
			}
			toks = append(toks, token{kind: tokString, text: string(runes[start:i])})
			i++
		default:
			kind, width, err := lexOperator(runes[i:])
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: kind, text: string(runes[i : i+width])})
			i += width
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

func lexOperator(rest []rune) (tokenKind, int, error) {
	two := ""
	if len(rest) >= 2 {
		two = string(rest[:2])
	}
	switch two {
	case "<=":
		return tokLE, 2, nil
	case ">=":
		return tokGE, 2, nil
	case "==":
		return tokEQ, 2, nil
	case "!=":
		return tokNE, 2, nil
	}
	switch rest[0] {
	case '+':
		return tokPlus, 1, nil
	case '-':
		return tokMinus, 1, nil
	case '*':
		return tokStar, 1, nil
	case '/':
		return tokSlash, 1, nil
	case '(':
		return tokLParen, 1, nil
	case ')':
		return tokRParen, 1, nil
	case '<':
		return tokLT, 1, nil
	case '>':
		return tokGT, 1, nil
	case '?':
		return tokQuestion, 1, nil
	case ':':
		return tokColon, 1, nil
	}
	return tokEOF, 0, fmt.Errorf("formula: unexpected character %q", string(rest[0]))
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
