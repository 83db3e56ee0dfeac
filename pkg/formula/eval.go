// Package formula parses and evaluates the restricted arithmetic and
// conditional expression language used by calculated logbook fields.
//
// Evaluation never panics and never returns an error: any malformed
// expression, unresolved field reference, non-numeric operand or non-finite
// intermediate result yields an Absent value, which the host renders as an
// empty placeholder rather than a form-blocking error.
package formula

import (
	"math"

	"github.com/svu-enterprises/certcore/pkg/schema"
)

// Check reports whether a formula parses. Schema tooling uses it to reject
// broken formulas at authoring time; evaluation itself stays error-free.
func Check(src string) error {
	_, err := parse(src)
	return err
}

// Evaluate interprets a formula against the current value map. Identifiers
// resolve by field id first, then by the human-readable name from the alias
// table. An arithmetic formula yields a Number, the conditional form yields
// one of its two literal branches as a String, and anything that cannot be
// computed yields Absent.
func Evaluate(src string, values schema.ValueMap, aliases []schema.Alias) schema.Value {
	root, err := parse(src)
	if err != nil {
		return schema.Absent()
	}

	env := &env{values: values, byName: make(map[string]string, len(aliases))}
	for _, a := range aliases {
		if a.Name == "" || a.Name == a.ID {
			continue
		}
		if _, taken := env.byName[a.Name]; !taken {
			env.byName[a.Name] = a.ID
		}
	}

	res, ok := eval(root, env)
	if !ok {
		return schema.Absent()
	}
	switch res.kind {
	case rNumber:
		return schema.Number(res.num)
	case rText:
		return schema.String(res.text)
	default:
		// A bare comparison has no place in the output type.
		return schema.Absent()
	}
}

type env struct {
	values schema.ValueMap
	byName map[string]string // field name -> field id
}

// lookup coerces the referenced field to a number. Field ids shadow names:
// a token that is both some field's id and another field's name resolves to
// the id.
func (e *env) lookup(ident string) (float64, bool) {
	v, present := e.values[ident]
	if !present {
		id, aliased := e.byName[ident]
		if !aliased {
			return 0, false
		}
		v = e.values[id]
	}
	if v.IsAbsent() {
		return 0, false
	}
	return v.AsNumber()
}

type resultKind int

const (
	rNumber resultKind = iota
	rBool
	rText
)

type result struct {
	kind resultKind
	num  float64
	b    bool
	text string
}

func eval(n node, e *env) (result, bool) {
	switch x := n.(type) {
	case *numberNode:
		return result{kind: rNumber, num: x.value}, true
	case *identNode:
		f, ok := e.lookup(x.name)
		if !ok {
			return result{}, false
		}
		return result{kind: rNumber, num: f}, true
	case *unaryNode:
		v, ok := evalNumber(x.x, e)
		if !ok {
			return result{}, false
		}
		return result{kind: rNumber, num: -v}, true
	case *binaryNode:
		return evalBinary(x, e)
	case *condNode:
		c, ok := eval(x.cond, e)
		if !ok || c.kind != rBool {
			return result{}, false
		}
		if c.b {
			return result{kind: rText, text: x.then}, true
		}
		return result{kind: rText, text: x.els}, true
	default:
		return result{}, false
	}
}

func evalBinary(n *binaryNode, e *env) (result, bool) {
	l, ok := evalNumber(n.l, e)
	if !ok {
		return result{}, false
	}
	r, ok := evalNumber(n.r, e)
	if !ok {
		return result{}, false
	}
	switch n.op {
	case tokPlus, tokMinus, tokStar, tokSlash:
		var v float64
		switch n.op {
		case tokPlus:
			v = l + r
		case tokMinus:
			v = l - r
		case tokStar:
			v = l * r
		case tokSlash:
			v = l / r
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return result{}, false
		}
		return result{kind: rNumber, num: v}, true
	case tokLE:
		return result{kind: rBool, b: l <= r}, true
	case tokLT:
		return result{kind: rBool, b: l < r}, true
	case tokGE:
		return result{kind: rBool, b: l >= r}, true
	case tokGT:
		return result{kind: rBool, b: l > r}, true
	case tokEQ:
		return result{kind: rBool, b: l == r}, true
	case tokNE:
		return result{kind: rBool, b: l != r}, true
	default:
		return result{}, false
	}
}

func evalNumber(n node, e *env) (float64, bool) {
	res, ok := eval(n, e)
	if !ok || res.kind != rNumber {
		return 0, false
	}
	return res.num, true
}
