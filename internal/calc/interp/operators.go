package interp

import (
	"strings"

	"github.com/dev-jelly/yui/internal/calc/calcerr"
	"github.com/dev-jelly/yui/internal/calc/numeric"
)

// isTruthy implements the host language's truthiness rules, used by if/while
// tests, boolean short-circuit operators, and `not`.
func isTruthy(v Value) bool {
	switch vv := v.(type) {
	case None:
		return false
	case Bool:
		return vv.B
	case Number:
		return vv.Dom.Sign(vv.S) != 0
	case Str:
		return vv.S != ""
	case Bytes:
		return len(vv.B) != 0
	case *List:
		return len(vv.Items) != 0
	case Tuple:
		return len(vv.Items) != 0
	case *Set:
		return vv.Len() != 0
	case *Dict:
		return vv.Len() != 0
	default:
		return true
	}
}

// binaryOp dispatches `a OP b` for the full spec.md §4.4 operator set, plus
// the set operators `&`/`|`/`-` (intersection, union, difference) and the
// container-level `+`/`*` overloads (list/tuple concatenation and
// repetition, string concatenation) that sit alongside the numeric domain
// rather than inside it.
func binaryOp(op string, a, b Value) (Value, error) {
	if op == "@" {
		return nil, calcerr.NewRuntimeError("unsupported operand type(s) for @: %q and %q", a.Kind(), b.Kind())
	}

	an, aIsNum := a.(Number)
	bn, bIsNum := b.(Number)
	if aIsNum && bIsNum {
		return numberBinaryOp(op, an, bn)
	}

	if as, ok := a.(*Set); ok {
		if bs, ok := b.(*Set); ok {
			switch op {
			case "&":
				return setIntersection(as, bs), nil
			case "|":
				return setUnion(as, bs), nil
			case "-":
				return setDifference(as, bs), nil
			}
		}
	}

	switch op {
	case "+":
		return addValues(a, b)
	case "*":
		return mulValues(a, b)
	}
	return nil, calcerr.NewRuntimeError("unsupported operand type(s) for %s: %q and %q", op, a.Kind(), b.Kind())
}

func numberBinaryOp(op string, a, b Number) (Value, error) {
	dom := a.Dom
	var (
		sc  numeric.Scalar
		err error
	)
	switch op {
	case "+":
		sc, err = dom.Add(a.S, b.S)
	case "-":
		sc, err = dom.Sub(a.S, b.S)
	case "*":
		sc, err = dom.Mul(a.S, b.S)
	case "/":
		sc, err = dom.TrueDiv(a.S, b.S)
	case "//":
		sc, err = dom.FloorDiv(a.S, b.S)
	case "%":
		sc, err = dom.Mod(a.S, b.S)
	case "**":
		sc, err = dom.Pow(a.S, b.S)
	case "&":
		sc, err = dom.And(a.S, b.S)
	case "|":
		sc, err = dom.Or(a.S, b.S)
	case "^":
		sc, err = dom.Xor(a.S, b.S)
	case "<<":
		sc, err = dom.Lshift(a.S, b.S)
	case ">>":
		sc, err = dom.Rshift(a.S, b.S)
	default:
		return nil, calcerr.NewRuntimeError("unsupported operand type(s) for %s: 'number' and 'number'", op)
	}
	if err != nil {
		return nil, err
	}
	return Number{Dom: dom, S: sc}, nil
}

func addValues(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Str:
		if bv, ok := b.(Str); ok {
			return Str{S: av.S + bv.S}, nil
		}
	case *List:
		if bv, ok := b.(*List); ok {
			out := make([]Value, 0, len(av.Items)+len(bv.Items))
			out = append(out, av.Items...)
			out = append(out, bv.Items...)
			return &List{Items: out}, nil
		}
	case Tuple:
		if bv, ok := b.(Tuple); ok {
			out := make([]Value, 0, len(av.Items)+len(bv.Items))
			out = append(out, av.Items...)
			out = append(out, bv.Items...)
			return Tuple{Items: out}, nil
		}
	}
	return nil, calcerr.NewRuntimeError("unsupported operand type(s) for +: %q and %q", a.Kind(), b.Kind())
}

func mulValues(a, b Value) (Value, error) {
	rep := func(seq Value, n int64) (Value, error) {
		if n < 0 {
			n = 0
		}
		switch sv := seq.(type) {
		case *List:
			out := make([]Value, 0, int64(len(sv.Items))*n)
			for i := int64(0); i < n; i++ {
				out = append(out, sv.Items...)
			}
			return &List{Items: out}, nil
		case Tuple:
			out := make([]Value, 0, int64(len(sv.Items))*n)
			for i := int64(0); i < n; i++ {
				out = append(out, sv.Items...)
			}
			return Tuple{Items: out}, nil
		case Str:
			return Str{S: strings.Repeat(sv.S, int(n))}, nil
		}
		return nil, calcerr.NewRuntimeError("unsupported operand type(s) for *: %q and %q", seq.Kind(), "int")
	}
	if n, ok := a.(Number); ok {
		if iv, isInt := n.Dom.ToInt64(n.S); isInt {
			return rep(b, iv)
		}
	}
	if n, ok := b.(Number); ok {
		if iv, isInt := n.Dom.ToInt64(n.S); isInt {
			return rep(a, iv)
		}
	}
	return nil, calcerr.NewRuntimeError("unsupported operand type(s) for *: %q and %q", a.Kind(), b.Kind())
}

// unaryOp implements spec.md §4.4's unary operator set.
func unaryOp(op string, v Value) (Value, error) {
	switch op {
	case "not":
		return Bool{B: !isTruthy(v)}, nil
	}
	n, ok := v.(Number)
	if !ok {
		return nil, calcerr.NewRuntimeError("bad operand type for unary %s: %q", op, v.Kind())
	}
	switch op {
	case "-":
		sc, err := n.Dom.Neg(n.S)
		if err != nil {
			return nil, err
		}
		return Number{Dom: n.Dom, S: sc}, nil
	case "+":
		sc, err := n.Dom.Pos(n.S)
		if err != nil {
			return nil, err
		}
		return Number{Dom: n.Dom, S: sc}, nil
	case "~":
		sc, err := n.Dom.Invert(n.S)
		if err != nil {
			return nil, err
		}
		return Number{Dom: n.Dom, S: sc}, nil
	}
	return nil, calcerr.NewRuntimeError("unknown unary operator %s", op)
}

// compareOne implements a single step of a (possibly chained) comparison.
func compareOne(op string, a, b Value) (bool, error) {
	switch op {
	case "==":
		return valuesEqual(a, b), nil
	case "!=":
		return !valuesEqual(a, b), nil
	case "is":
		return isIdentical(a, b), nil
	case "is not":
		return !isIdentical(a, b), nil
	case "in":
		ok, err := containsValue(b, a)
		return ok, err
	case "not in":
		ok, err := containsValue(b, a)
		return !ok, err
	}

	an, aIsNum := a.(Number)
	bn, bIsNum := b.(Number)
	if aIsNum && bIsNum {
		c, err := an.Dom.Cmp(an.S, bn.S)
		if err != nil {
			return false, err
		}
		return applyOrdering(op, c)
	}
	if as, ok := a.(Str); ok {
		if bs, ok := b.(Str); ok {
			return applyOrdering(op, strings.Compare(as.S, bs.S))
		}
	}
	return false, calcerr.NewRuntimeError("'%s' not supported between instances of %q and %q", op, a.Kind(), b.Kind())
}

func applyOrdering(op string, c int) (bool, error) {
	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	}
	return false, calcerr.NewRuntimeError("unknown comparison operator %s", op)
}

// isIdentical approximates host object-identity semantics (spec.md §9's
// open question: `is`/`is not` meaning is preserved from the host language,
// not redefined). Immutable scalars compare by value, mirroring small-object
// identity caching; mutable containers compare by the Go pointer backing
// them, since two separately-built containers are never the same object.
func isIdentical(a, b Value) bool {
	switch av := a.(type) {
	case *List:
		bv, ok := b.(*List)
		return ok && av == bv
	case *Dict:
		bv, ok := b.(*Dict)
		return ok && av == bv
	case *Set:
		bv, ok := b.(*Set)
		return ok && av == bv
	default:
		return valuesEqual(a, b)
	}
}

// containsValue implements `needle in haystack`.
func containsValue(haystack, needle Value) (bool, error) {
	switch hv := haystack.(type) {
	case *List:
		for _, it := range hv.Items {
			if valuesEqual(it, needle) {
				return true, nil
			}
		}
		return false, nil
	case Tuple:
		for _, it := range hv.Items {
			if valuesEqual(it, needle) {
				return true, nil
			}
		}
		return false, nil
	case *Set:
		return hv.Has(needle), nil
	case *Dict:
		_, ok := hv.Get(needle)
		return ok, nil
	case Str:
		n, ok := needle.(Str)
		if !ok {
			return false, calcerr.NewRuntimeError("'in <string>' requires string as left operand")
		}
		return strings.Contains(hv.S, n.S), nil
	}
	return false, calcerr.NewRuntimeError("argument of type %q is not iterable", haystack.Kind())
}
