package interp

import (
	"strings"

	"github.com/dev-jelly/yui/internal/calc/calcerr"
	"github.com/dev-jelly/yui/internal/calc/numeric"
)

// GetAttr implementations below back the small "known type" safe-method
// surface spec.md §4.2 alludes to ("other pre-bound objects") and
// SPEC_FULL.md §4.2a concretizes for the built-in container/string types.
// Each method name returned here must also appear in the policy package's
// attribute allow-list for that Kind(), or the read never reaches here.

func (l *List) GetAttr(name string) (Value, bool) {
	switch name {
	case "count":
		return Callable{Name: "list.count", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, calcerr.NewRuntimeError("count() takes exactly one argument (%d given)", len(args))
			}
			n := 0
			for _, it := range l.Items {
				if valuesEqual(it, args[0]) {
					n++
				}
			}
			return intResult(n), nil
		}}, true
	case "index":
		return Callable{Name: "list.index", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, calcerr.NewRuntimeError("index() takes exactly one argument (%d given)", len(args))
			}
			for i, it := range l.Items {
				if valuesEqual(it, args[0]) {
					return intResult(i), nil
				}
			}
			return nil, calcerr.NewRuntimeError("%s is not in list", args[0].String())
		}}, true
	}
	return nil, false
}

func (t Tuple) GetAttr(name string) (Value, bool) {
	switch name {
	case "count":
		return Callable{Name: "tuple.count", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, calcerr.NewRuntimeError("count() takes exactly one argument (%d given)", len(args))
			}
			n := 0
			for _, it := range t.Items {
				if valuesEqual(it, args[0]) {
					n++
				}
			}
			return intResult(n), nil
		}}, true
	case "index":
		return Callable{Name: "tuple.index", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, calcerr.NewRuntimeError("index() takes exactly one argument (%d given)", len(args))
			}
			for i, it := range t.Items {
				if valuesEqual(it, args[0]) {
					return intResult(i), nil
				}
			}
			return nil, calcerr.NewRuntimeError("%s is not in tuple", args[0].String())
		}}, true
	}
	return nil, false
}

func (d *Dict) GetAttr(name string) (Value, bool) {
	switch name {
	case "items":
		return Callable{Name: "dict.items", Fn: func([]Value, map[string]Value) (Value, error) {
			items := make([]Value, len(d.keys))
			for i := range d.keys {
				items[i] = Tuple{Items: []Value{d.keys[i], d.vals[i]}}
			}
			return &List{Items: items}, nil
		}}, true
	case "keys":
		return Callable{Name: "dict.keys", Fn: func([]Value, map[string]Value) (Value, error) {
			out := make([]Value, len(d.keys))
			copy(out, d.keys)
			return &List{Items: out}, nil
		}}, true
	case "values":
		return Callable{Name: "dict.values", Fn: func([]Value, map[string]Value) (Value, error) {
			out := make([]Value, len(d.vals))
			copy(out, d.vals)
			return &List{Items: out}, nil
		}}, true
	case "get":
		return Callable{Name: "dict.get", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			if len(args) < 1 {
				return nil, calcerr.NewRuntimeError("get() takes at least one argument")
			}
			if v, ok := d.Get(args[0]); ok {
				return v, nil
			}
			if len(args) > 1 {
				return args[1], nil
			}
			return None{}, nil
		}}, true
	}
	return nil, false
}

func (s *Set) GetAttr(name string) (Value, bool) {
	switch name {
	case "union":
		return Callable{Name: "set.union", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			other, ok := args[0].(*Set)
			if !ok {
				return nil, calcerr.NewRuntimeError("union() argument must be a set")
			}
			return setUnion(s, other), nil
		}}, true
	case "intersection":
		return Callable{Name: "set.intersection", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			other, ok := args[0].(*Set)
			if !ok {
				return nil, calcerr.NewRuntimeError("intersection() argument must be a set")
			}
			return setIntersection(s, other), nil
		}}, true
	case "difference":
		return Callable{Name: "set.difference", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			other, ok := args[0].(*Set)
			if !ok {
				return nil, calcerr.NewRuntimeError("difference() argument must be a set")
			}
			return setDifference(s, other), nil
		}}, true
	}
	return nil, false
}

func (s Str) GetAttr(name string) (Value, bool) {
	switch name {
	case "format":
		return Callable{Name: "str.format", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			out := s.S
			for _, a := range args {
				out = strings.Replace(out, "{}", a.String(), 1)
			}
			return Str{S: out}, nil
		}}, true
	case "upper":
		return Callable{Name: "str.upper", Fn: func([]Value, map[string]Value) (Value, error) {
			return Str{S: strings.ToUpper(s.S)}, nil
		}}, true
	case "lower":
		return Callable{Name: "str.lower", Fn: func([]Value, map[string]Value) (Value, error) {
			return Str{S: strings.ToLower(s.S)}, nil
		}}, true
	case "strip":
		return Callable{Name: "str.strip", Fn: func([]Value, map[string]Value) (Value, error) {
			return Str{S: strings.TrimSpace(s.S)}, nil
		}}, true
	case "split":
		return Callable{Name: "str.split", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			sep := " "
			if len(args) > 0 {
				if ss, ok := args[0].(Str); ok {
					sep = ss.S
				}
			}
			parts := strings.Split(s.S, sep)
			items := make([]Value, len(parts))
			for i, p := range parts {
				items[i] = Str{S: p}
			}
			return &List{Items: items}, nil
		}}, true
	case "join":
		return Callable{Name: "str.join", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, calcerr.NewRuntimeError("join() takes exactly one argument")
			}
			var parts []string
			switch seq := args[0].(type) {
			case *List:
				for _, v := range seq.Items {
					parts = append(parts, v.String())
				}
			case Tuple:
				for _, v := range seq.Items {
					parts = append(parts, v.String())
				}
			default:
				return nil, calcerr.NewRuntimeError("can only join an iterable")
			}
			return Str{S: strings.Join(parts, s.S)}, nil
		}}, true
	case "replace":
		return Callable{Name: "str.replace", Fn: func(args []Value, _ map[string]Value) (Value, error) {
			if len(args) != 2 {
				return nil, calcerr.NewRuntimeError("replace() takes exactly two arguments")
			}
			old, _ := args[0].(Str)
			newS, _ := args[1].(Str)
			return Str{S: strings.ReplaceAll(s.S, old.S, newS.S)}, nil
		}}, true
	}
	return nil, false
}

// valuesEqual reports structural equality between two runtime values,
// used by list.count/list.index and by `in`/`not in`/`==` comparisons.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av.Dom.Equal(av.S, bv.S)
	case Str:
		bv, ok := b.(Str)
		return ok && av.S == bv.S
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.B == bv.B
	case None:
		_, ok := b.(None)
		return ok
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !valuesEqual(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !valuesEqual(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	default:
		return a.String() == b.String()
	}
}

// intResult builds a Number in the native int domain for host-produced
// counts/indices (list.count, list.index) rather than arithmetic over
// operands — these never need to inherit a caller's decimal domain since
// they only ever feed into comparisons or further native-domain arithmetic.
func intResult(n int) Value {
	return Number{Dom: numeric.Native, S: numeric.Native.FromInt(int64(n))}
}
