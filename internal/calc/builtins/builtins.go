package builtins

import (
	"strconv"

	"github.com/dev-jelly/yui/internal/calc/calcerr"
	"github.com/dev-jelly/yui/internal/calc/interp"
	"github.com/dev-jelly/yui/internal/calc/numeric"
)

// DefaultSeed builds the environment seed map spec.md §6 describes as "the
// system as shipped": math, date, datetime, and the restricted builtins
// list. dom selects which numeric domain every produced Number carries.
func DefaultSeed(dom numeric.Domain) map[string]interp.Value {
	seed := map[string]interp.Value{
		"math":     mathModule(dom),
		"date":     dateConstructor(dom),
		"datetime": datetimeClass(dom),
	}
	for name, fn := range commonBuiltins(dom) {
		seed[name] = fn
	}
	return seed
}

func commonBuiltins(dom numeric.Domain) map[string]interp.Value {
	return map[string]interp.Value{
		"round": interp.Callable{Name: "round", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			f, err := argFloat(args, 0)
			if err != nil {
				return nil, err
			}
			ndigits := 0
			if len(args) > 1 {
				n, err := argInt(args, 1)
				if err != nil {
					return nil, err
				}
				ndigits = int(n)
			}
			scale := 1.0
			for i := 0; i < ndigits; i++ {
				scale *= 10
			}
			for i := 0; i > ndigits; i-- {
				scale /= 10
			}
			rounded := roundHalfEven(f*scale) / scale
			text := strconv.FormatFloat(rounded, 'f', -1, 64)
			if ndigits <= 0 {
				sc, err := dom.FromIntText(strconv.FormatInt(int64(rounded), 10))
				if err != nil {
					return nil, err
				}
				return interp.Number{Dom: dom, S: sc}, nil
			}
			sc, err := dom.FromFloatText(text)
			if err != nil {
				return nil, err
			}
			return interp.Number{Dom: dom, S: sc}, nil
		}},
		"max": interp.Callable{Name: "max", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			return extremum(args, false)
		}},
		"min": interp.Callable{Name: "min", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			return extremum(args, true)
		}},
		"len": interp.Callable{Name: "len", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			if len(args) != 1 {
				return nil, calcerr.NewRuntimeError("len() takes exactly one argument (%d given)", len(args))
			}
			n, err := lengthOf(args[0])
			if err != nil {
				return nil, err
			}
			return interp.Number{Dom: dom, S: dom.FromInt(int64(n))}, nil
		}},
		"abs": interp.Callable{Name: "abs", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			n, ok := single(args).(interp.Number)
			if !ok {
				return nil, calcerr.NewRuntimeError("bad operand type for abs()")
			}
			if n.Dom.Sign(n.S) < 0 {
				sc, err := n.Dom.Neg(n.S)
				if err != nil {
					return nil, err
				}
				return interp.Number{Dom: n.Dom, S: sc}, nil
			}
			return n, nil
		}},
		"str": interp.Callable{Name: "str", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			return interp.Str{S: single(args).String()}, nil
		}},
		"int": interp.Callable{Name: "int", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			return toInt(dom, single(args))
		}},
		"float": interp.Callable{Name: "float", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			return toFloat(dom, single(args))
		}},
		"list": interp.Callable{Name: "list", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			if len(args) == 0 {
				return &interp.List{}, nil
			}
			items, err := toItems(args[0])
			if err != nil {
				return nil, err
			}
			out := make([]interp.Value, len(items))
			copy(out, items)
			return &interp.List{Items: out}, nil
		}},
		"tuple": interp.Callable{Name: "tuple", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			if len(args) == 0 {
				return interp.Tuple{}, nil
			}
			items, err := toItems(args[0])
			if err != nil {
				return nil, err
			}
			out := make([]interp.Value, len(items))
			copy(out, items)
			return interp.Tuple{Items: out}, nil
		}},
		"set": interp.Callable{Name: "set", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			s := interp.NewSet()
			if len(args) == 0 {
				return s, nil
			}
			items, err := toItems(args[0])
			if err != nil {
				return nil, err
			}
			for _, it := range items {
				s.Add(it)
			}
			return s, nil
		}},
		"dict": interp.Callable{Name: "dict", Fn: func(args []interp.Value, kwargs map[string]interp.Value) (interp.Value, error) {
			d := interp.NewDict()
			for k, v := range kwargs {
				d.Set(interp.Str{S: k}, v)
			}
			return d, nil
		}},
	}
}

func single(args []interp.Value) interp.Value {
	if len(args) == 0 {
		return interp.None{}
	}
	return args[0]
}

func argFloat(args []interp.Value, i int) (float64, error) {
	if i >= len(args) {
		return 0, calcerr.NewRuntimeError("missing required argument")
	}
	n, ok := args[i].(interp.Number)
	if !ok {
		return 0, calcerr.NewRuntimeError("expected a number argument, got %q", args[i].Kind())
	}
	return n.Dom.ToFloat64(n.S), nil
}

func argInt(args []interp.Value, i int) (int64, error) {
	if i >= len(args) {
		return 0, calcerr.NewRuntimeError("missing required argument")
	}
	n, ok := args[i].(interp.Number)
	if !ok {
		return 0, calcerr.NewRuntimeError("expected a number argument, got %q", args[i].Kind())
	}
	iv, ok := n.Dom.ToInt64(n.S)
	if !ok {
		return 0, calcerr.NewRuntimeError("expected an integer argument")
	}
	return iv, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func roundHalfEven(f float64) float64 {
	floor := float64(int64(f))
	if floor > f {
		floor--
	}
	diff := f - floor
	switch {
	case diff < 0.5:
		return floor
	case diff > 0.5:
		return floor + 1
	default:
		if int64(floor)%2 == 0 {
			return floor
		}
		return floor + 1
	}
}

func extremum(args []interp.Value, wantMin bool) (interp.Value, error) {
	items := args
	if len(args) == 1 {
		seq, err := toItems(args[0])
		if err == nil {
			items = seq
		}
	}
	if len(items) == 0 {
		return nil, calcerr.NewRuntimeError("max()/min() arg is an empty sequence")
	}
	best := items[0]
	for _, it := range items[1:] {
		less, err := valueLess(it, best)
		if err != nil {
			return nil, err
		}
		if (wantMin && less) || (!wantMin && !less && !valuesEqualPublic(it, best)) {
			best = it
		}
	}
	return best, nil
}

func valueLess(a, b interp.Value) (bool, error) {
	an, aok := a.(interp.Number)
	bn, bok := b.(interp.Number)
	if aok && bok {
		c, err := an.Dom.Cmp(an.S, bn.S)
		return c < 0, err
	}
	return a.String() < b.String(), nil
}

func valuesEqualPublic(a, b interp.Value) bool {
	return a.String() == b.String()
}

func lengthOf(v interp.Value) (int, error) {
	switch vv := v.(type) {
	case interp.Str:
		return len([]rune(vv.S)), nil
	case *interp.List:
		return len(vv.Items), nil
	case interp.Tuple:
		return len(vv.Items), nil
	case *interp.Set:
		return vv.Len(), nil
	case *interp.Dict:
		return vv.Len(), nil
	}
	return 0, calcerr.NewRuntimeError("object of type %q has no len()", v.Kind())
}

func toItems(v interp.Value) ([]interp.Value, error) {
	switch vv := v.(type) {
	case *interp.List:
		return vv.Items, nil
	case interp.Tuple:
		return vv.Items, nil
	case *interp.Set:
		return vv.Items(), nil
	case *interp.Dict:
		return vv.Keys(), nil
	case interp.Str:
		runes := []rune(vv.S)
		out := make([]interp.Value, len(runes))
		for i, r := range runes {
			out[i] = interp.Str{S: string(r)}
		}
		return out, nil
	}
	return nil, calcerr.NewRuntimeError("%q object is not iterable", v.Kind())
}

func toInt(dom numeric.Domain, v interp.Value) (interp.Value, error) {
	switch vv := v.(type) {
	case interp.Number:
		iv, ok := vv.Dom.ToInt64(vv.S)
		if !ok {
			iv = int64(vv.Dom.ToFloat64(vv.S))
		}
		return interp.Number{Dom: dom, S: dom.FromInt(iv)}, nil
	case interp.Str:
		sc, err := dom.FromIntText(vv.S)
		if err != nil {
			return nil, calcerr.NewRuntimeError("invalid literal for int() with base 10: %q", vv.S)
		}
		return interp.Number{Dom: dom, S: sc}, nil
	case interp.Bool:
		b := int64(0)
		if vv.B {
			b = 1
		}
		return interp.Number{Dom: dom, S: dom.FromInt(b)}, nil
	}
	return nil, calcerr.NewRuntimeError("int() argument must be a string or a number, not %q", v.Kind())
}

func toFloat(dom numeric.Domain, v interp.Value) (interp.Value, error) {
	switch vv := v.(type) {
	case interp.Number:
		sc, err := dom.FromFloatText(formatFloat(vv.Dom.ToFloat64(vv.S)))
		if err != nil {
			return nil, err
		}
		return interp.Number{Dom: dom, S: sc}, nil
	case interp.Str:
		sc, err := dom.FromFloatText(vv.S)
		if err != nil {
			return nil, calcerr.NewRuntimeError("could not convert string to float: %q", vv.S)
		}
		return interp.Number{Dom: dom, S: sc}, nil
	}
	return nil, calcerr.NewRuntimeError("float() argument must be a string or a number, not %q", v.Kind())
}
