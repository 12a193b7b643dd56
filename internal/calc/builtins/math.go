// Package builtins assembles the default environment seed spec.md §6
// names but treats as configuration external to the core: the `math`,
// `date`, `datetime` pre-bound objects and the restricted builtin-function
// surface. DefaultSeed is built from small per-concern constructors and
// returns a fresh map on each call, which a caller may extend or override
// before handing it to the evaluator.
package builtins

import (
	"math"

	"github.com/dev-jelly/yui/internal/calc/interp"
	"github.com/dev-jelly/yui/internal/calc/numeric"
)

// mathModule builds the `math` pre-bound object (spec.md §6, allow-list in
// internal/calc/policy/attributes.go's "math" entry).
func mathModule(dom numeric.Domain) *interp.BoundObject {
	num := func(f float64) interp.Value {
		sc, err := dom.FromFloatText(formatFloat(f))
		if err != nil {
			return interp.Number{Dom: numeric.Native, S: numeric.Native.FromInt(0)}
		}
		return interp.Number{Dom: dom, S: sc}
	}

	unary := func(name string, fn func(float64) float64) interp.Callable {
		return interp.Callable{Name: "math." + name, Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
			f, err := argFloat(args, 0)
			if err != nil {
				return nil, err
			}
			return num(fn(f)), nil
		}}
	}

	return &interp.BoundObject{
		TypeTag: "math",
		Attrs: map[string]interp.Value{
			"pi":  num(math.Pi),
			"e":   num(math.E),
			"tau": num(math.Pi * 2),
			"inf": num(math.Inf(1)),
			"nan": num(math.NaN()),

			"sqrt":  unary("sqrt", math.Sqrt),
			"floor": unary("floor", math.Floor),
			"ceil":  unary("ceil", math.Ceil),
			"trunc": unary("trunc", math.Trunc),
			"fabs":  unary("fabs", math.Abs),
			"exp":   unary("exp", math.Exp),
			"log2":  unary("log2", math.Log2),
			"log10": unary("log10", math.Log10),
			"sin":   unary("sin", math.Sin),
			"cos":   unary("cos", math.Cos),
			"tan":   unary("tan", math.Tan),
			"asin":  unary("asin", math.Asin),
			"acos":  unary("acos", math.Acos),
			"atan":  unary("atan", math.Atan),
			"degrees": unary("degrees", func(r float64) float64 { return r * 180 / math.Pi }),
			"radians": unary("radians", func(d float64) float64 { return d * math.Pi / 180 }),
			"isnan":   interp.Callable{Name: "math.isnan", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
				f, err := argFloat(args, 0)
				if err != nil {
					return nil, err
				}
				return interp.Bool{B: math.IsNaN(f)}, nil
			}},
			"isinf": interp.Callable{Name: "math.isinf", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
				f, err := argFloat(args, 0)
				if err != nil {
					return nil, err
				}
				return interp.Bool{B: math.IsInf(f, 0)}, nil
			}},
			"factorial": interp.Callable{Name: "math.factorial", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
				n, err := argInt(args, 0)
				if err != nil {
					return nil, err
				}
				result := int64(1)
				for i := int64(2); i <= n; i++ {
					result *= i
				}
				sc := dom.FromInt(result)
				return interp.Number{Dom: dom, S: sc}, nil
			}},
			"log": interp.Callable{Name: "math.log", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
				x, err := argFloat(args, 0)
				if err != nil {
					return nil, err
				}
				if len(args) > 1 {
					base, err := argFloat(args, 1)
					if err != nil {
						return nil, err
					}
					return num(math.Log(x) / math.Log(base)), nil
				}
				return num(math.Log(x)), nil
			}},
			"pow": interp.Callable{Name: "math.pow", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
				x, err := argFloat(args, 0)
				if err != nil {
					return nil, err
				}
				y, err := argFloat(args, 1)
				if err != nil {
					return nil, err
				}
				return num(math.Pow(x, y)), nil
			}},
			"atan2": interp.Callable{Name: "math.atan2", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
				y, err := argFloat(args, 0)
				if err != nil {
					return nil, err
				}
				x, err := argFloat(args, 1)
				if err != nil {
					return nil, err
				}
				return num(math.Atan2(y, x)), nil
			}},
			"gcd": interp.Callable{Name: "math.gcd", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
				a, err := argInt(args, 0)
				if err != nil {
					return nil, err
				}
				b, err := argInt(args, 1)
				if err != nil {
					return nil, err
				}
				return interp.Number{Dom: dom, S: dom.FromInt(gcd(a, b))}, nil
			}},
			"isclose": interp.Callable{Name: "math.isclose", Fn: func(args []interp.Value, _ map[string]interp.Value) (interp.Value, error) {
				a, err := argFloat(args, 0)
				if err != nil {
					return nil, err
				}
				b, err := argFloat(args, 1)
				if err != nil {
					return nil, err
				}
				return interp.Bool{B: math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))}, nil
			}},
		},
	}
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
