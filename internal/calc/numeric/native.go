package numeric

import (
	"math"
	"strconv"
	"strings"

	"github.com/dev-jelly/yui/internal/calc/calcerr"
)

// nativeScalar is a tagged int64/float64 union, mirroring how Go's own
// built-in numeric types behave: an operation involving any float operand
// promotes to float64, exactly as spec.md §4.4's "Native domain" asks for
// ("operators have their host-language native meaning on built-in numeric
// types").
type nativeScalar struct {
	isFloat bool
	i       int64
	f       float64
}

func (nativeScalar) numericScalar() {}

type nativeDomain struct{}

// Native is the platform-numerics domain.
var Native Domain = nativeDomain{}

func (nativeDomain) Name() string { return "native" }

func asNative(s Scalar) nativeScalar {
	return s.(nativeScalar)
}

func (n nativeScalar) asFloat() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (nativeDomain) FromIntText(text string) (Scalar, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, calcerr.NewRuntimeError("invalid integer literal %q", text)
	}
	return nativeScalar{i: n}, nil
}

func (nativeDomain) FromFloatText(text string) (Scalar, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, calcerr.NewRuntimeError("invalid float literal %q", text)
	}
	return nativeScalar{isFloat: true, f: f}, nil
}

func (nativeDomain) FromInt(n int64) Scalar {
	return nativeScalar{i: n}
}

func (nativeDomain) FromBool(b bool) Scalar {
	if b {
		return nativeScalar{i: 1}
	}
	return nativeScalar{i: 0}
}

func (nativeDomain) IsInt(s Scalar) bool {
	return !asNative(s).isFloat
}

func (nativeDomain) Sign(s Scalar) int {
	n := asNative(s)
	if n.isFloat {
		switch {
		case n.f > 0:
			return 1
		case n.f < 0:
			return -1
		default:
			return 0
		}
	}
	switch {
	case n.i > 0:
		return 1
	case n.i < 0:
		return -1
	default:
		return 0
	}
}

func (nativeDomain) Add(a, b Scalar) (Scalar, error) {
	x, y := asNative(a), asNative(b)
	if x.isFloat || y.isFloat {
		return nativeScalar{isFloat: true, f: x.asFloat() + y.asFloat()}, nil
	}
	return nativeScalar{i: x.i + y.i}, nil
}

func (nativeDomain) Sub(a, b Scalar) (Scalar, error) {
	x, y := asNative(a), asNative(b)
	if x.isFloat || y.isFloat {
		return nativeScalar{isFloat: true, f: x.asFloat() - y.asFloat()}, nil
	}
	return nativeScalar{i: x.i - y.i}, nil
}

func (nativeDomain) Mul(a, b Scalar) (Scalar, error) {
	x, y := asNative(a), asNative(b)
	if x.isFloat || y.isFloat {
		return nativeScalar{isFloat: true, f: x.asFloat() * y.asFloat()}, nil
	}
	return nativeScalar{i: x.i * y.i}, nil
}

func (nativeDomain) TrueDiv(a, b Scalar) (Scalar, error) {
	x, y := asNative(a), asNative(b)
	if y.asFloat() == 0 {
		return nil, calcerr.NewRuntimeError("division by zero")
	}
	// True division is always float, matching the original Python
	// implementation this domain stands in for (spec.md §8 scenario list
	// is built against `3 / 2 == 1.5`, not truncated integer division).
	return nativeScalar{isFloat: true, f: x.asFloat() / y.asFloat()}, nil
}

func pyFloorDivFloat(a, b float64) float64 { return math.Floor(a / b) }

func pyFloorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (nativeDomain) FloorDiv(a, b Scalar) (Scalar, error) {
	x, y := asNative(a), asNative(b)
	if x.isFloat || y.isFloat {
		if y.asFloat() == 0 {
			return nil, calcerr.NewRuntimeError("division by zero")
		}
		return nativeScalar{isFloat: true, f: pyFloorDivFloat(x.asFloat(), y.asFloat())}, nil
	}
	if y.i == 0 {
		return nil, calcerr.NewRuntimeError("division by zero")
	}
	return nativeScalar{i: pyFloorDivInt(x.i, y.i)}, nil
}

func (nativeDomain) Mod(a, b Scalar) (Scalar, error) {
	x, y := asNative(a), asNative(b)
	if x.isFloat || y.isFloat {
		if y.asFloat() == 0 {
			return nil, calcerr.NewRuntimeError("division by zero")
		}
		r := math.Mod(x.asFloat(), y.asFloat())
		if r != 0 && (r < 0) != (y.asFloat() < 0) {
			r += y.asFloat()
		}
		return nativeScalar{isFloat: true, f: r}, nil
	}
	if y.i == 0 {
		return nil, calcerr.NewRuntimeError("division by zero")
	}
	r := x.i % y.i
	if r != 0 && (r < 0) != (y.i < 0) {
		r += y.i
	}
	return nativeScalar{i: r}, nil
}

func (nativeDomain) Pow(a, b Scalar) (Scalar, error) {
	x, y := asNative(a), asNative(b)
	if !x.isFloat && !y.isFloat && y.i >= 0 {
		result := int64(1)
		base := x.i
		exp := y.i
		for exp > 0 {
			if exp&1 == 1 {
				result *= base
			}
			base *= base
			exp >>= 1
		}
		return nativeScalar{i: result}, nil
	}
	return nativeScalar{isFloat: true, f: math.Pow(x.asFloat(), y.asFloat())}, nil
}

func (nativeDomain) toInt64(s Scalar, op string) (int64, error) {
	n := asNative(s)
	if n.isFloat {
		return 0, errUnsupportedOperand(op, "'float'")
	}
	return n.i, nil
}

func (d nativeDomain) And(a, b Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, "&")
	if err != nil {
		return nil, err
	}
	bi, err := d.toInt64(b, "&")
	if err != nil {
		return nil, err
	}
	return nativeScalar{i: ai & bi}, nil
}

func (d nativeDomain) Or(a, b Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, "|")
	if err != nil {
		return nil, err
	}
	bi, err := d.toInt64(b, "|")
	if err != nil {
		return nil, err
	}
	return nativeScalar{i: ai | bi}, nil
}

func (d nativeDomain) Xor(a, b Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, "^")
	if err != nil {
		return nil, err
	}
	bi, err := d.toInt64(b, "^")
	if err != nil {
		return nil, err
	}
	return nativeScalar{i: ai ^ bi}, nil
}

func (d nativeDomain) Lshift(a, b Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, "<<")
	if err != nil {
		return nil, err
	}
	bi, err := d.toInt64(b, "<<")
	if err != nil {
		return nil, err
	}
	return nativeScalar{i: ai << uint(bi)}, nil
}

func (d nativeDomain) Rshift(a, b Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, ">>")
	if err != nil {
		return nil, err
	}
	bi, err := d.toInt64(b, ">>")
	if err != nil {
		return nil, err
	}
	return nativeScalar{i: ai >> uint(bi)}, nil
}

func (nativeDomain) Neg(a Scalar) (Scalar, error) {
	n := asNative(a)
	if n.isFloat {
		return nativeScalar{isFloat: true, f: -n.f}, nil
	}
	return nativeScalar{i: -n.i}, nil
}

func (nativeDomain) Pos(a Scalar) (Scalar, error) {
	return a, nil
}

func (d nativeDomain) Invert(a Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, "~")
	if err != nil {
		return nil, err
	}
	return nativeScalar{i: ^ai}, nil
}

func (nativeDomain) Cmp(a, b Scalar) (int, error) {
	x, y := asNative(a), asNative(b)
	var xf, yf float64
	xf, yf = x.asFloat(), y.asFloat()
	switch {
	case xf < yf:
		return -1, nil
	case xf > yf:
		return 1, nil
	default:
		return 0, nil
	}
}

func (nativeDomain) Equal(a, b Scalar) bool {
	x, y := asNative(a), asNative(b)
	return x.asFloat() == y.asFloat()
}

func (nativeDomain) String(a Scalar) string {
	n := asNative(a)
	if n.isFloat {
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
	return strconv.FormatInt(n.i, 10)
}

func (d nativeDomain) Format(a Scalar, spec string) (string, error) {
	s := d.String(a)
	if strings.Contains(spec, ",") {
		return groupThousands(s), nil
	}
	return s, nil
}

func (nativeDomain) ToInt64(a Scalar) (int64, bool) {
	n := asNative(a)
	if n.isFloat {
		return 0, false
	}
	return n.i, true
}

func (nativeDomain) ToFloat64(a Scalar) float64 {
	return asNative(a).asFloat()
}
