package numeric

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dev-jelly/yui/internal/calc/calcerr"
)

// decimalScalar wraps a shopspring/decimal.Decimal. Parsing literals
// straight from their source text (rather than round-tripping through
// float64) is what keeps sums of exact decimal literals exact — spec.md
// §8's round-trip property ("0.1 ten times equals 1") depends on it.
type decimalScalar struct {
	d decimal.Decimal
}

func (decimalScalar) numericScalar() {}

// decimalDomain is the "Decimal domain" of spec.md §4.4.
type decimalDomain struct{}

// Decimal is the arbitrary-precision numeric domain.
var Decimal Domain = decimalDomain{}

func (decimalDomain) Name() string { return "decimal" }

func asDecimal(s Scalar) decimal.Decimal {
	return s.(decimalScalar).d
}

func (decimalDomain) FromIntText(text string) (Scalar, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, calcerr.NewRuntimeError("invalid integer literal %q", text)
	}
	return decimalScalar{d}, nil
}

func (decimalDomain) FromFloatText(text string) (Scalar, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, calcerr.NewRuntimeError("invalid float literal %q", text)
	}
	return decimalScalar{d}, nil
}

func (decimalDomain) FromInt(n int64) Scalar {
	return decimalScalar{decimal.NewFromInt(n)}
}

func (decimalDomain) FromBool(b bool) Scalar {
	if b {
		return decimalScalar{decimal.NewFromInt(1)}
	}
	return decimalScalar{decimal.NewFromInt(0)}
}

func (decimalDomain) IsInt(s Scalar) bool {
	return asDecimal(s).IsInteger()
}

func (decimalDomain) Sign(s Scalar) int {
	return asDecimal(s).Sign()
}

func (decimalDomain) Add(a, b Scalar) (Scalar, error) {
	return decimalScalar{asDecimal(a).Add(asDecimal(b))}, nil
}

func (decimalDomain) Sub(a, b Scalar) (Scalar, error) {
	return decimalScalar{asDecimal(a).Sub(asDecimal(b))}, nil
}

func (decimalDomain) Mul(a, b Scalar) (Scalar, error) {
	return decimalScalar{asDecimal(a).Mul(asDecimal(b))}, nil
}

func (decimalDomain) TrueDiv(a, b Scalar) (Scalar, error) {
	bd := asDecimal(b)
	if bd.IsZero() {
		return nil, calcerr.NewRuntimeError("division by zero")
	}
	return decimalScalar{asDecimal(a).DivRound(bd, 28)}, nil
}

// floorDiv returns the quotient of a/b rounded toward negative infinity,
// matching Python's `//` rather than Go's truncating integer division.
func floorDiv(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, calcerr.NewRuntimeError("division by zero")
	}
	q := a.DivRound(b, 28)
	floor := q.Floor()
	return floor, nil
}

func (decimalDomain) FloorDiv(a, b Scalar) (Scalar, error) {
	q, err := floorDiv(asDecimal(a), asDecimal(b))
	if err != nil {
		return nil, err
	}
	return decimalScalar{q}, nil
}

func (decimalDomain) Mod(a, b Scalar) (Scalar, error) {
	ad, bd := asDecimal(a), asDecimal(b)
	q, err := floorDiv(ad, bd)
	if err != nil {
		return nil, err
	}
	return decimalScalar{ad.Sub(q.Mul(bd))}, nil
}

func (decimalDomain) Pow(a, b Scalar) (Scalar, error) {
	return decimalScalar{asDecimal(a).Pow(asDecimal(b))}, nil
}

func (d decimalDomain) toInt64(s Scalar, op string) (int64, error) {
	dec := asDecimal(s)
	if !dec.IsInteger() {
		return 0, errUnsupportedOperand(op, "'float'")
	}
	return dec.IntPart(), nil
}

func (d decimalDomain) And(a, b Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, "&")
	if err != nil {
		return nil, err
	}
	bi, err := d.toInt64(b, "&")
	if err != nil {
		return nil, err
	}
	return d.FromInt(ai & bi), nil
}

func (d decimalDomain) Or(a, b Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, "|")
	if err != nil {
		return nil, err
	}
	bi, err := d.toInt64(b, "|")
	if err != nil {
		return nil, err
	}
	return d.FromInt(ai | bi), nil
}

func (d decimalDomain) Xor(a, b Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, "^")
	if err != nil {
		return nil, err
	}
	bi, err := d.toInt64(b, "^")
	if err != nil {
		return nil, err
	}
	return d.FromInt(ai ^ bi), nil
}

func (d decimalDomain) Lshift(a, b Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, "<<")
	if err != nil {
		return nil, err
	}
	bi, err := d.toInt64(b, "<<")
	if err != nil {
		return nil, err
	}
	return d.FromInt(ai << uint(bi)), nil
}

func (d decimalDomain) Rshift(a, b Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, ">>")
	if err != nil {
		return nil, err
	}
	bi, err := d.toInt64(b, ">>")
	if err != nil {
		return nil, err
	}
	return d.FromInt(ai >> uint(bi)), nil
}

func (decimalDomain) Neg(a Scalar) (Scalar, error) {
	return decimalScalar{asDecimal(a).Neg()}, nil
}

func (decimalDomain) Pos(a Scalar) (Scalar, error) {
	return a, nil
}

func (d decimalDomain) Invert(a Scalar) (Scalar, error) {
	ai, err := d.toInt64(a, "~")
	if err != nil {
		return nil, err
	}
	return d.FromInt(^ai), nil
}

func (decimalDomain) Cmp(a, b Scalar) (int, error) {
	return asDecimal(a).Cmp(asDecimal(b)), nil
}

func (decimalDomain) Equal(a, b Scalar) bool {
	return asDecimal(a).Equal(asDecimal(b))
}

func (decimalDomain) String(a Scalar) string {
	return asDecimal(a).String()
}

func (decimalDomain) Format(a Scalar, spec string) (string, error) {
	dec := asDecimal(a)
	if spec == "" {
		return dec.String(), nil
	}
	if strings.Contains(spec, ",") {
		return groupThousands(dec.String()), nil
	}
	return dec.String(), nil
}

func (decimalDomain) ToInt64(a Scalar) (int64, bool) {
	dec := asDecimal(a)
	if !dec.IsInteger() {
		return 0, false
	}
	return dec.IntPart(), true
}

func (decimalDomain) ToFloat64(a Scalar) float64 {
	f, _ := asDecimal(a).Float64()
	return f
}

// groupThousands inserts ',' every three digits in the integer part of a
// decimal string representation, the way Python's "{:,}" format spec does.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, hasFrac := s, "", false
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, frac, hasFrac = s[:idx], s[idx+1:], true
	}

	var grouped []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}

	out := string(grouped)
	if hasFrac {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
