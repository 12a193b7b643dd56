// Package numeric implements the pluggable numeric domain strategy spec.md
// §4.4 calls for: a capability bundle of literal constructors and operator
// implementations, with two concrete implementations (arbitrary-precision
// decimal and native binary numerics) selectable per evaluation. Keeping
// the decimal-vs-native decision behind one interface, rather than a
// switch scattered through the interpreter, is exactly the design spec.md
// §9 asks for.
package numeric

import "github.com/dev-jelly/yui/internal/calc/calcerr"

// Scalar is an opaque numeric value produced and consumed only through its
// owning Domain. The interpreter never inspects a Scalar's concrete type;
// it always routes back through the Domain that produced it.
type Scalar interface {
	numericScalar()
}

// Domain is the strategy interface spec.md §4.4 describes. Exactly two
// implementations exist: Decimal and Native.
type Domain interface {
	Name() string

	FromIntText(text string) (Scalar, error)
	FromFloatText(text string) (Scalar, error)
	FromInt(n int64) Scalar
	FromBool(b bool) Scalar

	IsInt(s Scalar) bool
	Sign(s Scalar) int

	Add(a, b Scalar) (Scalar, error)
	Sub(a, b Scalar) (Scalar, error)
	Mul(a, b Scalar) (Scalar, error)
	TrueDiv(a, b Scalar) (Scalar, error)
	FloorDiv(a, b Scalar) (Scalar, error)
	Mod(a, b Scalar) (Scalar, error)
	Pow(a, b Scalar) (Scalar, error)
	And(a, b Scalar) (Scalar, error)
	Or(a, b Scalar) (Scalar, error)
	Xor(a, b Scalar) (Scalar, error)
	Lshift(a, b Scalar) (Scalar, error)
	Rshift(a, b Scalar) (Scalar, error)

	Neg(a Scalar) (Scalar, error)
	Pos(a Scalar) (Scalar, error)
	Invert(a Scalar) (Scalar, error)

	// Cmp returns -1, 0 or 1 the way a three-way comparator does.
	Cmp(a, b Scalar) (int, error)
	Equal(a, b Scalar) bool

	// Format renders a scalar honoring an f-string format spec
	// (spec.md §4.11); spec == "" is equivalent to String.
	Format(a Scalar, spec string) (string, error)
	String(a Scalar) string

	ToInt64(a Scalar) (int64, bool)
	ToFloat64(a Scalar) float64
}

// errUnsupportedOperand builds the type-level failure for an operator a
// domain does not support for an operand type (bitwise operators on
// non-integers). Both domains share this helper so the message is
// identical. `@` never reaches a domain: interp's binaryOp rejects it first.
func errUnsupportedOperand(op, typeName string) error {
	return calcerr.NewRuntimeError("unsupported operand type(s) for %s: %s", op, typeName)
}
