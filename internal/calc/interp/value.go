package interp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dev-jelly/yui/internal/calc/numeric"
)

// Value is a runtime value produced by the evaluator. All runtime values
// must implement this interface; concrete types below cover every literal
// kind spec.md §3 names plus the handful of host objects the default
// environment seeds (spec.md §6).
//
// Kind doubles as the attribute filter's per-object type tag (spec.md
// §4.2): the policy package looks up allow-lists keyed by exactly this
// string.
type Value interface {
	Kind() string
	String() string
}

// Number wraps a numeric.Scalar together with the Domain that produced it,
// so every arithmetic operation routes back through the active domain
// (spec.md §4.4) instead of ever inspecting the scalar's concrete type.
type Number struct {
	Dom numeric.Domain
	S   numeric.Scalar
}

func (Number) Kind() string      { return "number" }
func (n Number) String() string  { return n.Dom.String(n.S) }
func (n Number) IsInt() bool     { return n.Dom.IsInt(n.S) }

// Str is a text value.
type Str struct{ S string }

func (Str) Kind() string     { return "str" }
func (s Str) String() string { return s.S }

// Bytes is a byte-string literal.
type Bytes struct{ B []byte }

func (Bytes) Kind() string     { return "bytes" }
func (b Bytes) String() string { return fmt.Sprintf("b%q", string(b.B)) }

// Bool is a boolean value.
type Bool struct{ B bool }

func (Bool) Kind() string { return "bool" }
func (b Bool) String() string {
	if b.B {
		return "True"
	}
	return "False"
}

// None is the sole `None` value.
type None struct{}

func (None) Kind() string   { return "NoneType" }
func (None) String() string { return "None" }

// Ellipsis is the `...` literal value.
type Ellipsis struct{}

func (Ellipsis) Kind() string   { return "ellipsis" }
func (Ellipsis) String() string { return "Ellipsis" }

// List is a mutable sequence.
type List struct{ Items []Value }

func (List) Kind() string { return "list" }
func (l *List) String() string {
	return "[" + joinValues(l.Items) + "]"
}

// Tuple is an immutable sequence.
type Tuple struct{ Items []Value }

func (Tuple) Kind() string { return "tuple" }
func (t Tuple) String() string {
	if len(t.Items) == 1 {
		return "(" + t.Items[0].String() + ",)"
	}
	return "(" + joinValues(t.Items) + ")"
}

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = reprOf(v)
	}
	return strings.Join(parts, ", ")
}

// reprOf renders a value the way Python's repr() would for container
// elements (quoted strings), falling back to String() for everything else.
func reprOf(v Value) string {
	if s, ok := v.(Str); ok {
		return fmt.Sprintf("%q", s.S)
	}
	return v.String()
}

// Set is an unordered collection of unique, hashable values. Insertion
// order is preserved for iteration/printing, mirroring CPython's observed
// (if unspecified) behaviour closely enough for deterministic tests.
type Set struct {
	items []Value
	index map[string]int
}

func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

func (s *Set) Add(v Value) {
	key := hashKey(v)
	if _, ok := s.index[key]; ok {
		return
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, v)
}

func (s *Set) Has(v Value) bool {
	_, ok := s.index[hashKey(v)]
	return ok
}

func (s *Set) Items() []Value { return s.items }
func (s *Set) Len() int       { return len(s.items) }

func (*Set) Kind() string { return "set" }
func (s *Set) String() string {
	if len(s.items) == 0 {
		return "set()"
	}
	return "{" + joinValues(s.items) + "}"
}

// Dict is an insertion-ordered mapping.
type Dict struct {
	keys  []Value
	vals  []Value
	index map[string]int
}

func NewDict() *Dict {
	return &Dict{index: make(map[string]int)}
}

func (d *Dict) Set(k, v Value) {
	key := hashKey(k)
	if i, ok := d.index[key]; ok {
		d.vals[i] = v
		return
	}
	d.index[key] = len(d.keys)
	d.keys = append(d.keys, k)
	d.vals = append(d.vals, v)
}

func (d *Dict) Get(k Value) (Value, bool) {
	i, ok := d.index[hashKey(k)]
	if !ok {
		return nil, false
	}
	return d.vals[i], true
}

// DeleteKey removes k from the dict, if present.
func (d *Dict) DeleteKey(k Value) {
	key := hashKey(k)
	i, ok := d.index[key]
	if !ok {
		return
	}
	d.keys = append(d.keys[:i], d.keys[i+1:]...)
	d.vals = append(d.vals[:i], d.vals[i+1:]...)
	delete(d.index, key)
	for kk, idx := range d.index {
		if idx > i {
			d.index[kk] = idx - 1
		}
	}
}

func (d *Dict) Keys() []Value   { return d.keys }
func (d *Dict) Values() []Value { return d.vals }
func (d *Dict) Len() int        { return len(d.keys) }

func (*Dict) Kind() string { return "dict" }
func (d *Dict) String() string {
	parts := make([]string, len(d.keys))
	for i, k := range d.keys {
		parts[i] = reprOf(k) + ": " + reprOf(d.vals[i])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// hashKey derives a comparison key for set/dict membership. Numbers hash
// by their domain string form so `1` and `1.0` style duplicates collapse
// the way Python's numeric hashing would for the domains we support.
func hashKey(v Value) string {
	switch vv := v.(type) {
	case Number:
		return "n:" + vv.String()
	case Str:
		return "s:" + vv.S
	case Bytes:
		return "b:" + string(vv.B)
	case Bool:
		if vv.B {
			return "n:1"
		}
		return "n:0"
	case None:
		return "none"
	case Tuple:
		parts := make([]string, len(vv.Items))
		for i, it := range vv.Items {
			parts[i] = hashKey(it)
		}
		return "t:(" + strings.Join(parts, ",") + ")"
	default:
		return fmt.Sprintf("v:%p:%s", v, v.String())
	}
}

// setUnion/setIntersection/setDifference implement the small set-operator
// surface: the `|`, `&` and `-` operators on sets (binaryOp) and the
// union/intersection/difference methods of the attribute allow-list in
// SPEC_FULL.md §4.2a.
func setUnion(a, b *Set) *Set {
	out := NewSet()
	for _, v := range a.items {
		out.Add(v)
	}
	for _, v := range b.items {
		out.Add(v)
	}
	return out
}

func setIntersection(a, b *Set) *Set {
	out := NewSet()
	for _, v := range a.items {
		if b.Has(v) {
			out.Add(v)
		}
	}
	return out
}

func setDifference(a, b *Set) *Set {
	out := NewSet()
	for _, v := range a.items {
		if !b.Has(v) {
			out.Add(v)
		}
	}
	return out
}

// sortValuesForDisplay returns a copy of vs ordered by String() form, an
// ordering independent of insertion order. Nothing in the module calls it.
func sortValuesForDisplay(vs []Value) []Value {
	out := make([]Value, len(vs))
	copy(out, vs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
