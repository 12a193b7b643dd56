package interp

import "fmt"

// Callable is any native Go function reachable from sandboxed source,
// either through the default environment seed (spec.md §6) or as a bound
// method returned by an attribute read (spec.md §4.2a's container method
// allow-list). Argument evaluation happens before Callable.Fn is invoked
// (spec.md §4.9); Fn only ever sees already-evaluated values.
type Callable struct {
	Name string
	Fn   func(args []Value, kwargs map[string]Value) (Value, error)
}

func (Callable) Kind() string { return "callable" }
func (c Callable) String() string {
	return fmt.Sprintf("<built-in function %s>", c.Name)
}

// Invoke satisfies Invokable.
func (c Callable) Invoke(args []Value, kwargs map[string]Value) (Value, error) {
	return c.Fn(args, kwargs)
}

// Invokable is any value a Call node may dispatch to (spec.md §4.9): the
// default-seed builtins, bound container methods, the `math` functions, the
// pre-bound `date` constructor (a plain Callable), and the pre-bound
// `datetime` constructor, which needs both call and attribute-read
// behaviour on the same value (ClassObject).
type Invokable interface {
	Value
	Invoke(args []Value, kwargs map[string]Value) (Value, error)
}

// ClassObject is a callable that also exposes attribute reads, modelling
// the `datetime` pre-bound name: `datetime.now()` reads the `now`
// attribute (a Callable), while `datetime(2020, 1, 1)` calls Construct
// directly.
type ClassObject struct {
	TypeTag   string
	Attrs     map[string]Value
	Construct func(args []Value, kwargs map[string]Value) (Value, error)
}

func (c *ClassObject) Kind() string   { return c.TypeTag }
func (c *ClassObject) String() string { return fmt.Sprintf("<class %q>", c.TypeTag) }

func (c *ClassObject) GetAttr(name string) (Value, bool) {
	v, ok := c.Attrs[name]
	return v, ok
}

func (c *ClassObject) Invoke(args []Value, kwargs map[string]Value) (Value, error) {
	return c.Construct(args, kwargs)
}

// AttributeHost is implemented by values that expose attribute reads
// beyond the container-method allow-list handled directly in
// value_methods.go — the pre-bound `math` and `datetime` objects from
// spec.md §6 and the date/datetime instances built by their constructors.
type AttributeHost interface {
	Value
	GetAttr(name string) (Value, bool)
}

// HasGetAttr reports whether v supports attribute reads at all (i.e.
// implements AttributeHost). Values with no GetAttr method are "unknown
// objects" under spec.md §4.2 and any attribute read on them is denied.
func HasGetAttr(v Value) (AttributeHost, bool) {
	h, ok := v.(AttributeHost)
	return h, ok
}

// BoundObject is a simple attribute-only host backed by a name→Value map,
// used for the pre-bound `math` object and for date/datetime instances
// (internal/calc/builtins).
type BoundObject struct {
	TypeTag string
	Attrs   map[string]Value
}

func (b *BoundObject) Kind() string { return b.TypeTag }
func (b *BoundObject) String() string {
	return fmt.Sprintf("<module %q>", b.TypeTag)
}

func (b *BoundObject) GetAttr(name string) (Value, bool) {
	v, ok := b.Attrs[name]
	return v, ok
}
