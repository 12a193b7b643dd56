// Package interp implements the recursive evaluator spec.md §2 calls "the
// heart" of the system: policy classification before effect, dispatch over
// every AST node kind via an exhaustive Go type switch (spec.md §9, in
// place of the reflection-based per-kind method lookup the original uses),
// threaded Environment/Numeric-Domain/Interrupt state.
package interp

import (
	"github.com/dev-jelly/yui/internal/calc/ast"
	"github.com/dev-jelly/yui/internal/calc/calcerr"
	"github.com/dev-jelly/yui/internal/calc/numeric"
	"github.com/dev-jelly/yui/internal/calc/policy"
)

// Evaluator holds everything a run needs: the active numeric domain, the
// persistent Environment, and the single-slot Interrupt state (spec.md §6's
// `Evaluator(decimal_mode=false)` with `symbol_table` and `current_interrupt`
// surfaced as the Dom/Env/Interrupt fields below via accessor methods on
// pkg/calc).
type Evaluator struct {
	Dom       numeric.Domain
	Env       *Environment
	interrupt Interrupt
}

// NewEvaluator constructs an Evaluator over dom, seeded from seed (copied,
// never aliased — spec.md §5).
func NewEvaluator(dom numeric.Domain, seed map[string]Value) *Evaluator {
	return &Evaluator{Dom: dom, Env: NewEnvironment(seed)}
}

// CurrentInterrupt exposes the last observed top-level interrupt.
func (e *Evaluator) CurrentInterrupt() Interrupt { return e.interrupt }

// Run evaluates a parsed program against the evaluator's persistent
// Environment and returns the terminal value (spec.md §4.7), if any. A
// top-level break/continue does not error; it is recorded in
// CurrentInterrupt and evaluation ends cleanly (spec.md §7).
func (e *Evaluator) Run(prog *ast.Program) (Value, error) {
	e.interrupt = Interrupt{}
	for _, stmt := range prog.Statements {
		if err := e.execStmt(stmt); err != nil {
			return nil, err
		}
		if e.interrupt.Kind == InterruptBreak || e.interrupt.Kind == InterruptContinue {
			// Reached the top level outside any loop: record and stop
			// (spec.md §7), matching scenario 9 in §8.
			return nil, nil
		}
	}
	if e.interrupt.Kind == InterruptTerminal {
		return e.interrupt.TerminalValue, nil
	}
	return nil, nil
}

// Eval evaluates a single expression node to a Value.
func (e *Evaluator) Eval(n ast.Expression) (Value, error) {
	if err := policy.ClassifyNode(n); err != nil {
		return nil, err
	}

	switch node := n.(type) {
	case *ast.IntLiteral:
		sc, err := e.Dom.FromIntText(node.Text)
		if err != nil {
			return nil, err
		}
		return Number{Dom: e.Dom, S: sc}, nil
	case *ast.FloatLiteral:
		sc, err := e.Dom.FromFloatText(node.Text)
		if err != nil {
			return nil, err
		}
		return Number{Dom: e.Dom, S: sc}, nil
	case *ast.StringLiteral:
		return Str{S: node.Value}, nil
	case *ast.BytesLiteral:
		return Bytes{B: []byte(node.Value)}, nil
	case *ast.FString:
		return e.evalFString(node)
	case *ast.BoolLiteral:
		return Bool{B: node.Value}, nil
	case *ast.NoneLiteral:
		return None{}, nil
	case *ast.EllipsisLiteral:
		return Ellipsis{}, nil
	case *ast.ListLiteral:
		items, err := e.evalExprList(node.Elements)
		if err != nil {
			return nil, err
		}
		return &List{Items: items}, nil
	case *ast.TupleLiteral:
		items, err := e.evalExprList(node.Elements)
		if err != nil {
			return nil, err
		}
		return Tuple{Items: items}, nil
	case *ast.SetLiteral:
		items, err := e.evalExprList(node.Elements)
		if err != nil {
			return nil, err
		}
		s := NewSet()
		for _, it := range items {
			s.Add(it)
		}
		return s, nil
	case *ast.DictLiteral:
		d := NewDict()
		for _, entry := range node.Entries {
			k, err := e.Eval(entry.Key)
			if err != nil {
				return nil, err
			}
			v, err := e.Eval(entry.Value)
			if err != nil {
				return nil, err
			}
			d.Set(k, v)
		}
		return d, nil
	case *ast.Name:
		v, ok := e.Env.Get(node.Ident)
		if !ok {
			return nil, &calcerr.NameLookupError{Name: node.Ident}
		}
		return v, nil
	case *ast.Attribute:
		return e.evalAttribute(node)
	case *ast.Subscript:
		return e.evalSubscript(node)
	case *ast.BinaryOp:
		l, err := e.Eval(node.Left)
		if err != nil {
			return nil, err
		}
		r, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		return binaryOp(node.Op, l, r)
	case *ast.UnaryOp:
		v, err := e.Eval(node.Operand)
		if err != nil {
			return nil, err
		}
		return unaryOp(node.Op, v)
	case *ast.BoolOp:
		return e.evalBoolOp(node)
	case *ast.Compare:
		return e.evalCompare(node)
	case *ast.Conditional:
		test, err := e.Eval(node.Test)
		if err != nil {
			return nil, err
		}
		if isTruthy(test) {
			return e.Eval(node.Body)
		}
		return e.Eval(node.OrElse)
	case *ast.Call:
		return e.evalCall(node)
	case *ast.ListComp:
		return e.evalListComp(node)
	case *ast.SetComp:
		return e.evalSetComp(node)
	case *ast.DictComp:
		return e.evalDictComp(node)
	}
	return nil, calcerr.NewRuntimeError("unhandled expression node")
}

func (e *Evaluator) evalExprList(exprs []ast.Expression) ([]Value, error) {
	out := make([]Value, 0, len(exprs))
	for _, ex := range exprs {
		v, err := e.Eval(ex)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Evaluator) evalFString(node *ast.FString) (Value, error) {
	var sb []byte
	for _, part := range node.Parts {
		if part.Expr == nil {
			sb = append(sb, part.Literal...)
			continue
		}
		v, err := e.Eval(part.Expr)
		if err != nil {
			return nil, err
		}
		s, err := formatValue(v, part.FormatSpec)
		if err != nil {
			return nil, err
		}
		sb = append(sb, s...)
	}
	return Str{S: string(sb)}, nil
}

// formatValue applies an f-string format spec (spec.md §4.11); only the
// thousands-separator spec is meaningfully different from String().
func formatValue(v Value, spec string) (string, error) {
	if n, ok := v.(Number); ok {
		return n.Dom.Format(n.S, spec)
	}
	return v.String(), nil
}

func (e *Evaluator) evalAttribute(node *ast.Attribute) (Value, error) {
	host, err := e.Eval(node.Value)
	if err != nil {
		return nil, err
	}
	ah, ok := HasGetAttr(host)
	var kind string
	if ok {
		kind = host.Kind()
	}
	if err := policy.CheckAttributeRead(kind, node.Attr); err != nil {
		return nil, err
	}
	if !ok {
		return nil, calcerr.NewBadSyntax("You can not access `" + node.Attr + "` attribute")
	}
	v, found := ah.GetAttr(node.Attr)
	if !found {
		return nil, calcerr.NewBadSyntax("You can not access `" + node.Attr + "` attribute")
	}
	return v, nil
}

func (e *Evaluator) evalSubscript(node *ast.Subscript) (Value, error) {
	container, err := e.Eval(node.Value)
	if err != nil {
		return nil, err
	}
	switch idx := node.Index.(type) {
	case *ast.Slice:
		desc, err := e.evalSliceDescriptor(idx)
		if err != nil {
			return nil, err
		}
		return getSlice(container, desc)
	case *ast.TupleLiteral:
		d, ok := container.(*Dict)
		if !ok {
			return nil, calcerr.NewRuntimeError("%q object is not subscriptable", container.Kind())
		}
		key, err := e.evalExtendedKey(idx)
		if err != nil {
			return nil, err
		}
		v, found := d.Get(key)
		if !found {
			return nil, calcerr.NewRuntimeError("%s", key.String())
		}
		return v, nil
	default:
		key, err := e.Eval(node.Index)
		if err != nil {
			return nil, err
		}
		return getIndex(container, key)
	}
}

func (e *Evaluator) evalSliceDescriptor(s *ast.Slice) (SliceDescriptor, error) {
	var desc SliceDescriptor
	if s.Lower != nil {
		v, err := e.Eval(s.Lower)
		if err != nil {
			return desc, err
		}
		desc.Lower = v
	}
	if s.Upper != nil {
		v, err := e.Eval(s.Upper)
		if err != nil {
			return desc, err
		}
		desc.Upper = v
	}
	if s.Step != nil {
		v, err := e.Eval(s.Step)
		if err != nil {
			return desc, err
		}
		desc.Step = v
	}
	return desc, nil
}

// evalExtendedKey evaluates a tuple-of-subscripts index (`obj[a, b:c, d]`),
// preserving slice descriptors in position as the resulting Tuple's
// elements (spec.md §4.10).
func (e *Evaluator) evalExtendedKey(t *ast.TupleLiteral) (Value, error) {
	items := make([]Value, 0, len(t.Elements))
	for _, el := range t.Elements {
		if sl, ok := el.(*ast.Slice); ok {
			desc, err := e.evalSliceDescriptor(sl)
			if err != nil {
				return nil, err
			}
			items = append(items, desc)
			continue
		}
		v, err := e.Eval(el)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return Tuple{Items: items}, nil
}

func (e *Evaluator) evalBoolOp(node *ast.BoolOp) (Value, error) {
	var last Value
	for i, operand := range node.Values {
		v, err := e.Eval(operand)
		if err != nil {
			return nil, err
		}
		last = v
		if i == len(node.Values)-1 {
			break
		}
		truthy := isTruthy(v)
		if node.Op == "or" && truthy {
			return v, nil
		}
		if node.Op == "and" && !truthy {
			return v, nil
		}
	}
	return last, nil
}

func (e *Evaluator) evalCompare(node *ast.Compare) (Value, error) {
	left, err := e.Eval(node.Left)
	if err != nil {
		return nil, err
	}
	for i, op := range node.Ops {
		right, err := e.Eval(node.Comps[i])
		if err != nil {
			return nil, err
		}
		ok, err := compareOne(op, left, right)
		if err != nil {
			return nil, err
		}
		if !ok {
			return Bool{B: false}, nil
		}
		left = right
	}
	return Bool{B: true}, nil
}

func (e *Evaluator) evalCall(node *ast.Call) (Value, error) {
	callee, err := e.Eval(node.Func)
	if err != nil {
		return nil, err
	}
	c, ok := callee.(Invokable)
	if !ok {
		return nil, calcerr.NewRuntimeError("%q object is not callable", callee.Kind())
	}

	args := make([]Value, 0, len(node.Args))
	for _, a := range node.Args {
		v, err := e.Eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	var kwargs map[string]Value
	if len(node.Kwargs) > 0 {
		kwargs = make(map[string]Value, len(node.Kwargs))
		for _, kw := range node.Kwargs {
			v, err := e.Eval(kw.Value)
			if err != nil {
				return nil, err
			}
			kwargs[kw.Name] = v
		}
	}

	return c.Invoke(args, kwargs)
}
