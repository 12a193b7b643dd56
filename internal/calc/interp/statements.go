package interp

import (
	"github.com/dev-jelly/yui/internal/calc/ast"
	"github.com/dev-jelly/yui/internal/calc/calcerr"
	"github.com/dev-jelly/yui/internal/calc/policy"
)

// execStmt executes a single statement, classifying it first (spec.md
// §3's "Policy classification is invoked for every node before any of its
// semantic effects"). A denial here never mutates e.Env.
func (e *Evaluator) execStmt(stmt ast.Statement) error {
	if err := policy.ClassifyNode(stmt); err != nil {
		return err
	}

	switch node := stmt.(type) {
	case *ast.ExprStatement:
		v, err := e.Eval(node.Value)
		if err != nil {
			return err
		}
		e.interrupt = Interrupt{Kind: InterruptTerminal, TerminalValue: v}
		return nil

	case *ast.Assign:
		for _, t := range node.Targets {
			if err := policy.CheckAssignTarget(t); err != nil {
				return err
			}
		}
		v, err := e.Eval(node.Value)
		if err != nil {
			return err
		}
		for _, t := range node.Targets {
			if err := e.bindTarget(t, v); err != nil {
				return err
			}
		}
		return nil

	case *ast.AugAssign:
		if err := policy.CheckAssignTarget(node.Target); err != nil {
			return err
		}
		cur, err := e.Eval(node.Target)
		if err != nil {
			return err
		}
		rhs, err := e.Eval(node.Value)
		if err != nil {
			return err
		}
		result, err := binaryOp(node.Op, cur, rhs)
		if err != nil {
			return err
		}
		return e.bindTarget(node.Target, result)

	case *ast.Delete:
		for _, t := range node.Targets {
			if err := policy.CheckDeleteTarget(t); err != nil {
				return err
			}
		}
		for _, t := range node.Targets {
			if err := e.deleteTarget(t); err != nil {
				return err
			}
		}
		return nil

	case *ast.If:
		test, err := e.Eval(node.Test)
		if err != nil {
			return err
		}
		if isTruthy(test) {
			return e.execBlock(node.Body)
		}
		if node.Else != nil {
			return e.execBlock(node.Else)
		}
		return nil

	case *ast.For:
		return e.execFor(node)

	case *ast.While:
		return e.execWhile(node)

	case *ast.Break:
		e.interrupt = Interrupt{Kind: InterruptBreak}
		return nil

	case *ast.Continue:
		e.interrupt = Interrupt{Kind: InterruptContinue}
		return nil

	case *ast.Pass:
		return nil
	}

	return calcerr.NewRuntimeError("unhandled statement node")
}

// execBlock runs a sequence of statements, stopping as soon as an interrupt
// becomes pending (spec.md §4.6: "a pending Break/Continue stops evaluation
// of further statements in that sequence and propagates outward").
func (e *Evaluator) execBlock(b *ast.Block) error {
	for _, s := range b.Statements {
		prev := e.interrupt
		if err := e.execStmt(s); err != nil {
			return err
		}
		if _, isExpr := s.(*ast.ExprStatement); isExpr {
			// Only top-level expression statements record a terminal value.
			e.interrupt = prev
		}
		if e.interrupt.Kind == InterruptBreak || e.interrupt.Kind == InterruptContinue {
			return nil
		}
	}
	return nil
}

func (e *Evaluator) execFor(node *ast.For) error {
	iterVal, err := e.Eval(node.Iter)
	if err != nil {
		return err
	}
	items, err := iterate(iterVal)
	if err != nil {
		return err
	}

	broke := false
	for _, item := range items {
		if err := e.bindTarget(node.Target, item); err != nil {
			return err
		}
		if err := e.execBlock(node.Body); err != nil {
			return err
		}
		switch e.clearLoopSignal() {
		case InterruptBreak:
			broke = true
		case InterruptContinue:
			continue
		}
		if broke {
			break
		}
	}
	if !broke && node.Else != nil {
		return e.execBlock(node.Else)
	}
	return nil
}

func (e *Evaluator) execWhile(node *ast.While) error {
	broke := false
	for {
		test, err := e.Eval(node.Test)
		if err != nil {
			return err
		}
		if !isTruthy(test) {
			break
		}
		if err := e.execBlock(node.Body); err != nil {
			return err
		}
		switch e.clearLoopSignal() {
		case InterruptBreak:
			broke = true
		case InterruptContinue:
			continue
		}
		if broke {
			break
		}
	}
	if !broke && node.Else != nil {
		return e.execBlock(node.Else)
	}
	return nil
}

// iterate produces the element sequence for a `for` loop or comprehension
// generator clause.
func iterate(v Value) ([]Value, error) {
	switch vv := v.(type) {
	case *List:
		return vv.Items, nil
	case Tuple:
		return vv.Items, nil
	case *Set:
		return vv.Items(), nil
	case *Dict:
		return vv.Keys(), nil
	case Str:
		runes := []rune(vv.S)
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = Str{S: string(r)}
		}
		return out, nil
	}
	return nil, calcerr.NewRuntimeError("%q object is not iterable", v.Kind())
}

// bindTarget assigns v into target, recursing through tuple/list
// destructuring and delegating to container index-assignment for a
// subscript target. Target shape has already been validated by the caller.
func (e *Evaluator) bindTarget(target ast.Expression, v Value) error {
	switch t := target.(type) {
	case *ast.Name:
		e.Env.Set(t.Ident, v)
		return nil
	case *ast.TupleLiteral:
		return e.bindDestructure(t.Elements, v)
	case *ast.ListLiteral:
		return e.bindDestructure(t.Elements, v)
	case *ast.Subscript:
		container, err := e.Eval(t.Value)
		if err != nil {
			return err
		}
		key, err := e.Eval(t.Index)
		if err != nil {
			return err
		}
		return setIndex(container, key, v)
	}
	return calcerr.NewRuntimeError("invalid assignment target")
}

func (e *Evaluator) bindDestructure(targets []ast.Expression, v Value) error {
	items, err := iterate(v)
	if err != nil {
		return err
	}
	if len(items) != len(targets) {
		return calcerr.NewRuntimeError("cannot unpack %d values into %d targets", len(items), len(targets))
	}
	for i, t := range targets {
		if err := e.bindTarget(t, items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) deleteTarget(target ast.Expression) error {
	switch t := target.(type) {
	case *ast.Name:
		if !e.Env.Delete(t.Ident) {
			return &calcerr.NameLookupError{Name: t.Ident}
		}
		return nil
	case *ast.TupleLiteral:
		for _, el := range t.Elements {
			if err := e.deleteTarget(el); err != nil {
				return err
			}
		}
		return nil
	case *ast.ListLiteral:
		for _, el := range t.Elements {
			if err := e.deleteTarget(el); err != nil {
				return err
			}
		}
		return nil
	case *ast.Subscript:
		container, err := e.Eval(t.Value)
		if err != nil {
			return err
		}
		key, err := e.Eval(t.Index)
		if err != nil {
			return err
		}
		return delIndex(container, key)
	}
	return calcerr.NewRuntimeError("invalid delete target")
}
