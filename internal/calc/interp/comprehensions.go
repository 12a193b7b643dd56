package interp

import "github.com/dev-jelly/yui/internal/calc/ast"

// runGenerators drives nested `for ... if ...` clauses of a comprehension,
// invoking body for every combination of generator bindings that survives
// every clause's filter predicates. It assumes the caller has already
// pushed the shadow scope the comprehension targets should land in
// (spec.md §4.5).
func (e *Evaluator) runGenerators(gens []ast.Comprehension, body func() error) error {
	if len(gens) == 0 {
		return body()
	}
	gen := gens[0]
	rest := gens[1:]

	iterVal, err := e.Eval(gen.Iter)
	if err != nil {
		return err
	}
	items, err := iterate(iterVal)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := e.bindTarget(gen.Target, item); err != nil {
			return err
		}
		keep := true
		for _, cond := range gen.Ifs {
			v, err := e.Eval(cond)
			if err != nil {
				return err
			}
			if !isTruthy(v) {
				keep = false
				break
			}
		}
		if !keep {
			continue
		}
		if err := e.runGenerators(rest, body); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) evalListComp(node *ast.ListComp) (Value, error) {
	e.Env.PushShadow()
	defer e.Env.PopShadow()

	var out []Value
	err := e.runGenerators(node.Generators, func() error {
		v, err := e.Eval(node.Element)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &List{Items: out}, nil
}

func (e *Evaluator) evalSetComp(node *ast.SetComp) (Value, error) {
	e.Env.PushShadow()
	defer e.Env.PopShadow()

	out := NewSet()
	err := e.runGenerators(node.Generators, func() error {
		v, err := e.Eval(node.Element)
		if err != nil {
			return err
		}
		out.Add(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Evaluator) evalDictComp(node *ast.DictComp) (Value, error) {
	e.Env.PushShadow()
	defer e.Env.PopShadow()

	out := NewDict()
	err := e.runGenerators(node.Generators, func() error {
		k, err := e.Eval(node.Key)
		if err != nil {
			return err
		}
		v, err := e.Eval(node.Value)
		if err != nil {
			return err
		}
		out.Set(k, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
