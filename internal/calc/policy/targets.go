package policy

import (
	"github.com/dev-jelly/yui/internal/calc/ast"
	"github.com/dev-jelly/yui/internal/calc/calcerr"
)

// CheckAssignTarget validates a single assignment-target expression shape
// (spec.md §4.3). Call once per entry of Assign.Targets; a List/Tuple
// destructuring target (`x, y = ...`) is checked element by element by
// this function itself.
func CheckAssignTarget(target ast.Expression) error {
	return checkTarget(target, calcerr.NewBadSyntax("This assign method is not allowed"))
}

// CheckDeleteTarget validates a single `del` target shape.
func CheckDeleteTarget(target ast.Expression) error {
	return checkTarget(target, calcerr.NewBadSyntax("This delete method is not allowed"))
}

func checkTarget(target ast.Expression, denyErr error) error {
	switch t := target.(type) {
	case *ast.Name:
		return nil
	case *ast.TupleLiteral:
		for _, el := range t.Elements {
			if err := checkTarget(el, denyErr); err != nil {
				return err
			}
		}
		return nil
	case *ast.ListLiteral:
		for _, el := range t.Elements {
			if err := checkTarget(el, denyErr); err != nil {
				return err
			}
		}
		return nil
	case *ast.Subscript:
		if _, isSlice := t.Index.(*ast.Slice); isSlice {
			return denyErr
		}
		if tup, isTuple := t.Index.(*ast.TupleLiteral); isTuple {
			for _, el := range tup.Elements {
				if _, isSlice := el.(*ast.Slice); isSlice {
					return denyErr
				}
			}
		}
		return nil
	default:
		// Attribute targets, starred targets, and anything else fall here.
		return denyErr
	}
}
