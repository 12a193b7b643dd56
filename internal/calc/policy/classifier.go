// Package policy implements the syntax-level security checks that sit
// between parsing and evaluation: the per-node-kind classifier, the
// attribute-access filter, and the assignment/delete target validator.
// None of these touch the Environment or a Numeric Domain — they are pure
// functions over the AST, which is what makes the no-partial-mutation
// property in SPEC_FULL.md §8 straightforward: classification happens before any
// node's semantic effect runs.
package policy

import (
	"github.com/dev-jelly/yui/internal/calc/ast"
	"github.com/dev-jelly/yui/internal/calc/calcerr"
)

// denyTable holds the exact message text for every statically-denied node
// kind. Message strings are part of the external contract — tests grep for
// them — so they are never built from the node's Go type name.
var denyTable = map[ast.NodeKind]string{
	ast.KindAnnAssign:        "You can not use annotation syntax",
	ast.KindAssert:           "You can not use assertion syntax",
	ast.KindAsyncFor:         "You can not use `async for` loop syntax",
	ast.KindAsyncFunctionDef: "Defining new coroutine via def syntax is not allowed",
	ast.KindAsyncWith:        "You can not use `async with` syntax",
	ast.KindAwait:            "You can not await anything",
	ast.KindClassDef:         "Defining new class via def syntax is not allowed",
	ast.KindFunctionDef:      "Defining new function via def syntax is not allowed",
	ast.KindGeneratorExp:     "Defining new generator expression is not allowed",
	ast.KindGlobal:           "You can not use `global` syntax",
	ast.KindImport:           "You can not import anything",
	ast.KindImportFrom:       "You can not import anything",
	ast.KindLambda:           "Defining new function via lambda syntax is not allowed",
	ast.KindNonlocal:         "You can not use `nonlocal` syntax",
	ast.KindRaise:            "You can not use `raise` syntax",
	ast.KindReturn:           "You can not use `return` syntax",
	ast.KindTry:              "You can not use `try` syntax",
	ast.KindWith:             "You can not use `with` syntax",
	ast.KindYield:            "You can not use `yield` syntax",
	ast.KindYieldFrom:        "You can not use `yield from` syntax",
}

// Classify reports whether a node kind is permitted. A denied kind yields a
// *calcerr.BadSyntax with the exact spec message for that kind; it is the
// caller's job to check this before evaluating the node's children or
// producing any semantic effect (the evaluator calls ClassifyNode at the
// top of Eval and execStmt, before dispatching on the node).
func Classify(kind ast.NodeKind) error {
	if msg, denied := denyTable[kind]; denied {
		return calcerr.NewBadSyntax(msg)
	}
	return nil
}

// ClassifyNode is a convenience wrapper over Classify for callers holding a
// concrete ast.Node rather than a bare NodeKind.
func ClassifyNode(n ast.Node) error {
	return Classify(n.Kind())
}
