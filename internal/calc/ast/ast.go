// Package ast defines the closed set of AST node shapes the policy
// classifier and evaluator dispatch over. Every node kind spec.md §3
// enumerates — permitted or denied — has a NodeKind constant here. Go does
// not check switches for exhaustiveness: a node type the evaluator's switch
// does not handle reaches its default case and fails at run time.
package ast

import "github.com/dev-jelly/yui/internal/calc/lexer"

// NodeKind tags every AST node shape recognised by the core, permitted and
// denied alike.
type NodeKind int

const (
	// Literals
	KindIntLiteral NodeKind = iota
	KindFloatLiteral
	KindStringLiteral
	KindBytesLiteral
	KindFString
	KindBoolLiteral
	KindNoneLiteral
	KindEllipsisLiteral
	KindListLiteral
	KindTupleLiteral
	KindSetLiteral
	KindDictLiteral

	// Identifiers & access
	KindName
	KindAttribute
	KindSubscript

	// Operations
	KindBinaryOp
	KindUnaryOp
	KindBoolOp
	KindCompare
	KindConditional

	// Calls
	KindCall

	// Comprehensions
	KindListComp
	KindSetComp
	KindDictComp

	// Statements
	KindExprStatement
	KindAssign
	KindAugAssign
	KindDelete
	KindIf
	KindFor
	KindWhile
	KindBreak
	KindContinue
	KindPass
	KindBlock

	// Denied kinds — classified and rejected before any semantic effect.
	KindFunctionDef
	KindAsyncFunctionDef
	KindClassDef
	KindLambda
	KindAsyncFor
	KindAsyncWith
	KindWith
	KindTry
	KindRaise
	KindYield
	KindYieldFrom
	KindAwait
	KindGeneratorExp
	KindImport
	KindImportFrom
	KindGlobal
	KindNonlocal
	KindAssert
	KindAnnAssign
	KindReturn

	// Internal marker kind for *Slice, never classified directly (see ast.Slice).
	KindSliceDescriptor
)

// Node is the base interface every AST node implements.
type Node interface {
	Kind() NodeKind
	Pos() lexer.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	exprNode()
}

// Statement is any node executed for effect.
type Statement interface {
	Node
	stmtNode()
}

// Base carries the position every node needs; embedded by every concrete
// node type instead of repeating the field and the Pos() method.
type Base struct {
	P lexer.Position
}

func (b Base) Pos() lexer.Position { return b.P }

// Program is the root of a parsed fragment: a sequence of top-level
// statements, mirroring the teacher's ast.Program.
type Program struct {
	Statements []Statement
}
