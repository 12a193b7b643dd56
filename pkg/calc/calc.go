// Package calc is the public entry point spec.md §6 describes: a
// `Calculate` function for one-shot evaluation and an `Evaluator` type for
// a caller that wants a persistent symbol table across many fragments (a
// chat-bot session, say). It wires the lexer/parser/policy/interp/builtins
// packages together the way the teacher's pkg/dwscript wires its own
// lexer/parser/semantic/interp stack behind one stable import path.
package calc

import (
	"github.com/dev-jelly/yui/internal/calc/builtins"
	"github.com/dev-jelly/yui/internal/calc/interp"
	"github.com/dev-jelly/yui/internal/calc/numeric"
	"github.com/dev-jelly/yui/internal/calc/parser"
)

// Value is the evaluated result type every expression and the final
// symbol table are built from.
type Value = interp.Value

// Interrupt mirrors spec.md §6's `current_interrupt`: the last observed
// top-level interrupt — a break/continue that reached the top level, the
// terminal value of the last top-level expression statement, or none.
type Interrupt = interp.Interrupt

func domainFor(decimalMode bool) numeric.Domain {
	if decimalMode {
		return numeric.Decimal
	}
	return numeric.Native
}

// Calculate parses and evaluates source against a fresh environment seeded
// with the default binding set (spec.md §6's `math`/`date`/`datetime`/
// builtins), returning the last expression-statement's value (nil if
// none) and the final environment as a plain map.
func Calculate(source string, decimalMode bool) (Value, map[string]Value, error) {
	e := NewEvaluator(decimalMode)
	v, err := e.Run(source)
	if err != nil {
		return nil, nil, err
	}
	return v, e.SymbolTable(), nil
}

// Evaluator is a reusable, stateful wrapper around interp.Evaluator: each
// Run shares the same persistent Environment, so names bound by one
// fragment are visible to the next — the shape a chat-bot's `calc` command
// needs to keep a running session across messages.
type Evaluator struct {
	inner *interp.Evaluator
}

// NewEvaluator constructs an Evaluator seeded with the default binding set
// over the numeric domain decimalMode selects (spec.md §4.4).
func NewEvaluator(decimalMode bool) *Evaluator {
	dom := domainFor(decimalMode)
	return &Evaluator{inner: interp.NewEvaluator(dom, builtins.DefaultSeed(dom))}
}

// Run parses and evaluates one fragment against the evaluator's persistent
// Environment, returning the last expression-statement's value (nil if
// none).
func (e *Evaluator) Run(source string) (Value, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return e.inner.Run(prog)
}

// SymbolTable exposes the evaluator's Environment as a plain map snapshot
// (spec.md §6's `symbol_table` read).
func (e *Evaluator) SymbolTable() map[string]Value {
	return e.inner.Env.Snapshot()
}

// SetSymbol binds name directly in the evaluator's Environment, the write
// side of spec.md §6's `symbol_table` attribute — used by a caller that
// wants to seed or override a name between Run calls.
func (e *Evaluator) SetSymbol(name string, v Value) {
	e.inner.Env.Set(name, v)
}

// CurrentInterrupt exposes the last observed top-level interrupt
// (spec.md §6's `current_interrupt`).
func (e *Evaluator) CurrentInterrupt() Interrupt {
	return e.inner.CurrentInterrupt()
}
