// Package tinqerr defines Tinqer's closed error taxonomy (spec.md §7):
// parse-structural, semantic-visit, shape-resolution, and emitter-guard
// errors, plus the two execution-bridge sentinel errors a driver layer
// raises when a terminal row-cardinality contract is violated.
//
// Every error type carries a [syntax.Span] when one is available, and
// implements Unwrap so callers can use errors.As to discriminate by
// taxonomy class, matching the teacher's compileError/parseError pattern.
package tinqerr

import (
	"errors"
	"fmt"

	"github.com/tinqer-go/tinqer/internal/syntax"
)

// ParseError reports that a lambda's syntactic AST does not match the
// shape an entry point expects (missing arrow function, malformed chain
// root, etc). Fatal; there is no partial plan.
type ParseError struct {
	Source string
	Span   syntax.Span
	Err    error
}

func (e *ParseError) Error() string { return formatSpanError("parse", e.Source, e.Span, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// SemanticError reports an unsupported construct encountered while
// visiting an otherwise well-formed AST: an unknown method name, a free
// variable captured outside queryParams/helperParams, mixed
// boolean/value typing, a malformed window chain, and so on.
type SemanticError struct {
	Source string
	Span   syntax.Span
	Err    error
}

func (e *SemanticError) Error() string { return formatSpanError("semantic", e.Source, e.Span, e.Err) }
func (e *SemanticError) Unwrap() error { return e.Err }

// ShapeError reports that a member access path does not exist in the
// enclosing projection shape (e.g. "joined.x.y" where "x" was never
// projected). Fatal; shape resolution never guesses.
type ShapeError struct {
	Source string
	Span   syntax.Span
	Err    error
}

func (e *ShapeError) Error() string { return formatSpanError("shape", e.Source, e.Span, e.Err) }
func (e *ShapeError) Unwrap() error { return e.Err }

// EmitError reports a statement-level invariant violation discovered at
// SQL-generation time: an update/delete without a predicate and without
// the explicit allow-full-table escape, an operation the emitter does not
// support, or a join whose outer or inner source is not a plain table.
type EmitError struct {
	Source string
	Span   syntax.Span
	Err    error
}

func (e *EmitError) Error() string { return formatSpanError("emit", e.Source, e.Span, e.Err) }
func (e *EmitError) Unwrap() error { return e.Err }

func formatSpanError(stage, source string, span syntax.Span, err error) string {
	if !span.IsValid() || span.Start > len(source) {
		return fmt.Sprintf("tinqer: %s: %s", stage, err)
	}
	line, col := lineCol(source, span.Start)
	return fmt.Sprintf("tinqer: %s: %d:%d: %s", stage, line, col, err)
}

func lineCol(source string, pos int) (line, col int) {
	line, col = 1, 1
	for _, c := range source[:pos] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return
}

// Execution-bridge sentinel errors (spec.md §7.5). The core library never
// returns these; a driver layer raises them after observing zero or
// multiple rows from a first/single/last statement.
var (
	// ErrNoElements is returned by a driver when a first/single/last
	// (non-OrDefault) terminal's query produced zero rows.
	ErrNoElements = errors.New("tinqer: no elements found")
	// ErrMultipleElements is returned by a driver when a single/
	// singleOrDefault terminal's query produced more than one row.
	ErrMultipleElements = errors.New("tinqer: multiple elements found")
)
