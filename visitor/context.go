// Package visitor converts a parsed lambda ([syntax.ArrowFunc]) into the
// expr/ops intermediate representation: an [ops.Operation] chain plus the
// [expr.ValueExpr]/[expr.BoolExpr] trees hanging off it.
//
// A single [Context] is threaded through one top-level Visit call. It
// tracks which lambda parameter names are bound to which relational
// source (a single table, a join side, a join/select result shape, or a
// groupBy grouping), collects auto-parameterized literals in stable
// occurrence order, and accumulates the next unused table alias.
//
// Grounded on the teacher's parser.go, whose recursive-descent parse
// functions thread a single *parser receiver the same way a single
// *Context is threaded here; and on pql.go's compileError, whose
// span-carrying error values are the model for tinqerr's parse/semantic
// split.
package visitor

import (
	"fmt"

	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/internal/syntax"
	"github.com/tinqer-go/tinqer/shape"
	"github.com/tinqer-go/tinqer/tinqerr"
)

// bindingKind discriminates what a lambda parameter name currently refers
// to within the operation chain being built.
type bindingKind int

const (
	// bindTable means the parameter is the row of a single named table
	// with no alias qualification required (SourceDirect).
	bindTable bindingKind = iota
	// bindAlias means the parameter is one side of a join, qualified by
	// an assigned alias (SourceTableAlias).
	bindAlias
	// bindShape means the parameter is a previously projected record;
	// member paths resolve through a [shape.Shape].
	bindShape
	// bindGroup means the parameter is a groupBy grouping: `g.key` and
	// `g.count()`/`g.sum(...)` resolve specially.
	bindGroup
)

// binding records what a single lambda parameter name is bound to.
type binding struct {
	kind  bindingKind
	alias string      // bindTable, bindAlias
	sh    shape.Shape // bindShape
	group *groupInfo  // bindGroup
}

// groupInfo records the key/element context of a groupBy in scope.
type groupInfo struct {
	keySelector expr.ValueExpr
	keyShape    shape.Shape // nil if the key is a single scalar
	rowBinding  *binding    // the pre-groupBy row, rebound for g.sum(x=>...) etc.
}

// Context is threaded through one Visit call.
type Context struct {
	source string

	// params maps every lambda parameter name currently in scope (across
	// nested arrow functions) to its binding.
	params map[string]*binding

	// queryParams/helperParams name the outer builder lambda's own
	// parameters: the former is exposed as `p.foo` runtime parameters,
	// the latter as `helpers.window(...)`/`helpers.functions.*` calls.
	queryParams  map[string]bool
	helperParams map[string]bool

	nextAlias int

	autoParamCounter int
	autoParams       map[string]any
	autoParamOrder   []string
}

// NewContext returns a fresh visitor context for compiling source.
func NewContext(source string) *Context {
	return &Context{
		source:       source,
		params:       make(map[string]*binding),
		queryParams:  make(map[string]bool),
		helperParams: make(map[string]bool),
		autoParams:   make(map[string]any),
	}
}

// AutoParams returns the accumulated auto-parameter values keyed by
// synthetic name, in the order they were assigned.
func (c *Context) AutoParams() (order []string, values map[string]any) {
	return c.autoParamOrder, c.autoParams
}

func (c *Context) allocAlias() string {
	a := fmt.Sprintf("t%d", c.nextAlias)
	c.nextAlias++
	return a
}

func (c *Context) nextAutoParam(value any) *expr.Param {
	c.autoParamCounter++
	name := fmt.Sprintf("__p%d", c.autoParamCounter)
	c.autoParams[name] = value
	c.autoParamOrder = append(c.autoParamOrder, name)
	return &expr.Param{Name: name}
}

func (c *Context) bindTableParam(name, alias string) {
	c.params[name] = &binding{kind: bindTable, alias: alias}
}

func (c *Context) bindAliasParam(name, alias string) {
	c.params[name] = &binding{kind: bindAlias, alias: alias}
}

func (c *Context) bindShapeParam(name string, sh shape.Shape) {
	c.params[name] = &binding{kind: bindShape, sh: sh}
}

func (c *Context) bindGroupParam(name string, g *groupInfo) {
	c.params[name] = &binding{kind: bindGroup, group: g}
}

func (c *Context) unbind(name string) {
	delete(c.params, name)
}

func (c *Context) semanticErr(n syntax.Node, format string, args ...any) error {
	return &tinqerr.SemanticError{
		Source: c.source,
		Span:   n.Span(),
		Err:    fmt.Errorf(format, args...),
	}
}

func (c *Context) shapeErr(n syntax.Node, format string, args ...any) error {
	return &tinqerr.ShapeError{
		Source: c.source,
		Span:   n.Span(),
		Err:    fmt.Errorf(format, args...),
	}
}

func (c *Context) parseErr(n syntax.Node, format string, args ...any) error {
	return &tinqerr.ParseError{
		Source: c.source,
		Span:   n.Span(),
		Err:    fmt.Errorf(format, args...),
	}
}
