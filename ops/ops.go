// Package ops defines the linear relational operation-tree intermediate
// representation: a chain of relational operations rooted at a [From] and
// ending in a terminal node that determines the statement's kind and
// return shape.
//
// Operation and expression trees are immutable once built; every
// plan-handle stage clones the prior tree before extending it (see the
// root tinqer package's staged plan handles).
package ops

import (
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/shape"
)

// Operation is implemented by every node in the operation tree.
type Operation interface {
	operation()
}

// Chainable is implemented by operations that have an upstream source
// operation (every operation except [From]).
type Chainable interface {
	Operation
	Src() Operation
}

// From is the root of every operation tree: a single named table.
type From struct {
	Table  string
	Schema string // empty if the table is unqualified
}

func (*From) operation() {}

// Where filters rows of its source by a boolean predicate. Consecutive
// Where operations are combined with AND at emission time.
type Where struct {
	Source    Operation
	Predicate expr.BoolExpr
}

func (*Where) operation() {}
func (w *Where) Src() Operation { return w.Source }

// Select is a projection. Selector is either a [expr.ValueExpr] (identity
// or scalar projection) or an [*expr.ObjectExpr] (record projection).
// ResultShape is non-nil when Selector is an ObjectExpr.
//
// Spread marks an "extend" projection built from a selector that spreads a
// whole row plus additional fields (e.g. `u => ({...u, rn: ...})`): Object
// holds only the added fields, and the emitter produces `SELECT *, <added>`
// instead of enumerating the spread side's columns.
type Select struct {
	Source      Operation
	Selector    expr.ValueExpr
	Object      *expr.ObjectExpr // non-nil for a record projection; Selector is nil in that case
	Spread      bool
	ResultShape shape.Shape
}

func (*Select) operation() {}
func (s *Select) Src() Operation { return s.Source }

// JoinKind enumerates the supported join kinds.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

// Join combines an outer source with an inner operation on an equality
// key, producing a new result shape from ResultSelector.
//
// OuterAlias/InnerAlias are assigned by the visitor at join time and used
// both to resolve column references inside OuterKey/InnerKey/ResultObj and
// by the emitter to alias each side's FROM/JOIN clause. The visitor only
// supports joining bare table sources (Source and Inner are each a plain
// [*From]); joining an already-filtered or already-projected source is
// rejected with a semantic error.
type Join struct {
	Source      Operation // outer, always a *From
	Inner       Operation // always a *From
	OuterAlias  string
	InnerAlias  string
	OuterKey    expr.ValueExpr
	InnerKey    expr.ValueExpr
	ResultObj   *expr.ObjectExpr
	ResultShape shape.Shape
	Kind        JoinKind
}

func (*Join) operation() {}
func (j *Join) Src() Operation { return j.Source }

// GroupBy groups rows of its source by a key selector. A GroupBy is only
// ever meaningful as the source of a following [Select] that projects the
// group key and aggregate expressions.
type GroupBy struct {
	Source        Operation
	KeySelector   expr.ValueExpr
	KeyObject     *expr.ObjectExpr // non-nil for a composite (multi-column) key
	ElementSource expr.ValueExpr   // non-nil if an element selector was given
}

func (*GroupBy) operation() {}
func (g *GroupBy) Src() Operation { return g.Source }

// OrderBy is the first sort key of a statement.
type OrderBy struct {
	Source      Operation
	KeySelector expr.ValueExpr
	Descending  bool
}

func (*OrderBy) operation() {}
func (o *OrderBy) Src() Operation { return o.Source }

// ThenBy is a secondary sort key. Its nearest non-ThenBy source must
// transitively reach an [OrderBy]; the visitor enforces this invariant.
type ThenBy struct {
	Source      Operation
	KeySelector expr.ValueExpr
	Descending  bool
}

func (*ThenBy) operation() {}
func (t *ThenBy) Src() Operation { return t.Source }

// Take limits the number of rows returned. Count is either a literal
// wrapped in an auto-param or a runtime [*expr.Param].
type Take struct {
	Source Operation
	Count  expr.ValueExpr
}

func (*Take) operation() {}
func (t *Take) Src() Operation { return t.Source }

// Skip discards a number of leading rows.
type Skip struct {
	Source Operation
	Count  expr.ValueExpr
}

func (*Skip) operation() {}
func (s *Skip) Src() Operation { return s.Source }

// Distinct deduplicates rows of its source.
type Distinct struct {
	Source Operation
}

func (*Distinct) operation() {}
func (d *Distinct) Src() Operation { return d.Source }

// Reverse reverses the row order of its source.
type Reverse struct {
	Source Operation
}

func (*Reverse) operation() {}
func (r *Reverse) Src() Operation { return r.Source }

// TerminalKind enumerates the scalar/shape-determining terminal forms.
type TerminalKind int

const (
	First TerminalKind = iota
	FirstOrDefault
	Single
	SingleOrDefault
	Last
	LastOrDefault
	Any
	All
	Contains
	Count
	Sum
	Average
	Min
	Max
	ToArray
	ToList
)

// Terminal concludes an operation chain and determines the statement's
// return kind. Predicate and Selector are optional inline arguments
// (e.g. `.any(u => u.age < 30)`, `.sum(u => u.total)`); both are nil for
// argument-less forms like `.count()`, `.toArray()`.
type Terminal struct {
	Source    Operation
	Kind      TerminalKind
	Predicate expr.BoolExpr
	Selector  expr.ValueExpr
	Contains  expr.ValueExpr // non-nil only for Contains
}

func (*Terminal) operation() {}
func (t *Terminal) Src() Operation { return t.Source }

// Insert is a mutation statement inserting a single row.
type Insert struct {
	Table     string
	Values    *expr.ObjectExpr
	Returning *expr.ObjectExpr // nil if no RETURNING clause
}

func (*Insert) operation() {}

// Update is a mutation statement. The emitter refuses to produce SQL
// unless Predicate is set or AllowFullTableUpdate is true.
type Update struct {
	Table                string
	Assignments          *expr.ObjectExpr
	Predicate            expr.BoolExpr
	AllowFullTableUpdate bool
	Returning            *expr.ObjectExpr
}

func (*Update) operation() {}

// Delete is a mutation statement. The emitter refuses to produce SQL
// unless Predicate is set or AllowFullTableDelete is true.
type Delete struct {
	Table                string
	Predicate            expr.BoolExpr
	AllowFullTableDelete bool
	Returning            *expr.ObjectExpr
}

func (*Delete) operation() {}

// NearestOrderBy walks the source chain from op looking for the nearest
// OrderBy, passing through ThenBy operations only. It returns nil if op's
// chain does not reach an OrderBy without an intervening non-ThenBy
// operation.
func NearestOrderBy(op Operation) *OrderBy {
	for {
		switch o := op.(type) {
		case *OrderBy:
			return o
		case *ThenBy:
			op = o.Source
		default:
			return nil
		}
	}
}
