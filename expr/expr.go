// Package expr defines the scalar expression-tree intermediate
// representation that sits inside operation-tree nodes: column
// references, parameters, arithmetic, comparisons, logical combinators,
// null checks, string helpers, aggregates, window functions, and spreads.
//
// The tree is built once by package visitor and is immutable afterward;
// package emit walks it to produce SQL.
package expr

import "github.com/tinqer-go/tinqer/shape"

// ValueExpr is implemented by every expression-tree node that produces a
// scalar value (as opposed to a boolean truth value; see [BoolExpr]).
type ValueExpr interface {
	valueExpr()
}

// BoolExpr is implemented by every expression-tree node that produces a
// boolean truth value.
type BoolExpr interface {
	boolExpr()
}

// ColumnSourceKind discriminates the ways a [Column] can resolve its
// table context.
type ColumnSourceKind int

const (
	// SourceDirect means the column belongs to the single table in scope
	// (no join, no prior select shape).
	SourceDirect ColumnSourceKind = iota
	// SourceTableAlias means the column is qualified by an explicit table
	// alias (used for the outer/inner sides of a join before a result
	// shape has been computed).
	SourceTableAlias
	// SourceJoinParam means the column comes from one side of the join
	// currently being visited (0 = outer, 1 = inner).
	SourceJoinParam
	// SourceJoinResult means the column was carried forward from a prior
	// join's result shape.
	SourceJoinResult
	// SourceSpread means the column was pulled in via an object spread
	// from an enclosing shape.
	SourceSpread
)

// ColumnSource describes where a [Column] or [Reference] resolves its
// table context from.
type ColumnSource struct {
	Kind  ColumnSourceKind
	Alias string // SourceTableAlias
	Index int    // SourceJoinParam (0=outer,1=inner) or SourceJoinResult/SourceSpread (table index)
}

// Column is a reference to a single named column of a table in scope.
type Column struct {
	Name   string
	Source ColumnSource
}

func (*Column) valueExpr() {}

// Reference is a reference to an entire table alias, produced by result
// selectors like "(u,d)=>({u,d})" that carry a whole row forward.
type Reference struct {
	Source ColumnSource
}

func (*Reference) valueExpr() {}

// ConstantKind enumerates the literal kinds a [Constant] can hold.
type ConstantKind int

const (
	ConstString ConstantKind = iota
	ConstNumber
	ConstBool
	ConstNull
)

// Constant is a literal value. Per spec, only `null`/`undefined` survive
// parsing as Constant; every other literal is auto-parameterized into a
// [Param] by the visitor before the tree is built.
type Constant struct {
	Kind  ConstantKind
	Value any
}

func (*Constant) valueExpr() {}

// Param is an auto-parameterized or caller-supplied named parameter.
// Property holds a dotted path into the parameter object when the source
// was "params.foo.bar" (nil for auto-params, which are scalar by
// construction).
type Param struct {
	Name     string
	Property []string
}

func (*Param) valueExpr() {}

// ArithOp enumerates the arithmetic operators.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
)

// Arithmetic is a binary arithmetic expression.
type Arithmetic struct {
	Op    ArithOp
	Left  ValueExpr
	Right ValueExpr
}

func (*Arithmetic) valueExpr() {}

// Concat is string concatenation (e.g. `a + b` on two string operands, or
// strcat-like helper calls).
type Concat struct {
	Parts []ValueExpr
}

func (*Concat) valueExpr() {}

// StringMethodKind enumerates supported string instance methods.
type StringMethodKind int

const (
	ToLowerCase StringMethodKind = iota
	ToUpperCase
)

// StringMethod lowers a string instance method call like `x.toLowerCase()`.
type StringMethod struct {
	Object ValueExpr
	Method StringMethodKind
}

func (*StringMethod) valueExpr() {}

// Coalesce lowers a `helpers.coalesce(a, b, ...)` default-value call.
type Coalesce struct {
	Exprs []ValueExpr
}

func (*Coalesce) valueExpr() {}

// Conditional lowers a ternary expression `cond ? then : else`.
type Conditional struct {
	Cond BoolExpr
	Then ValueExpr
	Else ValueExpr
}

func (*Conditional) valueExpr() {}

// AggregateFunc enumerates supported aggregate functions.
type AggregateFunc int

const (
	AggCount AggregateFunc = iota
	AggSum
	AggAvg
	AggMin
	AggMax
)

// Aggregate is an aggregate function call inside a groupBy projection.
// Expr is nil for a bare `count()`, which emits COUNT(*).
type Aggregate struct {
	Func AggregateFunc
	Expr ValueExpr
}

func (*Aggregate) valueExpr() {}

// WindowFunc enumerates supported window ranking functions.
type WindowFunc int

const (
	RowNumber WindowFunc = iota
	Rank
	DenseRank
)

// OrderTerm is one ORDER BY term inside a [Window] or an OrderBy/ThenBy
// operation.
type OrderTerm struct {
	Expr       ValueExpr
	Descending bool
}

// Window is a window-function builder's final state:
// `helpers.window(row).partitionBy(...).orderBy(...).rowNumber()`.
type Window struct {
	PartitionBy []ValueExpr
	OrderBy     []OrderTerm
	Func        WindowFunc
}

func (*Window) valueExpr() {}

// Spread lowers a reference to a prior object-spread source by shape
// index, used when resolving fields that passed through `{...joined}`.
type Spread struct {
	ShapeIndex int
	Shape      shape.Shape
}

func (*Spread) valueExpr() {}

// ComparisonOp enumerates the relational comparison operators.
type ComparisonOp int

const (
	Eq ComparisonOp = iota
	Ne
	Gt
	Ge
	Lt
	Le
)

// Comparison is a relational comparison between two value expressions.
// Equality against a literal/param null is normalized to [IsNull] by the
// visitor instead of appearing here.
type Comparison struct {
	Op    ComparisonOp
	Left  ValueExpr
	Right ValueExpr
}

func (*Comparison) boolExpr() {}

// LogicalOp enumerates the logical combinators.
type LogicalOp int

const (
	And LogicalOp = iota
	Or
)

// Logical is a short-circuiting `&&`/`||` combination of two boolean
// expressions. Left/Right order is preserved; no commutativity is assumed.
type Logical struct {
	Op    LogicalOp
	Left  BoolExpr
	Right BoolExpr
}

func (*Logical) boolExpr() {}

// Not is a boolean negation.
type Not struct {
	X BoolExpr
}

func (*Not) boolExpr() {}

// BooleanConstant is a literal `true`/`false`.
type BooleanConstant struct {
	Value bool
}

func (*BooleanConstant) boolExpr() {}

// BooleanColumn is a bare reference to a boolean-typed column used
// directly as a predicate (e.g. `u.isActive`).
type BooleanColumn struct {
	Name   string
	Source ColumnSource
}

func (*BooleanColumn) boolExpr() {}

// BooleanParam is a bare reference to a boolean-typed query parameter
// used directly as a predicate.
type BooleanParam struct {
	Name     string
	Property []string
}

func (*BooleanParam) boolExpr() {}

// BooleanMethodKind enumerates supported string predicate methods.
type BooleanMethodKind int

const (
	StartsWith BooleanMethodKind = iota
	EndsWith
	Includes
	Contains
)

// BooleanMethod lowers a string predicate method call like
// `x.startsWith(y)`.
type BooleanMethod struct {
	Object ValueExpr
	Method BooleanMethodKind
	Arg    ValueExpr
}

func (*BooleanMethod) boolExpr() {}

// In is a `[...].includes(x)` / `p.list.includes(x)` membership test
// (`contains` is accepted in place of `includes`).
// Exactly one of List or ListParam is set.
type In struct {
	Value     ValueExpr
	List      []ValueExpr
	ListParam *Param
}

func (*In) boolExpr() {}

// IsNull is a null-safety check, optionally negated for "IS NOT NULL".
type IsNull struct {
	Expr    ValueExpr
	Negated bool
}

func (*IsNull) boolExpr() {}

// CaseInsensitiveFunc enumerates the case-insensitive helper functions.
type CaseInsensitiveFunc int

const (
	IEquals CaseInsensitiveFunc = iota
	IStartsWith
	IEndsWith
	IContains
)

// CaseInsensitiveFn lowers a `helpers.functions.iequals(x, y)`-shaped call.
type CaseInsensitiveFn struct {
	Func CaseInsensitiveFunc
	Args []ValueExpr
}

func (*CaseInsensitiveFn) boolExpr() {}

// ObjectExpr is a record literal produced by a select/join result selector,
// e.g. `u => ({id: u.id, name: u.name})`.
type ObjectExpr struct {
	Fields []ObjectField
}

// ObjectField is one named field of an [ObjectExpr]. A whole-table
// reference field (e.g. the `u` in `{u, total: o.amount}`) is represented
// by a [Reference] value.
type ObjectField struct {
	Name  string
	Value ValueExpr
}

// ArrayExpr is an array literal used as an inline IN-list.
type ArrayExpr struct {
	Elems []ValueExpr
}

func (*ArrayExpr) valueExpr() {}
