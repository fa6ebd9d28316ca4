// Package tinqer is the public entry point: it ties together
// package visitor (parsing), package emit (SQL generation), and
// package plancache (memoization) behind the small surface spec.md
// §6.1 names — DefineSelect/DefineInsert/DefineUpdate/DefineDelete and
// ToSql — plus the staged plan-handle builders for the non-lambda
// mutation entry form (spec.md §4.5).
//
// Grounded on the teacher's pql.Compile/CompileOptions.Compile as the
// single top-level entry point, generalized from a one-shot compile
// into a parse-once/emit-many-dialects API.
package tinqer

import (
	"fmt"
	"sync"

	"github.com/tinqer-go/tinqer/dialect"
	"github.com/tinqer-go/tinqer/emit"
	"github.com/tinqer-go/tinqer/ops"
	"github.com/tinqer-go/tinqer/plancache"
	"github.com/tinqer-go/tinqer/visitor"
)

// Schema is an opaque handle describing a relation catalog. The core
// emitter never consults it; it exists so callers have a single typed
// value to thread through Define* calls and, optionally, to validate
// table/column names against before compiling.
type Schema struct {
	Tables map[string][]string
}

// NewSchema returns a handle over the given table -> column-name catalog.
func NewSchema(tables map[string][]string) *Schema {
	return &Schema{Tables: tables}
}

// Plan is implemented by every compiled statement handle
// (*SelectPlan, *InsertPlan, *UpdatePlan, *DeletePlan).
type Plan interface {
	op() ops.Operation
	source() string
	autoParams() ([]string, map[string]any)
}

type planBase struct {
	op_     ops.Operation
	src     string
	order   []string
	autoVal map[string]any
}

func (p *planBase) op() ops.Operation { return p.op_ }
func (p *planBase) source() string    { return p.src }

// SelectPlan is a compiled select statement.
type SelectPlan struct{ planBase }

// InsertPlan is a compiled insertInto(...).values(...) statement.
type InsertPlan struct{ planBase }

// UpdatePlan is a compiled update(...).set(...) statement.
type UpdatePlan struct{ planBase }

// DeletePlan is a compiled deleteFrom(...) statement.
type DeletePlan struct{ planBase }

// DefineSelect parses source (a "(q, p) => q.from(...)...select(...)"
// lambda, see package visitor) against schema and returns a reusable
// compiled plan.
func DefineSelect(schema *Schema, source string) (*SelectPlan, error) {
	op, ctx, err := visitor.VisitSelect(source)
	if err != nil {
		return nil, err
	}
	order, vals := ctx.AutoParams()
	return &SelectPlan{planBase{op_: op, src: source, order: order, autoVal: vals}}, nil
}

// DefineInsert parses source as an insertInto(...).values(...) builder.
func DefineInsert(schema *Schema, source string) (*InsertPlan, error) {
	op, ctx, err := visitor.VisitInsert(source)
	if err != nil {
		return nil, err
	}
	order, vals := ctx.AutoParams()
	return &InsertPlan{planBase{op_: op, src: source, order: order, autoVal: vals}}, nil
}

// DefineUpdate parses source as an update(...).set(...) builder.
func DefineUpdate(schema *Schema, source string) (*UpdatePlan, error) {
	op, ctx, err := visitor.VisitUpdate(source)
	if err != nil {
		return nil, err
	}
	order, vals := ctx.AutoParams()
	return &UpdatePlan{planBase{op_: op, src: source, order: order, autoVal: vals}}, nil
}

// DefineDelete parses source as a deleteFrom(...) builder.
func DefineDelete(schema *Schema, source string) (*DeletePlan, error) {
	op, ctx, err := visitor.VisitDelete(source)
	if err != nil {
		return nil, err
	}
	order, vals := ctx.AutoParams()
	return &DeletePlan{planBase{op_: op, src: source, order: order, autoVal: vals}}, nil
}

// SqlResult is the final `{sql, params}` pair returned to a caller.
type SqlResult struct {
	SQL    string
	Params []any
}

var (
	cacheMu sync.Mutex
	cache   = plancache.New(plancache.DefaultConfig)
)

// ToSqlOptions controls a single ToSql call.
type ToSqlOptions struct {
	// Cache disables the parse/emit cache for this call only when false.
	// The zero value (false) would disable caching by default, which
	// is surprising, so Cache defaults to enabled via ToSql's variadic
	// form: callers who never pass options get caching.
	Cache bool
}

// ToSql merges the plan's auto-parameterized literals with
// runtimeParams (runtime values win on name collision) and emits SQL
// for d, consulting the process-wide plan cache for the compiled
// (SQL, param-name-order) pair keyed by (plan source, dialect).
func ToSql(plan Plan, d dialect.Dialect, runtimeParams map[string]any, opts ...func(*ToSqlOptions)) (*SqlResult, error) {
	o := ToSqlOptions{Cache: true}
	for _, fn := range opts {
		fn(&o)
	}

	var result *emit.Result
	var err error
	cacheKey := plan.source()
	if o.Cache {
		if cached, ok := cache.Get(cacheKey, d.Name()); ok {
			result = cached.(*emit.Result)
		}
	}
	if result == nil {
		result, err = compile(plan, d)
		if err != nil {
			return nil, err
		}
		if o.Cache {
			cache.Put(cacheKey, d.Name(), result)
		}
	}

	autoOrder, autoVals := plan.autoParams()
	merged := make(map[string]any, len(autoVals)+len(runtimeParams))
	for _, name := range autoOrder {
		merged[name] = autoVals[name]
	}
	for k, v := range runtimeParams {
		merged[k] = v
	}

	args := make([]any, len(result.Params))
	for i, p := range result.Params {
		v, ok := merged[p.Name]
		if !ok {
			return nil, fmt.Errorf("tinqer: missing value for parameter %q", p.Name)
		}
		args[i] = v
	}
	return &SqlResult{SQL: result.SQL, Params: args}, nil
}

func (p *planBase) autoParams() ([]string, map[string]any) { return p.order, p.autoVal }

// PlanOperation exposes a compiled plan's parsed operation tree to
// package driver, which inspects it to recover the terminal cardinality
// form (first/single/last) without duplicating the visitor's grammar.
func PlanOperation(p Plan) ops.Operation { return p.op() }

// NewTestSelectPlan builds a SelectPlan directly from an operation tree,
// bypassing the lambda parser, for tests in other packages (notably
// package driver) that need a plan shaped around a specific terminal
// kind without hand-writing lambda source text.
func NewTestSelectPlan(op ops.Operation) *SelectPlan {
	return &SelectPlan{planBase{op_: op, src: "", autoVal: map[string]any{}}}
}

// PlanHasReturning reports whether an insert/update/delete plan carries
// a returning() clause, so package driver can decide whether to read
// rows back or merely exec the statement.
func PlanHasReturning(p Plan) bool {
	switch n := p.op().(type) {
	case *ops.Insert:
		return n.Returning != nil
	case *ops.Update:
		return n.Returning != nil
	case *ops.Delete:
		return n.Returning != nil
	default:
		return false
	}
}

func compile(plan Plan, d dialect.Dialect) (*emit.Result, error) {
	switch n := plan.op().(type) {
	case *ops.Insert:
		return emit.Insert(n, d)
	case *ops.Update:
		return emit.Update(n, d)
	case *ops.Delete:
		return emit.Delete(n, d)
	default:
		return emit.Select(n, d)
	}
}

// WithoutCache disables the plan cache for a single ToSql call.
func WithoutCache(o *ToSqlOptions) { o.Cache = false }

// ClearParseCache empties the process-wide plan cache.
func ClearParseCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache.Clear()
}

// SetParseCacheConfig reconfigures the process-wide plan cache.
func SetParseCacheConfig(cfg plancache.Config) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache.Configure(cfg)
}

// ParseCacheLen reports the number of entries currently cached.
func ParseCacheLen() int {
	return cache.Len()
}
