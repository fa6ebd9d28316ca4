// Package emit walks an [ops.Operation] tree and renders it to
// dialect-specific parameterized SQL text plus an ordered list of bind
// parameter placeholders (auto-parameter names and/or runtime parameter
// paths), in the placeholder's positional order.
//
// Grounded on the teacher's pql.go Compile/writeExpression pipeline: a
// single pass walks the already-resolved tree and writes directly to a
// strings.Builder, with parameters collected alongside rather than
// interpolated. Window-function projections that a later operator
// filters or sorts on are wrapped in a parenthesized subquery, mirroring
// how pql.go's subquery.write nests a prior stage's SELECT.
package emit

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tinqer-go/tinqer/dialect"
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/ops"
	"github.com/tinqer-go/tinqer/tinqerr"
)

// Param is one bind parameter in positional order: Name is either a
// synthetic auto-parameter name ("__p1") or a caller-supplied runtime
// parameter path ("min", "filter.minAge").
type Param struct {
	Name string
}

// Result is a compiled statement: SQL text plus the bind parameters that
// fill its placeholders, in order.
type Result struct {
	SQL    string
	Params []Param
}

type builder struct {
	d dialect.Dialect

	from       string
	fromParams []Param
	alias      string

	distinct    bool
	selectList  string
	localAlias  map[string]bool
	where       []string
	groupByCols []string
	having      []string
	orderBy     []string
	limit       string
	offset      string

	params []Param
	nextN  int // next 1-based placeholder ordinal, for dialects needing $N

	// rawSQL, when non-empty, is returned verbatim by sql() instead of
	// assembling the usual SELECT/FROM/WHERE clauses: used by any()/all()/
	// contains(), which compile to an EXISTS(...) scalar with no FROM of
	// their own.
	rawSQL string
}

func newBuilder(d dialect.Dialect) *builder {
	return &builder{d: d, localAlias: map[string]bool{}, nextN: 1}
}

func (b *builder) bindAuto(p *expr.Param) string {
	b.params = append(b.params, Param{Name: p.Name})
	ph := b.d.Placeholder(b.nextN)
	b.nextN++
	return ph
}

func (b *builder) sql() string {
	if b.rawSQL != "" {
		return b.rawSQL
	}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if b.distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(b.selectList)
	sb.WriteString(" FROM ")
	sb.WriteString(b.from)
	if b.alias != "" {
		sb.WriteString(" AS ")
		sb.WriteString(b.d.QuoteIdentifier(b.alias))
	}
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	if len(b.groupByCols) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groupByCols, ", "))
	}
	if len(b.having) > 0 {
		sb.WriteString(" HAVING ")
		sb.WriteString(strings.Join(b.having, " AND "))
	}
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if lo := b.d.LimitOffset(b.limit, b.offset); lo != "" {
		sb.WriteString(" ")
		sb.WriteString(lo)
	}
	return sb.String()
}

func (b *builder) allParams() []Param {
	out := make([]Param, 0, len(b.fromParams)+len(b.params))
	out = append(out, b.fromParams...)
	out = append(out, b.params...)
	return out
}

// wrap finalizes b into a parenthesized subquery and returns a fresh
// builder selecting "*" from it under alias, used whenever a later
// operator needs to reference one of b's own computed output columns.
func (b *builder) wrap(d dialect.Dialect, alias string) *builder {
	nb := newBuilder(d)
	nb.from = "(" + b.sql() + ")"
	nb.fromParams = b.allParams()
	nb.nextN = len(nb.fromParams) + 1
	nb.alias = alias
	nb.selectList = "*"
	return nb
}

// Select compiles a select-statement operation tree for d.
func Select(op ops.Operation, d dialect.Dialect) (*Result, error) {
	e := &emitter{d: d}
	b, err := e.build(op)
	if err != nil {
		return nil, err
	}
	return finish(b), nil
}

func finish(b *builder) *Result {
	return &Result{SQL: b.sql(), Params: b.allParams()}
}

type emitter struct {
	d dialect.Dialect

	// aliasCounter names wrap-subquery aliases ("w1", "w2", ...) whenever
	// a where()/orderBy() referencing a computed/window column forces a
	// subquery wrap. Scoped to one Select() call so output stays a pure,
	// byte-stable function of (operation tree, dialect) across repeated
	// or concurrent compiles of the same tree.
	aliasCounter int
}

func (e *emitter) freshWrapAlias() string {
	e.aliasCounter++
	return "w" + strconv.Itoa(e.aliasCounter)
}

func (e *emitter) build(op ops.Operation) (*builder, error) {
	switch n := op.(type) {
	case *ops.From:
		b := newBuilder(e.d)
		b.from = e.d.QuoteIdentifier(n.Table)
		b.selectList = "*"
		return b, nil

	case *ops.Where:
		b, err := e.build(n.Source)
		if err != nil {
			return nil, err
		}
		if referencesLocalAlias(b, n.Predicate) {
			b = b.wrap(e.d, e.freshWrapAlias())
		}
		cond := e.renderBool(b, n.Predicate)
		if len(b.groupByCols) > 0 {
			b.having = append(b.having, cond)
		} else {
			b.where = append(b.where, cond)
		}
		return b, nil

	case *ops.Select:
		return e.buildSelect(n)

	case *ops.Join:
		return e.buildJoin(n)

	case *ops.GroupBy:
		b, err := e.build(n.Source)
		if err != nil {
			return nil, err
		}
		b.groupByCols = append(b.groupByCols, e.renderValue(b, n.KeySelector))
		return b, nil

	case *ops.OrderBy:
		b, err := e.build(n.Source)
		if err != nil {
			return nil, err
		}
		if referencesLocalAlias(b, n.KeySelector) {
			b = b.wrap(e.d, e.freshWrapAlias())
		}
		b.orderBy = append(b.orderBy, orderTerm(e.renderValue(b, n.KeySelector), n.Descending))
		return b, nil

	case *ops.ThenBy:
		b, err := e.build(n.Source)
		if err != nil {
			return nil, err
		}
		b.orderBy = append(b.orderBy, orderTerm(e.renderValue(b, n.KeySelector), n.Descending))
		return b, nil

	case *ops.Take:
		b, err := e.build(n.Source)
		if err != nil {
			return nil, err
		}
		b.limit = e.renderValue(b, n.Count)
		return b, nil

	case *ops.Skip:
		b, err := e.build(n.Source)
		if err != nil {
			return nil, err
		}
		b.offset = e.renderValue(b, n.Count)
		return b, nil

	case *ops.Distinct:
		b, err := e.build(n.Source)
		if err != nil {
			return nil, err
		}
		b.distinct = true
		return b, nil

	case *ops.Reverse:
		b, err := e.build(n.Source)
		if err != nil {
			return nil, err
		}
		for i, j := 0, len(b.orderBy)-1; i < j; i, j = i+1, j-1 {
			b.orderBy[i], b.orderBy[j] = b.orderBy[j], b.orderBy[i]
		}
		for i, term := range b.orderBy {
			b.orderBy[i] = flipOrder(term)
		}
		return b, nil

	case *ops.Terminal:
		return e.buildTerminal(n)
	}
	return nil, &tinqerr.EmitError{Err: errUnsupportedOp}
}

var errUnsupportedOp = errors.New("emit: unsupported operation node")

func orderTerm(expr string, desc bool) string {
	if desc {
		return expr + " DESC"
	}
	return expr + " ASC"
}

func flipOrder(term string) string {
	if strings.HasSuffix(term, " ASC") {
		return strings.TrimSuffix(term, " ASC") + " DESC"
	}
	return strings.TrimSuffix(term, " DESC") + " ASC"
}

func (e *emitter) buildSelect(n *ops.Select) (*builder, error) {
	b, err := e.build(n.Source)
	if err != nil {
		return nil, err
	}
	switch {
	case n.Object == nil:
		if n.Selector == nil {
			b.selectList = "*"
			b.localAlias = map[string]bool{}
			return b, nil
		}
		b.selectList = e.renderValue(b, n.Selector)
		b.localAlias = map[string]bool{}
		return b, nil
	default:
		cols := make([]string, 0, len(n.Object.Fields))
		local := map[string]bool{}
		for _, f := range n.Object.Fields {
			if f.Name == "" {
				cols = append(cols, e.renderValue(b, f.Value))
				continue
			}
			cols = append(cols, e.renderValue(b, f.Value)+" AS "+e.d.QuoteIdentifier(f.Name))
			local[f.Name] = true
		}
		if n.Spread {
			b.selectList = "*, " + strings.Join(cols, ", ")
		} else {
			b.selectList = strings.Join(cols, ", ")
		}
		b.localAlias = local
		return b, nil
	}
}

