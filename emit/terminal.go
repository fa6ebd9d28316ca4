package emit

import (
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/ops"
)

func (e *emitter) buildTerminal(n *ops.Terminal) (*builder, error) {
	b, err := e.build(n.Source)
	if err != nil {
		return nil, err
	}

	switch n.Kind {
	case ops.ToArray, ops.ToList:
		return b, nil

	case ops.Count:
		if n.Predicate != nil {
			e.addWhere(b, n.Predicate)
		}
		if b.distinct {
			b = b.wrap(e.d, e.freshWrapAlias())
		}
		b.selectList = "COUNT(*)"
		return b, nil

	case ops.Sum, ops.Average, ops.Min, ops.Max:
		fn := map[ops.TerminalKind]string{ops.Sum: "SUM", ops.Average: "AVG", ops.Min: "MIN", ops.Max: "MAX"}[n.Kind]
		arg := e.renderValue(b, n.Selector)
		b.selectList = fn + "(" + arg + ")"
		return b, nil

	case ops.Any:
		if n.Predicate != nil {
			e.addWhere(b, n.Predicate)
		}
		return e.existsWrap(b, false), nil

	case ops.All:
		cond := "(NOT " + e.renderBool(b, n.Predicate) + ")"
		if len(b.groupByCols) > 0 {
			b.having = append(b.having, cond)
		} else {
			b.where = append(b.where, cond)
		}
		return e.existsWrap(b, true), nil

	case ops.Contains:
		val := e.renderValue(b, n.Contains)
		b.where = append(b.where, "("+b.selectList+" = "+val+")")
		return e.existsWrap(b, false), nil

	case ops.First, ops.FirstOrDefault:
		if n.Predicate != nil {
			e.addWhere(b, n.Predicate)
		}
		b.limit = "1"
		return b, nil

	case ops.Single, ops.SingleOrDefault:
		if n.Predicate != nil {
			e.addWhere(b, n.Predicate)
		}
		b.limit = "2"
		return b, nil

	case ops.Last, ops.LastOrDefault:
		if n.Predicate != nil {
			e.addWhere(b, n.Predicate)
		}
		if len(b.orderBy) == 0 {
			b.orderBy = append(b.orderBy, "1 DESC")
		} else {
			reverseOrder(b)
		}
		b.limit = "1"
		return b, nil
	}
	return b, nil
}

func (e *emitter) addWhere(b *builder, pred expr.BoolExpr) {
	cond := e.renderBool(b, pred)
	if len(b.groupByCols) > 0 {
		b.having = append(b.having, cond)
	} else {
		b.where = append(b.where, cond)
	}
}

func reverseOrder(b *builder) {
	for i, j := 0, len(b.orderBy)-1; i < j; i, j = i+1, j-1 {
		b.orderBy[i], b.orderBy[j] = b.orderBy[j], b.orderBy[i]
	}
	for i, term := range b.orderBy {
		b.orderBy[i] = flipOrder(term)
	}
}

// existsWrap finalizes b into a `CASE WHEN EXISTS(...) THEN 1 ELSE 0 END`
// (or its NOT-EXISTS negation for all()) scalar boolean result.
func (e *emitter) existsWrap(b *builder, negate bool) *builder {
	b.selectList = "1"
	sql := b.sql()
	cond := "EXISTS(" + sql + ")"
	if negate {
		cond = "NOT " + cond
	}
	out := newBuilder(e.d)
	out.rawSQL = "SELECT CASE WHEN " + cond + " THEN 1 ELSE 0 END"
	out.fromParams = b.allParams()
	return out
}
