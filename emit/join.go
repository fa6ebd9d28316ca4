package emit

import (
	"errors"
	"strings"

	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/ops"
	"github.com/tinqer-go/tinqer/tinqerr"
)

var errJoinSourceNotTable = errors.New("join source must be a direct table reference")

func (e *emitter) buildJoin(n *ops.Join) (*builder, error) {
	outer, ok := n.Source.(*ops.From)
	if !ok {
		return nil, &tinqerr.EmitError{Err: errJoinSourceNotTable}
	}
	inner, ok := n.Inner.(*ops.From)
	if !ok {
		return nil, &tinqerr.EmitError{Err: errJoinSourceNotTable}
	}

	b := newBuilder(e.d)
	joinWord := "INNER JOIN"
	if n.Kind == ops.LeftJoin {
		joinWord = "LEFT JOIN"
	}
	onExpr := e.renderValue(b, n.OuterKey) + " = " + e.renderValue(b, n.InnerKey)

	var sb strings.Builder
	sb.WriteString(e.d.QuoteIdentifier(outer.Table))
	sb.WriteString(" AS ")
	sb.WriteString(e.d.QuoteIdentifier(n.OuterAlias))
	sb.WriteString(" ")
	sb.WriteString(joinWord)
	sb.WriteString(" ")
	sb.WriteString(e.d.QuoteIdentifier(inner.Table))
	sb.WriteString(" AS ")
	sb.WriteString(e.d.QuoteIdentifier(n.InnerAlias))
	sb.WriteString(" ON ")
	sb.WriteString(onExpr)
	b.from = sb.String()

	cols := make([]string, 0, len(n.ResultObj.Fields))
	local := map[string]bool{}
	for _, f := range n.ResultObj.Fields {
		val := e.renderValue(b, f.Value)
		if f.Name == "" {
			cols = append(cols, val)
			continue
		}
		cols = append(cols, val+" AS "+e.d.QuoteIdentifier(f.Name))
		if !isPassthrough(f.Value) {
			local[f.Name] = true
		}
	}
	b.selectList = strings.Join(cols, ", ")
	b.localAlias = local
	return b, nil
}

func isPassthrough(v expr.ValueExpr) bool {
	switch v.(type) {
	case *expr.Column, *expr.Reference:
		return true
	}
	return false
}

