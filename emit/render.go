package emit

import (
	"strconv"
	"strings"

	"github.com/tinqer-go/tinqer/expr"
)

func (b *builder) quoteCol(src expr.ColumnSource, name string) string {
	switch src.Kind {
	case expr.SourceTableAlias:
		return b.d.QuoteIdentifier(src.Alias) + "." + b.d.QuoteIdentifier(name)
	default:
		return b.d.QuoteIdentifier(name)
	}
}

func (b *builder) quoteRef(src expr.ColumnSource) string {
	switch src.Kind {
	case expr.SourceTableAlias:
		return b.d.QuoteIdentifier(src.Alias) + ".*"
	default:
		return "*"
	}
}

var arithSQL = map[expr.ArithOp]string{
	expr.Add: "+",
	expr.Sub: "-",
	expr.Mul: "*",
	expr.Div: "/",
	expr.Mod: "%",
}

var aggSQL = map[expr.AggregateFunc]string{
	expr.AggCount: "COUNT",
	expr.AggSum:   "SUM",
	expr.AggAvg:   "AVG",
	expr.AggMin:   "MIN",
	expr.AggMax:   "MAX",
}

var windowSQL = map[expr.WindowFunc]string{
	expr.RowNumber: "ROW_NUMBER",
	expr.Rank:      "RANK",
	expr.DenseRank: "DENSE_RANK",
}

func (e *emitter) renderValue(b *builder, v expr.ValueExpr) string {
	switch n := v.(type) {
	case *expr.Column:
		return b.quoteCol(n.Source, n.Name)
	case *expr.Reference:
		return b.quoteRef(n.Source)
	case *expr.Constant:
		return renderConstant(b, n)
	case *expr.Param:
		return b.bindAuto(n)
	case *expr.Arithmetic:
		return "(" + e.renderValue(b, n.Left) + " " + arithSQL[n.Op] + " " + e.renderValue(b, n.Right) + ")"
	case *expr.Concat:
		parts := make([]string, len(n.Parts))
		for i, p := range n.Parts {
			parts[i] = e.renderValue(b, p)
		}
		return b.d.Concat(parts)
	case *expr.StringMethod:
		obj := e.renderValue(b, n.Object)
		if n.Method == expr.ToLowerCase {
			return "LOWER(" + obj + ")"
		}
		return "UPPER(" + obj + ")"
	case *expr.Coalesce:
		parts := make([]string, len(n.Exprs))
		for i, p := range n.Exprs {
			parts[i] = e.renderValue(b, p)
		}
		return "COALESCE(" + strings.Join(parts, ", ") + ")"
	case *expr.Conditional:
		return "(CASE WHEN " + e.renderBool(b, n.Cond) + " THEN " + e.renderValue(b, n.Then) + " ELSE " + e.renderValue(b, n.Else) + " END)"
	case *expr.Aggregate:
		if n.Expr == nil {
			return "COUNT(*)"
		}
		return aggSQL[n.Func] + "(" + e.renderValue(b, n.Expr) + ")"
	case *expr.Window:
		return e.renderWindow(b, n)
	case *expr.ArrayExpr:
		parts := make([]string, len(n.Elems))
		for i, p := range n.Elems {
			parts[i] = e.renderValue(b, p)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *expr.Spread:
		return "*"
	}
	return "NULL"
}

func (e *emitter) renderWindow(b *builder, w *expr.Window) string {
	var sb strings.Builder
	sb.WriteString(windowSQL[w.Func])
	sb.WriteString("() OVER (")
	wrote := false
	if len(w.PartitionBy) > 0 {
		parts := make([]string, len(w.PartitionBy))
		for i, p := range w.PartitionBy {
			parts[i] = e.renderValue(b, p)
		}
		sb.WriteString("PARTITION BY ")
		sb.WriteString(strings.Join(parts, ", "))
		wrote = true
	}
	if len(w.OrderBy) > 0 {
		if wrote {
			sb.WriteString(" ")
		}
		terms := make([]string, len(w.OrderBy))
		for i, t := range w.OrderBy {
			terms[i] = orderTerm(e.renderValue(b, t.Expr), t.Descending)
		}
		sb.WriteString("ORDER BY ")
		sb.WriteString(strings.Join(terms, ", "))
	}
	sb.WriteString(")")
	return sb.String()
}

func renderConstant(b *builder, n *expr.Constant) string {
	switch n.Kind {
	case expr.ConstNull:
		return "NULL"
	case expr.ConstBool:
		return b.d.BooleanLiteral(n.Value.(bool))
	case expr.ConstNumber:
		return formatNumber(n.Value)
	default:
		return "'" + strings.ReplaceAll(n.Value.(string), "'", "''") + "'"
	}
}

func formatNumber(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return strconv.FormatFloat(0, 'g', -1, 64)
	}
}

var cmpSQL = map[expr.ComparisonOp]string{
	expr.Eq: "=",
	expr.Ne: "<>",
	expr.Gt: ">",
	expr.Ge: ">=",
	expr.Lt: "<",
	expr.Le: "<=",
}

func (e *emitter) renderBool(b *builder, v expr.BoolExpr) string {
	switch n := v.(type) {
	case *expr.Comparison:
		return e.renderValue(b, n.Left) + " " + cmpSQL[n.Op] + " " + e.renderValue(b, n.Right)
	case *expr.Logical:
		op := " AND "
		if n.Op == expr.Or {
			op = " OR "
		}
		return "(" + e.renderBool(b, n.Left) + op + e.renderBool(b, n.Right) + ")"
	case *expr.Not:
		return "(NOT " + e.renderBool(b, n.X) + ")"
	case *expr.BooleanConstant:
		return b.d.BooleanLiteral(n.Value)
	case *expr.BooleanColumn:
		return b.quoteCol(n.Source, n.Name)
	case *expr.BooleanParam:
		return b.bindAuto(&expr.Param{Name: n.Name, Property: n.Property})
	case *expr.BooleanMethod:
		obj := e.renderValue(b, n.Object)
		switch n.Method {
		case expr.StartsWith:
			return "(" + obj + " LIKE " + e.likeConcat(b, n.Arg, false, true) + ")"
		case expr.EndsWith:
			return "(" + obj + " LIKE " + e.likeConcat(b, n.Arg, true, false) + ")"
		default: // Includes, Contains
			return "(" + obj + " LIKE " + e.likeConcat(b, n.Arg, true, true) + ")"
		}
	case *expr.In:
		val := e.renderValue(b, n.Value)
		if n.ListParam != nil {
			return "(" + val + " = ANY(" + b.bindAuto(n.ListParam) + "))"
		}
		parts := make([]string, len(n.List))
		for i, el := range n.List {
			parts[i] = e.renderValue(b, el)
		}
		return "(" + val + " IN (" + strings.Join(parts, ", ") + "))"
	case *expr.IsNull:
		if n.Negated {
			return "(" + e.renderValue(b, n.Expr) + " IS NOT NULL)"
		}
		return "(" + e.renderValue(b, n.Expr) + " IS NULL)"
	case *expr.CaseInsensitiveFn:
		return e.renderCaseInsensitive(b, n)
	}
	return "TRUE"
}

// likeConcat builds a dialect-appropriate LIKE pattern (standard SQL
// `'%' || arg || '%'`, or MySQL's `CONCAT('%', arg, '%')`). A Param arg
// renders as a placeholder and a Constant arg as an inline literal; in
// both cases the wildcard characters are concatenated around it at SQL
// level, not baked into the bound value.
func (e *emitter) likeConcat(b *builder, arg expr.ValueExpr, leadingPct, trailingPct bool) string {
	parts := []string{}
	if leadingPct {
		parts = append(parts, "'%'")
	}
	parts = append(parts, e.renderValue(b, arg))
	if trailingPct {
		parts = append(parts, "'%'")
	}
	return b.d.Concat(parts)
}

func (e *emitter) renderCaseInsensitive(b *builder, n *expr.CaseInsensitiveFn) string {
	lowerArgs := make([]string, len(n.Args))
	for i, a := range n.Args {
		lowerArgs[i] = "LOWER(" + e.renderValue(b, a) + ")"
	}
	switch n.Func {
	case expr.IEquals:
		return "(" + lowerArgs[0] + " = " + lowerArgs[1] + ")"
	case expr.IStartsWith:
		return "(" + lowerArgs[0] + " LIKE " + b.d.Concat([]string{lowerArgs[1], "'%'"}) + ")"
	case expr.IEndsWith:
		return "(" + lowerArgs[0] + " LIKE " + b.d.Concat([]string{"'%'", lowerArgs[1]}) + ")"
	default: // IContains
		return "(" + lowerArgs[0] + " LIKE " + b.d.Concat([]string{"'%'", lowerArgs[1], "'%'"}) + ")"
	}
}
