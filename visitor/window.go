package visitor

import (
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/internal/syntax"
)

// visitWindowValue recognizes a window-function builder chain:
// `helpers.window(row).partitionBy(...).orderBy(...).rowNumber()`, with
// any number of partitionBy/orderBy/orderByDescending/thenBy/
// thenByDescending calls (in any order the caller chose) before the
// terminal rowNumber()/rank()/denseRank() call.
func (c *Context) visitWindowValue(call *syntax.CallExpr) (expr.ValueExpr, bool, error) {
	base, links, ok := unrollChain(call)
	if !ok || len(links) == 0 {
		return nil, false, nil
	}
	mem, ok := base.Func.(*syntax.MemberExpr)
	if !ok || mem.Sel.Name != "window" {
		return nil, false, nil
	}
	root, ok := mem.X.(*syntax.Ident)
	if !ok || !c.helperParams[root.Name] {
		return nil, false, nil
	}
	if len(base.Args) != 1 {
		return nil, true, c.semanticErr(base, "helpers.window() takes exactly one row argument")
	}
	rowIdent, ok := base.Args[0].(*syntax.Ident)
	if !ok {
		return nil, true, c.semanticErr(base, "helpers.window() argument must be the row parameter")
	}
	rowBinding, bound := c.params[rowIdent.Name]
	if !bound {
		return nil, true, c.semanticErr(base, "%q is not a bound row parameter", rowIdent.Name)
	}

	last := links[len(links)-1]
	var fn expr.WindowFunc
	switch last.method {
	case "rowNumber":
		fn = expr.RowNumber
	case "rank":
		fn = expr.Rank
	case "denseRank":
		fn = expr.DenseRank
	default:
		return nil, true, c.semanticErr(call, "window chain must end in rowNumber()/rank()/denseRank()")
	}
	if len(last.call.Args) != 0 {
		return nil, true, c.semanticErr(last.call, "%s() does not take arguments", last.method)
	}

	var partitionBy []expr.ValueExpr
	var orderBy []expr.OrderTerm
	for _, link := range links[:len(links)-1] {
		if len(link.call.Args) != 1 {
			return nil, true, c.semanticErr(link.call, "%s() takes exactly one key selector", link.method)
		}
		lambda, ok := link.call.Args[0].(*syntax.ArrowFunc)
		if !ok || len(lambda.Params) != 1 {
			return nil, true, c.semanticErr(link.call, "%s() argument must be a single-parameter lambda", link.method)
		}
		pname := lambda.Params[0].Name
		c.params[pname] = rowBinding
		v, err := c.visitValue(lambda.Body)
		c.unbind(pname)
		if err != nil {
			return nil, true, err
		}
		switch link.method {
		case "partitionBy":
			partitionBy = append(partitionBy, v)
		case "orderBy", "thenBy":
			orderBy = append(orderBy, expr.OrderTerm{Expr: v})
		case "orderByDescending", "thenByDescending":
			orderBy = append(orderBy, expr.OrderTerm{Expr: v, Descending: true})
		default:
			return nil, true, c.semanticErr(link.call, "unknown window builder method %q", link.method)
		}
	}
	return &expr.Window{PartitionBy: partitionBy, OrderBy: orderBy, Func: fn}, true, nil
}
