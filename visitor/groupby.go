package visitor

import (
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/internal/syntax"
)

var groupAggFuncs = map[string]expr.AggregateFunc{
	"sum": expr.AggSum,
	"avg": expr.AggAvg,
	"min": expr.AggMin,
	"max": expr.AggMax,
}

// visitGroupAggregateValue recognizes `g.count()` and `g.sum(x => ...)` /
// `g.avg(...)` / `g.min(...)` / `g.max(...)`, where g is bound to a
// groupBy grouping in scope.
func (c *Context) visitGroupAggregateValue(call *syntax.CallExpr) (expr.ValueExpr, bool, error) {
	mem, ok := call.Func.(*syntax.MemberExpr)
	if !ok {
		return nil, false, nil
	}
	root, ok := mem.X.(*syntax.Ident)
	if !ok {
		return nil, false, nil
	}
	b, ok := c.params[root.Name]
	if !ok || b.kind != bindGroup {
		return nil, false, nil
	}
	g := b.group

	if mem.Sel.Name == "count" {
		if len(call.Args) != 0 {
			return nil, true, c.semanticErr(call, "g.count() does not take arguments")
		}
		return &expr.Aggregate{Func: expr.AggCount}, true, nil
	}

	fn, ok := groupAggFuncs[mem.Sel.Name]
	if !ok {
		return nil, false, nil
	}
	if len(call.Args) != 1 {
		return nil, true, c.semanticErr(call, "g.%s() takes exactly one element selector", mem.Sel.Name)
	}
	lambda, ok := call.Args[0].(*syntax.ArrowFunc)
	if !ok || len(lambda.Params) != 1 {
		return nil, true, c.semanticErr(call, "g.%s() argument must be a single-parameter lambda", mem.Sel.Name)
	}
	pname := lambda.Params[0].Name
	c.params[pname] = g.rowBinding
	v, err := c.visitValue(lambda.Body)
	c.unbind(pname)
	if err != nil {
		return nil, true, err
	}
	return &expr.Aggregate{Func: fn, Expr: v}, true, nil
}
