package visitor

import (
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/internal/syntax"
	"github.com/tinqer-go/tinqer/ops"
)

// visitGroupBy handles `.groupBy(u => u.deptId)`. The grouping is only
// meaningful as the source of a following select() that projects g.key
// and g.count()/g.sum(...)/etc; see visitGroupAggregateValue.
func (c *Context) visitGroupBy(cur ops.Operation, call *syntax.CallExpr) (ops.Operation, error) {
	if len(call.Args) != 1 {
		return nil, c.semanticErr(call, "groupBy() takes exactly one key selector")
	}
	lambda, ok := call.Args[0].(*syntax.ArrowFunc)
	if !ok || len(lambda.Params) != 1 {
		return nil, c.semanticErr(call, "groupBy() argument must be a single-parameter lambda")
	}
	var key expr.ValueExpr
	err := c.withRowParam(cur, lambda, func() error {
		v, err := c.visitValue(lambda.Body)
		if err != nil {
			return err
		}
		key = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ops.GroupBy{Source: cur, KeySelector: key}, nil
}
