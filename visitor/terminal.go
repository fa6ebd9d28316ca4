package visitor

import (
	"github.com/tinqer-go/tinqer/internal/syntax"
	"github.com/tinqer-go/tinqer/ops"
)

var terminalKinds = map[string]ops.TerminalKind{
	"first":           ops.First,
	"firstOrDefault":  ops.FirstOrDefault,
	"single":          ops.Single,
	"singleOrDefault": ops.SingleOrDefault,
	"last":            ops.Last,
	"lastOrDefault":   ops.LastOrDefault,
	"any":             ops.Any,
	"all":             ops.All,
	"contains":        ops.Contains,
	"count":           ops.Count,
	"sum":             ops.Sum,
	"average":         ops.Average,
	"min":             ops.Min,
	"max":             ops.Max,
	"toArray":         ops.ToArray,
	"toList":          ops.ToList,
}

// visitTerminal handles every statement-concluding method: the
// cardinality forms (first/single/last and their OrDefault variants),
// any/all/contains, the scalar aggregates (count/sum/average/min/max),
// and the materializing forms toArray/toList.
func (c *Context) visitTerminal(cur ops.Operation, link callLink) (ops.Operation, error) {
	call := link.call
	kind, ok := terminalKinds[link.method]
	if !ok {
		return nil, c.semanticErr(call, "unknown terminal method %q", link.method)
	}
	t := &ops.Terminal{Source: cur, Kind: kind}

	switch link.method {
	case "contains":
		if len(call.Args) != 1 {
			return nil, c.semanticErr(call, "contains() takes exactly one value")
		}
		v, err := c.visitValue(call.Args[0])
		if err != nil {
			return nil, err
		}
		t.Contains = v

	case "first", "firstOrDefault", "single", "singleOrDefault", "last", "lastOrDefault", "any", "all":
		switch len(call.Args) {
		case 0:
			if link.method == "all" {
				return nil, c.semanticErr(call, "all() requires a predicate")
			}
		case 1:
			lambda, ok := call.Args[0].(*syntax.ArrowFunc)
			if !ok {
				return nil, c.semanticErr(call, "%s() argument must be a predicate lambda", link.method)
			}
			if err := c.withRowParam(cur, lambda, func() error {
				p, err := c.visitBool(lambda.Body)
				if err != nil {
					return err
				}
				t.Predicate = p
				return nil
			}); err != nil {
				return nil, err
			}
		default:
			return nil, c.semanticErr(call, "%s() takes zero or one predicate", link.method)
		}

	case "count":
		switch len(call.Args) {
		case 0:
		case 1:
			lambda, ok := call.Args[0].(*syntax.ArrowFunc)
			if !ok {
				return nil, c.semanticErr(call, "count() argument must be a predicate lambda")
			}
			if err := c.withRowParam(cur, lambda, func() error {
				p, err := c.visitBool(lambda.Body)
				if err != nil {
					return err
				}
				t.Predicate = p
				return nil
			}); err != nil {
				return nil, err
			}
		default:
			return nil, c.semanticErr(call, "count() takes zero or one predicate")
		}

	case "sum", "average", "min", "max":
		if len(call.Args) != 1 {
			return nil, c.semanticErr(call, "%s() requires exactly one element selector", link.method)
		}
		lambda, ok := call.Args[0].(*syntax.ArrowFunc)
		if !ok {
			return nil, c.semanticErr(call, "%s() argument must be a lambda", link.method)
		}
		if err := c.withRowParam(cur, lambda, func() error {
			v, err := c.visitValue(lambda.Body)
			if err != nil {
				return err
			}
			t.Selector = v
			return nil
		}); err != nil {
			return nil, err
		}

	case "toArray", "toList":
		if len(call.Args) != 0 {
			return nil, c.semanticErr(call, "%s() does not take arguments", link.method)
		}
	}
	return t, nil
}
