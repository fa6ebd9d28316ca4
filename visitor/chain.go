package visitor

import (
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/internal/syntax"
	"github.com/tinqer-go/tinqer/ops"
	"github.com/tinqer-go/tinqer/shape"
	"github.com/tinqer-go/tinqer/tinqerr"
)

// VisitSelect parses source as a query-builder lambda and converts its
// from(...)-rooted method chain into an [ops.Operation] tree, ready for
// package emit.
//
// source is expected to be of the form
// "(q, p) => q.from(\"table\").where(...).select(...)" or the param-less
// "() => from(\"table\")..." form; q (if present as the chain's root
// identifier) is recognized purely to scope ".from(" and is never itself
// bound as a parameter.
func VisitSelect(source string) (ops.Operation, *Context, error) {
	fn, c, base, links, err := parseEntry(source)
	if err != nil {
		return nil, nil, err
	}
	mem, isMem := base.Func.(*syntax.MemberExpr)
	var method string
	switch {
	case isMem:
		method = mem.Sel.Name
	default:
		id, ok := base.Func.(*syntax.Ident)
		if !ok {
			return nil, nil, c.parseErr(fn.Body, "expected a query chain rooted in from(...)")
		}
		method = id.Name
	}
	if method != "from" {
		return nil, nil, c.parseErr(base, "expected a query chain rooted in from(...), got %q", method)
	}
	table, schema, err := fromArgs(c, base)
	if err != nil {
		return nil, nil, err
	}
	cur := ops.Operation(&ops.From{Table: table, Schema: schema})

	for _, link := range links {
		cur, err = c.visitOperatorLink(cur, link)
		if err != nil {
			return nil, nil, err
		}
	}
	return cur, c, nil
}

// parseEntry parses source, classifies the outer lambda's parameters, and
// unrolls its body into a base call plus method links.
func parseEntry(source string) (fn *syntax.ArrowFunc, c *Context, base *syntax.CallExpr, links []callLink, err error) {
	fn, perr := syntax.ParseLambda(source)
	if perr != nil {
		return nil, nil, nil, nil, &tinqerr.ParseError{Source: source, Err: perr}
	}
	c = NewContext(source)

	base, links, ok := unrollChain(fn.Body)
	if !ok {
		return nil, nil, nil, nil, c.parseErr(fn.Body, "expected a method call chain")
	}

	rootName := ""
	if mem, ok := base.Func.(*syntax.MemberExpr); ok {
		if id, ok := mem.X.(*syntax.Ident); ok {
			rootName = id.Name
		}
	}
	for _, p := range fn.Params {
		if p.Name == rootName {
			continue
		}
		if p.Name == "helpers" {
			c.helperParams[p.Name] = true
			continue
		}
		c.queryParams[p.Name] = true
	}
	return fn, c, base, links, nil
}

func fromArgs(c *Context, call *syntax.CallExpr) (table, schema string, err error) {
	switch len(call.Args) {
	case 1:
		lit, ok := call.Args[0].(*syntax.BasicLit)
		if !ok || lit.Kind != syntax.TokenString {
			return "", "", c.parseErr(call, "from(...) expects a string table name")
		}
		return lit.Value, "", nil
	case 2:
		lit, ok := call.Args[1].(*syntax.BasicLit)
		if !ok || lit.Kind != syntax.TokenString {
			return "", "", c.parseErr(call, "from(...) expects a string table name")
		}
		return lit.Value, "", nil
	default:
		return "", "", c.parseErr(call, "from(...) expects one or two arguments")
	}
}

// visitOperatorLink dispatches a single chained method call to its
// operator visitor, threading the operation tree built so far.
func (c *Context) visitOperatorLink(cur ops.Operation, link callLink) (ops.Operation, error) {
	switch link.method {
	case "where":
		return c.visitWhere(cur, link.call)
	case "select":
		return c.visitSelect(cur, link.call)
	case "join":
		return c.visitJoin(cur, link.call, ops.InnerJoin)
	case "leftJoin":
		return c.visitJoin(cur, link.call, ops.LeftJoin)
	case "groupBy":
		return c.visitGroupBy(cur, link.call)
	case "orderBy":
		return c.visitOrderBy(cur, link.call, false, false)
	case "orderByDescending":
		return c.visitOrderBy(cur, link.call, true, false)
	case "thenBy":
		return c.visitOrderBy(cur, link.call, false, true)
	case "thenByDescending":
		return c.visitOrderBy(cur, link.call, true, true)
	case "take":
		return c.visitTakeSkip(cur, link.call, true)
	case "skip":
		return c.visitTakeSkip(cur, link.call, false)
	case "distinct":
		if len(link.call.Args) != 0 {
			return nil, c.semanticErr(link.call, "distinct() does not take arguments")
		}
		return &ops.Distinct{Source: cur}, nil
	case "reverse":
		if len(link.call.Args) != 0 {
			return nil, c.semanticErr(link.call, "reverse() does not take arguments")
		}
		return &ops.Reverse{Source: cur}, nil
	case "first", "firstOrDefault", "single", "singleOrDefault", "last", "lastOrDefault",
		"any", "all", "contains", "count", "sum", "average", "min", "max", "toArray", "toList":
		return c.visitTerminal(cur, link)
	}
	return nil, c.semanticErr(link.call, "unknown query method %q", link.method)
}

func (c *Context) currentRowParam(cur ops.Operation) (kind bindingKind, alias string, sh shape.Shape, rb *binding) {
	switch op := cur.(type) {
	case *ops.From:
		return bindTable, "", nil, &binding{kind: bindTable}
	case *ops.Join:
		return bindShape, "", op.ResultShape, &binding{kind: bindShape, sh: op.ResultShape}
	case *ops.Select:
		if op.ResultShape != nil {
			return bindShape, "", op.ResultShape, &binding{kind: bindShape, sh: op.ResultShape}
		}
		return bindTable, "", nil, &binding{kind: bindTable}
	case *ops.GroupBy:
		_, _, _, rowBinding := c.currentRowParam(op.Source)
		g := &groupInfo{keySelector: op.KeySelector, rowBinding: rowBinding}
		return bindGroup, "", nil, &binding{kind: bindGroup, group: g}
	default:
		if ch, ok := cur.(ops.Chainable); ok {
			return c.currentRowParam(ch.Src())
		}
		return bindTable, "", nil, &binding{kind: bindTable}
	}
}

// withRowParam binds a single-parameter lambda's parameter name to the
// row representation of cur for the duration of fn(), then unbinds it.
func (c *Context) withRowParam(cur ops.Operation, lambda *syntax.ArrowFunc, fn func() error) error {
	if len(lambda.Params) != 1 {
		return c.semanticErr(lambda, "expected a single-parameter lambda")
	}
	_, _, _, rb := c.currentRowParam(cur)
	name := lambda.Params[0].Name
	c.params[name] = rb
	defer c.unbind(name)
	return fn()
}

func (c *Context) visitWhere(cur ops.Operation, call *syntax.CallExpr) (ops.Operation, error) {
	if len(call.Args) != 1 {
		return nil, c.semanticErr(call, "where() takes exactly one predicate")
	}
	lambda, ok := call.Args[0].(*syntax.ArrowFunc)
	if !ok {
		return nil, c.semanticErr(call, "where() argument must be a lambda")
	}
	var pred expr.BoolExpr
	err := c.withRowParam(cur, lambda, func() error {
		var err error
		pred, err = c.visitBool(lambda.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &ops.Where{Source: cur, Predicate: pred}, nil
}

func (c *Context) visitOrderBy(cur ops.Operation, call *syntax.CallExpr, desc, then bool) (ops.Operation, error) {
	if len(call.Args) != 1 {
		return nil, c.semanticErr(call, "orderBy/thenBy takes exactly one key selector")
	}
	lambda, ok := call.Args[0].(*syntax.ArrowFunc)
	if !ok {
		return nil, c.semanticErr(call, "orderBy/thenBy argument must be a lambda")
	}
	var key expr.ValueExpr
	err := c.withRowParam(cur, lambda, func() error {
		var err error
		key, err = c.visitValue(lambda.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	if then {
		if ops.NearestOrderBy(cur) == nil {
			return nil, c.semanticErr(call, "thenBy() must follow an orderBy() (directly or through other thenBy() calls)")
		}
		return &ops.ThenBy{Source: cur, KeySelector: key, Descending: desc}, nil
	}
	if _, isThenBy := cur.(*ops.ThenBy); isThenBy {
		return nil, c.semanticErr(call, "orderBy() may not follow thenBy(); start a new sort with orderBy() only once per query")
	}
	return &ops.OrderBy{Source: cur, KeySelector: key, Descending: desc}, nil
}

func (c *Context) visitTakeSkip(cur ops.Operation, call *syntax.CallExpr, take bool) (ops.Operation, error) {
	if len(call.Args) != 1 {
		return nil, c.semanticErr(call, "take()/skip() takes exactly one count")
	}
	v, err := c.visitValue(call.Args[0])
	if err != nil {
		return nil, err
	}
	if take {
		return &ops.Take{Source: cur, Count: v}, nil
	}
	return &ops.Skip{Source: cur, Count: v}, nil
}
