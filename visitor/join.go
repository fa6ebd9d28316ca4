package visitor

import (
	"github.com/tinqer-go/tinqer/internal/syntax"
	"github.com/tinqer-go/tinqer/ops"
)

// visitJoin handles `.join(inner, outerKey, innerKey, result)` and
// `.leftJoin(...)`. Both the outer source (cur) and the inner source
// (call.Args[0], itself a "from(...)" chain with no further operators)
// must be bare table references; joining an already-filtered or
// already-projected source is rejected.
func (c *Context) visitJoin(cur ops.Operation, call *syntax.CallExpr, kind ops.JoinKind) (ops.Operation, error) {
	if len(call.Args) != 4 {
		return nil, c.semanticErr(call, "join()/leftJoin() takes exactly four arguments: inner, outerKey, innerKey, result")
	}
	outerFrom, ok := cur.(*ops.From)
	if !ok {
		return nil, c.semanticErr(call, "join()'s outer source must be a direct table reference")
	}
	innerOp, err := c.visitJoinInner(call.Args[0])
	if err != nil {
		return nil, err
	}
	innerFrom, ok := innerOp.(*ops.From)
	if !ok {
		return nil, c.semanticErr(call.Args[0], "join()'s inner source must be a direct table reference")
	}

	outerLambda, ok := call.Args[1].(*syntax.ArrowFunc)
	if !ok || len(outerLambda.Params) != 1 {
		return nil, c.semanticErr(call.Args[1], "outer key selector must be a single-parameter lambda")
	}
	innerLambda, ok := call.Args[2].(*syntax.ArrowFunc)
	if !ok || len(innerLambda.Params) != 1 {
		return nil, c.semanticErr(call.Args[2], "inner key selector must be a single-parameter lambda")
	}
	resultLambda, ok := call.Args[3].(*syntax.ArrowFunc)
	if !ok || len(resultLambda.Params) != 2 {
		return nil, c.semanticErr(call.Args[3], "result selector must be a two-parameter lambda")
	}

	outerAlias := c.allocAlias()
	innerAlias := c.allocAlias()

	c.bindAliasParam(outerLambda.Params[0].Name, outerAlias)
	outerKey, err := c.visitValue(outerLambda.Body)
	c.unbind(outerLambda.Params[0].Name)
	if err != nil {
		return nil, err
	}

	c.bindAliasParam(innerLambda.Params[0].Name, innerAlias)
	innerKey, err := c.visitValue(innerLambda.Body)
	c.unbind(innerLambda.Params[0].Name)
	if err != nil {
		return nil, err
	}

	resultBody := resultLambda.Body
	for p, ok := resultBody.(*syntax.ParenExpr); ok; p, ok = resultBody.(*syntax.ParenExpr) {
		resultBody = p.X
	}
	resultObjExpr, ok := resultBody.(*syntax.ObjectExpr)
	if !ok {
		return nil, c.semanticErr(resultLambda.Body, "join() result selector must be a record literal")
	}
	c.bindAliasParam(resultLambda.Params[0].Name, outerAlias)
	c.bindAliasParam(resultLambda.Params[1].Name, innerAlias)
	objExpr, resultShape, err := c.buildObjectProjection(resultObjExpr)
	c.unbind(resultLambda.Params[0].Name)
	c.unbind(resultLambda.Params[1].Name)
	if err != nil {
		return nil, err
	}

	return &ops.Join{
		Source:      outerFrom,
		Inner:       innerFrom,
		OuterAlias:  outerAlias,
		InnerAlias:  innerAlias,
		OuterKey:    outerKey,
		InnerKey:    innerKey,
		ResultObj:   objExpr,
		ResultShape: resultShape,
		Kind:        kind,
	}, nil
}

// visitJoinInner visits an inner-source argument, which must be a bare
// from(...) chain with no further operators (e.g. "q.from(\"orders\")").
func (c *Context) visitJoinInner(e syntax.Expr) (ops.Operation, error) {
	base, links, ok := unrollChain(e)
	if !ok || len(links) != 0 {
		return nil, c.semanticErr(e, "join()'s inner source must be a bare from(...) reference")
	}
	method := ""
	if mem, ok := base.Func.(*syntax.MemberExpr); ok {
		method = mem.Sel.Name
	} else if id, ok := base.Func.(*syntax.Ident); ok {
		method = id.Name
	}
	if method != "from" {
		return nil, c.semanticErr(e, "join()'s inner source must be a from(...) reference")
	}
	table, schema, err := fromArgs(c, base)
	if err != nil {
		return nil, err
	}
	return &ops.From{Table: table, Schema: schema}, nil
}
