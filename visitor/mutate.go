package visitor

import (
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/internal/syntax"
	"github.com/tinqer-go/tinqer/ops"
)

func baseMethod(base *syntax.CallExpr) string {
	if mem, ok := base.Func.(*syntax.MemberExpr); ok {
		return mem.Sel.Name
	}
	if id, ok := base.Func.(*syntax.Ident); ok {
		return id.Name
	}
	return ""
}

func stringArg(c *Context, call *syntax.CallExpr, i int) (string, error) {
	if i >= len(call.Args) {
		return "", c.parseErr(call, "expected a string table name argument")
	}
	lit, ok := call.Args[i].(*syntax.BasicLit)
	if !ok || lit.Kind != syntax.TokenString {
		return "", c.parseErr(call.Args[i], "expected a string table name argument")
	}
	return lit.Value, nil
}

// withQueryParamAlias treats name as a synonym for the outer builder's
// query-parameters object for the lifetime of fn, used for insert()'s
// values() and update()'s set(), whose lambda parameter conventionally
// names the row of values being written rather than an existing table row.
func (c *Context) withQueryParamAlias(name string, fn func() error) error {
	added := !c.queryParams[name]
	c.queryParams[name] = true
	err := fn()
	if added {
		delete(c.queryParams, name)
	}
	return err
}

// visitRowObjectArg visits a single-argument `.method(row => ({...}))`
// call, binding the lambda parameter either as a query-parameter alias
// (for values()/set(), which assemble literal/param-driven field values)
// or as a direct table row (for returning(), which reports real output
// columns of the affected table).
func (c *Context) visitRowObjectArg(call *syntax.CallExpr, asQueryParamAlias bool) (*expr.ObjectExpr, error) {
	if len(call.Args) != 1 {
		return nil, c.semanticErr(call, "expected exactly one row selector")
	}
	lambda, ok := call.Args[0].(*syntax.ArrowFunc)
	if !ok || len(lambda.Params) != 1 {
		return nil, c.semanticErr(call, "expected a single-parameter lambda")
	}
	body := lambda.Body
	for p, ok := body.(*syntax.ParenExpr); ok; p, ok = body.(*syntax.ParenExpr) {
		body = p.X
	}
	obj, ok := body.(*syntax.ObjectExpr)
	if !ok {
		return nil, c.semanticErr(lambda.Body, "expected a record literal")
	}
	pname := lambda.Params[0].Name
	var objExpr *expr.ObjectExpr
	var err error
	if asQueryParamAlias {
		err = c.withQueryParamAlias(pname, func() error {
			var e error
			objExpr, _, e = c.buildObjectProjection(obj)
			return e
		})
	} else {
		c.bindTableParam(pname, "")
		objExpr, _, err = c.buildObjectProjection(obj)
		c.unbind(pname)
	}
	return objExpr, err
}

// visitMutationPredicate visits a `.where(row => ...)` call, binding the
// lambda parameter as a direct table row.
func (c *Context) visitMutationPredicate(call *syntax.CallExpr) (expr.BoolExpr, error) {
	if len(call.Args) != 1 {
		return nil, c.semanticErr(call, "where() takes exactly one predicate")
	}
	lambda, ok := call.Args[0].(*syntax.ArrowFunc)
	if !ok || len(lambda.Params) != 1 {
		return nil, c.semanticErr(call, "where() argument must be a single-parameter lambda")
	}
	c.bindTableParam(lambda.Params[0].Name, "")
	pred, err := c.visitBool(lambda.Body)
	c.unbind(lambda.Params[0].Name)
	return pred, err
}

// VisitInsert parses source as an insertInto(...).values(...) builder,
// with an optional trailing .returning(...).
func VisitInsert(source string) (*ops.Insert, *Context, error) {
	fn, c, base, links, err := parseEntry(source)
	if err != nil {
		return nil, nil, err
	}
	if baseMethod(base) != "insertInto" {
		return nil, nil, c.parseErr(fn.Body, "expected a chain rooted in insertInto(...)")
	}
	table, err := stringArg(c, base, 0)
	if err != nil {
		return nil, nil, err
	}

	var values, returning *expr.ObjectExpr
	for _, link := range links {
		switch link.method {
		case "values":
			if values != nil {
				return nil, nil, c.semanticErr(link.call, "values() already set")
			}
			if values, err = c.visitRowObjectArg(link.call, true); err != nil {
				return nil, nil, err
			}
		case "returning":
			if returning != nil {
				return nil, nil, c.semanticErr(link.call, "returning() already set")
			}
			if returning, err = c.visitRowObjectArg(link.call, false); err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, c.semanticErr(link.call, "unknown insert method %q", link.method)
		}
	}
	if values == nil {
		return nil, nil, c.semanticErr(base, "insertInto(...) requires a values(...) call")
	}
	return &ops.Insert{Table: table, Values: values, Returning: returning}, c, nil
}

// VisitUpdate parses source as an update(...).set(...) builder, with an
// optional .where(...) or .allowFullTableUpdate(), and an optional
// trailing .returning(...).
func VisitUpdate(source string) (*ops.Update, *Context, error) {
	fn, c, base, links, err := parseEntry(source)
	if err != nil {
		return nil, nil, err
	}
	if baseMethod(base) != "update" {
		return nil, nil, c.parseErr(fn.Body, "expected a chain rooted in update(...)")
	}
	table, err := stringArg(c, base, 0)
	if err != nil {
		return nil, nil, err
	}

	u := &ops.Update{Table: table}
	for _, link := range links {
		switch link.method {
		case "set":
			if u.Assignments != nil {
				return nil, nil, c.semanticErr(link.call, "set() already set")
			}
			if u.Assignments, err = c.visitRowObjectArg(link.call, true); err != nil {
				return nil, nil, err
			}
		case "where":
			if u.Predicate != nil {
				return nil, nil, c.semanticErr(link.call, "where() already set")
			}
			if u.Predicate, err = c.visitMutationPredicate(link.call); err != nil {
				return nil, nil, err
			}
		case "allowFullTableUpdate":
			if len(link.call.Args) != 0 {
				return nil, nil, c.semanticErr(link.call, "allowFullTableUpdate() does not take arguments")
			}
			u.AllowFullTableUpdate = true
		case "returning":
			if u.Returning != nil {
				return nil, nil, c.semanticErr(link.call, "returning() already set")
			}
			if u.Returning, err = c.visitRowObjectArg(link.call, false); err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, c.semanticErr(link.call, "unknown update method %q", link.method)
		}
	}
	if u.Assignments == nil {
		return nil, nil, c.semanticErr(base, "update(...) requires a set(...) call")
	}
	if u.Predicate == nil && !u.AllowFullTableUpdate {
		return nil, nil, c.semanticErr(base, "update(...) requires a where() predicate or an explicit allowFullTableUpdate()")
	}
	return u, c, nil
}

// VisitDelete parses source as a deleteFrom(...) builder, with an
// optional .where(...) or .allowFullTableDelete(), and an optional
// trailing .returning(...).
func VisitDelete(source string) (*ops.Delete, *Context, error) {
	fn, c, base, links, err := parseEntry(source)
	if err != nil {
		return nil, nil, err
	}
	if baseMethod(base) != "deleteFrom" {
		return nil, nil, c.parseErr(fn.Body, "expected a chain rooted in deleteFrom(...)")
	}
	table, err := stringArg(c, base, 0)
	if err != nil {
		return nil, nil, err
	}

	d := &ops.Delete{Table: table}
	for _, link := range links {
		switch link.method {
		case "where":
			if d.Predicate != nil {
				return nil, nil, c.semanticErr(link.call, "where() already set")
			}
			if d.Predicate, err = c.visitMutationPredicate(link.call); err != nil {
				return nil, nil, err
			}
		case "allowFullTableDelete":
			if len(link.call.Args) != 0 {
				return nil, nil, c.semanticErr(link.call, "allowFullTableDelete() does not take arguments")
			}
			d.AllowFullTableDelete = true
		case "returning":
			if d.Returning != nil {
				return nil, nil, c.semanticErr(link.call, "returning() already set")
			}
			if d.Returning, err = c.visitRowObjectArg(link.call, false); err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, c.semanticErr(link.call, "unknown delete method %q", link.method)
		}
	}
	if d.Predicate == nil && !d.AllowFullTableDelete {
		return nil, nil, c.semanticErr(base, "deleteFrom(...) requires a where() predicate or an explicit allowFullTableDelete()")
	}
	return d, c, nil
}
