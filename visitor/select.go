package visitor

import (
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/internal/syntax"
	"github.com/tinqer-go/tinqer/ops"
	"github.com/tinqer-go/tinqer/shape"
)

// visitSelect handles every projection shape: identity (`u => u`), scalar
// (`u => u.total`), record (`u => ({id: u.id, name: u.name})`), and
// spread-extend (`u => ({...u, rn: helpers.window(u)...rowNumber()})`).
func (c *Context) visitSelect(cur ops.Operation, call *syntax.CallExpr) (ops.Operation, error) {
	if len(call.Args) != 1 {
		return nil, c.semanticErr(call, "select() takes exactly one selector")
	}
	lambda, ok := call.Args[0].(*syntax.ArrowFunc)
	if !ok || len(lambda.Params) != 1 {
		return nil, c.semanticErr(call, "select() argument must be a single-parameter lambda")
	}
	_, _, _, rb := c.currentRowParam(cur)
	pname := lambda.Params[0].Name
	c.params[pname] = rb
	defer c.unbind(pname)

	body := lambda.Body
	for p, ok := body.(*syntax.ParenExpr); ok; p, ok = body.(*syntax.ParenExpr) {
		body = p.X
	}
	if id, ok := body.(*syntax.Ident); ok && id.Name == pname {
		return &ops.Select{Source: cur}, nil
	}
	if obj, ok := body.(*syntax.ObjectExpr); ok {
		return c.visitSelectObject(cur, obj)
	}
	v, err := c.visitValue(lambda.Body)
	if err != nil {
		return nil, err
	}
	return &ops.Select{Source: cur, Selector: v}, nil
}

func (c *Context) visitSelectObject(cur ops.Operation, obj *syntax.ObjectExpr) (ops.Operation, error) {
	objExpr, resultShape, err := c.buildObjectProjection(obj)
	if err != nil {
		return nil, err
	}
	_, isSpread := resultShape.(*shape.SpreadShape)
	return &ops.Select{Source: cur, Object: objExpr, Spread: isSpread, ResultShape: resultShape}, nil
}

// spreadShapeFor converts the table context a spread's whole-row
// reference resolved to into the Base half of a [shape.SpreadShape].
func spreadShapeFor(src expr.ColumnSource) shape.Shape {
	switch src.Kind {
	case expr.SourceTableAlias:
		return &shape.ReferenceShape{SourceTable: src.Alias}
	default:
		return &shape.ReferenceShape{}
	}
}

// valueToShape classifies a projected field's value expression for shape
// tracking: a plain column or whole-row reference passes through to its
// original source so later operators can resolve straight back to it;
// anything else becomes an opaque [shape.ComputedShape] addressed by its
// output field name.
func valueToShape(name string, v expr.ValueExpr) shape.Shape {
	switch x := v.(type) {
	case *expr.Column:
		return &shape.ColumnShape{ColumnName: x.Name, SourceTable: aliasOf(x.Source)}
	case *expr.Reference:
		return &shape.ReferenceShape{SourceTable: aliasOf(x.Source)}
	default:
		return &shape.ComputedShape{Name: name}
	}
}

func aliasOf(src expr.ColumnSource) string {
	if src.Kind == expr.SourceTableAlias {
		return src.Alias
	}
	return ""
}
