package visitor

import (
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/internal/syntax"
	"github.com/tinqer-go/tinqer/shape"
)

// buildObjectProjection visits an object-literal selector shared by
// select(), join()'s result selector, insert()'s row, and update()'s
// assignment set, producing both the expression tree and the resulting
// shape. At most one field may be a spread ("...x"); everything else must
// be a plain "name: value" or shorthand "{name}" field.
func (c *Context) buildObjectProjection(obj *syntax.ObjectExpr) (*expr.ObjectExpr, shape.Shape, error) {
	objExpr := &expr.ObjectExpr{}
	extra := shape.NewObjectShape()
	spread := false
	var base shape.Shape

	for _, prop := range obj.Props {
		if prop.Spread.IsValid() {
			if spread {
				return nil, nil, c.semanticErr(prop, "projection supports at most one spread field")
			}
			spread = true
			v, err := c.visitValue(prop.SpreadExpr)
			if err != nil {
				return nil, nil, err
			}
			ref, ok := v.(*expr.Reference)
			if !ok {
				return nil, nil, c.semanticErr(prop, "spread field must be a whole row (e.g. \"...u\")")
			}
			objExpr.Fields = append(objExpr.Fields, expr.ObjectField{Value: ref})
			base = spreadShapeFor(ref.Source)
			continue
		}

		name := prop.Name.Name
		valueExpr := prop.Value
		if valueExpr == nil {
			valueExpr = prop.Name
		}
		v, err := c.visitValue(valueExpr)
		if err != nil {
			return nil, nil, err
		}
		objExpr.Fields = append(objExpr.Fields, expr.ObjectField{Name: name, Value: v})
		extra.Set(name, valueToShape(name, v))
	}

	if len(objExpr.Fields) == 0 {
		return nil, nil, c.semanticErr(obj, "projection must have at least one field")
	}
	if spread {
		return objExpr, &shape.SpreadShape{Base: base, Extra: extra}, nil
	}
	return objExpr, extra, nil
}
