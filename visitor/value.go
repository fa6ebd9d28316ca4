package visitor

import (
	"strings"

	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/internal/syntax"
)

// visitValue converts a scalar-producing syntax expression into an
// [expr.ValueExpr], auto-parameterizing every literal it encounters along
// the way in stable left-to-right occurrence order.
func (c *Context) visitValue(e syntax.Expr) (expr.ValueExpr, error) {
	switch n := e.(type) {
	case *syntax.ParenExpr:
		return c.visitValue(n.X)

	case *syntax.BasicLit:
		if n.Kind == syntax.TokenNumber {
			return c.nextAutoParam(n.Float64()), nil
		}
		return c.nextAutoParam(n.Value), nil

	case *syntax.KeywordLit:
		switch n.Name {
		case "true":
			return c.nextAutoParam(true), nil
		case "false":
			return c.nextAutoParam(false), nil
		case "null", "undefined":
			return &expr.Constant{Kind: expr.ConstNull}, nil
		}

	case *syntax.UnaryExpr:
		if n.Op == syntax.TokenPlus {
			return c.visitValue(n.X)
		}
		if n.Op == syntax.TokenMinus {
			if lit, ok := n.X.(*syntax.BasicLit); ok && lit.Kind == syntax.TokenNumber {
				return c.nextAutoParam(-lit.Float64()), nil
			}
			return nil, c.semanticErr(n, "unary '-' is only supported applied to a numeric literal")
		}
		return nil, c.semanticErr(n, "unsupported unary operator in value position")

	case *syntax.BinaryExpr:
		if n.Op == syntax.TokenPlus {
			left, err := c.visitValue(n.X)
			if err != nil {
				return nil, err
			}
			right, err := c.visitValue(n.Y)
			if err != nil {
				return nil, err
			}
			return &expr.Concat{Parts: flattenConcat(left, right)}, nil
		}
		if op, ok := arithOps[n.Op]; ok {
			left, err := c.visitValue(n.X)
			if err != nil {
				return nil, err
			}
			right, err := c.visitValue(n.Y)
			if err != nil {
				return nil, err
			}
			return &expr.Arithmetic{Op: op, Left: left, Right: right}, nil
		}
		return nil, c.semanticErr(n, "unsupported binary operator in value position")

	case *syntax.ConditionalExpr:
		cond, err := c.visitBool(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := c.visitValue(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := c.visitValue(n.Else)
		if err != nil {
			return nil, err
		}
		return &expr.Conditional{Cond: cond, Then: then, Else: els}, nil

	case *syntax.ArrayExpr:
		elems := make([]expr.ValueExpr, 0, len(n.Elems))
		for _, el := range n.Elems {
			v, err := c.visitValue(el)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return &expr.ArrayExpr{Elems: elems}, nil

	case *syntax.CallExpr:
		if v, ok, err := c.visitGroupAggregateValue(n); ok || err != nil {
			return v, err
		}
		if v, ok, err := c.visitWindowValue(n); ok || err != nil {
			return v, err
		}
		if v, ok, err := c.visitStringMethodValue(n); ok || err != nil {
			return v, err
		}
		if v, ok, err := c.visitCoalesceValue(n); ok || err != nil {
			return v, err
		}
		return nil, c.semanticErr(n, "unknown function call in value position")

	case *syntax.MemberExpr, *syntax.Ident:
		root, path, _, ok := memberChain(e)
		if !ok {
			return nil, c.semanticErr(e, "unsupported member access in value position")
		}
		if b, isGroup := c.params[root.Name]; isGroup && b.kind == bindGroup {
			if len(path) == 1 && path[0] == "key" {
				return b.group.keySelector, nil
			}
			return nil, c.semanticErr(e, "%q must be accessed through .key, .count(), .sum(...), etc.", root.Name)
		}
		if c.queryParams[root.Name] {
			if len(path) == 0 {
				return nil, c.semanticErr(e, "a runtime parameter must be used through a property, e.g. p.field")
			}
			return &expr.Param{Name: strings.Join(path, "."), Property: path}, nil
		}
		res, bound, err := c.resolvePath(root, path, e)
		if err != nil {
			return nil, err
		}
		if !bound {
			return nil, c.semanticErr(e, "%q is not a bound row, helper, or runtime parameter", root.Name)
		}
		if res.column != nil {
			return &expr.Column{Name: res.fieldName, Source: *res.column}, nil
		}
		if res.reference != nil {
			return &expr.Reference{Source: *res.reference}, nil
		}
		return nil, c.semanticErr(e, "unsupported member access in value position")
	}
	return nil, c.semanticErr(e, "unsupported expression in value position")
}

var arithOps = map[syntax.TokenKind]expr.ArithOp{
	syntax.TokenMinus: expr.Sub,
	syntax.TokenStar:  expr.Mul,
	syntax.TokenSlash: expr.Div,
	syntax.TokenMod:   expr.Mod,
}

func flattenConcat(l, r expr.ValueExpr) []expr.ValueExpr {
	var parts []expr.ValueExpr
	if lc, ok := l.(*expr.Concat); ok {
		parts = append(parts, lc.Parts...)
	} else {
		parts = append(parts, l)
	}
	if rc, ok := r.(*expr.Concat); ok {
		parts = append(parts, rc.Parts...)
	} else {
		parts = append(parts, r)
	}
	return parts
}

// visitStringMethodValue recognizes `x.toLowerCase()` / `x.toUpperCase()`.
func (c *Context) visitStringMethodValue(call *syntax.CallExpr) (expr.ValueExpr, bool, error) {
	mem, ok := call.Func.(*syntax.MemberExpr)
	if !ok || len(call.Args) != 0 {
		return nil, false, nil
	}
	var kind expr.StringMethodKind
	switch mem.Sel.Name {
	case "toLowerCase":
		kind = expr.ToLowerCase
	case "toUpperCase":
		kind = expr.ToUpperCase
	default:
		return nil, false, nil
	}
	obj, err := c.visitValue(mem.X)
	if err != nil {
		return nil, true, err
	}
	return &expr.StringMethod{Object: obj, Method: kind}, true, nil
}

// visitCoalesceValue recognizes an explicit `helpers.coalesce(a, b, ...)`
// call. `??` is not part of this grammar, and `||` on value operands is
// ambiguous with logical-or and is rejected in value position instead.
func (c *Context) visitCoalesceValue(call *syntax.CallExpr) (expr.ValueExpr, bool, error) {
	mem, ok := call.Func.(*syntax.MemberExpr)
	if !ok || mem.Sel.Name != "coalesce" {
		return nil, false, nil
	}
	root, path, _, ok := memberChain(mem.X)
	if !ok || !c.helperParams[root.Name] || len(path) != 0 {
		return nil, false, nil
	}
	parts := make([]expr.ValueExpr, 0, len(call.Args))
	for _, a := range call.Args {
		v, err := c.visitValue(a)
		if err != nil {
			return nil, true, err
		}
		parts = append(parts, v)
	}
	return &expr.Coalesce{Exprs: parts}, true, nil
}
