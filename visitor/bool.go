package visitor

import (
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/internal/syntax"
)

var equalityOps = map[syntax.TokenKind]expr.ComparisonOp{
	syntax.TokenEq:       expr.Eq,
	syntax.TokenEqStrict: expr.Eq,
	syntax.TokenNE:       expr.Ne,
	syntax.TokenNEStrict: expr.Ne,
}

var relationalOps = map[syntax.TokenKind]expr.ComparisonOp{
	syntax.TokenLT: expr.Lt,
	syntax.TokenLE: expr.Le,
	syntax.TokenGT: expr.Gt,
	syntax.TokenGE: expr.Ge,
}

// visitBool converts a truth-producing syntax expression into an
// [expr.BoolExpr], normalizing `x == null` / `x != null` comparisons into
// [expr.IsNull] rather than a literal equality test.
func (c *Context) visitBool(e syntax.Expr) (expr.BoolExpr, error) {
	switch n := e.(type) {
	case *syntax.ParenExpr:
		return c.visitBool(n.X)

	case *syntax.KeywordLit:
		switch n.Name {
		case "true":
			return &expr.BooleanConstant{Value: true}, nil
		case "false":
			return &expr.BooleanConstant{Value: false}, nil
		}
		return nil, c.semanticErr(n, "unsupported literal in boolean position")

	case *syntax.UnaryExpr:
		if n.Op == syntax.TokenNot {
			x, err := c.visitBool(n.X)
			if err != nil {
				return nil, err
			}
			return &expr.Not{X: x}, nil
		}
		return nil, c.semanticErr(n, "unsupported unary operator in boolean position")

	case *syntax.BinaryExpr:
		switch n.Op {
		case syntax.TokenAndAnd, syntax.TokenOrOr:
			left, err := c.visitBool(n.X)
			if err != nil {
				return nil, err
			}
			right, err := c.visitBool(n.Y)
			if err != nil {
				return nil, err
			}
			op := expr.And
			if n.Op == syntax.TokenOrOr {
				op = expr.Or
			}
			return &expr.Logical{Op: op, Left: left, Right: right}, nil
		}
		if op, ok := equalityOps[n.Op]; ok {
			return c.visitComparison(n, op, n.X, n.Y)
		}
		if op, ok := relationalOps[n.Op]; ok {
			left, err := c.visitValue(n.X)
			if err != nil {
				return nil, err
			}
			right, err := c.visitValue(n.Y)
			if err != nil {
				return nil, err
			}
			return &expr.Comparison{Op: op, Left: left, Right: right}, nil
		}
		return nil, c.semanticErr(n, "unsupported binary operator in boolean position")

	case *syntax.CallExpr:
		if b, ok, err := c.visitCaseInsensitiveCall(n); ok || err != nil {
			return b, err
		}
		if b, ok, err := c.visitStringPredicateCall(n); ok || err != nil {
			return b, err
		}
		if b, ok, err := c.visitIncludesCall(n); ok || err != nil {
			return b, err
		}
		return nil, c.semanticErr(n, "unknown function call in boolean position")

	case *syntax.MemberExpr, *syntax.Ident:
		root, path, _, ok := memberChain(e)
		if !ok {
			return nil, c.semanticErr(e, "unsupported member access in boolean position")
		}
		if c.queryParams[root.Name] {
			if len(path) == 0 {
				return nil, c.semanticErr(e, "a runtime parameter must be used through a property, e.g. p.flag")
			}
			return &expr.BooleanParam{Name: pathJoin(path), Property: path}, nil
		}
		res, bound, err := c.resolvePath(root, path, e)
		if err != nil {
			return nil, err
		}
		if !bound || res.column == nil {
			return nil, c.semanticErr(e, "%q is not a bound boolean column", root.Name)
		}
		return &expr.BooleanColumn{Name: res.fieldName, Source: *res.column}, nil
	}
	return nil, c.semanticErr(e, "unsupported expression in boolean position")
}

// visitComparison builds a [expr.Comparison], or an [expr.IsNull] when one
// side is a literal `null`/`undefined` (spec's null-safety normalization).
func (c *Context) visitComparison(n syntax.Node, op expr.ComparisonOp, xe, ye syntax.Expr) (expr.BoolExpr, error) {
	if isNullLiteral(xe) || isNullLiteral(ye) {
		var other syntax.Expr = ye
		if isNullLiteral(ye) {
			other = xe
		}
		v, err := c.visitValue(other)
		if err != nil {
			return nil, err
		}
		return &expr.IsNull{Expr: v, Negated: op == expr.Ne}, nil
	}
	left, err := c.visitValue(xe)
	if err != nil {
		return nil, err
	}
	right, err := c.visitValue(ye)
	if err != nil {
		return nil, err
	}
	return &expr.Comparison{Op: op, Left: left, Right: right}, nil
}

func isNullLiteral(e syntax.Expr) bool {
	k, ok := e.(*syntax.KeywordLit)
	return ok && (k.Name == "null" || k.Name == "undefined")
}

// visitStringPredicateCall recognizes `x.startsWith(y)` / `x.endsWith(y)`.
func (c *Context) visitStringPredicateCall(call *syntax.CallExpr) (expr.BoolExpr, bool, error) {
	mem, ok := call.Func.(*syntax.MemberExpr)
	if !ok || len(call.Args) != 1 {
		return nil, false, nil
	}
	var kind expr.BooleanMethodKind
	switch mem.Sel.Name {
	case "startsWith":
		kind = expr.StartsWith
	case "endsWith":
		kind = expr.EndsWith
	default:
		return nil, false, nil
	}
	obj, err := c.visitValue(mem.X)
	if err != nil {
		return nil, true, err
	}
	arg, err := c.visitValue(call.Args[0])
	if err != nil {
		return nil, true, err
	}
	return &expr.BooleanMethod{Object: obj, Method: kind, Arg: arg}, true, nil
}

// visitIncludesCall recognizes `x.includes(y)` and `x.contains(y)`,
// lowering to an [expr.In] membership test when x is an array literal
// or a runtime parameter path (a list), and to a substring
// [expr.BooleanMethod] otherwise (a string column). `includes` and
// `contains` are synonyms here: both wrap to `LIKE '%' || y || '%'`
// when x isn't list-shaped.
func (c *Context) visitIncludesCall(call *syntax.CallExpr) (expr.BoolExpr, bool, error) {
	mem, ok := call.Func.(*syntax.MemberExpr)
	if !ok || len(call.Args) != 1 {
		return nil, false, nil
	}
	var kind expr.BooleanMethodKind
	switch mem.Sel.Name {
	case "includes":
		kind = expr.Includes
	case "contains":
		kind = expr.Contains
	default:
		return nil, false, nil
	}
	needle, err := c.visitValue(call.Args[0])
	if err != nil {
		return nil, true, err
	}
	if arr, ok := mem.X.(*syntax.ArrayExpr); ok {
		list := make([]expr.ValueExpr, 0, len(arr.Elems))
		for _, el := range arr.Elems {
			v, err := c.visitValue(el)
			if err != nil {
				return nil, true, err
			}
			list = append(list, v)
		}
		return &expr.In{Value: needle, List: list}, true, nil
	}
	if root, path, _, ok := memberChain(mem.X); ok && c.queryParams[root.Name] && len(path) > 0 {
		return &expr.In{Value: needle, ListParam: &expr.Param{Name: pathJoin(path), Property: path}}, true, nil
	}
	obj, err := c.visitValue(mem.X)
	if err != nil {
		return nil, true, err
	}
	return &expr.BooleanMethod{Object: obj, Method: kind, Arg: needle}, true, nil
}

// visitCaseInsensitiveCall recognizes
// `helpers.functions.iequals(a, b)` / `istartsWith` / `iendsWith` / `icontains`.
func (c *Context) visitCaseInsensitiveCall(call *syntax.CallExpr) (expr.BoolExpr, bool, error) {
	mem, ok := call.Func.(*syntax.MemberExpr)
	if !ok {
		return nil, false, nil
	}
	funcsMem, ok := mem.X.(*syntax.MemberExpr)
	if !ok || funcsMem.Sel.Name != "functions" {
		return nil, false, nil
	}
	root, ok := funcsMem.X.(*syntax.Ident)
	if !ok || !c.helperParams[root.Name] {
		return nil, false, nil
	}
	var fn expr.CaseInsensitiveFunc
	switch mem.Sel.Name {
	case "iequals":
		fn = expr.IEquals
	case "istartsWith":
		fn = expr.IStartsWith
	case "iendsWith":
		fn = expr.IEndsWith
	case "icontains":
		fn = expr.IContains
	default:
		return nil, false, nil
	}
	args := make([]expr.ValueExpr, 0, len(call.Args))
	for _, a := range call.Args {
		v, err := c.visitValue(a)
		if err != nil {
			return nil, true, err
		}
		args = append(args, v)
	}
	return &expr.CaseInsensitiveFn{Func: fn, Args: args}, true, nil
}

func pathJoin(path []string) string {
	s := ""
	for i, p := range path {
		if i > 0 {
			s += "."
		}
		s += p
	}
	return s
}
