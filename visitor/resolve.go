package visitor

import (
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/internal/syntax"
	"github.com/tinqer-go/tinqer/shape"
)

// memberChain unwinds a pure "a.b.c" member-access chain (no calls, no
// index expressions, no optional chaining) down to its root identifier. ok
// is false if e is not such a chain.
func memberChain(e syntax.Expr) (root *syntax.Ident, path []string, spans []syntax.Node, ok bool) {
	var names []string
	var nodes []syntax.Node
	cur := e
	for {
		switch n := cur.(type) {
		case *syntax.Ident:
			root = n
			for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
				names[i], names[j] = names[j], names[i]
				nodes[i], nodes[j] = nodes[j], nodes[i]
			}
			return root, names, nodes, true
		case *syntax.MemberExpr:
			if n.Optional {
				return nil, nil, nil, false
			}
			names = append(names, n.Sel.Name)
			nodes = append(nodes, n)
			cur = n.X
		default:
			return nil, nil, nil, false
		}
	}
}

// resolved is what a binding plus a sub-path (past the binding's own
// identifier) resolves to: an [expr.ColumnSource] and field name, or a
// whole-row reference.
type resolved struct {
	// either column and fieldName are set, or reference is
	column    *expr.ColumnSource
	fieldName string
	reference *expr.ColumnSource // whole-row reference (no field name)
}

// resolvePath resolves a root identifier plus dotted path against the
// bindings currently in scope, returning a [*resolved] describing either a
// single column or a whole-row reference. It returns (nil, false, nil) if
// root is not a bound relational parameter (e.g. it's a query/helper
// param, handled separately by the caller).
func (c *Context) resolvePath(root *syntax.Ident, path []string, errNode syntax.Node) (*resolved, bool, error) {
	b, ok := c.params[root.Name]
	if !ok {
		return nil, false, nil
	}
	switch b.kind {
	case bindTable:
		src := expr.ColumnSource{Kind: expr.SourceDirect}
		if b.alias != "" {
			src = expr.ColumnSource{Kind: expr.SourceTableAlias, Alias: b.alias}
		}
		switch len(path) {
		case 0:
			return &resolved{reference: &src}, true, nil
		case 1:
			return &resolved{column: &src, fieldName: path[0]}, true, nil
		default:
			return nil, true, c.shapeErr(errNode, "column %q has no member %q", path[0], path[1])
		}
	case bindAlias:
		src := expr.ColumnSource{Kind: expr.SourceTableAlias, Alias: b.alias}
		switch len(path) {
		case 0:
			return &resolved{reference: &src}, true, nil
		case 1:
			return &resolved{column: &src, fieldName: path[0]}, true, nil
		default:
			return nil, true, c.shapeErr(errNode, "column %q has no member %q", path[0], path[1])
		}
	case bindShape:
		sh, ok := shape.Resolve(b.sh, path)
		if !ok {
			return nil, true, c.shapeErr(errNode, "%q is not a projected field", pathString(root.Name, path))
		}
		switch leaf := sh.(type) {
		case *shape.ColumnShape:
			src := expr.ColumnSource{Kind: expr.SourceTableAlias, Alias: leaf.SourceTable}
			return &resolved{column: &src, fieldName: leaf.ColumnName}, true, nil
		case *shape.ReferenceShape:
			src := expr.ColumnSource{Kind: expr.SourceTableAlias, Alias: leaf.SourceTable}
			return &resolved{reference: &src}, true, nil
		case *shape.ComputedShape:
			src := expr.ColumnSource{Kind: expr.SourceDirect}
			return &resolved{column: &src, fieldName: leaf.Name}, true, nil
		case *shape.ObjectShape:
			return nil, true, c.shapeErr(errNode, "%q is a record, not a column", pathString(root.Name, path))
		}
		return nil, true, c.shapeErr(errNode, "%q is not a projected field", pathString(root.Name, path))
	case bindGroup:
		return nil, true, c.shapeErr(errNode, "%q must be accessed through .key, .count(), .sum(...), etc.", root.Name)
	}
	return nil, false, nil
}

func pathString(root string, path []string) string {
	s := root
	for _, p := range path {
		s += "." + p
	}
	return s
}
