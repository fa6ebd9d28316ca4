package emit

import "github.com/tinqer-go/tinqer/expr"

// referencesLocalAlias reports whether node, a ValueExpr or BoolExpr tree,
// reads a bare (SourceDirect) column name that the builder's own select
// list just introduced (a computed or window-function alias). Such a
// reference cannot be placed in the same statement's WHERE/ORDER BY as the
// SELECT that defines it, so the caller wraps the builder in a subquery
// first.
func referencesLocalAlias(b *builder, node any) bool {
	if len(b.localAlias) == 0 {
		return false
	}
	switch n := node.(type) {
	case *expr.Column:
		return n.Source.Kind == expr.SourceDirect && b.localAlias[n.Name]
	case *expr.BooleanColumn:
		return n.Source.Kind == expr.SourceDirect && b.localAlias[n.Name]
	case *expr.Arithmetic:
		return referencesLocalAlias(b, n.Left) || referencesLocalAlias(b, n.Right)
	case *expr.Concat:
		for _, p := range n.Parts {
			if referencesLocalAlias(b, p) {
				return true
			}
		}
		return false
	case *expr.StringMethod:
		return referencesLocalAlias(b, n.Object)
	case *expr.Coalesce:
		for _, p := range n.Exprs {
			if referencesLocalAlias(b, p) {
				return true
			}
		}
		return false
	case *expr.Conditional:
		return referencesLocalAlias(b, n.Cond) || referencesLocalAlias(b, n.Then) || referencesLocalAlias(b, n.Else)
	case *expr.Aggregate:
		return n.Expr != nil && referencesLocalAlias(b, n.Expr)
	case *expr.ArrayExpr:
		for _, p := range n.Elems {
			if referencesLocalAlias(b, p) {
				return true
			}
		}
		return false
	case *expr.Comparison:
		return referencesLocalAlias(b, n.Left) || referencesLocalAlias(b, n.Right)
	case *expr.Logical:
		return referencesLocalAlias(b, n.Left) || referencesLocalAlias(b, n.Right)
	case *expr.Not:
		return referencesLocalAlias(b, n.X)
	case *expr.BooleanMethod:
		return referencesLocalAlias(b, n.Object) || referencesLocalAlias(b, n.Arg)
	case *expr.In:
		if referencesLocalAlias(b, n.Value) {
			return true
		}
		for _, el := range n.List {
			if referencesLocalAlias(b, el) {
				return true
			}
		}
		return false
	case *expr.IsNull:
		return referencesLocalAlias(b, n.Expr)
	case *expr.CaseInsensitiveFn:
		for _, a := range n.Args {
			if referencesLocalAlias(b, a) {
				return true
			}
		}
		return false
	}
	return false
}
