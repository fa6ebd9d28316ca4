package visitor

import "github.com/tinqer-go/tinqer/internal/syntax"

// callLink is one method-call step of a fluent chain, in application order
// after unrollChain reverses its natural (innermost-last) parse order.
type callLink struct {
	method string
	call   *syntax.CallExpr
}

// unrollChain flattens a right-leaning fluent call chain
// ("root.a().b().c()" or "base(...).b().c()") into its base call plus an
// ordered list of method links applied on top of it.
//
// base.Func is either a bare *syntax.Ident (the chain started with a plain
// function call like "from(...)") or a *syntax.MemberExpr (the chain
// started with "root.method(...)"); callers inspect base.Func themselves
// to recover the root expression and base method name.
func unrollChain(e syntax.Expr) (base *syntax.CallExpr, links []callLink, ok bool) {
	cur, ok := e.(*syntax.CallExpr)
	if !ok {
		return nil, nil, false
	}
	for {
		mem, isMem := cur.Func.(*syntax.MemberExpr)
		if !isMem {
			break
		}
		if innerCall, ok := mem.X.(*syntax.CallExpr); ok {
			links = append(links, callLink{method: mem.Sel.Name, call: cur})
			cur = innerCall
			continue
		}
		break
	}
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}
	return cur, links, true
}
