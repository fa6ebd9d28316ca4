package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is the interface implemented by all AST node types.
type Node interface {
	Span() Span
}

func nodeSpan(n Node) Span {
	if n == nil {
		return nullSpan()
	}
	return n.Span()
}

func nodeSliceSpan[T Node](nodes []T) Span {
	spans := make([]Span, 0, len(nodes))
	for _, n := range nodes {
		if span := nodeSpan(n); span.IsValid() {
			spans = append(spans, span)
		}
	}
	return unionSpans(spans...)
}

// Expr is the interface implemented by all expression AST node types.
type Expr interface {
	Node
	expression()
}

// An Ident node represents a bare identifier.
type Ident struct {
	Name     string
	NameSpan Span
}

func (id *Ident) Span() Span {
	if id == nil {
		return nullSpan()
	}
	return id.NameSpan
}

func (id *Ident) expression() {}

// An ArrowFunc node represents a lambda: "(p1, p2) => body" or "p => body".
type ArrowFunc struct {
	Lparen Span // invalid if the single-param unparenthesized form was used
	Params []*Ident
	Rparen Span
	Arrow  Span
	Body   Expr
}

func (f *ArrowFunc) Span() Span {
	if f == nil {
		return nullSpan()
	}
	return unionSpans(f.Lparen, nodeSliceSpan(f.Params), f.Rparen, f.Arrow, nodeSpan(f.Body))
}

func (f *ArrowFunc) expression() {}

// A MemberExpr node represents property access: "x.name" or "x?.name".
type MemberExpr struct {
	X        Expr
	Dot      Span
	Optional bool
	Sel      *Ident
}

func (m *MemberExpr) Span() Span {
	if m == nil {
		return nullSpan()
	}
	return unionSpans(nodeSpan(m.X), m.Dot, m.Sel.Span())
}

func (m *MemberExpr) expression() {}

// An IndexExpr node represents a computed member access: "x[y]".
type IndexExpr struct {
	X      Expr
	Lbrack Span
	Index  Expr
	Rbrack Span
}

func (idx *IndexExpr) Span() Span {
	if idx == nil {
		return nullSpan()
	}
	return unionSpans(nodeSpan(idx.X), idx.Lbrack, nodeSpan(idx.Index), idx.Rbrack)
}

func (idx *IndexExpr) expression() {}

// A CallExpr node represents a function or method call: "f(a, b)".
type CallExpr struct {
	Func   Expr
	Lparen Span
	Args   []Expr
	Rparen Span
}

func (call *CallExpr) Span() Span {
	if call == nil {
		return nullSpan()
	}
	return unionSpans(nodeSpan(call.Func), call.Lparen, nodeSliceSpan(call.Args), call.Rparen)
}

func (call *CallExpr) expression() {}

// A BinaryExpr represents a binary operator expression,
// covering arithmetic, comparison, and logical (&&/||) operators alike.
type BinaryExpr struct {
	X      Expr
	OpSpan Span
	Op     TokenKind
	Y      Expr
}

func (expr *BinaryExpr) Span() Span {
	if expr == nil {
		return nullSpan()
	}
	return unionSpans(nodeSpan(expr.X), expr.OpSpan, nodeSpan(expr.Y))
}

func (expr *BinaryExpr) expression() {}

// A UnaryExpr represents a unary operator expression ("!x", "-x", "+x").
type UnaryExpr struct {
	OpSpan Span
	Op     TokenKind
	X      Expr
}

func (expr *UnaryExpr) Span() Span {
	if expr == nil {
		return nullSpan()
	}
	return unionSpans(expr.OpSpan, nodeSpan(expr.X))
}

func (expr *UnaryExpr) expression() {}

// A ConditionalExpr represents a ternary expression: "cond ? then : else".
type ConditionalExpr struct {
	Cond     Expr
	Question Span
	Then     Expr
	Colon    Span
	Else     Expr
}

func (expr *ConditionalExpr) Span() Span {
	if expr == nil {
		return nullSpan()
	}
	return unionSpans(nodeSpan(expr.Cond), expr.Question, nodeSpan(expr.Then), expr.Colon, nodeSpan(expr.Else))
}

func (expr *ConditionalExpr) expression() {}

// A ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	Lparen Span
	X      Expr
	Rparen Span
}

func (expr *ParenExpr) Span() Span {
	if expr == nil {
		return nullSpan()
	}
	return unionSpans(expr.Lparen, nodeSpan(expr.X), expr.Rparen)
}

func (expr *ParenExpr) expression() {}

// A BasicLit node represents a numeric or string literal.
type BasicLit struct {
	ValueSpan Span
	Kind      TokenKind // TokenNumber or TokenString
	Value     string
}

func (lit *BasicLit) Span() Span {
	if lit == nil {
		return nullSpan()
	}
	return lit.ValueSpan
}

// IsFloat reports whether the literal is a floating point literal.
func (lit *BasicLit) IsFloat() bool {
	return lit.Kind == TokenNumber && strings.ContainsAny(lit.Value, ".eE")
}

// Float64 returns the numeric value of the literal.
// It returns 0 if the literal's kind is not TokenNumber.
func (lit *BasicLit) Float64() float64 {
	if lit.Kind != TokenNumber {
		return 0
	}
	x, err := strconv.ParseFloat(lit.Value, 64)
	if err != nil {
		return 0
	}
	return x
}

func (lit *BasicLit) expression() {}

// A KeywordLit node represents the literals true, false, null, or undefined,
// which lex as plain identifiers but are semantically literals.
type KeywordLit struct {
	NameSpan Span
	Name     string // "true", "false", "null", or "undefined"
}

func (lit *KeywordLit) Span() Span {
	if lit == nil {
		return nullSpan()
	}
	return lit.NameSpan
}

func (lit *KeywordLit) expression() {}

// An ObjectExpr node represents an object literal: "{a: 1, ...b, c}".
type ObjectExpr struct {
	Lbrace Span
	Props  []*ObjectProp
	Rbrace Span
}

func (obj *ObjectExpr) Span() Span {
	if obj == nil {
		return nullSpan()
	}
	return unionSpans(obj.Lbrace, nodeSliceSpan(obj.Props), obj.Rbrace)
}

func (obj *ObjectExpr) expression() {}

// An ObjectProp is a single property of an ObjectExpr.
// If Spread is valid, this property is a spread ("...x") and SpreadExpr
// holds the spread expression; Name and Value are nil.
// If Value is nil (and Spread is not valid), this is a shorthand property
// ("{x}") equivalent to "{x: x}".
type ObjectProp struct {
	Spread     Span
	SpreadExpr Expr

	Name  *Ident
	Colon Span
	Value Expr
}

func (p *ObjectProp) Span() Span {
	if p == nil {
		return nullSpan()
	}
	if p.Spread.IsValid() {
		return unionSpans(p.Spread, nodeSpan(p.SpreadExpr))
	}
	return unionSpans(p.Name.Span(), p.Colon, nodeSpan(p.Value))
}

// An ArrayExpr node represents an array literal: "[1, 2, 3]".
type ArrayExpr struct {
	Lbracket Span
	Elems    []Expr
	Rbracket Span
}

func (arr *ArrayExpr) Span() Span {
	if arr == nil {
		return nullSpan()
	}
	return unionSpans(arr.Lbracket, nodeSliceSpan(arr.Elems), arr.Rbracket)
}

func (arr *ArrayExpr) expression() {}

// Walk traverses an AST in depth-first order. If visit returns true for a
// node, Walk also visits that node's children.
func Walk(n Node, visit func(n Node) bool) {
	stack := []Node{n}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n := curr.(type) {
		case *Ident:
			visit(n)
		case *KeywordLit:
			visit(n)
		case *BasicLit:
			visit(n)
		case *ArrowFunc:
			if visit(n) {
				stack = append(stack, n.Body)
				for i := len(n.Params) - 1; i >= 0; i-- {
					stack = append(stack, n.Params[i])
				}
			}
		case *MemberExpr:
			if visit(n) {
				stack = append(stack, n.Sel)
				stack = append(stack, n.X)
			}
		case *IndexExpr:
			if visit(n) {
				stack = append(stack, n.Index)
				stack = append(stack, n.X)
			}
		case *CallExpr:
			if visit(n) {
				for i := len(n.Args) - 1; i >= 0; i-- {
					stack = append(stack, n.Args[i])
				}
				stack = append(stack, n.Func)
			}
		case *BinaryExpr:
			if visit(n) {
				stack = append(stack, n.Y)
				stack = append(stack, n.X)
			}
		case *UnaryExpr:
			if visit(n) {
				stack = append(stack, n.X)
			}
		case *ConditionalExpr:
			if visit(n) {
				stack = append(stack, n.Else)
				stack = append(stack, n.Then)
				stack = append(stack, n.Cond)
			}
		case *ParenExpr:
			if visit(n) {
				stack = append(stack, n.X)
			}
		case *ObjectExpr:
			if visit(n) {
				for i := len(n.Props) - 1; i >= 0; i-- {
					stack = append(stack, n.Props[i])
				}
			}
		case *ObjectProp:
			if visit(n) {
				if n.Spread.IsValid() {
					stack = append(stack, n.SpreadExpr)
				} else {
					if n.Value != nil {
						stack = append(stack, n.Value)
					}
					stack = append(stack, n.Name)
				}
			}
		case *ArrayExpr:
			if visit(n) {
				for i := len(n.Elems) - 1; i >= 0; i-- {
					stack = append(stack, n.Elems[i])
				}
			}
		default:
			panic(fmt.Errorf("syntax: unknown Node type %T", n))
		}
	}
}
