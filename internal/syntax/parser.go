package syntax

import (
	"errors"
	"fmt"
)

type parser struct {
	source string
	tokens []Token
	pos    int
}

// ParseLambda parses a single top-level lambda expression, such as
// "(q, p) => q.from(\"users\").where(u => u.age >= p.min)".
// The outer expression must be an [*ArrowFunc]; use [Parse] to parse an
// arbitrary expression (used internally when re-entering nested lambda
// arguments).
func ParseLambda(source string) (*ArrowFunc, error) {
	expr, err := Parse(source)
	if err != nil {
		return nil, err
	}
	fn, ok := expr.(*ArrowFunc)
	if !ok {
		return nil, &ParseError{
			Source: source,
			Span:   expr.Span(),
			Err:    errors.New("expected a lambda expression (e.g. \"(q, p) => ...\")"),
		}
	}
	return fn, nil
}

// Parse parses a single expression, consuming the entire source string.
func Parse(source string) (Expr, error) {
	p := &parser{source: source, tokens: Scan(source)}
	expr, err := p.expr()
	if err != nil {
		return expr, fmt.Errorf("parse lambda expression: %w", err)
	}
	if p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.Kind == TokenError {
			return expr, fmt.Errorf("parse lambda expression: %w", &ParseError{Source: source, Span: tok.Span, Err: errors.New(tok.Value)})
		}
		return expr, fmt.Errorf("parse lambda expression: %w", &ParseError{Source: source, Span: tok.Span, Err: errors.New("unexpected trailing token")})
	}
	return expr, nil
}

// ParseError describes a syntax error encountered while scanning or
// parsing a lambda source string.
type ParseError struct {
	Source string
	Span   Span
	Err    error
}

func (e *ParseError) Error() string {
	if !e.Span.IsValid() {
		return e.Err.Error()
	}
	line, col := linecol(e.Source, e.Span.Start)
	return fmt.Sprintf("%d:%d: %s", line, col, e.Err.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func linecol(source string, pos int) (line, col int) {
	line, col = 1, 1
	if pos > len(source) {
		pos = len(source)
	}
	for _, c := range source[:pos] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return
}

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenError, Span: indexSpan(len(p.source)), Value: "unexpected end of input"}
	}
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) (Token, bool) {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[i], true
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) expect(kind TokenKind, desc string) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, &ParseError{Source: p.source, Span: tok.Span, Err: fmt.Errorf("expected %s, got %s", desc, formatToken(p.source, tok))}
	}
	return p.next(), nil
}

func formatToken(source string, tok Token) string {
	if tok.Kind == TokenError {
		return "a scan error: " + tok.Value
	}
	if !tok.Span.IsValid() || tok.Span.Start >= len(source) {
		return "end of input"
	}
	return fmt.Sprintf("%q", spanString(source, tok.Span))
}

// expr parses a full expression, including arrow functions and the
// conditional (ternary) operator.
func (p *parser) expr() (Expr, error) {
	if fn, ok, err := p.tryArrowFunc(); ok {
		return fn, err
	}
	return p.conditional()
}

func (p *parser) tryArrowFunc() (*ArrowFunc, bool, error) {
	start := p.pos
	switch p.peek().Kind {
	case TokenIdentifier:
		nameTok := p.peek()
		if arrowTok, ok := p.peekAt(1); ok && arrowTok.Kind == TokenArrow {
			p.pos += 2
			body, err := p.expr()
			return &ArrowFunc{
				Lparen: nullSpan(),
				Params: []*Ident{{Name: nameTok.Value, NameSpan: nameTok.Span}},
				Rparen: nullSpan(),
				Arrow:  arrowTok.Span,
				Body:   body,
			}, true, err
		}
		return nil, false, nil
	case TokenLParen:
		// Scan ahead for a matching RParen followed by an arrow.
		depth := 0
		i := p.pos
		for i < len(p.tokens) {
			switch p.tokens[i].Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
				if depth == 0 {
					goto found
				}
			case TokenError:
				return nil, false, nil
			}
			i++
		}
		return nil, false, nil
	found:
		if i+1 >= len(p.tokens) || p.tokens[i+1].Kind != TokenArrow {
			return nil, false, nil
		}
		lparen, _ := p.expect(TokenLParen, "(")
		var params []*Ident
		for p.peek().Kind != TokenRParen {
			idTok, err := p.expect(TokenIdentifier, "parameter name")
			if err != nil {
				p.pos = start
				return nil, false, nil
			}
			params = append(params, &Ident{Name: idTok.Value, NameSpan: idTok.Span})
			if p.peek().Kind == TokenComma {
				p.next()
				continue
			}
			break
		}
		rparen, err := p.expect(TokenRParen, ")")
		if err != nil {
			return nil, true, err
		}
		arrowTok, err := p.expect(TokenArrow, "=>")
		if err != nil {
			return nil, true, err
		}
		body, err := p.expr()
		return &ArrowFunc{Lparen: lparen.Span, Params: params, Rparen: rparen.Span, Arrow: arrowTok.Span, Body: body}, true, err
	default:
		return nil, false, nil
	}
}

func (p *parser) conditional() (Expr, error) {
	cond, err := p.logicalOr()
	if err != nil {
		return cond, err
	}
	if p.peek().Kind != TokenQuestion {
		return cond, nil
	}
	q := p.next()
	then, err := p.assignOrExpr()
	if err != nil {
		return cond, err
	}
	colon, err := p.expect(TokenColon, ":")
	if err != nil {
		return cond, err
	}
	els, err := p.conditional()
	if err != nil {
		return cond, err
	}
	return &ConditionalExpr{Cond: cond, Question: q.Span, Then: then, Colon: colon.Span, Else: els}, nil
}

// assignOrExpr parses the "then" branch of a ternary, which may itself be
// an arrow function (rare) or any conditional expression.
func (p *parser) assignOrExpr() (Expr, error) {
	if fn, ok, err := p.tryArrowFunc(); ok {
		return fn, err
	}
	return p.conditional()
}

func (p *parser) logicalOr() (Expr, error) {
	left, err := p.logicalAnd()
	if err != nil {
		return left, err
	}
	for p.peek().Kind == TokenOrOr {
		op := p.next()
		right, err := p.logicalAnd()
		if err != nil {
			return left, err
		}
		left = &BinaryExpr{X: left, OpSpan: op.Span, Op: op.Kind, Y: right}
	}
	return left, nil
}

func (p *parser) logicalAnd() (Expr, error) {
	left, err := p.equality()
	if err != nil {
		return left, err
	}
	for p.peek().Kind == TokenAndAnd {
		op := p.next()
		right, err := p.equality()
		if err != nil {
			return left, err
		}
		left = &BinaryExpr{X: left, OpSpan: op.Span, Op: op.Kind, Y: right}
	}
	return left, nil
}

var equalityOps = map[TokenKind]bool{
	TokenEq: true, TokenNE: true, TokenEqStrict: true, TokenNEStrict: true,
}

func (p *parser) equality() (Expr, error) {
	left, err := p.relational()
	if err != nil {
		return left, err
	}
	for equalityOps[p.peek().Kind] {
		op := p.next()
		right, err := p.relational()
		if err != nil {
			return left, err
		}
		left = &BinaryExpr{X: left, OpSpan: op.Span, Op: op.Kind, Y: right}
	}
	return left, nil
}

var relationalOps = map[TokenKind]bool{
	TokenLT: true, TokenLE: true, TokenGT: true, TokenGE: true,
}

func (p *parser) relational() (Expr, error) {
	left, err := p.additive()
	if err != nil {
		return left, err
	}
	for relationalOps[p.peek().Kind] {
		op := p.next()
		right, err := p.additive()
		if err != nil {
			return left, err
		}
		left = &BinaryExpr{X: left, OpSpan: op.Span, Op: op.Kind, Y: right}
	}
	return left, nil
}

func (p *parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return left, err
	}
	for p.peek().Kind == TokenPlus || p.peek().Kind == TokenMinus {
		op := p.next()
		right, err := p.multiplicative()
		if err != nil {
			return left, err
		}
		left = &BinaryExpr{X: left, OpSpan: op.Span, Op: op.Kind, Y: right}
	}
	return left, nil
}

func (p *parser) multiplicative() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return left, err
	}
	for p.peek().Kind == TokenStar || p.peek().Kind == TokenSlash || p.peek().Kind == TokenMod {
		op := p.next()
		right, err := p.unary()
		if err != nil {
			return left, err
		}
		left = &BinaryExpr{X: left, OpSpan: op.Span, Op: op.Kind, Y: right}
	}
	return left, nil
}

func (p *parser) unary() (Expr, error) {
	switch p.peek().Kind {
	case TokenNot, TokenMinus, TokenPlus:
		op := p.next()
		x, err := p.unary()
		return &UnaryExpr{OpSpan: op.Span, Op: op.Kind, X: x}, err
	default:
		return p.postfix()
	}
}

func (p *parser) postfix() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return x, err
	}
	for {
		switch p.peek().Kind {
		case TokenDot, TokenOptDot:
			dot := p.next()
			sel, err := p.expect(TokenIdentifier, "property name")
			if err != nil {
				return x, err
			}
			x = &MemberExpr{X: x, Dot: dot.Span, Optional: dot.Kind == TokenOptDot, Sel: &Ident{Name: sel.Value, NameSpan: sel.Span}}
		case TokenLParen:
			lparen := p.next()
			var args []Expr
			for p.peek().Kind != TokenRParen {
				arg, err := p.expr()
				if err != nil {
					return x, err
				}
				args = append(args, arg)
				if p.peek().Kind == TokenComma {
					p.next()
					continue
				}
				break
			}
			rparen, err := p.expect(TokenRParen, ")")
			if err != nil {
				return x, err
			}
			x = &CallExpr{Func: x, Lparen: lparen.Span, Args: args, Rparen: rparen.Span}
		case TokenLBracket:
			lbrack := p.next()
			index, err := p.expr()
			if err != nil {
				return x, err
			}
			rbrack, err := p.expect(TokenRBracket, "]")
			if err != nil {
				return x, err
			}
			x = &IndexExpr{X: x, Lbrack: lbrack.Span, Index: index, Rbrack: rbrack.Span}
		default:
			return x, nil
		}
	}
}

var keywordLiterals = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true,
}

func (p *parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIdentifier:
		p.next()
		if keywordLiterals[tok.Value] {
			return &KeywordLit{Name: tok.Value, NameSpan: tok.Span}, nil
		}
		return &Ident{Name: tok.Value, NameSpan: tok.Span}, nil
	case TokenNumber, TokenString:
		p.next()
		return &BasicLit{ValueSpan: tok.Span, Kind: tok.Kind, Value: tok.Value}, nil
	case TokenLParen:
		lparen := p.next()
		x, err := p.expr()
		if err != nil {
			return x, err
		}
		rparen, err := p.expect(TokenRParen, ")")
		if err != nil {
			return x, err
		}
		return &ParenExpr{Lparen: lparen.Span, X: x, Rparen: rparen.Span}, nil
	case TokenLBrace:
		return p.object()
	case TokenLBracket:
		return p.array()
	case TokenError:
		return nil, &ParseError{Source: p.source, Span: tok.Span, Err: errors.New(tok.Value)}
	default:
		return nil, &ParseError{Source: p.source, Span: tok.Span, Err: fmt.Errorf("unexpected %s", formatToken(p.source, tok))}
	}
}

func (p *parser) object() (Expr, error) {
	lbrace, _ := p.expect(TokenLBrace, "{")
	obj := &ObjectExpr{Lbrace: lbrace.Span}
	for p.peek().Kind != TokenRBrace {
		if p.peek().Kind == TokenEllipsis {
			spread := p.next()
			x, err := p.conditional()
			if err != nil {
				return obj, err
			}
			obj.Props = append(obj.Props, &ObjectProp{Spread: spread.Span, SpreadExpr: x})
		} else {
			nameTok, err := p.expect(TokenIdentifier, "property name")
			if err != nil {
				return obj, err
			}
			name := &Ident{Name: nameTok.Value, NameSpan: nameTok.Span}
			prop := &ObjectProp{Spread: nullSpan(), Name: name}
			if p.peek().Kind == TokenColon {
				colon := p.next()
				value, err := p.expr()
				if err != nil {
					return obj, err
				}
				prop.Colon = colon.Span
				prop.Value = value
			}
			obj.Props = append(obj.Props, prop)
		}
		if p.peek().Kind == TokenComma {
			p.next()
			continue
		}
		break
	}
	rbrace, err := p.expect(TokenRBrace, "}")
	obj.Rbrace = rbrace.Span
	return obj, err
}

func (p *parser) array() (Expr, error) {
	lbracket, _ := p.expect(TokenLBracket, "[")
	arr := &ArrayExpr{Lbracket: lbracket.Span}
	for p.peek().Kind != TokenRBracket {
		elem, err := p.expr()
		if err != nil {
			return arr, err
		}
		arr.Elems = append(arr.Elems, elem)
		if p.peek().Kind == TokenComma {
			p.next()
			continue
		}
		break
	}
	rbracket, err := p.expect(TokenRBracket, "]")
	arr.Rbracket = rbracket.Span
	return arr, err
}
