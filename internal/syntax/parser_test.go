package syntax

import "testing"

func TestParseLambdaTwoParams(t *testing.T) {
	fn, err := ParseLambda(`(q, p) => q.from("users")`)
	if err != nil {
		t.Fatalf("ParseLambda error: %v", err)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "q" || fn.Params[1].Name != "p" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	call, ok := fn.Body.(*CallExpr)
	if !ok {
		t.Fatalf("body = %T, want *CallExpr", fn.Body)
	}
	member, ok := call.Func.(*MemberExpr)
	if !ok || member.Sel.Name != "from" {
		t.Fatalf("call.Func = %+v, want member access to 'from'", call.Func)
	}
}

func TestParseLambdaSingleUnparenthesizedParam(t *testing.T) {
	fn, err := ParseLambda(`u => u.active === true`)
	if err != nil {
		t.Fatalf("ParseLambda error: %v", err)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "u" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	if fn.Lparen.IsValid() {
		t.Errorf("expected invalid Lparen for unparenthesized single-param form")
	}
}

func TestParseLambdaObjectLiteralSelector(t *testing.T) {
	fn, err := ParseLambda(`u => ({id: u.id, name: u.name})`)
	if err != nil {
		t.Fatalf("ParseLambda error: %v", err)
	}
	paren, ok := fn.Body.(*ParenExpr)
	if !ok {
		t.Fatalf("body = %T, want *ParenExpr", fn.Body)
	}
	obj, ok := paren.X.(*ObjectExpr)
	if !ok || len(obj.Props) != 2 {
		t.Fatalf("paren.X = %+v, want ObjectExpr with 2 props", paren.X)
	}
	if obj.Props[0].Name.Name != "id" || obj.Props[1].Name.Name != "name" {
		t.Fatalf("unexpected prop names: %+v", obj.Props)
	}
}

func TestParseLambdaRejectsMissingArrow(t *testing.T) {
	_, err := ParseLambda(`(q, p) q.from("users")`)
	if err == nil {
		t.Fatalf("expected error for missing arrow")
	}
}

func TestParseLambdaRejectsScanError(t *testing.T) {
	_, err := ParseLambda(`u => u.name === "unterminated`)
	if err == nil {
		t.Fatalf("expected error for unterminated string literal")
	}
}

func TestParseChainedCalls(t *testing.T) {
	fn, err := ParseLambda(`(q, p) => q.from("users").where(u => u.age > p.minAge).take(10)`)
	if err != nil {
		t.Fatalf("ParseLambda error: %v", err)
	}
	outer, ok := fn.Body.(*CallExpr)
	if !ok {
		t.Fatalf("body = %T, want *CallExpr", fn.Body)
	}
	outerMember, ok := outer.Func.(*MemberExpr)
	if !ok || outerMember.Sel.Name != "take" {
		t.Fatalf("outermost call should be 'take', got %+v", outer.Func)
	}
}

func TestWalkVisitsIdentifiers(t *testing.T) {
	fn, err := ParseLambda(`u => u.active`)
	if err != nil {
		t.Fatalf("ParseLambda error: %v", err)
	}
	var names []string
	Walk(fn, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	if len(names) == 0 {
		t.Fatalf("expected Walk to visit at least one Ident")
	}
}
