package syntax

import "testing"

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestScanOperators(t *testing.T) {
	tests := []struct {
		src  string
		want []TokenKind
	}{
		{"=>", []TokenKind{TokenArrow}},
		{"===", []TokenKind{TokenEqStrict}},
		{"==", []TokenKind{TokenEq}},
		{"!==", []TokenKind{TokenNEStrict}},
		{"!=", []TokenKind{TokenNE}},
		{"&&", []TokenKind{TokenAndAnd}},
		{"||", []TokenKind{TokenOrOr}},
		{"?.", []TokenKind{TokenOptDot}},
		{"...", []TokenKind{TokenEllipsis}},
		{"<=", []TokenKind{TokenLE}},
		{">=", []TokenKind{TokenGE}},
	}
	for _, tt := range tests {
		got := kinds(Scan(tt.src))
		if len(got) != len(tt.want) {
			t.Fatalf("Scan(%q) = %v, want %v", tt.src, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Scan(%q)[%d] = %v, want %v", tt.src, i, got[i], tt.want[i])
			}
		}
	}
}

func TestScanIdentifier(t *testing.T) {
	tokens := Scan("u_name$1")
	if len(tokens) != 1 || tokens[0].Kind != TokenIdentifier || tokens[0].Value != "u_name$1" {
		t.Fatalf("Scan identifier = %+v", tokens)
	}
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"123", "123"},
		{"3.14", "3.14"},
		{"0xBEEF", "48879"},
		{"0", "0"},
	}
	for _, tt := range tests {
		tokens := Scan(tt.src)
		if len(tokens) != 1 || tokens[0].Kind != TokenNumber || tokens[0].Value != tt.want {
			t.Errorf("Scan(%q) = %+v, want Number %q", tt.src, tokens, tt.want)
		}
	}
}

func TestScanStringLiteralWithEscapes(t *testing.T) {
	tokens := Scan(`"hello\nworld"`)
	if len(tokens) != 1 || tokens[0].Kind != TokenString {
		t.Fatalf("Scan string = %+v", tokens)
	}
	if tokens[0].Value != "hello\nworld" {
		t.Errorf("Scan string value = %q, want %q", tokens[0].Value, "hello\nworld")
	}
}

func TestScanUnterminatedStringIsError(t *testing.T) {
	tokens := Scan(`"abc`)
	if len(tokens) != 1 || tokens[0].Kind != TokenError {
		t.Fatalf("Scan(%q) = %+v, want a single TokenError", `"abc`, tokens)
	}
}

func TestScanSkipsLineComments(t *testing.T) {
	tokens := Scan("a // comment\nb")
	if len(tokens) != 2 || tokens[0].Value != "a" || tokens[1].Value != "b" {
		t.Fatalf("Scan with line comment = %+v", tokens)
	}
}

func TestScanLambdaShape(t *testing.T) {
	tokens := Scan(`(q, p) => q.from("users").where(u => u.id === p.id)`)
	if len(tokens) == 0 {
		t.Fatalf("expected non-empty token stream")
	}
	if tokens[0].Kind != TokenLParen {
		t.Errorf("first token = %v, want TokenLParen", tokens[0].Kind)
	}
	var sawArrow, sawString bool
	for _, tok := range tokens {
		if tok.Kind == TokenArrow {
			sawArrow = true
		}
		if tok.Kind == TokenString && tok.Value == "users" {
			sawString = true
		}
	}
	if !sawArrow || !sawString {
		t.Errorf("missing expected tokens in %+v", tokens)
	}
}

func TestScanSpansCoverSource(t *testing.T) {
	src := "abc + 1"
	tokens := Scan(src)
	for _, tok := range tokens {
		if !tok.Span.IsValid() {
			t.Fatalf("token %+v has invalid span", tok)
		}
		if tok.Span.End > len(src) {
			t.Fatalf("token %+v span exceeds source length", tok)
		}
	}
}
