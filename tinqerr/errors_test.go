package tinqerr

import (
	"errors"
	"strings"
	"testing"

	"github.com/tinqer-go/tinqer/internal/syntax"
)

func TestParseErrorFormatsLineCol(t *testing.T) {
	source := "line one\nline two bad"
	err := &ParseError{
		Source: source,
		Span:   syntax.Span{Start: len("line one\n"), End: len("line one\n") + 4},
		Err:    errors.New("unexpected token"),
	}
	msg := err.Error()
	if !strings.Contains(msg, "parse") || !strings.Contains(msg, "2:1") || !strings.Contains(msg, "unexpected token") {
		t.Fatalf("unexpected error message: %q", msg)
	}
}

func TestParseErrorFallsBackWithoutSpan(t *testing.T) {
	err := &ParseError{Source: "whatever", Span: syntax.Span{Start: -1, End: -1}, Err: errors.New("boom")}
	msg := err.Error()
	if !strings.Contains(msg, "boom") {
		t.Fatalf("expected message to contain underlying error, got %q", msg)
	}
	if strings.Contains(msg, "1:1") {
		t.Fatalf("expected no line:col for an invalid span, got %q", msg)
	}
}

func TestUnwrap(t *testing.T) {
	underlying := errors.New("root cause")
	tests := []error{
		&ParseError{Err: underlying},
		&SemanticError{Err: underlying},
		&ShapeError{Err: underlying},
		&EmitError{Err: underlying},
	}
	for _, err := range tests {
		if !errors.Is(err, underlying) {
			t.Errorf("%T does not unwrap to underlying error", err)
		}
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	if errors.Is(ErrNoElements, ErrMultipleElements) {
		t.Fatalf("ErrNoElements and ErrMultipleElements must be distinct")
	}
}
