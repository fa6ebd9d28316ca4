// Package complete offers cursor-position completion suggestions for a
// Tinqer lambda source string: table names after an open "from(", query
// method names after a chain's ".", and column names after a bound row
// parameter's ".".
//
// Grounded on the teacher's autocomplete.go AnalysisContext: the same
// "classify what the cursor is adjacent to, then offer a filtered,
// sorted candidate list" shape, adapted from the teacher's pipe-operator
// grammar to Tinqer's method-chain grammar.
package complete

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tinqer-go/tinqer/internal/syntax"
	"github.com/tinqer-go/tinqer/tinqer"
)

// Completion is one candidate suggestion: Label is what a user sees,
// Insert is the text that should be appended at the cursor (the part of
// Label not already typed).
type Completion struct {
	Label  string
	Insert string
}

// queryMethods lists every chain method a from(...) result accepts,
// sorted for stable, deterministic suggestion order.
var queryMethods = func() []string {
	names := []string{
		"where", "select", "join", "leftJoin", "groupBy",
		"orderBy", "orderByDescending", "thenBy", "thenByDescending",
		"take", "skip", "distinct", "reverse",
		"first", "firstOrDefault", "single", "singleOrDefault",
		"last", "lastOrDefault", "any", "all", "contains",
		"count", "sum", "average", "min", "max", "toArray", "toList",
	}
	slices.Sort(names)
	return names
}()

// Suggest returns completions for source at the byte offset cursor,
// against schema's table/column catalog.
func Suggest(schema *tinqer.Schema, source string, cursor int) []*Completion {
	tokens := syntax.Scan(source)

	if insideFromStringArg(source, tokens, cursor) {
		prefix := stringPrefix(source, tokens, cursor)
		return completeTableNames(schema, prefix)
	}

	if dotPrefix, tableAlias, ok := memberAccessContext(source, tokens, cursor); ok {
		table := resolveFromTable(source, tokens, tableAlias)
		if table != "" {
			return completeColumnNames(schema, table, dotPrefix)
		}
		return nil
	}

	if prefix, ok := methodNamePrefix(source, tokens, cursor); ok {
		return completeMethodNames(prefix)
	}
	return nil
}

func completeTableNames(schema *tinqer.Schema, prefix string) []*Completion {
	if schema == nil {
		return nil
	}
	result := make([]*Completion, 0, len(schema.Tables))
	for name := range schema.Tables {
		if strings.HasPrefix(name, prefix) {
			result = append(result, &Completion{Label: name, Insert: name[len(prefix):]})
		}
	}
	slices.SortFunc(result, func(a, b *Completion) int { return cmp.Compare(a.Label, b.Label) })
	return result
}

func completeColumnNames(schema *tinqer.Schema, table, prefix string) []*Completion {
	if schema == nil {
		return nil
	}
	cols := schema.Tables[table]
	result := make([]*Completion, 0, len(cols))
	for _, col := range cols {
		if strings.HasPrefix(col, prefix) {
			result = append(result, &Completion{Label: col, Insert: col[len(prefix):]})
		}
	}
	slices.SortFunc(result, func(a, b *Completion) int { return cmp.Compare(a.Label, b.Label) })
	return result
}

func completeMethodNames(prefix string) []*Completion {
	result := make([]*Completion, 0, len(queryMethods))
	for _, name := range queryMethods {
		if strings.HasPrefix(name, prefix) {
			result = append(result, &Completion{Label: name, Insert: name[len(prefix):]})
		}
	}
	return result
}

// insideFromStringArg reports whether cursor sits inside the string
// literal argument of a "from(" call, e.g. `q.from("use|`.
func insideFromStringArg(source string, tokens []syntax.Token, cursor int) bool {
	i := tokenBefore(tokens, cursor)
	if i < 0 {
		return false
	}
	tok := tokens[i]
	if !isStringLike(tok) || !within(tok.Span, cursor) {
		return false
	}
	// Walk back past the string to confirm it's the argument to "from(".
	j := i - 1
	if j < 0 || tokens[j].Kind != syntax.TokenLParen {
		return false
	}
	j--
	if j < 0 || tokens[j].Kind != syntax.TokenIdentifier {
		return false
	}
	return source[tokens[j].Span.Start:tokens[j].Span.End] == "from"
}

func stringPrefix(source string, tokens []syntax.Token, cursor int) string {
	i := tokenBefore(tokens, cursor)
	if i < 0 {
		return ""
	}
	tok := tokens[i]
	start := tok.Span.Start + 1 // past opening quote
	if cursor < start || cursor > tok.Span.End {
		return ""
	}
	return source[start:cursor]
}

// methodNamePrefix reports whether cursor directly follows a "." that
// is not inside a lambda's own member-access expression on its row
// parameter, returning the partially typed method name.
func methodNamePrefix(source string, tokens []syntax.Token, cursor int) (string, bool) {
	i := tokenBefore(tokens, cursor)
	if i < 0 {
		return "", false
	}
	tok := tokens[i]
	if tok.Kind == syntax.TokenIdentifier && within(tok.Span, cursor) {
		if i > 0 && tokens[i-1].Kind == syntax.TokenDot {
			return source[tok.Span.Start:cursor], true
		}
	}
	if tok.Kind == syntax.TokenDot && tok.Span.End == cursor {
		return "", true
	}
	return "", false
}

// memberAccessContext reports whether cursor follows "<alias>." inside a
// lambda body (as opposed to the outer chain), returning the partial
// property name typed so far and the row-parameter alias it follows.
func memberAccessContext(source string, tokens []syntax.Token, cursor int) (prefix, alias string, ok bool) {
	i := tokenBefore(tokens, cursor)
	if i < 0 {
		return "", "", false
	}
	var dotIdx int
	if tokens[i].Kind == syntax.TokenDot && tokens[i].Span.End == cursor {
		dotIdx = i
		prefix = ""
	} else if tokens[i].Kind == syntax.TokenIdentifier && within(tokens[i].Span, cursor) && i > 0 && tokens[i-1].Kind == syntax.TokenDot {
		dotIdx = i - 1
		prefix = source[tokens[i].Span.Start:cursor]
	} else {
		return "", "", false
	}
	if dotIdx == 0 {
		return "", "", false
	}
	prev := tokens[dotIdx-1]
	if prev.Kind != syntax.TokenIdentifier {
		return "", "", false
	}
	name := source[prev.Span.Start:prev.Span.End]
	if !isLikelyLambdaParam(source, tokens, dotIdx-1) {
		return "", "", false
	}
	return prefix, name, true
}

// isLikelyLambdaParam reports whether the identifier token at idx is a
// short (at most two characters) lowercase name typical of a lambda row
// parameter, a cheap heuristic in place of full scope tracking (no type
// information is available to disambiguate otherwise). The tokens
// around it are not inspected.
func isLikelyLambdaParam(source string, tokens []syntax.Token, idx int) bool {
	name := source[tokens[idx].Span.Start:tokens[idx].Span.End]
	return len(name) <= 2 && name != "" && name[0] >= 'a' && name[0] <= 'z'
}

// resolveFromTable scans the whole source for a from("table") literal,
// the single-table scope this package supports; joins and renamed
// aliases are out of scope for this heuristic.
func resolveFromTable(source string, tokens []syntax.Token, _ string) string {
	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i].Kind != syntax.TokenIdentifier || source[tokens[i].Span.Start:tokens[i].Span.End] != "from" {
			continue
		}
		if tokens[i+1].Kind != syntax.TokenLParen || tokens[i+2].Kind != syntax.TokenString {
			continue
		}
		lit := tokens[i+2]
		return source[lit.Span.Start+1 : lit.Span.End-1]
	}
	return ""
}

// isStringLike reports whether tok is a complete string literal, or an
// unterminated one still being typed at the cursor (the lexer reports
// the latter as TokenError, since it never saw a closing quote).
func isStringLike(tok syntax.Token) bool {
	return tok.Kind == syntax.TokenString || tok.Kind == syntax.TokenError
}

// within reports whether pos falls inside span, inclusive of both ends
// (internal/syntax.Span has no Overlaps method of its own).
func within(span syntax.Span, pos int) bool {
	return pos >= span.Start && pos <= span.End
}

func tokenBefore(tokens []syntax.Token, cursor int) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Span.Start < cursor {
			return i
		}
	}
	return -1
}
