// Package dialect isolates the small set of syntactic differences between
// target SQL engines that package emit needs to know about: identifier
// quoting, placeholder syntax, LIMIT/OFFSET spelling (including the
// offset-without-limit sentinel SQLite and MySQL require), and boolean
// literal rendering.
//
// Grounded on the teacher's pql.go, whose Dialect-like behavior
// (quoteIdentifier, ClickHouse-specific LIMIT handling) is scattered
// inline; here it is pulled into one small interface per spec.md §6.3 so
// package emit stays dialect-agnostic.
package dialect

import (
	"strconv"
	"strings"
)

// Dialect captures one target SQL engine's rendering rules.
type Dialect interface {
	// Name identifies the dialect for error messages and cache keys.
	Name() string
	// QuoteIdentifier quotes a table, alias, or column name.
	QuoteIdentifier(name string) string
	// Placeholder renders the n'th (1-based) bind parameter placeholder.
	Placeholder(n int) string
	// LimitOffset renders a LIMIT/OFFSET clause. Either arg may be empty
	// to mean "not specified"; limit is empty and offset non-empty only
	// when a bare skip() with no take() was compiled, which some engines
	// require a sentinel LIMIT value to express.
	LimitOffset(limit, offset string) string
	// BooleanLiteral renders a literal true/false value.
	BooleanLiteral(v bool) string
	// Concat renders a string concatenation of the given already-rendered
	// SQL fragments (column refs, placeholders, or quoted literals).
	Concat(parts []string) string
}

// Postgres targets PostgreSQL and PostgreSQL-wire-compatible engines.
var Postgres Dialect = postgres{}

// SQLite targets SQLite.
var SQLite Dialect = sqlite{}

// MySQL targets MySQL/MariaDB.
var MySQL Dialect = mysql{}

type postgres struct{}

func (postgres) Name() string                    { return "postgres" }
func (postgres) QuoteIdentifier(name string) string { return quoteDouble(name) }
func (postgres) Placeholder(n int) string         { return "$" + strconv.Itoa(n) }
func (postgres) BooleanLiteral(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
func (postgres) LimitOffset(limit, offset string) string {
	if limit == "" && offset != "" {
		// Unlike SQLite/MySQL, Postgres accepts a bare OFFSET with no
		// LIMIT at all, so it needs no unbounded-limit sentinel.
		return "OFFSET " + offset
	}
	return renderLimitOffset(limit, offset, "")
}
func (postgres) Concat(parts []string) string { return concatPipes(parts) }

type sqlite struct{}

func (sqlite) Name() string                    { return "sqlite" }
func (sqlite) QuoteIdentifier(name string) string { return quoteDouble(name) }
func (sqlite) Placeholder(int) string          { return "?" }
func (sqlite) BooleanLiteral(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
func (sqlite) LimitOffset(limit, offset string) string {
	// SQLite requires an explicit LIMIT to use OFFSET; -1 means unbounded.
	return renderLimitOffset(limit, offset, "-1")
}
func (sqlite) Concat(parts []string) string { return concatPipes(parts) }

type mysql struct{}

func (mysql) Name() string                    { return "mysql" }
func (mysql) QuoteIdentifier(name string) string { return quoteBacktick(name) }
func (mysql) Placeholder(int) string          { return "?" }
func (mysql) BooleanLiteral(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
func (mysql) LimitOffset(limit, offset string) string {
	// MySQL rejects a negative LIMIT; its own unbounded sentinel is the
	// largest unsigned BIGINT.
	return renderLimitOffset(limit, offset, "18446744073709551615")
}

// MySQL has no `||` string concatenation operator (by default it's a
// logical OR alias); CONCAT(...) is the portable form.
func (mysql) Concat(parts []string) string {
	return "CONCAT(" + strings.Join(parts, ", ") + ")"
}

// concatPipes renders the standard-SQL `a || b || c` concatenation used
// by Postgres and SQLite.
func concatPipes(parts []string) string {
	return "(" + strings.Join(parts, " || ") + ")"
}

func renderLimitOffset(limit, offset, unboundedSentinel string) string {
	switch {
	case limit == "" && offset == "":
		return ""
	case limit == "" && offset != "":
		return "LIMIT " + unboundedSentinel + " OFFSET " + offset
	case limit != "" && offset == "":
		return "LIMIT " + limit
	default:
		return "LIMIT " + limit + " OFFSET " + offset
	}
}

func quoteDouble(name string) string {
	return `"` + escapeQuote(name, '"') + `"`
}

func quoteBacktick(name string) string {
	return "`" + escapeQuote(name, '`') + "`"
}

func escapeQuote(name string, q byte) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		out = append(out, c)
		if c == q {
			out = append(out, c)
		}
	}
	return string(out)
}

// ByName looks up a built-in dialect by its Name(). ok is false for an
// unrecognized name.
func ByName(name string) (Dialect, bool) {
	switch name {
	case "postgres":
		return Postgres, true
	case "sqlite":
		return SQLite, true
	case "mysql":
		return MySQL, true
	}
	return nil, false
}
