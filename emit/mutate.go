package emit

import (
	"errors"
	"strings"

	"github.com/tinqer-go/tinqer/dialect"
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/ops"
	"github.com/tinqer-go/tinqer/tinqerr"
)

var (
	errMissingUpdatePredicate = errors.New("update() requires a where() predicate or allowFullTableUpdate()")
	errMissingDeletePredicate = errors.New("deleteFrom() requires a where() predicate or allowFullTableDelete()")
)

// Insert compiles an insertInto(...).values(...) statement.
func Insert(n *ops.Insert, d dialect.Dialect) (*Result, error) {
	e := &emitter{d: d}
	b := newBuilder(d)

	cols := make([]string, len(n.Values.Fields))
	vals := make([]string, len(n.Values.Fields))
	for i, f := range n.Values.Fields {
		cols[i] = d.QuoteIdentifier(f.Name)
		vals[i] = e.renderValue(b, f.Value)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(d.QuoteIdentifier(n.Table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(vals, ", "))
	sb.WriteString(")")
	appendReturning(&sb, e, b, d, n.Returning)
	return &Result{SQL: sb.String(), Params: b.allParams()}, nil
}

// Update compiles an update(...).set(...) statement.
func Update(n *ops.Update, d dialect.Dialect) (*Result, error) {
	if n.Predicate == nil && !n.AllowFullTableUpdate {
		return nil, &tinqerr.EmitError{Err: errMissingUpdatePredicate}
	}
	e := &emitter{d: d}
	b := newBuilder(d)

	assigns := make([]string, len(n.Assignments.Fields))
	for i, f := range n.Assignments.Fields {
		assigns[i] = d.QuoteIdentifier(f.Name) + " = " + e.renderValue(b, f.Value)
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(d.QuoteIdentifier(n.Table))
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(assigns, ", "))
	if n.Predicate != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(e.renderBool(b, n.Predicate))
	}
	appendReturning(&sb, e, b, d, n.Returning)
	return &Result{SQL: sb.String(), Params: b.allParams()}, nil
}

// Delete compiles a deleteFrom(...) statement.
func Delete(n *ops.Delete, d dialect.Dialect) (*Result, error) {
	if n.Predicate == nil && !n.AllowFullTableDelete {
		return nil, &tinqerr.EmitError{Err: errMissingDeletePredicate}
	}
	e := &emitter{d: d}
	b := newBuilder(d)

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(d.QuoteIdentifier(n.Table))
	if n.Predicate != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(e.renderBool(b, n.Predicate))
	}
	appendReturning(&sb, e, b, d, n.Returning)
	return &Result{SQL: sb.String(), Params: b.allParams()}, nil
}

func appendReturning(sb *strings.Builder, e *emitter, b *builder, d dialect.Dialect, returning *expr.ObjectExpr) {
	if returning == nil {
		return
	}
	cols := make([]string, len(returning.Fields))
	for i, f := range returning.Fields {
		val := e.renderValue(b, f.Value)
		if f.Name == "" {
			cols[i] = val
			continue
		}
		cols[i] = val + " AS " + d.QuoteIdentifier(f.Name)
	}
	sb.WriteString(" RETURNING ")
	sb.WriteString(strings.Join(cols, ", "))
}
