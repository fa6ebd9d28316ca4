// Package driver defines the thin boundary between a compiled
// [tinqer.SqlResult] and a concrete database client: the
// Queryer/Execer interfaces a caller's pool/connection must satisfy,
// an OnSQL observation hook for golden-test reproducibility (spec.md
// §6.2), and the row-cardinality bridge that turns a first/single/last
// terminal's observed row count into [tinqerr.ErrNoElements]/
// [tinqerr.ErrMultipleElements].
//
// Grounded on the teacher's cmd/pql/main.go, which treats "hand the
// compiled SQL to someone else" as the whole of its database story;
// this package is the concrete someone-else boundary spec.md names but
// the core compiler does not implement.
package driver

import (
	"context"

	"github.com/tinqer-go/tinqer/dialect"
	"github.com/tinqer-go/tinqer/ops"
	"github.com/tinqer-go/tinqer/tinqer"
	"github.com/tinqer-go/tinqer/tinqerr"
)

// Rows is the minimal row-iteration surface this package needs, shaped
// to be trivially satisfiable by *sql.Rows and pgx.Rows alike.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// Queryer runs a row-returning statement.
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Execer runs a statement that does not return rows directly (though a
// RETURNING clause may still be read back through Queryer by the caller
// when Returning() was used in the plan).
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (rowsAffected int64, err error)
}

// OnSQL observes the SQL text and bound arguments for a statement right
// before it executes, the hook spec.md §6.2 requires for golden-test
// reproducibility.
type OnSQL func(sql string, params []any)

func notify(onSQL OnSQL, res *tinqer.SqlResult) {
	if onSQL != nil {
		onSQL(res.SQL, res.Params)
	}
}

// terminalKind reports the terminal cardinality form of a select plan,
// used to decide whether zero/multiple observed rows is an error.
func terminalKind(p *tinqer.SelectPlan) (ops.TerminalKind, bool) {
	t, ok := tinqer.PlanOperation(p).(*ops.Terminal)
	if !ok {
		return 0, false
	}
	return t.Kind, true
}

// Scan decodes one row into a T.
type Scan[T any] func(Rows) (T, error)

// ExecuteSelect runs plan against q, decoding each row with scan and
// applying the first/single/last cardinality contract: a non-OrDefault
// cardinality form that observes zero rows returns
// [tinqerr.ErrNoElements]; single/singleOrDefault observing more than
// one row returns [tinqerr.ErrMultipleElements].
func ExecuteSelect[T any](ctx context.Context, q Queryer, plan *tinqer.SelectPlan, res *tinqer.SqlResult, onSQL OnSQL, scan Scan[T]) ([]T, error) {
	notify(onSQL, res)
	rows, err := q.Query(ctx, res.SQL, res.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	kind, known := terminalKind(plan)
	if !known {
		return out, nil
	}
	switch kind {
	case ops.First, ops.Single, ops.Last:
		if len(out) == 0 {
			return nil, tinqerr.ErrNoElements
		}
	}
	if (kind == ops.Single || kind == ops.SingleOrDefault) && len(out) > 1 {
		return nil, tinqerr.ErrMultipleElements
	}
	return out, nil
}

// ExecuteSelectSimple compiles plan for d with no runtime parameters
// and executes it, the parameterless convenience form spec.md §6.2
// names alongside the full ExecuteSelect.
func ExecuteSelectSimple[T any](ctx context.Context, q Queryer, plan *tinqer.SelectPlan, d dialect.Dialect, onSQL OnSQL, scan Scan[T]) ([]T, error) {
	res, err := tinqer.ToSql(plan, d, nil)
	if err != nil {
		return nil, err
	}
	return ExecuteSelect(ctx, q, plan, res, onSQL, scan)
}

// ExecuteInsert runs an insertInto(...).values(...) plan. When the plan
// has a returning() clause, rows are decoded with scan via q; otherwise
// e is used and an empty slice is returned.
func ExecuteInsert[T any](ctx context.Context, q Queryer, e Execer, plan *tinqer.InsertPlan, res *tinqer.SqlResult, onSQL OnSQL, scan Scan[T]) ([]T, error) {
	notify(onSQL, res)
	if !tinqer.PlanHasReturning(plan) {
		if _, err := e.Exec(ctx, res.SQL, res.Params...); err != nil {
			return nil, err
		}
		return nil, nil
	}
	rows, err := q.Query(ctx, res.SQL, res.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ExecuteUpdate and ExecuteDelete share the same shape as ExecuteInsert
// for RETURNING handling; they are defined in mutate.go to keep this
// file focused on the select path.
