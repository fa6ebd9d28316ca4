package driver

import (
	"context"

	"github.com/tinqer-go/tinqer/tinqer"
)

// ExecuteUpdate runs an update(...).set(...) plan, reading RETURNING
// rows back through q when the plan carries one, else exec-ing through e.
func ExecuteUpdate[T any](ctx context.Context, q Queryer, e Execer, plan *tinqer.UpdatePlan, res *tinqer.SqlResult, onSQL OnSQL, scan Scan[T]) ([]T, error) {
	return executeMutation(ctx, q, e, tinqer.PlanHasReturning(plan), res, onSQL, scan)
}

// ExecuteDelete runs a deleteFrom(...) plan, reading RETURNING rows back
// through q when the plan carries one, else exec-ing through e.
func ExecuteDelete[T any](ctx context.Context, q Queryer, e Execer, plan *tinqer.DeletePlan, res *tinqer.SqlResult, onSQL OnSQL, scan Scan[T]) ([]T, error) {
	return executeMutation(ctx, q, e, tinqer.PlanHasReturning(plan), res, onSQL, scan)
}

func executeMutation[T any](ctx context.Context, q Queryer, e Execer, hasReturning bool, res *tinqer.SqlResult, onSQL OnSQL, scan Scan[T]) ([]T, error) {
	notify(onSQL, res)
	if !hasReturning {
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
