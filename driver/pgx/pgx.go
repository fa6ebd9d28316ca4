// Package pgx adapts a pgx connection pool to the driver.Queryer and
// driver.Execer interfaces, the Postgres half of spec.md §6.2's driver
// contract.
//
// Grounded on the teacher's go.mod dependency on github.com/jackc/pgx/v5,
// which the original CLI never wired to an actual connection; this
// package is where that dependency gets a concrete consumer.
package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tinqer-go/tinqer/driver"
)

// Wrap adapts pool to driver.Queryer and driver.Execer.
func Wrap(pool *pgxpool.Pool) *Adapter {
	return &Adapter{pool: pool}
}

// Adapter implements driver.Queryer and driver.Execer over a pgxpool.Pool.
type Adapter struct {
	pool *pgxpool.Pool
}

func (a *Adapter) Query(ctx context.Context, sql string, args ...any) (driver.Rows, error) {
	rows, err := a.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rowsAdapter{rows}, nil
}

func (a *Adapter) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := a.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type rowsAdapter struct {
	pgx.Rows
}

var (
	_ driver.Queryer = (*Adapter)(nil)
	_ driver.Execer  = (*Adapter)(nil)
	_ driver.Rows    = rowsAdapter{}
)
