// Package sqlite adapts a database/sql *sql.DB backed by
// modernc.org/sqlite to the driver.Queryer and driver.Execer
// interfaces, the SQLite half of spec.md §6.2's driver contract.
//
// Grounded on the teacher's go.mod dependency on modernc.org/sqlite,
// a pure-Go driver registered under the "sqlite" database/sql name.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/tinqer-go/tinqer/driver"
)

// Open opens db at path (a filesystem path, or ":memory:") using the
// modernc.org/sqlite driver.
func Open(path string) (*Adapter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &Adapter{db: db}, nil
}

// Wrap adapts an already-open *sql.DB.
func Wrap(db *sql.DB) *Adapter {
	return &Adapter{db: db}
}

// Adapter implements driver.Queryer and driver.Execer over a *sql.DB.
type Adapter struct {
	db *sql.DB
}

func (a *Adapter) DB() *sql.DB { return a.db }

func (a *Adapter) Close() error { return a.db.Close() }

func (a *Adapter) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rowsAdapter{rows}, nil
}

func (a *Adapter) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowsAdapter struct {
	*sql.Rows
}

func (r rowsAdapter) Close() { _ = r.Rows.Close() }

var (
	_ driver.Queryer = (*Adapter)(nil)
	_ driver.Execer  = (*Adapter)(nil)
	_ driver.Rows    = rowsAdapter{}
)
