package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/tinqer-go/tinqer/ops"
	"github.com/tinqer-go/tinqer/tinqer"
	"github.com/tinqer-go/tinqer/tinqerr"
)

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	for i, d := range dest {
		p := d.(*any)
		*p = row[i]
	}
	return nil
}

func (r *fakeRows) Close() {}
func (r *fakeRows) Err() error { return nil }

type fakeQueryer struct {
	rows [][]any
	err  error
}

func (q *fakeQueryer) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	return &fakeRows{data: q.rows}, nil
}

func scanOne(r Rows) (int, error) {
	var v any
	if err := r.Scan(&v); err != nil {
		return 0, err
	}
	n, _ := v.(int)
	return n, nil
}

func planWithKind(kind ops.TerminalKind) *tinqer.SelectPlan {
	return tinqer.NewTestSelectPlan(&ops.Terminal{Kind: kind, Source: &ops.From{Table: "items"}})
}

func TestExecuteSelectCardinality(t *testing.T) {
	tests := []struct {
		name    string
		kind    ops.TerminalKind
		rows    [][]any
		wantErr error
		wantLen int
	}{
		{"toArray empty ok", ops.ToArray, nil, nil, 0},
		{"first empty errors", ops.First, nil, tinqerr.ErrNoElements, 0},
		{"firstOrDefault empty ok", ops.FirstOrDefault, nil, nil, 0},
		{"first one ok", ops.First, [][]any{{1}}, nil, 1},
		{"single empty errors", ops.Single, nil, tinqerr.ErrNoElements, 0},
		{"single two errors", ops.Single, [][]any{{1}, {2}}, tinqerr.ErrMultipleElements, 0},
		{"singleOrDefault empty ok", ops.SingleOrDefault, nil, nil, 0},
		{"singleOrDefault two errors", ops.SingleOrDefault, [][]any{{1}, {2}}, tinqerr.ErrMultipleElements, 0},
		{"singleOrDefault one ok", ops.SingleOrDefault, [][]any{{1}}, nil, 1},
		{"last empty errors", ops.Last, nil, tinqerr.ErrNoElements, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planWithKind(tt.kind)
			q := &fakeQueryer{rows: tt.rows}
			res := &tinqer.SqlResult{SQL: "select 1", Params: nil}
			out, err := ExecuteSelect(context.Background(), q, plan, res, nil, scanOne)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out) != tt.wantLen {
				t.Fatalf("got %d rows, want %d", len(out), tt.wantLen)
			}
		})
	}
}

func TestExecuteSelectNotifiesOnSQL(t *testing.T) {
	plan := planWithKind(ops.ToArray)
	q := &fakeQueryer{}
	res := &tinqer.SqlResult{SQL: "select 1", Params: []any{7}}
	var gotSQL string
	var gotParams []any
	_, err := ExecuteSelect(context.Background(), q, plan, res, func(sql string, params []any) {
		gotSQL, gotParams = sql, params
	}, scanOne)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSQL != "select 1" || len(gotParams) != 1 || gotParams[0] != 7 {
		t.Fatalf("onSQL not invoked with expected args: %q %v", gotSQL, gotParams)
	}
}
