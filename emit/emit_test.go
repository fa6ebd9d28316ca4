package emit

import (
	"strings"
	"testing"

	"github.com/tinqer-go/tinqer/dialect"
	"github.com/tinqer-go/tinqer/expr"
	"github.com/tinqer-go/tinqer/ops"
)

func directColumn(name string) *expr.Column {
	return &expr.Column{Name: name, Source: expr.ColumnSource{Kind: expr.SourceDirect}}
}

func TestSelectFromStar(t *testing.T) {
	res, err := Select(&ops.From{Table: "users"}, dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if res.SQL != `SELECT * FROM "users"` {
		t.Fatalf("SQL = %q", res.SQL)
	}
}

func TestSelectWhereComparison(t *testing.T) {
	op := &ops.Where{
		Source: &ops.From{Table: "users"},
		Predicate: &expr.Comparison{
			Op:    expr.Gt,
			Left:  directColumn("age"),
			Right: &expr.Param{Name: "minAge"},
		},
	}
	res, err := Select(op, dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.Contains(res.SQL, `WHERE "age" > $1`) {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
	if len(res.Params) != 1 || res.Params[0].Name != "minAge" {
		t.Fatalf("unexpected params: %+v", res.Params)
	}
}

func TestTerminalFirstLimitsOne(t *testing.T) {
	op := &ops.Terminal{Source: &ops.From{Table: "users"}, Kind: ops.First}
	res, err := Select(op, dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.HasSuffix(res.SQL, "LIMIT 1") {
		t.Fatalf("expected LIMIT 1, got %s", res.SQL)
	}
}

func TestTerminalSingleLimitsTwo(t *testing.T) {
	op := &ops.Terminal{Source: &ops.From{Table: "users"}, Kind: ops.Single}
	res, err := Select(op, dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.HasSuffix(res.SQL, "LIMIT 2") {
		t.Fatalf("expected LIMIT 2, got %s", res.SQL)
	}
}

func TestTerminalLastWithNoOrderByGetsDeterministicFallback(t *testing.T) {
	op := &ops.Terminal{Source: &ops.From{Table: "users"}, Kind: ops.Last}
	res, err := Select(op, dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.Contains(res.SQL, "ORDER BY 1 DESC") || !strings.HasSuffix(res.SQL, "LIMIT 1") {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
}

func TestTerminalLastReversesExistingOrderBy(t *testing.T) {
	op := &ops.Terminal{
		Source: &ops.OrderBy{Source: &ops.From{Table: "users"}, KeySelector: directColumn("name")},
		Kind:   ops.Last,
	}
	res, err := Select(op, dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.Contains(res.SQL, `ORDER BY "name" DESC`) {
		t.Fatalf("expected reversed ORDER BY, got %s", res.SQL)
	}
}

func TestTerminalAnyCompilesToExistsCase(t *testing.T) {
	op := &ops.Terminal{Source: &ops.From{Table: "users"}, Kind: ops.Any}
	res, err := Select(op, dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.HasPrefix(res.SQL, "SELECT CASE WHEN EXISTS(") || !strings.HasSuffix(res.SQL, "THEN 1 ELSE 0 END") {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
}

func TestTerminalAllCompilesToNotExistsCase(t *testing.T) {
	op := &ops.Terminal{
		Source:    &ops.From{Table: "users"},
		Kind:      ops.All,
		Predicate: &expr.BooleanColumn{Name: "active", Source: expr.ColumnSource{Kind: expr.SourceDirect}},
	}
	res, err := Select(op, dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.Contains(res.SQL, "NOT EXISTS(") {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
}

func TestBooleanMethodContainsRendersLikeWrap(t *testing.T) {
	op := &ops.Where{
		Source: &ops.From{Table: "users"},
		Predicate: &expr.BooleanMethod{
			Object: directColumn("name"),
			Method: expr.Contains,
			Arg:    &expr.Param{Name: "needle"},
		},
	}
	res, err := Select(op, dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.Contains(res.SQL, `"name" LIKE ('%' || $1 || '%')`) {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
}

func TestBooleanMethodContainsUsesMySQLConcat(t *testing.T) {
	op := &ops.Where{
		Source: &ops.From{Table: "users"},
		Predicate: &expr.BooleanMethod{
			Object: directColumn("name"),
			Method: expr.Contains,
			Arg:    &expr.Param{Name: "needle"},
		},
	}
	res, err := Select(op, dialect.MySQL)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.Contains(res.SQL, "`name` LIKE CONCAT('%', ?, '%')") {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
}

func TestSelectDistinctRendersKeyword(t *testing.T) {
	op := &ops.Distinct{Source: &ops.From{Table: "users"}}
	res, err := Select(op, dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.Contains(res.SQL, "SELECT DISTINCT *") {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
}

func TestSelectTakeSkipRendersLimitOffset(t *testing.T) {
	op := &ops.Skip{
		Source: &ops.Take{Source: &ops.From{Table: "users"}, Count: &expr.Param{Name: "__p1"}},
		Count:  &expr.Param{Name: "__p2"},
	}
	res, err := Select(op, dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.HasSuffix(res.SQL, "LIMIT $1 OFFSET $2") {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
}

func windowFilterOp() ops.Operation {
	sel := &ops.Select{
		Source: &ops.From{Table: "events"},
		Object: &expr.ObjectExpr{Fields: []expr.ObjectField{
			{Name: "id", Value: directColumn("id")},
			{Name: "rn", Value: &expr.Window{
				PartitionBy: []expr.ValueExpr{directColumn("userId")},
				Func:        expr.RowNumber,
			}},
		}},
	}
	return &ops.Where{
		Source: sel,
		Predicate: &expr.Comparison{
			Op:    expr.Eq,
			Left:  directColumn("rn"),
			Right: &expr.Constant{Kind: expr.ConstNumber, Value: 1},
		},
	}
}

func TestSelectWindowFilterWrapsInSubquery(t *testing.T) {
	res, err := Select(windowFilterOp(), dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.Contains(res.SQL, `ROW_NUMBER() OVER (PARTITION BY "userId")`) {
		t.Fatalf("expected window function in subquery, got: %s", res.SQL)
	}
	if !strings.Contains(res.SQL, `FROM (SELECT`) || !strings.Contains(res.SQL, `WHERE "rn" = 1`) {
		t.Fatalf("expected outer query to wrap and filter on the local alias, got: %s", res.SQL)
	}
}

func TestSelectWindowFilterIsByteStableAcrossCalls(t *testing.T) {
	// Compiling the same tree repeatedly (as happens on a WithoutCache
	// call path) must produce identical SQL text each time: the
	// wrap-subquery alias counter is scoped per call, not a shared
	// package global that would tick upward across compiles.
	first, err := Select(windowFilterOp(), dialect.Postgres)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Select(windowFilterOp(), dialect.Postgres)
		if err != nil {
			t.Fatalf("Select error: %v", err)
		}
		if again.SQL != first.SQL {
			t.Fatalf("SQL not byte-stable: call 1 = %q, call %d = %q", first.SQL, i+2, again.SQL)
		}
	}
}

func TestSelectObjectProjectionAliasesFields(t *testing.T) {
	op := &ops.Select{
		Source: &ops.From{Table: "users"},
		Object: &expr.ObjectExpr{Fields: []expr.ObjectField{
			{Name: "id", Value: directColumn("id")},
			{Name: "fullName", Value: directColumn("name")},
		}},
	}
	res, err := Select(op, dialect.SQLite)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !strings.Contains(res.SQL, `"name" AS "fullName"`) {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
}
