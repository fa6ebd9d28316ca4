package tinqer

import (
	"strings"
	"testing"

	"github.com/tinqer-go/tinqer/dialect"
)

func TestDefineSelectJoin(t *testing.T) {
	ClearParseCache()
	plan, err := DefineSelect(NewSchema(nil),
		`(q, p) => q.from("users").join(q.from("orders"), u => u.id, o => o.userId, (u, o) => ({name: u.name, amount: o.amount}))`)
	if err != nil {
		t.Fatalf("DefineSelect error: %v", err)
	}
	res, err := ToSql(plan, dialect.Postgres, nil)
	if err != nil {
		t.Fatalf("ToSql error: %v", err)
	}
	if !strings.Contains(res.SQL, `JOIN "orders" AS "t1" ON "t0"."id" = "t1"."userId"`) {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
}

func TestDefineSelectGroupByWithAggregate(t *testing.T) {
	ClearParseCache()
	plan, err := DefineSelect(NewSchema(nil),
		`(q, p) => q.from("orders").groupBy(o => o.userId).select(g => ({userId: g.key, total: g.sum(o => o.amount)}))`)
	if err != nil {
		t.Fatalf("DefineSelect error: %v", err)
	}
	res, err := ToSql(plan, dialect.Postgres, nil)
	if err != nil {
		t.Fatalf("ToSql error: %v", err)
	}
	if !strings.Contains(res.SQL, "GROUP BY") || !strings.Contains(res.SQL, "SUM(") {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
}

func TestDefineSelectThenByWithoutOrderByErrors(t *testing.T) {
	ClearParseCache()
	_, err := DefineSelect(NewSchema(nil), `(q, p) => q.from("users").thenBy(u => u.name)`)
	if err == nil {
		t.Fatalf("expected an error for thenBy() with no preceding orderBy()")
	}
}

func TestDefineSelectOrderByThenBy(t *testing.T) {
	ClearParseCache()
	plan, err := DefineSelect(NewSchema(nil),
		`(q, p) => q.from("users").orderBy(u => u.name).thenByDescending(u => u.age)`)
	if err != nil {
		t.Fatalf("DefineSelect error: %v", err)
	}
	res, err := ToSql(plan, dialect.Postgres, nil)
	if err != nil {
		t.Fatalf("ToSql error: %v", err)
	}
	if !strings.Contains(res.SQL, `ORDER BY "name" ASC, "age" DESC`) {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
}

func TestDefineSelectContainsPredicateCompilesToLike(t *testing.T) {
	ClearParseCache()
	plan, err := DefineSelect(NewSchema(nil), `(q, p) => q.from("users").where(u => u.name.contains(p.needle))`)
	if err != nil {
		t.Fatalf("DefineSelect error: %v", err)
	}
	res, err := ToSql(plan, dialect.Postgres, map[string]any{"needle": "abc"})
	if err != nil {
		t.Fatalf("ToSql error: %v", err)
	}
	if !strings.Contains(res.SQL, `"name" LIKE ('%' || $1 || '%')`) {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
	if len(res.Params) != 1 || res.Params[0] != "abc" {
		t.Fatalf("unexpected params: %v", res.Params)
	}
}

func TestDefineUpdateWithoutPredicateOrAllowErrors(t *testing.T) {
	ClearParseCache()
	_, err := DefineUpdate(NewSchema(nil), `(p) => update("users").set(u => ({active: p.active}))`)
	if err == nil {
		t.Fatalf("expected an error for update() with neither where() nor allowFullTableUpdate()")
	}
}

func TestDefineDeleteWithoutPredicateOrAllowErrors(t *testing.T) {
	ClearParseCache()
	_, err := DefineDelete(NewSchema(nil), `(p) => deleteFrom("users")`)
	if err == nil {
		t.Fatalf("expected an error for deleteFrom() with neither where() nor allowFullTableDelete()")
	}
}
