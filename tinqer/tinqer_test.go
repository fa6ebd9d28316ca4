package tinqer

import (
	"strings"
	"testing"

	"github.com/tinqer-go/tinqer/dialect"
	"github.com/tinqer-go/tinqer/plancache"
)

func TestDefineSelectToSqlBasic(t *testing.T) {
	ClearParseCache()
	plan, err := DefineSelect(NewSchema(nil), `(q, p) => q.from("users").where(u => u.age > p.minAge)`)
	if err != nil {
		t.Fatalf("DefineSelect error: %v", err)
	}
	res, err := ToSql(plan, dialect.Postgres, map[string]any{"minAge": 21})
	if err != nil {
		t.Fatalf("ToSql error: %v", err)
	}
	if !strings.Contains(res.SQL, "SELECT") || !strings.Contains(res.SQL, `"users"`) || !strings.Contains(res.SQL, "WHERE") {
		t.Fatalf("unexpected SQL: %s", res.SQL)
	}
	if len(res.Params) != 1 || res.Params[0] != 21 {
		t.Fatalf("unexpected params: %v", res.Params)
	}
}

func TestToSqlMergesAutoParamsWithRuntimeParams(t *testing.T) {
	ClearParseCache()
	// The literal 18 becomes a float64 auto-param; maxAge comes from runtimeParams.
	plan, err := DefineSelect(NewSchema(nil), `(q, p) => q.from("users").where(u => u.age > 18 && u.age < p.maxAge)`)
	if err != nil {
		t.Fatalf("DefineSelect error: %v", err)
	}
	res, err := ToSql(plan, dialect.Postgres, map[string]any{"maxAge": 65})
	if err != nil {
		t.Fatalf("ToSql error: %v", err)
	}
	if len(res.Params) != 2 {
		t.Fatalf("expected 2 params, got %v", res.Params)
	}
	foundAuto, foundRuntime := false, false
	for _, p := range res.Params {
		if p == float64(18) {
			foundAuto = true
		}
		if p == 65 {
			foundRuntime = true
		}
	}
	if !foundAuto || !foundRuntime {
		t.Fatalf("expected both auto and runtime params present, got %v", res.Params)
	}
}

func TestToSqlMissingRuntimeParamErrors(t *testing.T) {
	ClearParseCache()
	plan, err := DefineSelect(NewSchema(nil), `(q, p) => q.from("users").where(u => u.age > p.minAge)`)
	if err != nil {
		t.Fatalf("DefineSelect error: %v", err)
	}
	if _, err := ToSql(plan, dialect.Postgres, nil); err == nil {
		t.Fatalf("expected error for missing runtime parameter")
	}
}

func TestToSqlUsesParseCache(t *testing.T) {
	ClearParseCache()
	source := `(q, p) => q.from("users").where(u => u.age > p.minAge)`
	plan, err := DefineSelect(NewSchema(nil), source)
	if err != nil {
		t.Fatalf("DefineSelect error: %v", err)
	}
	if _, err := ToSql(plan, dialect.Postgres, map[string]any{"minAge": 1}); err != nil {
		t.Fatalf("ToSql error: %v", err)
	}
	if got := ParseCacheLen(); got != 1 {
		t.Fatalf("ParseCacheLen() = %d, want 1 after one compile", got)
	}
	if _, err := ToSql(plan, dialect.Postgres, map[string]any{"minAge": 2}); err != nil {
		t.Fatalf("second ToSql error: %v", err)
	}
	if got := ParseCacheLen(); got != 1 {
		t.Fatalf("ParseCacheLen() = %d, want still 1 on cache hit", got)
	}

	if _, err := ToSql(plan, dialect.SQLite, map[string]any{"minAge": 1}); err != nil {
		t.Fatalf("ToSql for sqlite error: %v", err)
	}
	if got := ParseCacheLen(); got != 2 {
		t.Fatalf("ParseCacheLen() = %d, want 2 after compiling a second dialect", got)
	}
}

func TestToSqlWithoutCacheBypassesCache(t *testing.T) {
	ClearParseCache()
	plan, err := DefineSelect(NewSchema(nil), `(q, p) => q.from("users")`)
	if err != nil {
		t.Fatalf("DefineSelect error: %v", err)
	}
	if _, err := ToSql(plan, dialect.Postgres, nil, WithoutCache); err != nil {
		t.Fatalf("ToSql error: %v", err)
	}
	if got := ParseCacheLen(); got != 0 {
		t.Fatalf("ParseCacheLen() = %d, want 0 when caching disabled", got)
	}
}

func TestSetParseCacheConfigShrinksCache(t *testing.T) {
	ClearParseCache()
	SetParseCacheConfig(plancache.DefaultConfig)
	defer SetParseCacheConfig(plancache.DefaultConfig)

	for _, table := range []string{"a", "b", "c"} {
		plan, err := DefineSelect(NewSchema(nil), `(q, p) => q.from("`+table+`")`)
		if err != nil {
			t.Fatalf("DefineSelect error: %v", err)
		}
		if _, err := ToSql(plan, dialect.Postgres, nil); err != nil {
			t.Fatalf("ToSql error: %v", err)
		}
	}
	if got := ParseCacheLen(); got != 3 {
		t.Fatalf("ParseCacheLen() = %d, want 3", got)
	}
}

func TestDefineInsertUpdateDeleteCompile(t *testing.T) {
	ClearParseCache()

	insertPlan, err := DefineInsert(NewSchema(nil), `(p) => insertInto("users").values(v => ({name: p.name}))`)
	if err != nil {
		t.Fatalf("DefineInsert error: %v", err)
	}
	res, err := ToSql(insertPlan, dialect.Postgres, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("ToSql(insert) error: %v", err)
	}
	if !strings.Contains(res.SQL, "INSERT INTO") {
		t.Fatalf("unexpected insert SQL: %s", res.SQL)
	}

	updatePlan, err := DefineUpdate(NewSchema(nil), `(p) => update("users").set(u => ({active: p.active})).where(u => u.id === p.id)`)
	if err != nil {
		t.Fatalf("DefineUpdate error: %v", err)
	}
	res, err = ToSql(updatePlan, dialect.Postgres, map[string]any{"active": true, "id": 1})
	if err != nil {
		t.Fatalf("ToSql(update) error: %v", err)
	}
	if !strings.Contains(res.SQL, "UPDATE") {
		t.Fatalf("unexpected update SQL: %s", res.SQL)
	}

	deletePlan, err := DefineDelete(NewSchema(nil), `(p) => deleteFrom("users").where(u => u.id === p.id)`)
	if err != nil {
		t.Fatalf("DefineDelete error: %v", err)
	}
	res, err = ToSql(deletePlan, dialect.Postgres, map[string]any{"id": 1})
	if err != nil {
		t.Fatalf("ToSql(delete) error: %v", err)
	}
	if !strings.Contains(res.SQL, "DELETE FROM") {
		t.Fatalf("unexpected delete SQL: %s", res.SQL)
	}
}
