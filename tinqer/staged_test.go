package tinqer

import (
	"strings"
	"testing"

	"github.com/tinqer-go/tinqer/dialect"
)

func TestStagedInsertPlan(t *testing.T) {
	plan, err := InsertInto("users").
		Values(`v => ({name: p.name, age: p.age})`).
		Plan(NewSchema(nil))
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	res, err := ToSql(plan, dialect.Postgres, map[string]any{"name": "Ada", "age": 30})
	if err != nil {
		t.Fatalf("ToSql() error: %v", err)
	}
	if !strings.Contains(res.SQL, "INSERT INTO") || !strings.Contains(res.SQL, `"users"`) {
		t.Errorf("unexpected SQL: %s", res.SQL)
	}
}

func TestStagedUpdateRequiresWhereOrAllow(t *testing.T) {
	plan, err := Update("users").
		Set(`u => ({active: p.active})`).
		AllowFullTableUpdate().
		Plan(NewSchema(nil))
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	res, err := ToSql(plan, dialect.Postgres, map[string]any{"active": true})
	if err != nil {
		t.Fatalf("ToSql() error: %v", err)
	}
	if !strings.Contains(res.SQL, "UPDATE") {
		t.Errorf("unexpected SQL: %s", res.SQL)
	}
}

func TestStagedDeleteWithReturning(t *testing.T) {
	plan, err := DeleteFrom("users").
		Where(`u => u.id === p.id`).
		Returning(`u => ({id: u.id})`).
		Plan(NewSchema(nil))
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	res, err := ToSql(plan, dialect.Postgres, map[string]any{"id": 7})
	if err != nil {
		t.Fatalf("ToSql() error: %v", err)
	}
	if !strings.Contains(res.SQL, "RETURNING") {
		t.Errorf("unexpected SQL: %s", res.SQL)
	}
}
