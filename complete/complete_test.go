package complete

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tinqer-go/tinqer/tinqer"
)

func labels(cs []*Completion) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Label
	}
	return out
}

func TestSuggestTableNames(t *testing.T) {
	schema := tinqer.NewSchema(map[string][]string{
		"users":  {"id", "name"},
		"orders": {"id", "userId"},
	})
	src := `(q, p) => q.from("us")`
	cursor := len(`(q, p) => q.from("us`)
	got := labels(Suggest(schema, src, cursor))
	want := []string{"users"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Suggest() mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestColumnNames(t *testing.T) {
	schema := tinqer.NewSchema(map[string][]string{
		"users": {"id", "name", "nickname"},
	})
	src := `(q, p) => q.from("users").where(u => u.n)`
	cursor := len(`(q, p) => q.from("users").where(u => u.n`)
	got := labels(Suggest(schema, src, cursor))
	want := []string{"name", "nickname"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Suggest() mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestMethodNames(t *testing.T) {
	schema := tinqer.NewSchema(map[string][]string{"users": {"id"}})
	src := `(q, p) => q.from("users").wh`
	cursor := len(`(q, p) => q.from("users").wh`)
	got := labels(Suggest(schema, src, cursor))
	found := false
	for _, l := range got {
		if l == "where" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggest() = %v, want to include %q", got, "where")
	}
}
