package shape

import "testing"

func TestObjectShapeSetPreservesOrder(t *testing.T) {
	o := NewObjectShape()
	o.Set("id", &ColumnShape{ColumnName: "id", SourceTable: "users"})
	o.Set("name", &ColumnShape{ColumnName: "name", SourceTable: "users"})
	o.Set("id", &ColumnShape{ColumnName: "user_id", SourceTable: "users"})

	if want := []string{"id", "name"}; !equalStrings(o.Order, want) {
		t.Fatalf("Order = %v, want %v", o.Order, want)
	}
	got, ok := o.Get("id")
	if !ok {
		t.Fatalf("Get(id) missing")
	}
	if cs, ok := got.(*ColumnShape); !ok || cs.ColumnName != "user_id" {
		t.Fatalf("re-Set(id) did not overwrite: %+v", got)
	}
}

func TestResolveObjectShape(t *testing.T) {
	o := NewObjectShape()
	o.Set("name", &ColumnShape{ColumnName: "name", SourceTable: "users"})

	got, ok := Resolve(o, []string{"name"})
	if !ok {
		t.Fatalf("Resolve(name) failed")
	}
	cs, ok := got.(*ColumnShape)
	if !ok || cs.ColumnName != "name" || cs.SourceTable != "users" {
		t.Fatalf("Resolve(name) = %+v", got)
	}

	if _, ok := Resolve(o, []string{"missing"}); ok {
		t.Fatalf("expected missing field to fail to resolve")
	}
}

func TestResolveReferenceShape(t *testing.T) {
	ref := &ReferenceShape{SourceTable: "users"}

	got, ok := Resolve(ref, []string{"u"})
	if !ok {
		t.Fatalf("Resolve single-segment path on ReferenceShape failed")
	}
	if got != Shape(ref) {
		t.Fatalf("Resolve single-segment path should return the ReferenceShape itself")
	}

	got, ok = Resolve(ref, []string{"u", "name"})
	if !ok {
		t.Fatalf("Resolve(u.name) through ReferenceShape failed")
	}
	cs, ok := got.(*ColumnShape)
	if !ok || cs.ColumnName != "name" || cs.SourceTable != "users" {
		t.Fatalf("Resolve(u.name) = %+v", got)
	}

	if _, ok := Resolve(ref, []string{"u", "name", "extra"}); ok {
		t.Fatalf("expected path deeper than column to fail")
	}
}

func TestResolveSpreadShapePrefersExtra(t *testing.T) {
	base := NewObjectShape()
	base.Set("id", &ColumnShape{ColumnName: "id", SourceTable: "users"})
	extra := NewObjectShape()
	extra.Set("rn", &ComputedShape{Name: "rn"})

	spread := &SpreadShape{Base: base, Extra: extra}

	got, ok := Resolve(spread, []string{"rn"})
	if !ok {
		t.Fatalf("Resolve(rn) via Extra failed")
	}
	if _, ok := got.(*ComputedShape); !ok {
		t.Fatalf("Resolve(rn) = %+v, want *ComputedShape", got)
	}

	got, ok = Resolve(spread, []string{"id"})
	if !ok {
		t.Fatalf("Resolve(id) falling back to Base failed")
	}
	cs, ok := got.(*ColumnShape)
	if !ok || cs.ColumnName != "id" {
		t.Fatalf("Resolve(id) = %+v", got)
	}
}

func TestResolveColumnShapeTerminal(t *testing.T) {
	cs := &ColumnShape{ColumnName: "id", SourceTable: "users"}
	if _, ok := Resolve(cs, []string{"nested"}); ok {
		t.Fatalf("expected resolving further into a ColumnShape to fail")
	}
	got, ok := Resolve(cs, nil)
	if !ok || got != Shape(cs) {
		t.Fatalf("Resolve with empty path should return the shape itself")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
