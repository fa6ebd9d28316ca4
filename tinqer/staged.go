package tinqer

import "fmt"

// Staged mutation plan handles (spec.md §4.5) give callers who are
// assembling a mutation programmatically (not from one hand-written
// lambda literal) a compile-time-enforced call order:
// Insert/Update/Delete methods can only be chained in a sequence the Go
// type system accepts, mirroring (rather than reimplementing) the
// ordering `VisitInsert`/`VisitUpdate`/`VisitDelete` already enforce
// dynamically against a single composed lambda string. Each stage
// method takes a lambda-source fragment (the same grammar package
// visitor already parses for set()/values()/where()/returning()) and
// assembles the final source lazily, so the actual parse still goes
// through the one grammar the rest of this package understands.

// InsertBuilder is the entry stage of a staged insert.
type InsertBuilder struct{ table string }

// InsertInto begins a staged insertInto(table) builder.
func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Values supplies the row-of-values lambda, e.g. `v => ({name: p.name})`.
func (b *InsertBuilder) Values(valuesLambda string) *InsertWithValues {
	return &InsertWithValues{table: b.table, values: valuesLambda}
}

// InsertWithValues is an insert that has its values() clause.
type InsertWithValues struct {
	table  string
	values string
}

// Returning supplies a `.returning(...)` row-selector lambda.
func (s *InsertWithValues) Returning(returningLambda string) *InsertWithReturning {
	return &InsertWithReturning{InsertWithValues: *s, returning: returningLambda}
}

// Plan compiles the staged insert against schema.
func (s *InsertWithValues) Plan(schema *Schema) (*InsertPlan, error) {
	return DefineInsert(schema, fmt.Sprintf("(p) => insertInto(%q).values(%s)", s.table, s.values))
}

// InsertWithReturning is an insert that also has its returning() clause.
type InsertWithReturning struct {
	InsertWithValues
	returning string
}

// Plan compiles the staged insert against schema.
func (s *InsertWithReturning) Plan(schema *Schema) (*InsertPlan, error) {
	return DefineInsert(schema, fmt.Sprintf("(p) => insertInto(%q).values(%s).returning(%s)", s.table, s.values, s.returning))
}

// UpdateBuilder is the entry stage of a staged update.
type UpdateBuilder struct{ table string }

// Update begins a staged update(table) builder.
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set supplies the assignment lambda, e.g. `u => ({active: p.active})`.
func (b *UpdateBuilder) Set(setLambda string) *UpdateWithSet {
	return &UpdateWithSet{table: b.table, set: setLambda}
}

// UpdateWithSet is an update that has its set() clause but no predicate yet.
type UpdateWithSet struct {
	table string
	set   string
}

// Where supplies the row predicate lambda, e.g. `u => u.id === p.id`.
func (s *UpdateWithSet) Where(whereLambda string) *UpdateComplete {
	return &UpdateComplete{UpdateWithSet: *s, where: whereLambda}
}

// AllowFullTableUpdate explicitly opts into an update with no predicate,
// mirroring the safety gate ops.Update.AllowFullTableUpdate enforces.
func (s *UpdateWithSet) AllowFullTableUpdate() *UpdateComplete {
	return &UpdateComplete{UpdateWithSet: *s, allowFullTable: true}
}

// UpdateComplete is an update with either a where() predicate or an
// explicit AllowFullTableUpdate, ready to plan or extend with Returning.
type UpdateComplete struct {
	UpdateWithSet
	where          string
	allowFullTable bool
}

func (s *UpdateComplete) source(returning string) string {
	suffix := ""
	switch {
	case s.allowFullTable:
		suffix = ".allowFullTableUpdate()"
	default:
		suffix = ".where(" + s.where + ")"
	}
	if returning != "" {
		suffix += ".returning(" + returning + ")"
	}
	return fmt.Sprintf("(p) => update(%q).set(%s)%s", s.table, s.set, suffix)
}

// Returning supplies a `.returning(...)` row-selector lambda.
func (s *UpdateComplete) Returning(returningLambda string) *UpdateWithReturning {
	return &UpdateWithReturning{UpdateComplete: *s, returning: returningLambda}
}

// Plan compiles the staged update against schema.
func (s *UpdateComplete) Plan(schema *Schema) (*UpdatePlan, error) {
	return DefineUpdate(schema, s.source(""))
}

// UpdateWithReturning is an update that also has its returning() clause.
type UpdateWithReturning struct {
	UpdateComplete
	returning string
}

// Plan compiles the staged update against schema.
func (s *UpdateWithReturning) Plan(schema *Schema) (*UpdatePlan, error) {
	return DefineUpdate(schema, s.source(s.returning))
}

// DeleteBuilder is the entry stage of a staged delete.
type DeleteBuilder struct{ table string }

// DeleteFrom begins a staged deleteFrom(table) builder.
func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

// Where supplies the row predicate lambda.
func (b *DeleteBuilder) Where(whereLambda string) *DeleteComplete {
	return &DeleteComplete{table: b.table, where: whereLambda}
}

// AllowFullTableDelete explicitly opts into a delete with no predicate.
func (b *DeleteBuilder) AllowFullTableDelete() *DeleteComplete {
	return &DeleteComplete{table: b.table, allowFullTable: true}
}

// DeleteComplete is a delete with either a where() predicate or an
// explicit AllowFullTableDelete, ready to plan or extend with Returning.
type DeleteComplete struct {
	table          string
	where          string
	allowFullTable bool
}

func (s *DeleteComplete) source(returning string) string {
	suffix := ".allowFullTableDelete()"
	if !s.allowFullTable {
		suffix = ".where(" + s.where + ")"
	}
	if returning != "" {
		suffix += ".returning(" + returning + ")"
	}
	return fmt.Sprintf("(p) => deleteFrom(%q)%s", s.table, suffix)
}

// Returning supplies a `.returning(...)` row-selector lambda.
func (s *DeleteComplete) Returning(returningLambda string) *DeleteWithReturning {
	return &DeleteWithReturning{DeleteComplete: *s, returning: returningLambda}
}

// Plan compiles the staged delete against schema.
func (s *DeleteComplete) Plan(schema *Schema) (*DeletePlan, error) {
	return DefineDelete(schema, s.source(""))
}

// DeleteWithReturning is a delete that also has its returning() clause.
type DeleteWithReturning struct {
	DeleteComplete
	returning string
}

// Plan compiles the staged delete against schema.
func (s *DeleteWithReturning) Plan(schema *Schema) (*DeletePlan, error) {
	return DefineDelete(schema, s.source(s.returning))
}
