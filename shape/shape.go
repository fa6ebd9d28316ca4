// Package shape describes the compile-time field-to-source mapping of a
// projected record produced by a select or join result selector.
// Downstream visitors consult a [Shape] to resolve member paths like
// "joined.u.name" into a concrete column reference.
package shape

// Shape is implemented by every node in a projection's field→source tree.
type Shape interface {
	shape()
}

// ColumnShape is a leaf that references a single column of a base table.
type ColumnShape struct {
	ColumnName  string
	SourceTable string
}

func (*ColumnShape) shape() {}

// ReferenceShape is a leaf that references an entire table alias, created
// by selectors like "(u,d)=>({u,d})" that carry a whole row forward.
type ReferenceShape struct {
	SourceTable string
}

func (*ReferenceShape) shape() {}

// ObjectShape is a nested record shape. Properties preserves insertion
// order, mirroring the selector's field order.
type ObjectShape struct {
	Order      []string
	Properties map[string]Shape
}

func (*ObjectShape) shape() {}

// ComputedShape is a leaf for a projected field whose value is something
// other than a plain column or whole-row passthrough (arithmetic, a
// string method, an aggregate, a window function, ...). A later operator
// referencing it addresses it as a bare output column name: the emitter
// is responsible for wrapping the projection that produced it in a
// subquery whenever a downstream operator actually references the field,
// since SQL cannot reference a SELECT list's own computed alias in the
// same statement's WHERE/ORDER BY.
type ComputedShape struct {
	Name string
}

func (*ComputedShape) shape() {}

// SpreadShape models a projection built from an object spread plus
// additional fields (`{...base, extra: f()}`): a member path resolves
// against Extra first, falling back to Base when the field wasn't
// explicitly re-declared. This lets an "extend" projection (spec.md's
// spread-and-add-fields pattern) be chained against without knowing the
// spread source's full column list up front.
type SpreadShape struct {
	Base  Shape
	Extra *ObjectShape
}

func (*SpreadShape) shape() {}

// NewObjectShape returns an empty, ready-to-populate ObjectShape.
func NewObjectShape() *ObjectShape {
	return &ObjectShape{Properties: make(map[string]Shape)}
}

// Set adds or replaces a named field, preserving first-seen order.
func (o *ObjectShape) Set(name string, s Shape) {
	if _, exists := o.Properties[name]; !exists {
		o.Order = append(o.Order, name)
	}
	o.Properties[name] = s
}

// Get looks up a named field.
func (o *ObjectShape) Get(name string) (Shape, bool) {
	s, ok := o.Properties[name]
	return s, ok
}

// Resolve walks a dotted member path (e.g. ["u", "name"]) through a shape
// tree, returning the leaf shape and table alias it ultimately resolves
// to, or false if the path doesn't exist.
//
// A path may terminate early on a [ReferenceShape]: resolving ["u"] alone
// returns the ReferenceShape itself, while ["u", "name"] continues by
// treating the ReferenceShape's table as a [ColumnShape] source.
func Resolve(s Shape, path []string) (Shape, bool) {
	if len(path) == 0 {
		return s, true
	}
	switch s := s.(type) {
	case *ObjectShape:
		next, ok := s.Get(path[0])
		if !ok {
			return nil, false
		}
		return Resolve(next, path[1:])
	case *ReferenceShape:
		if len(path) == 1 {
			return &ColumnShape{ColumnName: path[0], SourceTable: s.SourceTable}, true
		}
		return nil, false
	case *SpreadShape:
		if next, ok := s.Extra.Get(path[0]); ok {
			return Resolve(next, path[1:])
		}
		return Resolve(s.Base, path)
	case *ColumnShape:
		return nil, false
	default:
		return nil, false
	}
}
