package dsl

import (
	"github.com/reoring/recjson"
)

// Type describes the kind (and nested schema) of one field.
type Type struct {
	kind   recjson.Kind
	nested *recjson.Schema
}

// Kind returns the field kind.
func (t Type) Kind() recjson.Kind { return t.kind }

// Nested returns the nested schema for structured kinds.
func (t Type) Nested() *recjson.Schema { return t.nested }

func Boolean() Type  { return Type{kind: recjson.KindBoolean} }
func Int32() Type    { return Type{kind: recjson.KindInt32} }
func Int64() Type    { return Type{kind: recjson.KindInt64} }
func Float32() Type  { return Type{kind: recjson.KindFloat32} }
func Float64() Type  { return Type{kind: recjson.KindFloat64} }
func DateTime() Type { return Type{kind: recjson.KindDateTime} }
func Opaque() Type   { return Type{kind: recjson.KindOpaque} }
func Text() Type     { return Type{kind: recjson.KindText} }
func Map() Type      { return Type{kind: recjson.KindStringMap} }

// Of returns a leaf Type for k. Structured kinds need Tuple or Bag instead.
func Of(k recjson.Kind) Type { return Type{kind: k} }

// Tuple is a nested record described by s.
func Tuple(s *recjson.Schema) Type { return Type{kind: recjson.KindRecord, nested: s} }

// DefaultElementName names the element record Bag creates.
const DefaultElementName = "t"

// Bag is a sequence of records described by elem.
func Bag(elem *recjson.Schema) Type { return BagNamed(DefaultElementName, elem) }

// BagNamed is Bag with an explicit element record name.
func BagNamed(name string, elem *recjson.Schema) Type {
	return Type{
		kind: recjson.KindRecordSequence,
		nested: recjson.NewSchema(recjson.FieldSchema{
			Name:   name,
			Kind:   recjson.KindRecord,
			Nested: elem,
		}),
	}
}

// Sequence is an alias of Bag.
func Sequence(elem *recjson.Schema) Type { return Bag(elem) }
