package dsl

import (
	"github.com/reoring/recjson"
)

type recordBuilder struct {
	fields []recjson.FieldSchema
}

// Record creates a new record builder.
func Record() *recordBuilder { return &recordBuilder{} }

// Field appends a field. Order of calls is the output order; repeating a name
// adds an independent position.
func (b *recordBuilder) Field(name string, t Type) *recordBuilder {
	b.fields = append(b.fields, recjson.FieldSchema{Name: name, Kind: t.kind, Nested: t.nested})
	return b
}

// Fields appends prepared field schemas verbatim.
func (b *recordBuilder) Fields(fs ...recjson.FieldSchema) *recordBuilder {
	b.fields = append(b.fields, fs...)
	return b
}

// Build validates and returns the schema.
func (b *recordBuilder) Build() (*recjson.Schema, error) {
	s := recjson.NewSchema(append([]recjson.FieldSchema(nil), b.fields...)...)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustBuild is Build that panics on error.
func (b *recordBuilder) MustBuild() *recjson.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
