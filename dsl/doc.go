// Package dsl provides a builder for recjson schemas.
//
// Overview
//   - Builder API: declare record fields in order with Record()/Field() then Build()/MustBuild().
//   - Types: Boolean()/Int32()/Int64()/Float32()/Float64()/DateTime()/Opaque()/Text()/Map() for
//     leaves, Tuple(s) for a nested record and Bag(s) for a sequence of records.
//   - Bag(elem) wraps elem in the one-field element record a sequence schema requires, so callers
//     never spell that shape by hand.
//
// Entry points
//   - Record(): create a record builder; chain Field then MustBuild()/Build.
//   - Bag(elem)/BagNamed(name, elem): sequence of records described by elem.
//   - Tuple(s): nested record described by s.
//
// Build validates the result with (*recjson.Schema).Validate and reports the
// encoder's issue codes.
package dsl
