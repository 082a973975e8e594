// Package recjson provides:
//
// - A schema-driven encoder that renders nested records (scalars, records,
//   record sequences and string maps) as JSON text
// - A stable error model via Issues (JSON Pointer, code, message)
// - A pluggable JSON driver for string quoting (go-json by default)
// - A JSON Schema projection describing the documents Encode produces
//
// Design policy:
// - The Schema is always supplied by the caller; structure is never inferred from data.
// - Output is streamed token by token in schema order; nothing is re-ordered or re-visited.
// - Keep only public APIs in the root package; put the token writer under internal/.
// - Place the schema builder under dsl/, adapters under schemadef/ and rowtext/,
//   and the CLI under cmd/recjson.
//
// Typical usage:
//
//  s := dsl.Record().
//  	Field("B", dsl.Bag(dsl.Record().Field("v", dsl.Int32()).MustBuild())).
//  	MustBuild()
//  out, ok, err := recjson.Encode(s, recjson.Record{
//  	recjson.RecordSequence{{recjson.Int32(1)}, {recjson.Int32(2)}},
//  })
//  // out == `{"B":[{"v":1},{"v":2}]}`, ok == true
//
package recjson
