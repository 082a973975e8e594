package recjson

import (
	"strconv"
	"strings"
)

// Kind enumerates the field kinds a Schema can declare. The set is closed;
// AllKinds lists every member.
type Kind int

const (
	KindBoolean        Kind = iota // JSON true/false.
	KindInt32                      // 32-bit signed integer.
	KindInt64                      // 64-bit signed integer.
	KindFloat32                    // Single-precision float, rendered in its own width.
	KindFloat64                    // Double-precision float.
	KindDateTime                   // Rendered as its display string.
	KindOpaque                     // Uninterpreted bytes, rendered as their display string.
	KindText                       // JSON string.
	KindStringMap                  // Object whose values are display strings or null.
	KindRecord                     // Fixed-arity ordered record ("tuple").
	KindRecordSequence             // Variable-length sequence of records ("bag").

	kindCount
)

var kindNames = [kindCount]string{
	KindBoolean:        "boolean",
	KindInt32:          "int",
	KindInt64:          "long",
	KindFloat32:        "float",
	KindFloat64:        "double",
	KindDateTime:       "datetime",
	KindOpaque:         "bytearray",
	KindText:           "chararray",
	KindStringMap:      "map",
	KindRecord:         "tuple",
	KindRecordSequence: "bag",
}

var kindAliases = map[string]Kind{
	"bool":     KindBoolean,
	"int32":    KindInt32,
	"integer":  KindInt32,
	"int64":    KindInt64,
	"float32":  KindFloat32,
	"float64":  KindFloat64,
	"opaque":   KindOpaque,
	"bytes":    KindOpaque,
	"text":     KindText,
	"string":   KindText,
	"record":   KindRecord,
	"sequence": KindRecordSequence,
}

// String returns the canonical lowercase name of the kind.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Valid reports whether k is a member of the closed enumeration.
func (k Kind) Valid() bool { return k >= 0 && k < kindCount }

// Structured reports whether the kind requires a nested schema.
func (k Kind) Structured() bool { return k == KindRecord || k == KindRecordSequence }

// AllKinds returns every Kind in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a kind name (canonical or alias, case-insensitive).
func ParseKind(name string) (Kind, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, kn := range kindNames {
		if kn == n {
			return Kind(k), true
		}
	}
	k, ok := kindAliases[n]
	return k, ok
}

// FieldSchema describes one named position of a record.
//
// Nested is required for KindRecord. For KindRecordSequence it must hold
// exactly one field of KindRecord whose own Nested describes each element.
// Other kinds ignore Nested.
type FieldSchema struct {
	Name   string
	Kind   Kind
	Nested *Schema
}

// Schema is an ordered list of fields. Order drives both value alignment and
// output key order. Duplicate names are legal and independent.
type Schema struct {
	Fields []FieldSchema
}

// NewSchema is a convenience constructor.
func NewSchema(fields ...FieldSchema) *Schema { return &Schema{Fields: fields} }

// Len returns the number of fields; a nil schema has none.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Fields)
}

// Field returns the field at position i.
func (s *Schema) Field(i int) FieldSchema { return s.Fields[i] }

// Index returns the position of the first field called name, or -1.
func (s *Schema) Index(name string) int {
	if s == nil {
		return -1
	}
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// Project returns a schema holding the named fields in the given order along
// with their positions in s. Unknown names are reported in missing.
func (s *Schema) Project(names ...string) (out *Schema, positions []int, missing []string) {
	out = &Schema{Fields: make([]FieldSchema, 0, len(names))}
	for _, n := range names {
		i := s.Index(n)
		if i < 0 {
			missing = append(missing, n)
			continue
		}
		out.Fields = append(out.Fields, s.Fields[i])
		positions = append(positions, i)
	}
	return out, positions, missing
}

// String renders the schema in declaration syntax, e.g.
// "B:bag{t:tuple(v:int)}".
func (s *Schema) String() string {
	b := &strings.Builder{}
	writeSchemaDecl(b, s)
	return b.String()
}

func writeSchemaDecl(b *strings.Builder, s *Schema) {
	if s == nil {
		return
	}
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Name)
		b.WriteByte(':')
		switch f.Kind {
		case KindRecord:
			b.WriteString("tuple(")
			writeSchemaDecl(b, f.Nested)
			b.WriteByte(')')
		case KindRecordSequence:
			b.WriteString("bag{")
			writeSchemaDecl(b, f.Nested)
			b.WriteByte('}')
		default:
			b.WriteString(f.Kind.String())
		}
	}
}

// DefaultMaxDepth bounds container nesting when EncodeOpt.MaxDepth is zero.
const DefaultMaxDepth = 512

// EncodeOpt bundles encoding options. When several are passed, the last one
// wins.
type EncodeOpt struct {
	// MaxDepth limits JSON container nesting (objects and arrays, the
	// top-level object counts as 1). Zero selects DefaultMaxDepth; a negative
	// value disables the guard.
	MaxDepth int
	// Driver overrides the process-wide JSON driver for this call.
	Driver JSONDriver
}

func resolveEncodeOpt(opts []EncodeOpt) EncodeOpt {
	var opt EncodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.MaxDepth == 0 {
		opt.MaxDepth = DefaultMaxDepth
	}
	if opt.Driver == nil {
		opt.Driver = getJSONDriver()
	}
	return opt
}
