package recjson

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Value is one position of a record. The set of implementations is closed:
// Null, Bool, Int32, Int64, Float32, Float64, DateTime, Opaque, Text,
// StringMap, Record and RecordSequence. A nil Value is treated as Null.
//
// String returns the display form, which is what DateTime, Opaque and
// StringMap entries render as.
type Value interface {
	String() string
	isValue()
}

// Null is an absent value; nullability belongs to the instance, not the
// schema.
type Null struct{}

type (
	Bool    bool
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64
	Text    string
	// Opaque is an uninterpreted byte blob rendered through its text form.
	Opaque []byte
	// DateTime is rendered as ISO-8601 with millisecond precision.
	DateTime time.Time
	// StringMap values are rendered by display form only; a nil entry is
	// written as null.
	StringMap map[string]Value
	// Record holds one Value per position of the matching Schema.
	Record []Value
	// RecordSequence holds records that share one element schema.
	RecordSequence []Record
)

func (Null) isValue()           {}
func (Bool) isValue()           {}
func (Int32) isValue()          {}
func (Int64) isValue()          {}
func (Float32) isValue()        {}
func (Float64) isValue()        {}
func (Text) isValue()           {}
func (Opaque) isValue()         {}
func (DateTime) isValue()       {}
func (StringMap) isValue()      {}
func (Record) isValue()         {}
func (RecordSequence) isValue() {}

// DateTimeLayout is the display layout of DateTime values.
const DateTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func (Null) String() string      { return "" }
func (v Bool) String() string    { return strconv.FormatBool(bool(v)) }
func (v Int32) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Int64) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Float32) String() string { return formatFloat(float64(v), 32) }
func (v Float64) String() string { return formatFloat(float64(v), 64) }
func (v Text) String() string    { return string(v) }
func (v Opaque) String() string  { return string(v) }

func (v DateTime) String() string { return time.Time(v).Format(DateTimeLayout) }

// Time returns the wrapped time.
func (v DateTime) Time() time.Time { return time.Time(v) }

// String renders the map as [k1#v1,k2#v2] with keys sorted.
func (v StringMap) String() string {
	b := &strings.Builder{}
	b.WriteByte('[')
	for i, k := range v.Keys() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('#')
		b.WriteString(display(v[k]))
	}
	b.WriteByte(']')
	return b.String()
}

// Keys returns the map keys in ascending order.
func (v StringMap) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the record as (v1,v2,...); null positions render empty.
func (v Record) String() string {
	b := &strings.Builder{}
	v.appendDisplay(b)
	return b.String()
}

func (v Record) appendDisplay(b *strings.Builder) {
	b.WriteByte('(')
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(display(x))
	}
	b.WriteByte(')')
}

// String renders the sequence as {(..),(..)}.
func (v RecordSequence) String() string {
	b := &strings.Builder{}
	b.WriteByte('{')
	for i, r := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		r.appendDisplay(b)
	}
	b.WriteByte('}')
	return b.String()
}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

func display(v Value) string {
	if IsNull(v) {
		return ""
	}
	return v.String()
}

// KindOf returns the Kind matching v's variant. Null has no kind.
func KindOf(v Value) (Kind, bool) {
	switch v.(type) {
	case Bool:
		return KindBoolean, true
	case Int32:
		return KindInt32, true
	case Int64:
		return KindInt64, true
	case Float32:
		return KindFloat32, true
	case Float64:
		return KindFloat64, true
	case DateTime:
		return KindDateTime, true
	case Opaque:
		return KindOpaque, true
	case Text:
		return KindText, true
	case StringMap:
		return KindStringMap, true
	case Record:
		return KindRecord, true
	case RecordSequence:
		return KindRecordSequence, true
	default:
		return 0, false
	}
}
