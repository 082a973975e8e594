package recjson_test

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/recjson"
	g "github.com/reoring/recjson/dsl"
)

func mustEncode(t *testing.T, s *recjson.Schema, r recjson.Record) string {
	t.Helper()
	out, ok, err := recjson.Encode(s, r)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if !ok {
		t.Fatalf("expected output, got absent result")
	}
	return out
}

// TestEncode_BagScenario covers a sequence of one-field records over two rows.
func TestEncode_BagScenario(t *testing.T) {
	s := g.Record().
		Field("B", g.Bag(g.Record().Field("v", g.Int32()).MustBuild())).
		MustBuild()

	rows := []struct {
		in   []int32
		want string
	}{
		{[]int32{1, 2, 3, 4, 5}, `{"B":[{"v":1},{"v":2},{"v":3},{"v":4},{"v":5}]}`},
		{[]int32{4, 5}, `{"B":[{"v":4},{"v":5}]}`},
	}
	for _, row := range rows {
		var seq recjson.RecordSequence
		for _, v := range row.in {
			seq = append(seq, recjson.Record{recjson.Int32(v)})
		}
		if got := mustEncode(t, s, recjson.Record{seq}); got != row.want {
			t.Fatalf("want %s, got %s", row.want, got)
		}
	}
}

// TestEncode_TupleDateTimeFloat keeps the single-precision text form (12.0).
func TestEncode_TupleDateTimeFloat(t *testing.T) {
	s := g.Record().
		Field("T", g.Tuple(g.Record().
			Field("dt", g.DateTime()).
			Field("number", g.Float32()).
			MustBuild())).
		MustBuild()

	dt := recjson.DateTime(time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC))
	got := mustEncode(t, s, recjson.Record{recjson.Record{dt, recjson.Float32(12.0)}})
	want := `{"T":{"dt":"2005-01-01T00:00:00.000Z","number":12.0}}`
	if got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

// TestEncode_BagWithNullMembers mirrors empty members inside a bag literal:
// empty text stays "", missing numbers are null.
func TestEncode_BagWithNullMembers(t *testing.T) {
	s := g.Record().
		Field("B", g.Bag(g.Record().Field("text", g.Text()).Field("number", g.Int32()).MustBuild())).
		MustBuild()
	got := mustEncode(t, s, recjson.Record{recjson.RecordSequence{
		{recjson.Text(""), recjson.Null{}},
		{recjson.Text("bar"), nil},
		{recjson.Text(""), recjson.Int32(14)},
	}})
	want := `{"B":[{"text":"","number":null},{"text":"bar","number":null},{"text":"","number":14}]}`
	if got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestEncode_AbsentRecord(t *testing.T) {
	s := g.Record().Field("a", g.Int32()).MustBuild()
	for _, r := range []recjson.Record{nil, {}} {
		out, ok, err := recjson.Encode(s, r)
		if err != nil || ok || out != "" {
			t.Fatalf("want absent result, got out=%q ok=%v err=%v", out, ok, err)
		}
	}
	// the absent check precedes the schema check
	if _, ok, err := recjson.Encode(nil, nil); ok || err != nil {
		t.Fatalf("want absent result for nil schema and nil record, got ok=%v err=%v", ok, err)
	}
	b, err := recjson.EncodeBytes(s, nil)
	if b != nil || err != nil {
		t.Fatalf("want nil bytes, got %q %v", b, err)
	}
}

func TestEncode_MissingSchema(t *testing.T) {
	_, ok, err := recjson.Encode(nil, recjson.Record{recjson.Int32(1)})
	if ok || !errors.Is(err, recjson.ErrMissingSchema) {
		t.Fatalf("want ErrMissingSchema, got ok=%v err=%v", ok, err)
	}
}

// TestEncode_NullDominance writes null for every kind, including structured
// kinds whose nested schema is missing or malformed.
func TestEncode_NullDominance(t *testing.T) {
	for _, k := range recjson.AllKinds() {
		s := recjson.NewSchema(recjson.FieldSchema{Name: "f", Kind: k})
		for _, v := range []recjson.Value{nil, recjson.Null{}} {
			got := mustEncode(t, s, recjson.Record{v})
			if got != `{"f":null}` {
				t.Fatalf("kind %s: want null member, got %s", k, got)
			}
		}
	}
}

func TestEncode_TopLevelNullFieldsAreVisited(t *testing.T) {
	s := g.Record().Field("a", g.Text()).Field("b", g.Int64()).Field("c", g.Boolean()).MustBuild()
	got := mustEncode(t, s, recjson.Record{nil, recjson.Int64(7), recjson.Null{}})
	if got != `{"a":null,"b":7,"c":null}` {
		t.Fatalf("unexpected: %s", got)
	}
}

func TestEncode_EmptySequence(t *testing.T) {
	s := g.Record().Field("B", g.Bag(g.Record().Field("v", g.Int32()).MustBuild())).MustBuild()
	for _, seq := range []recjson.RecordSequence{nil, {}} {
		if got := mustEncode(t, s, recjson.Record{seq}); got != `{"B":[]}` {
			t.Fatalf("want empty array, got %s", got)
		}
	}
}

func TestEncode_MapStringification(t *testing.T) {
	s := g.Record().Field("m", g.Map()).MustBuild()
	got := mustEncode(t, s, recjson.Record{recjson.StringMap{
		"b": nil,
		"a": recjson.Int32(1),
	}})
	if got != `{"m":{"a":"1","b":null}}` {
		t.Fatalf("unexpected: %s", got)
	}

	// structured entries are rendered by display form, never nested
	got = mustEncode(t, s, recjson.Record{recjson.StringMap{
		"t":   recjson.Record{recjson.Int32(1), nil, recjson.Text("x")},
		"bag": recjson.RecordSequence{{recjson.Int32(1)}, {recjson.Int32(2)}},
		"m":   recjson.StringMap{"k": recjson.Float64(1.5)},
		"n":   recjson.Null{},
	}})
	want := `{"m":{"bag":"{(1),(2)}","m":"[k#1.5]","n":null,"t":"(1,,x)"}}`
	if got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestEncode_ScalarKinds(t *testing.T) {
	s := g.Record().
		Field("b", g.Boolean()).
		Field("i", g.Int32()).
		Field("l", g.Int64()).
		Field("f", g.Float32()).
		Field("d", g.Float64()).
		Field("o", g.Opaque()).
		Field("s", g.Text()).
		MustBuild()
	got := mustEncode(t, s, recjson.Record{
		recjson.Bool(true),
		recjson.Int32(math.MinInt32),
		recjson.Int64(math.MaxInt64),
		recjson.Float32(0.1),
		recjson.Float64(1e7),
		recjson.Opaque("raw bytes"),
		recjson.Text("a\"b\n<c>"),
	})
	want := `{"b":true,"i":-2147483648,"l":9223372036854775807,"f":0.1,"d":1.0E7,"o":"raw bytes","s":"a\"b\n<c>"}`
	if got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestEncode_DateTimeAndOpaqueCopyDisplayForm(t *testing.T) {
	s := g.Record().Field("dt", g.DateTime()).Field("o", g.Opaque()).MustBuild()
	got := mustEncode(t, s, recjson.Record{recjson.Int32(5), recjson.Text("<b>")})
	if got != `{"dt":"5","o":"<b>"}` {
		t.Fatalf("unexpected: %s", got)
	}
}

func TestEncode_NonFiniteFloatsAreStrings(t *testing.T) {
	s := g.Record().Field("a", g.Float64()).Field("b", g.Float32()).Field("c", g.Float64()).MustBuild()
	got := mustEncode(t, s, recjson.Record{
		recjson.Float64(math.NaN()),
		recjson.Float32(float32(math.Inf(1))),
		recjson.Float64(math.Inf(-1)),
	})
	if got != `{"a":"NaN","b":"Infinity","c":"-Infinity"}` {
		t.Fatalf("unexpected: %s", got)
	}
}

// TestEncode_ScalarRoundTrip parses the output back and compares values.
func TestEncode_ScalarRoundTrip(t *testing.T) {
	s := g.Record().
		Field("b", g.Boolean()).
		Field("l", g.Int64()).
		Field("f", g.Float32()).
		Field("d", g.Float64()).
		Field("s", g.Text()).
		MustBuild()
	in := recjson.Record{
		recjson.Bool(false),
		recjson.Int64(-9007199254740993),
		recjson.Float32(3.4028235e38),
		recjson.Float64(2.2250738585072014e-308),
		recjson.Text("héllo ☃ \t"),
	}
	out := mustEncode(t, s, in)

	dec := gojson.NewDecoder(strings.NewReader(out))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, out)
	}
	if m["b"] != false {
		t.Fatalf("bool mismatch: %v", m["b"])
	}
	if n, _ := m["l"].(gojson.Number).Int64(); n != -9007199254740993 {
		t.Fatalf("int64 mismatch: %v", m["l"])
	}
	if f, _ := m["f"].(gojson.Number).Float64(); float32(f) != float32(3.4028235e38) {
		t.Fatalf("float32 mismatch: %v", m["f"])
	}
	if f, _ := m["d"].(gojson.Number).Float64(); f != 2.2250738585072014e-308 {
		t.Fatalf("float64 mismatch: %v", m["d"])
	}
	if m["s"] != "héllo ☃ \t" {
		t.Fatalf("text mismatch: %q", m["s"])
	}
}

func TestEncode_Deterministic(t *testing.T) {
	s := g.Record().
		Field("m", g.Map()).
		Field("B", g.Bag(g.Record().Field("x", g.Text()).MustBuild())).
		MustBuild()
	m := recjson.StringMap{}
	for _, k := range []string{"z", "y", "x", "w", "v", "u", "t", "s"} {
		m[k] = recjson.Text(k + k)
	}
	r := recjson.Record{m, recjson.RecordSequence{{recjson.Text("1")}, {recjson.Text("2")}}}
	first := mustEncode(t, s, r)
	for i := 0; i < 20; i++ {
		if got := mustEncode(t, s, r); got != first {
			t.Fatalf("non-deterministic output:\n%s\n%s", first, got)
		}
	}
}

func TestEncode_DuplicateNamesAreIndependent(t *testing.T) {
	s := recjson.NewSchema(
		recjson.FieldSchema{Name: "a", Kind: recjson.KindInt32},
		recjson.FieldSchema{Name: "a", Kind: recjson.KindText},
	)
	if got := mustEncode(t, s, recjson.Record{recjson.Int32(1), recjson.Text("x")}); got != `{"a":1,"a":"x"}` {
		t.Fatalf("unexpected: %s", got)
	}
}

func TestEncode_ExtraValuePositionsIgnored(t *testing.T) {
	s := g.Record().Field("a", g.Int32()).MustBuild()
	if got := mustEncode(t, s, recjson.Record{recjson.Int32(1), recjson.Text("extra")}); got != `{"a":1}` {
		t.Fatalf("unexpected: %s", got)
	}
}

func TestEncode_MalformedSequenceSchema(t *testing.T) {
	s := recjson.NewSchema(recjson.FieldSchema{
		Name: "B",
		Kind: recjson.KindRecordSequence,
		Nested: recjson.NewSchema(
			recjson.FieldSchema{Name: "t", Kind: recjson.KindRecord, Nested: recjson.NewSchema()},
			recjson.FieldSchema{Name: "u", Kind: recjson.KindRecord, Nested: recjson.NewSchema()},
		),
	})
	_, _, err := recjson.Encode(s, recjson.Record{recjson.RecordSequence{}})
	if !errors.Is(err, recjson.ErrMalformedSequenceSchema) {
		t.Fatalf("want ErrMalformedSequenceSchema, got %v", err)
	}
	iss, ok := recjson.AsIssues(err)
	if !ok || iss[0].Path != "/B" {
		t.Fatalf("unexpected issues: %v", err)
	}

	// one field, but not a record
	s.Fields[0].Nested = recjson.NewSchema(recjson.FieldSchema{Name: "v", Kind: recjson.KindInt32})
	if _, _, err := recjson.Encode(s, recjson.Record{recjson.RecordSequence{}}); !errors.Is(err, recjson.ErrMalformedSequenceSchema) {
		t.Fatalf("want ErrMalformedSequenceSchema, got %v", err)
	}
}

func TestEncode_MissingNestedSchema(t *testing.T) {
	tuple := recjson.NewSchema(recjson.FieldSchema{Name: "T", Kind: recjson.KindRecord})
	if _, _, err := recjson.Encode(tuple, recjson.Record{recjson.Record{}}); !errors.Is(err, recjson.ErrMissingNestedSchema) {
		t.Fatalf("record: want ErrMissingNestedSchema, got %v", err)
	}

	bag := recjson.NewSchema(recjson.FieldSchema{Name: "B", Kind: recjson.KindRecordSequence})
	if _, _, err := recjson.Encode(bag, recjson.Record{recjson.RecordSequence{}}); !errors.Is(err, recjson.ErrMissingNestedSchema) {
		t.Fatalf("bag: want ErrMissingNestedSchema, got %v", err)
	}

	// element record without its own schema
	bag.Fields[0].Nested = recjson.NewSchema(recjson.FieldSchema{Name: "t", Kind: recjson.KindRecord})
	if _, _, err := recjson.Encode(bag, recjson.Record{recjson.RecordSequence{}}); !errors.Is(err, recjson.ErrMissingNestedSchema) {
		t.Fatalf("element: want ErrMissingNestedSchema, got %v", err)
	}
}

func TestEncode_MalformedValue_Arity(t *testing.T) {
	s := g.Record().
		Field("B", g.Bag(g.Record().Field("a", g.Int32()).Field("b", g.Int32()).MustBuild())).
		MustBuild()
	_, ok, err := recjson.Encode(s, recjson.Record{recjson.RecordSequence{
		{recjson.Int32(1), recjson.Int32(2)},
		{recjson.Int32(3)},
	}})
	if ok || !errors.Is(err, recjson.ErrMalformedValue) {
		t.Fatalf("want ErrMalformedValue, got ok=%v err=%v", ok, err)
	}
	iss, _ := recjson.AsIssues(err)
	if iss[0].Path != "/B/1" || iss[0].Params["want"] != 2 || iss[0].Params["got"] != 1 {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}

	top := g.Record().Field("a", g.Int32()).Field("b", g.Int32()).MustBuild()
	if _, _, err := recjson.Encode(top, recjson.Record{recjson.Int32(1)}); !errors.Is(err, recjson.ErrMalformedValue) {
		t.Fatalf("top level: want ErrMalformedValue, got %v", err)
	}
}

func TestEncode_MalformedValue_VariantMismatch(t *testing.T) {
	s := g.Record().Field("T", g.Tuple(g.Record().Field("n", g.Int32()).MustBuild())).MustBuild()
	_, _, err := recjson.Encode(s, recjson.Record{recjson.Record{recjson.Int64(1)}})
	iss, ok := recjson.AsIssues(err)
	if !ok || iss[0].Code != recjson.CodeMalformedValue {
		t.Fatalf("want malformed_value, got %v", err)
	}
	if iss[0].Path != "/T/n" || iss[0].Params["want"] != "int" || iss[0].Params["got"] != "long" {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
	if iss[0].Message != "value does not match schema (want=int, got=long)" {
		t.Fatalf("unexpected message: %q", iss[0].Message)
	}
}

func TestEncode_PathEscaping(t *testing.T) {
	s := g.Record().Field("a/b~c", g.Tuple(g.Record().Field("x", g.Int32()).MustBuild())).MustBuild()
	_, _, err := recjson.Encode(s, recjson.Record{recjson.Record{}})
	iss, _ := recjson.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/a~1b~0c" {
		t.Fatalf("unexpected issues: %v", err)
	}
}

func TestEncode_UnsupportedKind(t *testing.T) {
	s := recjson.NewSchema(recjson.FieldSchema{Name: "x", Kind: recjson.Kind(99)})
	_, _, err := recjson.Encode(s, recjson.Record{recjson.Int32(1)})
	if !errors.Is(err, recjson.ErrUnsupportedKind) {
		t.Fatalf("want ErrUnsupportedKind, got %v", err)
	}
}

// TestEncode_EveryKindHasAWriter fails when a kind is added without a writer
// or without a sample here.
func TestEncode_EveryKindHasAWriter(t *testing.T) {
	elem := g.Record().Field("v", g.Int32()).MustBuild()
	samples := map[recjson.Kind]struct {
		nested *recjson.Schema
		value  recjson.Value
	}{
		recjson.KindBoolean:        {nil, recjson.Bool(true)},
		recjson.KindInt32:          {nil, recjson.Int32(1)},
		recjson.KindInt64:          {nil, recjson.Int64(1)},
		recjson.KindFloat32:        {nil, recjson.Float32(1)},
		recjson.KindFloat64:        {nil, recjson.Float64(1)},
		recjson.KindDateTime:       {nil, recjson.DateTime(time.Unix(0, 0).UTC())},
		recjson.KindOpaque:         {nil, recjson.Opaque("x")},
		recjson.KindText:           {nil, recjson.Text("x")},
		recjson.KindStringMap:      {nil, recjson.StringMap{}},
		recjson.KindRecord:         {elem, recjson.Record{recjson.Int32(1)}},
		recjson.KindRecordSequence: {g.Bag(elem).Nested(), recjson.RecordSequence{{recjson.Int32(1)}}},
	}
	for _, k := range recjson.AllKinds() {
		sample, ok := samples[k]
		if !ok {
			t.Fatalf("no sample for kind %s", k)
		}
		s := recjson.NewSchema(recjson.FieldSchema{Name: "f", Kind: k, Nested: sample.nested})
		if _, _, err := recjson.Encode(s, recjson.Record{sample.value}); err != nil {
			t.Fatalf("kind %s: %v", k, err)
		}
	}
}

// TestEncode_CyclicValueHitsDepthGuard builds a self-referential schema and a
// record that contains itself; the depth guard turns the unbounded recursion
// into an error.
func TestEncode_CyclicValueHitsDepthGuard(t *testing.T) {
	s := &recjson.Schema{}
	s.Fields = []recjson.FieldSchema{{Name: "self", Kind: recjson.KindRecord, Nested: s}}
	r := recjson.Record{nil}
	r[0] = r

	_, _, err := recjson.Encode(s, r, recjson.EncodeOpt{MaxDepth: 16})
	if !errors.Is(err, recjson.ErrSchemaCycle) {
		t.Fatalf("want ErrSchemaCycle, got %v", err)
	}
	iss, _ := recjson.AsIssues(err)
	if iss[0].Params["max"] != 16 {
		t.Fatalf("unexpected params: %+v", iss[0].Params)
	}

	if _, _, err := recjson.Encode(s, r); !errors.Is(err, recjson.ErrSchemaCycle) {
		t.Fatalf("default depth: want ErrSchemaCycle, got %v", err)
	}
}

func TestEncode_MaxDepthCountsEveryContainer(t *testing.T) {
	s := g.Record().Field("m", g.Map()).MustBuild()
	r := recjson.Record{recjson.StringMap{"k": recjson.Text("v")}}
	if _, _, err := recjson.Encode(s, r, recjson.EncodeOpt{MaxDepth: 1}); !errors.Is(err, recjson.ErrSchemaCycle) {
		t.Fatalf("want depth failure, got %v", err)
	}
	if _, _, err := recjson.Encode(s, r, recjson.EncodeOpt{MaxDepth: 2}); err != nil {
		t.Fatalf("depth 2 should fit: %v", err)
	}
	if _, _, err := recjson.Encode(s, r, recjson.EncodeOpt{MaxDepth: -1}); err != nil {
		t.Fatalf("negative disables guard: %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestEncodeTo(t *testing.T) {
	s := g.Record().Field("a", g.Int32()).Field("b", g.Tuple(g.Record().Field("c", g.Int32()).MustBuild())).MustBuild()

	var buf bytes.Buffer
	ok, err := recjson.EncodeTo(&buf, s, recjson.Record{recjson.Int32(1), recjson.Record{recjson.Int32(2)}})
	if err != nil || !ok || buf.String() != `{"a":1,"b":{"c":2}}` {
		t.Fatalf("unexpected: ok=%v err=%v out=%s", ok, err, buf.String())
	}

	// failures deep in the record leave the sink untouched
	buf.Reset()
	_, err = recjson.EncodeTo(&buf, s, recjson.Record{recjson.Int32(1), recjson.Record{recjson.Text("x")}})
	if !errors.Is(err, recjson.ErrMalformedValue) || buf.Len() != 0 {
		t.Fatalf("want no partial output, got err=%v out=%q", err, buf.String())
	}

	ok, err = recjson.EncodeTo(&buf, s, nil)
	if ok || err != nil || buf.Len() != 0 {
		t.Fatalf("absent record should write nothing")
	}

	_, err = recjson.EncodeTo(failingWriter{}, s, recjson.Record{recjson.Int32(1), nil})
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("want cause io.ErrClosedPipe, got %v", err)
	}
	if iss, _ := recjson.AsIssues(err); iss[0].Code != recjson.CodeWriteError {
		t.Fatalf("want write_error, got %v", err)
	}
}
