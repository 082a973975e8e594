package recjson

import (
	"errors"
	"io"

	eng "github.com/reoring/recjson/internal/engine"
)

const bufSize = 4 * 1024

// Encode renders r as a JSON object whose members are s's fields in schema
// order, aligned with r by position.
//
// A nil or zero-length record yields no output: ok is false and err is nil.
// A nil schema fails with ErrMissingSchema. Any failure at any depth aborts
// the call and discards partial output.
func Encode(s *Schema, r Record, opts ...EncodeOpt) (out string, ok bool, err error) {
	b, err := EncodeBytes(s, r, opts...)
	if err != nil || b == nil {
		return "", false, err
	}
	return string(b), true, nil
}

// EncodeBytes is Encode returning bytes. A nil slice with a nil error is the
// absent result.
func EncodeBytes(s *Schema, r Record, opts ...EncodeOpt) ([]byte, error) {
	if len(r) == 0 {
		return nil, nil
	}
	if s == nil {
		return nil, singleIssue(rootPath(), CodeMissingSchema)
	}
	opt := resolveEncodeOpt(opts)
	e := &encoder{w: eng.NewWriter(bufSize, eng.Options{
		MaxDepth:     opt.MaxDepth,
		AppendString: opt.Driver.AppendString,
	})}
	if err := e.object(rootPath(), s, r); err != nil {
		return nil, err
	}
	return e.w.Bytes(), nil
}

// EncodeTo encodes r and writes the text to w. Nothing is written unless the
// whole record encodes successfully. ok reports whether output was produced.
func EncodeTo(w io.Writer, s *Schema, r Record, opts ...EncodeOpt) (ok bool, err error) {
	b, err := EncodeBytes(s, r, opts...)
	if err != nil || b == nil {
		return false, err
	}
	if _, err := w.Write(b); err != nil {
		return false, Issues{{Path: "/", Code: CodeWriteError, Message: issueMessage(CodeWriteError, nil), Cause: err}}
	}
	return true, nil
}

type encoder struct {
	w *eng.Writer
}

// object writes one JSON object holding every field of s.
func (e *encoder) object(p *pathRef, s *Schema, r Record) error {
	if len(r) < len(s.Fields) {
		return singleIssue(p, CodeMalformedValue, "want", len(s.Fields), "got", len(r))
	}
	if err := e.w.BeginObject(); err != nil {
		return e.depthIssue(p, err)
	}
	for i := range s.Fields {
		if err := e.writeField(p, &s.Fields[i], r[i]); err != nil {
			return err
		}
	}
	e.w.EndObject()
	return nil
}

// writeField writes exactly one member "name": value into the open object.
func (e *encoder) writeField(parent *pathRef, f *FieldSchema, v Value) error {
	if IsNull(v) {
		e.w.Key(f.Name)
		e.w.Null()
		return nil
	}
	p := parent.field(f.Name)

	switch f.Kind {
	case KindBoolean:
		b, ok := v.(Bool)
		if !ok {
			return mismatch(p, f.Kind, v)
		}
		e.w.Key(f.Name)
		e.w.Bool(bool(b))
	case KindInt32:
		n, ok := v.(Int32)
		if !ok {
			return mismatch(p, f.Kind, v)
		}
		e.w.Key(f.Name)
		e.w.Number(n.String())
	case KindInt64:
		n, ok := v.(Int64)
		if !ok {
			return mismatch(p, f.Kind, v)
		}
		e.w.Key(f.Name)
		e.w.Number(n.String())
	case KindFloat32:
		x, ok := v.(Float32)
		if !ok {
			return mismatch(p, f.Kind, v)
		}
		e.w.Key(f.Name)
		e.float(float64(x), x.String())
	case KindFloat64:
		x, ok := v.(Float64)
		if !ok {
			return mismatch(p, f.Kind, v)
		}
		e.w.Key(f.Name)
		e.float(float64(x), x.String())
	case KindDateTime, KindOpaque:
		// copied through display form; never re-parsed
		e.w.Key(f.Name)
		e.w.String(v.String())
	case KindText:
		s, ok := v.(Text)
		if !ok {
			return mismatch(p, f.Kind, v)
		}
		e.w.Key(f.Name)
		e.w.String(string(s))
	case KindStringMap:
		m, ok := v.(StringMap)
		if !ok {
			return mismatch(p, f.Kind, v)
		}
		e.w.Key(f.Name)
		return e.stringMap(p, m)
	case KindRecord:
		if f.Nested == nil {
			return singleIssue(p, CodeMissingNestedSchema)
		}
		r, ok := v.(Record)
		if !ok {
			return mismatch(p, f.Kind, v)
		}
		e.w.Key(f.Name)
		return e.object(p, f.Nested, r)
	case KindRecordSequence:
		elem, err := sequenceElement(p, f)
		if err != nil {
			return err
		}
		seq, ok := v.(RecordSequence)
		if !ok {
			return mismatch(p, f.Kind, v)
		}
		e.w.Key(f.Name)
		return e.sequence(p, elem, seq)
	default:
		return singleIssue(p, CodeUnsupportedKind, "kind", f.Kind.String())
	}
	return nil
}

// float writes finite values as number tokens and NaN/±Inf as strings.
func (e *encoder) float(f float64, text string) {
	if finite(f) {
		e.w.Number(text)
		return
	}
	e.w.String(text)
}

// stringMap writes entries in ascending key order; values are display strings
// or null, never nested structure.
func (e *encoder) stringMap(p *pathRef, m StringMap) error {
	if err := e.w.BeginObject(); err != nil {
		return e.depthIssue(p, err)
	}
	for _, k := range m.Keys() {
		e.w.Key(k)
		if v := m[k]; IsNull(v) {
			e.w.Null()
		} else {
			e.w.String(v.String())
		}
	}
	e.w.EndObject()
	return nil
}

func (e *encoder) sequence(p *pathRef, elem *Schema, seq RecordSequence) error {
	if err := e.w.BeginArray(); err != nil {
		return e.depthIssue(p, err)
	}
	for i, r := range seq {
		if err := e.object(p.index(i), elem, r); err != nil {
			return err
		}
	}
	e.w.EndArray()
	return nil
}

// sequenceElement resolves the per-element schema of a RecordSequence field:
// the nested schema must hold exactly one KindRecord field with its own
// nested schema.
func sequenceElement(p *pathRef, f *FieldSchema) (*Schema, error) {
	if f.Nested == nil {
		return nil, singleIssue(p, CodeMissingNestedSchema)
	}
	if len(f.Nested.Fields) != 1 || f.Nested.Fields[0].Kind != KindRecord {
		return nil, singleIssue(p, CodeMalformedSequenceSchema, "fields", len(f.Nested.Fields))
	}
	elem := f.Nested.Fields[0].Nested
	if elem == nil {
		return nil, singleIssue(p, CodeMissingNestedSchema, "element", f.Nested.Fields[0].Name)
	}
	return elem, nil
}

func mismatch(p *pathRef, want Kind, v Value) Issues {
	got := "unknown"
	if k, ok := KindOf(v); ok {
		got = k.String()
	}
	return singleIssue(p, CodeMalformedValue, "want", want.String(), "got", got)
}

func (e *encoder) depthIssue(p *pathRef, err error) error {
	var de eng.DepthError
	if errors.As(err, &de) {
		it := p.issue(CodeSchemaCycle, "depth", de.Depth, "max", de.Max)
		it.Cause = err
		return Issues{it}
	}
	return err
}
