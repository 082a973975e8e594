package schemadef

import (
	"bytes"
	"errors"
	"io"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/gravitational/trace"
	"gopkg.in/yaml.v3"

	"github.com/reoring/recjson"
)

// Document is the YAML/JSON form of a schema:
//
//	name: events
//	fields:
//	  - {name: id, kind: long}
//	  - name: B
//	    kind: bag
//	    fields:
//	      - {name: v, kind: int}
//
// A bag lists its element fields directly; they are wrapped in an element
// tuple named Element (default "t"). A bag whose only field is a tuple and
// which sets no Element is taken as already wrapped.
type Document struct {
	Name   string     `yaml:"name,omitempty" json:"name,omitempty"`
	Fields []FieldDoc `yaml:"fields" json:"fields"`
}

// FieldDoc is one field of a Document.
type FieldDoc struct {
	Name    string     `yaml:"name" json:"name"`
	Kind    string     `yaml:"kind" json:"kind"`
	Element string     `yaml:"element,omitempty" json:"element,omitempty"`
	Fields  []FieldDoc `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Schema converts the document into a schema.
func (d Document) Schema() (*recjson.Schema, error) {
	fields, err := convertFields("", d.Fields)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return recjson.NewSchema(fields...), nil
}

func convertFields(parent string, docs []FieldDoc) ([]recjson.FieldSchema, error) {
	out := make([]recjson.FieldSchema, 0, len(docs))
	for i, fd := range docs {
		f, err := convertField(parent, i, fd)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func convertField(parent string, i int, fd FieldDoc) (recjson.FieldSchema, error) {
	where := fd.Name
	if parent != "" {
		where = parent + "." + fd.Name
	}
	if fd.Name == "" {
		return recjson.FieldSchema{}, trace.BadParameter("schemadef: field #%d under %q has no name", i, parent)
	}
	kind, ok := recjson.ParseKind(fd.Kind)
	if !ok {
		return recjson.FieldSchema{}, trace.BadParameter("schemadef: field %q: unknown kind %q", where, fd.Kind)
	}
	f := recjson.FieldSchema{Name: fd.Name, Kind: kind}
	switch kind {
	case recjson.KindRecord:
		nested, err := convertFields(where, fd.Fields)
		if err != nil {
			return f, err
		}
		f.Nested = recjson.NewSchema(nested...)
	case recjson.KindRecordSequence:
		if fd.Element == "" && len(fd.Fields) == 1 && isTupleKeyword(fd.Fields[0].Kind) {
			nested, err := convertFields(where, fd.Fields)
			if err != nil {
				return f, err
			}
			f.Nested = recjson.NewSchema(nested...)
			break
		}
		elem, err := convertFields(where, fd.Fields)
		if err != nil {
			return f, err
		}
		name := fd.Element
		if name == "" {
			name = DefaultElementName
		}
		f.Nested = recjson.NewSchema(recjson.FieldSchema{
			Name:   name,
			Kind:   recjson.KindRecord,
			Nested: recjson.NewSchema(elem...),
		})
	default:
		if len(fd.Fields) > 0 {
			return f, trace.BadParameter("schemadef: field %q: kind %s takes no fields", where, kind)
		}
	}
	return f, nil
}

// FromSchema is the inverse of Document.Schema. Bag element tuples are
// unwrapped into the bag's own field list.
func FromSchema(name string, s *recjson.Schema) Document {
	return Document{Name: name, Fields: fieldDocs(s)}
}

func fieldDocs(s *recjson.Schema) []FieldDoc {
	if s == nil {
		return nil
	}
	out := make([]FieldDoc, 0, len(s.Fields))
	for _, f := range s.Fields {
		fd := FieldDoc{Name: f.Name, Kind: f.Kind.String()}
		switch f.Kind {
		case recjson.KindRecord:
			fd.Fields = fieldDocs(f.Nested)
		case recjson.KindRecordSequence:
			if f.Nested != nil && len(f.Nested.Fields) == 1 && f.Nested.Fields[0].Kind == recjson.KindRecord {
				elem := f.Nested.Fields[0]
				if elem.Name != DefaultElementName {
					fd.Element = elem.Name
				}
				fd.Fields = fieldDocs(elem.Nested)
			} else {
				fd.Fields = fieldDocs(f.Nested)
			}
		}
		out = append(out, fd)
	}
	return out
}

// LoadYAML decodes the first YAML document in data. Unknown keys are
// rejected.
func LoadYAML(data []byte) (*recjson.Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var d Document
	if err := dec.Decode(&d); err != nil {
		return nil, trace.BadParameter("schemadef: invalid YAML schema: %v", err)
	}
	return d.Schema()
}

// LoadYAMLNamed scans a multi-document YAML stream and converts the first
// document whose name matches.
func LoadYAMLNamed(data []byte, name string) (*recjson.Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	for {
		var d Document
		if err := dec.Decode(&d); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, trace.BadParameter("schemadef: invalid YAML schema: %v", err)
		}
		if d.Name == name {
			return d.Schema()
		}
	}
	return nil, trace.NotFound("schemadef: no schema named %q in YAML stream", name)
}

// LoadJSON decodes a JSON document. Unknown keys are rejected.
func LoadJSON(data []byte) (*recjson.Schema, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var d Document
	if err := dec.Decode(&d); err != nil {
		return nil, trace.BadParameter("schemadef: invalid JSON schema: %v", err)
	}
	return d.Schema()
}

// MarshalYAML renders s as a YAML Document.
func MarshalYAML(name string, s *recjson.Schema) ([]byte, error) {
	b, err := yaml.Marshal(FromSchema(name, s))
	return b, trace.Wrap(err)
}

// MarshalJSON renders s as an indented JSON Document.
func MarshalJSON(name string, s *recjson.Schema) ([]byte, error) {
	b, err := gojson.MarshalIndent(FromSchema(name, s), "", "  ")
	return b, trace.Wrap(err)
}

// Format names a schema source syntax.
type Format string

const (
	FormatDecl Format = "decl"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the syntax of a schema file from its extension.
func FormatFor(path string) Format {
	p := strings.ToLower(path)
	switch {
	case strings.HasSuffix(p, ".yaml"), strings.HasSuffix(p, ".yml"):
		return FormatYAML
	case strings.HasSuffix(p, ".json"):
		return FormatJSON
	default:
		return FormatDecl
	}
}

// Decode converts data written in format f.
func Decode(f Format, data []byte) (*recjson.Schema, error) {
	switch f {
	case FormatYAML:
		return LoadYAML(data)
	case FormatJSON:
		return LoadJSON(data)
	case FormatDecl:
		return Parse(string(data))
	default:
		return nil, trace.BadParameter("schemadef: unknown format %q", f)
	}
}
