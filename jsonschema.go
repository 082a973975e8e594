package recjson

import (
	js "github.com/reoring/recjson/jsonschema"
)

// JSONSchema projects s into a JSON Schema describing the documents Encode
// produces for it. Every member is listed as required and nullable because
// Encode always writes every field and null dominates every kind.
// Structural errors are reported with the encoder's issue codes.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := objectSchema(s)
	out.Schema = js.Draft
	return out, nil
}

func objectSchema(s *Schema) *js.Schema {
	out := &js.Schema{
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(s.Fields)),
		AdditionalProperties: false,
	}
	for _, f := range s.Fields {
		// duplicate names collapse to the last declaration
		if _, seen := out.Properties[f.Name]; !seen {
			out.PropertyOrder = append(out.PropertyOrder, f.Name)
			out.Required = append(out.Required, f.Name)
		}
		out.Properties[f.Name] = fieldSchema(f)
	}
	return out
}

func fieldSchema(f FieldSchema) *js.Schema {
	switch f.Kind {
	case KindBoolean:
		return &js.Schema{Type: js.Nullable("boolean")}
	case KindInt32, KindInt64:
		return &js.Schema{Type: js.Nullable("integer")}
	case KindFloat32, KindFloat64:
		// non-finite values are written as strings
		return &js.Schema{Type: []string{"number", "string", "null"}}
	case KindDateTime:
		return &js.Schema{Type: js.Nullable("string"), Format: "date-time"}
	case KindOpaque, KindText:
		return &js.Schema{Type: js.Nullable("string")}
	case KindStringMap:
		return &js.Schema{
			Type:                 js.Nullable("object"),
			AdditionalProperties: &js.Schema{Type: js.Nullable("string")},
		}
	case KindRecord:
		o := objectSchema(f.Nested)
		o.Type = js.Nullable("object")
		return o
	case KindRecordSequence:
		item := objectSchema(f.Nested.Fields[0].Nested)
		return &js.Schema{Type: js.Nullable("array"), Items: item}
	default:
		return &js.Schema{}
	}
}
