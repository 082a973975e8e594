package rowtext

import (
	"strconv"
	"strings"

	"github.com/gravitational/trace"
	"github.com/relvacode/iso8601"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/i18n"
)

// CodeInvalidLiteral is the Issue code of conversion warnings.
const CodeInvalidLiteral = "invalid_literal"

// DefaultDelimiter separates top-level fields.
const DefaultDelimiter = "\t"

// Warning reports text that could not be converted and was read as null.
type Warning struct {
	Line  int // 1-based line number; 0 outside a Reader
	Issue recjson.Issue
}

// Options configures row parsing.
type Options struct {
	// Delimiter separates top-level fields. Empty selects DefaultDelimiter.
	Delimiter string
	// OnWarning receives conversion warnings. Nil discards them.
	OnWarning func(Warning)
}

// Parser converts row text into records for one schema.
type Parser struct {
	schema *recjson.Schema
	opt    Options
	line   int
}

// NewParser returns a Parser for s. The schema must pass Validate.
func NewParser(s *recjson.Schema, opts ...Options) (*Parser, error) {
	if err := s.Validate(); err != nil {
		return nil, trace.BadParameter("rowtext: invalid schema: %v", err)
	}
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Delimiter == "" {
		opt.Delimiter = DefaultDelimiter
	}
	return &Parser{schema: s, opt: opt}, nil
}

// Schema returns the schema rows are parsed with.
func (p *Parser) Schema() *recjson.Schema { return p.schema }

// ParseLine converts one row. An empty line yields an empty record, which
// encodes to nothing. Missing trailing fields are null and extra fields are
// dropped.
func (p *Parser) ParseLine(line string) recjson.Record {
	if line == "" {
		return recjson.Record{}
	}
	parts := strings.Split(line, p.opt.Delimiter)
	out := make(recjson.Record, len(p.schema.Fields))
	for i := range p.schema.Fields {
		f := &p.schema.Fields[i]
		if i >= len(parts) {
			out[i] = recjson.Null{}
			continue
		}
		out[i] = p.convert("/"+escape(f.Name), f, parts[i], false)
	}
	return out
}

// convert reads raw as a value of f's kind. Inside complex literals
// (nested is true) surrounding whitespace is dropped first.
func (p *Parser) convert(path string, f *recjson.FieldSchema, raw string, nested bool) recjson.Value {
	if nested {
		raw = strings.TrimSpace(raw)
	}
	if raw == "" {
		if f.Kind == recjson.KindText {
			return recjson.Text("")
		}
		return recjson.Null{}
	}

	switch f.Kind {
	case recjson.KindText:
		return recjson.Text(raw)
	case recjson.KindOpaque:
		return recjson.Opaque(raw)
	case recjson.KindBoolean:
		switch {
		case strings.EqualFold(strings.TrimSpace(raw), "true"):
			return recjson.Bool(true)
		case strings.EqualFold(strings.TrimSpace(raw), "false"):
			return recjson.Bool(false)
		}
	case recjson.KindInt32:
		if n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32); err == nil {
			return recjson.Int32(n)
		}
	case recjson.KindInt64:
		s := trimTypeSuffix(strings.TrimSpace(raw), "Ll")
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return recjson.Int64(n)
		}
	case recjson.KindFloat32:
		s := trimTypeSuffix(strings.TrimSpace(raw), "Ff")
		if x, err := strconv.ParseFloat(s, 32); err == nil {
			return recjson.Float32(x)
		}
	case recjson.KindFloat64:
		s := trimTypeSuffix(strings.TrimSpace(raw), "Dd")
		if x, err := strconv.ParseFloat(s, 64); err == nil {
			return recjson.Float64(x)
		}
	case recjson.KindDateTime:
		if t, err := iso8601.ParseString(strings.TrimSpace(raw)); err == nil {
			return recjson.DateTime(t)
		}
	case recjson.KindStringMap:
		if m, ok := p.stringMap(path, strings.TrimSpace(raw)); ok {
			return m
		}
	case recjson.KindRecord:
		if r, ok := p.tuple(path, f.Nested, strings.TrimSpace(raw)); ok {
			return r
		}
	case recjson.KindRecordSequence:
		if seq, ok := p.bag(path, f.Nested.Fields[0].Nested, strings.TrimSpace(raw)); ok {
			return seq
		}
	}
	p.warn(path, f.Kind, raw)
	return recjson.Null{}
}

// tuple reads "(v1,v2,...)".
func (p *Parser) tuple(path string, s *recjson.Schema, raw string) (recjson.Record, bool) {
	inner, ok := enclosed(raw, '(', ')')
	if !ok {
		return nil, false
	}
	parts := splitTop(inner, ',')
	out := make(recjson.Record, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if i >= len(parts) {
			out[i] = recjson.Null{}
			continue
		}
		out[i] = p.convert(path+"/"+escape(f.Name), f, parts[i], true)
	}
	return out, true
}

// bag reads "{(..),(..)}". Elements that are not tuples are reported and
// skipped.
func (p *Parser) bag(path string, elem *recjson.Schema, raw string) (recjson.RecordSequence, bool) {
	inner, ok := enclosed(raw, '{', '}')
	if !ok {
		return nil, false
	}
	out := recjson.RecordSequence{}
	if strings.TrimSpace(inner) == "" {
		return out, true
	}
	for i, part := range splitTop(inner, ',') {
		ep := path + "/" + strconv.Itoa(i)
		r, ok := p.tuple(ep, elem, strings.TrimSpace(part))
		if !ok {
			p.warn(ep, recjson.KindRecord, part)
			continue
		}
		out = append(out, r)
	}
	return out, true
}

// stringMap reads "[k1#v1,k2#v2]". Values stay text; an empty value is null.
func (p *Parser) stringMap(path string, raw string) (recjson.StringMap, bool) {
	inner, ok := enclosed(raw, '[', ']')
	if !ok {
		return nil, false
	}
	out := recjson.StringMap{}
	if strings.TrimSpace(inner) == "" {
		return out, true
	}
	for _, entry := range splitTop(inner, ',') {
		k, v, found := strings.Cut(entry, "#")
		k = strings.TrimSpace(k)
		if !found || k == "" {
			p.warn(path, recjson.KindStringMap, entry)
			continue
		}
		if v = strings.TrimSpace(v); v == "" {
			out[k] = recjson.Null{}
		} else {
			out[k] = recjson.Text(v)
		}
	}
	return out, true
}

func (p *Parser) warn(path string, k recjson.Kind, raw string) {
	if p.opt.OnWarning == nil {
		return
	}
	params := map[string]any{"kind": k.String(), "text": raw}
	p.opt.OnWarning(Warning{
		Line: p.line,
		Issue: recjson.Issue{
			Path:    path,
			Code:    CodeInvalidLiteral,
			Message: i18n.T(CodeInvalidLiteral, map[string]string{"kind": k.String(), "text": raw}),
			Params:  params,
		},
	})
}

// trimTypeSuffix drops a literal type marker such as the L of "12L".
func trimTypeSuffix(s, markers string) string {
	n := len(s)
	if n < 2 || strings.IndexByte(markers, s[n-1]) < 0 {
		return s
	}
	if c := s[n-2]; c == '.' || ('0' <= c && c <= '9') {
		return s[:n-1]
	}
	return s
}

// enclosed strips the open/close pair around s.
func enclosed(s string, open, close byte) (string, bool) {
	if len(s) < 2 || s[0] != open || s[len(s)-1] != close {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// splitTop splits s on sep where sep is not nested inside (), {} or [].
func splitTop(s string, sep byte) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '(' || c == '{' || c == '[':
			depth++
		case c == ')' || c == '}' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// escape renders a JSON Pointer segment.
func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
