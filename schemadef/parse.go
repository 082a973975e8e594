package schemadef

import (
	"github.com/gravitational/trace"

	"github.com/reoring/recjson"
)

// DefaultElementName names the element record of a bag declared without one,
// as in "B: bag{(v:int)}".
const DefaultElementName = "t"

// maxNesting bounds tuple/bag nesting in a declaration.
const maxNesting = 256

// Parse reads a record-schema declaration such as
//
//	B: bag{T: tuple(v:int)}, name: chararray, m: map[]
//
// Type names are case-insensitive and accept the aliases of
// recjson.ParseKind. "(...)" is shorthand for "tuple(...)" and "{...}" for
// "bag{...}". The whole declaration may be wrapped in one pair of
// parentheses. The result always passes Schema.Validate.
func Parse(decl string) (*recjson.Schema, error) {
	p := newParser(decl)
	wrapped := p.cur.typ == tokLParen
	if wrapped {
		p.advance()
	}
	fields, err := p.fields(closerFor(wrapped))
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if wrapped {
		if err := p.expect(tokRParen); err != nil {
			return nil, trace.Wrap(err)
		}
	}
	if p.cur.typ != tokEOF {
		return nil, p.errorf("unexpected %s after declaration", p.describe())
	}
	return recjson.NewSchema(fields...), nil
}

// MustParse is Parse for declarations known to be valid; it panics on error.
func MustParse(decl string) *recjson.Schema {
	s, err := Parse(decl)
	if err != nil {
		panic(err)
	}
	return s
}

func closerFor(wrapped bool) tokenType {
	if wrapped {
		return tokRParen
	}
	return tokEOF
}

type parser struct {
	l     *lexer
	decl  string
	cur   token
	depth int
}

func newParser(decl string) *parser {
	p := &parser{l: newLexer(decl), decl: decl}
	p.advance()
	return p
}

func (p *parser) advance() { p.cur = p.l.next() }

func (p *parser) describe() string {
	if p.cur.typ == tokIdent || p.cur.typ == tokIllegal {
		return "'" + p.cur.literal + "'"
	}
	return p.cur.typ.String()
}

func (p *parser) errorf(format string, args ...any) error {
	args = append(args, p.cur.offset, p.decl)
	return trace.BadParameter("schemadef: "+format+" at offset %d in %q", args...)
}

func (p *parser) expect(t tokenType) error {
	if p.cur.typ != t {
		return p.errorf("expected %s, got %s", t, p.describe())
	}
	p.advance()
	return nil
}

// fields parses "name: type (, name: type)*" up to (not including) closer.
// An empty list is allowed.
func (p *parser) fields(closer tokenType) ([]recjson.FieldSchema, error) {
	var out []recjson.FieldSchema
	if p.cur.typ == closer {
		return out, nil
	}
	for {
		f, err := p.field()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
		if p.cur.typ != tokComma {
			return out, nil
		}
		p.advance()
	}
}

func (p *parser) field() (recjson.FieldSchema, error) {
	if p.cur.typ != tokIdent {
		return recjson.FieldSchema{}, p.errorf("expected field name, got %s", p.describe())
	}
	name := p.cur.literal
	p.advance()
	if err := p.expect(tokColon); err != nil {
		return recjson.FieldSchema{}, err
	}
	kind, nested, err := p.typ()
	if err != nil {
		return recjson.FieldSchema{}, err
	}
	return recjson.FieldSchema{Name: name, Kind: kind, Nested: nested}, nil
}

func (p *parser) typ() (recjson.Kind, *recjson.Schema, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNesting {
		return 0, nil, p.errorf("nesting deeper than %d", maxNesting)
	}

	switch p.cur.typ {
	case tokLParen:
		s, err := p.tupleBody()
		return recjson.KindRecord, s, err
	case tokLBrace:
		s, err := p.bagBody()
		return recjson.KindRecordSequence, s, err
	case tokIdent:
	default:
		return 0, nil, p.errorf("expected type, got %s", p.describe())
	}

	name := p.cur.literal
	kind, ok := recjson.ParseKind(name)
	if !ok {
		return 0, nil, p.errorf("unknown type %q", name)
	}
	p.advance()
	switch kind {
	case recjson.KindRecord:
		if p.cur.typ != tokLParen {
			return 0, nil, p.errorf("expected '(' after %s, got %s", name, p.describe())
		}
		s, err := p.tupleBody()
		return kind, s, err
	case recjson.KindRecordSequence:
		if p.cur.typ != tokLBrace {
			return 0, nil, p.errorf("expected '{' after %s, got %s", name, p.describe())
		}
		s, err := p.bagBody()
		return kind, s, err
	case recjson.KindStringMap:
		// map[] or map[valuetype]; values are rendered as text either way
		if p.cur.typ == tokLBracket {
			p.advance()
			if p.cur.typ != tokRBracket {
				if _, _, err := p.typ(); err != nil {
					return 0, nil, err
				}
			}
			if err := p.expect(tokRBracket); err != nil {
				return 0, nil, err
			}
		}
	}
	return kind, nil, nil
}

// tupleBody parses "( fields )".
func (p *parser) tupleBody() (*recjson.Schema, error) {
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	fields, err := p.fields(tokRParen)
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return recjson.NewSchema(fields...), nil
}

// bagBody parses "{ [name:] tuple }" and returns the one-field schema that
// wraps the element record.
func (p *parser) bagBody() (*recjson.Schema, error) {
	if err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	name := DefaultElementName
	if p.cur.typ == tokIdent && !isTupleKeyword(p.cur.literal) {
		name = p.cur.literal
		p.advance()
		if err := p.expect(tokColon); err != nil {
			return nil, err
		}
	}
	if p.cur.typ == tokIdent {
		if !isTupleKeyword(p.cur.literal) {
			return nil, p.errorf("bag element must be a tuple, got %s", p.describe())
		}
		p.advance()
	}
	if p.cur.typ != tokLParen {
		return nil, p.errorf("bag element must be a tuple, got %s", p.describe())
	}
	elem, err := p.tupleBody()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return recjson.NewSchema(recjson.FieldSchema{Name: name, Kind: recjson.KindRecord, Nested: elem}), nil
}

func isTupleKeyword(s string) bool {
	k, ok := recjson.ParseKind(s)
	return ok && k == recjson.KindRecord
}
