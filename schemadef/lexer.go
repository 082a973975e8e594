package schemadef

import "fmt"

type tokenType int

const (
	tokIllegal tokenType = iota
	tokEOF
	tokIdent
	tokLParen   // (
	tokRParen   // )
	tokLBrace   // {
	tokRBrace   // }
	tokLBracket // [
	tokRBracket // ]
	tokColon    // :
	tokComma    // ,
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokColon:
		return "':'"
	case tokComma:
		return "','"
	default:
		return fmt.Sprintf("illegal(%d)", int(t))
	}
}

type token struct {
	typ     tokenType
	literal string
	offset  int // byte offset into the declaration
}

// lexer splits a schema declaration into tokens. Identifiers are letters,
// digits, '_' and '$'; whitespace is insignificant.
type lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *lexer) next() token {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
	tok := token{offset: l.position}
	switch l.ch {
	case 0:
		tok.typ = tokEOF
		return tok
	case '(':
		tok.typ = tokLParen
	case ')':
		tok.typ = tokRParen
	case '{':
		tok.typ = tokLBrace
	case '}':
		tok.typ = tokRBrace
	case '[':
		tok.typ = tokLBracket
	case ']':
		tok.typ = tokRBracket
	case ':':
		tok.typ = tokColon
	case ',':
		tok.typ = tokComma
	default:
		if isIdentChar(l.ch) {
			start := l.position
			for isIdentChar(l.ch) {
				l.readChar()
			}
			tok.typ = tokIdent
			tok.literal = l.input[start:l.position]
			return tok
		}
		tok.typ = tokIllegal
	}
	tok.literal = string(l.ch)
	l.readChar()
	return tok
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
