package engine

import (
	"strconv"
)

// Kind represents JSON token kinds emitted by the Writer.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token is a single output token. String holds key/string text; Number
// holds pre-rendered number text.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
}

// Options controls the Writer.
type Options struct {
	// MaxDepth limits container nesting; values <= 0 disable the check.
	MaxDepth int
	// AppendString quotes a JSON string. Nil falls back to strconv quoting,
	// which is only suitable for ASCII.
	AppendString func(dst []byte, s string) []byte
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind  containerKind
	count int
}

// DepthError is returned when a container would exceed Options.MaxDepth.
type DepthError struct {
	Depth int
	Max   int
}

func (e DepthError) Error() string {
	return "max depth exceeded (" + strconv.Itoa(e.Depth) + " > " + strconv.Itoa(e.Max) + ")"
}

// Writer accumulates JSON text token by token into an owned buffer. It adds
// separators from its container stack, so callers only emit tokens in
// document order.
type Writer struct {
	buf   []byte
	stack []frame
	opt   Options
}

// NewWriter returns a Writer with an initial buffer capacity of sizeHint.
func NewWriter(sizeHint int, opt Options) *Writer {
	if opt.AppendString == nil {
		opt.AppendString = strconv.AppendQuote
	}
	return &Writer{buf: make([]byte, 0, sizeHint), opt: opt}
}

// WriteToken appends one token. Begin tokens fail with DepthError when the
// nesting limit is reached; nothing is written in that case.
func (w *Writer) WriteToken(t Token) error {
	switch t.Kind {
	case KindBeginObject, KindBeginArray:
		if w.opt.MaxDepth > 0 && len(w.stack)+1 > w.opt.MaxDepth {
			return DepthError{Depth: len(w.stack) + 1, Max: w.opt.MaxDepth}
		}
		w.beforeValue()
		if t.Kind == KindBeginObject {
			w.buf = append(w.buf, '{')
			w.stack = append(w.stack, frame{kind: kindObject})
		} else {
			w.buf = append(w.buf, '[')
			w.stack = append(w.stack, frame{kind: kindArray})
		}
	case KindEndObject:
		w.pop()
		w.buf = append(w.buf, '}')
	case KindEndArray:
		w.pop()
		w.buf = append(w.buf, ']')
	case KindKey:
		if n := len(w.stack); n > 0 {
			top := &w.stack[n-1]
			if top.count > 0 {
				w.buf = append(w.buf, ',')
			}
			top.count++
		}
		w.buf = w.opt.AppendString(w.buf, t.String)
		w.buf = append(w.buf, ':')
	case KindString:
		w.beforeValue()
		w.buf = w.opt.AppendString(w.buf, t.String)
	case KindNumber:
		w.beforeValue()
		w.buf = append(w.buf, t.Number...)
	case KindBool:
		w.beforeValue()
		w.buf = strconv.AppendBool(w.buf, t.Bool)
	case KindNull:
		w.beforeValue()
		w.buf = append(w.buf, "null"...)
	}
	return nil
}

// beforeValue writes the array separator; object members were already
// separated by their key.
func (w *Writer) beforeValue() {
	n := len(w.stack)
	if n == 0 {
		return
	}
	top := &w.stack[n-1]
	if top.kind == kindObject {
		return
	}
	if top.count > 0 {
		w.buf = append(w.buf, ',')
	}
	top.count++
}

func (w *Writer) pop() {
	if n := len(w.stack); n > 0 {
		w.stack = w.stack[:n-1]
	}
}

// BeginObject opens an object.
func (w *Writer) BeginObject() error { return w.WriteToken(Token{Kind: KindBeginObject}) }

// EndObject closes the innermost object.
func (w *Writer) EndObject() { _ = w.WriteToken(Token{Kind: KindEndObject}) }

// BeginArray opens an array.
func (w *Writer) BeginArray() error { return w.WriteToken(Token{Kind: KindBeginArray}) }

// EndArray closes the innermost array.
func (w *Writer) EndArray() { _ = w.WriteToken(Token{Kind: KindEndArray}) }

// Key writes an object member name.
func (w *Writer) Key(name string) { _ = w.WriteToken(Token{Kind: KindKey, String: name}) }

// String writes a string value.
func (w *Writer) String(s string) { _ = w.WriteToken(Token{Kind: KindString, String: s}) }

// Number writes pre-rendered number text verbatim.
func (w *Writer) Number(s string) { _ = w.WriteToken(Token{Kind: KindNumber, Number: s}) }

// Bool writes true or false.
func (w *Writer) Bool(b bool) { _ = w.WriteToken(Token{Kind: KindBool, Bool: b}) }

// Null writes null.
func (w *Writer) Null() { _ = w.WriteToken(Token{Kind: KindNull}) }

// Depth returns the number of open containers.
func (w *Writer) Depth() int { return len(w.stack) }

// Bytes returns the accumulated text. The slice aliases the internal buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Reset discards all output and open containers, keeping the buffer.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.stack = w.stack[:0]
}
