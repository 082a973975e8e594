package recjson

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/recjson/i18n"
)

// Issue codes.
const (
	CodeMissingSchema           = "missing_schema"
	CodeMissingNestedSchema     = "missing_nested_schema"
	CodeMalformedSequenceSchema = "malformed_sequence_schema"
	CodeMalformedValue          = "malformed_value"
	CodeSchemaCycle             = "schema_cycle"
	CodeUnsupportedKind         = "unsupported_kind"
	CodeWriteError              = "write_error"
)

// Sentinels usable with errors.Is. An Issues error matches a sentinel when
// any of its entries carries the sentinel's code.
var (
	ErrMissingSchema           error = codeError(CodeMissingSchema)
	ErrMissingNestedSchema     error = codeError(CodeMissingNestedSchema)
	ErrMalformedSequenceSchema error = codeError(CodeMalformedSequenceSchema)
	ErrMalformedValue          error = codeError(CodeMalformedValue)
	ErrSchemaCycle             error = codeError(CodeSchemaCycle)
	ErrUnsupportedKind         error = codeError(CodeUnsupportedKind)
)

type codeError string

func (e codeError) Error() string { return "recjson: " + string(e) }

// Issue represents a single encoding failure.
type Issue struct {
	Path    string // JSON Pointer into the output document (for example: /B/2/v).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"want":"int", "got":"long"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of encoding errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. malformed_value at /B/0/v
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is matches the package sentinels by code.
func (iss Issues) Is(target error) bool {
	ce, ok := target.(codeError)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == string(ce) {
			return true
		}
	}
	return false
}

// Unwrap exposes the causes of the contained issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Codes returns the issue codes in order.
func (iss Issues) Codes() []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}

func singleIssue(p *pathRef, code string, kv ...any) Issues {
	return Issues{p.issue(code, kv...)}
}

func issueMessage(code string, params map[string]any) string {
	var data map[string]string
	if len(params) > 0 {
		data = make(map[string]string, len(params))
		for k, v := range params {
			data[k] = fmt.Sprint(v)
		}
	}
	return i18n.T(code, data)
}
