// Package stdjson provides a recjson.JSONDriver backed by encoding/json.
package stdjson

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/reoring/recjson"
)

// Driver returns a recjson.JSONDriver that quotes strings with encoding/json
// (HTML escaping disabled).
func Driver() recjson.JSONDriver { return driver{} }

type driver struct{}

func (driver) AppendString(dst []byte, s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// unreachable for strings; keep output well-formed regardless
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})...)
}

func (driver) Name() string { return "encoding/json" }
