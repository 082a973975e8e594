package recjson

import (
	"strconv"
	"sync"

	gojson "github.com/goccy/go-json"
)

// JSONDriver quotes strings as JSON text via a pluggable SPI. The default
// implementation is backed by goccy/go-json and may be swapped with
// SetJSONDriver or per call with EncodeOpt.Driver.
type JSONDriver interface {
	// AppendString appends s as a quoted JSON string to dst. HTML
	// characters are not escaped.
	AppendString(dst []byte, s string) []byte
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default go-json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

// CurrentJSONDriver returns the process-wide driver.
func CurrentJSONDriver() JSONDriver { return getJSONDriver() }

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// defaultJSONDriver wraps the go-json implementation.
type defaultJSONDriver struct{}

func (defaultJSONDriver) AppendString(dst []byte, s string) []byte {
	b, err := gojson.MarshalWithOption(s, gojson.DisableHTMLEscape())
	if err != nil {
		// unreachable for strings; keep output well-formed regardless
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, b...)
}

func (defaultJSONDriver) Name() string { return "go-json" }
