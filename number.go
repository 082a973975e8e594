package recjson

import (
	"math"
	"strconv"
	"strings"
)

// formatFloat renders f with the shortest digits that round-trip at the given
// width (32 or 64). Magnitudes in [1e-3, 1e7) use plain notation with at least
// one fractional digit ("12.0"); others use "d.dddE±n" ("1.0E7").
// Non-finite values return "NaN", "Infinity" or "-Infinity".
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	abs := math.Abs(f)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, bitSize)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'e', -1, bitSize)
	mant, exp, _ := strings.Cut(s, "e")
	if !strings.ContainsRune(mant, '.') {
		mant += ".0"
	}
	neg := exp[0] == '-'
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		return mant + "E-" + exp
	}
	return mant + "E" + exp
}

// finite reports whether f can be written as a JSON number token.
func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
