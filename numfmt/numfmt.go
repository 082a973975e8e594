// Package numfmt holds small number formatting helpers used alongside the
// encoder, such as two-digit date parts.
package numfmt

import (
	"strconv"

	"github.com/reoring/recjson"
)

// PadZero returns the decimal text of n left-padded with "0" to at least two
// digits. The sign stays in front: PadZero(-5) is "-05".
func PadZero(n int) string {
	if n < 0 {
		// -n overflows for math.MinInt, which already has many digits
		if n > -10 {
			return "-0" + strconv.Itoa(-n)
		}
		return strconv.Itoa(n)
	}
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// PadZeroValue applies PadZero to an Int32 or Int64 value and returns Text.
// Null stays Null; other variants are returned unchanged with ok false.
func PadZeroValue(v recjson.Value) (out recjson.Value, ok bool) {
	switch n := v.(type) {
	case recjson.Int32:
		return recjson.Text(PadZero(int(n))), true
	case recjson.Int64:
		return recjson.Text(PadZero(int(n))), true
	}
	if recjson.IsNull(v) {
		return recjson.Null{}, true
	}
	return v, false
}
