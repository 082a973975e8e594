// Package rowtext reads delimited text rows into records for encoding.
//
// Each line is one row. Fields are separated by a delimiter (tab by default)
// and converted according to the schema:
//
//	int, long          decimal integers ("12", "12L")
//	float, double      decimal floats ("12.0", "1.5F", "NaN")
//	boolean            true/false, case-insensitive
//	datetime           ISO-8601 ("2005-01-01T00:00:00.000Z")
//	chararray          the text as-is
//	bytearray          the raw bytes
//	map                [k1#v1,k2#v2]
//	tuple              (v1,v2)
//	bag                {(v1,v2),(v3,v4)}
//
// An empty chararray is the empty string; any other empty field is null.
// Text that cannot be converted becomes null and is reported through
// Options.OnWarning. Inside complex literals surrounding whitespace is
// ignored, so "{(foo, 12), (bar, 13)}" reads as two clean tuples.
//
// The delimiter is not interpreted inside complex literals: a row is split
// on every occurrence, as delimited storage formats do.
package rowtext
