// Package simd implements the byte-classification primitives C3 names
// (scan_string, find_structural, parse_int_lane) together with C1's
// feature-gated dispatch table that picks, once per process, which tier
// of each primitive internal/parser calls on its hot paths.
//
// Every primitive has a scalar reference implementation (this file,
// grounded on original_source/src/parse.c's own scalar routines) and a
// portable word-at-a-time ("vector") tier (vector.go) that every
// non-scalar dispatch slot uses. spec.md's design notes explicitly treat
// SWAR as a legitimate stand-in for real vector assembly as long as
// every tier produces identical results on every input; this module
// takes that option rather than shipping unbacked assembly stubs.
package simd

// ScanStringScalar scans string content starting at data[0] -- the
// opening quote is assumed already consumed by the caller -- and
// returns the number of content bytes up to (not including) the first
// unescaped closing quote, together with whether any backslash escape
// was seen along the way. ok is false if no unescaped closing quote is
// found before data runs out, or if a byte < 0x20 (a bare control
// character, invalid in a JSON string per spec.md §4.3/§4.4) is seen
// first -- in that case length is the offset of the offending byte, not
// of a closing quote, so the caller can tell the two failures apart.
func ScanStringScalar(data []byte) (length int, hasEscape bool, ok bool) {
	i := 0
	for i < len(data) {
		c := data[i]
		if c == '"' {
			return i, hasEscape, true
		}
		if c < 0x20 {
			return i, hasEscape, false
		}
		if c == '\\' {
			hasEscape = true
			i += 2
			continue
		}
		i++
	}
	return i, hasEscape, false
}

// FindStructuralScalar returns the number of leading JSON whitespace
// bytes (space, tab, newline, carriage return) in data.
func FindStructuralScalar(data []byte) int {
	i := 0
	for i < len(data) {
		switch data[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// maxLaneDigits caps single-lane accumulation comfortably inside int64
// range (18 decimal digits never overflows), leaving any further digits
// for the caller's overflow/float-promotion handling.
const maxLaneDigits = 18

// ParseIntLaneScalar parses a run of ASCII decimal digits from the start
// of data into an int64, stopping at the first non-digit byte or after
// maxLaneDigits digits. ok is false if data doesn't start with a digit.
func ParseIntLaneScalar(data []byte) (value int64, consumed int, ok bool) {
	limit := len(data)
	if limit > maxLaneDigits {
		limit = maxLaneDigits
	}
	for consumed < limit {
		c := data[consumed]
		if c < '0' || c > '9' {
			break
		}
		value = value*10 + int64(c-'0')
		consumed++
	}
	return value, consumed, consumed > 0
}
