// Package parser implements C4, the recursive-descent parser that turns
// a JSON byte slice into an internal/arena.Document. It calls through
// internal/simd's dispatch table (C1) on its hot spans -- string
// content scanning, whitespace skipping, and decimal digit runs -- so
// the same parser automatically benefits from whatever tier C1 selected
// for the host CPU, per spec.md's C4 description.
package parser

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/jsonasm/jsonasm-go/internal/arena"
	"github.com/jsonasm/jsonasm-go/internal/simd"
)

// Options controls parse behavior. The zero value is strict RFC 8259
// with unlimited nesting depth, matching JSON_PARSE_DEFAULT.
type Options struct {
	// MaxDepth caps container nesting; 0 means unlimited.
	MaxDepth int
	// AllowComments permits // and /* */ comments between tokens.
	AllowComments bool
	// AllowTrailingCommas permits a trailing comma before ] or }.
	AllowTrailingCommas bool
	// AllowInfNaN permits the bare identifiers Infinity, -Infinity and
	// NaN as float values. It does not relax the existing rule that an
	// ordinary numeric literal overflowing to infinity is a number
	// error.
	AllowInfNaN bool
}

type ctx struct {
	data  []byte
	pos   int
	depth int
	opts  Options
	doc   *arena.Document
	ops   *simd.Ops
}

// Parse parses data and returns the resulting document, or the first
// error encountered.
func Parse(data []byte, opts Options) (*arena.Document, error) {
	c := &ctx{
		data: data,
		opts: opts,
		doc:  arena.NewDocument(len(data)/4 + 1),
		ops:  simd.Current(),
	}
	c.skipWS()
	root, err := c.parseValue()
	if err != nil {
		return nil, err
	}
	c.doc.SetRoot(root)
	c.skipWS()
	if c.pos < len(c.data) {
		return nil, c.errorAt(ErrSyntax, c.pos, "trailing content after value")
	}
	return c.doc, nil
}

func (c *ctx) skipWS() {
	for {
		c.pos += c.ops.FindStructural(c.data[c.pos:])
		if !c.opts.AllowComments || c.pos >= len(c.data) || c.data[c.pos] != '/' || c.pos+1 >= len(c.data) {
			return
		}
		switch c.data[c.pos+1] {
		case '/':
			c.pos += 2
			for c.pos < len(c.data) && c.data[c.pos] != '\n' {
				c.pos++
			}
		case '*':
			c.pos += 2
			for c.pos+1 < len(c.data) && !(c.data[c.pos] == '*' && c.data[c.pos+1] == '/') {
				c.pos++
			}
			c.pos += 2
			if c.pos > len(c.data) {
				c.pos = len(c.data)
			}
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (c *ctx) consumeLiteral(lit string) bool {
	if len(c.data)-c.pos < len(lit) {
		return false
	}
	if string(c.data[c.pos:c.pos+len(lit)]) != lit {
		return false
	}
	c.pos += len(lit)
	return true
}

func (c *ctx) parseValue() (arena.Ref, error) {
	if c.pos >= len(c.data) {
		return arena.NullRef, c.errorAt(ErrSyntax, c.pos, "unexpected end of input")
	}
	switch c.data[c.pos] {
	case '{':
		return c.parseObject()
	case '[':
		return c.parseArray()
	case '"':
		return c.parseString()
	case 't':
		if c.consumeLiteral("true") {
			return c.doc.AllocBool(true), nil
		}
	case 'f':
		if c.consumeLiteral("false") {
			return c.doc.AllocBool(false), nil
		}
	case 'n':
		if c.consumeLiteral("null") {
			return c.doc.AllocNull(), nil
		}
	case 'I':
		if c.opts.AllowInfNaN && c.consumeLiteral("Infinity") {
			return c.doc.AllocFloat(math.Inf(1)), nil
		}
	case 'N':
		if c.opts.AllowInfNaN && c.consumeLiteral("NaN") {
			return c.doc.AllocFloat(math.NaN()), nil
		}
	case '-':
		if c.opts.AllowInfNaN && c.consumeLiteral("-Infinity") {
			return c.doc.AllocFloat(math.Inf(-1)), nil
		}
		return c.parseNumber()
	default:
		if isDigit(c.data[c.pos]) {
			return c.parseNumber()
		}
	}
	return arena.NullRef, c.errorAt(ErrSyntax, c.pos, "unexpected character")
}

func (c *ctx) parseArray() (arena.Ref, error) {
	openPos := c.pos
	if c.opts.MaxDepth > 0 && c.depth >= c.opts.MaxDepth {
		return arena.NullRef, c.errorAt(ErrDepth, openPos, "maximum nesting depth exceeded")
	}
	c.depth++
	defer func() { c.depth-- }()

	c.pos++ // consume '['
	arr := c.doc.AllocArray()
	c.skipWS()
	if c.pos < len(c.data) && c.data[c.pos] == ']' {
		c.pos++
		return arr, nil
	}

	prev := arena.NullRef
	for {
		c.skipWS()
		elem, err := c.parseValue()
		if err != nil {
			return arena.NullRef, err
		}
		if prev == arena.NullRef {
			c.doc.SetChild(arr, elem)
		} else {
			c.doc.LinkSibling(prev, elem)
		}
		prev = elem

		c.skipWS()
		if c.pos >= len(c.data) {
			return arena.NullRef, c.errorAt(ErrSyntax, c.pos, "unterminated array")
		}
		switch c.data[c.pos] {
		case ',':
			c.pos++
			c.skipWS()
			if c.opts.AllowTrailingCommas && c.pos < len(c.data) && c.data[c.pos] == ']' {
				c.pos++
				return arr, nil
			}
		case ']':
			c.pos++
			return arr, nil
		default:
			return arena.NullRef, c.errorAt(ErrSyntax, c.pos, "expected ',' or ']'")
		}
	}
}

func (c *ctx) parseObject() (arena.Ref, error) {
	openPos := c.pos
	if c.opts.MaxDepth > 0 && c.depth >= c.opts.MaxDepth {
		return arena.NullRef, c.errorAt(ErrDepth, openPos, "maximum nesting depth exceeded")
	}
	c.depth++
	defer func() { c.depth-- }()

	c.pos++ // consume '{'
	obj := c.doc.AllocObject()
	c.skipWS()
	if c.pos < len(c.data) && c.data[c.pos] == '}' {
		c.pos++
		return obj, nil
	}

	prevKey := arena.NullRef
	for {
		c.skipWS()
		if c.pos >= len(c.data) || c.data[c.pos] != '"' {
			return arena.NullRef, c.errorAt(ErrSyntax, c.pos, "expected string key")
		}
		key, err := c.parseString()
		if err != nil {
			return arena.NullRef, err
		}

		c.skipWS()
		if c.pos >= len(c.data) || c.data[c.pos] != ':' {
			return arena.NullRef, c.errorAt(ErrSyntax, c.pos, "expected ':'")
		}
		c.pos++
		c.skipWS()

		val, err := c.parseValue()
		if err != nil {
			return arena.NullRef, err
		}
		c.doc.SetMemberValue(key, val)
		if prevKey == arena.NullRef {
			c.doc.SetChild(obj, key)
		} else {
			c.doc.LinkSibling(prevKey, key)
		}
		prevKey = key

		c.skipWS()
		if c.pos >= len(c.data) {
			return arena.NullRef, c.errorAt(ErrSyntax, c.pos, "unterminated object")
		}
		switch c.data[c.pos] {
		case ',':
			c.pos++
			c.skipWS()
			if c.opts.AllowTrailingCommas && c.pos < len(c.data) && c.data[c.pos] == '}' {
				c.pos++
				return obj, nil
			}
		case '}':
			c.pos++
			return obj, nil
		default:
			return arena.NullRef, c.errorAt(ErrSyntax, c.pos, "expected ',' or '}'")
		}
	}
}

// parseNumber implements RFC 8259's number grammar exactly: an optional
// '-', an integer part that is either "0" or a non-zero digit followed
// by more digits (leading zeros are rejected), an optional fractional
// part, and an optional exponent. A non-zero integer part's leading
// digits are consumed with C3's parse_int_lane primitive and any further
// digits byte by byte; the lane's value is not used. The final value
// always comes from strconv parsing the whole literal.
func (c *ctx) parseNumber() (arena.Ref, error) {
	start := c.pos
	if c.pos < len(c.data) && c.data[c.pos] == '-' {
		c.pos++
	}
	if c.pos >= len(c.data) || !isDigit(c.data[c.pos]) {
		return arena.NullRef, c.errorAt(ErrNumber, start, "invalid number")
	}

	if c.data[c.pos] == '0' {
		c.pos++
		if c.pos < len(c.data) && isDigit(c.data[c.pos]) {
			return arena.NullRef, c.errorAt(ErrNumber, start, "leading zero not allowed")
		}
	} else {
		_, consumed, ok := c.ops.ParseIntLane(c.data[c.pos:])
		if !ok {
			return arena.NullRef, c.errorAt(ErrNumber, start, "invalid number")
		}
		c.pos += consumed
		for c.pos < len(c.data) && isDigit(c.data[c.pos]) {
			c.pos++
		}
	}

	isFloat := false
	if c.pos < len(c.data) && c.data[c.pos] == '.' {
		isFloat = true
		c.pos++
		fracStart := c.pos
		for c.pos < len(c.data) && isDigit(c.data[c.pos]) {
			c.pos++
		}
		if c.pos == fracStart {
			return arena.NullRef, c.errorAt(ErrNumber, start, "invalid number")
		}
	}
	if c.pos < len(c.data) && (c.data[c.pos] == 'e' || c.data[c.pos] == 'E') {
		isFloat = true
		c.pos++
		if c.pos < len(c.data) && (c.data[c.pos] == '+' || c.data[c.pos] == '-') {
			c.pos++
		}
		expStart := c.pos
		for c.pos < len(c.data) && isDigit(c.data[c.pos]) {
			c.pos++
		}
		if c.pos == expStart {
			return arena.NullRef, c.errorAt(ErrNumber, start, "invalid number")
		}
	}

	lit := string(c.data[start:c.pos])
	if !isFloat {
		if v, err := strconv.ParseInt(lit, 10, 64); err == nil && arena.FitsInt60(v) {
			return c.doc.AllocInt(v), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return arena.NullRef, c.errorAt(ErrNumber, start, "number out of range")
	}
	return c.doc.AllocFloat(f), nil
}

// parseString implements the two-pass design: a first pass (C3's
// scan_string) measures the raw content length and notices whether any
// escape is present at all; if none is, the raw bytes are stored
// directly with no second allocation. Only strings containing an escape
// pay for the second, decoding pass.
func (c *ctx) parseString() (arena.Ref, error) {
	start := c.pos
	c.pos++ // consume opening quote
	length, hasEscape, ok := c.ops.ScanString(c.data[c.pos:])
	if !ok {
		// ScanString stops short (rather than running off the end of
		// data) only when it hit a bare control byte; that's the one
		// case c.pos+length still points at a real byte. Otherwise it
		// ran out of input looking for the closing quote.
		if c.pos+length < len(c.data) {
			return arena.NullRef, c.errorAt(ErrString, c.pos+length, "control character in string")
		}
		return arena.NullRef, c.errorAt(ErrString, start, "unterminated string")
	}
	raw := c.data[c.pos : c.pos+length]
	c.pos += length + 1 // content plus closing quote

	if !hasEscape {
		return c.doc.AllocString(raw), nil
	}
	decoded, err := c.decodeEscapes(raw, start)
	if err != nil {
		return arena.NullRef, err
	}
	return c.doc.AllocString(decoded), nil
}

func (c *ctx) decodeEscapes(raw []byte, start int) ([]byte, error) {
	out := make([]byte, 0, len(raw))
	i := 0
	for i < len(raw) {
		ch := raw[i]
		if ch != '\\' {
			out = append(out, ch)
			i++
			continue
		}
		i++
		if i >= len(raw) {
			return nil, c.errorAt(ErrString, start, "truncated escape sequence")
		}
		switch raw[i] {
		case '"':
			out = append(out, '"')
			i++
		case '\\':
			out = append(out, '\\')
			i++
		case '/':
			out = append(out, '/')
			i++
		case 'b':
			out = append(out, '\b')
			i++
		case 'f':
			out = append(out, '\f')
			i++
		case 'n':
			out = append(out, '\n')
			i++
		case 'r':
			out = append(out, '\r')
			i++
		case 't':
			out = append(out, '\t')
			i++
		case 'u':
			r, consumed, err := c.decodeUnicodeEscape(raw, i+1, start)
			if err != nil {
				return nil, err
			}
			i += 1 + consumed
			out = utf8.AppendRune(out, r)
		default:
			return nil, c.errorAt(ErrString, start, "invalid escape character")
		}
	}
	return out, nil
}

// decodeUnicodeEscape parses a \u escape's 4 hex digits at raw[pos:] and,
// if it is a UTF-16 high surrogate, the following \u escape as its low
// surrogate, combining them per the standard surrogate-pair formula:
// 0x10000 + ((hi-0xD800)<<10) + (lo-0xDC00). consumed is the number of
// raw bytes consumed starting at pos (4 for a lone escape, 10 for a
// pair: 4 hex digits + "\u" + 4 hex digits).
func (c *ctx) decodeUnicodeEscape(raw []byte, pos, start int) (rune, int, error) {
	hi, err := parseHex4(c, raw, pos, start)
	if err != nil {
		return 0, 0, err
	}
	switch {
	case hi >= 0xD800 && hi <= 0xDBFF:
		if pos+6 <= len(raw) && raw[pos+4] == '\\' && raw[pos+5] == 'u' {
			lo, err := parseHex4(c, raw, pos+6, start)
			if err == nil && lo >= 0xDC00 && lo <= 0xDFFF {
				r := rune(0x10000 + (int(hi-0xD800)<<10) + int(lo-0xDC00))
				return r, 10, nil
			}
		}
		return 0, 0, c.errorAt(ErrString, start, "unpaired UTF-16 surrogate")
	case hi >= 0xDC00 && hi <= 0xDFFF:
		return 0, 0, c.errorAt(ErrString, start, "unpaired UTF-16 surrogate")
	default:
		return rune(hi), 4, nil
	}
}

func parseHex4(c *ctx, raw []byte, pos, start int) (uint16, error) {
	if pos+4 > len(raw) {
		return 0, c.errorAt(ErrString, start, "truncated unicode escape")
	}
	v, err := strconv.ParseUint(string(raw[pos:pos+4]), 16, 16)
	if err != nil {
		return 0, c.errorAt(ErrString, start, "invalid unicode escape")
	}
	return uint16(v), nil
}
