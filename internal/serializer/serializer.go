// Package serializer implements C5, the streaming emitter that turns an
// internal/arena.Document value back into JSON bytes. It is grounded on
// original_source/src/stringify.c, fixing the one place that file's
// behavior diverges from its own declared options: escape_slash and
// escape_unicode are declared in json_asm.h but never actually consulted
// by stringify_string. This package implements both for real.
package serializer

import (
	"strconv"
	"unicode/utf8"

	"github.com/jsonasm/jsonasm-go/internal/arena"
)

// Options controls stringify behavior. The zero value is compact
// (minified) output with UTF-8 passed through, matching
// JSON_STRINGIFY_DEFAULT.
type Options struct {
	// Pretty enables indentation and newlines between container members.
	Pretty bool
	// Indent is the number of spaces per nesting level when Pretty is
	// set. 0 with Pretty set still separates members onto their own
	// line, just with no leading indentation.
	Indent int
	// Newline is inserted between pretty-printed members; defaults to
	// "\n" if empty and Pretty is set.
	Newline string
	// EscapeSlash turns '/' into '\/' in string output.
	EscapeSlash bool
	// EscapeUnicode decodes any byte >= 0x80 back to its code point and
	// emits \uXXXX (a UTF-16 surrogate pair above U+FFFF) instead of
	// passing the UTF-8 bytes through.
	EscapeUnicode bool
}

// buffer is the serializer's own output buffer. It starts with the same
// 1024-byte capacity as stringify.c's strbuf; growth beyond that is left
// to Go's append.
type buffer struct {
	data []byte
}

const bufferInitialCapacity = 1024

func newBuffer() *buffer {
	return &buffer{data: make([]byte, 0, bufferInitialCapacity)}
}

func (b *buffer) writeByte(c byte) { b.data = append(b.data, c) }
func (b *buffer) writeString(s string) { b.data = append(b.data, s...) }
func (b *buffer) writeBytes(p []byte) { b.data = append(b.data, p...) }

// Stringify renders the value at ref into newly allocated bytes.
func Stringify(doc *arena.Document, ref arena.Ref, opts Options) []byte {
	b := newBuffer()
	w := &writer{doc: doc, opts: normalizeOptions(opts), buf: b}
	w.writeValue(ref, 0)
	return b.data
}

func normalizeOptions(opts Options) Options {
	if opts.Pretty && opts.Newline == "" {
		opts.Newline = "\n"
	}
	return opts
}

type writer struct {
	doc  *arena.Document
	opts Options
	buf  *buffer
}

func (w *writer) newlineAndIndent(depth int) {
	if !w.opts.Pretty {
		return
	}
	w.buf.writeString(w.opts.Newline)
	for i := 0; i < depth*w.opts.Indent; i++ {
		w.buf.writeByte(' ')
	}
}

func (w *writer) writeValue(ref arena.Ref, depth int) {
	switch w.doc.Type(ref) {
	case arena.TagNull:
		w.buf.writeString("null")
	case arena.TagTrue:
		w.buf.writeString("true")
	case arena.TagFalse:
		w.buf.writeString("false")
	case arena.TagInt:
		w.buf.data = strconv.AppendInt(w.buf.data, w.doc.Int(ref), 10)
	case arena.TagFloat:
		w.writeFloat(w.doc.Float(ref))
	case arena.TagShortString, arena.TagLongString:
		w.writeQuotedString(w.doc.Str(ref))
	case arena.TagArray:
		w.writeArray(ref, depth)
	case arena.TagObject:
		w.writeObject(ref, depth)
	}
}

// writeFloat uses the shortest round-trippable decimal representation,
// the idiomatic Go choice (strconv.AppendFloat with precision -1), same
// as the teacher's encoder.go. NaN and +/-Inf, which JSON has no literal
// for, are emitted as null -- the only value every consumer of this
// serializer's output can parse back without a nonstandard extension.
func (w *writer) writeFloat(f float64) {
	if f != f { // NaN
		w.buf.writeString("null")
		return
	}
	if f > maxFloat || f < -maxFloat {
		w.buf.writeString("null")
		return
	}
	w.buf.data = strconv.AppendFloat(w.buf.data, f, 'g', -1, 64)
}

const maxFloat = 1.7976931348623157e+308

func (w *writer) writeArray(ref arena.Ref, depth int) {
	w.buf.writeByte('[')
	first := true
	for e := w.doc.Child(ref); e != arena.NullRef; e = w.doc.Next(e) {
		if !first {
			w.buf.writeByte(',')
		}
		first = false
		w.newlineAndIndent(depth + 1)
		w.writeValue(e, depth+1)
	}
	if !first {
		w.newlineAndIndent(depth)
	}
	w.buf.writeByte(']')
}

func (w *writer) writeObject(ref arena.Ref, depth int) {
	w.buf.writeByte('{')
	first := true
	for k := w.doc.Child(ref); k != arena.NullRef; k = w.doc.Next(k) {
		if !first {
			w.buf.writeByte(',')
		}
		first = false
		w.newlineAndIndent(depth + 1)
		w.writeQuotedString(w.doc.Key(k))
		w.buf.writeByte(':')
		if w.opts.Pretty {
			w.buf.writeByte(' ')
		}
		w.writeValue(w.doc.Value(k), depth+1)
	}
	if !first {
		w.newlineAndIndent(depth)
	}
	w.buf.writeByte('}')
}

func (w *writer) writeQuotedString(s string) {
	w.buf.data = AppendEscapedString(w.buf.data, s, w.opts.EscapeSlash, w.opts.EscapeUnicode)
}

const hexDigits = "0123456789abcdef"

// AppendEscapedString appends s to dst as a quoted, escaped JSON string
// literal. It is exported so the outer Marshal shell (encoder.go) can
// reuse the exact same escaping rules instead of maintaining a second
// implementation.
func AppendEscapedString(dst []byte, s string, escapeSlash, escapeUnicode bool) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			dst = append(dst, '\\', '"')
			i++
		case c == '\\':
			dst = append(dst, '\\', '\\')
			i++
		case c == '/' && escapeSlash:
			dst = append(dst, '\\', '/')
			i++
		case c == '\b':
			dst = append(dst, '\\', 'b')
			i++
		case c == '\f':
			dst = append(dst, '\\', 'f')
			i++
		case c == '\n':
			dst = append(dst, '\\', 'n')
			i++
		case c == '\r':
			dst = append(dst, '\\', 'r')
			i++
		case c == '\t':
			dst = append(dst, '\\', 't')
			i++
		case c < 0x20:
			dst = appendUEscape(dst, rune(c))
			i++
		case c < 0x80:
			dst = append(dst, c)
			i++
		case escapeUnicode:
			r, size := utf8.DecodeRuneInString(s[i:])
			dst = appendUnicodeEscapes(dst, r)
			i += size
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			dst = utf8.AppendRune(dst, r)
			i += size
		}
	}
	dst = append(dst, '"')
	return dst
}

func appendUEscape(dst []byte, r rune) []byte {
	dst = append(dst, '\\', 'u')
	dst = append(dst, hexDigits[(r>>12)&0xF], hexDigits[(r>>8)&0xF], hexDigits[(r>>4)&0xF], hexDigits[r&0xF])
	return dst
}

// appendUnicodeEscapes emits r as one \uXXXX escape, or as a UTF-16
// surrogate pair of two \uXXXX escapes if r is above U+FFFF.
func appendUnicodeEscapes(dst []byte, r rune) []byte {
	if r <= 0xFFFF {
		return appendUEscape(dst, r)
	}
	r -= 0x10000
	hi := 0xD800 + (r >> 10)
	lo := 0xDC00 + (r & 0x3FF)
	dst = appendUEscape(dst, hi)
	return appendUEscape(dst, lo)
}
