// Package jsonasm is the public surface over the core parsing and
// serialization engine in internal/arena, internal/parser, and
// internal/serializer. It mirrors original_source/include/json_asm.h's
// C API shape (document/value handles, typed accessors, stringify
// options) as Go methods, plus a teacher-style Marshal/Unmarshal
// convenience shell for mapping to and from ordinary Go values.
package jsonasm

import (
	"errors"
	"io"
	"os"

	"github.com/jsonasm/jsonasm-go/internal/arena"
	"github.com/jsonasm/jsonasm-go/internal/cpufeature"
	"github.com/jsonasm/jsonasm-go/internal/parser"
	"github.com/jsonasm/jsonasm-go/internal/serializer"
)

var (
	ErrInvalidJSON     = errors.New("invalid JSON")
	ErrUnsupportedType = errors.New("unsupported type")
)

// ErrorKind and ParseError re-export internal/parser's error taxonomy so
// callers never need to import an internal package to inspect a failure.
type ErrorKind = parser.ErrorKind
type ParseError = parser.Error

const (
	ErrMemory = parser.ErrMemory
	ErrSyntax = parser.ErrSyntax
	ErrDepth  = parser.ErrDepth
	ErrNumber = parser.ErrNumber
	ErrString = parser.ErrString
	ErrUTF8   = parser.ErrUTF8
	ErrIO     = parser.ErrIO
	ErrType   = parser.ErrType
)

// Tag identifies a value's type; re-exported from internal/arena so the
// numeric codes spec.md calls "bit-exact and part of the external
// interface" are reachable without importing an internal package.
type Tag = arena.Tag

const (
	TypeNull   = arena.TagNull
	TypeFalse  = arena.TagFalse
	TypeTrue   = arena.TagTrue
	TypeInt    = arena.TagInt
	TypeFloat  = arena.TagFloat
	TypeString = arena.TagShortString
	TypeArray  = arena.TagArray
	TypeObject = arena.TagObject
)

// TypeName returns the type tag's name, per spec.md §6.2's type_name
// table. Both short- and long-string tags report "string".
func TypeName(t Tag) string { return t.String() }

// ErrorString formats an error the way a C caller's error_string
// collaborator would: kind, position, and message on one line. Any
// error satisfies this by falling back to err.Error().
func ErrorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// CPUFeatures returns the opaque feature bitmask C1 would have detected
// for the host CPU. The core dispatch table (internal/simd) only ever
// consumes this bitmask; human-readable feature names live in
// cmd/jsonasm-bench via klauspost/cpuid, kept out of the core per
// SPEC_FULL.md §2.
func CPUFeatures() uint32 { return uint32(cpufeature.Detect()) }

// ParseOptions mirrors spec.md §6.2's parse options.
type ParseOptions struct {
	MaxDepth            int
	AllowComments       bool
	AllowTrailingCommas bool
	AllowInfNaN         bool
}

func (o ParseOptions) toInternal() parser.Options {
	return parser.Options{
		MaxDepth:            o.MaxDepth,
		AllowComments:       o.AllowComments,
		AllowTrailingCommas: o.AllowTrailingCommas,
		AllowInfNaN:         o.AllowInfNaN,
	}
}

// Document owns a parsed value tree. It is immutable and safe for
// concurrent read-only use by any number of goroutines once Parse
// returns, per spec.md §5's aliasing rules; there is no Release method
// since Go's garbage collector reclaims the arena once the Document
// becomes unreachable.
type Document struct {
	inner *arena.Document
}

// Parse parses data as RFC 8259 JSON under opts, matching spec.md
// §6.2's parse(bytes, options?).
func Parse(data []byte, opts ParseOptions) (*Document, error) {
	doc, err := parser.Parse(data, opts.toInternal())
	if err != nil {
		return nil, err
	}
	return &Document{inner: doc}, nil
}

// ParseFile reads path and parses its contents, the file-loading
// collaborator spec.md §1 places out of core scope.
func ParseFile(path string, opts ParseOptions) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Kind: ErrIO, Message: err.Error()}
	}
	return Parse(data, opts)
}

// Root returns the document's root value.
func (d *Document) Root() Value { return Value{doc: d.inner, ref: d.inner.Root()} }

// Value is a handle to one node inside a Document. The zero Value is
// not usable; always obtain one from Document.Root or an iteration/
// lookup method.
type Value struct {
	doc *arena.Document
	ref arena.Ref
}

// Valid reports whether v refers to an actual node (as opposed to the
// "no such key/index" sentinel returned by Get/Index).
func (v Value) Valid() bool { return v.doc != nil && v.ref != arena.NullRef }

func (v Value) Type() Tag { return v.doc.Type(v.ref) }

func (v Value) IsNull() bool     { return v.doc.IsNull(v.ref) }
func (v Value) IsBool() bool     { return v.doc.IsBool(v.ref) }
func (v Value) IsNumber() bool   { return v.doc.IsNumber(v.ref) }
func (v Value) IsString() bool   { return v.doc.IsString(v.ref) }
func (v Value) IsArray() bool    { return v.doc.IsArray(v.ref) }
func (v Value) IsObject() bool   { return v.doc.IsObject(v.ref) }
func (v Value) IsContainer() bool { return v.doc.IsContainer(v.ref) }

func (v Value) Bool() bool       { return v.doc.Bool(v.ref) }
func (v Value) Int() int64       { return v.doc.Int(v.ref) }
func (v Value) Uint() uint64     { return v.doc.Uint(v.ref) }
func (v Value) Float() float64   { return v.doc.Float(v.ref) }
func (v Value) Str() string      { return v.doc.Str(v.ref) }
func (v Value) StrLen() int      { return v.doc.StrLen(v.ref) }

// Size returns a container's member/element count.
func (v Value) Size() int { return v.doc.Size(v.ref) }

// First returns a container's first child (key node for an object,
// element for an array), or an invalid Value if empty.
func (v Value) First() Value { return Value{doc: v.doc, ref: v.doc.Child(v.ref)} }

// Next returns the sibling following v in whatever chain it belongs to.
func (v Value) Next() Value { return Value{doc: v.doc, ref: v.doc.Next(v.ref)} }

// Key returns a key node's text; only meaningful on a Value yielded by
// First/Next over an object.
func (v Value) Key() string { return v.doc.Key(v.ref) }

// MemberValue returns the value linked to a key node yielded by
// First/Next over an object.
func (v Value) MemberValue() Value { return Value{doc: v.doc, ref: v.doc.Value(v.ref)} }

// Get performs object.get(key) per spec.md §6.2: a linear sibling-chain
// search. ok is false if v is not an object or has no such member.
func (v Value) Get(key string) (Value, bool) {
	if !v.doc.IsObject(v.ref) {
		return Value{}, false
	}
	ref, ok := v.doc.ObjectGet(v.ref, key)
	if !ok {
		return Value{}, false
	}
	return Value{doc: v.doc, ref: ref}, true
}

// Index performs array.get(index) per spec.md §6.2.
func (v Value) Index(i int) (Value, bool) {
	ref, ok := v.doc.ArrayGet(v.ref, i)
	if !ok {
		return Value{}, false
	}
	return Value{doc: v.doc, ref: ref}, true
}

// Equals performs spec.md §6.2's equals(a, b): structural, type-
// coercing-across-int/float equality.
func Equals(a, b Value) bool { return arena.Equals(a.doc, a.ref, b.doc, b.ref) }

// Clone performs spec.md §6.2's clone(value): defined as stringify-
// then-reparse, returning the clone's owning Document and its root
// value.
func Clone(v Value) (*Document, Value, error) {
	bytes := serializer.Stringify(v.doc, v.ref, serializer.Options{})
	doc, err := Parse(bytes, ParseOptions{})
	if err != nil {
		return nil, Value{}, err
	}
	return doc, doc.Root(), nil
}

// StringifyOptions mirrors spec.md §6.2's stringify options.
type StringifyOptions struct {
	Pretty        bool
	Indent        int
	Newline       string
	EscapeSlash   bool
	EscapeUnicode bool
}

func (o StringifyOptions) toInternal() serializer.Options {
	return serializer.Options{
		Pretty:        o.Pretty,
		Indent:        o.Indent,
		Newline:       o.Newline,
		EscapeSlash:   o.EscapeSlash,
		EscapeUnicode: o.EscapeUnicode,
	}
}

// Stringify performs spec.md §6.2's stringify(value, options?).
func Stringify(v Value, opts StringifyOptions) []byte {
	return serializer.Stringify(v.doc, v.ref, opts.toInternal())
}

// StringifyInto performs spec.md §6.2's stringify_into(value, buffer,
// buffer_len) → needed_bytes: it writes as much of the rendered JSON as
// fits into buf and always reports the number of bytes the full
// rendering needed (excluding any NUL terminator, resolving the open
// question in SPEC_FULL.md §3), regardless of whether it fit.
func StringifyInto(v Value, buf []byte, opts StringifyOptions) (needed int, written int) {
	rendered := Stringify(v, opts)
	n := copy(buf, rendered)
	return len(rendered), n
}

// Marshal encodes a Go value as JSON, in the teacher's convenience-
// shell style.
func Marshal(v interface{}) ([]byte, error) {
	e := newEncoder()
	defer e.release()
	return e.marshal(v)
}

// Unmarshal decodes JSON into v, which must be a non-nil pointer.
func Unmarshal(data []byte, v interface{}) error {
	d := newDecoder(data)
	defer d.release()
	return d.unmarshal(v)
}

// Valid reports whether data is well-formed JSON.
func Valid(data []byte) bool {
	_, err := parser.Parse(data, parser.Options{})
	return err == nil
}

// Decoder decodes JSON read from an io.Reader, in the teacher's
// io.Reader-backed shell style. The first Decode call reads the reader
// to EOF and decodes everything read as one JSON value; every later call
// decodes that same buffered data again. Several whitespace-separated
// values in one input are a parse error, not a stream.
type Decoder struct {
	r   io.Reader
	buf []byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, buf: make([]byte, 0, 4096)}
}

func (dec *Decoder) Decode(v interface{}) error {
	if dec.r != nil {
		data, err := io.ReadAll(dec.r)
		if err != nil {
			return err
		}
		dec.buf = data
		dec.r = nil
	}
	return Unmarshal(dec.buf, v)
}

// Encoder writes a JSON-encoded value to an io.Writer.
type Encoder struct {
	w   io.Writer
	enc *encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, enc: newEncoder()}
}

func (enc *Encoder) Encode(v interface{}) error {
	data, err := enc.enc.marshal(v)
	if err != nil {
		return err
	}
	_, err = enc.w.Write(data)
	return err
}
