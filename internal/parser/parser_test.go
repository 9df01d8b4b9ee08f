package parser

import (
	"math"
	"testing"

	"github.com/jsonasm/jsonasm-go/internal/arena"
)

func parseOK(t *testing.T, input string) *arena.Document {
	t.Helper()
	doc, err := Parse([]byte(input), Options{})
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return doc
}

func TestParser_Scalars(t *testing.T) {
	if doc := parseOK(t, "null"); !doc.IsNull(doc.Root()) {
		t.Errorf("expected null")
	}
	if doc := parseOK(t, "true"); !doc.IsTrue(doc.Root()) {
		t.Errorf("expected true")
	}
	if doc := parseOK(t, "false"); !doc.IsFalse(doc.Root()) {
		t.Errorf("expected false")
	}
	if doc := parseOK(t, "42"); doc.Int(doc.Root()) != 42 {
		t.Errorf("expected 42")
	}
	if doc := parseOK(t, "-123"); doc.Int(doc.Root()) != -123 {
		t.Errorf("expected -123")
	}
	if doc := parseOK(t, "3.14"); doc.Float(doc.Root()) != 3.14 {
		t.Errorf("expected 3.14")
	}
	if doc := parseOK(t, `"hello"`); doc.Str(doc.Root()) != "hello" {
		t.Errorf("expected hello")
	}
	if doc := parseOK(t, `""`); doc.Str(doc.Root()) != "" {
		t.Errorf("expected empty string")
	}
}

func TestParser_Numbers(t *testing.T) {
	intTests := []struct {
		input    string
		expected int64
	}{
		{"0", 0},
		{"123", 123},
		{"-456", -456},
		{"9223372036854775807", 9223372036854775807},
		{"-9223372036854775808", -9223372036854775808},
	}
	for _, tt := range intTests {
		t.Run(tt.input, func(t *testing.T) {
			doc := parseOK(t, tt.input)
			root := doc.Root()
			// Values outside the 60-bit payload range are promoted to
			// float rather than truncated; check accordingly.
			if doc.IsFloat(root) {
				if math.Abs(doc.Float(root)-float64(tt.expected)) > 1 {
					t.Errorf("expected ~%d, got float %v", tt.expected, doc.Float(root))
				}
				return
			}
			if doc.Int(root) != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, doc.Int(root))
			}
		})
	}

	floatTests := []struct {
		input    string
		expected float64
	}{
		{"1.5", 1.5},
		{"-2.5", -2.5},
		{"1e10", 1e10},
		{"-1e10", -1e10},
		{"1e+10", 1e+10},
		{"1e-10", 1e-10},
		{"123.456e-7", 123.456e-7},
	}
	for _, tt := range floatTests {
		t.Run(tt.input, func(t *testing.T) {
			doc := parseOK(t, tt.input)
			got := doc.Float(doc.Root())
			if math.Abs(got-tt.expected) > 1e-10*math.Max(1, math.Abs(tt.expected)) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParser_LeadingZeroRejected(t *testing.T) {
	for _, input := range []string{"01", "-01", "00"} {
		if _, err := Parse([]byte(input), Options{}); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestParser_Strings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", `"hello"`, "hello"},
		{"with spaces", `"hello world"`, "hello world"},
		{"escaped quote", `"say \"hello\""`, `say "hello"`},
		{"escaped backslash", `"path\\to\\file"`, `path\to\file`},
		{"escaped newline", `"line1\nline2"`, "line1\nline2"},
		{"escaped tab", `"col1\tcol2"`, "col1\tcol2"},
		{"escaped unicode", `"hello \u0077orld"`, "hello world"},
		{"utf8 passthrough", `"hello 世界"`, "hello 世界"},
		{"emoji passthrough", `"hello 😀"`, "hello 😀"},
		{"consecutive unicode escapes", `"hello \u4e16\u754c"`, "hello 世界"},
		{"mixed", `"ASCII and 中文 and \u0065moji 🎉"`, "ASCII and 中文 and emoji 🎉"},
		{"eight byte boundary", `"abcdefgh"`, "abcdefgh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseOK(t, tt.input)
			if got := doc.Str(doc.Root()); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestParser_Objects(t *testing.T) {
	doc := parseOK(t, `{"name":"Alice","age":30}`)
	root := doc.Root()
	if !doc.IsObject(root) {
		t.Fatalf("expected object")
	}
	if name, ok := doc.ObjectGet(root, "name"); !ok || doc.Str(name) != "Alice" {
		t.Errorf("name: got=%v ok=%v", name, ok)
	}
	if age, ok := doc.ObjectGet(root, "age"); !ok || doc.Int(age) != 30 {
		t.Errorf("age: got=%v ok=%v", age, ok)
	}

	empty := parseOK(t, `{}`)
	if empty.Size(empty.Root()) != 0 {
		t.Errorf("expected empty object to have size 0")
	}
}

func TestParser_ObjectLongKeys(t *testing.T) {
	doc := parseOK(t, `{"a_key_longer_than_seven_bytes":1,"short":2}`)
	root := doc.Root()
	if v, ok := doc.ObjectGet(root, "a_key_longer_than_seven_bytes"); !ok || doc.Int(v) != 1 {
		t.Errorf("long key lookup failed: got=%v ok=%v", v, ok)
	}
	if v, ok := doc.ObjectGet(root, "short"); !ok || doc.Int(v) != 2 {
		t.Errorf("short key lookup failed: got=%v ok=%v", v, ok)
	}
}

func TestParser_NestedObjects(t *testing.T) {
	doc := parseOK(t, `{"person":{"name":"Bob","age":25}}`)
	root := doc.Root()
	person, ok := doc.ObjectGet(root, "person")
	if !ok {
		t.Fatalf("missing person")
	}
	if name, ok := doc.ObjectGet(person, "name"); !ok || doc.Str(name) != "Bob" {
		t.Errorf("nested name: got=%v ok=%v", name, ok)
	}
}

func TestParser_Arrays(t *testing.T) {
	doc := parseOK(t, `[1,"hello",true,null,3.14]`)
	arr := doc.Root()
	if doc.Size(arr) != 5 {
		t.Fatalf("expected 5 elements, got %d", doc.Size(arr))
	}
	e0, _ := doc.ArrayGet(arr, 0)
	if doc.Int(e0) != 1 {
		t.Errorf("element 0: got %d", doc.Int(e0))
	}
	e1, _ := doc.ArrayGet(arr, 1)
	if doc.Str(e1) != "hello" {
		t.Errorf("element 1: got %q", doc.Str(e1))
	}
	e3, _ := doc.ArrayGet(arr, 3)
	if !doc.IsNull(e3) {
		t.Errorf("element 3 should be null")
	}

	empty := parseOK(t, `[]`)
	if empty.Size(empty.Root()) != 0 {
		t.Errorf("expected empty array")
	}

	nested := parseOK(t, `[[1,2],[3,4]]`)
	inner0, _ := nested.ArrayGet(nested.Root(), 0)
	iv0, _ := nested.ArrayGet(inner0, 0)
	if nested.Int(iv0) != 1 {
		t.Errorf("nested element: got %d", nested.Int(iv0))
	}
}

func TestParser_Complex(t *testing.T) {
	complexJSON := `{
		"users": [
			{"id": 1, "name": "Alice", "active": true},
			{"id": 2, "name": "Bob", "active": false}
		],
		"count": 2,
		"version": "1.0"
	}`
	doc := parseOK(t, complexJSON)
	root := doc.Root()

	if v, ok := doc.ObjectGet(root, "count"); !ok || doc.Int(v) != 2 {
		t.Errorf("count: got=%v ok=%v", v, ok)
	}
	if v, ok := doc.ObjectGet(root, "version"); !ok || doc.Str(v) != "1.0" {
		t.Errorf("version: got=%v ok=%v", v, ok)
	}

	users, ok := doc.ObjectGet(root, "users")
	if !ok || doc.Size(users) != 2 {
		t.Fatalf("users: ok=%v size=%d", ok, doc.Size(users))
	}
	u0, _ := doc.ArrayGet(users, 0)
	if name, ok := doc.ObjectGet(u0, "name"); !ok || doc.Str(name) != "Alice" {
		t.Errorf("user 0 name: got=%v ok=%v", name, ok)
	}
}

func TestParser_ErrorCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unclosed object", "{"},
		{"trailing comma default", `{"key":"value",}`},
		{"missing quotes", `{key:"value"}`},
		{"invalid number", `{"key":12.}`},
		{"unclosed string", `{"key":"value`},
		{"invalid escape", `{"key":"val\ue"}`},
		{"truncated unicode", `{"key":"\u12"}`},
		{"leading zero", `01`},
		{"lone minus", `-`},
		{"trailing content", `1 2`},
		{"literal newline in string", "\"line1\nline2\""},
		{"literal tab in string", "\"col1\tcol2\""},
		{"literal control byte after escape", "\"ok\\nthen\x01bad\""},
		{"lone high surrogate", `"\ud800"`},
		{"lone low surrogate", `"\udc00"`},
		{"high surrogate followed by non-surrogate", `"\ud800A"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input), Options{}); err == nil {
				t.Errorf("expected error for input: %s", tt.input)
			}
		})
	}
}

// TestParser_StringErrorsUseStringKind checks that bare control bytes and
// unpaired UTF-16 surrogates are both reported as ErrString, matching
// spec.md's taxonomy (the utf8 kind is reserved for byte-level UTF-8
// decoding errors, not surrogate pairing).
func TestParser_StringErrorsUseStringKind(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"control byte", "\"bad\x01byte\""},
		{"lone high surrogate", `"\ud800"`},
		{"lone low surrogate", `"\udc00"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), Options{})
			if err == nil {
				t.Fatalf("expected error for input: %s", tt.input)
			}
			perr, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if perr.Kind != ErrString {
				t.Errorf("expected ErrString, got %v", perr.Kind)
			}
		})
	}
}

func TestParser_Whitespace(t *testing.T) {
	inputs := []string{
		`  { "key" : "value" }  `,
		"\t{\t\"key\"\t:\t\"value\"\t}\t",
		"{\n\"key\"\n:\n\"value\"\n}",
		" \t\n{ \t\n\"key\" \t\n: \t\n\"value\" \t\n} \t\n",
	}
	for _, input := range inputs {
		doc := parseOK(t, input)
		v, ok := doc.ObjectGet(doc.Root(), "key")
		if !ok || doc.Str(v) != "value" {
			t.Errorf("input %q: got=%v ok=%v", input, v, ok)
		}
	}
}

func TestParser_MaxDepth(t *testing.T) {
	// Three nested objects with max_depth=2 should fail opening the
	// third brace, matching spec.md's depth-check-before-increment
	// ordering.
	_, err := Parse([]byte(`{"a":{"b":{"c":1}}}`), Options{MaxDepth: 2})
	if err == nil {
		t.Fatalf("expected depth error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ErrDepth {
		t.Fatalf("expected ErrDepth, got %v", err)
	}

	if _, err := Parse([]byte(`{"a":{"b":1}}`), Options{MaxDepth: 2}); err != nil {
		t.Fatalf("unexpected error at exactly max depth: %v", err)
	}
}

func TestParser_TrailingCommaOption(t *testing.T) {
	if _, err := Parse([]byte(`[1,2,]`), Options{}); err == nil {
		t.Fatalf("expected error without AllowTrailingCommas")
	}
	doc, err := Parse([]byte(`[1,2,]`), Options{AllowTrailingCommas: true})
	if err != nil {
		t.Fatalf("unexpected error with AllowTrailingCommas: %v", err)
	}
	if doc.Size(doc.Root()) != 2 {
		t.Fatalf("expected 2 elements, got %d", doc.Size(doc.Root()))
	}
}

func TestParser_CommentsOption(t *testing.T) {
	input := `{
		// a comment
		"a": 1 /* inline */
	}`
	if _, err := Parse([]byte(input), Options{}); err == nil {
		t.Fatalf("expected error without AllowComments")
	}
	doc, err := Parse([]byte(input), Options{AllowComments: true})
	if err != nil {
		t.Fatalf("unexpected error with AllowComments: %v", err)
	}
	if v, ok := doc.ObjectGet(doc.Root(), "a"); !ok || doc.Int(v) != 1 {
		t.Errorf("a: got=%v ok=%v", v, ok)
	}
}

func TestParser_InfNaNOption(t *testing.T) {
	if _, err := Parse([]byte(`NaN`), Options{}); err == nil {
		t.Fatalf("expected error without AllowInfNaN")
	}
	doc, err := Parse([]byte(`[NaN, Infinity, -Infinity]`), Options{AllowInfNaN: true})
	if err != nil {
		t.Fatalf("unexpected error with AllowInfNaN: %v", err)
	}
	e0, _ := doc.ArrayGet(doc.Root(), 0)
	if !math.IsNaN(doc.Float(e0)) {
		t.Errorf("expected NaN")
	}
	e1, _ := doc.ArrayGet(doc.Root(), 1)
	if !math.IsInf(doc.Float(e1), 1) {
		t.Errorf("expected +Inf")
	}
	e2, _ := doc.ArrayGet(doc.Root(), 2)
	if !math.IsInf(doc.Float(e2), -1) {
		t.Errorf("expected -Inf")
	}
}

func BenchmarkParser_Numbers(b *testing.B) {
	testCases := []string{"42", "-123", "3.14159", "1e10", "123456789"}
	for _, tc := range testCases {
		b.Run(tc, func(b *testing.B) {
			data := []byte(tc)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Parse(data, Options{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkParser_Strings(b *testing.B) {
	testCases := []string{`"hello"`, `"hello world"`, `"say \"hello\""`, `"unicode: 世界"`}
	for _, tc := range testCases {
		b.Run(tc, func(b *testing.B) {
			data := []byte(tc)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Parse(data, Options{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
