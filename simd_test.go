package jsonasm

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/jsonasm/jsonasm-go/internal/simd"
)

// TestSIMDAlgorithms checks the currently-selected dispatch tier on
// realistic JSON inputs: structural scanning and integer parsing against
// fixed expected results, string scanning against the scalar reference
// tier, complementing internal/simd's unit-level parity tests with
// whole-document-shaped spans.
func TestSIMDAlgorithms(t *testing.T) {
	t.Run("StructuralScanning", testSIMDStructuralScanning)
	t.Run("IntegerParsing", testSIMDIntegerParsing)
	t.Run("StringScanning", testSIMDStringScanning)
}

func testSIMDStructuralScanning(t *testing.T) {
	testCases := []struct {
		name string
		json string
	}{
		{"simple", `{"key":"value"}`},
		{"array", `[1,2,3,4,5]`},
		{"nested", `{"a":{"b":[1,2]}}`},
		{"complex", `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}],"count":2}`},
		{"many_elements", generateManyElements(100)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Each test input starts with a structural byte, so the
			// leading-whitespace scan should report zero for all of
			// them -- exercising the same primitive the parser uses
			// between every token.
			n := simd.Current().FindStructural([]byte(tc.json))
			if n != 0 {
				t.Errorf("FindStructural(%q) = %d, want 0 (no leading whitespace)", tc.json, n)
			}

			if _, err := Parse([]byte(tc.json), ParseOptions{}); err != nil {
				t.Errorf("Parse(%q) failed: %v", tc.json, err)
			}
		})
	}
}

func testSIMDIntegerParsing(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int64
		consumed int
	}{
		{"zero", "0", 0, 1},
		{"positive", "123", 123, 3},
		{"negative", "-456", -456, 4},
		{"leading_zeros", "000123", 123, 6},
		{"negative_zero", "-0", 0, 2},
		{"empty", "", 0, 0},
		{"non_numeric", "abc", 0, 0},
		{"stops_at_dot", "123.45", 123, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			value, consumed, ok := simd.Current().ParseIntLane([]byte(tc.input))
			wantOK := tc.consumed > 0
			if ok != wantOK {
				t.Fatalf("ok mismatch: expected=%v, got=%v", wantOK, ok)
			}
			if ok && (value != tc.expected || consumed != tc.consumed) {
				t.Errorf("got (%d,%d), want (%d,%d)", value, consumed, tc.expected, tc.consumed)
			}
		})
	}
}

func testSIMDStringScanning(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"no_special", "hello world"},
		{"simple_string", `hello"`},
		{"escaped_quotes", `say \"hello\""`},
		{"long_string", string(bytes.Repeat([]byte("a"), 1000)) + `"`},
		{"empty", `"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			length, hasEscape, ok := simd.Current().ScanString([]byte(tc.input))
			wantLength, wantEscape, wantOK := simd.ScanStringScalar([]byte(tc.input))
			if length != wantLength || hasEscape != wantEscape || ok != wantOK {
				t.Errorf("dispatched tier disagrees with scalar: got (%d,%v,%v), want (%d,%v,%v)",
					length, hasEscape, ok, wantLength, wantEscape, wantOK)
			}
		})
	}
}

// TestSIMDPerformanceCharacteristics reports how parse throughput scales
// with input size; it logs rather than asserts a specific ratio, since
// the portable SWAR tier's speedup over the scalar tier is workload- and
// host-CPU-dependent.
func TestSIMDPerformanceCharacteristics(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping performance tests in short mode")
	}

	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			testJSON := generateLargeTestJSON(size)

			start := time.Now()
			doc, err := Parse(testJSON, ParseOptions{})
			elapsed := time.Since(start)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			t.Logf("Size %d: parsed in %v, root size=%d", size, elapsed, doc.Root().Size())
		})
	}
}

// TestSIMDConcurrency exercises the shared dispatch table from many
// goroutines parsing independently, matching spec.md §4.1's requirement
// that first-use initialization be safe under concurrent callers.
func TestSIMDConcurrency(t *testing.T) {
	testJSON := []byte(`{"test":"concurrent","numbers":[1,2,3,4,5],"nested":{"value":42}}`)
	numGoroutines := 10
	numIterations := 100

	done := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer func() { done <- nil }()

			for j := 0; j < numIterations; j++ {
				doc, err := Parse(testJSON, ParseOptions{})
				if err != nil {
					done <- fmt.Errorf("goroutine %d iteration %d failed: %v", id, j, err)
					return
				}
				if doc.Root().Size() != 3 {
					done <- fmt.Errorf("goroutine %d iteration %d got wrong size", id, j)
					return
				}
			}
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}

func generateManyElements(count int) string {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i := 0; i < count; i++ {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(fmt.Sprintf(`{"id":%d,"value":"item_%d"}`, i, i))
	}
	buf.WriteString("]")
	return buf.String()
}

func generateLargeTestJSON(targetSize int) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"data":[`)

	elementSize := 50
	numElements := targetSize / elementSize

	for i := 0; i < numElements; i++ {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(fmt.Sprintf(`{"id":%d,"name":"item_%d","value":%d}`, i, i, i*2))
	}

	buf.WriteString(`],"count":`)
	buf.WriteString(fmt.Sprintf("%d", numElements))
	buf.WriteString("}")

	return buf.Bytes()
}
