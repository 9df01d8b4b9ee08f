// Command jsonasm-bench parses and re-serializes a JSON file, reporting
// timing and the detected SIMD dispatch tier. It exists to give a human
// a number without reaching into the core engine for it: CPU brand/feature
// reporting lives here via cpuid, deliberately kept out of internal/simd
// and internal/cpufeature, which only ever need a bitmask.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/cpuid/v2"

	jsonasm "github.com/jsonasm/jsonasm-go"
	"github.com/jsonasm/jsonasm-go/internal/simd"
)

func main() {
	var (
		iterations = flag.Int("n", 10, "number of parse iterations")
		pretty     = flag.Bool("pretty", false, "pretty-print the round-tripped output instead of timing it")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: jsonasm-bench [-n iterations] [-pretty] <file.json>")
		os.Exit(2)
	}

	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "jsonasm-bench:", err)
		os.Exit(1)
	}

	reportCPU()

	if *pretty {
		doc, err := jsonasm.Parse(data, jsonasm.ParseOptions{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "jsonasm-bench: parse:", err)
			os.Exit(1)
		}
		out := jsonasm.Stringify(doc.Root(), jsonasm.StringifyOptions{Pretty: true, Indent: 2})
		os.Stdout.Write(out)
		os.Stdout.Write([]byte("\n"))
		return
	}

	runBenchmark(data, *iterations)
}

func reportCPU() {
	fmt.Printf("CPU: %s\n", cpuid.CPU.BrandName)
	fmt.Printf("Dispatch tier: %s\n", simd.Current().Tier)

	var features []string
	if cpuid.CPU.Supports(cpuid.SSE42) {
		features = append(features, "SSE4.2")
	}
	if cpuid.CPU.Supports(cpuid.AVX2) {
		features = append(features, "AVX2")
	}
	if cpuid.CPU.Supports(cpuid.AVX512F) {
		features = append(features, "AVX512F")
	}
	fmt.Printf("Detected features: %v\n", features)
}

func runBenchmark(data []byte, iterations int) {
	var parseTotal, stringifyTotal time.Duration
	var size int

	for i := 0; i < iterations; i++ {
		start := time.Now()
		doc, err := jsonasm.Parse(data, jsonasm.ParseOptions{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "jsonasm-bench: parse:", err)
			os.Exit(1)
		}
		parseTotal += time.Since(start)

		start = time.Now()
		out := jsonasm.Stringify(doc.Root(), jsonasm.StringifyOptions{})
		stringifyTotal += time.Since(start)
		size = len(out)
	}

	n := time.Duration(iterations)
	fmt.Printf("input size: %d bytes\n", len(data))
	fmt.Printf("iterations: %d\n", iterations)
	fmt.Printf("parse:     avg %v, throughput %.1f MB/s\n",
		parseTotal/n, throughputMBps(len(data), iterations, parseTotal))
	fmt.Printf("stringify: avg %v, throughput %.1f MB/s\n",
		stringifyTotal/n, throughputMBps(size, iterations, stringifyTotal))
}

func throughputMBps(bytesPerIter, iterations int, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(bytesPerIter*iterations) / total.Seconds() / (1024 * 1024)
}
