//go:build arm64

package cpufeature

import "golang.org/x/sys/cpu"

// Detect reports the instruction-set features present on the current
// arm64 CPU. NEON is mandatory on arm64 and is always reported.
//
// golang.org/x/sys/cpu does not expose a dedicated SVE2 flag as of the
// version this module vendors, so SVE2 is never reported, and the SVE2
// dispatch tier in internal/simd is never selected by detection (only
// through simd.ForceTier); see DESIGN.md.
func Detect() Mask {
	m := NEON
	if cpu.ARM64.HasSVE {
		m |= SVE
	}
	if cpu.ARM64.HasSHA3 {
		m |= SHA3
	}
	return m
}
