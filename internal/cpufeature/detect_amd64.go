//go:build amd64

package cpufeature

import "golang.org/x/sys/cpu"

// Detect reports the instruction-set features present on the current
// amd64 CPU, as seen by golang.org/x/sys/cpu. LZCNT is never reported:
// golang.org/x/sys/cpu has no flag for it.
func Detect() Mask {
	var m Mask
	if cpu.X86.HasSSE42 {
		m |= SSE42
	}
	if cpu.X86.HasAVX2 {
		m |= AVX2
	}
	if cpu.X86.HasAVX512F {
		m |= AVX512F
	}
	if cpu.X86.HasAVX512BW {
		m |= AVX512BW
	}
	if cpu.X86.HasAVX512VL {
		m |= AVX512VL
	}
	if cpu.X86.HasBMI1 {
		m |= BMI1
	}
	if cpu.X86.HasBMI2 {
		m |= BMI2
	}
	if cpu.X86.HasPOPCNT {
		m |= POPCNT
	}
	return m
}
