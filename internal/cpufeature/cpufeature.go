// Package cpufeature detects the CPU instruction-set features relevant
// to internal/simd's tier selection. The bit values match
// original_source/include/json_asm.h's json_cpu_feature enum so the
// numbering carries meaning beyond this module.
package cpufeature

type Mask uint32

const (
	SSE42    Mask = 1 << 0
	AVX2     Mask = 1 << 1
	AVX512F  Mask = 1 << 2
	AVX512BW Mask = 1 << 3
	AVX512VL Mask = 1 << 4
	BMI1     Mask = 1 << 5
	BMI2     Mask = 1 << 6
	POPCNT   Mask = 1 << 7
	LZCNT    Mask = 1 << 8

	NEON    Mask = 1 << 16
	SVE     Mask = 1 << 17
	SVE2    Mask = 1 << 18
	DOTPROD Mask = 1 << 19
	SHA3    Mask = 1 << 20
)

func (m Mask) Has(f Mask) bool { return m&f == f }
