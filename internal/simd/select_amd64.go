//go:build amd64

package simd

import "github.com/jsonasm/jsonasm-go/internal/cpufeature"

func detect() cpufeature.Mask { return cpufeature.Detect() }

// selectTier picks the highest amd64 tier the detected feature mask
// supports, in the order spec.md names: AVX-512, then AVX2, then
// SSE4.2, then scalar. Every non-scalar tier shares the same portable
// SWAR implementation (see vector.go) -- the distinction is reporting
// only, since this module has no hand-written assembly per tier.
func selectTier(mask cpufeature.Mask) *Ops {
	switch {
	case mask.Has(cpufeature.AVX512F | cpufeature.AVX512BW):
		return vectorOps(TierAVX512)
	case mask.Has(cpufeature.AVX2):
		return vectorOps(TierAVX2)
	case mask.Has(cpufeature.SSE42):
		return vectorOps(TierSSE42)
	default:
		return scalarOps()
	}
}
