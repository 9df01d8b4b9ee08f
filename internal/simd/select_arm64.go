//go:build arm64

package simd

import "github.com/jsonasm/jsonasm-go/internal/cpufeature"

func detect() cpufeature.Mask { return cpufeature.Detect() }

// selectTier picks the highest arm64 tier the detected feature mask
// supports: SVE2, then SVE, then NEON (mandatory on arm64, so this is
// the floor rather than a further fallback to scalar). As noted in
// internal/cpufeature, SVE2 is not currently distinguishable from SVE by
// golang.org/x/sys/cpu, so that branch is reachable but unreached on
// real hardware until detection catches up.
func selectTier(mask cpufeature.Mask) *Ops {
	switch {
	case mask.Has(cpufeature.SVE2):
		return vectorOps(TierSVE2)
	case mask.Has(cpufeature.SVE):
		return vectorOps(TierSVE)
	default:
		return vectorOps(TierNEON)
	}
}
