//go:build !amd64 && !arm64

package simd

import "github.com/jsonasm/jsonasm-go/internal/cpufeature"

func detect() cpufeature.Mask { return 0 }

// selectTier has no vector tier to offer on architectures outside
// amd64/arm64; the scalar reference is the only option.
func selectTier(mask cpufeature.Mask) *Ops {
	_ = mask
	return scalarOps()
}
