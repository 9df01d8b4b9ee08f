//go:build !amd64 && !arm64

package cpufeature

// Detect reports no vectorized features on architectures this module
// doesn't have a dedicated SIMD tier for; internal/simd falls back to
// its scalar reference implementation there.
func Detect() Mask { return 0 }
