package simd

import "sync/atomic"

var current atomic.Pointer[Ops]

// Current returns the process-wide dispatch table, selecting it from
// the detected CPU features on first use. Selection is idempotent and
// concurrency-safe: selectTier may run more than once under a race
// between callers, but every run produces an equally valid, fully
// populated table, and atomic.Pointer.CompareAndSwap only ever publishes
// a complete *Ops -- there is no window where a caller can observe a
// table with some fields still nil.
func Current() *Ops {
	if ops := current.Load(); ops != nil {
		return ops
	}
	ops := selectTier(detect())
	current.CompareAndSwap(nil, ops)
	return current.Load()
}

// ForceTier overrides the dispatch table, for tests and benchmarks that
// want to compare tiers deterministically rather than relying on
// whatever the host CPU happens to support.
func ForceTier(tier Tier) {
	switch tier {
	case TierScalar:
		current.Store(scalarOps())
	default:
		current.Store(vectorOps(tier))
	}
}
