package workers

import "runtime"

// Count scales the usable CPU count by multiplier and clamps the result
// to [1, limit]. A limit of 0 leaves the upper end open.
//
// Usable CPUs come from GOMAXPROCS, which follows the container quota.
func Count(multiplier float64, limit int) int {
	n := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	switch {
	case n < 1:
		return 1
	case limit > 0 && n > limit:
		return limit
	}
	return n
}

// ForCPU is Count for CPU-bound work: one worker per CPU.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// Resolve prefers an explicit positive setting and falls back to
// ForCPU(limit). Explicit settings are not capped; FFmpeg may be limited
// by the GPU or disk rather than the CPU.
func Resolve(configured, limit int) int {
	if configured > 0 {
		return configured
	}
	return ForCPU(limit)
}
