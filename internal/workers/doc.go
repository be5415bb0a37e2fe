/*
Package workers determines how many files of a batch are converted at once.

When running in containers the number of usable CPUs may be limited by cgroup
constraints. Go 1.19+ sets GOMAXPROCS from those limits, while runtime.NumCPU
still reports the host's CPU count:

	// Wrong: Returns 64 (host CPUs), ignores container limit
	workers := runtime.NumCPU()

	// Correct: Returns 2 (respects container limit in Go 1.19+)
	workers := runtime.GOMAXPROCS(0)

FFmpeg already uses several threads per encode, so the default is one
conversion per CPU with a small cap:

	n := workers.Resolve(v.GetInt("CONVERT_WORKERS"), 4)

Setting CONVERT_WORKERS to a positive value overrides the calculation;
CONVERT_WORKERS=1 converts files strictly one after another.
*/
package workers
