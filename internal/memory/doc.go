// Package memory keeps the converter's Go heap inside its container limit.
//
// [ConfigureFromEnv] derives GOMEMLIMIT from MEMORY_LIMIT (typically the
// Kubernetes Downward API value of limits.memory) and MEMORY_RATIO. The
// default ratio of 0.75 leaves a quarter of the container for FFmpeg
// child processes, which the Go runtime cannot see.
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//
// [Monitor] samples heap usage and implements the batch gate: while usage
// sits above the critical mark, files that have not started converting
// wait in [Monitor.Wait] until it drops below the high water mark again.
// Conversions already running are never interrupted.
//
//	monitor := memory.NewMonitor(memory.DefaultConfig())
//	monitor.Start()
//	defer monitor.Stop()
//
// GOMEMLIMIT is a soft limit covering the Go heap only. Multipart buffers
// and in-memory archives count against it; FFmpeg does not.
package memory
