// Package handlers provides the HTTP handlers of the video converter.
//
// It includes handlers for:
//   - Batch conversion (POST /api/convert)
//   - Health, liveness and readiness probes
//   - Version and build information
//   - Prometheus metrics
package handlers
