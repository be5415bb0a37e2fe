// Package middleware provides the HTTP middleware shared by both entry points
// of the video converter.
//
// It includes:
//   - Request ID propagation (X-Request-ID) into request-scoped logging
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with bounded path cardinality
//   - CORS, exposing the X-Conversion-Results header to browsers
package middleware
