package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"video-converter/internal/metrics"
)

// MetricsConfig holds configuration for the metrics middleware
type MetricsConfig struct {
	// SkipPaths are path prefixes that should not be recorded
	SkipPaths []string
}

// DefaultMetricsConfig skips scrapes and probes.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		SkipPaths: []string{"/metrics", "/health", "/healthz", "/livez", "/readyz"},
	}
}

// knownPaths are the routes recorded under their own label. Anything else
// is folded into "other" so scanners cannot inflate label cardinality.
var knownPaths = map[string]bool{
	"/api/convert": true,
	"/version":     true,
}

// Metrics returns a middleware that records Prometheus request metrics
func Metrics(config MetricsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range config.SkipPaths {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			sw := wrap(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			path := normalizePath(r.URL.Path)
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath maps a request path to a bounded label value.
func normalizePath(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	if knownPaths[trimmed] {
		return trimmed
	}
	if trimmed == "" {
		return "/"
	}
	return "other"
}
