package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"video-converter/internal/logging"
	"video-converter/internal/metrics"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(logging.SetLogger(zap.New(core)))
	return logs
}

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

func TestStatusWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := newStatusWriter(rec)
	assert.Equal(t, http.StatusOK, sw.statusCode)

	sw.WriteHeader(http.StatusNotFound)
	sw.WriteHeader(http.StatusInternalServerError)
	n, err := sw.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusNotFound, sw.statusCode)
	assert.Equal(t, int64(5), sw.bytesWritten)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Same(t, sw, wrap(sw))
}

func TestLoggerWritesW3CLine(t *testing.T) {
	logs := observeLogs(t)

	h := RequestID()(Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid output format"}`))
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/convert?x=1", nil)
	req.Header.Set("User-Agent", "curl/8.0 (test)")
	req.Header.Set(RequestIDHeader, "req-42")
	req.RemoteAddr = "10.0.0.7:5555"
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := strings.SplitN(logs.All()[0].Message, " ", 12)
	require.Len(t, fields, 12)
	assert.Equal(t, []string{"10.0.0.7", "POST", "/api/convert", "x=1", "400", "33"}, fields[2:8])
	assert.Equal(t, "req-42", fields[9])
	assert.Equal(t, `"curl/8.0 (test)" -`, fields[10]+" "+fields[11])
}

func TestLoggerSkips(t *testing.T) {
	logs := observeLogs(t)
	cfg := DefaultLoggingConfig()
	cfg.LogHealthChecks = false
	h := Logger(cfg)(okHandler("ok"))

	for _, path := range []string{"/metrics", "/healthz", "/readyz"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Zero(t, logs.Len())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, 1, logs.Len())
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"line1\nline2\r", "line1 line2 "},
		{"\x1b[31mred\x1b[0m", "[31mred[0m"},
		{"nul\x00byte", "nulbyte"},
		{"tab\there", "tab\there"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeLogField(tt.in))
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::1]:8080"
	assert.Equal(t, "::1", clientIP(req))

	req.Header.Set("X-Real-IP", "192.0.2.9")
	assert.Equal(t, "192.0.2.9", clientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.1", clientIP(req))
}

func TestEscapeW3CField(t *testing.T) {
	assert.Equal(t, "simple", escapeW3CField("simple"))
	assert.Equal(t, `"a b"`, escapeW3CField("a b"))
	assert.Equal(t, `"say ""hi"""`, escapeW3CField(`say "hi"`))
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/api/convert":      "/api/convert",
		"/api/convert/":     "/api/convert",
		"/version":          "/version",
		"/":                 "/",
		"/wp-admin/x.php":   "other",
		"/api/convert/evil": "other",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizePath(in), in)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	h := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/convert", "413")
	before := testutil.ToFloat64(counter)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/convert", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Zero(t, testutil.ToFloat64(metrics.HTTPRequestsInFlight))

	counter = metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "other", "413")
	before = testutil.ToFloat64(counter)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, before, testutil.ToFloat64(counter))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = logging.RequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		h.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("rejected", func(t *testing.T) {
		for _, bad := range []string{"has space", "new\nline", strings.Repeat("x", maxRequestIDLen+1)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, bad)
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.NotEqual(t, bad, seen)
			assert.Len(t, seen, 36)
		}
	})
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example.com/"})(okHandler("ok"))

	t.Run("exposes results header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/convert", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), ResultsHeader)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/convert", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/convert", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("any origin by default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/convert", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		rec := httptest.NewRecorder()
		CORS(nil)(okHandler("ok")).ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
