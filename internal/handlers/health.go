package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"video-converter/internal/logging"
	"video-converter/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// readyTimeout bounds the FFmpeg probe of a readiness check.
const readyTimeout = 5 * time.Second

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	FFmpeg            string `json:"ffmpeg,omitempty"`
	FFmpegError       string `json:"ffmpegError,omitempty"`
	WorkspaceError    string `json:"workspaceError,omitempty"`
	Workers           int    `json:"workers"`
	ActiveConversions int    `json:"activeConversions"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports FFmpeg and workspace state along with runtime info.
// It answers 503 while either dependency is unusable.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	response := HealthResponse{
		Status:            statusHealthy,
		Ready:             true,
		Version:           startup.Version,
		Uptime:            time.Since(h.startTime).Round(time.Second).String(),
		Workers:           h.cfg.Workers,
		ActiveConversions: h.ffmpeg.ActiveCount(),
		GoVersion:         runtime.Version(),
		NumCPU:            runtime.NumCPU(),
		NumGoroutine:      runtime.NumGoroutine(),
	}

	if version, err := h.ffmpeg.Version(ctx); err != nil {
		response.FFmpegError = err.Error()
	} else {
		response.FFmpeg = version
	}
	if err := h.checkWorkspace(); err != nil {
		response.WorkspaceError = err.Error()
	}

	status := http.StatusOK
	if response.FFmpegError != "" || response.WorkspaceError != "" {
		response.Status = statusDegraded
		response.Ready = false
		status = http.StatusServiceUnavailable
	}

	writeJSONStatus(w, status, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 only when FFmpeg runs and every workspace
// root is writable.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.ffmpeg.CheckAvailable(ctx); err != nil {
		logging.Debug("Readiness: %v", err)
		writeJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready", "reason": "ffmpeg unavailable"})
		return
	}
	if err := h.checkWorkspace(); err != nil {
		logging.Debug("Readiness: %v", err)
		writeJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready", "reason": "workspace not writable"})
		return
	}
	writeJSONStatus(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handlers) checkWorkspace() error {
	for _, root := range h.provider.Roots() {
		if err := startup.CheckWritable(root); err != nil {
			return err
		}
	}
	return nil
}
