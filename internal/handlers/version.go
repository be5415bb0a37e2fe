package handlers

import (
	"net/http"

	"video-converter/internal/startup"
)

// VersionResponse is the build information plus the FFmpeg in use.
type VersionResponse struct {
	startup.BuildInfo
	FFmpeg string `json:"ffmpeg,omitempty"`
}

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, r *http.Request) {
	resp := VersionResponse{BuildInfo: startup.GetBuildInfo()}
	if v, err := h.ffmpeg.Version(r.Context()); err == nil {
		resp.FFmpeg = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, resp)
}
