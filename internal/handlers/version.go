package handlers

import (
	"net/http"

	"m3u-parser/internal/playlist"
	"m3u-parser/internal/startup"
)

// VersionResponse is the build information plus the parser configuration
// this instance runs with.
type VersionResponse struct {
	startup.BuildInfo
	Tags           []string `json:"tags"`
	MaxLineLength  int      `json:"maxLineLength"`
	MaxUploadBytes int64    `json:"maxUploadBytes"`
}

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSONCode(w, VersionResponse{
		BuildInfo:      startup.GetBuildInfo(),
		Tags:           h.registry.Names(),
		MaxLineLength:  playlist.MaxLineLength,
		MaxUploadBytes: h.maxUploadBytes,
	}, http.StatusOK)
}
