package handlers

import (
	"net/http"
	"runtime"
	"time"

	"m3u-parser/internal/logging"
	"m3u-parser/internal/startup"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Ready      bool   `json:"ready"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	Error      string `json:"error,omitempty"`
	LastImport string `json:"lastImport,omitempty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	// Catalog summary
	Playlists   int `json:"playlists"`
	Entries     int `json:"entries"`
	ParseErrors int `json:"parseErrors"`
	Tags        int `json:"tags"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Ready:        true,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
		Tags:         len(h.registry.Tags()),
	}

	stats, err := h.db.CatalogStats(r.Context())
	if err != nil {
		logging.Warn("Health check failed: %v", err)
		response.Status = statusUnhealthy
		response.Ready = false
		response.Error = err.Error()
	} else {
		response.Playlists = stats.Playlists
		response.Entries = stats.Entries
		response.ParseErrors = stats.ParseErrors
		if !stats.LastImport.IsZero() {
			response.LastImport = stats.LastImport.Format(time.RFC3339)
		}
	}

	status := http.StatusOK
	if !response.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSONCode(w, response, status)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only when the catalog is reachable
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		logging.Warn("Readiness check failed: %v", err)
		writeJSONStatus(w, "not_ready", http.StatusServiceUnavailable)
		return
	}
	writeJSONStatus(w, "ready", http.StatusOK)
}
