package handlers

import (
	"net/http"
	"runtime"
	"time"

	"showcase-media/internal/startup"
)

const statusHealthy = "healthy"

// HealthResponse contains the health check response
type HealthResponse struct {
	Status             string `json:"status"`
	Version            string `json:"version"`
	Uptime             string `json:"uptime"`
	TranscodingEnabled bool   `json:"transcodingEnabled"`
	ActiveUploads      int    `json:"activeUploads"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:             statusHealthy,
		Version:            startup.Version,
		Uptime:             time.Since(h.startTime).Round(time.Second).String(),
		TranscodingEnabled: h.config.TranscodingEnabled,
		ActiveUploads:      h.trackers.Len(),
		GoVersion:          runtime.Version(),
		NumCPU:             runtime.NumCPU(),
		NumGoroutine:       runtime.NumGoroutine(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	writeJSON(w, response)
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

// ReadinessCheck returns 200 once startup has completed. The storage client
// is constructed before the server starts listening, so readiness here is
// equivalent to liveness.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	writeJSON(w, map[string]string{
		"status": "ready",
	})
}
