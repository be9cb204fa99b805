// Package health serves the liveness, readiness and version endpoints.
package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/media-readiness-server/internal/api/common"
	"github.com/stacklok/media-readiness-server/internal/versions"
)

// SnapshotChecker reports whether a library snapshot has been published
type SnapshotChecker interface {
	HasSnapshot() bool
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string `json:"status" example:"ready"`
}

// Router creates a router for health check endpoints
func Router(snapshots SnapshotChecker) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(snapshots))
	r.Get("/version", versionHandler)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{Status: "healthy"}, http.StatusOK)
}

// readinessHandler reports 503 until the first library snapshot is published
func readinessHandler(snapshots SnapshotChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if !snapshots.HasSnapshot() {
			common.WriteErrorResponse(w, "Library not synced yet", http.StatusServiceUnavailable)
			return
		}
		common.WriteJSONResponse(w, ReadinessResponse{Status: "ready"}, http.StatusOK)
	}
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}
