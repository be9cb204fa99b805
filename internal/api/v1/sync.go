package v1

import (
	"net/http"

	"github.com/stacklok/media-readiness-server/internal/api/common"
)

// getSyncState handles GET /api/v1/sync
func (routes *Routes) getSyncState(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, routes.coordinator.SyncState(), http.StatusOK)
}

// triggerSync handles POST /api/v1/sync.
// Responds 202 when a cycle was started and 409 when one was already running.
func (routes *Routes) triggerSync(w http.ResponseWriter, r *http.Request) {
	result := routes.coordinator.TriggerManualSync(r.Context())
	if !result.Accepted {
		common.WriteJSONResponse(w, result, http.StatusConflict)
		return
	}
	common.WriteJSONResponse(w, result, http.StatusAccepted)
}
