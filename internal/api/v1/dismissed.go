package v1

import (
	"log/slog"
	"net/http"

	"github.com/stacklok/media-readiness-server/internal/api/common"
	"github.com/stacklok/media-readiness-server/internal/store"
)

// listDismissed handles GET /api/v1/dismissed
func (routes *Routes) listDismissed(w http.ResponseWriter, r *http.Request) {
	items, err := routes.store.ListDismissed(r.Context())
	if err != nil {
		common.WriteStoreError(w, err, "list dismissed items")
		return
	}
	if items == nil {
		items = []store.DismissedItem{}
	}
	common.WriteJSONResponse(w, DismissedListResponse{Items: items, Count: len(items)}, http.StatusOK)
}

// dismissItem handles PUT /api/v1/dismissed/{itemID}.
// Dismissing an already dismissed item returns the original record.
func (routes *Routes) dismissItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := common.GetAndValidateURLParam(r, "itemID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := routes.store.Dismiss(r.Context(), itemID)
	if err != nil {
		common.WriteStoreError(w, err, "dismiss item")
		return
	}

	slog.Info("Item dismissed", "item_id", itemID)
	common.WriteJSONResponse(w, item, http.StatusOK)
}

// undismissItem handles DELETE /api/v1/dismissed/{itemID}
func (routes *Routes) undismissItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := common.GetAndValidateURLParam(r, "itemID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := routes.store.Undismiss(r.Context(), itemID); err != nil {
		common.WriteStoreError(w, err, "undismiss item")
		return
	}

	slog.Info("Item undismissed", "item_id", itemID)
	w.WriteHeader(http.StatusNoContent)
}
