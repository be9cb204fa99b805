package v1

import (
	"cmp"
	"fmt"
	"net/http"
	"slices"

	"github.com/stacklok/media-readiness-server/internal/api/common"
	"github.com/stacklok/media-readiness-server/internal/library"
	"github.com/stacklok/media-readiness-server/internal/readiness"
)

// listItems handles GET /api/v1/items.
//
// Items are ordered by status (ready first), then progress, then title.
// Optional query parameters:
//   - status: ready, almost-ready or not-ready
//   - kind: series or movie
func (routes *Routes) listItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	statusFilter := readiness.Status(query.Get("status"))
	if statusFilter != "" && statusFilter.Rank() < 0 {
		common.WriteErrorResponse(w,
			fmt.Sprintf("Invalid status parameter: must be one of %s, %s, %s",
				readiness.StatusReady, readiness.StatusAlmostReady, readiness.StatusNotReady),
			http.StatusBadRequest)
		return
	}

	kindFilter := library.ItemKind(query.Get("kind"))
	if kindFilter != "" && kindFilter != library.ItemKindSeries && kindFilter != library.ItemKindMovie {
		common.WriteErrorResponse(w,
			fmt.Sprintf("Invalid kind parameter: must be %s or %s", library.ItemKindSeries, library.ItemKindMovie),
			http.StatusBadRequest)
		return
	}

	dismissed, err := routes.store.ListDismissed(r.Context())
	if err != nil {
		common.WriteStoreError(w, err, "list dismissed items")
		return
	}
	dismissedIDs := make(map[string]struct{}, len(dismissed))
	for _, d := range dismissed {
		dismissedIDs[d.ItemID] = struct{}{}
	}

	items := make([]ItemResponse, 0)
	for _, v := range routes.dispatcher.LastVerdicts() {
		if statusFilter != "" && v.Status != statusFilter {
			continue
		}
		if kindFilter != "" && v.ItemKind != kindFilter {
			continue
		}
		_, isDismissed := dismissedIDs[v.ItemID]
		items = append(items, ItemResponse{Verdict: v, Dismissed: isDismissed})
	}
	slices.SortFunc(items, compareItems)

	common.WriteJSONResponse(w, ItemListResponse{Items: items, Count: len(items)}, http.StatusOK)
}

// getItem handles GET /api/v1/items/{itemID}
func (routes *Routes) getItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := common.GetAndValidateURLParam(r, "itemID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	verdict, ok := routes.dispatcher.LastVerdict(itemID)
	if !ok {
		common.WriteErrorResponse(w, fmt.Sprintf("Item %s not found", itemID), http.StatusNotFound)
		return
	}

	dismissed, err := routes.store.IsDismissed(r.Context(), itemID)
	if err != nil {
		common.WriteStoreError(w, err, "check dismissal")
		return
	}

	common.WriteJSONResponse(w, ItemResponse{Verdict: verdict, Dismissed: dismissed}, http.StatusOK)
}

func compareItems(a, b ItemResponse) int {
	return cmp.Or(
		cmp.Compare(b.Status.Rank(), a.Status.Rank()),
		cmp.Compare(b.ProgressPercent, a.ProgressPercent),
		cmp.Compare(a.Title, b.Title),
		cmp.Compare(a.ItemID, b.ItemID),
	)
}
