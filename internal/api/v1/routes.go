// Package v1 provides the /api/v1 endpoints for sync control, library
// browsing, readiness verdicts, webhooks and dismissed items.
package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/media-readiness-server/internal/library"
	"github.com/stacklok/media-readiness-server/internal/notify"
	"github.com/stacklok/media-readiness-server/internal/store"
	"github.com/stacklok/media-readiness-server/internal/sync/coordinator"
)

// Routes handles HTTP requests for the v1 API
type Routes struct {
	coordinator coordinator.Coordinator
	snapshots   *library.Store
	dispatcher  notify.Dispatcher
	store       store.Store
}

// NewRoutes creates a new Routes instance
func NewRoutes(
	coord coordinator.Coordinator,
	snapshots *library.Store,
	dispatcher notify.Dispatcher,
	st store.Store,
) *Routes {
	return &Routes{
		coordinator: coord,
		snapshots:   snapshots,
		dispatcher:  dispatcher,
		store:       st,
	}
}

// Router creates and configures the HTTP router for the v1 API
func Router(
	coord coordinator.Coordinator,
	snapshots *library.Store,
	dispatcher notify.Dispatcher,
	st store.Store,
) http.Handler {
	routes := NewRoutes(coord, snapshots, dispatcher, st)

	r := chi.NewRouter()

	r.Get("/sync", routes.getSyncState)
	r.Post("/sync", routes.triggerSync)

	r.Route("/library", func(r chi.Router) {
		r.Get("/", routes.getLibrarySummary)
		r.Get("/series", routes.listSeries)
		r.Get("/movies", routes.listMovies)
	})

	r.Get("/items", routes.listItems)
	r.Get("/items/{itemID}", routes.getItem)

	r.Route("/webhooks", func(r chi.Router) {
		r.Get("/", routes.listWebhooks)
		r.Post("/", routes.createWebhook)
		r.Route("/{webhookID}", func(r chi.Router) {
			r.Get("/", routes.getWebhook)
			r.Put("/", routes.updateWebhook)
			r.Delete("/", routes.deleteWebhook)
			r.Post("/test", routes.testWebhook)
		})
	})

	r.Route("/dismissed", func(r chi.Router) {
		r.Get("/", routes.listDismissed)
		r.Put("/{itemID}", routes.dismissItem)
		r.Delete("/{itemID}", routes.undismissItem)
	})

	return r
}
