package v1

import (
	"time"

	"github.com/stacklok/media-readiness-server/internal/library"
	"github.com/stacklok/media-readiness-server/internal/readiness"
	"github.com/stacklok/media-readiness-server/internal/store"
)

// LibrarySummary describes the currently published snapshot
type LibrarySummary struct {
	Synced       bool       `json:"synced"`
	Version      uint64     `json:"version"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Hash         string     `json:"hash,omitempty"`
	SeriesCount  int        `json:"seriesCount"`
	MovieCount   int        `json:"movieCount"`
	EpisodeCount int        `json:"episodeCount"`
}

// SeriesSummary is a series without its episode list
type SeriesSummary struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	ExternalID        string `json:"externalId,omitempty"`
	SeasonCount       int    `json:"seasonCount"`
	EpisodeCount      int    `json:"episodeCount"`
	AvailableEpisodes int    `json:"availableEpisodes"`
}

// SeriesListResponse lists the series of the current snapshot
type SeriesListResponse struct {
	Version uint64          `json:"version"`
	Series  []SeriesSummary `json:"series"`
	Count   int             `json:"count"`
}

// MovieListResponse lists the movies of the current snapshot
type MovieListResponse struct {
	Version uint64          `json:"version"`
	Movies  []library.Movie `json:"movies"`
	Count   int             `json:"count"`
}

// ItemResponse is the last verdict of an item together with its dismissal
type ItemResponse struct {
	readiness.Verdict
	Dismissed bool `json:"dismissed"`
}

// ItemListResponse lists the last verdicts
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Count int            `json:"count"`
}

// WebhookRequest is the body of webhook create and update requests.
// Enabled defaults to true and Filters to ready notifications only.
type WebhookRequest struct {
	Name    string                `json:"name"`
	URL     string                `json:"url"`
	Type    store.WebhookType     `json:"type"`
	Enabled *bool                 `json:"enabled,omitempty"`
	Filters *store.WebhookFilters `json:"filters,omitempty"`
}

// WebhookListResponse lists the configured webhooks
type WebhookListResponse struct {
	Webhooks []store.Webhook `json:"webhooks"`
	Count    int             `json:"count"`
}

// WebhookTestResponse reports the outcome of a test delivery
type WebhookTestResponse struct {
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// DismissedListResponse lists the dismissed items
type DismissedListResponse struct {
	Items []store.DismissedItem `json:"items"`
	Count int                   `json:"count"`
}

func (req *WebhookRequest) toWebhook() *store.Webhook {
	w := &store.Webhook{
		Name:    req.Name,
		URL:     req.URL,
		Type:    req.Type,
		Enabled: true,
		Filters: store.WebhookFilters{OnReady: true},
	}
	if req.Enabled != nil {
		w.Enabled = *req.Enabled
	}
	if req.Filters != nil {
		w.Filters = *req.Filters
	}
	return w
}
