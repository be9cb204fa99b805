// Package store persists webhook configurations and dismissed items.
//
// The readiness core only reads from the store; the HTTP API writes to it.
// Three backends are available: JSON files under a data directory, an embedded
// SQLite database, and PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a webhook or dismissed item does not exist
var ErrNotFound = errors.New("not found")

// ErrInvalid wraps validation failures of user supplied records
var ErrInvalid = errors.New("invalid")

// WebhookType selects the payload format of a webhook
type WebhookType string

const (
	// WebhookTypeDiscord posts a Discord chat message envelope
	WebhookTypeDiscord WebhookType = "discord"

	// WebhookTypeGeneric posts a flat JSON object
	WebhookTypeGeneric WebhookType = "generic"
)

// WebhookFilters selects which transitions a webhook is notified about
type WebhookFilters struct {
	OnReady       bool `json:"onReady"`
	OnAlmostReady bool `json:"onAlmostReady"`
}

// Webhook is a configured notification target
type Webhook struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	URL       string         `json:"url"`
	Type      WebhookType    `json:"type"`
	Enabled   bool           `json:"enabled"`
	Filters   WebhookFilters `json:"filters"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// DismissedItem suppresses notifications for one library item
type DismissedItem struct {
	ItemID      string    `json:"itemId"`
	DismissedAt time.Time `json:"dismissedAt"`
}

// Validate checks the user supplied fields of a webhook
func (w *Webhook) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: webhook name is required", ErrInvalid)
	}
	if w.URL == "" {
		return fmt.Errorf("%w: webhook url is required", ErrInvalid)
	}
	u, err := url.Parse(w.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: webhook url must be an absolute http(s) URL", ErrInvalid)
	}
	switch w.Type {
	case WebhookTypeDiscord, WebhookTypeGeneric:
	default:
		return fmt.Errorf("%w: webhook type must be %q or %q, got %q", ErrInvalid, WebhookTypeDiscord, WebhookTypeGeneric, w.Type)
	}
	return nil
}

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

// Store persists webhooks and dismissed items
type Store interface {
	// ListWebhooks returns all webhooks ordered by creation time
	ListWebhooks(ctx context.Context) ([]Webhook, error)
	// GetWebhook returns one webhook or ErrNotFound
	GetWebhook(ctx context.Context, id string) (*Webhook, error)
	// CreateWebhook validates w, assigns an id and timestamps, and stores it
	CreateWebhook(ctx context.Context, w *Webhook) (*Webhook, error)
	// UpdateWebhook replaces the user supplied fields of an existing webhook
	UpdateWebhook(ctx context.Context, w *Webhook) (*Webhook, error)
	// DeleteWebhook removes a webhook or returns ErrNotFound
	DeleteWebhook(ctx context.Context, id string) error

	// ListDismissed returns all dismissed items ordered by item id
	ListDismissed(ctx context.Context) ([]DismissedItem, error)
	// IsDismissed reports whether an item is dismissed
	IsDismissed(ctx context.Context, itemID string) (bool, error)
	// Dismiss marks an item as dismissed. Dismissing twice keeps the first timestamp.
	Dismiss(ctx context.Context, itemID string) (*DismissedItem, error)
	// Undismiss removes a dismissal or returns ErrNotFound
	Undismiss(ctx context.Context, itemID string) error

	// Close releases the backend's resources
	Close() error
}

// newWebhook validates w and returns a copy with a fresh id and timestamps
func newWebhook(w *Webhook, now time.Time) (*Webhook, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	created := *w
	created.ID = uuid.NewString()
	created.CreatedAt = timestamp(now)
	created.UpdatedAt = created.CreatedAt
	return &created, nil
}

// updatedWebhook applies the user supplied fields of w onto existing
func updatedWebhook(existing, w *Webhook, now time.Time) (*Webhook, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	updated := *existing
	updated.Name = w.Name
	updated.URL = w.URL
	updated.Type = w.Type
	updated.Enabled = w.Enabled
	updated.Filters = w.Filters
	updated.UpdatedAt = timestamp(now)
	return &updated, nil
}

func validateItemID(itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("%w: item id is required", ErrInvalid)
	}
	return nil
}

// timestamp normalizes to UTC at the precision every backend can round-trip
func timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
