package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The schema is owned by the database package migrations.
type postgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresStore wraps an existing pool. The caller applies migrations first.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool, now: time.Now}
}

const webhookColumns = `id::text, name, url, type, enabled, on_ready, on_almost_ready, created_at, updated_at`

func (s *postgresStore) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+webhookColumns+` FROM webhooks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	webhooks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Webhook, error) {
		w, err := scanPostgresWebhook(row)
		if err != nil {
			return Webhook{}, err
		}
		return *w, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	if webhooks == nil {
		webhooks = []Webhook{}
	}
	return webhooks, nil
}

func (s *postgresStore) GetWebhook(ctx context.Context, id string) (*Webhook, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+webhookColumns+` FROM webhooks WHERE id::text = $1`, id)
	w, err := scanPostgresWebhook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("webhook %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}
	return w, nil
}

func (s *postgresStore) CreateWebhook(ctx context.Context, w *Webhook) (*Webhook, error) {
	created, err := newWebhook(w, s.now())
	if err != nil {
		return nil, err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO webhooks (id, name, url, type, enabled, on_ready, on_almost_ready, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		created.ID, created.Name, created.URL, string(created.Type), created.Enabled,
		created.Filters.OnReady, created.Filters.OnAlmostReady, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}
	return created, nil
}

func (s *postgresStore) UpdateWebhook(ctx context.Context, w *Webhook) (*Webhook, error) {
	existing, err := s.GetWebhook(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	updated, err := updatedWebhook(existing, w, s.now())
	if err != nil {
		return nil, err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE webhooks SET name = $1, url = $2, type = $3, enabled = $4, on_ready = $5, on_almost_ready = $6, updated_at = $7
		WHERE id::text = $8`,
		updated.Name, updated.URL, string(updated.Type), updated.Enabled,
		updated.Filters.OnReady, updated.Filters.OnAlmostReady, updated.UpdatedAt, updated.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("webhook %s: %w", w.ID, ErrNotFound)
	}
	return updated, nil
}

func (s *postgresStore) DeleteWebhook(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM webhooks WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *postgresStore) ListDismissed(ctx context.Context) ([]DismissedItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT item_id, dismissed_at FROM dismissed_items ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list dismissed items: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (DismissedItem, error) {
		var item DismissedItem
		err := row.Scan(&item.ItemID, &item.DismissedAt)
		item.DismissedAt = item.DismissedAt.UTC()
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list dismissed items: %w", err)
	}
	if items == nil {
		items = []DismissedItem{}
	}
	return items, nil
}

func (s *postgresStore) IsDismissed(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM dismissed_items WHERE item_id = $1)`, itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check dismissed item: %w", err)
	}
	return exists, nil
}

func (s *postgresStore) Dismiss(ctx context.Context, itemID string) (*DismissedItem, error) {
	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	// The no-op update makes RETURNING yield the existing row on conflict
	item := DismissedItem{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO dismissed_items (item_id, dismissed_at) VALUES ($1, $2)
		ON CONFLICT (item_id) DO UPDATE SET dismissed_at = dismissed_items.dismissed_at
		RETURNING item_id, dismissed_at`,
		itemID, timestamp(s.now())).Scan(&item.ItemID, &item.DismissedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to dismiss item: %w", err)
	}
	item.DismissedAt = item.DismissedAt.UTC()
	return &item, nil
}

func (s *postgresStore) Undismiss(ctx context.Context, itemID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM dismissed_items WHERE item_id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete dismissed item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dismissed item %s: %w", itemID, ErrNotFound)
	}
	return nil
}

// Close is a no-op; the pool belongs to the caller
func (*postgresStore) Close() error {
	return nil
}

func scanPostgresWebhook(row pgx.Row) (*Webhook, error) {
	var (
		w           Webhook
		webhookType string
	)
	if err := row.Scan(&w.ID, &w.Name, &w.URL, &webhookType, &w.Enabled,
		&w.Filters.OnReady, &w.Filters.OnAlmostReady, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.Type = WebhookType(webhookType)
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return &w, nil
}
