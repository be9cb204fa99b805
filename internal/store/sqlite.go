package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the sqlite driver
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS webhooks (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    url             TEXT NOT NULL,
    type            TEXT NOT NULL CHECK (type IN ('discord', 'generic')),
    enabled         INTEGER NOT NULL DEFAULT 1,
    on_ready        INTEGER NOT NULL DEFAULT 1,
    on_almost_ready INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL,
    updated_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS webhooks_created_at_idx ON webhooks (created_at);
CREATE TABLE IF NOT EXISTS dismissed_items (
    item_id      TEXT PRIMARY KEY,
    dismissed_at TEXT NOT NULL
);`

type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens the SQLite database at path and creates the schema if needed
func NewSQLiteStore(ctx context.Context, path string) (Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &sqliteStore{db: db, now: time.Now}, nil
}

func (s *sqliteStore) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, url, type, enabled, on_ready, on_almost_ready, created_at, updated_at
		FROM webhooks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	webhooks := []Webhook{}
	for rows.Next() {
		w, err := scanSQLiteWebhook(rows)
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	return webhooks, nil
}

func (s *sqliteStore) GetWebhook(ctx context.Context, id string) (*Webhook, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, url, type, enabled, on_ready, on_almost_ready, created_at, updated_at
		FROM webhooks WHERE id = ?`, id)
	w, err := scanSQLiteWebhook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("webhook %s: %w", id, ErrNotFound)
	}
	return w, err
}

func (s *sqliteStore) CreateWebhook(ctx context.Context, w *Webhook) (*Webhook, error) {
	created, err := newWebhook(w, s.now())
	if err != nil {
		return nil, err
	}
	err = s.execWithRetry(ctx, `
		INSERT INTO webhooks (id, name, url, type, enabled, on_ready, on_almost_ready, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.Name, created.URL, string(created.Type), created.Enabled,
		created.Filters.OnReady, created.Filters.OnAlmostReady,
		formatTime(created.CreatedAt), formatTime(created.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}
	return created, nil
}

func (s *sqliteStore) UpdateWebhook(ctx context.Context, w *Webhook) (*Webhook, error) {
	existing, err := s.GetWebhook(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	updated, err := updatedWebhook(existing, w, s.now())
	if err != nil {
		return nil, err
	}
	var affected int64
	err = retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx, `
			UPDATE webhooks SET name = ?, url = ?, type = ?, enabled = ?, on_ready = ?, on_almost_ready = ?, updated_at = ?
			WHERE id = ?`,
			updated.Name, updated.URL, string(updated.Type), updated.Enabled,
			updated.Filters.OnReady, updated.Filters.OnAlmostReady, formatTime(updated.UpdatedAt), updated.ID)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update webhook: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("webhook %s: %w", w.ID, ErrNotFound)
	}
	return updated, nil
}

func (s *sqliteStore) DeleteWebhook(ctx context.Context, id string) error {
	return s.deleteOne(ctx, `DELETE FROM webhooks WHERE id = ?`, id, "webhook")
}

func (s *sqliteStore) ListDismissed(ctx context.Context) ([]DismissedItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_id, dismissed_at FROM dismissed_items ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list dismissed items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []DismissedItem{}
	for rows.Next() {
		var (
			item        DismissedItem
			dismissedAt string
		)
		if err := rows.Scan(&item.ItemID, &dismissedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dismissed item: %w", err)
		}
		if item.DismissedAt, err = parseTime(dismissedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list dismissed items: %w", err)
	}
	return items, nil
}

func (s *sqliteStore) IsDismissed(ctx context.Context, itemID string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dismissed_items WHERE item_id = ?`, itemID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check dismissed item: %w", err)
	}
	return count > 0, nil
}

func (s *sqliteStore) Dismiss(ctx context.Context, itemID string) (*DismissedItem, error) {
	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO dismissed_items (item_id, dismissed_at) VALUES (?, ?) ON CONFLICT (item_id) DO NOTHING`,
		itemID, formatTime(timestamp(s.now())))
	if err != nil {
		return nil, fmt.Errorf("failed to dismiss item: %w", err)
	}

	var dismissedAt string
	if err := s.db.QueryRowContext(ctx,
		`SELECT dismissed_at FROM dismissed_items WHERE item_id = ?`, itemID).Scan(&dismissedAt); err != nil {
		return nil, fmt.Errorf("failed to read dismissed item: %w", err)
	}
	ts, err := parseTime(dismissedAt)
	if err != nil {
		return nil, err
	}
	return &DismissedItem{ItemID: itemID, DismissedAt: ts}, nil
}

func (s *sqliteStore) Undismiss(ctx context.Context, itemID string) error {
	return s.deleteOne(ctx, `DELETE FROM dismissed_items WHERE item_id = ?`, itemID, "dismissed item")
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) deleteOne(ctx context.Context, query, key, what string) error {
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx, query, key)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", what, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", what, key, ErrNotFound)
	}
	return nil
}

func (s *sqliteStore) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteWebhook(row rowScanner) (*Webhook, error) {
	var (
		w                    Webhook
		webhookType          string
		createdAt, updatedAt string
	)
	err := row.Scan(&w.ID, &w.Name, &w.URL, &webhookType, &w.Enabled,
		&w.Filters.OnReady, &w.Filters.OnAlmostReady, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan webhook: %w", err)
	}
	w.Type = WebhookType(webhookType)
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
