package store

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	webhooksFileName  = "webhooks.json"
	dismissedFileName = "dismissed.json"
	lockFileName      = ".store.lock"
)

// fileStore keeps everything in memory and rewrites the JSON files on every change.
// The data directory is locked for the lifetime of the store so that two
// processes never write the same files.
type fileStore struct {
	dir  string
	lock *flock.Flock
	now  func() time.Time

	mu        sync.RWMutex
	webhooks  map[string]Webhook
	dismissed map[string]DismissedItem
}

// NewFileStore opens (or initializes) a file store in dir
func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock data directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("data directory %s is in use by another process", dir)
	}

	s := &fileStore{
		dir:       dir,
		lock:      lock,
		now:       time.Now,
		webhooks:  make(map[string]Webhook),
		dismissed: make(map[string]DismissedItem),
	}

	var webhooks []Webhook
	if err := readJSON(filepath.Join(dir, webhooksFileName), &webhooks); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	for _, w := range webhooks {
		s.webhooks[w.ID] = w
	}

	var dismissed []DismissedItem
	if err := readJSON(filepath.Join(dir, dismissedFileName), &dismissed); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	for _, d := range dismissed {
		s.dismissed[d.ItemID] = d
	}

	return s, nil
}

func (s *fileStore) ListWebhooks(_ context.Context) ([]Webhook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedWebhooks(), nil
}

func (s *fileStore) GetWebhook(_ context.Context, id string) (*Webhook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.webhooks[id]
	if !ok {
		return nil, fmt.Errorf("webhook %s: %w", id, ErrNotFound)
	}
	return &w, nil
}

func (s *fileStore) CreateWebhook(_ context.Context, w *Webhook) (*Webhook, error) {
	created, err := newWebhook(w, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.webhooks[created.ID] = *created
	if err := s.flushWebhooks(); err != nil {
		delete(s.webhooks, created.ID)
		return nil, err
	}
	return created, nil
}

func (s *fileStore) UpdateWebhook(_ context.Context, w *Webhook) (*Webhook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.webhooks[w.ID]
	if !ok {
		return nil, fmt.Errorf("webhook %s: %w", w.ID, ErrNotFound)
	}
	updated, err := updatedWebhook(&existing, w, s.now())
	if err != nil {
		return nil, err
	}
	s.webhooks[w.ID] = *updated
	if err := s.flushWebhooks(); err != nil {
		s.webhooks[w.ID] = existing
		return nil, err
	}
	return updated, nil
}

func (s *fileStore) DeleteWebhook(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.webhooks[id]
	if !ok {
		return fmt.Errorf("webhook %s: %w", id, ErrNotFound)
	}
	delete(s.webhooks, id)
	if err := s.flushWebhooks(); err != nil {
		s.webhooks[id] = existing
		return err
	}
	return nil
}

func (s *fileStore) ListDismissed(_ context.Context) ([]DismissedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedDismissed(), nil
}

func (s *fileStore) IsDismissed(_ context.Context, itemID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.dismissed[itemID]
	return ok, nil
}

func (s *fileStore) Dismiss(_ context.Context, itemID string) (*DismissedItem, error) {
	if err := validateItemID(itemID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.dismissed[itemID]; ok {
		return &existing, nil
	}
	item := DismissedItem{ItemID: itemID, DismissedAt: timestamp(s.now())}
	s.dismissed[itemID] = item
	if err := s.flushDismissed(); err != nil {
		delete(s.dismissed, itemID)
		return nil, err
	}
	return &item, nil
}

func (s *fileStore) Undismiss(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.dismissed[itemID]
	if !ok {
		return fmt.Errorf("dismissed item %s: %w", itemID, ErrNotFound)
	}
	delete(s.dismissed, itemID)
	if err := s.flushDismissed(); err != nil {
		s.dismissed[itemID] = existing
		return err
	}
	return nil
}

func (s *fileStore) Close() error {
	return s.lock.Unlock()
}

func (s *fileStore) sortedWebhooks() []Webhook {
	out := make([]Webhook, 0, len(s.webhooks))
	for _, w := range s.webhooks {
		out = append(out, w)
	}
	slices.SortFunc(out, func(a, b Webhook) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (s *fileStore) sortedDismissed() []DismissedItem {
	out := make([]DismissedItem, 0, len(s.dismissed))
	for _, d := range s.dismissed {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b DismissedItem) int {
		return cmp.Compare(a.ItemID, b.ItemID)
	})
	return out
}

func (s *fileStore) flushWebhooks() error {
	return writeJSON(filepath.Join(s.dir, webhooksFileName), s.sortedWebhooks())
}

func (s *fileStore) flushDismissed() error {
	return writeJSON(filepath.Join(s.dir, dismissedFileName), s.sortedDismissed())
}

func readJSON(path string, v any) error {
	// #nosec G304 -- path is built from the configured data directory
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeJSON replaces path atomically via a temporary file and rename
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(tempPath), err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
