package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stacklok/media-readiness-server/internal/library"
	"github.com/stacklok/media-readiness-server/internal/sources"
)

// Failure reasons carried by Error
const (
	// ReasonFetchFailed means the library could not be retrieved from the media server
	ReasonFetchFailed = "FetchFailed"

	// ReasonValidationFailed means the retrieved library was malformed
	ReasonValidationFailed = "ValidationFailed"

	// ReasonTimeout means the fetch did not complete within the configured timeout
	ReasonTimeout = "Timeout"
)

// Result contains the result of a successful sync operation
type Result struct {
	Snapshot    *library.Snapshot
	Hash        string
	SeriesCount int
	MovieCount  int
	Duration    time.Duration
}

// Error represents a sync failure with a machine readable reason
type Error struct {
	Err     error
	Message string
	Reason  string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Manager performs library synchronization
//
//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks github.com/stacklok/media-readiness-server/internal/sync Manager
type Manager interface {
	// PerformSync fetches the full library and returns an unpublished snapshot
	PerformSync(ctx context.Context) (*Result, *Error)
}

// ManagerOption configures the default Manager
type ManagerOption func(*defaultSyncManager)

// WithFetchTimeout bounds a single fetch. Zero disables the bound.
func WithFetchTimeout(timeout time.Duration) ManagerOption {
	return func(m *defaultSyncManager) {
		m.fetchTimeout = timeout
	}
}

// WithClock overrides the time source used to stamp snapshots
func WithClock(now func() time.Time) ManagerOption {
	return func(m *defaultSyncManager) {
		m.now = now
	}
}

type defaultSyncManager struct {
	source       sources.LibrarySource
	fetchTimeout time.Duration
	now          func() time.Time
}

// NewDefaultSyncManager creates a Manager reading from source
func NewDefaultSyncManager(source sources.LibrarySource, opts ...ManagerOption) Manager {
	m := &defaultSyncManager{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PerformSync fetches, validates and stamps the library
func (m *defaultSyncManager) PerformSync(ctx context.Context) (*Result, *Error) {
	start := m.now()

	fetchCtx := ctx
	if m.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, m.fetchTimeout)
		defer cancel()
	}

	snap, err := m.source.FetchLibrary(fetchCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			slog.Error("Library fetch timed out", "source", m.source.Type(), "timeout", m.fetchTimeout)
			return nil, &Error{
				Err:     err,
				Message: fmt.Sprintf("Fetch timed out after %s: %v", m.fetchTimeout, err),
				Reason:  ReasonTimeout,
			}
		}
		slog.Error("Library fetch failed", "source", m.source.Type(), "error", err)
		return nil, &Error{
			Err:     err,
			Message: fmt.Sprintf("Fetch failed: %v", err),
			Reason:  ReasonFetchFailed,
		}
	}
	if snap == nil {
		err := errors.New("source returned no library")
		return nil, &Error{Err: err, Message: fmt.Sprintf("Fetch failed: %v", err), Reason: ReasonFetchFailed}
	}

	if err := snap.Validate(); err != nil {
		slog.Error("Library validation failed", "source", m.source.Type(), "error", err)
		return nil, &Error{
			Err:     err,
			Message: fmt.Sprintf("Library validation failed: %v", err),
			Reason:  ReasonValidationFailed,
		}
	}

	hash, err := snap.ContentHash()
	if err != nil {
		return nil, &Error{
			Err:     err,
			Message: fmt.Sprintf("Library validation failed: %v", err),
			Reason:  ReasonValidationFailed,
		}
	}

	completed := m.now()
	snap.CompletedAt = completed.UTC()
	snap.Hash = hash

	result := &Result{
		Snapshot:    snap,
		Hash:        hash,
		SeriesCount: len(snap.Series),
		MovieCount:  len(snap.Movies),
		Duration:    completed.Sub(start),
	}

	slog.Info("Library fetched",
		"source", m.source.Type(),
		"series", result.SeriesCount,
		"movies", result.MovieCount,
		"hash", hash,
		"duration", result.Duration)

	return result, nil
}
