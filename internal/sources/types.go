package sources

import (
	"context"

	"github.com/stacklok/media-readiness-server/internal/library"
)

//go:generate mockgen -destination=mocks/mock_library_source.go -package=mocks -source=types.go LibrarySource

// LibrarySource fetches the complete library from a media server
type LibrarySource interface {
	// FetchLibrary retrieves the full library. The returned snapshot has no
	// version or completion time; those are stamped by the syncer.
	FetchLibrary(ctx context.Context) (*library.Snapshot, error)

	// Validate checks the source configuration without contacting the server
	Validate() error

	// Type returns the configured media server type
	Type() string
}
