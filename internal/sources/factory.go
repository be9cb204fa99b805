package sources

import (
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/httpclient"
)

// NewLibrarySource creates the library source for the configured media server type.
// tracer may be nil.
func NewLibrarySource(cfg *config.Config, client httpclient.Client, tracer trace.Tracer) (LibrarySource, error) {
	var source LibrarySource
	switch cfg.MediaServer.Type {
	case config.MediaServerTypeJellyfin:
		if cfg.MediaServer.Jellyfin == nil {
			return nil, fmt.Errorf("jellyfin configuration is required for media server type %s", config.MediaServerTypeJellyfin)
		}
		apiKey, err := cfg.MediaServer.Jellyfin.GetAPIKey()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve jellyfin api key: %w", err)
		}
		source = NewJellyfinSource(client, cfg.MediaServer.Jellyfin.URL, apiKey,
			WithUserID(cfg.MediaServer.Jellyfin.UserID), WithTracer(tracer))
	case config.MediaServerTypeFile:
		if cfg.MediaServer.File == nil {
			return nil, fmt.Errorf("file configuration is required for media server type %s", config.MediaServerTypeFile)
		}
		source = NewFileSource(cfg.MediaServer.File.Path)
	default:
		return nil, fmt.Errorf("unsupported media server type: %s", cfg.MediaServer.Type)
	}

	if err := source.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s source: %w", source.Type(), err)
	}
	return source, nil
}
