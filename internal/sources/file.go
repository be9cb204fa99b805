package sources

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/library"
)

const librarySchemaURL = "library.schema.json"

//go:embed schema/library.schema.json
var librarySchema []byte

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

func loadLibrarySchema() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(librarySchema))
		if err != nil {
			compiledSchemaErr = fmt.Errorf("failed to parse library schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(librarySchemaURL, doc); err != nil {
			compiledSchemaErr = fmt.Errorf("failed to add library schema: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = c.Compile(librarySchemaURL)
	})
	return compiledSchema, compiledSchemaErr
}

// FileSource reads the library from a JSON export on the local filesystem
type FileSource struct {
	path string
}

// NewFileSource creates a new file library source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Type returns config.MediaServerTypeFile
func (*FileSource) Type() string {
	return config.MediaServerTypeFile
}

// Validate validates the file source configuration
func (s *FileSource) Validate() error {
	if s.path == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	return nil
}

// FetchLibrary reads, schema-validates and decodes the export
func (s *FileSource) FetchLibrary(ctx context.Context) (*library.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//nolint:gosec // File path comes from user configuration, this is expected behavior
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", s.path)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", s.path, err)
	}

	return ParseLibraryExport(data)
}

// ParseLibraryExport validates data against the library schema and decodes it
func ParseLibraryExport(data []byte) (*library.Snapshot, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("data cannot be empty")
	}

	schema, err := loadLibrarySchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("library export failed schema validation: %w", err)
	}

	var snap library.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode library export: %w", err)
	}
	// version, completion time and hash come from the syncer, never from the export
	snap.Version = 0
	snap.CompletedAt = time.Time{}
	snap.Hash = ""
	return &snap, nil
}
