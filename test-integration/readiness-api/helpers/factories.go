// Package helpers provides fixtures for the readiness API integration tests
package helpers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/onsi/gomega"
)

// LibraryExport mirrors the JSON export read by the file media source
type LibraryExport struct {
	Series []SeriesData `json:"series"`
	Movies []MovieData  `json:"movies"`
}

// SeriesData is one series of an export
type SeriesData struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	ExternalID string       `json:"externalId,omitempty"`
	Seasons    []SeasonData `json:"seasons"`
}

// SeasonData is one season of a series
type SeasonData struct {
	Number   int           `json:"number"`
	Episodes []EpisodeData `json:"episodes"`
}

// EpisodeData is one episode of a season
type EpisodeData struct {
	ID              string       `json:"id"`
	Number          int          `json:"number"`
	Available       bool         `json:"available"`
	AudioStreams    []StreamData `json:"audioStreams,omitempty"`
	SubtitleStreams []StreamData `json:"subtitleStreams,omitempty"`
}

// MovieData is one movie of an export
type MovieData struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Available       bool         `json:"available"`
	AudioStreams    []StreamData `json:"audioStreams,omitempty"`
	SubtitleStreams []StreamData `json:"subtitleStreams,omitempty"`
}

// StreamData is one audio or subtitle stream
type StreamData struct {
	Language string `json:"language"`
}

// NewSeries builds a single-season series where the first available episodes are present
func NewSeries(id, title string, episodes, available int) SeriesData {
	eps := make([]EpisodeData, 0, episodes)
	for i := 1; i <= episodes; i++ {
		eps = append(eps, EpisodeData{
			ID:        fmt.Sprintf("%s-s1e%d", id, i),
			Number:    i,
			Available: i <= available,
		})
	}
	return SeriesData{
		ID:      id,
		Title:   title,
		Seasons: []SeasonData{{Number: 1, Episodes: eps}},
	}
}

// NewMovie builds a movie without streams
func NewMovie(id, title string, available bool) MovieData {
	return MovieData{ID: id, Title: title, Available: available}
}

// WriteLibrary writes export to path, replacing it atomically so a running sync never reads half a file
func WriteLibrary(path string, export LibraryExport) {
	if export.Series == nil {
		export.Series = []SeriesData{}
	}
	if export.Movies == nil {
		export.Movies = []MovieData{}
	}
	data, err := json.MarshalIndent(export, "", "  ")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	gomega.Expect(os.WriteFile(tmp, data, 0600)).To(gomega.Succeed())
	gomega.Expect(os.Rename(tmp, path)).To(gomega.Succeed())
}

// ConfigOptions holds optional settings for WriteConfigYAML
type ConfigOptions struct {
	ThresholdAlmost  string
	AudioLanguages   []string
	SeedOnFirstCycle *bool
}

// WriteConfigYAML writes a configuration file using the file media source and file storage
func WriteConfigYAML(dir, libraryPath, dataDir string, opts *ConfigOptions) string {
	configContent := fmt.Sprintf(`mediaServer:
  type: file
  file:
    path: %s
syncPolicy:
  interval: 1h
storage:
  type: file
  file:
    baseDir: %s
notifications:
  timeout: 5s
`, libraryPath, dataDir)

	if opts != nil {
		if opts.SeedOnFirstCycle != nil {
			configContent += fmt.Sprintf("  seedOnFirstCycle: %t\n", *opts.SeedOnFirstCycle)
		}
		if opts.ThresholdAlmost != "" || len(opts.AudioLanguages) > 0 {
			configContent += "readiness:\n"
			if opts.ThresholdAlmost != "" {
				configContent += fmt.Sprintf("  thresholdAlmost: %s\n", opts.ThresholdAlmost)
			}
			if len(opts.AudioLanguages) > 0 {
				configContent += "  audioLanguages:\n"
				for _, lang := range opts.AudioLanguages {
					configContent += fmt.Sprintf("    - %s\n", lang)
				}
			}
		}
	}

	configPath := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(configPath, []byte(configContent), 0600)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return configPath
}
