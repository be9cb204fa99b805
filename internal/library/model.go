package library

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// ItemKind distinguishes the trackable item types
type ItemKind string

const (
	// ItemKindSeries is a TV series
	ItemKindSeries ItemKind = "series"

	// ItemKindMovie is a movie
	ItemKindMovie ItemKind = "movie"
)

// Stream is one audio or subtitle track. An empty Language means the track is untagged.
type Stream struct {
	Language string `json:"language,omitempty"`
}

// Episode is a single episode of a season
type Episode struct {
	ID              string   `json:"id"`
	Title           string   `json:"title,omitempty"`
	Number          int      `json:"number,omitempty"`
	Available       bool     `json:"available"`
	AudioStreams    []Stream `json:"audioStreams,omitempty"`
	SubtitleStreams []Stream `json:"subtitleStreams,omitempty"`
}

// Season is an ordered list of episodes
type Season struct {
	Number   int       `json:"number"`
	Episodes []Episode `json:"episodes"`
}

// Series is a TV series with its seasons
type Series struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	ExternalID string   `json:"externalId,omitempty"`
	Seasons    []Season `json:"seasons"`
}

// Movie is a single movie
type Movie struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	ExternalID      string   `json:"externalId,omitempty"`
	Available       bool     `json:"available"`
	AudioStreams    []Stream `json:"audioStreams,omitempty"`
	SubtitleStreams []Stream `json:"subtitleStreams,omitempty"`
}

// Snapshot is a complete picture of the library at one point in time.
// Version and CompletedAt are stamped when the snapshot is built and published.
type Snapshot struct {
	Version     uint64    `json:"version"`
	CompletedAt time.Time `json:"completedAt"`
	Hash        string    `json:"hash,omitempty"`
	Series      []Series  `json:"series"`
	Movies      []Movie   `json:"movies"`
}

// Episodes returns all episodes of the series across seasons, in season order.
func (s *Series) Episodes() []Episode {
	var n int
	for _, season := range s.Seasons {
		n += len(season.Episodes)
	}
	episodes := make([]Episode, 0, n)
	for _, season := range s.Seasons {
		episodes = append(episodes, season.Episodes...)
	}
	return episodes
}

// ItemCount returns the number of trackable items (series plus movies)
func (s *Snapshot) ItemCount() int {
	if s == nil {
		return 0
	}
	return len(s.Series) + len(s.Movies)
}

// FindSeries returns the series with the given id
func (s *Snapshot) FindSeries(id string) (*Series, bool) {
	for i := range s.Series {
		if s.Series[i].ID == id {
			return &s.Series[i], true
		}
	}
	return nil, false
}

// FindMovie returns the movie with the given id
func (s *Snapshot) FindMovie(id string) (*Movie, bool) {
	for i := range s.Movies {
		if s.Movies[i].ID == id {
			return &s.Movies[i], true
		}
	}
	return nil, false
}

// Validate checks that every series, movie and episode has an id and that
// series and movie ids are unique across the snapshot.
func (s *Snapshot) Validate() error {
	seen := make(map[string]ItemKind, s.ItemCount())
	for i, series := range s.Series {
		if series.ID == "" {
			return fmt.Errorf("series[%d] (%s): id is required", i, series.Title)
		}
		if kind, dup := seen[series.ID]; dup {
			return fmt.Errorf("series[%d]: duplicate id %q (already used by a %s)", i, series.ID, kind)
		}
		seen[series.ID] = ItemKindSeries
		for _, season := range series.Seasons {
			for j, ep := range season.Episodes {
				if ep.ID == "" {
					return fmt.Errorf("series %q season %d episode[%d]: id is required", series.ID, season.Number, j)
				}
			}
		}
	}
	for i, movie := range s.Movies {
		if movie.ID == "" {
			return fmt.Errorf("movies[%d] (%s): id is required", i, movie.Title)
		}
		if kind, dup := seen[movie.ID]; dup {
			return fmt.Errorf("movies[%d]: duplicate id %q (already used by a %s)", i, movie.ID, kind)
		}
		seen[movie.ID] = ItemKindMovie
	}
	return nil
}

// ContentHash returns the SHA-256 of the library content, ignoring version and timestamps.
func (s *Snapshot) ContentHash() (string, error) {
	content := struct {
		Series []Series `json:"series"`
		Movies []Movie  `json:"movies"`
	}{Series: s.Series, Movies: s.Movies}

	data, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot content: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
