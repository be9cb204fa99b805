package v1

import (
	"net/http"

	"github.com/stacklok/media-readiness-server/internal/api/common"
	"github.com/stacklok/media-readiness-server/internal/library"
)

// getLibrarySummary handles GET /api/v1/library
func (routes *Routes) getLibrarySummary(w http.ResponseWriter, _ *http.Request) {
	snap := routes.snapshots.Current()

	summary := LibrarySummary{
		Synced:      routes.snapshots.HasSnapshot(),
		Version:     snap.Version,
		Hash:        snap.Hash,
		SeriesCount: len(snap.Series),
		MovieCount:  len(snap.Movies),
	}
	if !snap.CompletedAt.IsZero() {
		completed := snap.CompletedAt
		summary.CompletedAt = &completed
	}
	for i := range snap.Series {
		summary.EpisodeCount += len(snap.Series[i].Episodes())
	}

	common.WriteJSONResponse(w, summary, http.StatusOK)
}

// listSeries handles GET /api/v1/library/series
func (routes *Routes) listSeries(w http.ResponseWriter, _ *http.Request) {
	snap := routes.snapshots.Current()

	series := make([]SeriesSummary, 0, len(snap.Series))
	for i := range snap.Series {
		series = append(series, summarizeSeries(&snap.Series[i]))
	}

	common.WriteJSONResponse(w, SeriesListResponse{
		Version: snap.Version,
		Series:  series,
		Count:   len(series),
	}, http.StatusOK)
}

// listMovies handles GET /api/v1/library/movies
func (routes *Routes) listMovies(w http.ResponseWriter, _ *http.Request) {
	snap := routes.snapshots.Current()

	movies := snap.Movies
	if movies == nil {
		movies = []library.Movie{}
	}

	common.WriteJSONResponse(w, MovieListResponse{
		Version: snap.Version,
		Movies:  movies,
		Count:   len(movies),
	}, http.StatusOK)
}

func summarizeSeries(s *library.Series) SeriesSummary {
	summary := SeriesSummary{
		ID:          s.ID,
		Title:       s.Title,
		ExternalID:  s.ExternalID,
		SeasonCount: len(s.Seasons),
	}
	for _, ep := range s.Episodes() {
		summary.EpisodeCount++
		if ep.Available {
			summary.AvailableEpisodes++
		}
	}
	return summary
}
