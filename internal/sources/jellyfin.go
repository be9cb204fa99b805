package sources

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/httpclient"
	"github.com/stacklok/media-readiness-server/internal/library"
	"github.com/stacklok/media-readiness-server/internal/otel"
)

const (
	// DefaultJellyfinPageSize is the number of items requested per page
	DefaultJellyfinPageSize = 500

	jellyfinTokenHeader   = "X-Emby-Token"
	jellyfinItemTypes     = "Series,Season,Episode,Movie"
	jellyfinFields        = "MediaStreams,ProviderIds"
	locationTypeVirtual   = "Virtual"
	streamTypeAudio       = "Audio"
	streamTypeSubtitle    = "Subtitle"
	jellyfinItemsPath     = "/Items"
	jellyfinUserItemsPath = "/Users/%s/Items"
)

// JellyfinOption configures a JellyfinSource
type JellyfinOption func(*JellyfinSource)

// WithUserID queries the library as seen by the given user
func WithUserID(userID string) JellyfinOption {
	return func(s *JellyfinSource) {
		s.userID = userID
	}
}

// WithPageSize overrides DefaultJellyfinPageSize
func WithPageSize(n int) JellyfinOption {
	return func(s *JellyfinSource) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithTracer records a span per fetch
func WithTracer(tracer trace.Tracer) JellyfinOption {
	return func(s *JellyfinSource) {
		s.tracer = tracer
	}
}

// JellyfinSource fetches the library from the Jellyfin items API
type JellyfinSource struct {
	client   httpclient.Client
	tracer   trace.Tracer
	baseURL  string
	apiKey   string
	userID   string
	pageSize int
}

// NewJellyfinSource creates a Jellyfin library source
func NewJellyfinSource(client httpclient.Client, baseURL, apiKey string, opts ...JellyfinOption) *JellyfinSource {
	s := &JellyfinSource{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		pageSize: DefaultJellyfinPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Type returns config.MediaServerTypeJellyfin
func (*JellyfinSource) Type() string {
	return config.MediaServerTypeJellyfin
}

// Validate validates the Jellyfin source configuration
func (s *JellyfinSource) Validate() error {
	if s.client == nil {
		return fmt.Errorf("http client is required")
	}
	if s.baseURL == "" {
		return fmt.Errorf("jellyfin url cannot be empty")
	}
	u, err := url.Parse(s.baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("jellyfin url must be an absolute http(s) URL: %q", s.baseURL)
	}
	if s.apiKey == "" {
		return fmt.Errorf("jellyfin api key cannot be empty")
	}
	return nil
}

// FetchLibrary pages through every series, season, episode and movie and assembles a snapshot
func (s *JellyfinSource) FetchLibrary(ctx context.Context) (*library.Snapshot, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "sources.fetch",
		trace.WithAttributes(otel.AttrSourceType.String(config.MediaServerTypeJellyfin)))
	defer span.End()

	var items []gjson.Result
	for start := 0; ; {
		page, total, err := s.fetchPage(ctx, start)
		if err != nil {
			otel.RecordError(span, err)
			return nil, err
		}
		items = append(items, page...)
		start += len(page)
		if len(page) == 0 || start >= total {
			break
		}
	}

	snap, err := buildSnapshot(items)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	slog.Debug("Fetched library from Jellyfin",
		"items", len(items),
		"series", len(snap.Series),
		"movies", len(snap.Movies))
	span.SetAttributes(otel.AttrItemCount.Int(snap.ItemCount()))
	return snap, nil
}

func (s *JellyfinSource) fetchPage(ctx context.Context, start int) ([]gjson.Result, int, error) {
	path := jellyfinItemsPath
	if s.userID != "" {
		path = fmt.Sprintf(jellyfinUserItemsPath, url.PathEscape(s.userID))
	}

	query := url.Values{}
	query.Set("Recursive", "true")
	query.Set("IncludeItemTypes", jellyfinItemTypes)
	query.Set("Fields", jellyfinFields)
	query.Set("StartIndex", strconv.Itoa(start))
	query.Set("Limit", strconv.Itoa(s.pageSize))
	endpoint := s.baseURL + path + "?" + query.Encode()

	body, err := s.client.Get(ctx, endpoint, httpclient.WithHeader(jellyfinTokenHeader, s.apiKey))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch jellyfin items: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, 0, fmt.Errorf("jellyfin returned invalid JSON")
	}

	result := gjson.ParseBytes(body)
	itemsField := result.Get("Items")
	if !itemsField.IsArray() {
		return nil, 0, fmt.Errorf("jellyfin response has no Items array")
	}
	return itemsField.Array(), int(result.Get("TotalRecordCount").Int()), nil
}

type seasonKey struct {
	seriesID string
	seasonID string
}

type episodeEntry struct {
	index   int
	episode library.Episode
}

type seasonEntry struct {
	number   int
	episodes []episodeEntry
}

// buildSnapshot groups flat Jellyfin items into the library hierarchy.
// Episodes reference their season by SeasonId; when Jellyfin omits the season
// item the season number from ParentIndexNumber is used instead.
func buildSnapshot(items []gjson.Result) (*library.Snapshot, error) {
	var seriesOrder []string
	seriesByID := make(map[string]*library.Series)
	seasons := make(map[seasonKey]*seasonEntry)
	var seasonOrder []seasonKey
	var movies []library.Movie

	seasonFor := func(seriesID, seasonID string, number int) *seasonEntry {
		key := seasonKey{seriesID: seriesID, seasonID: seasonID}
		if key.seasonID == "" {
			key.seasonID = "#" + strconv.Itoa(number)
		}
		entry, ok := seasons[key]
		if !ok {
			entry = &seasonEntry{number: number}
			seasons[key] = entry
			seasonOrder = append(seasonOrder, key)
		}
		return entry
	}

	for _, item := range items {
		id := item.Get("Id").String()
		switch item.Get("Type").String() {
		case "Series":
			if _, ok := seriesByID[id]; ok {
				continue
			}
			seriesOrder = append(seriesOrder, id)
			seriesByID[id] = &library.Series{
				ID:         id,
				Title:      item.Get("Name").String(),
				ExternalID: externalID(item),
			}
		case "Season":
			seasonFor(item.Get("SeriesId").String(), id, int(item.Get("IndexNumber").Int()))
		case "Episode":
			seriesID := item.Get("SeriesId").String()
			if seriesID == "" {
				return nil, fmt.Errorf("episode %q has no SeriesId", id)
			}
			entry := seasonFor(seriesID, item.Get("SeasonId").String(), int(item.Get("ParentIndexNumber").Int()))
			audio, subtitles := streams(item)
			entry.episodes = append(entry.episodes, episodeEntry{
				index: int(item.Get("IndexNumber").Int()),
				episode: library.Episode{
					ID:              id,
					Title:           item.Get("Name").String(),
					Number:          int(item.Get("IndexNumber").Int()),
					Available:       item.Get("LocationType").String() != locationTypeVirtual,
					AudioStreams:    audio,
					SubtitleStreams: subtitles,
				},
			})
		case "Movie":
			audio, subtitles := streams(item)
			movies = append(movies, library.Movie{
				ID:              id,
				Title:           item.Get("Name").String(),
				ExternalID:      externalID(item),
				Available:       item.Get("LocationType").String() != locationTypeVirtual,
				AudioStreams:    audio,
				SubtitleStreams: subtitles,
			})
		}
	}

	// Seasons sharing a number keep the order Jellyfin listed them in
	for _, key := range seasonOrder {
		entry := seasons[key]
		series, ok := seriesByID[key.seriesID]
		if !ok {
			if len(entry.episodes) > 0 {
				return nil, fmt.Errorf("episodes reference unknown series %q", key.seriesID)
			}
			continue
		}
		slices.SortStableFunc(entry.episodes, func(a, b episodeEntry) int {
			return cmp.Compare(a.index, b.index)
		})
		season := library.Season{Number: entry.number, Episodes: make([]library.Episode, 0, len(entry.episodes))}
		for _, ep := range entry.episodes {
			season.Episodes = append(season.Episodes, ep.episode)
		}
		series.Seasons = append(series.Seasons, season)
	}

	snap := &library.Snapshot{
		Series: make([]library.Series, 0, len(seriesOrder)),
		Movies: movies,
	}
	for _, id := range seriesOrder {
		series := seriesByID[id]
		slices.SortStableFunc(series.Seasons, func(a, b library.Season) int {
			return cmp.Compare(a.Number, b.Number)
		})
		snap.Series = append(snap.Series, *series)
	}
	if snap.Movies == nil {
		snap.Movies = []library.Movie{}
	}
	return snap, nil
}

func streams(item gjson.Result) (audio, subtitles []library.Stream) {
	item.Get("MediaStreams").ForEach(func(_, stream gjson.Result) bool {
		s := library.Stream{Language: stream.Get("Language").String()}
		switch stream.Get("Type").String() {
		case streamTypeAudio:
			audio = append(audio, s)
		case streamTypeSubtitle:
			subtitles = append(subtitles, s)
		}
		return true
	})
	return audio, subtitles
}

// externalID prefers TVDB, then TMDB, then IMDb provider ids
func externalID(item gjson.Result) string {
	providers := item.Get("ProviderIds")
	for _, key := range []string{"Tvdb", "Tmdb", "Imdb"} {
		if v := providers.Get(key).String(); v != "" {
			return strings.ToLower(key) + ":" + v
		}
	}
	return ""
}
