package readiness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/media-readiness-server/internal/library"
)

func episodes(available, total int) []library.Episode {
	eps := make([]library.Episode, total)
	for i := range eps {
		eps[i] = library.Episode{ID: string(rune('a' + i)), Available: i < available}
	}
	return eps
}

// showA has season 1 with 3/3 episodes and season 2 with s2Available/3 episodes
func showA(s2Available int) *library.Series {
	return &library.Series{
		ID:    "show-a",
		Title: "Show A",
		Seasons: []library.Season{
			{Number: 1, Episodes: episodes(3, 3)},
			{Number: 2, Episodes: episodes(s2Available, 3)},
		},
	}
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	require.NoError(t, err)
	return e
}

func TestEngine_ShowAAlmostReady(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{ThresholdAlmost: 0.5})
	v := e.Evaluate(SeriesItem(showA(2)))

	require.Len(t, v.RuleResults, 1, "language rules are left out when no languages are configured")
	presence := v.RuleResults[0]
	assert.Equal(t, RuleEpisodesPresent, presence.RuleName)
	assert.Equal(t, 5, presence.Numerator)
	assert.Equal(t, 6, presence.Denominator)
	assert.False(t, presence.Passed)
	assert.Equal(t, "5 of 6 episodes present", presence.Detail)
	assert.Equal(t, "5/6 eps", presence.CompactDetail)

	assert.InDelta(t, 0.833, v.ProgressPercent, 0.001)
	assert.Equal(t, StatusAlmostReady, v.Status)
	assert.Equal(t, "show-a", v.ItemID)
	assert.Equal(t, library.ItemKindSeries, v.ItemKind)
}

func TestEngine_ShowAWithPassingLanguageRules(t *testing.T) {
	t.Parallel()

	series := showA(2)
	for si := range series.Seasons {
		for ei := range series.Seasons[si].Episodes {
			series.Seasons[si].Episodes[ei].AudioStreams = []library.Stream{{Language: "eng"}}
		}
	}

	e := newTestEngine(t, Config{ThresholdAlmost: 0.5, AudioLanguages: []string{"eng"}})
	v := e.Evaluate(SeriesItem(series))

	require.Len(t, v.RuleResults, 2)
	audio := v.RuleResults[1]
	assert.Equal(t, RuleAudioLanguage, audio.RuleName)
	assert.Equal(t, 5, audio.Numerator, "only available episodes are checked")
	assert.Equal(t, 5, audio.Denominator)
	assert.True(t, audio.Passed)
	assert.Equal(t, "audio 5/5", audio.CompactDetail)
	assert.InDelta(t, (5.0/6.0+1)/2, v.ProgressPercent, 1e-9)
	assert.Equal(t, StatusAlmostReady, v.Status)
}

func TestEngine_ShowAReady(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{ThresholdAlmost: 0.5})
	v := e.Evaluate(SeriesItem(showA(3)))

	assert.True(t, v.RuleResults[0].Passed)
	assert.Equal(t, 6, v.RuleResults[0].Numerator)
	assert.InDelta(t, 1.0, v.ProgressPercent, 1e-9)
	assert.Equal(t, StatusReady, v.Status)
}

func TestEngine_StatusDerivation(t *testing.T) {
	t.Parallel()

	eng := []library.Stream{{Language: "eng"}}
	jpn := []library.Stream{{Language: "ja"}}

	tests := []struct {
		name         string
		cfg          Config
		item         Item
		wantStatus   Status
		wantProgress float64
	}{
		{
			name:         "movie present without required audio is almost ready",
			cfg:          Config{ThresholdAlmost: 0.5, AudioLanguages: []string{"en"}},
			item:         MovieItem(&library.Movie{ID: "m", Available: true, AudioStreams: jpn}),
			wantStatus:   StatusAlmostReady,
			wantProgress: 0.5,
		},
		{
			name:         "movie with matching audio is ready",
			cfg:          Config{ThresholdAlmost: 0.5, AudioLanguages: []string{"en-US"}},
			item:         MovieItem(&library.Movie{ID: "m", Available: true, AudioStreams: eng}),
			wantStatus:   StatusReady,
			wantProgress: 1,
		},
		{
			name:         "missing movie has a vacuous audio rule",
			cfg:          Config{ThresholdAlmost: 0.5, AudioLanguages: []string{"eng"}},
			item:         MovieItem(&library.Movie{ID: "m", Available: false, AudioStreams: eng}),
			wantStatus:   StatusAlmostReady,
			wantProgress: 0.5,
		},
		{
			name:         "missing movie below a high threshold",
			cfg:          Config{ThresholdAlmost: 0.9, AudioLanguages: []string{"eng"}},
			item:         MovieItem(&library.Movie{ID: "m", Available: false}),
			wantStatus:   StatusNotReady,
			wantProgress: 0.5,
		},
		{
			name:         "missing movie without language rules",
			cfg:          Config{ThresholdAlmost: 0.5},
			item:         MovieItem(&library.Movie{ID: "m", Available: false}),
			wantStatus:   StatusNotReady,
			wantProgress: 0,
		},
		{
			name: "series with half the episodes missing subtitles",
			cfg:  Config{ThresholdAlmost: 0.7, SubtitleLanguages: []string{"eng"}},
			item: SeriesItem(&library.Series{ID: "s", Seasons: []library.Season{{Number: 1, Episodes: []library.Episode{
				{ID: "1", Available: true, SubtitleStreams: eng},
				{ID: "2", Available: true},
			}}}}),
			wantStatus:   StatusAlmostReady,
			wantProgress: 0.75,
		},
		{
			name:         "series without episodes passes vacuously",
			cfg:          Config{ThresholdAlmost: 0.5, AudioLanguages: []string{"eng"}},
			item:         SeriesItem(&library.Series{ID: "s"}),
			wantStatus:   StatusReady,
			wantProgress: 1,
		},
		{
			name:         "zero threshold makes every failing item almost ready",
			cfg:          Config{ThresholdAlmost: 0},
			item:         SeriesItem(&library.Series{ID: "s", Seasons: []library.Season{{Episodes: episodes(0, 4)}}}),
			wantStatus:   StatusAlmostReady,
			wantProgress: 0,
		},
		{
			name:         "nothing available with audio rule configured",
			cfg:          Config{ThresholdAlmost: 0.7, AudioLanguages: []string{"eng"}},
			item:         SeriesItem(&library.Series{ID: "s", Seasons: []library.Season{{Episodes: episodes(0, 4)}}}),
			wantStatus:   StatusNotReady,
			wantProgress: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := newTestEngine(t, tt.cfg).Evaluate(tt.item)
			assert.Equal(t, tt.wantStatus, v.Status)
			assert.InDelta(t, tt.wantProgress, v.ProgressPercent, 1e-9)
		})
	}
}

func TestEngine_UndeterminedLanguageDoesNotMatch(t *testing.T) {
	t.Parallel()

	und := []library.Stream{{Language: "und"}}
	e := newTestEngine(t, Config{
		ThresholdAlmost:   0.5,
		AudioLanguages:    []string{"eng"},
		SubtitleLanguages: []string{"eng"},
	})

	v := e.Evaluate(MovieItem(&library.Movie{ID: "m", Available: true, AudioStreams: und, SubtitleStreams: und}))
	require.Len(t, v.RuleResults, 3)
	for _, r := range v.RuleResults[1:] {
		assert.False(t, r.Passed, r.RuleName)
		assert.Equal(t, 0, r.Numerator, r.RuleName)
		assert.Equal(t, 1, r.Denominator, r.RuleName)
	}
	assert.Equal(t, StatusNotReady, v.Status)
	assert.InDelta(t, 1.0/3.0, v.ProgressPercent, 1e-9)
}

func TestEngine_RuleInvariants(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{ThresholdAlmost: 0.5, AudioLanguages: []string{"eng"}, SubtitleLanguages: []string{"ger"}})
	snap := &library.Snapshot{
		Series: []library.Series{*showA(0), *showA(1), *showA(3), {ID: "empty"}},
		Movies: []library.Movie{
			{ID: "m1", Available: true, AudioStreams: []library.Stream{{Language: "eng"}}},
			{ID: "m2", Available: false},
			{ID: "m3", Available: true, SubtitleStreams: []library.Stream{{Language: "de"}}},
		},
	}

	for _, v := range e.EvaluateSnapshot(snap) {
		allPassed := true
		for _, r := range v.RuleResults {
			assert.GreaterOrEqual(t, r.Numerator, 0)
			assert.LessOrEqual(t, r.Numerator, r.Denominator)
			if r.Denominator == 0 {
				assert.Zero(t, r.Numerator)
				assert.True(t, r.Passed)
			}
			allPassed = allPassed && r.Passed
		}
		assert.GreaterOrEqual(t, v.ProgressPercent, 0.0)
		assert.LessOrEqual(t, v.ProgressPercent, 1.0)
		assert.Equal(t, allPassed, v.Status == StatusReady, v.ItemID)
		if v.Status == StatusNotReady {
			assert.Less(t, v.ProgressPercent, e.Threshold())
		}
	}
}

func TestEngine_Idempotent(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{ThresholdAlmost: 0.5, AudioLanguages: []string{"eng"}})
	snap := &library.Snapshot{
		Series: []library.Series{*showA(2)},
		Movies: []library.Movie{{ID: "m", Available: true}},
	}
	first := e.EvaluateSnapshot(snap)
	second := e.EvaluateSnapshot(snap)
	assert.Equal(t, first, second)
}

func TestEngine_EvaluateSnapshotOrder(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{ThresholdAlmost: 0.5})
	snap := &library.Snapshot{
		Series: []library.Series{{ID: "s2"}, {ID: "s1"}},
		Movies: []library.Movie{{ID: "m1"}},
	}
	verdicts := e.EvaluateSnapshot(snap)
	require.Len(t, verdicts, 3)
	assert.Equal(t, []string{"s2", "s1", "m1"}, []string{verdicts[0].ItemID, verdicts[1].ItemID, verdicts[2].ItemID})
	assert.Equal(t, library.ItemKindMovie, verdicts[2].ItemKind)
	assert.Nil(t, e.EvaluateSnapshot(nil))
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(Config{ThresholdAlmost: 1.5})
	assert.ErrorContains(t, err, "threshold must be between 0 and 1")

	_, err = NewEngine(Config{ThresholdAlmost: math.NaN()})
	assert.ErrorContains(t, err, "threshold must be between 0 and 1")

	_, err = NewEngine(Config{ThresholdAlmost: 0.5, AudioLanguages: []string{" "}})
	assert.ErrorContains(t, err, "invalid audio language")
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "eng", want: "en"},
		{in: "en", want: "en"},
		{in: "en-US", want: "en"},
		{in: "EN", want: "en"},
		{in: "ger", want: "de"},
		{in: "", want: ""},
		{in: "und", want: ""},
		{in: "UND", want: ""},
		{in: "und-US", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalize(tt.in))
		})
	}
}

func TestCountByStatus(t *testing.T) {
	t.Parallel()

	counts := CountByStatus([]Verdict{{Status: StatusReady}, {Status: StatusReady}, {Status: StatusNotReady}})
	assert.Equal(t, 2, counts[StatusReady])
	assert.Equal(t, 0, counts[StatusAlmostReady])
	assert.Equal(t, 1, counts[StatusNotReady])
}

func TestStatusRank(t *testing.T) {
	t.Parallel()

	assert.Greater(t, StatusReady.Rank(), StatusAlmostReady.Rank())
	assert.Greater(t, StatusAlmostReady.Rank(), StatusNotReady.Rank())
	assert.Greater(t, StatusNotReady.Rank(), Status("").Rank())
}
