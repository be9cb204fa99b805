package readiness

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/stacklok/media-readiness-server/internal/library"
)

// DefaultThresholdAlmost is the progress at which a failing item counts as almost ready
const DefaultThresholdAlmost = 0.5

// Config holds the static engine configuration
type Config struct {
	// ThresholdAlmost is the minimum progress for almost-ready, in [0,1]
	ThresholdAlmost float64

	// AudioLanguages lists accepted audio languages. Empty leaves the audio rule out.
	AudioLanguages []string

	// SubtitleLanguages lists accepted subtitle languages. Empty leaves the subtitle rule out.
	SubtitleLanguages []string
}

// Engine evaluates library items against the configured rules
type Engine struct {
	threshold     float64
	audioNames    string
	subtitleNames string
	audio         []string
	subtitles     []string
}

// NewEngine validates cfg and creates an Engine
func NewEngine(cfg Config) (*Engine, error) {
	if !(cfg.ThresholdAlmost >= 0 && cfg.ThresholdAlmost <= 1) {
		return nil, fmt.Errorf("threshold must be between 0 and 1, got %v", cfg.ThresholdAlmost)
	}
	audio, err := normalizeAll(cfg.AudioLanguages)
	if err != nil {
		return nil, fmt.Errorf("invalid audio language: %w", err)
	}
	subtitles, err := normalizeAll(cfg.SubtitleLanguages)
	if err != nil {
		return nil, fmt.Errorf("invalid subtitle language: %w", err)
	}
	return &Engine{
		threshold:     cfg.ThresholdAlmost,
		audioNames:    strings.Join(cfg.AudioLanguages, "/"),
		subtitleNames: strings.Join(cfg.SubtitleLanguages, "/"),
		audio:         audio,
		subtitles:     subtitles,
	}, nil
}

// Threshold returns the configured almost-ready threshold
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// Evaluate computes the verdict for one item
func (e *Engine) Evaluate(item Item) Verdict {
	switch {
	case item.Series != nil:
		return e.evaluateSeries(item.Series)
	case item.Movie != nil:
		return e.evaluateMovie(item.Movie)
	default:
		return Verdict{Status: StatusNotReady}
	}
}

// EvaluateSnapshot evaluates every series then every movie, in snapshot order
func (e *Engine) EvaluateSnapshot(snap *library.Snapshot) []Verdict {
	if snap == nil {
		return nil
	}
	verdicts := make([]Verdict, 0, snap.ItemCount())
	for i := range snap.Series {
		verdicts = append(verdicts, e.evaluateSeries(&snap.Series[i]))
	}
	for i := range snap.Movies {
		verdicts = append(verdicts, e.evaluateMovie(&snap.Movies[i]))
	}
	return verdicts
}

func (e *Engine) evaluateSeries(s *library.Series) Verdict {
	episodes := s.Episodes()

	available := 0
	var withAudio, withSubs int
	for _, ep := range episodes {
		if !ep.Available {
			continue
		}
		available++
		if hasLanguage(ep.AudioStreams, e.audio) {
			withAudio++
		}
		if hasLanguage(ep.SubtitleStreams, e.subtitles) {
			withSubs++
		}
	}

	results := []RuleResult{
		newResult(RuleEpisodesPresent, available, len(episodes),
			fmt.Sprintf("%d of %d episodes present", available, len(episodes)),
			fmt.Sprintf("%d/%d eps", available, len(episodes))),
	}
	results = e.appendLanguageRules(results, withAudio, withSubs, available, "available episodes")
	return e.aggregate(s.ID, library.ItemKindSeries, s.Title, results)
}

func (e *Engine) evaluateMovie(m *library.Movie) Verdict {
	present := 0
	detail := "file missing"
	if m.Available {
		present = 1
		detail = "file present"
	}
	var withAudio, withSubs int
	if m.Available && hasLanguage(m.AudioStreams, e.audio) {
		withAudio = 1
	}
	if m.Available && hasLanguage(m.SubtitleStreams, e.subtitles) {
		withSubs = 1
	}

	results := []RuleResult{
		newResult(RuleFilePresent, present, 1, detail, fmt.Sprintf("%d/1 file", present)),
	}
	results = e.appendLanguageRules(results, withAudio, withSubs, present, "available files")
	return e.aggregate(m.ID, library.ItemKindMovie, m.Title, results)
}

// appendLanguageRules adds the audio and subtitle rules that have languages configured
func (e *Engine) appendLanguageRules(results []RuleResult, withAudio, withSubs, available int, noun string) []RuleResult {
	if len(e.audio) > 0 {
		results = append(results, languageRule(RuleAudioLanguage, "audio", e.audioNames, withAudio, available, noun))
	}
	if len(e.subtitles) > 0 {
		results = append(results, languageRule(RuleSubtitleLanguage, "subs", e.subtitleNames, withSubs, available, noun))
	}
	return results
}

// languageRule is vacuous when nothing is available to check
func languageRule(name, short, names string, matched, available int, noun string) RuleResult {
	if available == 0 {
		return newResult(name, 0, 0, "nothing available to check", short+" n/a")
	}
	return newResult(name, matched, available,
		fmt.Sprintf("%d of %d %s have %s %s", matched, available, noun, names, short),
		fmt.Sprintf("%s %d/%d", short, matched, available))
}

func (e *Engine) aggregate(id string, kind library.ItemKind, title string, results []RuleResult) Verdict {
	allPassed := true
	var sum float64
	for _, r := range results {
		sum += r.Fraction()
		allPassed = allPassed && r.Passed
	}
	progress := sum / float64(len(results))

	status := StatusNotReady
	switch {
	case allPassed:
		status = StatusReady
	case progress >= e.threshold:
		status = StatusAlmostReady
	}

	return Verdict{
		ItemID:          id,
		ItemKind:        kind,
		Title:           title,
		Status:          status,
		RuleResults:     results,
		ProgressPercent: progress,
	}
}

func newResult(name string, numerator, denominator int, detail, compact string) RuleResult {
	if denominator == 0 {
		numerator = 0
	}
	return RuleResult{
		RuleName:      name,
		Passed:        numerator == denominator,
		Detail:        detail,
		CompactDetail: compact,
		Numerator:     numerator,
		Denominator:   denominator,
	}
}

func hasLanguage(streams []library.Stream, required []string) bool {
	if len(required) == 0 {
		return false
	}
	for _, s := range streams {
		lang := normalize(s.Language)
		if lang == "" {
			continue
		}
		for _, want := range required {
			if lang == want {
				return true
			}
		}
	}
	return false
}

func normalizeAll(langs []string) ([]string, error) {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		n := normalize(l)
		if n == "" {
			return nil, fmt.Errorf("%q is not a language", l)
		}
		out = append(out, n)
	}
	return out, nil
}

// normalize maps a language code to its base language so that "eng", "en" and
// "en-US" compare equal. Codes x/text cannot parse fall back to lower case.
// Empty and undetermined codes normalize to "". Base returns a guessed
// language for "und", so only an explicit base counts.
func normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	if tag == language.Und {
		return ""
	}
	base, conf := tag.Base()
	if conf < language.High {
		return ""
	}
	return base.String()
}
