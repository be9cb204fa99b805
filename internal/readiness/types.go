// Package readiness evaluates how complete each library item is.
//
// The Engine runs a fixed, ordered list of rules against a series or movie and
// aggregates them into a Verdict. Evaluation is a pure function of the item and
// the engine configuration, so identical input always yields an identical Verdict.
package readiness

import "github.com/stacklok/media-readiness-server/internal/library"

// Status is the readiness outcome of an item
type Status string

const (
	// StatusReady means every rule passed
	StatusReady Status = "ready"

	// StatusAlmostReady means some rule failed but progress reached the almost-ready threshold
	StatusAlmostReady Status = "almost-ready"

	// StatusNotReady means progress is below the almost-ready threshold
	StatusNotReady Status = "not-ready"
)

// Rank orders statuses by progress: not-ready < almost-ready < ready.
// Unknown statuses rank below not-ready.
func (s Status) Rank() int {
	switch s {
	case StatusReady:
		return 2
	case StatusAlmostReady:
		return 1
	case StatusNotReady:
		return 0
	default:
		return -1
	}
}

// Rule names, in evaluation order
const (
	RuleEpisodesPresent  = "episodes-present"
	RuleFilePresent      = "file-present"
	RuleAudioLanguage    = "audio-language"
	RuleSubtitleLanguage = "subtitle-language"
)

// RuleResult is the outcome of one rule for one item.
// Denominator zero means the rule had nothing to check and passed vacuously.
type RuleResult struct {
	RuleName      string `json:"ruleName"`
	Passed        bool   `json:"passed"`
	Detail        string `json:"detail"`
	CompactDetail string `json:"compactDetail"`
	Numerator     int    `json:"numerator"`
	Denominator   int    `json:"denominator"`
}

// Fraction returns Numerator/Denominator, or 1 when there was nothing to check
func (r RuleResult) Fraction() float64 {
	if r.Denominator == 0 {
		return 1
	}
	return float64(r.Numerator) / float64(r.Denominator)
}

// Verdict is the readiness outcome for one item
type Verdict struct {
	ItemID          string           `json:"itemId"`
	ItemKind        library.ItemKind `json:"itemKind"`
	Title           string           `json:"title"`
	Status          Status           `json:"status"`
	RuleResults     []RuleResult     `json:"ruleResults"`
	ProgressPercent float64          `json:"progressPercent"`
}

// Item is a single evaluable library entry: exactly one of Series or Movie is set
type Item struct {
	Series *library.Series
	Movie  *library.Movie
}

// SeriesItem wraps a series for evaluation
func SeriesItem(s *library.Series) Item {
	return Item{Series: s}
}

// MovieItem wraps a movie for evaluation
func MovieItem(m *library.Movie) Item {
	return Item{Movie: m}
}

// CountByStatus tallies verdicts per status
func CountByStatus(verdicts []Verdict) map[Status]int {
	counts := map[Status]int{
		StatusReady:       0,
		StatusAlmostReady: 0,
		StatusNotReady:    0,
	}
	for _, v := range verdicts {
		counts[v.Status]++
	}
	return counts
}
