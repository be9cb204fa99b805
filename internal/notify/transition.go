// Package notify turns readiness changes into webhook deliveries.
//
// The Dispatcher remembers the verdicts of the previous cycle, detects items
// that moved up into ready or almost-ready, filters by webhook configuration and
// dismissals, and delivers each notification independently.
package notify

import (
	"github.com/stacklok/media-readiness-server/internal/readiness"
	"github.com/stacklok/media-readiness-server/internal/store"
)

// TransitionKind classifies the change of an item's status between two cycles
type TransitionKind string

const (
	// TransitionNone means nothing worth notifying happened
	TransitionNone TransitionKind = "none"

	// TransitionIntoReady means the item became ready
	TransitionIntoReady TransitionKind = "into-ready"

	// TransitionIntoAlmostReady means the item moved from not-ready to almost-ready
	TransitionIntoAlmostReady TransitionKind = "into-almost-ready"
)

// Transition compares an item's previous verdict with its new one.
// A nil prev means the item was not seen before and counts as not-ready.
// Moves to a lower status, or no change at all, yield TransitionNone.
func Transition(prev *readiness.Verdict, next readiness.Verdict) TransitionKind {
	prevStatus := readiness.StatusNotReady
	if prev != nil {
		prevStatus = prev.Status
	}

	switch {
	case next.Status == readiness.StatusReady && prevStatus != readiness.StatusReady:
		return TransitionIntoReady
	case next.Status == readiness.StatusAlmostReady && prevStatus == readiness.StatusNotReady:
		return TransitionIntoAlmostReady
	default:
		return TransitionNone
	}
}

// Matches reports whether a webhook with the given filters wants this transition
func (k TransitionKind) Matches(filters store.WebhookFilters) bool {
	switch k {
	case TransitionIntoReady:
		return filters.OnReady
	case TransitionIntoAlmostReady:
		return filters.OnAlmostReady
	default:
		return false
	}
}
