package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stacklok/media-readiness-server/internal/readiness"
	"github.com/stacklok/media-readiness-server/internal/store"
)

func verdictWithStatus(status readiness.Status) *readiness.Verdict {
	return &readiness.Verdict{ItemID: "item-1", Status: status}
}

func TestTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		prev *readiness.Verdict
		next readiness.Status
		want TransitionKind
	}{
		{name: "unknown to ready", prev: nil, next: readiness.StatusReady, want: TransitionIntoReady},
		{name: "unknown to almost-ready", prev: nil, next: readiness.StatusAlmostReady, want: TransitionIntoAlmostReady},
		{name: "unknown to not-ready", prev: nil, next: readiness.StatusNotReady, want: TransitionNone},
		{name: "not-ready to ready", prev: verdictWithStatus(readiness.StatusNotReady), next: readiness.StatusReady, want: TransitionIntoReady},
		{name: "almost-ready to ready", prev: verdictWithStatus(readiness.StatusAlmostReady), next: readiness.StatusReady, want: TransitionIntoReady},
		{name: "not-ready to almost-ready", prev: verdictWithStatus(readiness.StatusNotReady), next: readiness.StatusAlmostReady, want: TransitionIntoAlmostReady},
		{name: "ready to ready", prev: verdictWithStatus(readiness.StatusReady), next: readiness.StatusReady, want: TransitionNone},
		{name: "almost-ready to almost-ready", prev: verdictWithStatus(readiness.StatusAlmostReady), next: readiness.StatusAlmostReady, want: TransitionNone},
		{name: "ready to almost-ready", prev: verdictWithStatus(readiness.StatusReady), next: readiness.StatusAlmostReady, want: TransitionNone},
		{name: "ready to not-ready", prev: verdictWithStatus(readiness.StatusReady), next: readiness.StatusNotReady, want: TransitionNone},
		{name: "almost-ready to not-ready", prev: verdictWithStatus(readiness.StatusAlmostReady), next: readiness.StatusNotReady, want: TransitionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Transition(tt.prev, readiness.Verdict{ItemID: "item-1", Status: tt.next})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitionKind_Matches(t *testing.T) {
	t.Parallel()

	both := store.WebhookFilters{OnReady: true, OnAlmostReady: true}
	readyOnly := store.WebhookFilters{OnReady: true}
	almostOnly := store.WebhookFilters{OnAlmostReady: true}

	assert.True(t, TransitionIntoReady.Matches(both))
	assert.True(t, TransitionIntoReady.Matches(readyOnly))
	assert.False(t, TransitionIntoReady.Matches(almostOnly))

	assert.True(t, TransitionIntoAlmostReady.Matches(both))
	assert.False(t, TransitionIntoAlmostReady.Matches(readyOnly))
	assert.True(t, TransitionIntoAlmostReady.Matches(almostOnly))

	assert.False(t, TransitionNone.Matches(both))
}
