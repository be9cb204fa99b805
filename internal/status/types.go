package status

import "time"

// SyncPhase represents the current phase of the sync orchestrator
type SyncPhase string

const (
	// SyncPhaseIdle means no cycle is running and the last one (if any) succeeded
	SyncPhaseIdle SyncPhase = "idle"

	// SyncPhaseRunning means a sync cycle is in progress
	SyncPhaseRunning SyncPhase = "running"

	// SyncPhaseFailed means the last sync cycle failed
	SyncPhaseFailed SyncPhase = "failed"
)

// SyncTrigger records what started a sync cycle
type SyncTrigger string

const (
	// SyncTriggerStartup is the initial cycle run when the scheduler starts
	SyncTriggerStartup SyncTrigger = "startup"

	// SyncTriggerScheduled is a cycle started by the interval ticker
	SyncTriggerScheduled SyncTrigger = "scheduled"

	// SyncTriggerManual is a cycle started through the API
	SyncTriggerManual SyncTrigger = "manual"
)

// SyncState is the orchestrator's record of the current and last sync cycle.
// It is mutated by the orchestrator only; everyone else gets copies.
type SyncState struct {
	// Phase is the current orchestrator phase
	Phase SyncPhase `json:"phase" yaml:"phase"`

	// Trigger is what started the current or last cycle
	Trigger SyncTrigger `json:"trigger,omitempty" yaml:"trigger,omitempty"`

	// LastSyncStartedAt is when the current or last cycle started
	LastSyncStartedAt *time.Time `json:"lastSyncStartedAt,omitempty" yaml:"lastSyncStartedAt,omitempty"`

	// LastSyncCompletedAt is when the last successful cycle completed
	LastSyncCompletedAt *time.Time `json:"lastSyncCompletedAt,omitempty" yaml:"lastSyncCompletedAt,omitempty"`

	// LastError is the message of the last failure, cleared on success
	LastError string `json:"lastError,omitempty" yaml:"lastError,omitempty"`

	// SnapshotVersion is the version of the last published snapshot
	SnapshotVersion uint64 `json:"snapshotVersion,omitempty" yaml:"snapshotVersion,omitempty"`

	// SnapshotHash is the content hash of the last published snapshot
	SnapshotHash string `json:"snapshotHash,omitempty" yaml:"snapshotHash,omitempty"`

	// SeriesCount is the number of series in the last published snapshot
	SeriesCount int `json:"seriesCount" yaml:"seriesCount"`

	// MovieCount is the number of movies in the last published snapshot
	MovieCount int `json:"movieCount" yaml:"movieCount"`
}

// IsRunning reports whether the state describes an in-flight cycle
func (s SyncState) IsRunning() bool {
	return s.Phase == SyncPhaseRunning
}
