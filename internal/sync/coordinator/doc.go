// Package coordinator schedules and runs library sync cycles.
//
// A cycle fetches the library through the sync Manager, publishes the new
// snapshot, evaluates readiness for every item and hands the verdicts to the
// notification dispatcher. Cycles are started by the interval ticker, once at
// startup, or manually through TriggerManualSync.
//
// # Single flight
//
// At most one cycle runs at a time. Every trigger contends for the same gate;
// a scheduled tick that loses is dropped, a manual trigger that loses reports
// the running cycle's state back to the caller:
//
//	result := coord.TriggerManualSync(ctx)
//	if !result.Accepted {
//	    // result.State.Phase == status.SyncPhaseRunning
//	}
//
// # Cancellation
//
// Stop only ends the ticker loop. A cycle that already started runs on a
// context detached from the caller and finishes (or times out) on its own.
// Shutdown combines Stop with a bounded WaitIdle:
//
//	if err := coord.Shutdown(30 * time.Second); errors.Is(err, coordinator.ErrShutdownTimeout) {
//	    // exit anyway
//	}
//
// A cycle counts as finished once every webhook delivery it issued has
// completed, so an idle coordinator has no outbound requests in flight.
package coordinator
