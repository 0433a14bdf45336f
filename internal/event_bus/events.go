package event_bus

// Event types published by the sync core. The rendering layer subscribes to
// these instead of polling.
const (
	// SyncStarted is published when a semester+events sync begins.
	// Payload: SyncLifecycle.
	SyncStarted EventType = "sync.started"
	// SyncFinished is published when a sync completes, successfully or not.
	// Payload: SyncLifecycle.
	SyncFinished EventType = "sync.finished"
	// ViewUpdated is published whenever the projected event view changes,
	// after a sync or a filter/date change. Payload: view.Snapshot.
	ViewUpdated EventType = "view.updated"
)

// SyncLifecycle describes a sync run for subscribers.
type SyncLifecycle struct {
	// Manual is true for user-triggered refreshes that bypass the cache.
	Manual bool
	// Failed is true when the run ended without a resolved semester.
	Failed bool
}
