package utils

import "sync"

type flightState int

const (
	flightIdle flightState = iota
	flightInProgress
)

// FlightGuard is a mutex-guarded Idle -> InFlight -> Idle state machine that
// allows at most one in-flight operation per guarded target. A concurrent
// TryAcquire while an operation is in flight returns false instead of queuing.
type FlightGuard struct {
	mu    sync.Mutex
	state flightState
}

// TryAcquire transitions the guard to InFlight and returns true, or returns
// false if another operation already holds it.
func (g *FlightGuard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == flightInProgress {
		return false
	}
	g.state = flightInProgress
	return true
}

// Release returns the guard to Idle. Safe to call from a defer so the guard
// is released on all exit paths.
func (g *FlightGuard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = flightIdle
}
