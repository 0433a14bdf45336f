package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/campuscal/campuscal/internal/utils"
	log "github.com/sirupsen/logrus"
)

// DefaultCooldown is the minimum interval between accepted manual refreshes.
const DefaultCooldown = 30 * time.Second

// SyncFunc runs a full cache-bypassing sync: semester first, then events.
type SyncFunc func(ctx context.Context) error

// Result is the outcome of a refresh attempt. Rejection is normal control
// flow, not an error: InProgress rejections are silent, cooldown rejections
// carry the remaining whole seconds for user display.
type Result struct {
	Accepted         bool
	InProgress       bool
	SecondsRemaining int
}

// Gate enforces the cooldown between user-triggered manual refreshes and
// prevents overlapping refresh runs.
type Gate struct {
	cooldown time.Duration
	sync     SyncFunc
	clock    utils.Clock

	mu           sync.Mutex
	lastAccepted time.Time
	inProgress   bool
}

func NewGate(cooldown time.Duration, syncFn SyncFunc) *Gate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Gate{
		cooldown: cooldown,
		sync:     syncFn,
		clock:    utils.SystemClock{},
	}
}

// TryRefresh attempts a manual refresh. While one is already running the
// call is a silent no-op. Within the cooldown it is rejected with the
// remaining seconds. Otherwise the sync runs with the cache bypassed, and
// the in-progress flag is released on every exit path.
func (g *Gate) TryRefresh(ctx context.Context) Result {
	g.mu.Lock()
	if g.inProgress {
		g.mu.Unlock()
		log.Debug("refresh already in progress, ignoring")
		return Result{InProgress: true}
	}

	elapsed := g.clock.Now().Sub(g.lastAccepted)
	if elapsed < g.cooldown {
		remaining := int(g.cooldown.Seconds()) - int(elapsed.Seconds())
		g.mu.Unlock()
		log.Debugf("refresh cooldown: %d seconds remaining", remaining)
		return Result{SecondsRemaining: remaining}
	}

	g.inProgress = true
	g.lastAccepted = g.clock.Now()
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.inProgress = false
		g.mu.Unlock()
	}()

	log.Debug("manual refresh started")
	if err := g.sync(ctx); err != nil {
		log.Warnf("manual refresh failed: %v", err)
	} else {
		log.Debug("manual refresh completed")
	}
	return Result{Accepted: true}
}
