package event

import (
	"context"
	"sync"
	"time"

	"github.com/campuscal/campuscal/internal/utils"
	"github.com/campuscal/campuscal/pkg/semester"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxAge is the staleness threshold for the cached event list.
const DefaultMaxAge = 6 * time.Hour

type Service interface {
	Resolve(ctx context.Context, sem semester.Semester, useCache bool) []Event
	WorkingSet() []Event
}

// SyncService decides whether to trust the cached event list or refetch it,
// and owns the in-memory working set for the active semester. It never fails
// outright: the worst case is an empty list, which the caller renders as an
// empty state, not an error.
type SyncService struct {
	client Client
	store  Store
	clock  utils.Clock
	maxAge time.Duration
	flight utils.FlightGuard

	mu      sync.RWMutex
	working []Event
}

func NewSyncService(client Client, store Store, maxAge time.Duration) *SyncService {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &SyncService{
		client: client,
		store:  store,
		clock:  utils.SystemClock{},
		maxAge: maxAge,
	}
}

// Resolve returns the event list for the given semester, sorted ascending by
// date, and replaces the working set with it. With useCache true the cached
// list is used without a network call as long as it is younger than the
// staleness threshold and non-empty after filtering to the semester's date
// window; staleness, an empty cache-derived result, or useCache=false all
// trigger a refetch with fallback to the cache on failure.
func (s *SyncService) Resolve(ctx context.Context, sem semester.Semester, useCache bool) []Event {
	var events []Event
	needsFetch := !useCache

	if useCache {
		age := s.clock.Now().Sub(s.store.LastUpdate())
		if age > s.maxAge {
			log.Debugf("event cache is %.1f hours old, fetching fresh data", age.Hours())
			needsFetch = true
		} else {
			cached, err := s.store.Load()
			if err != nil {
				log.Warnf("failed to read cached events: %v", err)
				needsFetch = true
			} else {
				events = SortByDate(FilterWindow(cached, sem.Window()))
				log.Debugf("using cached data (%d events)", len(events))
			}
		}
	} else {
		log.Debug("manual event refresh, forcing remote call")
	}

	if needsFetch || len(events) == 0 {
		events = s.fetchWithFallback(ctx, sem)
	}

	s.replaceWorkingSet(events)
	return events
}

// WorkingSet returns a copy of the full in-memory event list for the active
// semester, the source of truth for all filtered views.
func (s *SyncService) WorkingSet() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	working := make([]Event, len(s.working))
	copy(working, s.working)
	return working
}

func (s *SyncService) replaceWorkingSet(events []Event) {
	s.mu.Lock()
	s.working = events
	s.mu.Unlock()
}

func (s *SyncService) fetchWithFallback(ctx context.Context, sem semester.Semester) []Event {
	if !s.flight.TryAcquire() {
		log.Debug("event sync already in flight, returning current working set")
		return s.WorkingSet()
	}
	defer s.flight.Release()

	fetched, err := s.client.FetchBySemester(ctx, sem.ID)
	if err != nil {
		log.Warnf("event fetch failed: %v", err)
		cached, loadErr := s.store.Load()
		if loadErr != nil {
			log.Warnf("failed to read cached events for fallback: %v", loadErr)
			cached = nil
		}
		events := SortByDate(FilterSemester(cached, sem.ID))
		log.Infof("using cached fallback (%d events)", len(events))
		return events
	}

	events := SortByDate(FilterSemester(fetched, sem.ID))
	if err := s.store.Save(events); err != nil {
		log.Errorf("failed to persist events: %v", err)
	}
	if err := s.store.SetLastUpdate(s.clock.Now()); err != nil {
		log.Errorf("failed to persist events timestamp: %v", err)
	}
	log.Infof("fetched %d fresh events from remote", len(events))
	return events
}
