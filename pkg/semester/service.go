package semester

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campuscal/campuscal/internal/utils"
	log "github.com/sirupsen/logrus"
)

// ErrNoSemesterAvailable is returned when neither a fresh fetch nor the
// local cache can produce a semester. It is the only hard failure of the
// sync core: no event sync can proceed without a resolved semester.
var ErrNoSemesterAvailable = errors.New("no semester available")

// DefaultMaxAge is the staleness threshold for the cached semester.
const DefaultMaxAge = 24 * time.Hour

type Service interface {
	Resolve(ctx context.Context, useCache bool) (Semester, error)
	Current() (Semester, bool)
}

// SyncService decides whether to trust the cached semester or refetch it.
// Remote wins when fetched successfully; the cache, however stale, is the
// fallback when the remote is unreachable.
type SyncService struct {
	client Client
	store  Store
	clock  utils.Clock
	maxAge time.Duration
	flight utils.FlightGuard

	mu       sync.RWMutex
	current  Semester
	resolved bool
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

// Resolve returns the active semester. With useCache true the cached value
// is returned without a network call as long as it exists and is younger
// than the staleness threshold; otherwise the remote is consulted, falling
// back to the stale cache on failure.
func (s *SyncService) Resolve(ctx context.Context, useCache bool) (Semester, error) {
	cached, hasCached, err := s.store.Load()
	if err != nil {
		log.Warnf("failed to read cached semester: %v", err)
		hasCached = false
	}

	if useCache {
		if !hasCached {
			log.Debug("no cached semester found")
		} else {
			age := s.clock.Now().Sub(s.store.LastUpdate())
			if age <= s.maxAge {
				log.Debugf("using cached semester, last updated %.1f hours ago", age.Hours())
				return s.remember(cached), nil
			}
			log.Debugf("semester cache is %.1f hours old, fetching fresh data", age.Hours())
		}
	} else {
		log.Debug("manual semester refresh, forcing remote call")
	}

	if !s.flight.TryAcquire() {
		log.Debug("semester sync already in flight, returning cached value")
		if hasCached {
			return s.remember(cached), nil
		}
		if current, ok := s.Current(); ok {
			return current, nil
		}
		return Semester{}, ErrNoSemesterAvailable
	}
	defer s.flight.Release()

	fresh, err := s.client.FetchCurrent(ctx)
	if err != nil {
		log.Warnf("semester fetch failed: %v", err)
		if hasCached {
			log.Info("using stale cached semester as fallback")
			return s.remember(cached), nil
		}
		return Semester{}, fmt.Errorf("%w: %v", ErrNoSemesterAvailable, err)
	}

	if err := s.store.Save(fresh); err != nil {
		log.Errorf("failed to persist semester: %v", err)
	}
	if err := s.store.SetLastUpdate(s.clock.Now()); err != nil {
		log.Errorf("failed to persist semester timestamp: %v", err)
	}
	log.Infof("fetched fresh semester %q from remote", fresh.ID)

	return s.remember(fresh), nil
}

// Current returns the most recently resolved semester, if any.
func (s *SyncService) Current() (Semester, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.resolved
}

func (s *SyncService) remember(sem Semester) Semester {
	s.mu.Lock()
	s.current = sem
	s.resolved = true
	s.mu.Unlock()
	return sem
}
