package view

import (
	"context"
	"sync"
	"time"

	"github.com/campuscal/campuscal/internal/event_bus"
	"github.com/campuscal/campuscal/internal/utils"
	"github.com/campuscal/campuscal/pkg/event"
	"github.com/campuscal/campuscal/pkg/semester"
	log "github.com/sirupsen/logrus"
)

// Service owns the view state: the active filter and reference date, the
// loading flag, and the projection derived from the event working set. It
// coordinates the two sync services (semester first, events second) and
// publishes change notifications on the bus so the rendering layer never
// polls the core.
type Service struct {
	semesters semester.Service
	events    event.Service
	bus       *event_bus.EventBus
	clock     utils.Clock

	mu          sync.Mutex
	initialized bool
	loading     bool
	filter      event.Filter
	refDate     time.Time
	current     semester.Semester
	hasSemester bool
	projected   []event.Event
}

func NewService(semesters semester.Service, events event.Service, bus *event_bus.EventBus) *Service {
	clock := utils.SystemClock{}
	return &Service{
		semesters: semesters,
		events:    events,
		bus:       bus,
		clock:     clock,
		filter:    event.FilterAll,
		refDate:   clock.Now(),
	}
}

// Initialize performs the first semester+events load. It runs at most once
// per process lifetime: repeated calls after the first successful completion
// are no-ops, as is a call while a load is already running.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized || s.loading {
		s.mu.Unlock()
		log.Debug("initialization already completed or in progress")
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	return s.run(ctx, true, false)
}

// Sync re-runs the semester and event syncs. With useCache true the
// staleness thresholds decide whether the remote is contacted; with false
// both are bypassed (the manual-refresh path). A sync already in progress
// makes the call a no-op.
func (s *Service) Sync(ctx context.Context, useCache bool) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		log.Debug("sync already in progress, ignoring")
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	return s.run(ctx, useCache, !useCache)
}

// run expects the loading flag to be held and clears it on all exit paths.
func (s *Service) run(ctx context.Context, useCache bool, manual bool) error {
	s.publish(ctx, event_bus.SyncStarted, event_bus.SyncLifecycle{Manual: manual})

	sem, err := s.semesters.Resolve(ctx, useCache)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.publish(ctx, event_bus.SyncFinished, event_bus.SyncLifecycle{Manual: manual, Failed: true})
		return err
	}

	s.events.Resolve(ctx, sem, useCache)

	s.mu.Lock()
	s.current = sem
	s.hasSemester = true
	s.initialized = true
	s.loading = false
	s.reprojectLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(ctx, event_bus.SyncFinished, event_bus.SyncLifecycle{Manual: manual})
	s.publish(ctx, event_bus.ViewUpdated, snap)
	return nil
}

// SetFilter switches the active filter and reference date and rebuilds the
// projection from the working set. Changes are rejected while a sync is in
// progress or before initialization, so a projection is never computed
// against a working set that is about to be replaced.
func (s *Service) SetFilter(filter event.Filter, date time.Time) bool {
	s.mu.Lock()
	if !s.initialized || s.loading {
		s.mu.Unlock()
		log.Debug("skipping filter change, sync in progress")
		return false
	}
	s.filter = filter
	s.refDate = date
	s.reprojectLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(context.Background(), event_bus.ViewUpdated, snap)
	return true
}

// Snapshot returns the current view state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ProjectAt projects the working set for an arbitrary filter and reference
// date without touching the view state.
func (s *Service) ProjectAt(filter event.Filter, date time.Time) Snapshot {
	s.mu.Lock()
	window := s.windowLocked()
	loading := s.loading
	initialized := s.initialized
	s.mu.Unlock()

	projected := event.Project(s.events.WorkingSet(), filter, date, window)
	snap := Snapshot{
		Events:        projected,
		Filter:        filter,
		ReferenceDate: date,
		Loading:       loading,
		Initialized:   initialized,
		Window:        window,
	}
	if len(projected) == 0 {
		snap.EmptyMessage = event.EmptyMessage(filter, date)
	}
	return snap
}

// Semester returns the semester the view is currently scoped to.
func (s *Service) Semester() (semester.Semester, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasSemester
}

func (s *Service) reprojectLocked() {
	s.projected = event.Project(s.events.WorkingSet(), s.filter, s.refDate, s.windowLocked())
}

func (s *Service) windowLocked() semester.Window {
	if !s.hasSemester {
		return semester.Window{}
	}
	return s.current.Window()
}

func (s *Service) snapshotLocked() Snapshot {
	events := make([]event.Event, len(s.projected))
	copy(events, s.projected)
	snap := Snapshot{
		Events:        events,
		Filter:        s.filter,
		ReferenceDate: s.refDate,
		Loading:       s.loading,
		Initialized:   s.initialized,
		Window:        s.windowLocked(),
	}
	if len(events) == 0 {
		snap.EmptyMessage = event.EmptyMessage(s.filter, s.refDate)
	}
	return snap
}

func (s *Service) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("failed to publish %s: %v", eventType, err)
	}
}
