package view

import (
	"context"
	"testing"
	"time"

	"github.com/campuscal/campuscal/internal/event_bus"
	"github.com/campuscal/campuscal/internal/remote"
	"github.com/campuscal/campuscal/pkg/event"
	"github.com/campuscal/campuscal/pkg/semester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var springTerm = semester.Semester{
	ID:        "2026-spring",
	Name:      "Spring 2026",
	StartDate: "2026-01-12",
	EndDate:   "2026-05-22",
	IsCurrent: true,
}

type viewFixture struct {
	service        *Service
	bus            *event_bus.EventBus
	semesterClient *semester.ClientStub
	eventClient    *event.ClientStub
}

func setupViewTest() *viewFixture {
	semesterClient := semester.NewClientStub()
	eventClient := event.NewClientStub()
	bus := event_bus.NewEventBus()

	semesterService := semester.NewSyncService(semesterClient, semester.NewStubStore(), 0)
	eventService := event.NewSyncService(eventClient, event.NewStubStore(), 0)

	return &viewFixture{
		service:        NewService(semesterService, eventService, bus),
		bus:            bus,
		semesterClient: semesterClient,
		eventClient:    eventClient,
	}
}

func termEvent(id string, date time.Time) event.Event {
	return event.Event{
		ID:         id,
		Date:       event.FlexTime{Time: date},
		Title:      "Event " + id,
		SemesterID: springTerm.ID,
	}
}

func TestInitialize(t *testing.T) {

	t.Run("should load semester then events and mark itself initialized", func(t *testing.T) {
		f := setupViewTest()

		// given
		f.semesterClient.SetCurrent(springTerm)
		f.eventClient.SetEvents(springTerm.ID, []event.Event{
			termEvent("e1", time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)),
		})

		// when
		err := f.service.Initialize(context.Background())

		// then
		require.NoError(t, err)
		snap := f.service.Snapshot()
		assert.True(t, snap.Initialized)
		assert.False(t, snap.Loading)
		assert.Len(t, snap.Events, 1)
		assert.True(t, snap.Window.Valid)
	})

	t.Run("should run at most once per process lifetime", func(t *testing.T) {
		f := setupViewTest()

		// given
		f.semesterClient.SetCurrent(springTerm)

		// when
		require.NoError(t, f.service.Initialize(context.Background()))
		require.NoError(t, f.service.Initialize(context.Background()))

		// then: the repeated call was a no-op
		assert.Equal(t, 1, f.semesterClient.FetchCalls())
	})

	t.Run("should propagate the no-semester failure and stay uninitialized", func(t *testing.T) {
		f := setupViewTest()

		// given: no remote, no cache
		f.semesterClient.SetError(remote.ErrTransport)

		// when
		err := f.service.Initialize(context.Background())

		// then
		assert.ErrorIs(t, err, semester.ErrNoSemesterAvailable)
		snap := f.service.Snapshot()
		assert.False(t, snap.Initialized)
		assert.False(t, snap.Loading)
	})

	t.Run("should allow retrying after a failed initialization", func(t *testing.T) {
		f := setupViewTest()

		// given
		f.semesterClient.SetError(remote.ErrTransport)
		require.Error(t, f.service.Initialize(context.Background()))

		// when: the remote comes back
		f.semesterClient.SetError(nil)
		f.semesterClient.SetCurrent(springTerm)
		err := f.service.Initialize(context.Background())

		// then
		require.NoError(t, err)
		assert.True(t, f.service.Snapshot().Initialized)
	})
}

func TestSetFilter(t *testing.T) {

	feb2 := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	mar15 := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	t.Run("should reproject the working set for the new filter and date", func(t *testing.T) {
		f := setupViewTest()
		f.semesterClient.SetCurrent(springTerm)
		f.eventClient.SetEvents(springTerm.ID, []event.Event{termEvent("feb", feb2), termEvent("mar", mar15)})
		require.NoError(t, f.service.Initialize(context.Background()))

		// when
		changed := f.service.SetFilter(event.FilterMonth, feb2)

		// then
		assert.True(t, changed)
		snap := f.service.Snapshot()
		require.Len(t, snap.Events, 1)
		assert.Equal(t, "feb", snap.Events[0].ID)
		assert.Equal(t, event.FilterMonth, snap.Filter)
	})

	t.Run("should expose the empty-state message when nothing matches", func(t *testing.T) {
		f := setupViewTest()
		f.semesterClient.SetCurrent(springTerm)
		require.NoError(t, f.service.Initialize(context.Background()))

		// when
		f.service.SetFilter(event.FilterDay, feb2)

		// then
		snap := f.service.Snapshot()
		assert.Empty(t, snap.Events)
		assert.Equal(t, "No events found for 02/02/2026", snap.EmptyMessage)
	})

	t.Run("should reject filter changes before initialization", func(t *testing.T) {
		f := setupViewTest()

		changed := f.service.SetFilter(event.FilterDay, feb2)

		assert.False(t, changed)
	})

	t.Run("should not mutate view state when projecting at an arbitrary date", func(t *testing.T) {
		f := setupViewTest()
		f.semesterClient.SetCurrent(springTerm)
		f.eventClient.SetEvents(springTerm.ID, []event.Event{termEvent("feb", feb2)})
		require.NoError(t, f.service.Initialize(context.Background()))

		// when
		projected := f.service.ProjectAt(event.FilterDay, feb2)

		// then: the stored filter is untouched
		require.Len(t, projected.Events, 1)
		assert.Equal(t, event.FilterAll, f.service.Snapshot().Filter)
	})
}

func TestNotifications(t *testing.T) {

	t.Run("should publish sync lifecycle and view updates on the bus", func(t *testing.T) {
		f := setupViewTest()
		f.semesterClient.SetCurrent(springTerm)

		var started, finished []event_bus.SyncLifecycle
		var snapshots []Snapshot
		f.bus.Subscribe(event_bus.SyncStarted, func(e event_bus.Event) error {
			started = append(started, e.Data.(event_bus.SyncLifecycle))
			return nil
		})
		f.bus.Subscribe(event_bus.SyncFinished, func(e event_bus.Event) error {
			finished = append(finished, e.Data.(event_bus.SyncLifecycle))
			return nil
		})
		f.bus.Subscribe(event_bus.ViewUpdated, func(e event_bus.Event) error {
			snapshots = append(snapshots, e.Data.(Snapshot))
			return nil
		})

		// when
		require.NoError(t, f.service.Initialize(context.Background()))
		require.NoError(t, f.service.Sync(context.Background(), false))

		// then
		require.Len(t, started, 2)
		assert.False(t, started[0].Manual)
		assert.True(t, started[1].Manual)
		require.Len(t, finished, 2)
		assert.False(t, finished[0].Failed)
		assert.Len(t, snapshots, 2)
	})

	t.Run("should flag a failed sync on the bus", func(t *testing.T) {
		f := setupViewTest()
		f.semesterClient.SetError(remote.ErrTransport)

		var finished []event_bus.SyncLifecycle
		f.bus.Subscribe(event_bus.SyncFinished, func(e event_bus.Event) error {
			finished = append(finished, e.Data.(event_bus.SyncLifecycle))
			return nil
		})

		// when
		require.Error(t, f.service.Initialize(context.Background()))

		// then
		require.Len(t, finished, 1)
		assert.True(t, finished[0].Failed)
	})
}
