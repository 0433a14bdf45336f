package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/campuscal/campuscal/internal/remote"
	"github.com/campuscal/campuscal/internal/utils"
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

func makeEvent(id string, date time.Time, semesterID string) Event {
	return Event{
		ID:         id,
		Date:       FlexTime{date},
		Title:      "Event " + id,
		SemesterID: semesterID,
	}
}

func setupEventTest() (*SyncService, *ClientStub, *StubStore, *utils.MockClock) {
	clientStub := NewClientStub()
	storeStub := NewStubStore()
	clock := &utils.MockClock{FixedNow: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)}
	service := &SyncService{
		client: clientStub,
		store:  storeStub,
		clock:  clock,
		maxAge: DefaultMaxAge,
	}
	return service, clientStub, storeStub, clock
}

func TestResolveEvents(t *testing.T) {

	inTerm := makeEvent("e1", time.Date(2026, time.February, 2, 10, 0, 0, 0, time.UTC), springTerm.ID)
	alsoInTerm := makeEvent("e2", time.Date(2026, time.April, 20, 9, 0, 0, 0, time.UTC), springTerm.ID)
	beforeTerm := makeEvent("e3", time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), springTerm.ID)
	otherTerm := makeEvent("e4", time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC), "2025-fall")

	t.Run("should use fresh cache without remote call", func(t *testing.T) {
		service, clientStub, storeStub, clock := setupEventTest()

		// given: a 2-hour-old cache with events in and out of the term window
		storeStub.Seed([]Event{alsoInTerm, inTerm, beforeTerm}, clock.Now().Add(-2*time.Hour))

		// when
		events := service.Resolve(context.Background(), springTerm, true)

		// then: window-filtered and ascending by date
		assert.Equal(t, []Event{inTerm, alsoInTerm}, events)
		assert.Equal(t, 0, clientStub.FetchCalls())
	})

	t.Run("should fetch when cache is older than 6 hours", func(t *testing.T) {
		service, clientStub, storeStub, clock := setupEventTest()

		// given
		storeStub.Seed([]Event{inTerm}, clock.Now().Add(-7*time.Hour))
		clientStub.SetEvents(springTerm.ID, []Event{alsoInTerm, inTerm})

		// when
		events := service.Resolve(context.Background(), springTerm, true)

		// then
		assert.Equal(t, []Event{inTerm, alsoInTerm}, events)
		assert.Equal(t, 1, clientStub.FetchCalls())
	})

	t.Run("should fetch when cache-derived result is empty", func(t *testing.T) {
		service, clientStub, storeStub, clock := setupEventTest()

		// given: a fresh but empty cache
		storeStub.Seed(nil, clock.Now().Add(-time.Hour))
		clientStub.SetEvents(springTerm.ID, []Event{inTerm})

		// when
		events := service.Resolve(context.Background(), springTerm, true)

		// then
		assert.Equal(t, []Event{inTerm}, events)
		assert.Equal(t, 1, clientStub.FetchCalls())
	})

	t.Run("should bypass cache when useCache is false", func(t *testing.T) {
		service, clientStub, storeStub, clock := setupEventTest()

		// given
		storeStub.Seed([]Event{inTerm}, clock.Now().Add(-time.Minute))
		clientStub.SetEvents(springTerm.ID, []Event{alsoInTerm})

		// when
		events := service.Resolve(context.Background(), springTerm, false)

		// then
		assert.Equal(t, []Event{alsoInTerm}, events)
		assert.Equal(t, 1, clientStub.FetchCalls())
	})

	t.Run("should discard fetched events of other semesters", func(t *testing.T) {
		service, clientStub, _, _ := setupEventTest()

		// given: the remote response is not trusted to be scoped
		clientStub.SetEvents(springTerm.ID, []Event{otherTerm, inTerm})

		// when
		events := service.Resolve(context.Background(), springTerm, false)

		// then
		assert.Equal(t, []Event{inTerm}, events)
	})

	t.Run("should persist the filtered sorted list and a fresh timestamp", func(t *testing.T) {
		service, clientStub, storeStub, clock := setupEventTest()

		// given
		clientStub.SetEvents(springTerm.ID, []Event{alsoInTerm, otherTerm, inTerm})

		// when
		service.Resolve(context.Background(), springTerm, false)

		// then
		stored, err := storeStub.Load()
		require.NoError(t, err)
		assert.Equal(t, []Event{inTerm, alsoInTerm}, stored)
		assert.Equal(t, clock.Now(), storeStub.LastUpdate())
	})

	t.Run("should fall back to cache when fetch fails", func(t *testing.T) {
		service, clientStub, storeStub, clock := setupEventTest()

		// given: a stale cache and an unreachable remote
		storeStub.Seed([]Event{alsoInTerm, inTerm, otherTerm}, clock.Now().Add(-48*time.Hour))
		clientStub.SetError(remote.ErrTransport)

		// when
		events := service.Resolve(context.Background(), springTerm, true)

		// then: semester-filtered regardless of age, no new cache write
		assert.Equal(t, []Event{inTerm, alsoInTerm}, events)
		assert.Equal(t, 0, storeStub.SaveCalls())
	})

	t.Run("should return empty list when fetch fails and cache is empty", func(t *testing.T) {
		service, clientStub, _, _ := setupEventTest()

		// given
		clientStub.SetError(remote.ErrTransport)

		// when
		events := service.Resolve(context.Background(), springTerm, true)

		// then: not an error, it surfaces as an empty state
		assert.Empty(t, events)
	})

	t.Run("should keep full cached set when semester window does not parse", func(t *testing.T) {
		service, clientStub, storeStub, clock := setupEventTest()

		// given
		broken := springTerm
		broken.StartDate = "sometime in January"
		storeStub.Seed([]Event{inTerm, alsoInTerm}, clock.Now().Add(-time.Hour))

		// when
		events := service.Resolve(context.Background(), broken, true)

		// then
		assert.Equal(t, []Event{inTerm, alsoInTerm}, events)
		assert.Equal(t, 0, clientStub.FetchCalls())
	})

	t.Run("should replace the working set after each resolve", func(t *testing.T) {
		service, clientStub, _, _ := setupEventTest()

		// given
		clientStub.SetEvents(springTerm.ID, []Event{inTerm})
		assert.Empty(t, service.WorkingSet())

		// when
		service.Resolve(context.Background(), springTerm, false)

		// then
		assert.Equal(t, []Event{inTerm}, service.WorkingSet())
	})

	t.Run("should perform a single fetch and cache write for concurrent resolves", func(t *testing.T) {
		service, clientStub, storeStub, _ := setupEventTest()

		// given: the first fetch blocks until the concurrent resolve finished
		clientStub.SetEvents(springTerm.ID, []Event{inTerm})
		firstFetchStarted := make(chan struct{})
		releaseFetch := make(chan struct{})
		var once sync.Once
		clientStub.SetDelay(func() {
			once.Do(func() {
				close(firstFetchStarted)
				<-releaseFetch
			})
		})

		// when
		done := make(chan struct{})
		go func() {
			defer close(done)
			service.Resolve(context.Background(), springTerm, false)
		}()
		<-firstFetchStarted
		overlapping := service.Resolve(context.Background(), springTerm, false)
		close(releaseFetch)
		<-done

		// then
		assert.Empty(t, overlapping)
		assert.Equal(t, 1, clientStub.FetchCalls())
		assert.Equal(t, 1, storeStub.SaveCalls())
	})

	t.Run("should keep relative order of events with identical dates", func(t *testing.T) {
		service, clientStub, _, _ := setupEventTest()

		// given
		sameDate := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
		first := makeEvent("first", sameDate, springTerm.ID)
		second := makeEvent("second", sameDate, springTerm.ID)
		clientStub.SetEvents(springTerm.ID, []Event{first, second})

		// when
		events := service.Resolve(context.Background(), springTerm, false)

		// then
		require.Len(t, events, 2)
		assert.Equal(t, "first", events[0].ID)
		assert.Equal(t, "second", events[1].ID)
	})
}
