package event

import (
	"sync"
	"time"
)

type StubStore struct {
	mu         sync.Mutex
	events     []Event
	lastUpdate time.Time
	saveCalls  int
}

func NewStubStore() *StubStore {
	return &StubStore{}
}

func (s *StubStore) Load() ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events, nil
}

func (s *StubStore) Save(events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make([]Event, len(events))
	copy(s.events, events)
	s.saveCalls++
	return nil
}

func (s *StubStore) LastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdate
}

func (s *StubStore) SetLastUpdate(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpdate = t
	return nil
}

// Seed installs cached events with the given last-update time, as if a
// previous sync had written them.
func (s *StubStore) Seed(events []Event, updatedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make([]Event, len(events))
	copy(s.events, events)
	s.lastUpdate = updatedAt
}

func (s *StubStore) SaveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCalls
}

func (s *StubStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.lastUpdate = time.Time{}
	s.saveCalls = 0
}
