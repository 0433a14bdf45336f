package semester

import (
	"sync"
	"time"
)

type StubStore struct {
	mu         sync.Mutex
	semester   Semester
	cached     bool
	lastUpdate time.Time
	saveCalls  int
}

func NewStubStore() *StubStore {
	return &StubStore{}
}

func (s *StubStore) Load() (Semester, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.semester, s.cached, nil
}

func (s *StubStore) Save(sem Semester) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.semester = sem
	s.cached = true
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

// Seed installs a cached semester with the given last-update time, as if a
// previous sync had written it.
func (s *StubStore) Seed(sem Semester, updatedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.semester = sem
	s.cached = true
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
	s.semester = Semester{}
	s.cached = false
	s.lastUpdate = time.Time{}
	s.saveCalls = 0
}
