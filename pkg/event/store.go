package event

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/campuscal/campuscal/internal/utils"
)

// Store persists the cached event list and its last-successful-update
// timestamp. A missing cache is an empty list, not an error.
type Store interface {
	Load() ([]Event, error)
	Save(events []Event) error
	LastUpdate() time.Time
	SetLastUpdate(t time.Time) error
}

const (
	eventsFile    = "events.json"
	timestampFile = "events_updated_at"
)

// FileStore keeps the event blob and its timestamp as files in a directory
// on the local disk.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Load() ([]Event, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, eventsFile))
	if os.IsNotExist(err) {
		return []Event{}, nil
	}
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *FileStore) Save(events []Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, eventsFile), data, 0o644)
}

// LastUpdate returns the zero time when no timestamp has been recorded,
// which forces a refresh.
func (s *FileStore) LastUpdate() time.Time {
	data, err := os.ReadFile(filepath.Join(s.dir, timestampFile))
	if err != nil {
		return time.Time{}
	}
	t, err := utils.ParseFlexibleTime(string(data))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *FileStore) SetLastUpdate(t time.Time) error {
	return os.WriteFile(filepath.Join(s.dir, timestampFile), []byte(t.Format(time.RFC3339Nano)), 0o644)
}
