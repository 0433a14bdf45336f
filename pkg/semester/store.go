package semester

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/campuscal/campuscal/internal/utils"
)

// Store persists the last-known semester and its last-successful-update
// timestamp. A missing cache is an empty result, not an error; the blob is
// never deleted, it is the standing fallback.
type Store interface {
	Load() (Semester, bool, error)
	Save(semester Semester) error
	LastUpdate() time.Time
	SetLastUpdate(t time.Time) error
}

const (
	semesterFile  = "current_semester.json"
	timestampFile = "semester_updated_at"
)

// FileStore keeps the semester blob and its timestamp as files in a
// directory on the local disk.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Load() (Semester, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, semesterFile))
	if os.IsNotExist(err) {
		return Semester{}, false, nil
	}
	if err != nil {
		return Semester{}, false, err
	}
	var sem Semester
	if err := json.Unmarshal(data, &sem); err != nil {
		return Semester{}, false, err
	}
	return sem, true, nil
}

func (s *FileStore) Save(sem Semester) error {
	data, err := json.Marshal(sem)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, semesterFile), data, 0o644)
}

// LastUpdate returns the zero time when no timestamp has been recorded or
// the recorded one cannot be parsed, which forces a refresh.
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
