package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/campuscal/campuscal/internal/utils"
	"github.com/campuscal/campuscal/pkg/semester"
)

// Event is a single calendar entry owned by a semester. Type is a free-form
// category tag, not a closed enum.
type Event struct {
	ID          string   `json:"eventId"`
	CreatedAt   FlexTime `json:"createdAt"`
	Date        FlexTime `json:"date"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SemesterID  string   `json:"semesterId"`
	Type        string   `json:"type"`
}

// FlexTime is a time.Time that unmarshals from the loosely formatted date
// strings the remote emits (RFC3339, bare dates, and a few variants).
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := utils.ParseFlexibleTime(s)
	if err != nil {
		return fmt.Errorf("invalid event date: %w", err)
	}
	t.Time = parsed
	return nil
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

// SortByDate returns the events in ascending date order. The sort is stable:
// events with identical dates retain their relative order.
func SortByDate(events []Event) []Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date.Time)
	})
	return sorted
}

// FilterSemester keeps only the events owned by the given semester. The
// remote response is not trusted to be scoped correctly.
func FilterSemester(events []Event, semesterID string) []Event {
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.SemesterID == semesterID {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// FilterWindow keeps the events whose date falls within the semester's date
// window. An invalid window keeps the full set; filtering against a window
// that never parsed would silently hide everything.
func FilterWindow(events []Event, window semester.Window) []Event {
	if !window.Valid {
		filtered := make([]Event, len(events))
		copy(filtered, events)
		return filtered
	}
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if window.Contains(e.Date.Time) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
