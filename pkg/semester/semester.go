package semester

import (
	"time"

	"github.com/campuscal/campuscal/internal/utils"
)

// Semester is the remote's notion of an academic term. Start and end dates
// arrive as loosely formatted strings and are kept raw; Window parses them
// on demand.
type Semester struct {
	ID        string `json:"semesterId"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IsCurrent bool   `json:"isCurrent"`
}

// Window is the semester's resolved date range. Valid is false when either
// boundary string failed to parse; the semester itself is still usable.
type Window struct {
	Start time.Time
	End   time.Time
	Valid bool
}

// Contains reports whether the calendar date of t falls within the window.
func (w Window) Contains(t time.Time) bool {
	if !w.Valid {
		return false
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(w.End.Year(), w.End.Month(), w.End.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}

// Window parses the semester's start and end date strings into a date range.
func (s Semester) Window() Window {
	start, err := utils.ParseFlexibleTime(s.StartDate)
	if err != nil {
		return Window{}
	}
	end, err := utils.ParseFlexibleTime(s.EndDate)
	if err != nil {
		return Window{}
	}
	return Window{Start: start, End: end, Valid: true}
}
