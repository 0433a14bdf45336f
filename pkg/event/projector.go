package event

import (
	"fmt"
	"time"

	"github.com/campuscal/campuscal/pkg/semester"
)

// Filter selects the time window projected from the working set.
type Filter string

const (
	FilterDay   Filter = "day"
	FilterWeek  Filter = "week"
	FilterMonth Filter = "month"
	FilterAll   Filter = "all"
)

// ParseFilter maps a user-supplied string onto a Filter.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterDay, FilterWeek, FilterMonth, FilterAll:
		return Filter(s), nil
	case "":
		return FilterAll, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Project returns the subset of the working set selected by the filter and
// reference date, sorted ascending by date. It is a pure function of its
// inputs and is always re-run in full; the result is never mutated
// incrementally.
//
// Weeks start on Sunday (Sunday=0), matching time.Weekday. The All filter
// restricts to the semester window when it parsed; an invalid window keeps
// the entire working set.
func Project(events []Event, filter Filter, refDate time.Time, window semester.Window) []Event {
	var filtered []Event
	switch filter {
	case FilterDay:
		filtered = keep(events, func(d time.Time) bool {
			return sameDay(d, refDate)
		})
	case FilterWeek:
		weekStart := dateOnly(refDate).AddDate(0, 0, -int(refDate.Weekday()))
		weekEnd := weekStart.AddDate(0, 0, 6)
		filtered = keep(events, func(d time.Time) bool {
			return betweenDays(d, weekStart, weekEnd)
		})
	case FilterMonth:
		monthStart := time.Date(refDate.Year(), refDate.Month(), 1, 0, 0, 0, 0, refDate.Location())
		monthEnd := monthStart.AddDate(0, 1, -1)
		filtered = keep(events, func(d time.Time) bool {
			return betweenDays(d, monthStart, monthEnd)
		})
	default:
		filtered = FilterWindow(events, window)
	}
	return SortByDate(filtered)
}

// EmptyMessage is the human-readable empty-state text for a projection that
// produced no events. An empty projection is a normal outcome, not an error.
func EmptyMessage(filter Filter, refDate time.Time) string {
	switch filter {
	case FilterDay:
		return fmt.Sprintf("No events found for %s", refDate.Format("02/01/2006"))
	case FilterWeek:
		return fmt.Sprintf("No events found for week of %s", refDate.Format("02 Jan"))
	case FilterMonth:
		return fmt.Sprintf("No events found for %s", refDate.Format("Jan 2006"))
	}
	return "No events found"
}

func keep(events []Event, match func(time.Time) bool) []Event {
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if match(e.Date.Time) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func betweenDays(t, start, end time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, start.Location())
	return !day.Before(start) && !day.After(end)
}
