package feed

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/campuscal/campuscal/pkg/event"
	"github.com/campuscal/campuscal/pkg/semester"
)

const productID = "-//campuscal//campuscal//EN"

// ICSRendererImpl renders a projected event list as an iCalendar feed so
// the cached semester can be subscribed to from any calendar client.
type ICSRendererImpl struct {
}

func NewICSRenderer() *ICSRendererImpl {
	return &ICSRendererImpl{}
}

// RenderEvents serializes the events into a VCALENDAR. Events whose date
// carries no time-of-day become all-day entries; the rest get a one-hour
// slot. The event's category tag is carried through as CATEGORIES.
func (r *ICSRendererImpl) RenderEvents(events []event.Event, sem semester.Semester) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if sem.Name != "" {
		cal.SetXWRCalName(sem.Name)
	}

	for _, e := range events {
		vEvent := cal.AddEvent(e.ID)
		vEvent.SetSummary(e.Title)
		if e.Description != "" {
			vEvent.SetDescription(e.Description)
		}
		if e.Type != "" {
			vEvent.SetProperty(ics.ComponentPropertyCategories, e.Type)
		}
		if !e.CreatedAt.IsZero() {
			vEvent.SetCreatedTime(e.CreatedAt.Time)
			vEvent.SetDtStampTime(e.CreatedAt.Time)
		} else {
			vEvent.SetDtStampTime(e.Date.Time)
		}

		date := e.Date.Time
		if isMidnight(date) {
			vEvent.SetAllDayStartAt(date)
			vEvent.SetAllDayEndAt(date.AddDate(0, 0, 1))
		} else {
			vEvent.SetStartAt(date)
			vEvent.SetEndAt(date.Add(time.Hour))
		}
	}

	return cal.Serialize(), nil
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0
}
