package view

import (
	"time"

	"github.com/campuscal/campuscal/pkg/event"
	"github.com/campuscal/campuscal/pkg/semester"
)

// Snapshot is an immutable picture of the view state handed to consumers.
// EmptyMessage is set only when the projection produced no events.
type Snapshot struct {
	Events        []event.Event
	Filter        event.Filter
	ReferenceDate time.Time
	EmptyMessage  string
	Loading       bool
	Initialized   bool
	Window        semester.Window
}
