package feed

import (
	"net/http"
	"time"

	"github.com/campuscal/campuscal/pkg/event"
	"github.com/campuscal/campuscal/pkg/view"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	view     *view.Service
	renderer *ICSRendererImpl
}

func NewHandler(viewService *view.Service, renderer *ICSRendererImpl) *Handler {
	return &Handler{view: viewService, renderer: renderer}
}

// GetFeed serves the full semester projection as an iCalendar feed.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	snap := h.view.ProjectAt(event.FilterAll, time.Now())
	sem, _ := h.view.Semester()

	body, err := h.renderer.RenderEvents(snap.Events, sem)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Errorf("failed to write calendar feed: %v", err)
	}
}
