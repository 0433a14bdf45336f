package view

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/campuscal/campuscal/internal/utils"
	"github.com/campuscal/campuscal/pkg/event"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	ID          string    `json:"eventId"`
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	SemesterID  string    `json:"semesterId"`
	Type        string    `json:"type,omitempty"`
}

type SnapshotDTO struct {
	Events        []EventDTO `json:"events"`
	Filter        string     `json:"filter"`
	ReferenceDate string     `json:"referenceDate"`
	EmptyMessage  string     `json:"emptyMessage,omitempty"`
	Loading       bool       `json:"loading"`
	Initialized   bool       `json:"initialized"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service}
}

// GetEvents projects the working set for the requested filter and date
// without mutating the view state. Missing parameters fall back to the All
// filter and today.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	filter, err := event.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	refDate := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		refDate, err = utils.ParseFlexibleTime(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	snap := h.service.ProjectAt(filter, refDate)
	writeSnapshot(w, snap)
}

// SetView switches the stored filter and reference date, the stateful
// equivalent of a filter-button tap. Rejected changes (sync in progress)
// return 409 with the unchanged snapshot.
func (h *Handler) SetView(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body struct {
		Filter string `json:"filter"`
		Date   string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filter, err := event.ParseFilter(body.Filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	refDate := time.Now()
	if body.Date != "" {
		refDate, err = utils.ParseFlexibleTime(body.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if !h.service.SetFilter(filter, refDate) {
		w.WriteHeader(http.StatusConflict)
		encodeSnapshot(w, h.service.Snapshot())
		return
	}
	writeSnapshot(w, h.service.Snapshot())
}

// GetStatus reports the current view state without events, for the
// rendering layer's busy indicator.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	snap := h.service.Snapshot()
	status := struct {
		Loading       bool   `json:"loading"`
		Initialized   bool   `json:"initialized"`
		Filter        string `json:"filter"`
		ReferenceDate string `json:"referenceDate"`
		EventCount    int    `json:"eventCount"`
		EmptyMessage  string `json:"emptyMessage,omitempty"`
	}{
		Loading:       snap.Loading,
		Initialized:   snap.Initialized,
		Filter:        string(snap.Filter),
		ReferenceDate: snap.ReferenceDate.Format("2006-01-02"),
		EventCount:    len(snap.Events),
		EmptyMessage:  snap.EmptyMessage,
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Errorf("failed to encode status response: %v", err)
	}
}

func writeSnapshot(w http.ResponseWriter, snap Snapshot) {
	w.WriteHeader(http.StatusOK)
	encodeSnapshot(w, snap)
}

func encodeSnapshot(w http.ResponseWriter, snap Snapshot) {
	dto := SnapshotDTO{
		Events:        make([]EventDTO, 0, len(snap.Events)),
		Filter:        string(snap.Filter),
		ReferenceDate: snap.ReferenceDate.Format("2006-01-02"),
		EmptyMessage:  snap.EmptyMessage,
		Loading:       snap.Loading,
		Initialized:   snap.Initialized,
	}
	for _, e := range snap.Events {
		dto.Events = append(dto.Events, EventDTO{
			ID:          e.ID,
			Date:        e.Date.Time,
			Title:       e.Title,
			Description: e.Description,
			SemesterID:  e.SemesterID,
			Type:        e.Type,
		})
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		log.Errorf("failed to encode events response: %v", err)
	}
}
