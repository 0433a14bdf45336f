package semester

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type SemesterDTO struct {
	ID        string     `json:"semesterId"`
	Name      string     `json:"name"`
	StartDate string     `json:"startDate"`
	EndDate   string     `json:"endDate"`
	IsCurrent bool       `json:"isCurrent"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// GetCurrent resolves the active semester, honoring the cache.
func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	sem, err := h.service.Resolve(r.Context(), true)
	if err != nil {
		if errors.Is(err, ErrNoSemesterAvailable) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := toDTO(sem)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		log.Errorf("failed to encode semester response: %v", err)
	}
}

func toDTO(sem Semester) SemesterDTO {
	dto := SemesterDTO{
		ID:        sem.ID,
		Name:      sem.Name,
		StartDate: sem.StartDate,
		EndDate:   sem.EndDate,
		IsCurrent: sem.IsCurrent,
	}
	if window := sem.Window(); window.Valid {
		dto.Start = &window.Start
		dto.End = &window.End
	}
	return dto
}
