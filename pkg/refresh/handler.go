package refresh

import (
	"encoding/json"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type RefreshResultDTO struct {
	Accepted         bool   `json:"accepted"`
	InProgress       bool   `json:"inProgress,omitempty"`
	SecondsRemaining int    `json:"secondsRemaining,omitempty"`
	Message          string `json:"message,omitempty"`
}

type Handler struct {
	gate *Gate
}

func NewHandler(gate *Gate) *Handler {
	return &Handler{gate}
}

// Refresh triggers a manual, cache-bypassing sync. Cooldown rejections map
// to 429 with a Retry-After header; an already-running refresh maps to 202.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	result := h.gate.TryRefresh(r.Context())

	dto := RefreshResultDTO{
		Accepted:         result.Accepted,
		InProgress:       result.InProgress,
		SecondsRemaining: result.SecondsRemaining,
	}

	switch {
	case result.Accepted:
		w.WriteHeader(http.StatusOK)
	case result.InProgress:
		dto.Message = "refresh already in progress"
		w.WriteHeader(http.StatusAccepted)
	default:
		dto.Message = "refresh cooldown active"
		w.Header().Set("Retry-After", strconv.Itoa(result.SecondsRemaining))
		w.WriteHeader(http.StatusTooManyRequests)
	}

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		log.Errorf("failed to encode refresh response: %v", err)
	}
}
