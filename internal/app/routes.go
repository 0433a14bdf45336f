package app

import (
	"github.com/campuscal/campuscal/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Semester
	r.HandleFunc("/api/semester", deps.SemesterHandler.GetCurrent).Methods("GET")

	// Projected events
	r.HandleFunc("/api/events", deps.ViewHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/events/feed.ics", deps.FeedHandler.GetFeed).Methods("GET")

	// View state
	r.HandleFunc("/api/view", deps.ViewHandler.SetView).Methods("PUT")
	r.HandleFunc("/api/status", deps.ViewHandler.GetStatus).Methods("GET")

	// Manual refresh
	r.HandleFunc("/api/refresh", deps.RefreshHandler.Refresh).Methods("POST")
}
