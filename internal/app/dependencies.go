package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/campuscal/campuscal/internal/config"
	"github.com/campuscal/campuscal/internal/event_bus"
	"github.com/campuscal/campuscal/internal/utils"
	"github.com/campuscal/campuscal/pkg/event"
	"github.com/campuscal/campuscal/pkg/feed"
	"github.com/campuscal/campuscal/pkg/refresh"
	"github.com/campuscal/campuscal/pkg/semester"
	"github.com/campuscal/campuscal/pkg/view"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	SemesterClient  semester.Client
	SemesterStore   semester.Store
	SemesterService semester.Service
	SemesterHandler *semester.Handler

	EventClient  event.Client
	EventStore   event.Store
	EventService event.Service

	ViewService *view.Service
	ViewHandler *view.Handler

	RefreshGate    *refresh.Gate
	RefreshHandler *refresh.Handler

	ICSRenderer *feed.ICSRendererImpl
	FeedHandler *feed.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) (*Dependencies, error) {
	if err := os.MkdirAll(cfg.Cache.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", cfg.Cache.Dir, err)
	}

	deps := &Dependencies{}
	deps.Clock = &utils.SystemClock{}
	deps.Bus = event_bus.NewEventBus()

	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second

	deps.SemesterClient = semester.NewHTTPClient(cfg.API.SemesterURL, timeout)
	deps.SemesterStore = semester.NewFileStore(cfg.Cache.Dir)
	deps.SemesterService = semester.NewSyncService(
		deps.SemesterClient,
		deps.SemesterStore,
		time.Duration(cfg.Sync.SemesterMaxAgeHours)*time.Hour,
	)
	deps.SemesterHandler = semester.NewHandler(deps.SemesterService)

	deps.EventClient = event.NewHTTPClient(cfg.API.EventsURL, timeout)
	deps.EventStore = event.NewFileStore(cfg.Cache.Dir)
	deps.EventService = event.NewSyncService(
		deps.EventClient,
		deps.EventStore,
		time.Duration(cfg.Sync.EventsMaxAgeHours)*time.Hour,
	)

	deps.ViewService = view.NewService(deps.SemesterService, deps.EventService, deps.Bus)
	deps.ViewHandler = view.NewHandler(deps.ViewService)

	deps.RefreshGate = refresh.NewGate(
		time.Duration(cfg.Sync.RefreshCooldownSeconds)*time.Second,
		func(ctx context.Context) error {
			return deps.ViewService.Sync(ctx, false)
		},
	)
	deps.RefreshHandler = refresh.NewHandler(deps.RefreshGate)

	deps.ICSRenderer = feed.NewICSRenderer()
	deps.FeedHandler = feed.NewHandler(deps.ViewService, deps.ICSRenderer)

	return deps, nil
}
