package app

import (
	"context"
	"net/http"
	"time"

	"github.com/campuscal/campuscal/internal/config"
	"github.com/campuscal/campuscal/internal/scheduler"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, sync services, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
	sched  *scheduler.Scheduler
}

// NewApplication constructs the full application, ready to Run().
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	deps, err := BuildDependencies(cfg)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r, deps, cfg)
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{
		cfg:    cfg,
		deps:   deps,
		router: r,
		srv:    srv,
		sched:  scheduler.New(deps.ViewService),
	}, nil
}

// Deps exposes the wired services for one-shot CLI commands.
func (a *Application) Deps() *Dependencies {
	return a.deps
}

// Run performs the initial load, starts the background scheduler, and
// serves the HTTP API until the server stops.
func (a *Application) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := a.deps.ViewService.Initialize(ctx); err != nil {
		// Degraded start: the remote may come back, and a later sync or
		// manual refresh can still succeed.
		log.Warnf("initial load failed: %v", err)
	}
	cancel()

	if a.cfg.Scheduler.Enabled {
		if err := a.sched.Start(a.cfg.Scheduler.Schedule); err != nil {
			return err
		}
		defer a.sched.Stop()
	}

	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}
