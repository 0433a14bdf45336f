package scheduler

import (
	"context"
	"time"

	"github.com/campuscal/campuscal/pkg/view"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// syncTimeout bounds a scheduled sync run; a hung remote call must not block
// the next tick forever.
const syncTimeout = time.Minute

// Scheduler re-runs the cache-respecting sync on a cron schedule, so the
// staleness thresholds are exercised without user action.
type Scheduler struct {
	cron *cron.Cron
	view *view.Service
}

func New(viewService *view.Service) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		view: viewService,
	}
}

// Start registers the sync job and starts the cron loop. The schedule uses
// the standard cron format, "@every 1h" style descriptors included.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		log.Debug("scheduled sync starting")
		if err := s.view.Sync(ctx, true); err != nil {
			log.Warnf("scheduled sync failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Infof("background sync scheduled: %s", schedule)
	return nil
}

// Stop halts the cron loop; a running job finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
