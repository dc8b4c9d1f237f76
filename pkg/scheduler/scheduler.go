package scheduler

import (
	"context"
	"time"

	"github.com/x1thexxx-lgtm/fleetinv/pkg/config"
	"github.com/x1thexxx-lgtm/fleetinv/pkg/logging"
)

// TaskRunner defines background work to execute.
type TaskRunner interface {
	Run(ctx context.Context) error
}

// Scheduler rebuilds the inventory on a fixed tick in watch mode.
type Scheduler struct {
	cfg    config.SchedulerConfig
	runner TaskRunner
	log    *logging.Logger
}

// New creates scheduler.
func New(cfg config.SchedulerConfig, runner TaskRunner, log *logging.Logger) *Scheduler {
	return &Scheduler{cfg: cfg, runner: runner, log: log}
}

// Start rebuilds immediately, then on every tick until ctx is done. Each
// rebuild is independent; a failed one is logged and the next tick tries
// again from scratch.
func (s *Scheduler) Start(ctx context.Context) error {
	interval, err := time.ParseDuration(s.cfg.Tick)
	if err != nil {
		return err
	}
	if err := s.runner.Run(ctx); err != nil {
		s.log.Errorf("inventory rebuild failed: %v", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.runner.Run(ctx); err != nil {
				s.log.Errorf("inventory rebuild failed: %v", err)
			}
		}
	}
}
