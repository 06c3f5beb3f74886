// Package jobs runs the periodic maintenance work of the API.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/yukikurage/farm-management-api/internal/config"
	"github.com/yukikurage/farm-management-api/internal/metrics"
	"go.uber.org/zap"
)

const invitationSweepJob = "invitation-sweep"

// InvitationSweeper deactivates invitation codes that can no longer be redeemed.
type InvitationSweeper interface {
	SweepStale(ctx context.Context) (int64, error)
}

// Scheduler wraps a gocron scheduler with the registered maintenance jobs.
type Scheduler struct {
	scheduler gocron.Scheduler
	sweeper   InvitationSweeper
	metrics   *metrics.Metrics
	logger    *zap.Logger
	timeout   time.Duration
}

// NewScheduler registers the jobs enabled in cfg. Nothing runs until Start.
func NewScheduler(cfg config.JobsConfig, sweeper InvitationSweeper, m *metrics.Metrics, logger *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &Scheduler{
		scheduler: s,
		sweeper:   sweeper,
		metrics:   m,
		logger:    logger.Named("jobs"),
		timeout:   time.Minute,
	}

	interval := cfg.InvitationSweepInterval
	if interval <= 0 {
		interval = time.Hour
	}
	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.sweepInvitations),
		gocron.WithName(invitationSweepJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return nil, fmt.Errorf("failed to register %s job: %w", invitationSweepJob, err)
	}

	return js, nil
}

// JobNames lists the registered jobs.
func (js *Scheduler) JobNames() []string {
	jobs := js.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

func (js *Scheduler) Start() {
	js.logger.Info("starting background jobs", zap.Strings("jobs", js.JobNames()))
	js.scheduler.Start()
}

func (js *Scheduler) Stop() error {
	js.logger.Info("stopping background jobs")
	return js.scheduler.Shutdown()
}

func (js *Scheduler) sweepInvitations() {
	ctx, cancel := context.WithTimeout(context.Background(), js.timeout)
	defer cancel()

	n, err := js.sweeper.SweepStale(ctx)
	if err != nil {
		js.logger.Error("invitation sweep failed", zap.Error(err))
		return
	}
	js.metrics.CodesDeactivated(n)
	if n > 0 {
		js.logger.Info("deactivated stale invitation codes", zap.Int64("count", n))
	}
}
