package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Poller runs one watch cycle. *poller.Poller satisfies it.
type Poller interface {
	Poll(ctx context.Context) error
}

// Scheduler owns the watch loop. It polls on a fixed interval, or on a cron
// schedule when one is configured.
type Scheduler struct {
	poller   Poller
	interval time.Duration
	cronSpec string
	logger   *slog.Logger
}

// NewScheduler creates a scheduler. A non-empty cronSpec (standard five-field
// syntax or a descriptor such as "@every 10m") takes precedence over interval.
func NewScheduler(p Poller, interval time.Duration, cronSpec string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		poller:   p,
		interval: interval,
		cronSpec: cronSpec,
		logger:   logger,
	}
}

// ParseCron reports whether spec is a valid schedule for NewScheduler.
func ParseCron(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return nil
}

// Run starts the watch loop. It runs one immediate cycle, then waits for the
// next tick. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	if s.cronSpec != "" {
		return s.runCron(ctx)
	}

	s.logger.Info("starting scheduler", "interval", s.interval.String())

	// Run one immediate poll cycle.
	s.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.poll(ctx)
		}
	}
}

func (s *Scheduler) runCron(ctx context.Context) error {
	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn))),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(s.cronSpec, func() { s.poll(ctx) }); err != nil {
		return fmt.Errorf("scheduling %q: %w", s.cronSpec, err)
	}

	s.logger.Info("starting scheduler", "cron", s.cronSpec)

	s.poll(ctx)
	if ctx.Err() != nil {
		s.logger.Info("shutting down scheduler")
		return nil
	}

	c.Start()
	<-ctx.Done()
	s.logger.Info("shutting down scheduler")
	// Wait for a cycle that is already running to observe cancellation.
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.poller.Poll(ctx); err != nil {
		s.logger.Error("poll failed", "error", err)
	}
}
