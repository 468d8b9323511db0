package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobboard/internal/filter"
	"github.com/amishk599/jobboard/internal/model"
)

// Source is the posting collection a poller reads from. *session.Store
// satisfies it.
type Source interface {
	RefreshResult(ctx context.Context) error
	Jobs() []model.JobPosting
}

// Poller owns the watch pipeline:
// refresh → filter → dedup → notify → mark seen.
type Poller struct {
	source   Source
	filter   model.JobFilter
	store    model.JobStore
	notifier model.Notifier
	seenTTL  time.Duration
	baseline bool
	logger   *slog.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithBaseline makes the first poll against an empty store record every
// matching posting as seen without notifying.
func WithBaseline() Option {
	return func(p *Poller) { p.baseline = true }
}

// NewPoller creates a poller wired with all its dependencies. A seenTTL of
// zero disables cleanup of old seen entries.
func NewPoller(
	source Source,
	filter model.JobFilter,
	store model.JobStore,
	notifier model.Notifier,
	seenTTL time.Duration,
	logger *slog.Logger,
	opts ...Option,
) *Poller {
	p := &Poller{
		source:   source,
		filter:   filter,
		store:    store,
		notifier: notifier,
		seenTTL:  seenTTL,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll runs one poll cycle: refresh the collection, filter, dedup, notify,
// and mark seen.
func (p *Poller) Poll(ctx context.Context) error {
	if err := p.source.RefreshResult(ctx); err != nil {
		return fmt.Errorf("polling: %w", err)
	}

	jobs := p.source.Jobs()
	matched := filter.Apply(jobs, p.filter)

	firstRun := false
	if p.baseline {
		empty, err := p.store.IsEmpty()
		if err != nil {
			return fmt.Errorf("polling: checking store: %w", err)
		}
		firstRun = empty
	}

	var newJobs []model.JobPosting
	for _, job := range matched {
		seen, err := p.store.HasSeen(job.ID)
		if err != nil {
			return fmt.Errorf("polling: checking seen status: %w", err)
		}
		if !seen {
			newJobs = append(newJobs, job)
		}
	}

	if firstRun {
		p.logger.Info("recording baseline, not notifying", "jobs", len(newJobs))
	} else if len(newJobs) > 0 {
		if err := p.notifier.Notify(newJobs); err != nil {
			return fmt.Errorf("polling: notifying: %w", err)
		}
	}

	for _, job := range newJobs {
		if err := p.store.MarkSeen(job.ID); err != nil {
			return fmt.Errorf("polling: marking seen: %w", err)
		}
	}

	if p.seenTTL > 0 {
		if err := p.store.Cleanup(p.seenTTL); err != nil {
			p.logger.Warn("seen cleanup failed", "error", err)
		}
	}

	p.logger.Info("polled board",
		"fetched", len(jobs),
		"matched", len(matched),
		"new", len(newJobs),
	)

	return nil
}
