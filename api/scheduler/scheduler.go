package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/drone-survey-sync/store"
)

// Refresher is the part of the store the scheduled job refreshes
type Refresher interface {
	ListOrganizations(ctx context.Context) error
	FetchStatistics(ctx context.Context) error
}

// Scheduler periodically refreshes organizations and the statistics of the
// active organization
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string
	timeout   time.Duration
}

// NewScheduler creates a new scheduler instance. spec is a standard five
// field cron expression; timeout bounds a single run.
func NewScheduler(refresher Refresher, spec string, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		refresher: refresher,
		spec:      spec,
		timeout:   timeout,
	}
}

// Start registers the refresh job and begins the scheduler
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.refresh); err != nil {
		return fmt.Errorf("failed to register refresh job %q: %w", s.spec, err)
	}
	s.cron.Start()
	zap.S().Infow("statistics refresh scheduler started", "schedule", s.spec)
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("statistics refresh scheduler stopped")
}

// Run starts the scheduler and stops it when ctx is done
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// refresh is a single scheduled run. Failures are already reported by the
// store and are not retried until the next tick.
func (s *Scheduler) refresh() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.refresher.ListOrganizations(ctx); err != nil {
		zap.S().Warnw("scheduled organization refresh failed", "error", err)
	}

	err := s.refresher.FetchStatistics(ctx)
	switch {
	case errors.Is(err, store.ErrNoActiveOrganization):
		zap.S().Debug("no active organization, skipping statistics refresh")
	case errors.Is(err, store.ErrScopeChanged):
		zap.S().Debug("active organization changed during statistics refresh")
	case err != nil:
		zap.S().Warnw("scheduled statistics refresh failed", "error", err)
	}
}
