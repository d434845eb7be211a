// Package scheduler fires the weekly matching run on the configured days and
// time of day.
package scheduler

import (
	"context"
	"errors"
	"log"
	"slices"
	"sync"
	"time"

	"random-coffee/internal/repository"
	"random-coffee/internal/usecase"
)

type Runner interface {
	RunScheduled(ctx context.Context) (usecase.RunOutcome, error)
}

type Scheduler struct {
	settings repository.SettingsRepository
	runner   Runner
	loc      *time.Location
	cooldown time.Duration
	interval time.Duration
	logger   *log.Logger

	mu        sync.Mutex
	lastFired time.Time
}

func New(settings repository.SettingsRepository, runner Runner, loc *time.Location, cooldown time.Duration, logger *log.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		settings: settings,
		runner:   runner,
		loc:      loc,
		cooldown: cooldown,
		interval: time.Minute,
		logger:   logger,
	}
}

// Run ticks once a minute until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.logger.Printf("scheduler status=started tz=%s", s.loc)
	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("scheduler status=stopped")
			return
		case now := <-t.C:
			s.Tick(ctx, now)
		}
	}
}

// Tick starts a scheduled run when now, in the local zone, falls on a
// scheduled weekday at the scheduled minute. It reports whether a run was
// started.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) bool {
	local := now.In(s.loc)

	st, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Printf("scheduler step=settings status=error err=%v", err)
		return false
	}
	if !slices.Contains(st.ScheduleDays, usecase.DayCode(local.Weekday())) {
		return false
	}
	if local.Format("15:04") != st.ScheduleTime {
		return false
	}

	s.mu.Lock()
	if !s.lastFired.IsZero() && now.Sub(s.lastFired) < s.cooldown {
		s.mu.Unlock()
		return false
	}
	s.lastFired = now
	s.mu.Unlock()

	out, err := s.runner.RunScheduled(ctx)
	switch {
	case errors.Is(err, usecase.ErrCooldownActive), errors.Is(err, usecase.ErrRunInProgress):
		s.logger.Printf("scheduler status=skipped reason=%q", err)
	case err != nil:
		s.logger.Printf("scheduler status=error err=%v", err)
	default:
		s.logger.Printf("scheduler status=ok run_id=%s pairs=%d", out.RunID, len(out.Result.Pairs))
	}
	return true
}
