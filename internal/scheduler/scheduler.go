// Package scheduler runs recurring background jobs until the context ends.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/graffic/campusbot/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Job is a named function with a schedule
type Job struct {
	Name       string
	Run        func(ctx context.Context) error
	next       func(now time.Time) time.Time
	runOnStart bool
}

// Every runs fn every interval, and once at start if runOnStart is set.
func Every(name string, interval time.Duration, runOnStart bool, fn func(ctx context.Context) error) Job {
	return Job{
		Name:       name,
		Run:        fn,
		next:       func(now time.Time) time.Time { return now.Add(interval) },
		runOnStart: runOnStart,
	}
}

// Daily runs fn every day at the wall clock time at ("HH:MM") in loc.
func Daily(name, at string, loc *time.Location, fn func(ctx context.Context) error) (Job, error) {
	clock, err := time.Parse("15:04", at)
	if err != nil {
		return Job{}, fmt.Errorf("job %s: invalid time %q: %w", name, at, err)
	}

	return Job{
		Name: name,
		Run:  fn,
		next: func(now time.Time) time.Time {
			return nextDaily(now, clock.Hour(), clock.Minute(), loc)
		},
	}, nil
}

// nextDaily returns the first hour:minute in loc strictly after now.
func nextDaily(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	y, m, d := local.Date()
	next := time.Date(y, m, d, hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(y, m, d+1, hour, minute, 0, 0, loc)
	}
	return next
}

// Scheduler runs jobs concurrently
type Scheduler struct {
	jobs   []Job
	logger *slog.Logger
	now    func() time.Time
}

// New creates an empty scheduler
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger, now: time.Now}
}

// Add registers jobs. It must be called before Run.
func (s *Scheduler) Add(jobs ...Job) {
	s.jobs = append(s.jobs, jobs...)
}

// Run blocks until ctx is cancelled. Job errors are logged and never stop
// the scheduler.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, job := range s.jobs {
		g.Go(func() error {
			s.loop(ctx, job)
			return nil
		})
	}
	return g.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	logger := s.logger.With("job", job.Name)
	logger.Info("job scheduled", "next_run", job.next(s.now()))

	if job.runOnStart {
		s.execute(ctx, job, logger)
	}

	for {
		timer := time.NewTimer(job.next(s.now()).Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		s.execute(ctx, job, logger)
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job, logger *slog.Logger) {
	start := time.Now()
	err := safeRun(ctx, job.Run)
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		observability.JobRuns.WithLabelValues(job.Name, "error").Inc()
		logger.Error("job failed", "error", err, "duration", time.Since(start))
		return
	}
	observability.JobRuns.WithLabelValues(job.Name, "ok").Inc()
	logger.Debug("job completed", "duration", time.Since(start))
}

func safeRun(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}
