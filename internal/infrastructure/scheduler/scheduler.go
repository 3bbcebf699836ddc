// Package scheduler runs a job on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// DefaultSpec runs every four hours on the hour.
const DefaultSpec = "0 */4 * * *"

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler runs a single job; a tick that fires while the previous run is
// still going is skipped.
type Scheduler struct {
	cron    *cron.Cron
	entryID cron.EntryID
	job     Job
	logger  *log.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
}

// New parses spec (five fields or a descriptor such as "@every 1h") and
// prepares the scheduler. The job is not started until Run.
func New(spec string, job Job, logger *log.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("scheduler job is nil")
	}
	if spec == "" {
		spec = DefaultSpec
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Scheduler{
		cron:   cron.New(),
		job:    job,
		logger: logger,
	}
	if err := s.register(spec); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) register(spec string) error {
	id, err := s.cron.AddFunc(spec, func() { s.tick(s.runContext()) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	s.entryID = id
	return nil
}

func (s *Scheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// tick runs the job once unless a run is already in flight.
func (s *Scheduler) tick(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("previous run still in progress, skipping tick")
		return false
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled run failed", "err", err, "took", time.Since(start).Round(time.Millisecond))
		return true
	}
	s.logger.Info("scheduled run finished", "took", time.Since(start).Round(time.Millisecond))
	return true
}

// Next returns the next planned run, zero before Run starts the clock.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// Run starts the schedule and blocks until ctx is cancelled, then waits for
// an in-flight job to return. With runNow the job first runs once in the
// foreground.
func (s *Scheduler) Run(ctx context.Context, runNow bool) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	if runNow {
		s.tick(ctx)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "next", s.Next())
	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	s.logger.Info("scheduler stopped")
	return ctx.Err()
}
