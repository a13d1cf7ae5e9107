package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// ErrStopped is returned when a task is scheduled after Stop.
var ErrStopped = errors.New("scheduler stopped")

// Scheduler runs widget timers (clock ticks, mount retries and lookup
// delays) on a gocron scheduler.
type Scheduler struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	logger    zerolog.Logger
	stopped   bool
}

// New creates a new Scheduler and starts the underlying gocron loop.
func New(logger zerolog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	s.StartAsync()
	return &Scheduler{
		scheduler: s,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Task is a scheduled job that can be cancelled. Stop is safe to call more
// than once and after the task has already run.
type Task interface {
	Stop()
}

type task struct {
	once sync.Once
	s    *Scheduler
	job  *gocron.Job
}

func (t *task) Stop() {
	t.once.Do(func() {
		t.s.remove(t.job)
	})
}

// Every runs fn every interval, starting one interval from now.
func (s *Scheduler) Every(interval time.Duration, fn func()) (Task, error) {
	return s.schedule(interval, 0, fn)
}

// After runs fn once after delay.
func (s *Scheduler) After(delay time.Duration, fn func()) (Task, error) {
	return s.schedule(delay, 1, fn)
}

func (s *Scheduler) schedule(d time.Duration, runs int, fn func()) (Task, error) {
	if d <= 0 {
		return nil, fmt.Errorf("invalid interval %s", d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, ErrStopped
	}

	b := s.scheduler.Every(d).WaitForSchedule()
	if runs > 0 {
		b = b.LimitRunsTo(runs)
	}
	job, err := b.Do(fn)
	if err != nil {
		return nil, fmt.Errorf("schedule task every %s: %w", d, err)
	}

	s.logger.Debug().Dur("interval", d).Int("runs", runs).Msg("task scheduled")
	return &task{s: s, job: job}, nil
}

func (s *Scheduler) remove(job *gocron.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || job == nil {
		return
	}
	s.scheduler.RemoveByReference(job)
}

// Len returns the number of jobs currently scheduled.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler.Len()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.scheduler.Stop()
}
