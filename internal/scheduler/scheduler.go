package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"event-dataset-processor/internal/pipeline"
)

// ErrStopped is returned by RunOnce after Stop
var ErrStopped = errors.New("scheduler is stopped")

// RunFunc produces a fresh pipeline result
type RunFunc func() (*pipeline.Result, error)

// Option configures a Scheduler
type Option func(*Scheduler)

// WithInitial seeds the scheduler with a result produced elsewhere, so the
// first snapshot does not need another pipeline run
func WithInitial(res *pipeline.Result) Option {
	return func(s *Scheduler) {
		if res == nil {
			return
		}
		s.latest = res
		s.lastRun = res.FinishedAt
	}
}

// Scheduler re-runs the pipeline on a cron schedule and keeps the latest
// successful result for the report server
type Scheduler struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	spec      string
	run       RunFunc
	wg        sync.WaitGroup
	isRunning bool
	stopped   bool
	mu        sync.RWMutex

	latest  *pipeline.Result
	lastErr error
	lastRun time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(spec string, run RunFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		cron: cron.New(),
		spec: spec,
		run:  run,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	entryID, err := s.cron.AddFunc(s.spec, func() { _ = s.refresh() })
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true
	s.stopped = false

	logrus.Infof("Scheduler started with schedule: %s", s.spec)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	ctx := s.cron.Stop()
	s.cron.Remove(s.entryID)
	s.isRunning = false
	s.stopped = true
	s.mu.Unlock()

	// running refreshes take the lock to publish, so wait without holding it
	select {
	case <-ctx.Done():
		logrus.Info("Scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Scheduler stop timeout, forcing shutdown")
	}
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunOnce refreshes the result immediately (for manual triggering).
// It fails with ErrStopped once Stop has been called.
func (s *Scheduler) RunOnce() error {
	logrus.Info("Running dataset refresh once")
	return s.refresh()
}

// Latest returns the most recent successful result and the error of the
// last attempt, if it failed
func (s *Scheduler) Latest() (*pipeline.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.lastErr
}

// GetNextRun returns the time of the next scheduled run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// GetLastRun returns the time of the last refresh attempt
func (s *Scheduler) GetLastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// Wait waits for in-flight refreshes to finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// refresh runs the pipeline and publishes the result. In-flight refreshes
// are registered under the lock so Wait never races a late Add.
func (s *Scheduler) refresh() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		logrus.Warn("Scheduler is stopped, skipping dataset refresh")
		return ErrStopped
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	start := time.Now()
	res, err := s.run()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastRun = start
	s.lastErr = err
	if err != nil {
		logrus.Errorf("Dataset refresh failed: %v", err)
		return err
	}
	s.latest = res

	logrus.Infof("Dataset refresh completed in %v", time.Since(start))
	return nil
}
