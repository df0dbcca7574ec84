// Package scheduler wires up the cron jobs that drive the background loops:
// vacancy sync, survey-question sync, and notification cycles.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"hirepulse/internal/infrastructure/cache"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one periodic task. Run receives the scheduler's base context and
// must not panic its way out (the wrapper recovers anyway).
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context)
}

// Scheduler wraps robfig/cron. Jobs are registered up front; Start builds a
// fresh cron each time so a stopped scheduler can be started again. Every
// job carries its own overlap guard: an in-process flag plus a Redis lease,
// so a slow cycle never runs concurrently with its own next firing.
type Scheduler struct {
	mu       sync.Mutex
	jobs     []Job
	cron     *cron.Cron
	cancel   context.CancelFunc
	leases   *cache.Redis
	leaseTTL time.Duration
	log      *zap.Logger
}

func New(leases *cache.Redis, leaseTTL time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{leases: leases, leaseTTL: leaseTTL, log: log}
}

// Register adds a job. Must be called before Start; registering while the
// scheduler is running has no effect until the next Start.
func (s *Scheduler) Register(name, spec string, run func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, Job{Name: name, Spec: spec, Run: run})
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New()

	for _, job := range s.jobs {
		wrapped := s.guarded(runCtx, job)
		if _, err := c.AddFunc(job.Spec, wrapped); err != nil {
			cancel()
			return fmt.Errorf("register job %s (%q): %w", job.Name, job.Spec, err)
		}
	}

	c.Start()
	s.cron = c
	s.cancel = cancel
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels future firings. In-flight job runs are not interrupted
// beyond the context cancellation they observe themselves.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return
	}
	s.cron.Stop()
	s.cron = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) guarded(ctx context.Context, job Job) func() {
	var running atomic.Bool
	return func() {
		if !running.CompareAndSwap(false, true) {
			s.log.Warn("job still running, skipping trigger", zap.String("job", job.Name))
			return
		}
		defer running.Store(false)

		if s.leases != nil {
			if !s.leases.AcquireLease(ctx, job.Name, s.leaseTTL) {
				s.log.Warn("job lease held elsewhere, skipping trigger", zap.String("job", job.Name))
				return
			}
			defer s.leases.ReleaseLease(ctx, job.Name)
		}

		defer func() {
			if r := recover(); r != nil {
				s.log.Error("job panicked", zap.String("job", job.Name), zap.Any("panic", r))
			}
		}()

		started := time.Now()
		job.Run(ctx)
		s.log.Debug("job finished",
			zap.String("job", job.Name),
			zap.Duration("took", time.Since(started)),
		)
	}
}
