package sched

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/async-bridge/errors"
)

const (
	// DefaultQueueDepth bounds the submission queue when Config leaves it zero.
	DefaultQueueDepth = 1024
)

// Config controls scheduler construction.
type Config struct {
	// Workers is the number of worker goroutines. Zero means GOMAXPROCS.
	Workers int

	// QueueDepth is the submission queue capacity. Zero means DefaultQueueDepth.
	QueueDepth int
}

// Scheduler is a multi-threaded executor for submitted jobs.
//
// Jobs run on a fixed pool of worker goroutines under the scheduler's
// base context. Close cancels the base context and then blocks until
// every accepted job has finished, so no job is ever abandoned while
// still touching scheduler-owned state.
type Scheduler struct {
	jobs   chan func(context.Context)
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool

	active    atomic.Int64
	completed atomic.Int64
}

// New allocates a scheduler and starts its workers.
//
// Construction is atomic: invalid configuration is rejected before any
// goroutine or channel exists, so a creation failure leaves nothing to
// clean up.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Workers < 0 {
		return nil, errors.CreationFailed("worker count must not be negative", nil)
	}
	if cfg.QueueDepth < 0 {
		return nil, errors.CreationFailed("queue depth must not be negative", nil)
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := cfg.QueueDepth
	if depth == 0 {
		depth = DefaultQueueDepth
	}

	base, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		jobs:   make(chan func(context.Context), depth),
		base:   base,
		cancel: cancel,
	}

	Logger().Debug("scheduler started",
		zap.Int("workers", workers),
		zap.Int("queue_depth", depth))

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s, nil
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for job := range s.jobs {
		s.active.Add(1)
		job(s.base)
		s.active.Add(-1)
		s.completed.Add(1)
	}
}

// Submit hands a job to the pool without blocking the caller.
// Returns a shutdown error after Close has begun, and a queue-full
// error when the submission queue is saturated.
func (s *Scheduler) Submit(job func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.Shutdown(errors.PhaseSubmit)
	}

	select {
	case s.jobs <- job:
		return nil
	default:
		return errors.QueueFull(cap(s.jobs))
	}
}

// Context returns the scheduler's base context. It is cancelled when
// Close begins; jobs derive their own contexts from it.
func (s *Scheduler) Context() context.Context {
	return s.base
}

// Close shuts the scheduler down. It cancels the base context as a
// cooperative stop signal, then blocks until all workers have drained
// the queue and finished. Queued jobs still run; they observe the
// cancelled context at their first checkpoint. Idempotent.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.wg.Wait()
		return
	}
	s.closed = true
	s.cancel()
	close(s.jobs)
	s.mu.Unlock()

	s.wg.Wait()
	Logger().Debug("scheduler stopped",
		zap.Int64("completed", s.completed.Load()))
}
