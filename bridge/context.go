package bridge

import (
	gocontext "context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	asyncbridge "github.com/wippyai/async-bridge"
	"github.com/wippyai/async-bridge/errors"
	"github.com/wippyai/async-bridge/sched"
)

// TaskID identifies one in-flight operation within its owning Context.
// IDs are unique for the lifetime of the context.
type TaskID uint64

// Config controls context construction.
type Config struct {
	// Scheduler configures the underlying worker pool.
	Scheduler sched.Config
}

type task struct {
	op     asyncbridge.Operation
	cancel gocontext.CancelFunc
	fut    *Future
	id     TaskID
}

// Context owns a task scheduler and a table of in-flight operations.
//
// Operations spawn as independent concurrent tasks; each produces
// exactly one Outcome on its Future. Close applies the block policy:
// it signals cooperative cancellation to every in-flight task through
// the scheduler's base context, then waits until all of them reach a
// terminal state before returning. No task is ever detached onto freed
// state, and no Outcome is delivered after Close returns.
type Context struct {
	id    string
	sched *sched.Scheduler

	mu    sync.Mutex
	tasks map[TaskID]*task

	// lc serializes spawn against destroy: Spawn holds the read side
	// for its whole registration, so once Close holds the write side
	// no spawn is mid-flight and every later spawn observes closed.
	lc     sync.RWMutex
	closed bool

	nextID atomic.Uint64
	once   sync.Once
}

// New allocates a scheduler and an empty task table.
//
// Construction is atomic: a scheduler allocation failure is returned
// synchronously and leaves no partial state behind.
func New(cfg Config) (*Context, error) {
	s, err := sched.New(cfg.Scheduler)
	if err != nil {
		return nil, err
	}

	c := &Context{
		id:    uuid.NewString(),
		sched: s,
		tasks: make(map[TaskID]*task),
	}
	Logger().Debug("context created", zap.String("context_id", c.id))
	return c, nil
}

// ID returns the context's correlation id, used in log fields.
func (c *Context) ID() string {
	return c.id
}

// Spawn submits an operation as a new concurrent task.
//
// It registers the task as Pending, hands it to the scheduler, and
// returns the task id and outcome future immediately; the operation
// runs on a worker goroutine concurrently with the caller. Spawning
// after Close has begun fails with a context-gone error.
func (c *Context) Spawn(op asyncbridge.Operation) (TaskID, *Future, error) {
	c.lc.RLock()
	defer c.lc.RUnlock()

	if c.closed {
		return 0, nil, errors.ContextGone(errors.PhaseSubmit)
	}

	id := TaskID(c.nextID.Add(1))
	runCtx, cancel := gocontext.WithCancel(c.sched.Context())
	t := &task{
		id:     id,
		op:     op,
		cancel: cancel,
		fut:    newFuture(),
	}

	c.mu.Lock()
	c.tasks[id] = t
	c.mu.Unlock()

	if err := c.sched.Submit(func(gocontext.Context) {
		c.run(t, runCtx)
	}); err != nil {
		c.mu.Lock()
		delete(c.tasks, id)
		c.mu.Unlock()
		cancel()

		if stderrors.Is(err, errors.Shutdown(errors.PhaseSubmit)) {
			return 0, nil, errors.ContextGone(errors.PhaseSubmit)
		}
		return 0, nil, err
	}

	Logger().Debug("task spawned",
		zap.String("context_id", c.id),
		zap.Uint64("task_id", uint64(id)))
	return id, t.fut, nil
}

// run executes one task on a worker goroutine and delivers its outcome.
// Per-task failures are isolated: they resolve this task's Outcome and
// never affect the context or sibling tasks.
func (c *Context) run(t *task, runCtx gocontext.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.finish(t, failed(errors.Panicked("operation", r)))
		}
	}()
	defer t.cancel()

	// Cancelled while still Pending: never ran, report cancellation
	// without invoking the operation.
	if runCtx.Err() != nil {
		c.finish(t, cancelled("operation"))
		return
	}

	value, err := t.op.Run(runCtx)
	switch {
	case err == nil:
		// A cancellation request that arrived after the operation
		// committed to completion loses the race.
		c.finish(t, completed(value))
	case runCtx.Err() != nil && stderrors.Is(err, gocontext.Canceled):
		c.finish(t, cancelled("operation"))
	default:
		var be *errors.Error
		if stderrors.As(err, &be) {
			c.finish(t, failed(be))
		} else {
			c.finish(t, failed(errors.OperationFailed("operation", err)))
		}
	}
}

// finish removes the task from the table and delivers its outcome.
// Delivery is exactly-once by construction: only the worker running the
// task calls finish, and the future rejects later completions anyway.
func (c *Context) finish(t *task, out Outcome) {
	c.mu.Lock()
	delete(c.tasks, t.id)
	c.mu.Unlock()

	if !t.fut.complete(out) {
		// Two terminal deliveries for one task means the table
		// discipline is broken; treat as a programming defect.
		panic("bridge: duplicate outcome delivery for task")
	}

	Logger().Debug("task finished",
		zap.String("context_id", c.id),
		zap.Uint64("task_id", uint64(t.id)),
		zap.String("status", out.Status.String()))
}

// Cancel requests cooperative cancellation of a task.
//
// It is advisory: the task's context is cancelled and the operation
// decides at its next checkpoint. A task already past its last
// checkpoint completes normally and reports its real outcome. Unknown
// or already-terminal ids are a no-op, not an error.
func (c *Context) Cancel(id TaskID) {
	c.mu.Lock()
	t := c.tasks[id]
	c.mu.Unlock()

	if t == nil {
		return
	}
	t.cancel()

	Logger().Debug("task cancellation requested",
		zap.String("context_id", c.id),
		zap.Uint64("task_id", uint64(id)))
}

// CancelAfter arranges cancellation of a task once d elapses.
// Timeouts compose from cancellation; there is no per-task deadline.
// The returned stop function releases the timer early.
func (c *Context) CancelAfter(id TaskID, d time.Duration) (stop func() bool) {
	timer := time.AfterFunc(d, func() {
		c.Cancel(id)
	})
	return timer.Stop
}

// InFlight returns the number of non-terminal tasks.
func (c *Context) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// SchedulerStats reports the underlying scheduler's occupancy.
func (c *Context) SchedulerStats() sched.Stats {
	return c.sched.Stats()
}

// Close destroys the context. Exactly one invocation tears it down;
// the rest block until teardown finishes and then return.
//
// Block policy: Close cancels every in-flight task's context as a
// cooperative stop signal and waits for all of them to reach a terminal
// state. Outcomes produced during teardown are still delivered to their
// futures; once Close returns, no task is running and no further
// outcome will ever be delivered.
func (c *Context) Close() {
	c.once.Do(func() {
		c.lc.Lock()
		c.closed = true
		c.lc.Unlock()

		c.sched.Close()

		c.mu.Lock()
		remaining := len(c.tasks)
		c.mu.Unlock()
		if remaining != 0 {
			panic("bridge: task table not empty after scheduler drain")
		}

		Logger().Debug("context destroyed", zap.String("context_id", c.id))
	})
}

// Drop implements handle.Dropper so a handle registry shutdown tears
// the context down.
func (c *Context) Drop() {
	c.Close()
}
