package bridge

import (
	"context"
	"sync/atomic"

	"github.com/wippyai/async-bridge/errors"
)

// Status is a task's lifecycle state.
type Status uint8

const (
	StatusPending Status = iota
	StatusRunning
	StatusCompleted
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a final state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Outcome is the terminal result of a task: a success payload, a
// structured error, or a cancellation marker. Exactly one Outcome is
// produced per task.
type Outcome struct {
	Value  any
	Err    *errors.Error
	Status Status
}

func completed(value any) Outcome {
	return Outcome{Status: StatusCompleted, Value: value}
}

func failed(err *errors.Error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

func cancelled(op string) Outcome {
	return Outcome{Status: StatusCancelled, Err: errors.Cancelled(op)}
}

// Future is the per-task outcome surface handed to the submitter.
//
// Delivery happens on whichever worker goroutine finished the task; the
// future itself is the thread-safe hop across the boundary, so no
// host-thread affinity is assumed. The outcome is published before the
// done channel closes, and the delivered flag makes publication
// exactly-once even when completion races cancellation.
//
// Outcome storage lives on the future, not in the context's task table;
// a future the host never awaits is reclaimed by the garbage collector
// as soon as the host drops its reference.
type Future struct {
	out       Outcome
	done      chan struct{}
	delivered atomic.Bool
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// complete publishes the outcome. Only the first caller wins; later
// calls report false and deliver nothing.
func (f *Future) complete(out Outcome) bool {
	if !f.delivered.CompareAndSwap(false, true) {
		return false
	}
	f.out = out
	close(f.done)
	return true
}

// Done returns a channel closed once the outcome is delivered.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Poll returns the outcome without blocking. The second return is false
// while the task is still in flight.
func (f *Future) Poll() (Outcome, bool) {
	select {
	case <-f.done:
		return f.out, true
	default:
		return Outcome{}, false
	}
}

// Await blocks until the outcome is delivered or ctx is done. The
// caller's ctx only bounds the wait; it does not cancel the task.
func (f *Future) Await(ctx context.Context) (Outcome, error) {
	select {
	case <-f.done:
		return f.out, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
