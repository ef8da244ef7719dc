// Package bridge implements the async execution context and its
// outcome-delivery machinery.
//
// A Context owns a multi-threaded scheduler and a table of in-flight
// tasks. Spawn registers an operation as a Pending task and returns a
// task id and Future immediately; the operation runs on a worker
// goroutine and moves through Pending -> Running -> one of Completed,
// Failed, or Cancelled. Exactly one Outcome per task is delivered on
// its Future, from whichever goroutine finished the task.
//
// # Cancellation
//
// Cancellation is cooperative. Cancel marks the task's context done;
// the operation body decides at its next checkpoint. A request that
// arrives after the operation committed to completion loses the race
// and the real outcome is reported. Unknown or terminal task ids are
// silently ignored. Timeouts compose from cancellation via CancelAfter;
// there is no built-in per-task deadline.
//
// # Destruction
//
// Close follows the block policy: it signals cancellation to every
// in-flight task and waits for all of them to reach a terminal state
// before returning. Spawns submitted after Close begins are rejected
// with a context-gone error. Close is idempotent and safe to race.
//
// # Boundary Surface
//
// For hosts that address contexts by integer token, the package exposes
// a flat surface over a process-wide handle table: CreateContext,
// DestroyContext, Submit, CancelTask. DestroyContext is idempotent and
// safe to race with finalization; pair it with handle.Guard on the
// host side for exactly-once release.
package bridge
