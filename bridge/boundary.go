package bridge

import (
	asyncbridge "github.com/wippyai/async-bridge"
	"github.com/wippyai/async-bridge/errors"
	"github.com/wippyai/async-bridge/handle"
)

// contexts is the process-wide handle table for boundary callers that
// cannot hold Go pointers. Its lifetime is the process; individual
// contexts come and go through CreateContext/DestroyContext.
var contexts = handle.NewRegistry()

// CreateContext allocates an execution context and returns its handle.
// Creation failures are reported synchronously and leave no state.
func CreateContext() (handle.Handle, error) {
	return CreateContextWith(Config{})
}

// CreateContextWith is CreateContext with explicit configuration.
func CreateContextWith(cfg Config) (handle.Handle, error) {
	c, err := New(cfg)
	if err != nil {
		return 0, err
	}

	h := contexts.Insert(c)
	if h == 0 {
		c.Close()
		return 0, errors.CreationFailed("handle registry closed", nil)
	}
	return h, nil
}

// DestroyContext tears down the context behind h and blocks until all
// of its tasks are terminal. Idempotent: the registry removal succeeds
// exactly once, so repeated or racing calls (including a finalizer
// racing an explicit call) perform a single teardown and the rest are
// silent no-ops.
func DestroyContext(h handle.Handle) {
	v, ok := contexts.Remove(h)
	if !ok {
		return
	}
	v.(*Context).Close()
}

// Submit spawns an operation on the context behind h.
// An unknown or already-destroyed handle yields an invalid-handle error.
func Submit(h handle.Handle, op asyncbridge.Operation) (TaskID, *Future, error) {
	v, ok := contexts.Get(h)
	if !ok {
		return 0, nil, errors.InvalidHandle(errors.PhaseSubmit, uint64(h))
	}
	return v.(*Context).Spawn(op)
}

// CancelTask requests cancellation of a task on the context behind h.
// Best-effort: unknown handles and unknown or terminal task ids are
// silently ignored, and the call always returns without error.
func CancelTask(h handle.Handle, id TaskID) {
	v, ok := contexts.Get(h)
	if !ok {
		return
	}
	v.(*Context).Cancel(id)
}

// LiveContexts returns the number of contexts currently registered at
// the boundary.
func LiveContexts() int {
	return contexts.Len()
}
