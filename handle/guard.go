package handle

import "sync/atomic"

// Guard state machine values.
const (
	stateAlive uint32 = iota
	stateReleased
)

// Guard binds one handle to a deterministic release path.
//
// Host runtimes with non-deterministic finalization cannot promise that
// an explicit dispose call and a finalizer will not both run; the guard
// absorbs that by making the Alive -> Released transition an atomic
// single-writer-wins step. Exactly one caller performs the physical
// release; every later (or concurrently losing) caller is a no-op.
type Guard struct {
	release func(Handle)
	handle  Handle
	state   atomic.Uint32
}

// NewGuard wraps h, arranging for release to be invoked at most once.
func NewGuard(h Handle, release func(Handle)) *Guard {
	return &Guard{
		handle:  h,
		release: release,
	}
}

// Handle returns the guarded handle, or 0 once released.
func (g *Guard) Handle() Handle {
	if g.state.Load() != stateAlive {
		return 0
	}
	return g.handle
}

// Alive reports whether the guard still owns its handle.
func (g *Guard) Alive() bool {
	return g.state.Load() == stateAlive
}

// Release invokes the release function exactly once.
// Safe to call from multiple goroutines; losers observe Released and
// return without touching the handle. Never an error to call again.
func (g *Guard) Release() {
	if !g.state.CompareAndSwap(stateAlive, stateReleased) {
		return
	}
	if g.release != nil {
		g.release(g.handle)
	}
}
