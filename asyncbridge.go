package asyncbridge

import "context"

// Operation is a unit of work submitted across the boundary.
// The descriptor carried inside it is opaque to this module; the
// application protocol layer decides what an operation actually does.
//
// Run executes on a scheduler worker goroutine. The supplied context is
// cancelled when the operation is cancelled or its owning context shuts
// down; implementations must treat ctx.Done() as their cancellation
// checkpoint. Returning ctx.Err() after the signal fired resolves the
// task as cancelled.
type Operation interface {
	Run(ctx context.Context) (any, error)
}

// OperationFunc adapts a plain function to the Operation interface.
type OperationFunc func(ctx context.Context) (any, error)

func (f OperationFunc) Run(ctx context.Context) (any, error) {
	return f(ctx)
}
