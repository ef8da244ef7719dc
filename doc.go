// Package asyncbridge bridges a managed host runtime with a native-style
// multi-threaded asynchronous execution core.
//
// Host-language callers issue long-running operations (network calls,
// cryptographic exchanges, attested remote computations) against an
// execution context identified by an opaque handle. Operations run
// concurrently on the context's scheduler; each produces exactly one
// outcome, delivered through a future the caller holds. Handles are
// released exactly once, even when explicit disposal races host-side
// finalization.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	asyncbridge/    Root package with the Operation boundary type
//	├── bridge/     Async execution context, task table, outcome futures
//	├── sched/      Multi-threaded task scheduler (worker pool)
//	├── handle/     Opaque handle registry and release guard
//	├── errors/     Structured error types for boundary delivery
//	├── kdf/        Versioned HKDF used by protocol-layer operations
//	└── cmd/run/    Demo CLI and interactive task monitor
//
// # Quick Start
//
// Create a context, submit an operation, await its outcome:
//
//	ctx, err := bridge.New(bridge.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	id, fut, err := ctx.Spawn(asyncbridge.OperationFunc(
//	    func(ctx context.Context) (any, error) {
//	        return fetchRemote(ctx)
//	    }))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := fut.Await(context.Background())
//	switch out.Status {
//	case bridge.StatusCompleted:
//	    fmt.Println(out.Value)
//	case bridge.StatusFailed:
//	    fmt.Println(out.Err)
//	case bridge.StatusCancelled:
//	    fmt.Println("cancelled", id)
//	}
//
// # Handle Boundary
//
// Hosts that cannot hold Go pointers use the flat boundary surface:
//
//	h, _ := bridge.CreateContext()
//	guard := handle.NewGuard(h, bridge.DestroyContext)
//	defer guard.Release() // safe to race a finalizer
//
//	id, fut, _ := bridge.Submit(h, op)
//	bridge.CancelTask(h, id) // best-effort, never errors
//
// # Lifecycle Guarantees
//
//   - Every spawned task reaches exactly one terminal state:
//     Completed, Failed, or Cancelled.
//   - Close blocks until all in-flight tasks are terminal; operations
//     submitted afterwards fail with a context-gone error.
//   - A handle guard performs exactly one physical release regardless of
//     how many callers race Release.
//
// Cancellation is cooperative. Cancel requests set the task's context
// done; a task already past its last checkpoint runs to completion and
// reports its real outcome, not a cancellation marker.
package asyncbridge
