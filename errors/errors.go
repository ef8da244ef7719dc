package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which boundary operation the error occurred in
type Phase string

const (
	PhaseCreate  Phase = "create"  // context construction
	PhaseSubmit  Phase = "submit"  // operation submission
	PhaseCancel  Phase = "cancel"  // cancellation requests
	PhaseRun     Phase = "run"     // operation execution
	PhaseDeliver Phase = "deliver" // outcome delivery
	PhaseDestroy Phase = "destroy" // context teardown
)

// Kind categorizes the error
type Kind string

const (
	KindCreationFailed  Kind = "creation_failed"
	KindContextGone     Kind = "context_gone"
	KindInvalidHandle   Kind = "invalid_handle"
	KindTaskNotFound    Kind = "task_not_found"
	KindOperationFailed Kind = "operation_failed"
	KindCancelled       Kind = "cancelled"
	KindTimeout         Kind = "timeout"
	KindInvalidInput    Kind = "invalid_input"
	KindQueueFull       Kind = "queue_full"
	KindShutdown        Kind = "shutdown"
	KindPanic           Kind = "panic"
)

// Error is the structured error type delivered across the boundary.
// It carries only host-decodable fields: a phase, a kind, a detail
// message, and an optional cause chain. No raw internal state crosses.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name the error is attributed to
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// CreationFailed creates a context construction error
func CreationFailed(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindCreationFailed,
		Detail: detail,
		Cause:  cause,
	}
}

// ContextGone creates a lifecycle misuse error for a destroyed context
func ContextGone(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindContextGone,
		Detail: "context has been destroyed",
	}
}

// InvalidHandle creates an unknown handle error
func InvalidHandle(phase Phase, handle uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("handle %d does not identify a live context", handle),
		Value:  handle,
	}
}

// TaskNotFound creates an unknown task error
func TaskNotFound(phase Phase, id uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTaskNotFound,
		Detail: fmt.Sprintf("task %d not found", id),
		Value:  id,
	}
}

// OperationFailed wraps an operation's own failure for delivery
func OperationFailed(op string, cause error) *Error {
	return &Error{
		Phase: PhaseRun,
		Kind:  KindOperationFailed,
		Op:    op,
		Cause: cause,
	}
}

// Cancelled creates a cancellation marker error
func Cancelled(op string) *Error {
	return &Error{
		Phase: PhaseRun,
		Kind:  KindCancelled,
		Op:    op,
	}
}

// Timeout creates a deadline-expiry error
func Timeout(op string, detail string) *Error {
	return &Error{
		Phase:  PhaseRun,
		Kind:   KindTimeout,
		Op:     op,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// QueueFull creates a saturation error for a full submission queue
func QueueFull(depth int) *Error {
	return &Error{
		Phase:  PhaseSubmit,
		Kind:   KindQueueFull,
		Detail: fmt.Sprintf("submission queue full (depth %d)", depth),
		Value:  depth,
	}
}

// Shutdown creates a scheduler shutdown error
func Shutdown(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindShutdown,
		Detail: "scheduler is shut down",
	}
}

// Panicked wraps a recovered panic value from an operation body
func Panicked(op string, recovered any) *Error {
	return &Error{
		Phase:  PhaseRun,
		Kind:   KindPanic,
		Op:     op,
		Detail: fmt.Sprintf("operation panicked: %v", recovered),
		Value:  recovered,
	}
}
