// Package errors provides structured error types for the async-bridge library.
//
// Errors are categorized by Phase (which boundary operation failed) and Kind
// (error category). The Error type carries only fields a host runtime can
// decode without native-specific knowledge: kind, message, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSubmit, errors.KindContextGone).
//		Op("derive-secrets").
//		Detail("submitted after destroy").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ContextGone(errors.PhaseSubmit)
//	err := errors.OperationFailed("fetch", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
