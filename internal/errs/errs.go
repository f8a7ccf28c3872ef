// Package errs provides the typed errors used across the recommendation
// pipeline. Each error carries a kind so callers can distinguish fatal
// startup conditions from per-request failures.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind string

const (
	// KindConfiguration covers missing or invalid static assets such as
	// the knowledge base file, persisted index artifacts or credentials.
	// Fatal at startup.
	KindConfiguration Kind = "configuration"

	// KindNotFound covers unknown customer identifiers. Recoverable
	// per-request.
	KindNotFound Kind = "not_found"

	// KindModelLoad covers an unavailable embedding or generation model.
	// Fatal at startup.
	KindModelLoad Kind = "model_load"

	// KindGeneration covers failures of the external generation call.
	// Surfaced per-request; never silently replaced by a default.
	KindGeneration Kind = "generation"
)

// Error is an application error with a kind, a message and an optional
// wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap supports errors.Is and errors.As on the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// Configuration creates a configuration error.
func Configuration(err error, format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Msg: fmt.Sprintf(format, args...), Err: err}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// ModelLoad creates a model-load error.
func ModelLoad(err error, format string, args ...any) *Error {
	return &Error{Kind: KindModelLoad, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Generation creates a generation error.
func Generation(err error, format string, args ...any) *Error {
	return &Error{Kind: KindGeneration, Msg: fmt.Sprintf(format, args...), Err: err}
}

func isKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return isKind(err, KindConfiguration) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsModelLoad reports whether err is a model-load error.
func IsModelLoad(err error) bool { return isKind(err, KindModelLoad) }

// IsGeneration reports whether err is a generation error.
func IsGeneration(err error) bool { return isKind(err, KindGeneration) }
