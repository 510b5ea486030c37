package engine

import (
	"errors"

	"github.com/HendryAvila/compass/internal/pattern"
	"github.com/HendryAvila/compass/internal/phase"
	"github.com/HendryAvila/compass/internal/project"
)

// Kind classifies an operation failure. Transport adapters branch on it
// when choosing how to present the failure to the caller.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindPreconditionFailed Kind = "precondition_failed"
	KindAlreadyExists      Kind = "already_exists"
	KindInvalidInput       Kind = "invalid_input"
	KindStorageFailure     Kind = "storage_failure"
)

// Error is the structured failure every engine operation returns.
// Message names what went wrong; Next, when set, names the action that
// would let the operation succeed.
type Error struct {
	Kind    Kind
	Message string
	Next    string
}

func (e *Error) Error() string {
	if e.Next != "" {
		return e.Message + "; next: " + e.Next
	}
	return e.Message
}

// KindOf extracts the failure kind from an error, or "" when the error
// did not come from the engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// invalid builds an input-validation failure.
func invalid(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// precondition builds a phase-gate failure with its remedy.
func precondition(message, next string) *Error {
	return &Error{Kind: KindPreconditionFailed, Message: message, Next: next}
}

// wrap maps errors from the leaf packages onto the taxonomy. Anything
// unrecognized is a storage failure: the call touched the filesystem
// and cannot be retried blindly.
func wrap(err error) error {
	if err == nil {
		return nil
	}

	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr
	}

	var gate *phase.GateError
	if errors.As(err, &gate) {
		return &Error{Kind: KindPreconditionFailed, Message: gate.Condition, Next: gate.Remedy}
	}

	switch {
	case errors.Is(err, project.ErrNotFound), errors.Is(err, pattern.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: err.Error()}
	case errors.Is(err, project.ErrExists):
		return &Error{Kind: KindAlreadyExists, Message: err.Error()}
	case errors.Is(err, phase.ErrNoSpecification):
		return &Error{
			Kind:    KindPreconditionFailed,
			Message: err.Error(),
			Next:    "generate a specification document first",
		}
	}

	return &Error{Kind: KindStorageFailure, Message: err.Error()}
}
