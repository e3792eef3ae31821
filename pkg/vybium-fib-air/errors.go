package vybiumfibair

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/fibonacci"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/protocols"
)

// ErrorCode represents a Fibonacci AIR error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrInvalidLength represents a trace length that is not a positive power of two
	ErrInvalidLength

	// ErrTraceMismatch represents a trace whose first or last row disagrees
	// with the public inputs
	ErrTraceMismatch

	// ErrConstraintDegreeExceeded represents a constraint declared above the
	// configured degree bound
	ErrConstraintDegreeExceeded

	// ErrProofGeneration represents a proof generation error
	ErrProofGeneration

	// ErrProofVerification represents a proof verification error
	ErrProofVerification
)

// String returns the name of the code
func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrInvalidLength:
		return "InvalidLength"
	case ErrTraceMismatch:
		return "TraceMismatch"
	case ErrConstraintDegreeExceeded:
		return "ConstraintDegreeExceeded"
	case ErrProofGeneration:
		return "ProofGeneration"
	case ErrProofVerification:
		return "ProofVerification"
	default:
		return "Unknown"
	}
}

// FibError represents a Fibonacci AIR error
type FibError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *FibError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-fib-air error [%s]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-fib-air error [%s]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *FibError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *FibError) Is(target error) bool {
	t, ok := target.(*FibError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the code of the first FibError in err's chain, or ErrUnknown.
func CodeOf(err error) ErrorCode {
	var fe *FibError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ErrUnknown
}

// wrapError classifies err by the sentinel it wraps, falling back to code.
func wrapError(code ErrorCode, message string, err error) *FibError {
	switch {
	case errors.Is(err, fibonacci.ErrInvalidLength):
		code = ErrInvalidLength
	case errors.Is(err, fibonacci.ErrTraceMismatch):
		code = ErrTraceMismatch
	case errors.Is(err, protocols.ErrConstraintDegreeExceeded):
		code = ErrConstraintDegreeExceeded
	}
	return &FibError{Code: code, Message: message, Cause: err}
}
