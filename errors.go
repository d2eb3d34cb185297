// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import (
	"errors"
	"fmt"
)

// Code classifies an [Error] into a small, closed taxonomy.
type Code int

const (
	// CodeBadArg indicates a null or structurally invalid input from the
	// caller (missing device, missing callback, non-unique poll key, timer
	// with no timeout).
	CodeBadArg Code = iota + 1
	// CodeBug indicates an invariant violation, e.g. a packet path reached
	// with no session, or a driver missing a required capability. These
	// represent integrator errors, not caller errors.
	CodeBug
	// CodeGeneric wraps propagated driver or transform failures: config
	// commit, acquisition start, trigger validation, a transform returning
	// a negative status, or a poll failure other than EINTR.
	CodeGeneric
	// CodeNotFound names the case of Session.RemoveSource being called with
	// a key not present in the registry. RemoveSource logs that case as a
	// warning and returns nothing, so this package never produces an error
	// with this code; it remains valid for [errors.Is] comparisons.
	CodeNotFound
	// CodeMallocFailure is reserved for allocation-failure paths inherited
	// from the abstract error code list; Go's allocator panics rather than
	// returning an error, so this code is never produced by this package,
	// but remains valid for [errors.Is] comparisons against codes
	// synthesized by callers bridging a C API.
	CodeMallocFailure
)

// String returns a short, lowercase label for the code.
func (c Code) String() string {
	switch c {
	case CodeBadArg:
		return "bad_arg"
	case CodeBug:
		return "bug"
	case CodeGeneric:
		return "generic"
	case CodeNotFound:
		return "not_found"
	case CodeMallocFailure:
		return "malloc_failure"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error is the concrete error type returned by this package. A nil error
// return is the success case; there is no exported OK sentinel.
type Error struct {
	Code  Code
	Op    string // the operation that failed, e.g. "Session.AddSource"
	Cause error  // optional wrapped cause
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("acqsession: %s: %s: %v", e.Op, e.Code, e.Cause)
	}
	return fmt.Sprintf("acqsession: %s: %s", e.Op, e.Code)
}

// Unwrap returns the wrapped cause, for use with [errors.Is] and [errors.As].
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Code, so callers can
// write errors.Is(err, &Error{Code: CodeNotFound}) without caring about Op
// or Cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// newErr builds an *Error, wrapping cause if non-nil.
func newErr(op string, code Code, cause error) *Error {
	return &Error{Code: code, Op: op, Cause: cause}
}

// Sentinel comparison targets for the common codes; use with errors.Is.
var (
	ErrBadArg        = &Error{Code: CodeBadArg}
	ErrBug           = &Error{Code: CodeBug}
	ErrGeneric       = &Error{Code: CodeGeneric}
	ErrNotFound      = &Error{Code: CodeNotFound}
	ErrMallocFailure = &Error{Code: CodeMallocFailure}
)
