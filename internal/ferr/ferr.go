// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ferr defines the typed error kinds returned by the analysis
// core. The source system propagated failures as exceptions; here every
// fatal condition is a typed, pattern-matchable error instead (see the
// "exceptions for control flow" redesign note).
package ferr

import "fmt"

// Kind identifies the domain error returned by a run.
type Kind string

// Error kinds surfaced by the core. The job host decides retry policy;
// the core never retries internally beyond the Cholesky->LDLT numerical
// fall-back described in the static solver.
const (
	ModelMissing      Kind = "ModelMissing"      // referenced entity absent
	ModelInconsistent Kind = "ModelInconsistent" // dangling refs, bad properties, degenerate element
	UnsupportedAnalysis Kind = "UnsupportedAnalysis"
	Singular          Kind = "Singular"       // system matrix non-factorable / mechanism
	EigenNoConverge   Kind = "EigenNoConverge"
	Cancelled         Kind = "Cancelled"
	Timeout           Kind = "Timeout"
	StoreFailure      Kind = "StoreFailure"
)

// Error is the error type returned by every exported entry point of the
// core. Wrap lower-level errors with Wrap to keep the Kind visible to
// callers while preserving the original cause for logs.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with the given kind and formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that carries kind while preserving cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	fe, ok := err.(*Error)
	if !ok {
		return false
	}
	return fe.Kind == kind
}

// KindOf extracts the Kind carried by err, or ModelInconsistent if err
// was not produced by this package (it should always have been, but the
// runner records something plausible rather than panicking on a
// programmer error while reporting an unrelated failure).
func KindOf(err error) Kind {
	if fe, ok := err.(*Error); ok {
		return fe.Kind
	}
	return ModelInconsistent
}
