// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError reports malformed input. Always recoverable by the caller;
// the message is safe to show verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConflictError reports a state conflict: duplicate submission, duplicate
// vote, submission limit reached, illegal status transition.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// RateLimitedError reports a denied call with a hint for when to retry.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter.Round(time.Second))
}

// NotFoundError reports an unknown contest or submission.
type NotFoundError struct {
	Kind string // "contest" or "submission"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// IntegrityError wraps a storage-level constraint violation that does not map
// to a caller mistake. The transaction it occurred in has been rolled back.
// Callers should see a generic failure, not the constraint detail.
type IntegrityError struct {
	Cause error
}

func (e *IntegrityError) Error() string { return "integrity violation: " + e.Cause.Error() }
func (e *IntegrityError) Unwrap() error { return e.Cause }

// TransientError wraps lock contention or an I/O hiccup. The persistence
// engine retries these a bounded number of times before surfacing one.
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string { return "transient storage error: " + e.Cause.Error() }
func (e *TransientError) Unwrap() error { return e.Cause }

// NotAuthorizedError reports a denied authorization decision supplied by the
// command layer's predicate.
type NotAuthorizedError struct {
	Reason string
}

func (e *NotAuthorizedError) Error() string { return e.Reason }

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsRateLimited(err error) (time.Duration, bool) {
	var e *RateLimitedError
	if errors.As(err, &e) {
		return e.RetryAfter, true
	}
	return 0, false
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsNotAuthorized(err error) bool {
	var e *NotAuthorizedError
	return errors.As(err, &e)
}
