// Package wgerr defines the closed taxonomy of error kinds wenget's
// subsystems return, so callers at the CLI boundary can branch on kind
// rather than parsing message text.
package wgerr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	NoMatch           Kind = "no_match"
	NeedsConfirm      Kind = "needs_confirm"
	RateLimited       Kind = "rate_limited"
	NetworkTransient  Kind = "network_transient"
	NetworkFatal      Kind = "network_fatal"
	ArchiveCorrupt    Kind = "archive_corrupt"
	ConflictingCommand Kind = "conflicting_command"
	NotFound          Kind = "not_found"
	StatePersist      Kind = "state_persist"
	Privilege         Kind = "privilege"
	Repairable        Kind = "repairable"
)

// Error is a wgerr-tagged error carrying the kind, an optional subject
// (package name, path, URL) identifying what the error is about, and the
// wrapped cause.
type Error struct {
	Kind    Kind
	Subject string
	Cause   error
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Subject, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Subject)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs a wgerr.Error with no wrapped cause.
func New(kind Kind, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

// Wrap constructs a wgerr.Error wrapping cause; returns nil if cause is nil.
func Wrap(kind Kind, subject string, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Subject: subject, Cause: cause}
}

// Is reports whether err (or anything it wraps) is a wgerr.Error of kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind from err if it is a wgerr.Error, ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// RetryAfterSeconds, when set on a RateLimited error's Subject-adjacent
// context, is carried via RateLimitError instead of the plain Error so
// retry logic can read it without string parsing.
type RateLimitError struct {
	Err               *Error
	RetryAfterSeconds int
}

func NewRateLimited(subject string, retryAfterSeconds int) *RateLimitError {
	return &RateLimitError{
		Err:               &Error{Kind: RateLimited, Subject: subject},
		RetryAfterSeconds: retryAfterSeconds,
	}
}

func (e *RateLimitError) Error() string { return e.Err.Error() }

func (e *RateLimitError) Unwrap() error { return e.Err }
