package service

import (
	"errors"
	"fmt"
)

// UpstreamReason classifies why a vision analysis call failed.
type UpstreamReason string

const (
	ReasonUnsupportedFormat UpstreamReason = "unsupported-format"
	ReasonRateLimited       UpstreamReason = "rate-limited"
	ReasonTimeout           UpstreamReason = "timeout"
	ReasonContentPolicy     UpstreamReason = "content-policy"
	ReasonMalformedResponse UpstreamReason = "malformed-response"
)

// InputError is a caller mistake: bad image, oversized upload, invalid
// profile fields. It maps to a 4xx response.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewInputError creates an InputError for the given field.
func NewInputError(field, message string) *InputError {
	return &InputError{Field: field, Message: message}
}

// UpstreamError is a failure of the vision provider. Analysis never
// substitutes fabricated nutrition data for one of these; the caller
// gets the error and nothing is persisted.
type UpstreamError struct {
	Reason UpstreamReason
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vision provider failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("vision provider failed (%s)", e.Reason)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError wraps err with an upstream failure reason.
func NewUpstreamError(reason UpstreamReason, err error) *UpstreamError {
	return &UpstreamError{Reason: reason, Err: err}
}

// PersistenceError is a database or cache write failure after a
// successful analysis.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// IsInputError reports whether err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// IsUpstreamError reports whether err is (or wraps) an UpstreamError,
// returning it when so.
func IsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
