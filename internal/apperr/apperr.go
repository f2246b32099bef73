// Package apperr holds the error taxonomy shared by the engine and the HTTP layer.
//
// Kinds are sentinels; callers classify with errors.Is. User-facing failures are
// *Error values whose message is safe to show verbatim to the person who
// triggered them.
package apperr

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrMissingEvidence     = errors.New("missing evidence")
	ErrConflict            = errors.New("conflict")
	ErrExternalUnavailable = errors.New("external surface unavailable")
)

// Error is an expected, user-facing outcome of a given kind.
type Error struct {
	Kind error
	Msg  string
}

func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// IsUserFacing reports whether err is one of the kinds that are returned to
// the submitter as-is and never logged as errors.
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrMissingEvidence)
}

var (
	ErrNoActiveEvent     = New(ErrNotFound, "there is no open event right now")
	ErrEventNotFound     = New(ErrNotFound, "event not found")
	ErrCatchNotFound     = New(ErrNotFound, "catch not found")
	ErrNoConfig          = New(ErrNotFound, "this community has not been configured yet")
	ErrEventStillOpen    = New(ErrInvalidInput, "event is still open")
	ErrEmptyEventName    = New(ErrInvalidInput, "event name is required")
	ErrInvalidWeight     = New(ErrInvalidInput, "weight must be a positive number")
	ErrInvalidPeriod     = New(ErrInvalidInput, "period must look like 2024-06 (month) or 2024 (year)")
	ErrInvalidTransition = New(ErrInvalidInput, "only pending catches can be approved or rejected")
	ErrInvalidStatus     = New(ErrInvalidInput, "status must be approved or rejected")
	ErrWrongChannel      = New(ErrInvalidInput, "catches are only accepted in the submission channel")
	ErrMissingUpload     = New(ErrMissingEvidence, "post a photo of your catch in this channel first, then submit the weight")
)
