package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInputsDisabled is returned when a field edit arrives while a submission is in progress
// or its confirmation is still on display.
var ErrInputsDisabled = errors.New("form inputs are disabled")

// ErrSubmissionInFlight is returned when a submit arrives while the form is not idle.
var ErrSubmissionInFlight = errors.New("submission already in progress")

// ErrUnknownField is returned for a field name that is not part of the contact form.
var ErrUnknownField = errors.New("unknown form field")

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)
