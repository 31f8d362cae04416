// Package common defines shared constants and sentinel errors used across
// nearwave components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors never reach the network; the wrapped message is
	// intended to be shown to the user as-is.
	ErrValidation = errors.New("validation error")

	// Remote transport/service failures. The directory and follow caches
	// keep their last-known-good contents when an operation fails with this.
	ErrUnavailable = errors.New("service unavailable")

	// ErrToggleInFlight is returned when a follow toggle is requested for a
	// target that already has a toggle awaiting remote confirmation.
	ErrToggleInFlight = errors.New("toggle already in flight")
)
