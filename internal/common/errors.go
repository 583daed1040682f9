package common

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrLoginRequired is returned when an action needs an authenticated session
	// and none is present. No request is issued in that case.
	ErrLoginRequired = errors.New("login required")

	// ErrInvalidTransition is returned for application status changes other than
	// PENDING -> APPROVED and PENDING -> REJECTED.
	ErrInvalidTransition = errors.New("invalid status transition")
)
