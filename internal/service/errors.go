// Package service provides business logic services for Inkpress.
package service

import "errors"

// Common service errors. Business rule violations live in the domain
// package; these cover the service layer's own failure modes.
var (
	// ErrInternalError wraps unexpected infrastructure failures so that
	// handlers can map them to a generic 500 without leaking details.
	ErrInternalError = errors.New("internal server error")

	// ErrUsernameLocked indicates the username critical section could not
	// be entered because another request holds it.
	ErrUsernameLocked = errors.New("username is being registered by another request")
)
