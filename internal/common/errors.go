package common

import "errors"

// Business logic errors
var (
	// Migration request errors
	ErrRequestNotFound   = errors.New("migration request not found")
	ErrRequestInProgress = errors.New("migration already in progress")
	ErrInvalidTransition = errors.New("invalid migration status transition")
	ErrMalformedRecord   = errors.New("malformed migration request record")

	// Feed errors
	ErrFetchInFlight = errors.New("feed fetch already in flight")
	ErrNoSession     = errors.New("no feed session")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)
