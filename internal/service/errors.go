package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// The API layer maps them to HTTP status codes.
var (
	// ErrInvalidCredentials indicates an unknown username or a wrong password.
	// The two cases are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionsDisabled indicates a session operation on a service built
	// without a session store.
	ErrSessionsDisabled = errors.New("session authentication is not enabled")
)
