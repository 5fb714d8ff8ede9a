package service

import "errors"

var (
	// ErrUnauthorized covers both a missing caller identity and an identity
	// that does not own the target integration.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the integration id did not resolve.
	ErrNotFound = errors.New("integration not found")
)
