package domain

import "errors"

var (
	// ErrUnauthenticated covers requests that never produced a usable
	// principal: missing header, garbled or expired token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized covers structurally valid tokens that are revoked or
	// whose role is not admitted by the resource's policy.
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrLimitExceeded    = errors.New("limit exceeded")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	// ErrInfrastructure marks token store or database failures. It must stay
	// distinguishable from the auth errors above so an unreachable store
	// rejects with a server error instead of a misleading 401.
	ErrInfrastructure = errors.New("infrastructure failure")
)
