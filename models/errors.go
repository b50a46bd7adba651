package models

import "errors"

// Sentinel errors shared across services and repositories. Service errors
// either are one of these or wrap one, so callers can match with errors.Is
// and surface a short machine-readable reason.
var (
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a create with a duplicate id.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates the caller is not the owner, an admin, or
	// an authorized settler for the requested operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPaused indicates the system-wide pause flag is set.
	ErrPaused = errors.New("paused")

	// ErrReentrancy indicates the reentrancy gate was already held on entry.
	ErrReentrancy = errors.New("reentrant call")

	// ErrInvalidState indicates the entity is not in a state that permits
	// the requested transition (closing a closed pool, acting on a finished
	// battle, claiming twice, and so on).
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidArgument indicates a validation failure on the inputs.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientFunds indicates an asset transfer could not be funded.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrArithmetic indicates settlement math hit an impossible state, such
	// as a claim against a pool with zero winning-side stake.
	ErrArithmetic = errors.New("arithmetic error")
)
