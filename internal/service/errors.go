package service

import "errors"

var (
	// ErrValidation marks malformed or missing input. Nothing is persisted
	// when it fires.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized marks an authenticated caller with insufficient
	// permission. Deliberately distinct from ErrNotFound for a
	// found-but-forbidden order.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrConflict marks an operation that violates the current state of the
	// order, e.g. cancelling one already being prepared.
	ErrConflict = errors.New("conflict with current order state")

	// ErrDependency marks a collaborator call that failed or timed out.
	ErrDependency = errors.New("dependency failure")
)
