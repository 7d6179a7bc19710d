// Package apperrors defines the sentinel errors shared across service,
// repository and handler layers. Callers match them with errors.Is and
// wrap them with %w to add context.
package apperrors

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("requested item not found")

	// ErrValidation indicates the input failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate indicates an entity with the same identity already exists.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrFatalParse indicates a source document could not be parsed at all;
	// the file is skipped and the defect recorded, but the run continues.
	ErrFatalParse = errors.New("fatal parse failure")

	// ErrCacheFailure indicates the parse cache could not be read or
	// written. Cache failures degrade to a miss, never to an import error.
	ErrCacheFailure = errors.New("cache failure")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = errors.New("internal error")
)
