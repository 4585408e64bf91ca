package store

import "errors"

// Error Handling Guidelines:
// - Stores: Use fmt.Errorf("context: %w", err) for wrapping errors
// - Handlers: Use apperrors.* functions for HTTP-appropriate errors

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a conflict, e.g., creating a guild whose id already exists.
	ErrConflict = errors.New("conflict")
)
