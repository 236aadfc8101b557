package repository

import "errors"

var (
	// ErrNotFound means a referenced product, option or order does not exist.
	ErrNotFound = errors.New("not found")

	// ErrWriteConflict means a conditional write affected zero rows because a
	// concurrent writer got there first. The whole operation is safe to retry
	// from the top; nothing was committed.
	ErrWriteConflict = errors.New("write conflict")

	// ErrInvalidTransition means a status change did not match the line's
	// current state. Nothing was written.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNoRowsAffected means an unconditional write that was expected to
	// succeed affected zero rows. The enclosing transaction is aborted.
	ErrNoRowsAffected = errors.New("no rows affected")
)
