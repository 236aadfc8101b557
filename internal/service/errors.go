package service

import "errors"

var (
	// ErrInvalidCount means the requested quantity violates available stock
	// or the product's configured min/max sell counts. Nothing was written.
	ErrInvalidCount = errors.New("invalid count")

	// ErrNotAuthorized means the caller's role does not permit the operation.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrDuplicateRequest means the idempotency key was already used.
	ErrDuplicateRequest = errors.New("idempotent key already exists")
)
