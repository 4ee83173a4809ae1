package domain

import "errors"

// Error classes shared by every bounded context. Context-specific errors wrap
// one of these so callers can classify them with errors.Is.
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInsufficientCandidates = errors.New("insufficient candidates")
	ErrConflict               = errors.New("concurrent modification")
	ErrForbidden              = errors.New("forbidden")
)
