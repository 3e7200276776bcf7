package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrInconsistentFacts     = errors.New("inconsistent facts")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
