package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyTitle    = errors.New("please enter a title")
	ErrInvalid       = errors.New("invalid input")
	ErrInvalidPath   = errors.New("invalid navigation path")
	ErrWrongTaxonomy = errors.New("operation not available for the active taxonomy")
	ErrUnavailable   = errors.New("unavailable")
)
