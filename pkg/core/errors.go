package core

import "errors"

// Common errors.
var (
	ErrNotFound   = errors.New("record not found")
	ErrReadOnly   = errors.New("service is in read-only mode")
	ErrValidation = errors.New("validation failed")
)
