package domain

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	// ErrConfig marks webhook settings that are empty or malformed, detected before any network call.
	ErrConfig = errors.New("configuration error")
)
