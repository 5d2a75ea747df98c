package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrInvalidEvent = errors.New("invalid event")
	ErrInvalidPath  = errors.New("sqlite path is required")
	ErrMigrate      = errors.New("apply migrations failed")
)
