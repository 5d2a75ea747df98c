package fixtures

import "errors"

// Sentinel kinds for fixture errors.
var (
	ErrInvalidConfig = errors.New("invalid fixture config")
	ErrVerify        = errors.New("seed verification failed")
)
