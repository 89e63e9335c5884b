package config

import "errors"

// Configuration errors.
var (
	// ErrInvalidLevel indicates an unknown logging level name.
	ErrInvalidLevel = errors.New("invalid log level")

	// ErrInvalidFormFactor indicates an unknown form factor name.
	ErrInvalidFormFactor = errors.New("invalid form factor")
)
