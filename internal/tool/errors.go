package tool

import "errors"

// Tool registry and context errors.
var (
	// ErrNilDefinition is returned when registering a nil definition.
	ErrNilDefinition = errors.New("tool definition is nil")

	// ErrEmptyID is returned when a definition has no id.
	ErrEmptyID = errors.New("tool id is empty")

	// ErrMissingCapability is returned when a context lacks a required
	// capability.
	ErrMissingCapability = errors.New("context missing capability")
)
