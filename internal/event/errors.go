package event

import "errors"

// Bus errors.
var (
	// ErrInvalidTopic is returned when subscribing with an empty topic.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrNilHandler is returned when subscribing with a nil handler.
	ErrNilHandler = errors.New("handler is nil")
)
