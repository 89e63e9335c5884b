package app

import "errors"

// Application errors.
var (
	// ErrScreenInit is wrapped around terminal initialization failures.
	ErrScreenInit = errors.New("screen initialization failed")
)
