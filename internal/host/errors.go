package host

import "errors"

// Configuration errors. These indicate host initialization order was
// violated and are not recoverable runtime conditions.
var (
	// ErrControllerNotAttached is returned when canvas transforms are
	// requested before a render controller is attached.
	ErrControllerNotAttached = errors.New("render controller not attached")
)
