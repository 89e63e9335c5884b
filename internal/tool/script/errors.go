package script

import "errors"

// Script loading errors.
var (
	ErrMissingID     = errors.New("manifest: id is required")
	ErrInvalidID     = errors.New("manifest: id must be lowercase alphanumeric with hyphens")
	ErrInvalidEntry  = errors.New("manifest: entry must be a .lua file")
	ErrInvalidScope  = errors.New("manifest: scope must be active-tool or global")
	ErrNoManifest    = errors.New("no tool manifest found")
	ErrNotTable      = errors.New("script must return a table")
	ErrWatcherClosed = errors.New("watcher is closed")
)
