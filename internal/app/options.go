package app

import (
	"os"
	"path/filepath"
)

// Options configures the application.
type Options struct {
	// LogLevel is the minimum log level name (debug, info, warn, error).
	LogLevel string

	// LogOutput is a path for the log file; empty means stderr.
	LogOutput string

	// ToolsDir holds scripted tool directories. Empty disables script
	// loading.
	ToolsDir string

	// WatchTools enables hot reload of the tools directory.
	WatchTools bool

	// FormFactor is desktop or mobile.
	FormFactor string

	// MouseEnabled turns on terminal mouse capture.
	MouseEnabled bool
}

// DefaultOptions returns the default application options.
func DefaultOptions() Options {
	return Options{
		LogLevel:     "info",
		ToolsDir:     defaultToolsDir(),
		WatchTools:   true,
		FormFactor:   "desktop",
		MouseEnabled: true,
	}
}

// defaultToolsDir is ~/.config/inkline/tools when resolvable.
func defaultToolsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "inkline", "tools")
}
