package config

import (
	"os"
	"strconv"
)

// Environment variables recognized by ApplyEnv.
const (
	EnvLogLevel   = "INKLINE_LOG_LEVEL"
	EnvLogFile    = "INKLINE_LOG_FILE"
	EnvToolsDir   = "INKLINE_TOOLS_DIR"
	EnvWatchTools = "INKLINE_WATCH_TOOLS"
	EnvMouse      = "INKLINE_MOUSE"
	EnvFormFactor = "INKLINE_FORM_FACTOR"
)

// ApplyEnv overlays environment variables onto a configuration. Set
// variables win over file values; unset variables change nothing.
func ApplyEnv(f *File) error {
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		f.Logging.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		f.Logging.File = v
	}
	if v, ok := os.LookupEnv(EnvToolsDir); ok {
		f.Tools.Dir = v
	}
	if v, ok := os.LookupEnv(EnvWatchTools); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			f.Tools.Watch = &b
		}
	}
	if v, ok := os.LookupEnv(EnvMouse); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			f.Terminal.Mouse = &b
		}
	}
	if v, ok := os.LookupEnv(EnvFormFactor); ok {
		f.Terminal.FormFactor = v
	}
	return f.Validate()
}
