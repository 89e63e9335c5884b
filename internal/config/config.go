// Package config loads the host configuration file and environment
// overrides. The file is TOML; environment variables with the INKLINE_
// prefix win over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// File is the parsed configuration file.
type File struct {
	Logging  LoggingSection  `toml:"logging"`
	Tools    ToolsSection    `toml:"tools"`
	Terminal TerminalSection `toml:"terminal"`
}

// LoggingSection controls log verbosity and destination.
type LoggingSection struct {
	// Level is debug, info, warn, or error. Empty keeps the default.
	Level string `toml:"level"`

	// File is a log file path; empty means stderr.
	File string `toml:"file"`
}

// ToolsSection controls scripted tool loading.
type ToolsSection struct {
	// Dir holds scripted tool directories.
	Dir string `toml:"dir"`

	// Watch enables hot reload. Unset keeps the default.
	Watch *bool `toml:"watch"`
}

// TerminalSection controls the terminal backend.
type TerminalSection struct {
	// Mouse enables mouse capture. Unset keeps the default.
	Mouse *bool `toml:"mouse"`

	// FormFactor is desktop or mobile. Empty keeps the default.
	FormFactor string `toml:"form_factor"`
}

// DefaultPath is ~/.config/inkline/config.toml, or "" when the home
// directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "inkline", "config.toml")
}

// Load parses and validates a configuration file. A missing file is not an
// error; it yields an empty configuration.
func Load(path string) (*File, error) {
	var f File
	if path == "" {
		return &f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &f, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks enumerated fields.
func (f *File) Validate() error {
	switch f.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLevel, f.Logging.Level)
	}
	switch f.Terminal.FormFactor {
	case "", "desktop", "mobile":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormFactor, f.Terminal.FormFactor)
	}
	return nil
}
