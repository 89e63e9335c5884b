package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "debug"
file = "/tmp/inkline.log"

[tools]
dir = "/opt/tools"
watch = false

[terminal]
mouse = true
form_factor = "mobile"
`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", f.Logging.Level)
	}
	if f.Tools.Dir != "/opt/tools" {
		t.Errorf("Tools.Dir = %q", f.Tools.Dir)
	}
	if f.Tools.Watch == nil || *f.Tools.Watch {
		t.Error("Tools.Watch should be explicitly false")
	}
	if f.Terminal.Mouse == nil || !*f.Terminal.Mouse {
		t.Error("Terminal.Mouse should be explicitly true")
	}
	if f.Terminal.FormFactor != "mobile" {
		t.Errorf("Terminal.FormFactor = %q, want mobile", f.Terminal.FormFactor)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if f.Logging.Level != "" || f.Tools.Watch != nil {
		t.Error("missing file should yield an empty configuration")
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "loud"
`)
	if _, err := Load(path); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Load() error = %v, want ErrInvalidLevel", err)
	}
}

func TestLoadRejectsBadFormFactor(t *testing.T) {
	path := writeConfig(t, `
[terminal]
form_factor = "watch"
`)
	if _, err := Load(path); !errors.Is(err, ErrInvalidFormFactor) {
		t.Errorf("Load() error = %v, want ErrInvalidFormFactor", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvToolsDir, "/env/tools")
	t.Setenv(EnvWatchTools, "true")

	f := &File{}
	f.Logging.Level = "info"

	if err := ApplyEnv(f); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if f.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want env override warn", f.Logging.Level)
	}
	if f.Tools.Dir != "/env/tools" {
		t.Errorf("Tools.Dir = %q", f.Tools.Dir)
	}
	if f.Tools.Watch == nil || !*f.Tools.Watch {
		t.Error("Tools.Watch should follow the environment")
	}
}

func TestApplyEnvValidates(t *testing.T) {
	t.Setenv(EnvFormFactor, "toaster")

	if err := ApplyEnv(&File{}); !errors.Is(err, ErrInvalidFormFactor) {
		t.Errorf("ApplyEnv() error = %v, want ErrInvalidFormFactor", err)
	}
}
