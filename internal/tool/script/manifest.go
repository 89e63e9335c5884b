package script

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/inkline-editor/inkline/internal/tool"
)

// Manifest describes a scripted tool: identity, presentation metadata, mode
// configuration, static behavior flags, and the Lua entry file. Manifests are
// written as tool.toml or tool.yaml next to the script.
type Manifest struct {
	// Identity.
	ID          string `toml:"id" yaml:"id"`
	Label       string `toml:"label" yaml:"label"`
	Description string `toml:"description" yaml:"description"`

	// Presentation.
	Cursor                 string `toml:"cursor" yaml:"cursor"`
	DisablePathInteraction bool   `toml:"disable_path_interaction" yaml:"disable_path_interaction"`
	PathCursorMode         string `toml:"path_cursor_mode" yaml:"path_cursor_mode"`

	// Entry is the Lua file relative to the manifest (default tool.lua).
	Entry string `toml:"entry" yaml:"entry"`

	// Scope is the keyboard-shortcut scope (active-tool or global).
	Scope string `toml:"scope" yaml:"scope"`

	SupportsMobile bool `toml:"supports_mobile" yaml:"supports_mobile"`

	Mode  *ModeSection  `toml:"mode" yaml:"mode"`
	Flags *FlagsSection `toml:"flags" yaml:"flags"`

	// Events the pointer handler subscribes to (default pointer-down).
	Events []string `toml:"events" yaml:"events"`

	path string
}

// ModeSection is the manifest's mode configuration.
type ModeSection struct {
	Description string   `toml:"description" yaml:"description"`
	Entry       []string `toml:"entry_actions" yaml:"entry_actions"`
	Exit        []string `toml:"exit_actions" yaml:"exit_actions"`
	ToggleTo    string   `toml:"toggle_to" yaml:"toggle_to"`
	Resources   []string `toml:"resources" yaml:"resources"`
}

// FlagsSection is the manifest's static behavior flags.
type FlagsSection struct {
	SelectionMode              string `toml:"selection_mode" yaml:"selection_mode"`
	PreventsSelection          bool   `toml:"prevents_selection" yaml:"prevents_selection"`
	PreventsSubpathInteraction bool   `toml:"prevents_subpath_interaction" yaml:"prevents_subpath_interaction"`
	IsPanMode                  bool   `toml:"is_pan_mode" yaml:"is_pan_mode"`
	IsSidebarPanelMode         bool   `toml:"is_sidebar_panel_mode" yaml:"is_sidebar_panel_mode"`
	HideSelectionOverlay       bool   `toml:"hide_selection_overlay" yaml:"hide_selection_overlay"`
	UsesObjectSnap             bool   `toml:"uses_object_snap" yaml:"uses_object_snap"`
	UsesMeasureSnap            bool   `toml:"uses_measure_snap" yaml:"uses_measure_snap"`
	NotifyOnSelectionChange    bool   `toml:"notify_on_selection_change" yaml:"notify_on_selection_change"`
	ShowPointFeedback          bool   `toml:"show_point_feedback" yaml:"show_point_feedback"`
	SkipSubpathMeasurements    bool   `toml:"skip_subpath_measurements" yaml:"skip_subpath_measurements"`

	// Tri-state: absent means "use the default policy".
	ClearsSubpathsOnElementSelect *bool `toml:"clears_subpaths_on_element_select" yaml:"clears_subpaths_on_element_select"`
}

// Manifest file names probed in order.
var manifestNames = []string{"tool.toml", "tool.yaml", "tool.yml"}

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// LoadManifest loads and validates a manifest from a file; the format is
// chosen by extension.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	switch filepath.Ext(path) {
	case ".toml":
		err = toml.Unmarshal(data, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoManifest, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", filepath.Base(path), err)
	}

	m.path = filepath.Dir(path)
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifestFromDir probes a tool directory for a manifest file.
func LoadManifestFromDir(dir string) (*Manifest, error) {
	for _, name := range manifestNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadManifest(path)
		}
	}
	return nil, fmt.Errorf("%w in %s", ErrNoManifest, dir)
}

func (m *Manifest) applyDefaults() {
	if m.Entry == "" {
		m.Entry = "tool.lua"
	}
	if m.Scope == "" {
		m.Scope = string(tool.ScopeActiveTool)
	}
	if m.Label == "" {
		m.Label = m.ID
	}
}

// Validate checks identity, entry file, and scope.
func (m *Manifest) Validate() error {
	if m.ID == "" {
		return ErrMissingID
	}
	if !idPattern.MatchString(m.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidID, m.ID)
	}
	if filepath.Ext(m.Entry) != ".lua" {
		return fmt.Errorf("%w: %q", ErrInvalidEntry, m.Entry)
	}
	switch tool.ShortcutScope(m.Scope) {
	case tool.ScopeActiveTool, tool.ScopeGlobal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScope, m.Scope)
	}
	return nil
}

// Path returns the tool directory.
func (m *Manifest) Path() string { return m.path }

// EntryPath returns the full path to the Lua entry file.
func (m *Manifest) EntryPath() string { return filepath.Join(m.path, m.Entry) }

// toolFlags converts the manifest flags section into the runtime flag record.
func (m *Manifest) toolFlags() *tool.Flags {
	if m.Flags == nil {
		return nil
	}
	f := m.Flags
	return &tool.Flags{
		SelectionMode:                 tool.SelectionMode(f.SelectionMode),
		PreventsSelection:             f.PreventsSelection,
		PreventsSubpathInteraction:    f.PreventsSubpathInteraction,
		IsPanMode:                     f.IsPanMode,
		IsSidebarPanelMode:            f.IsSidebarPanelMode,
		HideSelectionOverlay:          f.HideSelectionOverlay,
		UsesObjectSnap:                f.UsesObjectSnap,
		UsesMeasureSnap:               f.UsesMeasureSnap,
		NotifyOnSelectionChange:       f.NotifyOnSelectionChange,
		ShowPointFeedback:             f.ShowPointFeedback,
		SkipSubpathMeasurements:       f.SkipSubpathMeasurements,
		ClearsSubpathsOnElementSelect: f.ClearsSubpathsOnElementSelect,
	}
}

// modeConfig converts the manifest mode section.
func (m *Manifest) modeConfig() *tool.ModeConfig {
	if m.Mode == nil {
		return nil
	}
	return &tool.ModeConfig{
		Description: m.Mode.Description,
		Entry:       m.Mode.Entry,
		Exit:        m.Mode.Exit,
		ToggleTo:    m.Mode.ToggleTo,
		Resources:   m.Mode.Resources,
	}
}

// String returns "label (id)" for logs.
func (m *Manifest) String() string {
	if m.Label != "" && m.Label != m.ID {
		return fmt.Sprintf("%s (%s)", m.Label, m.ID)
	}
	return m.ID
}
