// Package flags resolves per-tool behavior flags against host state.
//
// Per-active-tool queries read only the active tool's resolved flags and
// default each flag independently when absent. Aggregate queries scan every
// enabled registered tool on each call — deliberately uncached, because
// flags may be functions of fast-changing state and the tool set is small.
package flags

import (
	"github.com/inkline-editor/inkline/internal/store"
	"github.com/inkline-editor/inkline/internal/tool"
)

// BaseSelectTool is the id of the base selection tool; it anchors the
// default clears-subpaths-on-element-select policy.
const BaseSelectTool = "select"

// Manager answers behavior-flag queries for the runtime.
type Manager struct {
	registry *tool.Registry
	store    *store.Store
	active   func() string
}

// NewManager creates a flags manager. active returns the current tool id.
func NewManager(registry *tool.Registry, st *store.Store, active func() string) *Manager {
	return &Manager{registry: registry, store: st, active: active}
}

// Resolve normalizes a tool's flag source against the current state.
func (m *Manager) Resolve(def *tool.Definition) tool.Flags {
	if def == nil {
		return tool.Flags{}
	}
	return def.BehaviorFlags.Resolve(m.store.Snapshot())
}

// activeFlags returns the active tool's resolved flags, or zero flags when
// no tool is active or the active id is unregistered.
func (m *Manager) activeFlags() tool.Flags {
	return m.Resolve(m.registry.Get(m.active()))
}

// IsInPanMode reports whether the active tool pans the canvas.
func (m *Manager) IsInPanMode() bool {
	return m.activeFlags().IsPanMode
}

// IsSidebarPanelMode reports whether the active tool is a sidebar-panel mode.
func (m *Manager) IsSidebarPanelMode() bool {
	return m.activeFlags().IsSidebarPanelMode
}

// ShouldShowPointFeedback reports whether point feedback is shown for the
// active tool.
func (m *Manager) ShouldShowPointFeedback() bool {
	return m.activeFlags().ShowPointFeedback
}

// ShouldHideSelectionOverlay reports whether the selection overlay is hidden
// while the active tool is live.
func (m *Manager) ShouldHideSelectionOverlay() bool {
	return m.activeFlags().HideSelectionOverlay
}

// SelectionMode returns the active tool's selection mode, defaulting to
// element selection.
func (m *Manager) SelectionMode() tool.SelectionMode {
	if mode := m.activeFlags().SelectionMode; mode != "" {
		return mode
	}
	return tool.SelectionElements
}

// UsesObjectSnap reports whether the active tool snaps to objects.
func (m *Manager) UsesObjectSnap() bool {
	return m.activeFlags().UsesObjectSnap
}

// UsesMeasureSnap reports whether the active tool snaps to measurements.
func (m *Manager) UsesMeasureSnap() bool {
	return m.activeFlags().UsesMeasureSnap
}

// SkipSubpathMeasurements reports whether subpath measurements are skipped.
func (m *Manager) SkipSubpathMeasurements() bool {
	return m.activeFlags().SkipSubpathMeasurements
}

// NotifyOnSelectionChange reports whether the active tool wants selection
// change notifications.
func (m *Manager) NotifyOnSelectionChange() bool {
	return m.activeFlags().NotifyOnSelectionChange
}

// ShouldPreventSelection is true iff at least one enabled registered tool
// resolves PreventsSelection. Never cached; see package doc.
func (m *Manager) ShouldPreventSelection() bool {
	return m.anyEnabled(func(f tool.Flags) bool { return f.PreventsSelection })
}

// ShouldPreventSubpathInteraction is true iff at least one enabled
// registered tool resolves PreventsSubpathInteraction.
func (m *Manager) ShouldPreventSubpathInteraction() bool {
	return m.anyEnabled(func(f tool.Flags) bool { return f.PreventsSubpathInteraction })
}

// ShouldClearSubpathsOnElementSelect applies the active tool's explicit
// setting when present; otherwise the default policy clears only when the
// base select tool is active.
func (m *Manager) ShouldClearSubpathsOnElementSelect() bool {
	if explicit := m.activeFlags().ClearsSubpathsOnElementSelect; explicit != nil {
		return *explicit
	}
	return m.active() == BaseSelectTool
}

// anyEnabled scans all registered tools in registration order.
func (m *Manager) anyEnabled(pred func(tool.Flags) bool) bool {
	snap := m.store.Snapshot()
	for _, def := range m.registry.All() {
		if def.Enabled != nil && !def.Enabled(snap) {
			continue
		}
		if pred(def.BehaviorFlags.Resolve(snap)) {
			return true
		}
	}
	return false
}
