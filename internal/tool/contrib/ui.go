package contrib

import (
	"sort"
	"sync"

	"github.com/inkline-editor/inkline/internal/tool"
)

// UIManager stores the visual contributions of tools: sidebar panels,
// toolbar buttons, overlays, and named actions. Queries aggregate across
// tools in the order the host supplies; enablement filtering is the host's
// concern.
type UIManager struct {
	mu       sync.RWMutex
	panels   map[string][]tool.Panel
	buttons  map[string][]tool.ToolbarButton
	overlays map[string][]tool.Overlay
	actions  map[string][]tool.Action
}

// NewUIManager creates an empty UI manager.
func NewUIManager() *UIManager {
	return &UIManager{
		panels:   make(map[string][]tool.Panel),
		buttons:  make(map[string][]tool.ToolbarButton),
		overlays: make(map[string][]tool.Overlay),
		actions:  make(map[string][]tool.Action),
	}
}

// Register stores a definition's UI contributions.
func (m *UIManager) Register(def *tool.Definition) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(def.SidebarPanels) > 0 {
		m.panels[def.ID] = append([]tool.Panel(nil), def.SidebarPanels...)
	}
	if len(def.SidebarToolbarButtons) > 0 {
		m.buttons[def.ID] = append([]tool.ToolbarButton(nil), def.SidebarToolbarButtons...)
	}
	if len(def.Overlays) > 0 {
		m.overlays[def.ID] = append([]tool.Overlay(nil), def.Overlays...)
	}
	if len(def.Actions) > 0 {
		m.actions[def.ID] = append([]tool.Action(nil), def.Actions...)
	}
}

// Remove drops every UI contribution of a tool.
func (m *UIManager) Remove(toolID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.panels, toolID)
	delete(m.buttons, toolID)
	delete(m.overlays, toolID)
	delete(m.actions, toolID)
}

// Panels returns the panels of the given tools, ordered by Order then by
// the supplied tool order.
func (m *UIManager) Panels(toolIDs []string) []tool.Panel {
	m.mu.RLock()
	var out []tool.Panel
	for _, id := range toolIDs {
		out = append(out, m.panels[id]...)
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// ToolbarButtons returns the toolbar buttons of the given tools, ordered by
// Order then by the supplied tool order.
func (m *UIManager) ToolbarButtons(toolIDs []string) []tool.ToolbarButton {
	m.mu.RLock()
	var out []tool.ToolbarButton
	for _, id := range toolIDs {
		out = append(out, m.buttons[id]...)
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Overlays returns a single tool's overlays.
func (m *UIManager) Overlays(toolID string) []tool.Overlay {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]tool.Overlay(nil), m.overlays[toolID]...)
}

// GlobalOverlays returns the overlays of the given tools that are marked
// global (visible regardless of the active tool).
func (m *UIManager) GlobalOverlays(toolIDs []string) []tool.Overlay {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []tool.Overlay
	for _, id := range toolIDs {
		for _, o := range m.overlays[id] {
			if o.Global {
				out = append(out, o)
			}
		}
	}
	return out
}

// Actions returns the actions of the given tools in supplied order.
func (m *UIManager) Actions(toolIDs []string) []tool.Action {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []tool.Action
	for _, id := range toolIDs {
		out = append(out, m.actions[id]...)
	}
	return out
}
