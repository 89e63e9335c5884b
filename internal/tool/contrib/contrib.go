// Package contrib stores per-tool contributions: sidebar panels, overlays,
// toolbar buttons, actions, canvas render layers, and keyed extension-point
// entries. Everything a tool registers here is removed en masse when the
// tool unregisters.
package contrib

import (
	"sort"
	"sync"

	"github.com/inkline-editor/inkline/internal/tool"
)

// Point names a shared extension point.
type Point string

// Extension points.
const (
	PointExport       Point = "export"
	PointImport       Point = "import"
	PointImportDefs   Point = "import-defs"
	PointAnimation    Point = "animation"
	PointElement      Point = "element"
	PointSVGStructure Point = "svg-structure"
	PointDefsEditor   Point = "defs-editor"
	PointUI           Point = "ui"
)

type contribKey struct {
	point Point
	subID string
}

// Registry holds keyed extension-point contributions. A tool may hold at
// most one contribution per (point, sub-id); re-registering replaces it.
type Registry struct {
	mu      sync.RWMutex
	byTool  map[string]map[contribKey]tool.Contribution
	order   map[Point][]string // point -> tool ids in first-registration order
}

// NewRegistry creates an empty contribution registry.
func NewRegistry() *Registry {
	return &Registry{
		byTool: make(map[string]map[contribKey]tool.Contribution),
		order:  make(map[Point][]string),
	}
}

// Register stores a contribution for a tool at a point.
func (r *Registry) Register(toolID string, point Point, c tool.Contribution) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byTool[toolID] == nil {
		r.byTool[toolID] = make(map[contribKey]tool.Contribution)
	}
	// A tool appears in the point's order once, on its first contribution
	// there, regardless of how many sub-ids it registers.
	if !r.hasAtPointLocked(toolID, point) {
		r.order[point] = append(r.order[point], toolID)
	}
	r.byTool[toolID][contribKey{point: point, subID: c.SubID}] = c
}

// hasAtPointLocked reports whether a tool already contributes at a point.
func (r *Registry) hasAtPointLocked(toolID string, point Point) bool {
	for key := range r.byTool[toolID] {
		if key.point == point {
			return true
		}
	}
	return false
}

// RemoveAll drops every contribution of a tool.
func (r *Registry) RemoveAll(toolID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byTool, toolID)
	for point, ids := range r.order {
		kept := ids[:0]
		for _, id := range ids {
			if id != toolID {
				kept = append(kept, id)
			}
		}
		r.order[point] = kept
	}
}

// Get returns a tool's contribution at (point, subID), if present.
func (r *Registry) Get(toolID string, point Point, subID string) (tool.Contribution, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byTool[toolID][contribKey{point: point, subID: subID}]
	return c, ok
}

// ByPoint returns every contribution registered at a point, ordered by the
// owning tools' first registration.
func (r *Registry) ByPoint(point Point) []tool.Contribution {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []tool.Contribution
	for _, toolID := range r.order[point] {
		subIDs := make([]string, 0, len(r.byTool[toolID]))
		for key := range r.byTool[toolID] {
			if key.point == point {
				subIDs = append(subIDs, key.subID)
			}
		}
		sort.Strings(subIDs)
		for _, subID := range subIDs {
			out = append(out, r.byTool[toolID][contribKey{point: point, subID: subID}])
		}
	}
	return out
}

// CountFor returns the number of contributions a tool holds.
func (r *Registry) CountFor(toolID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTool[toolID])
}

// LayerManager composes per-tool canvas render layers into a z-ordered stack.
type LayerManager struct {
	mu     sync.RWMutex
	byTool map[string][]tool.CanvasLayer
	order  []string
}

// NewLayerManager creates an empty layer manager.
func NewLayerManager() *LayerManager {
	return &LayerManager{byTool: make(map[string][]tool.CanvasLayer)}
}

// Insert registers a tool's layers, replacing any previous set.
func (m *LayerManager) Insert(toolID string, layers []tool.CanvasLayer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byTool[toolID]; !exists {
		m.order = append(m.order, toolID)
	}
	m.byTool[toolID] = append([]tool.CanvasLayer(nil), layers...)
}

// Remove drops a tool's layers.
func (m *LayerManager) Remove(toolID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.byTool, toolID)
	for i, id := range m.order {
		if id == toolID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Layers returns all layers sorted by ascending z-index; ties keep tool
// registration order.
func (m *LayerManager) Layers() []tool.CanvasLayer {
	m.mu.RLock()
	var out []tool.CanvasLayer
	for _, id := range m.order {
		out = append(out, m.byTool[id]...)
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// HasTool reports whether a tool has layers registered.
func (m *LayerManager) HasTool(toolID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byTool[toolID]
	return ok
}
