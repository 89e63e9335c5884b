package input

import (
	"sort"
	"sync"

	"github.com/inkline-editor/inkline/internal/event"
)

// DragModifier adjusts an in-progress drag (axis locking, grid snapping,
// duplicate-on-alt, ...). Element modifiers apply to element drags only;
// generic modifiers apply to every drag.
type DragModifier struct {
	ID       string
	Priority int

	// Apply transforms the proposed drag delta.
	Apply func(dx, dy float64, ev event.PointerEvent) (float64, float64)
}

type dragEntry struct {
	mod     DragModifier
	removed bool
}

// DragModifierSet holds one class of drag modifiers (element or generic),
// registered and unregistered independently.
type DragModifierSet struct {
	mu      sync.RWMutex
	entries []*dragEntry
}

// NewDragModifierSet creates an empty set.
func NewDragModifierSet() *DragModifierSet {
	return &DragModifierSet{}
}

// Register adds a modifier and returns its removal closure; removing twice
// is a no-op.
func (s *DragModifierSet) Register(mod DragModifier) func() {
	e := &dragEntry{mod: mod}
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		e.removed = true
	}
}

// All returns the live modifiers sorted by ascending priority; ties keep
// registration order.
func (s *DragModifierSet) All() []DragModifier {
	s.mu.RLock()
	out := make([]DragModifier, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.removed {
			out = append(out, e.mod)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// Apply runs every live modifier over a drag delta in priority order.
func (s *DragModifierSet) Apply(dx, dy float64, ev event.PointerEvent) (float64, float64) {
	for _, mod := range s.All() {
		if mod.Apply != nil {
			dx, dy = mod.Apply(dx, dy, ev)
		}
	}
	return dx, dy
}
