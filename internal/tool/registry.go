package tool

import "sync"

// Registry stores tool definitions by id, preserving registration order.
//
// The All() snapshot is memoized and invalidated on every mutation: reads
// vastly outnumber writes here, so the registry trades a dirty-flag check
// for O(1) repeated enumeration between mutations.
type Registry struct {
	mu        sync.RWMutex
	tools     map[string]*Definition
	order     []string
	snapshot  []*Definition // nil when dirty
	listeners []func()
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Definition),
	}
}

// Register inserts a definition, replacing any existing one with the same
// id. A replaced tool keeps its original position in the enumeration order.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return ErrNilDefinition
	}
	if def.ID == "" {
		return ErrEmptyID
	}

	r.mu.Lock()
	if _, exists := r.tools[def.ID]; !exists {
		r.order = append(r.order, def.ID)
	}
	r.tools[def.ID] = def
	r.snapshot = nil
	listeners := r.copyListenersLocked()
	r.mu.Unlock()

	notify(listeners)
	return nil
}

// Unregister removes a definition by id. Unknown ids are a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	if _, exists := r.tools[id]; !exists {
		r.mu.Unlock()
		return
	}
	delete(r.tools, id)
	for i, n := range r.order {
		if n == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.snapshot = nil
	listeners := r.copyListenersLocked()
	r.mu.Unlock()

	notify(listeners)
}

// Get returns the definition for an id, or nil.
func (r *Registry) Get(id string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[id]
}

// Has reports whether an id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[id]
	return ok
}

// All returns the registration-ordered snapshot of definitions. The returned
// slice is shared between calls; callers must not mutate it.
func (r *Registry) All() []*Definition {
	r.mu.RLock()
	if r.snapshot != nil {
		snap := r.snapshot
		r.mu.RUnlock()
		return snap
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snapshot == nil {
		snap := make([]*Definition, 0, len(r.order))
		for _, id := range r.order {
			snap = append(snap, r.tools[id])
		}
		r.snapshot = snap
	}
	return r.snapshot
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// OnChange registers a listener notified after every mutation. Returns a
// cancel function; cancel is safe to call more than once.
func (r *Registry) OnChange(listener func()) func() {
	if listener == nil {
		return func() {}
	}

	r.mu.Lock()
	r.listeners = append(r.listeners, listener)
	index := len(r.listeners) - 1
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if index < len(r.listeners) {
			r.listeners[index] = nil
		}
	}
}

// copyListenersLocked copies listeners for notification outside the lock.
func (r *Registry) copyListenersLocked() []func() {
	if len(r.listeners) == 0 {
		return nil
	}
	out := make([]func(), len(r.listeners))
	copy(out, r.listeners)
	return out
}

func notify(listeners []func()) {
	for _, l := range listeners {
		if l != nil {
			l()
		}
	}
}
