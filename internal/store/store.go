// Package store provides the shared host state store.
//
// The store is the single shared mutable resource of the runtime: tools and
// the runtime itself read and write it, with UI-speed single-writer-per-turn
// semantics (last write in a turn wins). Tools install named slices of
// initial state during registration; slices are removed on unregister.
package store

import "sync"

// Snapshot is an immutable point-in-time copy of store values, used to
// resolve state-dependent behavior flags and enablement predicates.
type Snapshot map[string]any

// Bool reads a boolean value from the snapshot, defaulting to false.
func (s Snapshot) Bool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

// String reads a string value from the snapshot, defaulting to "".
func (s Snapshot) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Listener is notified after a key changes value.
type Listener func(key string, value any)

// SliceFactory produces the initial values of a tool-owned state slice.
// Keys are installed under "<slice>.<key>".
type SliceFactory func() map[string]any

// Store is a key-value state store with change notification.
type Store struct {
	mu        sync.RWMutex
	values    map[string]any
	listeners []Listener
	slices    map[string][]string // slice name -> installed keys
}

// New creates an empty store.
func New() *Store {
	return &Store{
		values: make(map[string]any),
		slices: make(map[string][]string),
	}
}

// Get returns the value for a key, or nil if unset.
func (s *Store) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// GetString returns the string value for a key, or "" if unset or not a string.
func (s *Store) GetString(key string) string {
	v, _ := s.Get(key).(string)
	return v
}

// GetBool returns the boolean value for a key, defaulting to false.
func (s *Store) GetBool(key string) bool {
	v, _ := s.Get(key).(bool)
	return v
}

// Set stores a value and notifies listeners.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	s.values[key] = value
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		if l != nil {
			l(key, value)
		}
	}
}

// Update applies fn to the current value of key and stores the result.
func (s *Store) Update(key string, fn func(old any) any) {
	s.mu.Lock()
	value := fn(s.values[key])
	s.values[key] = value
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		if l != nil {
			l(key, value)
		}
	}
}

// Delete removes a key without notification.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Snapshot returns a copy of all current values.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(Snapshot, len(s.values))
	for k, v := range s.values {
		snap[k] = v
	}
	return snap
}

// Subscribe registers a change listener and returns a cancel function.
// Cancel is safe to call more than once.
func (s *Store) Subscribe(l Listener) func() {
	if l == nil {
		return func() {}
	}

	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	index := len(s.listeners) - 1
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Nil out instead of removing so other indices stay valid.
		if index < len(s.listeners) {
			s.listeners[index] = nil
		}
	}
}

// InstallSlice installs a named slice of initial values under "<name>.<key>".
// Installing over an existing slice replaces its keys. Returns a removal
// function that deletes every installed key.
func (s *Store) InstallSlice(name string, factory SliceFactory) func() {
	if factory == nil {
		return func() {}
	}

	initial := factory()

	s.mu.Lock()
	// Replace: drop keys from a previous install of the same slice.
	for _, key := range s.slices[name] {
		delete(s.values, key)
	}
	keys := make([]string, 0, len(initial))
	for k, v := range initial {
		full := name + "." + k
		s.values[full] = v
		keys = append(keys, full)
	}
	s.slices[name] = keys
	s.mu.Unlock()

	return func() { s.RemoveSlice(name) }
}

// RemoveSlice deletes every key installed by a named slice.
func (s *Store) RemoveSlice(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range s.slices[name] {
		delete(s.values, key)
	}
	delete(s.slices, name)
}

// HasSlice reports whether a named slice is installed.
func (s *Store) HasSlice(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.slices[name]
	return ok
}
