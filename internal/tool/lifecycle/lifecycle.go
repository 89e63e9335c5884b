// Package lifecycle implements named lifecycle actions.
//
// A lifecycle action is a named, multi-subscriber callback fired on mode
// entry/exit or other defined moments. Handler failures are isolated: one
// failing handler is logged and does not prevent siblings from running.
package lifecycle

import (
	"fmt"
	"sync"
)

// Handler runs when its action executes. Errors and panics are isolated.
type Handler func() error

// Logger is the minimal logging surface the manager needs.
type Logger interface {
	Error(msg string, args ...any)
}

type entry struct {
	fn      Handler
	removed bool
}

// Manager is the lifecycle-action registry and executor.
type Manager struct {
	mu        sync.RWMutex
	handlers  map[string][]*entry
	globals   []string
	globalSet map[string]bool
	logger    Logger
}

// NewManager creates an empty manager. The logger may be nil.
func NewManager(logger Logger) *Manager {
	return &Manager{
		handlers:  make(map[string][]*entry),
		globalSet: make(map[string]bool),
		logger:    logger,
	}
}

// Register adds a handler to a named action and returns an unregister
// closure. Unregistering twice is a no-op.
func (m *Manager) Register(actionID string, fn Handler) func() {
	if actionID == "" || fn == nil {
		return func() {}
	}

	e := &entry{fn: fn}
	m.mu.Lock()
	m.handlers[actionID] = append(m.handlers[actionID], e)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		e.removed = true
	}
}

// Execute runs every currently-registered handler for the action and returns
// the number that completed successfully.
func (m *Manager) Execute(actionID string) int {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.handlers[actionID]))
	for _, e := range m.handlers[actionID] {
		if !e.removed {
			entries = append(entries, e)
		}
	}
	m.mu.RUnlock()

	succeeded := 0
	for _, e := range entries {
		if m.run(actionID, e.fn) {
			succeeded++
		}
	}
	return succeeded
}

// run invokes one handler with panic isolation.
func (m *Manager) run(actionID string, fn Handler) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if m.logger != nil {
				m.logger.Error("lifecycle handler panicked", "action", actionID, "panic", fmt.Sprint(r))
			}
		}
	}()

	if err := fn(); err != nil {
		if m.logger != nil {
			m.logger.Error("lifecycle handler failed", "action", actionID, "error", err)
		}
		return false
	}
	return true
}

// RegisterGlobalTransitionAction marks an action id as one that runs on
// every mode transition. Duplicates are ignored; insertion order is kept.
func (m *Manager) RegisterGlobalTransitionAction(actionID string) {
	if actionID == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.globalSet[actionID] {
		return
	}
	m.globalSet[actionID] = true
	m.globals = append(m.globals, actionID)
}

// GlobalTransitionActions returns the ordered global action ids.
func (m *Manager) GlobalTransitionActions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.globals))
	copy(out, m.globals)
	return out
}

// HandlerCount returns the number of live handlers for an action.
func (m *Manager) HandlerCount(actionID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.handlers[actionID] {
		if !e.removed {
			n++
		}
	}
	return n
}

// Clear resets all handlers and global actions (test isolation).
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = make(map[string][]*entry)
	m.globals = nil
	m.globalSet = make(map[string]bool)
}
