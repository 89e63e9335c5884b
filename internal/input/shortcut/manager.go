package shortcut

import (
	"fmt"
	"sort"
	"sync"

	"github.com/inkline-editor/inkline/internal/input/key"
	"github.com/inkline-editor/inkline/internal/tool"
)

// Logger is the minimal logging surface the manager needs.
type Logger interface {
	Error(msg string, args ...any)
}

// Manager indexes and dispatches keyboard shortcuts.
type Manager struct {
	registry *tool.Registry
	logger   Logger

	// active returns the current tool id; enabled reports tool enablement.
	active  func() string
	enabled func(toolID string) bool

	mu    sync.Mutex
	list  []Candidate      // flat cache; nil when dirty
	index map[string][]int // normalized key -> indices into list
}

// NewManager creates a shortcut manager over a registry. The logger may be
// nil. enabled may be nil, meaning every registered tool is enabled.
func NewManager(registry *tool.Registry, logger Logger, active func() string, enabled func(string) bool) *Manager {
	return &Manager{
		registry: registry,
		logger:   logger,
		active:   active,
		enabled:  enabled,
	}
}

// InvalidateCache drops the flat list and index. The orchestrator calls it
// after any registration change; the next lookup rebuilds lazily.
func (m *Manager) InvalidateCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = nil
	m.index = nil
}

// All returns the flat candidate list in dispatch order.
func (m *Manager) All() []Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLocked()
	out := make([]Candidate, len(m.list))
	copy(out, m.list)
	return out
}

// candidatesFor returns the dispatch-ordered candidates for a normalized key.
func (m *Manager) candidatesFor(normalized string) []Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLocked()

	indices := m.index[normalized]
	out := make([]Candidate, 0, len(indices))
	for _, i := range indices {
		out = append(out, m.list[i])
	}
	return out
}

// ensureLocked rebuilds the flat list and index when dirty.
func (m *Manager) ensureLocked() {
	if m.list != nil {
		return
	}

	m.list = make([]Candidate, 0)
	m.index = make(map[string][]int)

	for _, def := range m.registry.All() {
		if len(def.KeyboardShortcuts) == 0 {
			continue
		}

		// Map iteration is unordered; sort combos so dispatch order
		// within one tool is stable.
		combos := make([]string, 0, len(def.KeyboardShortcuts))
		for combo := range def.KeyboardShortcuts {
			combos = append(combos, combo)
		}
		sort.Strings(combos)

		for _, combo := range combos {
			decl := def.KeyboardShortcuts[combo]
			if decl.Handler == nil {
				continue
			}
			c := Candidate{
				Key:     key.Normalize(combo),
				ToolID:  def.ID,
				Scope:   def.Scope(),
				Handler: decl.Handler,
				Options: resolveOptions(decl),
			}
			m.index[c.Key] = append(m.index[c.Key], len(m.list))
			m.list = append(m.list, c)
		}
	}
}

// Execute dispatches a key event. combo is the raw combination from the
// input surface; ev carries the typing-context flag; ctx is the handler
// context built by the caller for the event.
//
// Dispatch: normalize, look up candidates, filter by scope and enablement,
// skip typing-disallowed candidates when the target is a text-entry context,
// then evaluate when-predicates in order; the first passing candidate whose
// handler succeeds wins. Predicate and handler failures are isolated and
// count as "did not handle".
func (m *Manager) Execute(combo string, ev tool.ShortcutEvent, ctx *tool.Context) Outcome {
	normalized := key.Normalize(combo)
	if normalized == "" {
		return Outcome{}
	}
	ev.Combo = normalized

	activeTool := ""
	if m.active != nil {
		activeTool = m.active()
	}

	for _, c := range m.candidatesFor(normalized) {
		if c.Scope != tool.ScopeGlobal && c.ToolID != activeTool {
			continue
		}
		if m.enabled != nil && !m.enabled(c.ToolID) {
			continue
		}
		if ev.TargetEditable && !c.Options.AllowWhileTyping {
			continue
		}
		if !m.whenPasses(c, ctx) {
			continue
		}
		if !m.invoke(c, ctx, ev) {
			continue // handler failed; try the next candidate
		}
		return Outcome{
			Handled:         true,
			ToolID:          c.ToolID,
			PreventDefault:  c.Options.PreventDefault,
			StopPropagation: c.Options.StopPropagation,
		}
	}

	return Outcome{}
}

// whenPasses evaluates a candidate's predicate; exceptions do not pass.
func (m *Manager) whenPasses(c Candidate, ctx *tool.Context) (pass bool) {
	if c.Options.When == nil {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			pass = false
			if m.logger != nil {
				m.logger.Error("shortcut predicate panicked", "tool", c.ToolID, "key", c.Key, "panic", fmt.Sprint(r))
			}
		}
	}()
	return c.Options.When(ctx)
}

// invoke runs a candidate's handler with failure isolation.
func (m *Manager) invoke(c Candidate, ctx *tool.Context, ev tool.ShortcutEvent) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if m.logger != nil {
				m.logger.Error("shortcut handler panicked", "tool", c.ToolID, "key", c.Key, "panic", fmt.Sprint(r))
			}
		}
	}()

	if err := c.Handler(ctx, ev); err != nil {
		if m.logger != nil {
			m.logger.Error("shortcut handler failed", "tool", c.ToolID, "key", c.Key, "error", err)
		}
		return false
	}
	return true
}
