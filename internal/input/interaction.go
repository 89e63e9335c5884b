package input

import (
	"errors"
	"fmt"
	"sync"

	"github.com/inkline-editor/inkline/internal/event"
	"github.com/inkline-editor/inkline/internal/tool"
)

// ErrBusNotAttached is returned when binding a tool before the event bus is
// attached. This is a configuration error: host initialization order was
// violated. It is not a recoverable runtime condition.
var ErrBusNotAttached = errors.New("event bus not attached")

// Logger is the minimal logging surface the manager needs.
type Logger interface {
	Error(msg string, args ...any)
}

// ContextBuilder builds the handler context for a tool callback.
type ContextBuilder func(toolID string) *tool.Context

// Manager binds tool pointer handlers to the shared event bus.
type Manager struct {
	mu sync.Mutex

	bus          *event.Bus
	logger       Logger
	buildContext ContextBuilder

	// subs tracks every live subscription per tool for atomic teardown.
	subs map[string][]*event.Subscription
}

// NewManager creates an interaction manager. The bus is attached separately
// because the rendering surface owns it and comes up later in host
// initialization.
func NewManager(logger Logger, buildContext ContextBuilder) *Manager {
	return &Manager{
		logger:       logger,
		buildContext: buildContext,
		subs:         make(map[string][]*event.Subscription),
	}
}

// AttachBus attaches the shared event bus. Must happen before any Bind.
func (m *Manager) AttachBus(bus *event.Bus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bus = bus
}

// Bind subscribes a tool's pointer and double-click handlers. Any previous
// subscriptions of the same tool are torn down first.
func (m *Manager) Bind(def *tool.Definition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bus == nil {
		return fmt.Errorf("bind %q: %w", def.ID, ErrBusNotAttached)
	}

	m.unbindLocked(def.ID)

	var subs []*event.Subscription
	if def.Handler != nil {
		for _, topic := range def.Topics() {
			sub, err := m.bus.Subscribe(topic, m.listener(def.ID, def.Handler))
			if err != nil {
				return fmt.Errorf("bind %q to %s: %w", def.ID, topic, err)
			}
			subs = append(subs, sub)
		}
	}

	doubleClicks := []struct {
		topic   event.Topic
		handler tool.PointerHandler
	}{
		{event.TopicElementDoubleClick, def.OnElementDoubleClick},
		{event.TopicSubpathDoubleClick, def.OnSubpathDoubleClick},
		{event.TopicCanvasDoubleClick, def.OnCanvasDoubleClick},
	}
	for _, dc := range doubleClicks {
		if dc.handler == nil {
			continue
		}
		sub, err := m.bus.Subscribe(dc.topic, m.listener(def.ID, dc.handler))
		if err != nil {
			return fmt.Errorf("bind %q to %s: %w", def.ID, dc.topic, err)
		}
		subs = append(subs, sub)
	}

	m.subs[def.ID] = subs
	return nil
}

// Unbind tears down every subscription of a tool. Unknown ids are a no-op.
func (m *Manager) Unbind(toolID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unbindLocked(toolID)
}

// unbindLocked cancels and forgets a tool's subscriptions.
func (m *Manager) unbindLocked(toolID string) {
	for _, sub := range m.subs[toolID] {
		sub.Cancel()
	}
	delete(m.subs, toolID)
}

// SubscriptionCount returns the number of live subscriptions for a tool.
func (m *Manager) SubscriptionCount(toolID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[toolID])
}

// listener wraps a pointer handler with the addressed-tool filter and
// context construction.
func (m *Manager) listener(toolID string, handler tool.PointerHandler) event.Handler {
	return func(payload any) {
		ev, ok := payload.(event.PointerEvent)
		if !ok {
			return
		}
		if ev.ToolID != toolID {
			return
		}

		var ctx *tool.Context
		if m.buildContext != nil {
			ctx = m.buildContext(toolID)
		}
		if err := handler(ctx, ev); err != nil && m.logger != nil {
			m.logger.Error("pointer handler failed", "tool", toolID, "topic", string(ev.Topic), "error", err)
		}
	}
}
