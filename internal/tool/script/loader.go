// Package script loads tool definitions written in Lua.
//
// A scripted tool is a directory holding a manifest (tool.toml or tool.yaml)
// and a Lua entry file. The manifest carries identity, mode configuration,
// and static behavior flags; the script returns a table of handlers that are
// bridged into the runtime's plugin contract. Each tool owns one Lua state,
// created at load and closed by the registration cleanup.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/inkline-editor/inkline/internal/event"
	"github.com/inkline-editor/inkline/internal/store"
	"github.com/inkline-editor/inkline/internal/tool"
)

// Logger is the minimal logging surface the loader needs.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Tool is one loaded scripted tool: its manifest, the bridged definition,
// and the owning Lua state.
type Tool struct {
	Manifest   *Manifest
	Definition *tool.Definition

	mu     sync.Mutex
	state  *lua.LState
	closed bool
}

// Close releases the Lua state. Idempotent; the registration cleanup calls
// it when the tool unregisters.
func (t *Tool) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.state.Close()
}

// Loader loads scripted tools from disk.
type Loader struct {
	logger Logger
}

// NewLoader creates a loader. The logger may be nil.
func NewLoader(logger Logger) *Loader {
	return &Loader{logger: logger}
}

// Load loads one tool directory: manifest, Lua entry file, and the returned
// handler table.
func (l *Loader) Load(dir string) (*Tool, error) {
	manifest, err := LoadManifestFromDir(dir)
	if err != nil {
		return nil, err
	}

	L := lua.NewState()
	if err := L.DoFile(manifest.EntryPath()); err != nil {
		L.Close()
		return nil, fmt.Errorf("load %s: %w", manifest.ID, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	table, ok := ret.(*lua.LTable)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("%s: %w", manifest.ID, ErrNotTable)
	}

	t := &Tool{Manifest: manifest, state: L}
	t.Definition = t.buildDefinition(table)
	return t, nil
}

// Discover loads every tool directory under root, in name order. Directories
// that fail to load are logged and skipped.
func (l *Loader) Discover(root string) ([]*Tool, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("discover tools: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var tools []*Tool
	for _, name := range names {
		t, err := l.Load(filepath.Join(root, name))
		if err != nil {
			if l.logger != nil {
				l.logger.Warn("scripted tool skipped", "dir", name, "error", err)
			}
			continue
		}
		tools = append(tools, t)
	}
	return tools, nil
}

// buildDefinition bridges the script's handler table and the manifest into
// the runtime plugin contract.
func (t *Tool) buildDefinition(table *lua.LTable) *tool.Definition {
	m := t.Manifest
	def := &tool.Definition{
		ID: m.ID,
		Metadata: tool.Metadata{
			Label:                  m.Label,
			Cursor:                 m.Cursor,
			DisablePathInteraction: m.DisablePathInteraction,
			PathCursorMode:         m.PathCursorMode,
		},
		ModeConfig:            m.modeConfig(),
		KeyboardShortcutScope: tool.ShortcutScope(m.Scope),
		SupportsMobile:        m.SupportsMobile,
	}

	if flags := m.toolFlags(); flags != nil {
		def.BehaviorFlags = tool.StaticFlags(*flags)
	}

	for _, name := range m.Events {
		def.SubscribedEvents = append(def.SubscribedEvents, event.Topic(name))
	}

	if fn := tableFunc(table, "on_pointer"); fn != nil {
		def.Handler = t.pointerHandler(fn)
	}
	if fn := tableFunc(table, "on_element_double_click"); fn != nil {
		def.OnElementDoubleClick = t.pointerHandler(fn)
	}
	if fn := tableFunc(table, "on_subpath_double_click"); fn != nil {
		def.OnSubpathDoubleClick = t.pointerHandler(fn)
	}
	if fn := tableFunc(table, "on_canvas_double_click"); fn != nil {
		def.OnCanvasDoubleClick = t.pointerHandler(fn)
	}

	if shortcuts := tableTable(table, "shortcuts"); shortcuts != nil {
		def.KeyboardShortcuts = t.bridgeShortcuts(shortcuts)
	}

	if state := tableTable(table, "state"); state != nil {
		def.Slices = map[string]store.SliceFactory{
			m.ID: sliceFactory(state),
		}
	}

	onInit := tableFunc(table, "on_init")
	onDispose := tableFunc(table, "on_dispose")
	def.Init = func(*tool.Context) (tool.CleanupFunc, error) {
		if onInit != nil {
			t.mu.Lock()
			err := call(t.state, onInit)
			t.mu.Unlock()
			if err != nil {
				t.Close()
				return nil, err
			}
		}
		return func() {
			if onDispose != nil {
				t.mu.Lock()
				_ = call(t.state, onDispose)
				t.mu.Unlock()
			}
			t.Close()
		}, nil
	}

	return def
}

// pointerHandler wraps a Lua function as a pointer handler.
func (t *Tool) pointerHandler(fn *lua.LFunction) tool.PointerHandler {
	return func(_ *tool.Context, ev event.PointerEvent) error {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.closed {
			return nil
		}
		return call(t.state, fn, pointerTable(t.state, ev))
	}
}

// bridgeShortcuts converts the script's shortcuts table (combo -> function).
func (t *Tool) bridgeShortcuts(table *lua.LTable) map[string]tool.Shortcut {
	out := make(map[string]tool.Shortcut)
	table.ForEach(func(k, v lua.LValue) {
		combo, ok := k.(lua.LString)
		if !ok {
			return
		}
		fn, ok := v.(*lua.LFunction)
		if !ok {
			return
		}
		out[string(combo)] = tool.Shortcut{
			Handler: func(_ *tool.Context, ev tool.ShortcutEvent) error {
				t.mu.Lock()
				defer t.mu.Unlock()
				if t.closed {
					return nil
				}
				return call(t.state, fn, shortcutTable(t.state, ev))
			},
		}
	})
	return out
}

// sliceFactory snapshots a Lua state table into a store slice factory.
func sliceFactory(table *lua.LTable) store.SliceFactory {
	values := make(map[string]any)
	table.ForEach(func(k, v lua.LValue) {
		values[k.String()] = toGoValue(v)
	})
	return func() map[string]any {
		out := make(map[string]any, len(values))
		for k, v := range values {
			out[k] = v
		}
		return out
	}
}
