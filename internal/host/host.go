// Package host wires the tool runtime together: the registry, mode machine,
// lifecycle actions, behavior flags, interaction and shortcut managers, and
// the contribution registries. It owns the registration flow and the
// activation path; everything else delegates to the focused managers.
package host

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/inkline-editor/inkline/internal/event"
	"github.com/inkline-editor/inkline/internal/input"
	"github.com/inkline-editor/inkline/internal/input/shortcut"
	"github.com/inkline-editor/inkline/internal/store"
	"github.com/inkline-editor/inkline/internal/tool"
	"github.com/inkline-editor/inkline/internal/tool/contrib"
	"github.com/inkline-editor/inkline/internal/tool/flags"
	"github.com/inkline-editor/inkline/internal/tool/lifecycle"
	"github.com/inkline-editor/inkline/internal/tool/mode"
)

// Store keys owned by the host.
const (
	KeyActiveTool             = "host.activeTool"
	KeyCursor                 = "host.cursor"
	KeyDisablePathInteraction = "host.disablePathInteraction"
	KeyPathCursorMode         = "host.pathCursorMode"
	KeyCanvasService          = "host.canvasService"
	KeyColorMode              = "host.colorMode"
)

// Form factors.
const (
	FormFactorDesktop = "desktop"
	FormFactorMobile  = "mobile"
)

// DefaultCursor is used when the active tool declares no cursor.
const DefaultCursor = "default"

// Logger is the logging surface the host needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options configures a Host.
type Options struct {
	// Logger may be nil.
	Logger Logger

	// FormFactor defaults to desktop. On mobile, tools that do not declare
	// mobile support are skipped at registration.
	FormFactor string

	// Store and Bus default to fresh instances when nil.
	Store *store.Store
	Bus   *event.Bus
}

// Host is the runtime facade. One instance owns all managers; there is no
// package-level state.
type Host struct {
	logger     Logger
	formFactor string

	store *store.Store
	bus   *event.Bus

	registry     *tool.Registry
	machine      *mode.Machine
	lifecycle    *lifecycle.Manager
	adapter      *lifecycle.Adapter
	flags        *flags.Manager
	interactions *input.Manager
	shortcuts    *shortcut.Manager
	contribs     *contrib.Registry
	layers       *contrib.LayerManager
	ui           *contrib.UIManager

	dragModifiers        *input.DragModifierSet
	elementDragModifiers *input.DragModifierSet

	pointer *tool.PointerState

	mu             sync.Mutex
	active         string
	helpers        map[string]any
	apis           map[string]any
	cleanups       map[string]tool.CleanupFunc
	slices         map[string][]string
	canvasServices map[string]any
	activeService  string
	controller     RenderController
	batching       bool
}

// New creates a fully wired host.
func New(opts Options) *Host {
	if opts.Store == nil {
		opts.Store = store.New()
	}
	if opts.Bus == nil {
		opts.Bus = event.NewBus(opts.Logger)
	}
	if opts.FormFactor == "" {
		opts.FormFactor = FormFactorDesktop
	}

	h := &Host{
		logger:     opts.Logger,
		formFactor: opts.FormFactor,
		store:      opts.Store,
		bus:        opts.Bus,

		registry:  tool.NewRegistry(),
		machine:   mode.NewMachine(),
		lifecycle: lifecycle.NewManager(opts.Logger),

		contribs: contrib.NewRegistry(),
		layers:   contrib.NewLayerManager(),
		ui:       contrib.NewUIManager(),

		dragModifiers:        input.NewDragModifierSet(),
		elementDragModifiers: input.NewDragModifierSet(),

		pointer: &tool.PointerState{},

		helpers:        make(map[string]any),
		apis:           make(map[string]any),
		cleanups:       make(map[string]tool.CleanupFunc),
		slices:         make(map[string][]string),
		canvasServices: make(map[string]any),
	}
	h.adapter = lifecycle.NewAdapter(h.lifecycle)
	h.flags = flags.NewManager(h.registry, h.store, h.ActiveTool)
	h.shortcuts = shortcut.NewManager(h.registry, opts.Logger, h.ActiveTool, h.IsToolEnabled)
	h.interactions = input.NewManager(opts.Logger, h.HandlerContext)
	h.interactions.AttachBus(h.bus)
	return h
}

// Store returns the shared host state store.
func (h *Host) Store() *store.Store { return h.store }

// Bus returns the shared event bus.
func (h *Host) Bus() *event.Bus { return h.bus }

// Flags returns the behavior-flags manager.
func (h *Host) Flags() *flags.Manager { return h.flags }

// Shortcuts returns the shortcut manager for the input surface to dispatch
// through.
func (h *Host) Shortcuts() *shortcut.Manager { return h.shortcuts }

// Lifecycle returns the lifecycle adapter surface.
func (h *Host) Lifecycle() *lifecycle.Adapter { return h.adapter }

// DragModifiers returns the generic drag-modifier set.
func (h *Host) DragModifiers() *input.DragModifierSet { return h.dragModifiers }

// ElementDragModifiers returns the element-drag modifier set.
func (h *Host) ElementDragModifiers() *input.DragModifierSet { return h.elementDragModifiers }

// Plugin returns a registered definition by id, or nil.
func (h *Host) Plugin(id string) *tool.Definition { return h.registry.Get(id) }

// All returns the registration-ordered definition snapshot.
func (h *Host) All() []*tool.Definition { return h.registry.All() }

// HasTool reports whether an id is registered.
func (h *Host) HasTool(id string) bool { return h.registry.Has(id) }

// RegisteredTools returns the registered tool ids in registration order.
func (h *Host) RegisteredTools() []string { return h.registry.IDs() }

// IsToolEnabled reports whether a tool's enablement predicate passes. Unknown
// ids and tools without a predicate are enabled.
func (h *Host) IsToolEnabled(id string) bool {
	def := h.registry.Get(id)
	if def == nil || def.Enabled == nil {
		return true
	}
	return def.Enabled(h.store.Snapshot())
}

// OnRegistrationChange registers a listener notified after every
// registration mutation. Returns a cancel function.
func (h *Host) OnRegistrationChange(listener func()) func() {
	return h.registry.OnChange(listener)
}

// ActiveTool returns the current tool id ("" before the first activation).
func (h *Host) ActiveTool() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// ActivateTool requests a mode switch to the given tool id. The transition
// is computed by the mode machine; the resulting lifecycle actions run in
// order before host state and presentation flags update.
func (h *Host) ActivateTool(id string) mode.Result {
	result := h.machine.Transition(mode.ID(h.ActiveTool()), mode.ID(id))

	for _, action := range result.Actions {
		h.lifecycle.Execute(action)
	}

	if result.Changed {
		h.mu.Lock()
		h.active = string(result.Mode)
		h.mu.Unlock()

		h.store.Set(KeyActiveTool, string(result.Mode))
		h.syncPresentation()

		if h.logger != nil {
			h.logger.Debug("tool activated",
				"tool", string(result.Mode),
				"from", string(result.From),
				"reason", string(result.Reason))
		}
	}
	return result
}

// Cursor returns the active tool's declared cursor, or the default.
func (h *Host) Cursor() string {
	def := h.registry.Get(h.ActiveTool())
	if def == nil || def.Metadata.Cursor == "" {
		return DefaultCursor
	}
	return def.Metadata.Cursor
}

// syncPresentation pushes the active tool's presentation metadata into the
// store so overlays and the canvas chrome can react.
func (h *Host) syncPresentation() {
	def := h.registry.Get(h.ActiveTool())

	cursor := DefaultCursor
	disablePath := false
	pathCursorMode := ""
	if def != nil {
		if def.Metadata.Cursor != "" {
			cursor = def.Metadata.Cursor
		}
		disablePath = def.Metadata.DisablePathInteraction
		pathCursorMode = def.Metadata.PathCursorMode
	}

	h.store.Set(KeyCursor, cursor)
	h.store.Set(KeyDisablePathInteraction, disablePath)
	h.store.Set(KeyPathCursorMode, pathCursorMode)
}

// ExecuteLifecycleAction runs a named lifecycle action, returning the number
// of handlers that completed successfully.
func (h *Host) ExecuteLifecycleAction(actionID string) int {
	return h.lifecycle.Execute(actionID)
}

// GlobalTransitionActions returns the ordered global transition action ids.
func (h *Host) GlobalTransitionActions() []string {
	return h.lifecycle.GlobalTransitionActions()
}

// RegisterLifecycleHandler registers a handler under an action id; when
// global is true the action additionally runs on every mode transition and
// the mode machine is rebuilt to pick it up. Returns the unregister closure.
func (h *Host) RegisterLifecycleHandler(actionID string, fn lifecycle.Handler, global bool) func() {
	cancel := h.adapter.RegisterLifecycleAction(actionID, fn, global)
	if global {
		h.rebuildMachine()
	}
	return cancel
}

// RegisterHelper installs a named helper into the shared table.
func (h *Host) RegisterHelper(name string, helper any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.helpers[name] = helper
}

// Helper returns a named helper, or nil.
func (h *Host) Helper(name string) any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.helpers[name]
}

// AllHelpers returns a copy of the shared helper table.
func (h *Host) AllHelpers() map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.copyHelpersLocked()
}

// RegisterCanvasService installs a named canvas service (grid, rulers,
// guides, ...).
func (h *Host) RegisterCanvasService(name string, service any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.canvasServices[name] = service
}

// ActivateCanvasService marks a registered service active and mirrors the
// choice into the store. Unknown names log a warning and change nothing.
func (h *Host) ActivateCanvasService(name string) {
	h.mu.Lock()
	_, ok := h.canvasServices[name]
	if ok {
		h.activeService = name
	}
	h.mu.Unlock()

	if !ok {
		if h.logger != nil {
			h.logger.Warn("unknown canvas service", "service", name)
		}
		return
	}
	h.store.Set(KeyCanvasService, name)
}

// ActiveCanvasService returns the active canvas service, or nil.
func (h *Host) ActiveCanvasService() any {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.activeService == "" {
		return nil
	}
	return h.canvasServices[h.activeService]
}

// SetColorMode notifies every registered tool that declares a color-mode
// hook and records the mode in the store.
func (h *Host) SetColorMode(colorMode string) {
	h.store.Set(KeyColorMode, colorMode)
	for _, def := range h.registry.All() {
		if def.OnColorModeChange != nil {
			def.OnColorModeChange(colorMode)
		}
	}
}

// GlobalUndoRedoDisabled reports whether the active tool suspends the shared
// undo/redo stack.
func (h *Host) GlobalUndoRedoDisabled() bool {
	def := h.registry.Get(h.ActiveTool())
	return def != nil && def.DisablesGlobalUndoRedo
}

// Overlays returns the overlays of one tool.
func (h *Host) Overlays(toolID string) []tool.Overlay {
	return h.ui.Overlays(toolID)
}

// GlobalOverlays returns the always-visible overlays of every enabled tool.
func (h *Host) GlobalOverlays() []tool.Overlay {
	return h.ui.GlobalOverlays(h.enabledIDs())
}

// Panels returns the sidebar panels of every enabled tool, ordered.
func (h *Host) Panels() []tool.Panel {
	return h.ui.Panels(h.enabledIDs())
}

// ToolbarButtons returns the toolbar buttons of every enabled tool, ordered.
func (h *Host) ToolbarButtons() []tool.ToolbarButton {
	return h.ui.ToolbarButtons(h.enabledIDs())
}

// Actions returns the named actions of every enabled tool.
func (h *Host) Actions() []tool.Action {
	return h.ui.Actions(h.enabledIDs())
}

// Layers returns the z-ordered canvas render layers.
func (h *Host) Layers() []tool.CanvasLayer {
	return h.layers.Layers()
}

// Contributions returns every contribution at an extension point.
func (h *Host) Contributions(point contrib.Point) []tool.Contribution {
	return h.contribs.ByPoint(point)
}

// enabledIDs filters registered ids by enablement, keeping order.
func (h *Host) enabledIDs() []string {
	snap := h.store.Snapshot()
	var out []string
	for _, def := range h.registry.All() {
		if def.Enabled != nil && !def.Enabled(snap) {
			continue
		}
		out = append(out, def.ID)
	}
	return out
}

// CallToolAPI invokes a method on a tool's API object by name. A missing
// tool, API, or method logs a warning and returns nil rather than failing;
// panics inside the call are isolated the same way.
func (h *Host) CallToolAPI(toolID, method string, args ...any) (result any) {
	h.mu.Lock()
	api := h.apis[toolID]
	h.mu.Unlock()

	if api == nil {
		if h.logger != nil {
			h.logger.Warn("tool API not available", "tool", toolID, "method", method)
		}
		return nil
	}

	m := reflect.ValueOf(api).MethodByName(method)
	if !m.IsValid() {
		if h.logger != nil {
			h.logger.Warn("tool API method not found", "tool", toolID, "method", method)
		}
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			if h.logger != nil {
				h.logger.Error("tool API call panicked",
					"tool", toolID, "method", method, "panic", fmt.Sprint(r))
			}
		}
	}()

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(m.Type().In(i))
		} else {
			in[i] = reflect.ValueOf(arg)
		}
	}
	out := m.Call(in)
	if len(out) == 0 {
		return nil
	}
	return out[0].Interface()
}
