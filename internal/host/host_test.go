package host

import (
	"errors"
	"testing"

	"github.com/inkline-editor/inkline/internal/event"
	"github.com/inkline-editor/inkline/internal/input"
	"github.com/inkline-editor/inkline/internal/store"
	"github.com/inkline-editor/inkline/internal/tool"
	"github.com/inkline-editor/inkline/internal/tool/mode"
)

func newHost() *Host {
	return New(Options{})
}

func modeDef(id string, entry, exit []string, toggleTo string) *tool.Definition {
	return &tool.Definition{
		ID: id,
		ModeConfig: &tool.ModeConfig{
			Entry:    entry,
			Exit:     exit,
			ToggleTo: toggleTo,
		},
	}
}

func TestActivationScenario(t *testing.T) {
	h := newHost()

	var ran []string
	record := func(id string) func() error {
		return func() error {
			ran = append(ran, id)
			return nil
		}
	}
	h.RegisterLifecycleHandler("select.exit", record("select.exit"), false)
	h.RegisterLifecycleHandler("edit.enter", record("edit.enter"), false)
	h.RegisterLifecycleHandler("global.clear", record("global.clear"), true)

	if err := h.RegisterBatch(
		modeDef("select", nil, []string{"select.exit"}, ""),
		modeDef("pan", nil, nil, "select"),
		modeDef("edit", []string{"edit.enter"}, nil, ""),
	); err != nil {
		t.Fatalf("RegisterBatch() error = %v", err)
	}

	h.ActivateTool("select")

	res := h.ActivateTool("pan")
	if !res.Changed || res.Mode != "pan" || res.Reason != mode.ReasonSwitch {
		t.Fatalf("activate pan = %+v, want switch to pan", res)
	}

	// Re-activating pan toggles back to select.
	res = h.ActivateTool("pan")
	if res.Reason != mode.ReasonToggleFallback || res.Mode != "select" {
		t.Fatalf("re-activate pan = %+v, want toggle-fallback to select", res)
	}

	ran = nil
	res = h.ActivateTool("edit")
	if !res.Changed || res.Mode != "edit" {
		t.Fatalf("activate edit = %+v, want switch to edit", res)
	}
	want := []string{"select.exit", "global.clear", "edit.enter"}
	if len(ran) != len(want) {
		t.Fatalf("actions ran = %v, want %v", ran, want)
	}
	for i := range want {
		if ran[i] != want[i] {
			t.Fatalf("actions ran = %v, want %v", ran, want)
		}
	}

	if got := h.ActiveTool(); got != "edit" {
		t.Errorf("ActiveTool() = %q, want edit", got)
	}
	if got := h.Store().GetString(KeyActiveTool); got != "edit" {
		t.Errorf("store active tool = %q, want edit", got)
	}
}

func TestNoopReactivation(t *testing.T) {
	h := newHost()
	h.Register(modeDef("select", nil, nil, ""))

	h.ActivateTool("select")
	res := h.ActivateTool("select")
	if res.Changed || res.Reason != mode.ReasonNoop || len(res.Actions) != 0 {
		t.Errorf("re-activation = %+v, want noop with no actions", res)
	}
}

func TestReplaceOnDuplicateRegistration(t *testing.T) {
	h := newHost()

	cleaned := false
	first := &tool.Definition{
		ID:                    "pencil",
		KeyboardShortcutScope: tool.ScopeGlobal,
		KeyboardShortcuts: map[string]tool.Shortcut{
			"p": {Handler: func(*tool.Context, tool.ShortcutEvent) error { return nil }},
		},
		CanvasLayers: []tool.CanvasLayer{{ID: "pencil-preview"}},
		Init: func(*tool.Context) (tool.CleanupFunc, error) {
			return func() { cleaned = true }, nil
		},
	}
	h.Register(first)
	h.Register(&tool.Definition{ID: "pencil", CanvasLayers: []tool.CanvasLayer{{ID: "pencil-v2"}}})

	if !cleaned {
		t.Error("previous occupant's init cleanup should run on replacement")
	}
	if n := len(h.Shortcuts().All()); n != 0 {
		t.Errorf("shortcut candidates = %d, want 0 (old entries gone)", n)
	}
	layers := h.Layers()
	if len(layers) != 1 || layers[0].ID != "pencil-v2" {
		t.Errorf("layers = %v, want only pencil-v2", layers)
	}
	if h.Plugin("pencil") == nil {
		t.Error("replacement should leave the new definition registered")
	}
}

func TestUnregisterTearsDownFully(t *testing.T) {
	h := newHost()

	fired := 0
	cleaned := false
	h.Register(&tool.Definition{
		ID: "pencil",
		Handler: func(*tool.Context, event.PointerEvent) error {
			fired++
			return nil
		},
		Slices: map[string]store.SliceFactory{
			"pencil": func() map[string]any { return map[string]any{"width": 2} },
		},
		Init: func(*tool.Context) (tool.CleanupFunc, error) {
			return func() { cleaned = true }, nil
		},
	})

	if h.Store().Get("pencil.width") == nil {
		t.Fatal("slice should be installed during registration")
	}

	h.Unregister("pencil")
	h.Unregister("pencil") // unknown id is a no-op

	if !cleaned {
		t.Error("init cleanup should run during unregistration")
	}
	if h.Plugin("pencil") != nil || h.HasTool("pencil") {
		t.Error("definition should be gone after unregister")
	}
	if len(h.All()) != 0 {
		t.Errorf("All() = %v, want empty", h.All())
	}
	if h.Store().Get("pencil.width") != nil {
		t.Error("store slice should be removed on unregister")
	}

	h.Bus().Publish(event.TopicPointerDown, event.PointerEvent{Topic: event.TopicPointerDown, ToolID: "pencil"})
	if fired != 0 {
		t.Errorf("handler fired %d times after unregister, want 0", fired)
	}
}

func TestFormFactorSkip(t *testing.T) {
	h := New(Options{FormFactor: FormFactorMobile})

	if err := h.Register(&tool.Definition{ID: "measure"}); err != nil {
		t.Fatalf("Register() error = %v, want silent skip", err)
	}
	if h.HasTool("measure") {
		t.Error("desktop-only tool should be skipped on mobile")
	}

	h.Register(&tool.Definition{ID: "pan", SupportsMobile: true})
	if !h.HasTool("pan") {
		t.Error("mobile-capable tool should register on mobile")
	}
}

type counterAPI struct{ n int }

func (a *counterAPI) Increment(by int) int {
	a.n += by
	return a.n
}

func TestCallToolAPI(t *testing.T) {
	h := newHost()
	h.Register(&tool.Definition{
		ID:        "counter",
		CreateAPI: func(*tool.Context) any { return &counterAPI{} },
	})

	if got := h.CallToolAPI("counter", "Increment", 3); got != 3 {
		t.Errorf("CallToolAPI() = %v, want 3", got)
	}
	if got := h.CallToolAPI("counter", "Missing"); got != nil {
		t.Errorf("missing method should return nil, got %v", got)
	}
	if got := h.CallToolAPI("nobody", "Increment", 1); got != nil {
		t.Errorf("missing tool should return nil, got %v", got)
	}
}

func TestHelpersMergedFromDefinition(t *testing.T) {
	h := newHost()
	h.Register(&tool.Definition{
		ID: "geometry",
		RegisterHelpers: func(*tool.Context) map[string]any {
			return map[string]any{"midpoint": func(a, b float64) float64 { return (a + b) / 2 }}
		},
	})

	if h.Helper("midpoint") == nil {
		t.Error("helper should be merged into the shared table")
	}
	if len(h.AllHelpers()) != 1 {
		t.Errorf("AllHelpers() = %d entries, want 1", len(h.AllHelpers()))
	}
}

func TestCursorFollowsActiveTool(t *testing.T) {
	h := newHost()
	h.Register(&tool.Definition{ID: "pencil", Metadata: tool.Metadata{Cursor: "crosshair"}})

	if got := h.Cursor(); got != DefaultCursor {
		t.Errorf("Cursor() = %q before activation, want %q", got, DefaultCursor)
	}
	h.ActivateTool("pencil")
	if got := h.Cursor(); got != "crosshair" {
		t.Errorf("Cursor() = %q, want crosshair", got)
	}
	if got := h.Store().GetString(KeyCursor); got != "crosshair" {
		t.Errorf("store cursor = %q, want crosshair", got)
	}
}

func TestPanelsFilterDisabledTools(t *testing.T) {
	h := newHost()
	h.Register(&tool.Definition{
		ID:            "layers",
		SidebarPanels: []tool.Panel{{ID: "layers-panel", Order: 2}},
	})
	h.Register(&tool.Definition{
		ID:            "gated",
		SidebarPanels: []tool.Panel{{ID: "gated-panel", Order: 1}},
		Enabled: func(snap store.Snapshot) bool {
			return snap.Bool("feature.gated")
		},
	})

	panels := h.Panels()
	if len(panels) != 1 || panels[0].ID != "layers-panel" {
		t.Errorf("Panels() = %v, want only layers-panel", panels)
	}

	h.Store().Set("feature.gated", true)
	panels = h.Panels()
	if len(panels) != 2 || panels[0].ID != "gated-panel" {
		t.Errorf("Panels() = %v, want gated-panel first by order", panels)
	}
}

func TestCanvasServices(t *testing.T) {
	h := newHost()

	h.ActivateCanvasService("grid") // unknown: no-op
	if h.ActiveCanvasService() != nil {
		t.Error("unknown service activation should change nothing")
	}

	h.RegisterCanvasService("grid", "grid-service")
	h.ActivateCanvasService("grid")
	if got := h.ActiveCanvasService(); got != "grid-service" {
		t.Errorf("ActiveCanvasService() = %v, want grid-service", got)
	}
	if got := h.Store().GetString(KeyCanvasService); got != "grid" {
		t.Errorf("store canvas service = %q, want grid", got)
	}
}

func TestRegistrationChangeListener(t *testing.T) {
	h := newHost()

	changes := 0
	cancel := h.OnRegistrationChange(func() { changes++ })

	h.Register(&tool.Definition{ID: "a"})
	h.Unregister("a")
	if changes != 2 {
		t.Errorf("listener fired %d times, want 2", changes)
	}

	cancel()
	h.Register(&tool.Definition{ID: "b"})
	if changes != 2 {
		t.Errorf("listener fired after cancel, count = %d", changes)
	}
}

type fixedController struct{}

func (fixedController) ScreenToCanvas(x, y float64) (float64, float64) { return x / 2, y / 2 }
func (fixedController) CanvasToScreen(x, y float64) (float64, float64) { return x * 2, y * 2 }
func (fixedController) Zoom() float64                                  { return 2 }

func TestTransformsRequireController(t *testing.T) {
	h := newHost()

	if _, err := h.Transforms(); !errors.Is(err, ErrControllerNotAttached) {
		t.Errorf("Transforms() error = %v, want ErrControllerNotAttached", err)
	}
	if ctx := h.FullContext("any"); ctx.Canvas != nil {
		t.Error("full context should omit canvas before a controller is attached")
	}

	h.AttachRenderController(fixedController{})
	ctx := h.FullContext("any")
	if ctx.Canvas == nil {
		t.Fatal("full context should carry canvas transforms once attached")
	}
	if cx, _ := ctx.Canvas.ScreenToCanvas(10, 0); cx != 5 {
		t.Errorf("ScreenToCanvas(10, 0) x = %v, want 5", cx)
	}
}

func TestTotalTransitionOverUnknownModes(t *testing.T) {
	h := newHost()

	res := h.ActivateTool("never-registered")
	if !res.Changed || res.Mode != "never-registered" {
		t.Errorf("activating an unknown mode = %+v, want a plain switch", res)
	}
}

func TestColorModeNotification(t *testing.T) {
	h := newHost()

	var seen string
	h.Register(&tool.Definition{
		ID:                "swatch",
		OnColorModeChange: func(m string) { seen = m },
	})

	h.SetColorMode("dark")
	if seen != "dark" {
		t.Errorf("color mode hook saw %q, want dark", seen)
	}
	if got := h.Store().GetString(KeyColorMode); got != "dark" {
		t.Errorf("store color mode = %q, want dark", got)
	}
}

func TestRegisterRollsBackOnBindFailure(t *testing.T) {
	h := newHost()
	// Detach the bus so binding the pointer handler fails mid-flow.
	h.interactions = input.NewManager(nil, h.HandlerContext)

	def := &tool.Definition{
		ID:      "broken",
		Handler: func(*tool.Context, event.PointerEvent) error { return nil },
		Slices: map[string]store.SliceFactory{
			"broken": func() map[string]any { return map[string]any{"on": true} },
		},
	}

	err := h.Register(def)
	if !errors.Is(err, input.ErrBusNotAttached) {
		t.Fatalf("Register() error = %v, want ErrBusNotAttached", err)
	}
	if h.HasTool("broken") {
		t.Error("failed registration should not stay in the registry")
	}
	if h.Store().Get("broken.on") != nil {
		t.Error("failed registration should remove its slices")
	}
}
