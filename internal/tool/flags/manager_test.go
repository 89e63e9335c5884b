package flags

import (
	"testing"

	"github.com/inkline-editor/inkline/internal/store"
	"github.com/inkline-editor/inkline/internal/tool"
)

type fixture struct {
	registry *tool.Registry
	store    *store.Store
	active   string
	manager  *Manager
}

func newFixture() *fixture {
	f := &fixture{
		registry: tool.NewRegistry(),
		store:    store.New(),
	}
	f.manager = NewManager(f.registry, f.store, func() string { return f.active })
	return f
}

func TestActiveToolFlags(t *testing.T) {
	f := newFixture()
	f.registry.Register(&tool.Definition{
		ID:            "pan",
		BehaviorFlags: tool.StaticFlags(tool.Flags{IsPanMode: true, HideSelectionOverlay: true}),
	})
	f.registry.Register(&tool.Definition{ID: "pencil"})

	f.active = "pan"
	if !f.manager.IsInPanMode() {
		t.Error("IsInPanMode() should be true for pan")
	}
	if !f.manager.ShouldHideSelectionOverlay() {
		t.Error("ShouldHideSelectionOverlay() should be true for pan")
	}

	f.active = "pencil"
	if f.manager.IsInPanMode() {
		t.Error("IsInPanMode() should default to false when the flag is absent")
	}

	f.active = "never-registered"
	if f.manager.IsInPanMode() {
		t.Error("unregistered active tool should resolve to zero flags")
	}
}

func TestSelectionModeDefault(t *testing.T) {
	f := newFixture()
	f.registry.Register(&tool.Definition{ID: "pencil"})
	f.active = "pencil"

	if got := f.manager.SelectionMode(); got != tool.SelectionElements {
		t.Errorf("SelectionMode() = %q, want elements default", got)
	}

	f.registry.Register(&tool.Definition{
		ID:            "subpath-edit",
		BehaviorFlags: tool.StaticFlags(tool.Flags{SelectionMode: tool.SelectionSubpaths}),
	})
	f.active = "subpath-edit"
	if got := f.manager.SelectionMode(); got != tool.SelectionSubpaths {
		t.Errorf("SelectionMode() = %q, want subpaths", got)
	}
}

func TestDynamicFlags(t *testing.T) {
	f := newFixture()
	f.registry.Register(&tool.Definition{
		ID: "measure",
		BehaviorFlags: tool.DynamicFlags(func(s store.Snapshot) tool.Flags {
			return tool.Flags{ShowPointFeedback: s.Bool("measure.live")}
		}),
	})
	f.active = "measure"

	if f.manager.ShouldShowPointFeedback() {
		t.Error("dynamic flag should be false before state is set")
	}
	f.store.Set("measure.live", true)
	if !f.manager.ShouldShowPointFeedback() {
		t.Error("dynamic flag should track state changes")
	}
}

func TestAggregatePreventSelection(t *testing.T) {
	f := newFixture()

	// Zero registered tools: false.
	if f.manager.ShouldPreventSelection() {
		t.Error("ShouldPreventSelection() should be false with no tools")
	}

	f.registry.Register(&tool.Definition{ID: "select"})
	if f.manager.ShouldPreventSelection() {
		t.Error("ShouldPreventSelection() should be false when no tool sets it")
	}

	f.registry.Register(&tool.Definition{
		ID:            "pen",
		BehaviorFlags: tool.StaticFlags(tool.Flags{PreventsSelection: true}),
	})
	// Any registered tool's flag counts, not just the active one.
	f.active = "select"
	if !f.manager.ShouldPreventSelection() {
		t.Error("ShouldPreventSelection() should be true when any enabled tool sets it")
	}
}

func TestAggregateSkipsDisabledTools(t *testing.T) {
	f := newFixture()
	f.registry.Register(&tool.Definition{
		ID:            "mobile-only",
		BehaviorFlags: tool.StaticFlags(tool.Flags{PreventsSubpathInteraction: true}),
		Enabled:       func(s store.Snapshot) bool { return s.Bool("form.mobile") },
	})

	if f.manager.ShouldPreventSubpathInteraction() {
		t.Error("disabled tool flags should not aggregate")
	}
	f.store.Set("form.mobile", true)
	if !f.manager.ShouldPreventSubpathInteraction() {
		t.Error("enabled tool flags should aggregate")
	}
}

func TestClearSubpathsDefaultPolicy(t *testing.T) {
	f := newFixture()
	f.registry.Register(&tool.Definition{ID: BaseSelectTool})
	f.registry.Register(&tool.Definition{ID: "pencil"})

	f.active = BaseSelectTool
	if !f.manager.ShouldClearSubpathsOnElementSelect() {
		t.Error("default policy should clear when the base select tool is active")
	}

	f.active = "pencil"
	if f.manager.ShouldClearSubpathsOnElementSelect() {
		t.Error("default policy should not clear for other tools")
	}
}

func TestClearSubpathsExplicitOverride(t *testing.T) {
	f := newFixture()
	never := false
	always := true
	f.registry.Register(&tool.Definition{
		ID:            BaseSelectTool,
		BehaviorFlags: tool.StaticFlags(tool.Flags{ClearsSubpathsOnElementSelect: &never}),
	})
	f.registry.Register(&tool.Definition{
		ID:            "shape",
		BehaviorFlags: tool.StaticFlags(tool.Flags{ClearsSubpathsOnElementSelect: &always}),
	})

	f.active = BaseSelectTool
	if f.manager.ShouldClearSubpathsOnElementSelect() {
		t.Error("explicit false should override the select-tool default")
	}

	f.active = "shape"
	if !f.manager.ShouldClearSubpathsOnElementSelect() {
		t.Error("explicit true should override the non-select default")
	}
}
