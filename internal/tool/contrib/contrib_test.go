package contrib

import (
	"testing"

	"github.com/inkline-editor/inkline/internal/tool"
)

func TestRegistryRegisterGet(t *testing.T) {
	r := NewRegistry()

	r.Register("export-tool", PointExport, tool.Contribution{SubID: "svg", Payload: 1})

	c, ok := r.Get("export-tool", PointExport, "svg")
	if !ok || c.Payload != 1 {
		t.Errorf("Get() = %v, %v; want payload 1", c, ok)
	}
	if _, ok := r.Get("export-tool", PointImport, "svg"); ok {
		t.Error("Get() should miss on a different point")
	}
}

func TestRegistryKeyedReplace(t *testing.T) {
	r := NewRegistry()

	r.Register("t", PointExport, tool.Contribution{SubID: "svg", Payload: "old"})
	r.Register("t", PointExport, tool.Contribution{SubID: "svg", Payload: "new"})
	r.Register("t", PointExport, tool.Contribution{SubID: "png", Payload: "png"})

	if got := len(r.ByPoint(PointExport)); got != 2 {
		t.Errorf("ByPoint() = %d entries, want 2 (same sub-id replaces)", got)
	}
	c, _ := r.Get("t", PointExport, "svg")
	if c.Payload != "new" {
		t.Errorf("payload = %v, want new", c.Payload)
	}
}

func TestRegistryMultipleSubIDsEnumerateOnce(t *testing.T) {
	r := NewRegistry()

	r.Register("export-tool", PointExport, tool.Contribution{SubID: "svg"})
	r.Register("export-tool", PointExport, tool.Contribution{SubID: "png"})
	r.Register("other", PointExport, tool.Contribution{SubID: "pdf"})

	got := r.ByPoint(PointExport)
	wantSubIDs := []string{"png", "svg", "pdf"}
	if len(got) != len(wantSubIDs) {
		t.Fatalf("ByPoint() = %d entries, want %d", len(got), len(wantSubIDs))
	}
	for i, want := range wantSubIDs {
		if got[i].SubID != want {
			t.Errorf("ByPoint()[%d] = %q, want %q", i, got[i].SubID, want)
		}
	}
}

func TestRegistryRemoveAll(t *testing.T) {
	r := NewRegistry()
	r.Register("a", PointExport, tool.Contribution{SubID: "svg"})
	r.Register("a", PointDefsEditor, tool.Contribution{SubID: "gradient"})
	r.Register("b", PointExport, tool.Contribution{SubID: "png"})

	r.RemoveAll("a")

	if r.CountFor("a") != 0 {
		t.Errorf("CountFor(a) = %d, want 0", r.CountFor("a"))
	}
	if got := len(r.ByPoint(PointExport)); got != 1 {
		t.Errorf("ByPoint(export) = %d entries, want 1", got)
	}
	if got := len(r.ByPoint(PointDefsEditor)); got != 0 {
		t.Errorf("ByPoint(defs-editor) = %d entries, want 0", got)
	}
}

func TestLayerManagerZOrder(t *testing.T) {
	m := NewLayerManager()

	m.Insert("grid", []tool.CanvasLayer{{ID: "grid", ZIndex: -10}})
	m.Insert("pencil", []tool.CanvasLayer{
		{ID: "strokes", ZIndex: 5},
		{ID: "preview", ZIndex: 20},
	})
	m.Insert("measure", []tool.CanvasLayer{{ID: "guides", ZIndex: 5}})

	layers := m.Layers()
	wantIDs := []string{"grid", "strokes", "guides", "preview"}
	if len(layers) != len(wantIDs) {
		t.Fatalf("Layers() = %d entries, want %d", len(layers), len(wantIDs))
	}
	for i, id := range wantIDs {
		if layers[i].ID != id {
			t.Fatalf("layer order = %v..., want %v", layers[i].ID, wantIDs)
		}
	}
}

func TestLayerManagerRemove(t *testing.T) {
	m := NewLayerManager()
	m.Insert("pencil", []tool.CanvasLayer{{ID: "strokes"}})

	if !m.HasTool("pencil") {
		t.Error("HasTool() should be true after Insert")
	}
	m.Remove("pencil")
	if m.HasTool("pencil") {
		t.Error("HasTool() should be false after Remove")
	}
	if len(m.Layers()) != 0 {
		t.Error("Layers() should be empty after Remove")
	}
}

func TestLayerManagerReplace(t *testing.T) {
	m := NewLayerManager()
	m.Insert("pencil", []tool.CanvasLayer{{ID: "old"}})
	m.Insert("pencil", []tool.CanvasLayer{{ID: "new"}})

	layers := m.Layers()
	if len(layers) != 1 || layers[0].ID != "new" {
		t.Errorf("Layers() = %v, want single new layer", layers)
	}
}

func TestUIManagerPanelsSorted(t *testing.T) {
	m := NewUIManager()
	m.Register(&tool.Definition{
		ID:            "text",
		SidebarPanels: []tool.Panel{{ID: "fonts", Order: 2}},
	})
	m.Register(&tool.Definition{
		ID:            "shape",
		SidebarPanels: []tool.Panel{{ID: "geometry", Order: 1}},
	})

	panels := m.Panels([]string{"text", "shape"})
	if len(panels) != 2 || panels[0].ID != "geometry" || panels[1].ID != "fonts" {
		t.Errorf("Panels() = %v, want sorted by Order", panels)
	}

	// Tools not in the query list are excluded.
	panels = m.Panels([]string{"shape"})
	if len(panels) != 1 {
		t.Errorf("Panels(shape) = %d entries, want 1", len(panels))
	}
}

func TestUIManagerOverlays(t *testing.T) {
	m := NewUIManager()
	m.Register(&tool.Definition{
		ID: "measure",
		Overlays: []tool.Overlay{
			{ID: "ruler", Global: true},
			{ID: "readout"},
		},
	})

	if got := len(m.Overlays("measure")); got != 2 {
		t.Errorf("Overlays() = %d, want 2", got)
	}
	global := m.GlobalOverlays([]string{"measure"})
	if len(global) != 1 || global[0].ID != "ruler" {
		t.Errorf("GlobalOverlays() = %v, want [ruler]", global)
	}
}

func TestUIManagerRemove(t *testing.T) {
	m := NewUIManager()
	m.Register(&tool.Definition{
		ID:                    "shape",
		SidebarPanels:         []tool.Panel{{ID: "p"}},
		SidebarToolbarButtons: []tool.ToolbarButton{{ID: "b"}},
		Actions:               []tool.Action{{ID: "a"}},
	})

	m.Remove("shape")

	if len(m.Panels([]string{"shape"})) != 0 {
		t.Error("panels should be gone after Remove")
	}
	if len(m.ToolbarButtons([]string{"shape"})) != 0 {
		t.Error("buttons should be gone after Remove")
	}
	if len(m.Actions([]string{"shape"})) != 0 {
		t.Error("actions should be gone after Remove")
	}
}
