package host

import (
	"fmt"
	"sort"

	"github.com/inkline-editor/inkline/internal/tool"
	"github.com/inkline-editor/inkline/internal/tool/contrib"
	"github.com/inkline-editor/inkline/internal/tool/mode"
)

// Register runs the full registration flow for one tool, in fixed order:
// form-factor check, collision replacement, registry insert, canvas layers,
// store slices, API object, helpers, init, event bindings, contributions,
// UI entries, mode-machine rebuild, and active-tool resync.
func (h *Host) Register(def *tool.Definition) error {
	if def == nil {
		return tool.ErrNilDefinition
	}

	if h.formFactor == FormFactorMobile && !def.SupportsMobile {
		if h.logger != nil {
			h.logger.Info("tool skipped on this form factor", "tool", def.ID, "formFactor", h.formFactor)
		}
		return nil
	}

	// Replace-not-merge: a colliding id is fully unregistered first.
	if h.registry.Has(def.ID) {
		h.Unregister(def.ID)
	}

	if err := h.registry.Register(def); err != nil {
		return fmt.Errorf("register %q: %w", def.ID, err)
	}

	if len(def.CanvasLayers) > 0 {
		h.layers.Insert(def.ID, def.CanvasLayers)
	}

	h.installSlices(def)

	if def.CreateAPI != nil {
		api := def.CreateAPI(h.HandlerContext(def.ID))
		h.mu.Lock()
		h.apis[def.ID] = api
		h.mu.Unlock()
	}

	if def.RegisterHelpers != nil {
		for name, helper := range def.RegisterHelpers(h.FullContext(def.ID)) {
			h.RegisterHelper(name, helper)
		}
	}

	h.runInit(def)

	if err := h.interactions.Bind(def); err != nil {
		// Roll back so a configuration error leaves no partial
		// registration behind: the mirror teardown releases the registry
		// entry, layers, slices, API object, and init cleanup.
		h.Unregister(def.ID)
		return fmt.Errorf("register %q: %w", def.ID, err)
	}
	h.shortcuts.InvalidateCache()

	h.registerContributions(def)
	h.ui.Register(def)

	h.mu.Lock()
	batching := h.batching
	active := h.active
	h.mu.Unlock()

	if !batching {
		h.rebuildMachine()
	}

	if def.ID == active {
		h.syncPresentation()
	}
	return nil
}

// RegisterBatch registers several tools with a single mode-machine rebuild
// at the end. The first failure aborts the batch; already-registered tools
// stay registered.
func (h *Host) RegisterBatch(defs ...*tool.Definition) error {
	h.mu.Lock()
	h.batching = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.batching = false
		h.mu.Unlock()
		h.rebuildMachine()
	}()

	for _, def := range defs {
		if err := h.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Unregister tears a tool down in the mirror order of Register: init cleanup,
// contributions and UI entries, registry, layers, interactions, API object,
// store slices. Unknown ids are a no-op.
func (h *Host) Unregister(id string) {
	if !h.registry.Has(id) {
		return
	}

	h.mu.Lock()
	cleanup := h.cleanups[id]
	delete(h.cleanups, id)
	h.mu.Unlock()
	if cleanup != nil {
		cleanup()
	}

	h.contribs.RemoveAll(id)
	h.ui.Remove(id)

	h.registry.Unregister(id)
	h.layers.Remove(id)
	h.interactions.Unbind(id)
	h.shortcuts.InvalidateCache()

	h.mu.Lock()
	delete(h.apis, id)
	sliceNames := h.slices[id]
	delete(h.slices, id)
	batching := h.batching
	h.mu.Unlock()

	for _, name := range sliceNames {
		h.store.RemoveSlice(name)
	}

	if !batching {
		h.rebuildMachine()
	}
}

// installSlices applies a tool's state-slice factories in name order and
// records the installed names for teardown.
func (h *Host) installSlices(def *tool.Definition) {
	if len(def.Slices) == 0 {
		return
	}

	names := make([]string, 0, len(def.Slices))
	for name := range def.Slices {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		h.store.InstallSlice(name, def.Slices[name])
	}

	h.mu.Lock()
	h.slices[def.ID] = names
	h.mu.Unlock()
}

// runInit runs the tool's init hook with failure isolation and stores the
// returned cleanup. Only a synchronously returned cleanup is kept.
func (h *Host) runInit(def *tool.Definition) {
	if def.Init == nil {
		return
	}

	cleanup, err := def.Init(h.FullContext(def.ID))
	if err != nil {
		if h.logger != nil {
			h.logger.Error("tool init failed", "tool", def.ID, "error", err)
		}
		return
	}
	if cleanup == nil {
		return
	}

	h.mu.Lock()
	h.cleanups[def.ID] = cleanup
	h.mu.Unlock()
}

// registerContributions stores every keyed extension-point entry the
// definition declares.
func (h *Host) registerContributions(def *tool.Definition) {
	points := []struct {
		point   contrib.Point
		entries []tool.Contribution
	}{
		{contrib.PointExport, def.Exporters},
		{contrib.PointImport, def.Importers},
		{contrib.PointImportDefs, def.ImportDefs},
		{contrib.PointElement, def.ElementContributions},
		{contrib.PointSVGStructure, def.SVGStructureContributions},
		{contrib.PointDefsEditor, def.SVGDefsEditors},
		{contrib.PointAnimation, def.AnimationContributions},
		{contrib.PointUI, def.UIContributions},
	}
	for _, p := range points {
		for _, c := range p.entries {
			h.contribs.Register(def.ID, p.point, c)
		}
	}
}

// rebuildMachine rebuilds the mode machine from every registered tool's mode
// configuration plus the current global transition actions.
func (h *Host) rebuildMachine() {
	defs := h.registry.All()
	configs := make([]mode.Config, 0, len(defs))
	for _, def := range defs {
		if def.ModeConfig == nil {
			continue
		}
		configs = append(configs, mode.Config{
			ID:          mode.ID(def.ID),
			Description: def.ModeConfig.Description,
			Entry:       def.ModeConfig.Entry,
			Exit:        def.ModeConfig.Exit,
			ToggleTo:    mode.ID(def.ModeConfig.ToggleTo),
		})
	}
	h.machine.Rebuild(configs, h.lifecycle.GlobalTransitionActions())
}
