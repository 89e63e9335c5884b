package app

import (
	"github.com/inkline-editor/inkline/internal/event"
	"github.com/inkline-editor/inkline/internal/host"
	"github.com/inkline-editor/inkline/internal/store"
	"github.com/inkline-editor/inkline/internal/tool"
	"github.com/inkline-editor/inkline/internal/tool/flags"
	"github.com/inkline-editor/inkline/internal/tool/lifecycle"
)

// Store keys the builtin tools work with.
const (
	keySubpathSelection = "selection.subpaths"
	keyHoveredElement   = "canvas.hover"
	keyStrokeCount      = "pencil.strokes"
	keyLastPointX       = "pencil.lastX"
	keyLastPointY       = "pencil.lastY"
)

// registerBuiltins installs the builtin select, pan, and pencil tools plus
// the lifecycle handlers they rely on.
func registerBuiltins(h *host.Host) error {
	h.RegisterLifecycleHandler(lifecycle.ActionClearSubpathSelection, func() error {
		h.Store().Delete(keySubpathSelection)
		return nil
	}, false)

	// Hover state is stale after any transition, whatever tools are involved.
	h.RegisterLifecycleHandler("hover.clear", func() error {
		h.Store().Delete(keyHoveredElement)
		return nil
	}, true)

	return h.RegisterBatch(selectTool(h), panTool(h), pencilTool(h))
}

// selectTool is the base selection tool; leaving it clears the subpath
// selection so edit modes start clean.
func selectTool(h *host.Host) *tool.Definition {
	return &tool.Definition{
		ID: flags.BaseSelectTool,
		Metadata: tool.Metadata{
			Label:  "Select",
			Cursor: "default",
		},
		ModeConfig: &tool.ModeConfig{
			Description: "Select and move elements",
			Exit:        []string{lifecycle.ActionClearSubpathSelection},
		},
		Handler: func(_ *tool.Context, ev event.PointerEvent) error {
			if ev.ElementID != "" {
				h.Store().Set(keyHoveredElement, ev.ElementID)
			}
			return nil
		},
		KeyboardShortcutScope: tool.ScopeGlobal,
		KeyboardShortcuts: map[string]tool.Shortcut{
			"v": activate(h, flags.BaseSelectTool),
		},
	}
}

// panTool re-activates back to select (toggle fallback) and pans the canvas.
func panTool(h *host.Host) *tool.Definition {
	return &tool.Definition{
		ID: "pan",
		Metadata: tool.Metadata{
			Label:  "Pan",
			Cursor: "grab",
		},
		ModeConfig: &tool.ModeConfig{
			Description: "Pan the canvas",
			ToggleTo:    flags.BaseSelectTool,
		},
		BehaviorFlags: tool.StaticFlags(tool.Flags{
			IsPanMode:            true,
			HideSelectionOverlay: true,
		}),
		SupportsMobile:        true,
		KeyboardShortcutScope: tool.ScopeGlobal,
		KeyboardShortcuts: map[string]tool.Shortcut{
			"h": activate(h, "pan"),
		},
	}
}

// pencilTool draws freehand strokes, tracking progress in its store slice.
func pencilTool(h *host.Host) *tool.Definition {
	return &tool.Definition{
		ID: "pencil",
		Metadata: tool.Metadata{
			Label:  "Pencil",
			Cursor: "crosshair",
		},
		ModeConfig: &tool.ModeConfig{
			Description: "Freehand drawing",
		},
		BehaviorFlags: tool.StaticFlags(tool.Flags{
			SelectionMode:     tool.SelectionPoints,
			ShowPointFeedback: true,
			PreventsSelection: true,
		}),
		SubscribedEvents: []event.Topic{
			event.TopicPointerDown,
			event.TopicPointerMove,
			event.TopicPointerUp,
		},
		Handler: func(ctx *tool.Context, ev event.PointerEvent) error {
			if err := ctx.Require(tool.CapStore); err != nil {
				return err
			}
			if ev.Topic == event.TopicPointerDown {
				ctx.Store.Update(keyStrokeCount, func(old any) any {
					n, _ := old.(int)
					return n + 1
				})
			}
			ctx.Store.Set(keyLastPointX, ev.X)
			ctx.Store.Set(keyLastPointY, ev.Y)
			return nil
		},
		Slices: map[string]store.SliceFactory{
			"pencil": func() map[string]any {
				return map[string]any{"width": 2.0, "smoothing": 0.5}
			},
		},
		KeyboardShortcutScope: tool.ScopeGlobal,
		KeyboardShortcuts: map[string]tool.Shortcut{
			"p": activate(h, "pencil"),
		},
	}
}

// activate builds a shortcut that switches to a tool.
func activate(h *host.Host, id string) tool.Shortcut {
	return tool.Shortcut{
		Handler: func(*tool.Context, tool.ShortcutEvent) error {
			h.ActivateTool(id)
			return nil
		},
	}
}
