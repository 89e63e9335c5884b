package host

import (
	"github.com/inkline-editor/inkline/internal/event"
	"github.com/inkline-editor/inkline/internal/tool"
)

// RenderController is the rendering surface's coordinate-transform contract.
// It is attached after construction because the surface comes up later in
// host initialization.
type RenderController interface {
	ScreenToCanvas(x, y float64) (cx, cy float64)
	CanvasToScreen(cx, cy float64) (x, y float64)
	Zoom() float64
}

// AttachRenderController attaches the rendering surface. Full contexts built
// afterwards carry canvas transforms.
func (h *Host) AttachRenderController(rc RenderController) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.controller = rc
}

// Transforms returns the canvas coordinate transforms, or
// ErrControllerNotAttached when no rendering surface is attached yet.
func (h *Host) Transforms() (*tool.CanvasTransforms, error) {
	h.mu.Lock()
	rc := h.controller
	h.mu.Unlock()

	if rc == nil {
		return nil, ErrControllerNotAttached
	}
	return &tool.CanvasTransforms{
		ScreenToCanvas: rc.ScreenToCanvas,
		CanvasToScreen: rc.CanvasToScreen,
		Zoom:           rc.Zoom,
	}, nil
}

// HandlerContext builds the minimal context passed into pointer and shortcut
// handlers: store access, the tool's API object, the shared helper table, the
// pointer state, and event emission.
func (h *Host) HandlerContext(toolID string) *tool.Context {
	h.mu.Lock()
	api := h.apis[toolID]
	helpers := h.copyHelpersLocked()
	h.mu.Unlock()

	return &tool.Context{
		Store:   h.store,
		API:     api,
		Helpers: helpers,
		Pointer: h.pointer,
		Emit:    h.emit,
	}
}

// FullContext builds a handler context that additionally carries canvas
// transforms when a rendering surface is attached.
func (h *Host) FullContext(toolID string) *tool.Context {
	ctx := h.HandlerContext(toolID)
	if transforms, err := h.Transforms(); err == nil {
		ctx.Canvas = transforms
	}
	return ctx
}

// PointerState returns the shared pointer-interaction state. The input
// surface updates it; contexts expose it to handlers.
func (h *Host) PointerState() *tool.PointerState {
	return h.pointer
}

// emit publishes onto the shared bus.
func (h *Host) emit(topic event.Topic, payload any) {
	h.bus.Publish(topic, payload)
}

// copyHelpersLocked snapshots the helper table so handlers cannot observe
// concurrent mutation.
func (h *Host) copyHelpersLocked() map[string]any {
	out := make(map[string]any, len(h.helpers))
	for k, v := range h.helpers {
		out[k] = v
	}
	return out
}
