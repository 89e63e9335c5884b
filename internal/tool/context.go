package tool

import (
	"fmt"

	"github.com/inkline-editor/inkline/internal/event"
	"github.com/inkline-editor/inkline/internal/store"
)

// PointerState tracks an in-progress pointer interaction.
type PointerState struct {
	Down           bool
	StartX, StartY float64
	LastX, LastY   float64
}

// CanvasTransforms exposes coordinate conversion for the attached rendering
// surface. It is only present on contexts built while a surface is attached.
type CanvasTransforms struct {
	ScreenToCanvas func(x, y float64) (cx, cy float64)
	CanvasToScreen func(cx, cy float64) (x, y float64)
	Zoom           func() float64
}

// EmitFunc publishes an event onto the shared bus.
type EmitFunc func(topic event.Topic, payload any)

// Capability names a facility a context may carry.
type Capability string

// Context capabilities.
const (
	CapStore   Capability = "store"
	CapAPI     Capability = "api"
	CapCanvas  Capability = "canvas"
	CapHelpers Capability = "helpers"
)

// Context is the object passed into every tool callback. It is assembled by
// the host per call site to expose only the access that site guarantees.
type Context struct {
	// Store is read/write/subscribe access to shared host state.
	Store *store.Store

	// API is the tool's own API object, when the tool declares one.
	API any

	// Helpers is the shared helper-function table.
	Helpers map[string]any

	// Pointer is the current pointer-interaction state, when relevant.
	Pointer *PointerState

	// Canvas carries coordinate transforms while a rendering surface is
	// attached; nil otherwise.
	Canvas *CanvasTransforms

	// Emit publishes onto the shared event bus; nil when no bus is
	// attached.
	Emit EmitFunc
}

// Require asserts that the context carries a named capability. Call sites
// that depend on a specific capability subset use it defensively.
func (c *Context) Require(cap Capability) error {
	switch cap {
	case CapStore:
		if c.Store == nil {
			return fmt.Errorf("%w: %s", ErrMissingCapability, cap)
		}
	case CapAPI:
		if c.API == nil {
			return fmt.Errorf("%w: %s", ErrMissingCapability, cap)
		}
	case CapCanvas:
		if c.Canvas == nil {
			return fmt.Errorf("%w: %s", ErrMissingCapability, cap)
		}
	case CapHelpers:
		if c.Helpers == nil {
			return fmt.Errorf("%w: %s", ErrMissingCapability, cap)
		}
	default:
		return fmt.Errorf("%w: unknown capability %q", ErrMissingCapability, cap)
	}
	return nil
}

// Helper returns a named helper from the shared table, or nil.
func (c *Context) Helper(name string) any {
	if c.Helpers == nil {
		return nil
	}
	return c.Helpers[name]
}
