// Package input routes canvas pointer events to tool handlers.
//
// For every registered tool with a pointer handler, the interaction manager
// subscribes to the tool's declared event topics on the shared bus; wrapped
// listeners drop events not addressed to the owning tool before invoking the
// handler with a freshly built context. Double-click handlers (element,
// subpath, canvas) bind independently with the same filter.
//
// All subscriptions of a tool are tracked in a per-tool set and torn down
// atomically on re-registration or unregistration; teardown always precedes
// rebind. Keyboard shortcut indexing and dispatch live in the shortcut
// subpackage.
package input
