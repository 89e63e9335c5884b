// Package tool defines the editing-tool contract and the tool registry.
//
// A tool (pencil, pen, shape, text, measure, ...) is described by a
// Definition: display metadata, an optional mode configuration, behavior
// flags, pointer and shortcut handlers, UI contributions, and lifecycle
// hooks. Definitions are immutable once registered; registering the same id
// again fully replaces the previous occupant.
//
// The registry stores definitions in registration order and memoizes its
// enumeration snapshot, invalidating it on every mutation. Registration is
// rare relative to reads (render loop, shortcut dispatch), so repeated All()
// calls between mutations are O(1).
//
// Subpackages implement the cooperating managers of the runtime:
//
//	mode      - pure transition machine over mode configurations
//	lifecycle - named-action pub/sub and global transition actions
//	flags     - per-tool and aggregate behavior-flag resolution
//	contrib   - panels, overlays, toolbar buttons, layers, extension points
//	script    - Lua-scripted tool definitions with manifests and hot reload
package tool
