package tool

import (
	"github.com/inkline-editor/inkline/internal/event"
	"github.com/inkline-editor/inkline/internal/store"
)

// Metadata is the display metadata of a tool.
type Metadata struct {
	Label                  string
	Cursor                 string
	DisablePathInteraction bool
	PathCursorMode         string
}

// ModeConfig declares how a tool participates in mode transitions.
type ModeConfig struct {
	// Description is shown in mode pickers and status lines.
	Description string

	// Entry and Exit are lifecycle-action ids executed when the mode is
	// entered or left. Duplicates are allowed; actions must be idempotent.
	Entry []string
	Exit  []string

	// ToggleTo, when set, is the mode activated when this mode is
	// re-activated while already current.
	ToggleTo string

	// Resources are declared resource tags (snapping guides, measure
	// overlays, ...) the mode uses.
	Resources []string
}

// SelectionMode describes what kind of object a tool selects.
type SelectionMode string

// Selection modes.
const (
	SelectionElements SelectionMode = "elements"
	SelectionSubpaths SelectionMode = "subpaths"
	SelectionPoints   SelectionMode = "points"
)

// Flags are the per-tool capability flags that modify shared editing
// behavior. The zero value means "no flag set"; each flag is defaulted
// independently by the flags manager when absent.
type Flags struct {
	SelectionMode              SelectionMode
	PreventsSelection          bool
	PreventsSubpathInteraction bool
	IsPanMode                  bool
	IsSidebarPanelMode         bool
	HideSelectionOverlay       bool
	UsesObjectSnap             bool
	UsesMeasureSnap            bool
	NotifyOnSelectionChange    bool
	ShowPointFeedback          bool
	SkipSubpathMeasurements    bool

	// ClearsSubpathsOnElementSelect is tri-state: nil means "use the
	// default policy" (clear only when the base select tool is active).
	ClearsSubpathsOnElementSelect *bool
}

// FlagSource is a tagged variant: a static Flags record, or a function of
// the current host state. Resolve normalizes either form against a snapshot.
type FlagSource struct {
	static  *Flags
	dynamic func(store.Snapshot) Flags
}

// StaticFlags wraps a fixed flags record.
func StaticFlags(f Flags) FlagSource {
	return FlagSource{static: &f}
}

// DynamicFlags wraps a state-dependent flags function.
func DynamicFlags(fn func(store.Snapshot) Flags) FlagSource {
	return FlagSource{dynamic: fn}
}

// IsZero reports whether no flags were declared at all.
func (s FlagSource) IsZero() bool {
	return s.static == nil && s.dynamic == nil
}

// Resolve normalizes the source against a state snapshot. A zero source
// resolves to zero flags.
func (s FlagSource) Resolve(snap store.Snapshot) Flags {
	switch {
	case s.dynamic != nil:
		return s.dynamic(snap)
	case s.static != nil:
		return *s.static
	default:
		return Flags{}
	}
}

// PointerHandler handles a pointer or double-click event addressed to the
// owning tool.
type PointerHandler func(ctx *Context, ev event.PointerEvent) error

// ShortcutScope controls when a tool's shortcuts are live.
type ShortcutScope string

// Shortcut scopes.
const (
	// ScopeActiveTool shortcuts fire only while the owning tool is active.
	ScopeActiveTool ShortcutScope = "active-tool"
	// ScopeGlobal shortcuts fire regardless of the active tool.
	ScopeGlobal ShortcutScope = "global"
)

// ShortcutEvent is the keyboard event a shortcut handler receives.
type ShortcutEvent struct {
	// Combo is the normalized key combination that fired.
	Combo string

	// TargetEditable is true when the event target is a text-entry
	// context (input, textarea, content-editable).
	TargetEditable bool
}

// ShortcutFunc handles a dispatched keyboard shortcut.
type ShortcutFunc func(ctx *Context, ev ShortcutEvent) error

// Shortcut declares one keyboard shortcut of a tool.
type Shortcut struct {
	Handler ShortcutFunc

	// PreventDefault is tri-state; nil resolves to the default (true).
	PreventDefault *bool

	// StopPropagation defaults to false.
	StopPropagation bool

	// AllowWhileTyping permits firing when the event target is a
	// text-entry context. Defaults to false.
	AllowWhileTyping bool

	// When, if set, must return true for the handler to run. An error or
	// panic in the predicate counts as "does not pass".
	When func(ctx *Context) bool
}

// Overlay is a visual overlay contributed to the canvas chrome.
type Overlay struct {
	ID     string
	Global bool // visible regardless of the active tool
	View   any  // opaque widget handle, rendered by the UI layer
}

// CanvasLayer is a render layer composed into the canvas stack.
type CanvasLayer struct {
	ID     string
	ZIndex int
	View   any
}

// Panel is a sidebar panel contribution.
type Panel struct {
	ID    string
	Title string
	Order int
	View  any
}

// ToolbarButton is a sidebar toolbar button contribution.
type ToolbarButton struct {
	ID      string
	Label   string
	Icon    string
	Order   int
	OnPress func(ctx *Context)
}

// Action is a named command contributed by a tool.
type Action struct {
	ID    string
	Label string
	Run   func(ctx *Context) error
}

// Contribution is a keyed entry for one of the shared extension points
// (export, import, animation, SVG structure, defs editors, UI).
type Contribution struct {
	// SubID keys the contribution within its point; a tool may register
	// at most one contribution per (point, SubID).
	SubID   string
	Payload any
}

// CleanupFunc releases a resource acquired during registration or init.
// Callers never call it twice.
type CleanupFunc func()

// InitFunc runs after a tool is fully wired; the returned cleanup (may be
// nil) runs first during unregistration.
type InitFunc func(ctx *Context) (CleanupFunc, error)

// Definition describes a tool. It is immutable once registered.
type Definition struct {
	// ID is the stable unique identifier; it doubles as the tool's mode id.
	ID string

	Metadata Metadata

	// ModeConfig is optional; a tool without one still activates (an
	// implicit default config carrying its own id is synthesized).
	ModeConfig *ModeConfig

	// BehaviorFlags are optional static or state-derived capability flags.
	BehaviorFlags FlagSource

	// Handler receives the tool's subscribed pointer events. When
	// SubscribedEvents is empty, pointer-down is assumed.
	Handler          PointerHandler
	SubscribedEvents []event.Topic

	// Specialized double-click handlers, each bound independently.
	OnElementDoubleClick PointerHandler
	OnSubpathDoubleClick PointerHandler
	OnCanvasDoubleClick  PointerHandler

	// KeyboardShortcuts maps key combinations to shortcut declarations.
	KeyboardShortcuts     map[string]Shortcut
	KeyboardShortcutScope ShortcutScope // defaults to ScopeActiveTool

	// UI contributions.
	Overlays              []Overlay
	CanvasLayers          []CanvasLayer
	SidebarPanels         []Panel
	SidebarToolbarButtons []ToolbarButton
	Actions               []Action

	// Extension-point contributions.
	Exporters                 []Contribution
	Importers                 []Contribution
	ImportDefs                []Contribution
	ElementContributions      []Contribution
	SVGStructureContributions []Contribution
	SVGDefsEditors            []Contribution
	AnimationContributions    []Contribution
	UIContributions           []Contribution

	// Providers exposes named tool-local services to other tools.
	Providers map[string]any

	// StyleAttributeExtractor extracts style attributes during import.
	StyleAttributeExtractor func(attrs map[string]string) map[string]string

	// RenderBehavior tweaks how the canvas renders while this tool is
	// active (opaque to the runtime).
	RenderBehavior any

	// OnColorModeChange is called when the host switches color modes.
	OnColorModeChange func(mode string)

	DisablesGlobalUndoRedo bool
	SupportsMobile         bool

	// Slices are tool-owned state slices installed into the host store.
	Slices map[string]store.SliceFactory

	// CreateAPI builds the tool-local API object.
	CreateAPI func(ctx *Context) any

	// RegisterHelpers returns helper functions merged into the shared
	// helper table.
	RegisterHelpers func(ctx *Context) map[string]any

	// Init runs last in the registration flow.
	Init InitFunc

	// Enabled, when set, gates the tool's shortcuts, contributions, and
	// aggregate flags. Nil means always enabled.
	Enabled func(snap store.Snapshot) bool
}

// Scope returns the declared shortcut scope, defaulting to ScopeActiveTool.
func (d *Definition) Scope() ShortcutScope {
	if d.KeyboardShortcutScope == ScopeGlobal {
		return ScopeGlobal
	}
	return ScopeActiveTool
}

// Topics returns the event topics the main handler subscribes to,
// defaulting to pointer-down.
func (d *Definition) Topics() []event.Topic {
	if len(d.SubscribedEvents) > 0 {
		return d.SubscribedEvents
	}
	return []event.Topic{event.TopicPointerDown}
}
