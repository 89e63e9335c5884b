// Package shortcut aggregates tool keyboard shortcuts and dispatches key
// events against them.
//
// Every registered tool's shortcut map is normalized into candidates and
// cached two ways: a flat list and a key-to-candidates index built lazily on
// first lookup. The orchestrator calls InvalidateCache after any
// registration change.
//
// Conflict resolution is strictly first-match-wins in tool registration
// order (combos within one tool sort lexically for determinism). There is
// no specificity or precedence rule; changing this order is an observable
// behavior change.
package shortcut

import (
	"github.com/inkline-editor/inkline/internal/tool"
)

// Options are a shortcut's resolved dispatch options.
type Options struct {
	PreventDefault   bool
	StopPropagation  bool
	AllowWhileTyping bool
	When             func(ctx *tool.Context) bool
}

// resolveOptions applies the compiled-in defaults: preventDefault on,
// stopPropagation off, allowWhileTyping off.
func resolveOptions(s tool.Shortcut) Options {
	opts := Options{
		PreventDefault:   true,
		StopPropagation:  s.StopPropagation,
		AllowWhileTyping: s.AllowWhileTyping,
		When:             s.When,
	}
	if s.PreventDefault != nil {
		opts.PreventDefault = *s.PreventDefault
	}
	return opts
}

// Candidate is one normalized shortcut: canonical key, handler, resolved
// options, owning tool, and scope.
type Candidate struct {
	Key     string
	ToolID  string
	Scope   tool.ShortcutScope
	Handler tool.ShortcutFunc
	Options Options
}

// Outcome is the result of dispatching a key event.
type Outcome struct {
	// Handled is true when some candidate's handler ran successfully.
	Handled bool

	// ToolID is the owning tool of the winning candidate.
	ToolID string

	// PreventDefault and StopPropagation are the winning candidate's
	// policies, for the caller to apply. Both false when not handled.
	PreventDefault  bool
	StopPropagation bool
}
