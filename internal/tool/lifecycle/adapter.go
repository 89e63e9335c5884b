package lifecycle

// Built-in lifecycle actions every installation carries. Tools may declare
// arbitrary further action ids through the same surface.
const (
	// ActionClearSubpathSelection clears the current subpath selection.
	ActionClearSubpathSelection = "selection.clear-subpaths"
	// ActionClearCommandSelection clears the selected path commands.
	ActionClearCommandSelection = "selection.clear-commands"
)

// Adapter layers a simpler register/execute surface over a Manager for
// callers that predate the split between plain and global actions.
type Adapter struct {
	m *Manager
}

// NewAdapter wraps a manager.
func NewAdapter(m *Manager) *Adapter {
	return &Adapter{m: m}
}

// RegisterLifecycleAction registers a handler under an action id; when
// global is true the id is additionally marked as a global transition
// action. Returns the unregister closure.
func (a *Adapter) RegisterLifecycleAction(actionID string, fn Handler, global bool) func() {
	cancel := a.m.Register(actionID, fn)
	if global {
		a.m.RegisterGlobalTransitionAction(actionID)
	}
	return cancel
}

// ExecuteLifecycleAction runs an action, returning the success count.
func (a *Adapter) ExecuteLifecycleAction(actionID string) int {
	return a.m.Execute(actionID)
}
