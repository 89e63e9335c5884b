// Package mode implements the pure transition machine over tool modes.
//
// A mode id is the id of an editing tool; any string is a valid mode. The
// machine derives a transition Result from a mode-switch request without
// executing side effects: the host runs the returned lifecycle actions.
package mode

// ID identifies a mode. Mode ids are open: plugin-defined ids that were
// never registered resolve to a synthesized default config.
type ID string

// Config describes one mode's transition behavior.
type Config struct {
	ID          ID
	Description string

	// Entry and Exit are lifecycle-action ids, in execution order.
	Entry []string
	Exit  []string

	// ToggleTo, when set and different from ID, is the fallback mode
	// activated when this mode is re-activated while already current.
	ToggleTo ID
}

// Reason tags why a transition produced its result.
type Reason string

// Transition reasons.
const (
	// ReasonNoop means the requested mode was already current and has no
	// toggle fallback; nothing changes.
	ReasonNoop Reason = "noop"
	// ReasonSwitch is a plain mode-to-mode switch.
	ReasonSwitch Reason = "switch"
	// ReasonToggleFallback means re-activating the current mode switched
	// to its configured fallback instead.
	ReasonToggleFallback Reason = "toggle-fallback"
)

// Result is the immutable outcome of an activation request.
type Result struct {
	// Changed reports whether the current mode changed.
	Changed bool

	// Mode is the resulting mode.
	Mode ID

	// Actions are the lifecycle-action ids to execute, in order:
	// exit actions, then global transition actions, then entry actions.
	// Duplicates are allowed; actions must be idempotent.
	Actions []string

	Reason Reason

	// From and Requested are the originating and requested mode ids.
	From      ID
	Requested ID
}

// Machine holds a snapshot of all mode configs plus the global transition
// actions. It is owned by the host, which rebuilds it whenever the tool
// registry changes. Transition is a pure, total function over any two ids.
type Machine struct {
	configs map[ID]Config
	globals []string
}

// NewMachine creates an empty machine; every mode resolves to its default
// config until Rebuild is called.
func NewMachine() *Machine {
	return &Machine{configs: make(map[ID]Config)}
}

// Rebuild replaces the machine's config table and global transition actions.
func (m *Machine) Rebuild(configs []Config, globals []string) {
	table := make(map[ID]Config, len(configs))
	for _, cfg := range configs {
		if cfg.ID == "" {
			continue
		}
		table[cfg.ID] = cfg
	}
	m.configs = table
	m.globals = append([]string(nil), globals...)
}

// Reset clears all configs and globals (test isolation).
func (m *Machine) Reset() {
	m.configs = make(map[ID]Config)
	m.globals = nil
}

// Config returns the config for a mode id. Ids absent from the table
// resolve to a synthesized default carrying their own id, so modes defined
// on the fly behave like any other.
func (m *Machine) Config(id ID) Config {
	if cfg, ok := m.configs[id]; ok {
		return cfg
	}
	return Config{ID: id}
}

// Known reports whether a mode id has an explicit config entry.
func (m *Machine) Known(id ID) bool {
	_, ok := m.configs[id]
	return ok
}

// Transition computes the outcome of activating requested while current is
// active. It never fails and executes no side effects.
func (m *Machine) Transition(current, requested ID) Result {
	cur := m.Config(current)

	if requested == current {
		if cur.ToggleTo != "" && cur.ToggleTo != current {
			fallback := m.Config(cur.ToggleTo)
			return Result{
				Changed:   true,
				Mode:      cur.ToggleTo,
				Actions:   m.actions(cur.Exit, fallback.Entry),
				Reason:    ReasonToggleFallback,
				From:      current,
				Requested: requested,
			}
		}
		return Result{
			Changed:   false,
			Mode:      current,
			Actions:   []string{},
			Reason:    ReasonNoop,
			From:      current,
			Requested: requested,
		}
	}

	// Every mode-to-mode transition is permitted; there is no guard table.
	next := m.Config(requested)
	return Result{
		Changed:   true,
		Mode:      requested,
		Actions:   m.actions(cur.Exit, next.Entry),
		Reason:    ReasonSwitch,
		From:      current,
		Requested: requested,
	}
}

// actions concatenates exit, global, and entry action lists in that fixed
// order. Duplicates are preserved.
func (m *Machine) actions(exit, entry []string) []string {
	out := make([]string, 0, len(exit)+len(m.globals)+len(entry))
	out = append(out, exit...)
	out = append(out, m.globals...)
	out = append(out, entry...)
	return out
}
