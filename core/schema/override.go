package schema

import "fmt"

// overrideMode discriminates the ActionOverride union.
type overrideMode int

const (
	modeDisabled overrideMode = iota
	modeEnabled
	modeCustom
)

// ActionOverride controls a single CRUD action. The zero value is Disabled.
type ActionOverride struct {
	mode    overrideMode
	handler Handler
}

// Enabled uses the default auto-generated handler for the action.
var Enabled = ActionOverride{mode: modeEnabled}

// Disabled leaves the action unregistered; requests to its would-be path
// fall through to the router's generic not-found behavior.
var Disabled = ActionOverride{mode: modeDisabled}

// Custom uses a developer-supplied handler. Its Meta supplies the method
// and pattern verbatim in place of the defaults.
func Custom(h Handler) ActionOverride {
	return ActionOverride{mode: modeCustom, handler: h}
}

// IsEnabled reports whether the action uses the default handler.
func (a ActionOverride) IsEnabled() bool { return a.mode == modeEnabled }

// IsDisabled reports whether the action is not exposed.
func (a ActionOverride) IsDisabled() bool { return a.mode == modeDisabled }

// CustomHandler returns the developer-supplied handler, if any.
func (a ActionOverride) CustomHandler() (Handler, bool) {
	return a.handler, a.mode == modeCustom
}

// overrideKind discriminates the Override union.
type overrideKind int

const (
	kindNone overrideKind = iota
	kindAll
	kindPerAction
)

// Override is the model-level CRUD override: all actions enabled, all
// disabled, or a per-action mapping. The zero value disables everything.
type Override struct {
	kind    overrideKind
	actions map[Action]ActionOverride
}

// CRUD enables the default handlers for all five actions.
func CRUD() Override {
	return Override{kind: kindAll}
}

// NoCRUD disables all five actions. The model is still registered for
// storage and schema metadata, with zero exposed routes.
func NoCRUD() Override {
	return Override{kind: kindNone}
}

// Actions builds a per-action override mapping. Actions omitted from the
// map are disabled.
func Actions(m map[Action]ActionOverride) Override {
	copied := make(map[Action]ActionOverride, len(m))
	for a, v := range m {
		copied[a] = v
	}
	return Override{kind: kindPerAction, actions: copied}
}

// Normalize expands the override into a complete per-action mapping.
// It fails on unknown action keys, naming the offending key.
func (o Override) Normalize() (map[Action]ActionOverride, error) {
	out := make(map[Action]ActionOverride, len(ActionOrder))
	switch o.kind {
	case kindAll:
		for _, a := range ActionOrder {
			out[a] = Enabled
		}
	case kindNone:
		for _, a := range ActionOrder {
			out[a] = Disabled
		}
	case kindPerAction:
		for a := range o.actions {
			if !IsAction(a) {
				return nil, fmt.Errorf("unknown CRUD action %q", a)
			}
		}
		for _, a := range ActionOrder {
			out[a] = o.actions[a] // zero value is Disabled
		}
	}
	return out, nil
}
