package schema

import "strings"

// Action is one of the five canonical CRUD actions.
type Action string

const (
	ActionList   Action = "list"
	ActionGet    Action = "get"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ActionOrder is the fixed resolution order for CRUD actions.
// It also serves as the tie-break order for diagnostics.
var ActionOrder = []Action{ActionList, ActionGet, ActionCreate, ActionUpdate, ActionDelete}

// IsAction reports whether name is one of the canonical CRUD actions.
func IsAction(name Action) bool {
	switch name {
	case ActionList, ActionGet, ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// RouteTemplate is the default (method, pattern) pair for a CRUD action.
// Patterns contain the "{slug}" placeholder and chi-style "{id}" parameters.
type RouteTemplate struct {
	Method  string
	Pattern string
}

// crudRoutes is the canonical action table. It is process-wide, read-only
// configuration: both the resolver and authors of custom overrides that
// want to coexist with a default pattern reference it.
var crudRoutes = map[Action]RouteTemplate{
	ActionList:   {Method: "GET", Pattern: "/{slug}/"},
	ActionGet:    {Method: "GET", Pattern: "/{slug}/{id}"},
	ActionCreate: {Method: "POST", Pattern: "/{slug}/"},
	ActionUpdate: {Method: "PUT", Pattern: "/{slug}/{id}"},
	ActionDelete: {Method: "DELETE", Pattern: "/{slug}/{id}"},
}

// CRUDRoute returns the default route template for an action.
func CRUDRoute(a Action) (RouteTemplate, bool) {
	t, ok := crudRoutes[a]
	return t, ok
}

// CRUDRoutes returns a copy of the canonical action table.
func CRUDRoutes() map[Action]RouteTemplate {
	out := make(map[Action]RouteTemplate, len(crudRoutes))
	for a, t := range crudRoutes {
		out[a] = t
	}
	return out
}

// ExpandPattern substitutes the model slug into a route template pattern.
// An empty slug contributes no segment: "/{slug}/{id}" becomes "/{id}".
func ExpandPattern(pattern, slug string) string {
	if slug == "" {
		return strings.Replace(pattern, "/{slug}", "", 1)
	}
	return strings.Replace(pattern, "{slug}", slug, 1)
}
