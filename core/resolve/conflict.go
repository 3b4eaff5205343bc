package resolve

import (
	"fmt"
	"strings"
)

// Collision is a (method, path) pair claimed by more than one declaration.
type Collision struct {
	Method  string
	Path    string
	Sources []string
}

// Error renders a single collision.
func (c Collision) Error() string {
	return fmt.Sprintf("%s %s: claimed by [%s]", c.Method, c.Path, strings.Join(c.Sources, ", "))
}

// ConflictError reports every (method, path) collision in a resolved set,
// not just the first, so all collisions can be fixed in one pass.
type ConflictError struct {
	Collisions []Collision
}

// Error returns the combined conflict message.
func (e *ConflictError) Error() string {
	msgs := make([]string, len(e.Collisions))
	for i, c := range e.Collisions {
		msgs[i] = c.Error()
	}
	return fmt.Sprintf("route conflicts detected:\n  - %s", strings.Join(msgs, "\n  - "))
}

// detectCollisions verifies no two endpoints share (method, path).
// It runs once, eagerly, over the fully composed set; a collision fails
// the entire resolve, never a silent first-or-last-registration pick.
func detectCollisions(eps []Endpoint) error {
	byKey := make(map[string][]string, len(eps))
	var order []string
	for _, ep := range eps {
		key := ep.Method + " " + ep.Path
		if len(byKey[key]) == 0 {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], ep.Source)
	}

	var collisions []Collision
	for _, key := range order {
		sources := byKey[key]
		if len(sources) < 2 {
			continue
		}
		method, path, _ := strings.Cut(key, " ")
		collisions = append(collisions, Collision{
			Method:  method,
			Path:    path,
			Sources: sources,
		})
	}

	if len(collisions) > 0 {
		return &ConflictError{Collisions: collisions}
	}
	return nil
}
