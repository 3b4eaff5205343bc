// Package resolve turns a declarative container tree into a flat, validated
// set of route registrations. Resolution walks the tree depth-first,
// expands CRUD overrides into endpoint descriptors, composes absolute
// paths from container nesting, and rejects the whole set on any
// (method, path) collision.
//
// Resolution is pure: it performs no I/O and no binding. The resulting Set
// is the single input to HTTP binding, documentation export, and
// storage/migration tooling, which makes a metadata-only pass the default
// rather than a special mode.
package resolve

import (
	"fmt"

	"github.com/wappdev/wapp/core/container"
	"github.com/wappdev/wapp/core/schema"
)

// Endpoint is the resolved unit of routing.
type Endpoint struct {
	// Method and Path form the absolute registration key.
	Method string
	Path   string

	// Name and Description are documentation metadata.
	Name        string
	Description string

	// Action is set for CRUD-derived endpoints (including custom
	// per-action overrides), empty for explicit endpoints.
	Action schema.Action

	// ModelName is the local name of the owning model, empty for
	// explicit endpoints.
	ModelName string

	// Source identifies the declaration that produced this endpoint,
	// e.g. "users/user.list" or "users/ping". Used in collision reports.
	Source string

	// Handler is the normalized invocation contract. Nil for default CRUD
	// actions when resolving without a CRUDBinder (metadata-only).
	Handler schema.Handler

	// RequestSchema and ResponseSchema document the endpoint bodies.
	RequestSchema  *schema.DocSchema
	ResponseSchema *schema.DocSchema
}

// ModelRef is a model encountered during resolution, with the container
// path it was declared under. Storage and migration tooling consume this.
type ModelRef struct {
	LocalName     string
	ContainerPath string
	Model         schema.Model
}

// Set is the fully resolved route table. It is immutable after a
// successful Resolve and safe for concurrent reads.
type Set struct {
	Endpoints []Endpoint
	Models    []ModelRef
}

// CRUDBinder supplies the generic handler for a default CRUD action.
// Passing nil to Resolve produces a metadata-only set whose default CRUD
// endpoints carry no handler; such a set can feed documentation and
// migration tooling but is rejected by the binder.
type CRUDBinder func(m schema.Model, action schema.Action) schema.Handler

// Resolve walks the tree and produces the flattened, collision-checked
// route table. The stages run strictly in order: expansion, path
// composition, collision detection. Any failure rejects the entire set.
func Resolve(root *container.Container, crud CRUDBinder) (*Set, error) {
	if root == nil {
		return nil, fmt.Errorf("resolve: nil root container")
	}

	w := &walker{
		crud: crud,
		seen: make(map[*container.Container]bool),
	}
	if err := w.walk(root, nil, ""); err != nil {
		return nil, err
	}

	if err := detectCollisions(w.endpoints); err != nil {
		return nil, err
	}

	return &Set{Endpoints: w.endpoints, Models: w.models}, nil
}

type walker struct {
	crud      CRUDBinder
	seen      map[*container.Container]bool
	endpoints []Endpoint
	models    []ModelRef
}

// walk visits one container. prefix is the chain of ancestor mount names
// (root contributes none); path is the human-readable container path used
// in diagnostics.
func (w *walker) walk(c *container.Container, prefix []string, path string) error {
	if w.seen[c] {
		return fmt.Errorf("resolve: container %q appears more than once in the tree", path)
	}
	w.seen[c] = true

	for _, decl := range c.Models() {
		w.models = append(w.models, ModelRef{
			LocalName:     decl.Name,
			ContainerPath: path,
			Model:         decl.Model,
		})
		eps, err := w.expandModel(decl, prefix, path)
		if err != nil {
			return err
		}
		w.endpoints = append(w.endpoints, eps...)
	}

	for _, decl := range c.Endpoints() {
		meta := decl.Handler.Meta()
		w.endpoints = append(w.endpoints, Endpoint{
			Method:         meta.Method,
			Path:           ComposePath(prefix, meta.Pattern),
			Name:           orDefault(meta.Name, decl.Name),
			Description:    meta.Description,
			Source:         sourceName(path, decl.Name, ""),
			Handler:        decl.Handler,
			RequestSchema:  meta.RequestSchema,
			ResponseSchema: meta.ResponseSchema,
		})
	}

	for _, child := range c.Children() {
		childPrefix := prefix
		if child.Name != "" {
			childPrefix = append(append([]string(nil), prefix...), child.Name)
		}
		if err := w.walk(child.Child, childPrefix, joinPath(path, child.Name)); err != nil {
			return err
		}
	}

	return nil
}

// expandModel produces zero to five endpoint descriptors for one model,
// in the fixed action order.
func (w *walker) expandModel(decl container.ModelDecl, prefix []string, path string) ([]Endpoint, error) {
	actions, err := decl.Override.Normalize()
	if err != nil {
		// Overrides are validated at declaration time; this guards
		// hand-built declarations that bypassed the container API.
		return nil, fmt.Errorf("resolve: model %q: %w", decl.Name, err)
	}

	var out []Endpoint
	for _, action := range schema.ActionOrder {
		ov := actions[action]
		switch {
		case ov.IsDisabled():
			continue

		case ov.IsEnabled():
			meta, _ := schema.CRUDMeta(decl.Model, action)
			var h schema.Handler
			if w.crud != nil {
				h = w.crud(decl.Model, action)
			}
			out = append(out, Endpoint{
				Method:         meta.Method,
				Path:           ComposePath(prefix, meta.Pattern),
				Name:           meta.Name,
				Description:    meta.Description,
				Action:         action,
				ModelName:      decl.Name,
				Source:         sourceName(path, decl.Name, action),
				Handler:        h,
				RequestSchema:  meta.RequestSchema,
				ResponseSchema: meta.ResponseSchema,
			})

		default:
			h, _ := ov.CustomHandler()
			meta := h.Meta()
			if meta.Method == "" || meta.Pattern == "" {
				return nil, fmt.Errorf("resolve: model %q action %q: custom handler missing method or pattern", decl.Name, action)
			}
			out = append(out, Endpoint{
				Method:         meta.Method,
				Path:           ComposePath(prefix, meta.Pattern),
				Name:           orDefault(meta.Name, fmt.Sprintf("%s %s", decl.Model.Name, action)),
				Description:    meta.Description,
				Action:         action,
				ModelName:      decl.Name,
				Source:         sourceName(path, decl.Name, action),
				Handler:        h,
				RequestSchema:  meta.RequestSchema,
				ResponseSchema: meta.ResponseSchema,
			})
		}
	}
	return out, nil
}

// sourceName renders a declaration source for diagnostics.
func sourceName(containerPath, declName string, action schema.Action) string {
	s := joinPath(containerPath, declName)
	if action != "" {
		s += "." + string(action)
	}
	return s
}

func joinPath(base, name string) string {
	switch {
	case base == "":
		return name
	case name == "":
		return base
	default:
		return base + "/" + name
	}
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
