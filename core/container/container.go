// Package container provides the declarative composition tree for API
// containers. A container holds models with CRUD overrides, explicit
// endpoints, and child containers mounted under path segments.
//
// Containers are assembled once at declaration time and are immutable
// after the resolve/bind pass. All declaration errors are fail-fast:
// the first invalid Add/Mount call rejects the declaration.
package container

import (
	"fmt"

	"github.com/wappdev/wapp/core/schema"
)

// ModelDecl is a model registered on a container under a local name.
type ModelDecl struct {
	Name     string
	Model    schema.Model
	Override schema.Override
}

// EndpointDecl is an explicitly declared endpoint.
type EndpointDecl struct {
	Name    string
	Handler schema.Handler
}

// ChildDecl is a child container mounted under a path segment.
type ChildDecl struct {
	Name  string
	Child *Container
}

// Container is a node in the composition tree. Declaration order is
// preserved so resolution is deterministic.
type Container struct {
	models    []ModelDecl
	endpoints []EndpointDecl
	children  []ChildDecl

	// names tracks the shared model/endpoint namespace per container.
	names map[string]string
}

// New creates an empty container.
func New() *Container {
	return &Container{names: make(map[string]string)}
}

// AddModel registers a model under a local name, paired directly with its
// CRUD override. The override is validated eagerly: unknown action keys and
// custom handlers missing method or pattern are declaration errors.
func (c *Container) AddModel(name string, m schema.Model, o schema.Override) error {
	if name == "" {
		return fmt.Errorf("container: model name is empty")
	}
	if kind, exists := c.names[name]; exists {
		return fmt.Errorf("container: name %q already declared as %s", name, kind)
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("container: %w", err)
	}

	actions, err := o.Normalize()
	if err != nil {
		return fmt.Errorf("container: model %q: %w", name, err)
	}
	for _, action := range schema.ActionOrder {
		h, ok := actions[action].CustomHandler()
		if !ok {
			continue
		}
		if h == nil {
			return fmt.Errorf("container: model %q action %q: nil custom handler", name, action)
		}
		meta := h.Meta()
		if meta.Method == "" || meta.Pattern == "" {
			return fmt.Errorf("container: model %q action %q: custom handler must declare method and pattern", name, action)
		}
		if err := validPattern(meta.Pattern); err != nil {
			return fmt.Errorf("container: model %q action %q: %w", name, action, err)
		}
	}

	c.names[name] = "model"
	c.models = append(c.models, ModelDecl{Name: name, Model: m, Override: o})
	return nil
}

// AddEndpoint registers an explicit endpoint under a local name. The name
// shares a namespace with model declarations so an endpoint can never
// shadow a model's CRUD registration key.
func (c *Container) AddEndpoint(name string, h schema.Handler) error {
	if name == "" {
		return fmt.Errorf("container: endpoint name is empty")
	}
	if kind, exists := c.names[name]; exists {
		return fmt.Errorf("container: name %q already declared as %s", name, kind)
	}
	if h == nil {
		return fmt.Errorf("container: endpoint %q: nil handler", name)
	}
	meta := h.Meta()
	if meta.Method == "" || meta.Pattern == "" {
		return fmt.Errorf("container: endpoint %q must declare method and pattern", name)
	}
	if err := validPattern(meta.Pattern); err != nil {
		return fmt.Errorf("container: endpoint %q: %w", name, err)
	}

	c.names[name] = "endpoint"
	c.endpoints = append(c.endpoints, EndpointDecl{Name: name, Handler: h})
	return nil
}

// Mount attaches a child container under a path segment. An empty mount
// name is allowed and contributes no path segment.
func (c *Container) Mount(name string, child *Container) error {
	if child == nil {
		return fmt.Errorf("container: mount %q: nil child", name)
	}
	if child == c {
		return fmt.Errorf("container: mount %q: container cannot mount itself", name)
	}
	for _, existing := range c.children {
		if existing.Name == name {
			return fmt.Errorf("container: mount name %q already used", name)
		}
	}
	c.children = append(c.children, ChildDecl{Name: name, Child: child})
	return nil
}

// Models returns the declared models in declaration order.
func (c *Container) Models() []ModelDecl {
	out := make([]ModelDecl, len(c.models))
	copy(out, c.models)
	return out
}

// Endpoints returns the declared endpoints in declaration order.
func (c *Container) Endpoints() []EndpointDecl {
	out := make([]EndpointDecl, len(c.endpoints))
	copy(out, c.endpoints)
	return out
}

// Children returns the mounted children in declaration order.
func (c *Container) Children() []ChildDecl {
	out := make([]ChildDecl, len(c.children))
	copy(out, c.children)
	return out
}

// validPattern checks a relative route pattern.
func validPattern(pattern string) error {
	if pattern == "" || pattern[0] != '/' {
		return fmt.Errorf("pattern %q must start with /", pattern)
	}
	return nil
}
