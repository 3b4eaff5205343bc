package container

import (
	"context"
	"strings"
	"testing"

	"github.com/wappdev/wapp/core/schema"
)

func testModel(slug string) schema.Model {
	return schema.Model{
		Slug: slug,
		Name: strings.ToUpper(slug[:1]) + slug[1:],
		Fields: map[string]schema.Field{
			"name": {Type: schema.FieldTypeString, Required: true},
		},
	}
}

func testHandler(method, pattern string) schema.Handler {
	return schema.NewHandler(schema.Meta{Method: method, Pattern: pattern},
		func(ctx context.Context, req schema.Request) schema.Result {
			return schema.Result{}
		})
}

func TestAddModel(t *testing.T) {
	c := New()
	if err := c.AddModel("user", testModel("user"), schema.CRUD()); err != nil {
		t.Fatalf("AddModel() error: %v", err)
	}

	models := c.Models()
	if len(models) != 1 {
		t.Fatalf("Models() returned %d, want 1", len(models))
	}
	if models[0].Name != "user" {
		t.Errorf("model name = %q, want %q", models[0].Name, "user")
	}
}

func TestAddModelErrors(t *testing.T) {
	tests := []struct {
		name    string
		declare func(c *Container) error
		wantErr string
	}{
		{
			name: "empty name",
			declare: func(c *Container) error {
				return c.AddModel("", testModel("user"), schema.CRUD())
			},
			wantErr: "name is empty",
		},
		{
			name: "duplicate name",
			declare: func(c *Container) error {
				if err := c.AddModel("user", testModel("user"), schema.CRUD()); err != nil {
					return err
				}
				return c.AddModel("user", testModel("account"), schema.CRUD())
			},
			wantErr: "already declared as model",
		},
		{
			name: "invalid model",
			declare: func(c *Container) error {
				return c.AddModel("user", schema.Model{Slug: "user"}, schema.CRUD())
			},
			wantErr: "name is required",
		},
		{
			name: "unknown override action",
			declare: func(c *Container) error {
				return c.AddModel("user", testModel("user"), schema.Actions(map[schema.Action]schema.ActionOverride{
					"patch": schema.Enabled,
				}))
			},
			wantErr: "unknown CRUD action",
		},
		{
			name: "custom handler missing method",
			declare: func(c *Container) error {
				return c.AddModel("user", testModel("user"), schema.Actions(map[schema.Action]schema.ActionOverride{
					schema.ActionGet: schema.Custom(testHandler("", "/user/{id}")),
				}))
			},
			wantErr: "must declare method and pattern",
		},
		{
			name: "custom handler relative pattern",
			declare: func(c *Container) error {
				return c.AddModel("user", testModel("user"), schema.Actions(map[schema.Action]schema.ActionOverride{
					schema.ActionGet: schema.Custom(testHandler("GET", "user/{id}")),
				}))
			},
			wantErr: "must start with /",
		},
		{
			name: "nil custom handler",
			declare: func(c *Container) error {
				return c.AddModel("user", testModel("user"), schema.Actions(map[schema.Action]schema.ActionOverride{
					schema.ActionGet: schema.Custom(nil),
				}))
			},
			wantErr: "nil custom handler",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.declare(New())
			if err == nil {
				t.Fatal("declaration should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestAddEndpoint(t *testing.T) {
	c := New()
	if err := c.AddEndpoint("ping", testHandler("GET", "/ping")); err != nil {
		t.Fatalf("AddEndpoint() error: %v", err)
	}
	if len(c.Endpoints()) != 1 {
		t.Fatal("endpoint not declared")
	}
}

func TestAddEndpointErrors(t *testing.T) {
	c := New()

	if err := c.AddEndpoint("ping", nil); err == nil {
		t.Error("nil handler should be rejected")
	}
	if err := c.AddEndpoint("ping", testHandler("GET", "")); err == nil {
		t.Error("missing pattern should be rejected")
	}
	if err := c.AddEndpoint("", testHandler("GET", "/ping")); err == nil {
		t.Error("empty name should be rejected")
	}
}

func TestModelEndpointSharedNamespace(t *testing.T) {
	c := New()
	if err := c.AddModel("user", testModel("user"), schema.CRUD()); err != nil {
		t.Fatalf("AddModel() error: %v", err)
	}

	err := c.AddEndpoint("user", testHandler("GET", "/whoami"))
	if err == nil {
		t.Fatal("endpoint reusing a model name should be rejected")
	}
	if !strings.Contains(err.Error(), "already declared as model") {
		t.Errorf("error %q should name the existing declaration kind", err)
	}

	// And the reverse direction.
	c2 := New()
	if err := c2.AddEndpoint("user", testHandler("GET", "/whoami")); err != nil {
		t.Fatalf("AddEndpoint() error: %v", err)
	}
	if err := c2.AddModel("user", testModel("user"), schema.CRUD()); err == nil {
		t.Fatal("model reusing an endpoint name should be rejected")
	}
}

func TestMount(t *testing.T) {
	root := New()
	child := New()

	if err := root.Mount("users", child); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	if err := root.Mount("users", New()); err == nil {
		t.Error("duplicate mount name should be rejected")
	}
	if err := root.Mount("other", nil); err == nil {
		t.Error("nil child should be rejected")
	}
	if err := root.Mount("self", root); err == nil {
		t.Error("self-mount should be rejected")
	}

	// Empty mount name is allowed once; it contributes no path segment.
	if err := root.Mount("", New()); err != nil {
		t.Errorf("empty mount name should be allowed: %v", err)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := New()
	if err := c.AddModel("user", testModel("user"), schema.CRUD()); err != nil {
		t.Fatalf("AddModel() error: %v", err)
	}

	models := c.Models()
	models[0].Name = "mutated"
	if c.Models()[0].Name != "user" {
		t.Error("mutating the Models() slice changed the container")
	}
}
