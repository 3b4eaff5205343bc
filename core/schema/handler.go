package schema

import (
	"context"
	"net/http"
)

// Meta is the route and documentation metadata for an endpoint.
// Method and Pattern must both be set before an endpoint can be resolved;
// the remaining fields feed documentation generation.
type Meta struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, ...).
	Method string

	// Pattern is the path template relative to the endpoint's container.
	// Must start with "/". May contain chi-style parameters like "{id}".
	Pattern string

	// Name is a human-readable identifier.
	Name string

	// Description for documentation.
	Description string

	// RequestSchema documents the expected request body (optional).
	RequestSchema *DocSchema

	// ResponseSchema documents the success response body (optional).
	ResponseSchema *DocSchema
}

// DocSchema is a minimal JSON-schema-shaped document used for endpoint
// request/response documentation. The OpenAPI exporter converts it into
// full OpenAPI schemas.
type DocSchema struct {
	Type        string
	Format      string
	Description string
	Properties  map[string]*DocSchema
	Required    []string
	Items       *DocSchema
	Enum        []string
}

// Request carries the decoded pieces of an incoming request.
// Handlers read from it and never write.
type Request struct {
	// HTTP is the underlying request. May be nil in direct invocations.
	HTTP *http.Request

	// Query holds single-valued query parameters.
	Query map[string]string

	// Path holds extracted path parameters (e.g. "id").
	Path map[string]string

	// Body is the decoded JSON request body, nil when absent.
	Body map[string]any
}

// Result is the uniform return value of a handler invocation.
// A zero Status means 200. Handled failures (not found, validation) are
// ordinary Results with a non-2xx Status, never Go errors.
type Result struct {
	Payload any
	Status  int
}

// StatusOrDefault returns the status code, defaulting to 200.
func (r Result) StatusOrDefault() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

// Handler is the uniform invocation contract for endpoints, whether
// auto-generated or custom. Metadata remains introspectable after any
// wrapping; documentation is rendered from Meta, not from the concrete type.
type Handler interface {
	Meta() Meta
	Handle(ctx context.Context, req Request) Result
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc struct {
	meta Meta
	fn   func(ctx context.Context, req Request) Result
}

// NewHandler pairs route metadata with a handler function.
func NewHandler(meta Meta, fn func(ctx context.Context, req Request) Result) *HandlerFunc {
	return &HandlerFunc{meta: meta, fn: fn}
}

// Meta returns the handler's route and documentation metadata.
func (h *HandlerFunc) Meta() Meta { return h.meta }

// Handle invokes the wrapped function.
func (h *HandlerFunc) Handle(ctx context.Context, req Request) Result {
	return h.fn(ctx, req)
}

// ErrorPayload is the uniform shape for handled-failure responses.
func ErrorPayload(msg string) map[string]any {
	return map[string]any{"error": msg}
}
