// Package openapi generates OpenAPI 3.0 specifications from a resolved
// route table. Paths come from endpoint descriptors, component schemas
// from model field definitions; nothing is parsed out of comments.
package openapi

import (
	"regexp"
	"sort"

	"github.com/wappdev/wapp/core/resolve"
	"github.com/wappdev/wapp/core/schema"
)

// Spec represents an OpenAPI 3.0 specification.
type Spec struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Servers    []Server            `json:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths"`
	Components Components          `json:"components"`
	Tags       []Tag               `json:"tags,omitempty"`
}

// Info provides API metadata.
type Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// Server represents a server URL.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// PathItem contains operations for a path.
type PathItem struct {
	Get    *Operation `json:"get,omitempty"`
	Post   *Operation `json:"post,omitempty"`
	Put    *Operation `json:"put,omitempty"`
	Patch  *Operation `json:"patch,omitempty"`
	Delete *Operation `json:"delete,omitempty"`
}

// Operation represents an API operation.
type Operation struct {
	Tags        []string            `json:"tags,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	Description string              `json:"description,omitempty"`
	OperationID string              `json:"operationId,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

// Parameter represents an API parameter.
type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"` // path, query
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`
}

// RequestBody represents a request body.
type RequestBody struct {
	Description string               `json:"description,omitempty"`
	Required    bool                 `json:"required,omitempty"`
	Content     map[string]MediaType `json:"content"`
}

// Response represents an API response.
type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// MediaType represents a media type.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Schema represents a JSON Schema.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Components contains reusable schemas.
type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty"`
}

// Tag provides metadata for a group of operations.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Generator generates OpenAPI specs from a resolved route table.
type Generator struct {
	set     *resolve.Set
	info    Info
	servers []Server
}

// NewGenerator creates a generator for a resolved set.
func NewGenerator(set *resolve.Set) *Generator {
	return &Generator{
		set: set,
		info: Info{
			Title:       "wapp API",
			Version:     "1.0.0",
			Description: "Auto-generated API documentation from container declarations",
		},
	}
}

// SetInfo sets the API info.
func (g *Generator) SetInfo(info Info) {
	g.info = info
}

// AddServer adds a server URL.
func (g *Generator) AddServer(url, description string) {
	g.servers = append(g.servers, Server{URL: url, Description: description})
}

// Generate creates the OpenAPI specification.
func (g *Generator) Generate() *Spec {
	spec := &Spec{
		OpenAPI: "3.0.3",
		Info:    g.info,
		Servers: g.servers,
		Paths:   make(map[string]PathItem),
		Components: Components{
			Schemas: make(map[string]*Schema),
		},
	}

	// Component schemas and tags per distinct model
	seenTags := make(map[string]bool)
	for _, ref := range g.set.Models {
		name := ref.Model.Name
		if _, exists := spec.Components.Schemas[name]; !exists {
			spec.Components.Schemas[name] = convertSchema(schema.ModelResponseSchema(ref.Model))
		}
		if !seenTags[name] {
			seenTags[name] = true
			spec.Tags = append(spec.Tags, Tag{Name: name})
		}
	}
	sort.Slice(spec.Tags, func(i, j int) bool { return spec.Tags[i].Name < spec.Tags[j].Name })

	for _, ep := range g.set.Endpoints {
		item := spec.Paths[ep.Path]
		setOperation(&item, ep.Method, g.buildOperation(ep))
		spec.Paths[ep.Path] = item
	}

	return spec
}

var pathParamPattern = regexp.MustCompile(`\{([^}]+)\}`)

func (g *Generator) buildOperation(ep resolve.Endpoint) *Operation {
	op := &Operation{
		Summary:     ep.Name,
		Description: ep.Description,
		OperationID: operationID(ep),
		Responses:   make(map[string]Response),
	}

	if ep.ModelName != "" {
		op.Tags = []string{g.modelDisplayName(ep.ModelName)}
	}

	for _, m := range pathParamPattern.FindAllStringSubmatch(ep.Path, -1) {
		op.Parameters = append(op.Parameters, Parameter{
			Name:     m[1],
			In:       "path",
			Required: true,
			Schema:   &Schema{Type: "string"},
		})
	}

	if ep.Action == schema.ActionList {
		op.Parameters = append(op.Parameters,
			Parameter{Name: "limit", In: "query", Schema: &Schema{Type: "integer"}},
			Parameter{Name: "offset", In: "query", Schema: &Schema{Type: "integer"}},
			Parameter{Name: "order_by", In: "query", Schema: &Schema{Type: "string"}},
			Parameter{Name: "desc", In: "query", Schema: &Schema{Type: "boolean"}},
		)
	}

	if ep.RequestSchema != nil {
		op.RequestBody = &RequestBody{
			Required: true,
			Content: map[string]MediaType{
				"application/json": {Schema: convertSchema(ep.RequestSchema)},
			},
		}
	}

	success := "200"
	if ep.Action == schema.ActionCreate {
		success = "201"
	}
	resp := Response{Description: "Successful operation"}
	if ep.ResponseSchema != nil {
		resp.Content = map[string]MediaType{
			"application/json": {Schema: convertSchema(ep.ResponseSchema)},
		}
	}
	op.Responses[success] = resp

	switch ep.Action {
	case schema.ActionGet, schema.ActionUpdate, schema.ActionDelete:
		op.Responses["404"] = Response{Description: "Record not found"}
	}
	if ep.RequestSchema != nil {
		op.Responses["400"] = Response{Description: "Validation failed"}
	}

	return op
}

// modelDisplayName finds the display name for a model local name.
func (g *Generator) modelDisplayName(localName string) string {
	for _, ref := range g.set.Models {
		if ref.LocalName == localName {
			return ref.Model.Name
		}
	}
	return localName
}

var operationIDSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func operationID(ep resolve.Endpoint) string {
	return operationIDSanitizer.ReplaceAllString(ep.Source, "_")
}

func setOperation(item *PathItem, method string, op *Operation) {
	switch method {
	case "GET":
		item.Get = op
	case "POST":
		item.Post = op
	case "PUT":
		item.Put = op
	case "PATCH":
		item.Patch = op
	case "DELETE":
		item.Delete = op
	}
}

// convertSchema maps endpoint doc schemas into OpenAPI schemas.
func convertSchema(s *schema.DocSchema) *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{
		Type:        s.Type,
		Format:      s.Format,
		Description: s.Description,
		Required:    append([]string(nil), s.Required...),
		Enum:        append([]string(nil), s.Enum...),
		Items:       convertSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = convertSchema(prop)
		}
	}
	return out
}
