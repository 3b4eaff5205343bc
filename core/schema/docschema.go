package schema

import "fmt"

// ModelResponseSchema builds the documentation schema for a serialized row:
// the model's exposed fields plus the implicit id and timestamps.
func ModelResponseSchema(m Model) *DocSchema {
	props := map[string]*DocSchema{
		"id":         {Type: "string", Format: "uuid"},
		"created_at": {Type: "string", Format: "date-time"},
		"updated_at": {Type: "string", Format: "date-time"},
	}
	for _, name := range m.FieldNames() {
		f := m.Fields[name]
		if f.Internal || f.Type == FieldTypeSecret {
			continue
		}
		props[name] = fieldDocSchema(f)
	}
	return &DocSchema{Type: "object", Properties: props}
}

// ModelRequestSchema builds the documentation schema for a create/update
// body: the model's writable fields. Secret fields are write-only and
// therefore included here but never in responses.
func ModelRequestSchema(m Model) *DocSchema {
	props := make(map[string]*DocSchema)
	var required []string
	for _, name := range m.FieldNames() {
		f := m.Fields[name]
		if f.Internal {
			continue
		}
		props[name] = fieldDocSchema(f)
		if f.Required {
			required = append(required, name)
		}
	}
	return &DocSchema{Type: "object", Properties: props, Required: required}
}

func fieldDocSchema(f Field) *DocSchema {
	s := &DocSchema{Description: f.Description}
	switch f.Type {
	case FieldTypeInt:
		s.Type = "integer"
	case FieldTypeFloat:
		s.Type = "number"
	case FieldTypeBool:
		s.Type = "boolean"
	case FieldTypeTimestamp:
		s.Type = "string"
		s.Format = "date-time"
	case FieldTypeJSON:
		s.Type = "object"
	case FieldTypeEmail:
		s.Type = "string"
		s.Format = "email"
	case FieldTypeURL:
		s.Type = "string"
		s.Format = "uri"
	case FieldTypeUUID:
		s.Type = "string"
		s.Format = "uuid"
	case FieldTypeEnum:
		s.Type = "string"
		s.Enum = append([]string(nil), f.Values...)
	case FieldTypeSecret:
		s.Type = "string"
		s.Format = "password"
	default:
		s.Type = "string"
	}
	return s
}

// CRUDMeta synthesizes the endpoint metadata for a default CRUD action on a
// model: canonical method and pattern with the slug substituted, plus
// documentation fields derived from the model schema.
func CRUDMeta(m Model, action Action) (Meta, bool) {
	tmpl, ok := CRUDRoute(action)
	if !ok {
		return Meta{}, false
	}

	meta := Meta{
		Method:      tmpl.Method,
		Pattern:     ExpandPattern(tmpl.Pattern, m.Slug),
		Name:        fmt.Sprintf("%s %s", m.Name, titleAction(action)),
		Description: fmt.Sprintf("Auto-generated %s endpoint for %s", action, m.Name),
	}

	switch action {
	case ActionList:
		meta.ResponseSchema = &DocSchema{Type: "array", Items: ModelResponseSchema(m)}
	case ActionGet:
		meta.ResponseSchema = ModelResponseSchema(m)
	case ActionCreate:
		meta.RequestSchema = ModelRequestSchema(m)
		meta.ResponseSchema = ModelResponseSchema(m)
	case ActionUpdate:
		meta.RequestSchema = ModelRequestSchema(m)
		meta.ResponseSchema = ModelResponseSchema(m)
	case ActionDelete:
		meta.ResponseSchema = &DocSchema{
			Type:       "object",
			Properties: map[string]*DocSchema{"deleted": {Type: "boolean"}},
		}
	}
	return meta, true
}

func titleAction(a Action) string {
	s := string(a)
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
