package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Model describes a persisted resource exposed for CRUD.
// The slug becomes a URL segment; an intentionally empty slug suppresses
// the segment entirely (useful for mounting a model at its container root).
type Model struct {
	// Slug is the URL segment for generated CRUD routes.
	// Must be URL-safe; may be empty to contribute no segment.
	Slug string

	// Name is the human-readable display name (e.g. "User").
	Name string

	// Table is the backing table name. Derived from Slug when empty.
	Table string

	// Fields defines the data fields owned by this model.
	Fields map[string]Field
}

// Field defines a data field in a model's schema.
type Field struct {
	// Type is the field type. See FieldType constants.
	Type FieldType

	// Required indicates this field must be provided on create.
	Required bool

	// Unique indicates this field must have unique values.
	Unique bool

	// Internal marks fields that are never exposed in responses.
	Internal bool

	// Default value for this field.
	Default any

	// Values lists valid values for enum type fields.
	Values []string

	// Description provides human-readable documentation for this field.
	Description string
}

// FieldType represents the type of a model field.
type FieldType string

const (
	// Primitive types
	FieldTypeString    FieldType = "string"
	FieldTypeInt       FieldType = "int"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBool      FieldType = "bool"
	FieldTypeTimestamp FieldType = "timestamp"
	FieldTypeJSON      FieldType = "json"

	// Semantic types (string with format validation)
	FieldTypeEmail FieldType = "email"
	FieldTypeURL   FieldType = "url"
	FieldTypeUUID  FieldType = "uuid"

	// Special types
	FieldTypeEnum   FieldType = "enum"   // Requires Values
	FieldTypeSecret FieldType = "secret" // Hashed at rest, never exposed
)

// validFieldTypes is the set of recognized field types.
var validFieldTypes = map[FieldType]bool{
	FieldTypeString:    true,
	FieldTypeInt:       true,
	FieldTypeFloat:     true,
	FieldTypeBool:      true,
	FieldTypeTimestamp: true,
	FieldTypeJSON:      true,
	FieldTypeEmail:     true,
	FieldTypeURL:       true,
	FieldTypeUUID:      true,
	FieldTypeEnum:      true,
	FieldTypeSecret:    true,
}

// reservedFields are managed by the storage layer and cannot be declared.
var reservedFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// Validate checks the model definition for declaration errors.
func (m Model) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("model: name is required")
	}
	if m.Slug != "" && !isURLSafe(m.Slug) {
		return fmt.Errorf("model %q: slug %q is not URL-safe", m.Name, m.Slug)
	}
	if m.Slug == "" && m.Table == "" {
		return fmt.Errorf("model %q: table is required when slug is empty", m.Name)
	}
	for name, f := range m.Fields {
		if name == "" {
			return fmt.Errorf("model %q: field with empty name", m.Name)
		}
		if reservedFields[name] {
			return fmt.Errorf("model %q: field %q is reserved", m.Name, name)
		}
		if !validFieldTypes[f.Type] {
			return fmt.Errorf("model %q: field %q has unknown type %q", m.Name, name, f.Type)
		}
		if f.Type == FieldTypeEnum && len(f.Values) == 0 {
			return fmt.Errorf("model %q: enum field %q has no values", m.Name, name)
		}
	}
	return nil
}

// TableName returns the backing table name, deriving the plural of the
// slug when Table is not set explicitly.
func (m Model) TableName() string {
	if m.Table != "" {
		return m.Table
	}
	return Pluralize(m.Slug)
}

// FieldNames returns the declared field names in sorted order.
func (m Model) FieldNames() []string {
	names := make([]string, 0, len(m.Fields))
	for name := range m.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isURLSafe reports whether s can be used verbatim as a path segment.
func isURLSafe(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

// Pluralize returns the plural form of a word using simple English rules.
func Pluralize(word string) string {
	if word == "" {
		return ""
	}

	lower := strings.ToLower(word)

	// Words ending in 's', 'x', 'z', 'ch', 'sh' → add 'es'
	if strings.HasSuffix(lower, "s") ||
		strings.HasSuffix(lower, "x") ||
		strings.HasSuffix(lower, "z") ||
		strings.HasSuffix(lower, "ch") ||
		strings.HasSuffix(lower, "sh") {
		return word + "es"
	}

	// Words ending in consonant + 'y' → change 'y' to 'ies'
	if strings.HasSuffix(lower, "y") && len(word) > 1 {
		secondLast := lower[len(lower)-2]
		if !isVowel(rune(secondLast)) {
			return word[:len(word)-1] + "ies"
		}
	}

	return word + "s"
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
