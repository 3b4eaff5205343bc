package crud

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/wappdev/wapp/core/schema"
)

var fieldValidator = validator.New()

// validateInput checks a request body against the model's field schema.
// Unknown fields are rejected; required fields are enforced only when
// requireAll is set (create, not update). Returns a map of field name to
// problem description, empty when the body is valid.
func validateInput(m schema.Model, body map[string]any, requireAll bool) map[string]string {
	problems := make(map[string]string)

	for name := range body {
		if _, ok := m.Fields[name]; !ok {
			problems[name] = "unknown field"
		}
	}

	for name, f := range m.Fields {
		val, present := body[name]
		if !present {
			if requireAll && f.Required && f.Default == nil {
				problems[name] = "required"
			}
			continue
		}
		if f.Internal {
			problems[name] = "unknown field"
			continue
		}
		if msg := checkFieldValue(f, val); msg != "" {
			problems[name] = msg
		}
	}

	return problems
}

// checkFieldValue validates one value against its field definition.
// JSON decoding yields float64 for all numbers, so integer fields accept
// integral floats.
func checkFieldValue(f schema.Field, val any) string {
	if val == nil {
		if f.Required {
			return "required"
		}
		return ""
	}

	switch f.Type {
	case schema.FieldTypeInt:
		n, ok := val.(float64)
		if !ok {
			if _, isInt := val.(int); isInt {
				return ""
			}
			return "expected integer"
		}
		if n != float64(int64(n)) {
			return "expected integer"
		}

	case schema.FieldTypeFloat:
		switch val.(type) {
		case float64, int:
		default:
			return "expected number"
		}

	case schema.FieldTypeBool:
		if _, ok := val.(bool); !ok {
			return "expected boolean"
		}

	case schema.FieldTypeJSON:
		// Any JSON value is acceptable.

	case schema.FieldTypeEnum:
		s, ok := val.(string)
		if !ok {
			return "expected string"
		}
		for _, v := range f.Values {
			if s == v {
				return ""
			}
		}
		return fmt.Sprintf("must be one of %v", f.Values)

	case schema.FieldTypeEmail:
		return checkFormat(val, "email")

	case schema.FieldTypeURL:
		return checkFormat(val, "url")

	case schema.FieldTypeUUID:
		return checkFormat(val, "uuid")

	default:
		// string, timestamp, secret
		if _, ok := val.(string); !ok {
			return "expected string"
		}
	}
	return ""
}

func checkFormat(val any, tag string) string {
	s, ok := val.(string)
	if !ok {
		return "expected string"
	}
	if err := fieldValidator.Var(s, tag); err != nil {
		return "invalid " + tag
	}
	return ""
}
