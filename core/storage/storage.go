// Package storage provides a generic record store for declared models.
// Tables are created from model field schemas and rows travel as plain
// maps, which is also the uniform projection CRUD handlers serialize.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wappdev/wapp/core/schema"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint is violated.
var ErrDuplicate = errors.New("already exists")

// Record is a row in its uniform dictionary projection.
type Record = map[string]any

// ListOptions configures list queries.
type ListOptions struct {
	// Limit is the maximum number of records to return (0 = all).
	Limit int

	// Offset is the number of records to skip.
	Offset int

	// OrderBy is the field to sort by.
	OrderBy string

	// Desc sorts in descending order.
	Desc bool

	// Filters are field-value equality pairs.
	Filters map[string]any
}

// Store provides generic CRUD operations for registered models.
// Implementations are safe for concurrent use after registration.
type Store interface {
	// Register creates the backing table for a model.
	Register(ctx context.Context, m schema.Model) error

	// Create inserts a new record and returns its id.
	Create(ctx context.Context, table string, data Record) (string, error)

	// Get retrieves a record by id.
	Get(ctx context.Context, table, id string) (Record, error)

	// List retrieves records according to opts.
	List(ctx context.Context, table string, opts ListOptions) ([]Record, error)

	// Update modifies an existing record.
	Update(ctx context.Context, table, id string, data Record) error

	// Delete removes a record.
	Delete(ctx context.Context, table, id string) error

	// Close releases the underlying resources.
	Close() error
}

// SortableColumn reports whether name is a column of the model that list
// queries may sort by: a declared field or one of the implicit columns.
// Order-by values reach SQL as identifiers, not bind parameters, so every
// store checks them against this allow-list before building a query.
func SortableColumn(m schema.Model, name string) bool {
	switch name {
	case "id", "created_at", "updated_at":
		return true
	}
	_, ok := m.Fields[name]
	return ok
}

// BuildCreateTableSQL generates CREATE TABLE SQL for a model. Implicit
// columns id, created_at and updated_at are always present; declared
// fields follow in sorted order so output is deterministic.
func BuildCreateTableSQL(m schema.Model) string {
	columns := []string{
		"id TEXT PRIMARY KEY",
		"created_at DATETIME DEFAULT CURRENT_TIMESTAMP",
		"updated_at DATETIME DEFAULT CURRENT_TIMESTAMP",
	}
	var constraints []string

	for _, name := range m.FieldNames() {
		f := m.Fields[name]
		columns = append(columns, buildColumnDef(name, f))

		if f.Unique {
			constraints = append(constraints, fmt.Sprintf("UNIQUE(%s)", name))
		}
		if f.Type == schema.FieldTypeEnum && len(f.Values) > 0 {
			values := make([]string, len(f.Values))
			for i, v := range f.Values {
				values[i] = fmt.Sprintf("'%s'", strings.ReplaceAll(v, "'", "''"))
			}
			constraints = append(constraints, fmt.Sprintf(
				"CHECK(%s IN (%s))",
				name, strings.Join(values, ", "),
			))
		}
	}

	sql := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s",
		m.TableName(),
		strings.Join(columns, ",\n  "),
	)
	if len(constraints) > 0 {
		sql += ",\n  " + strings.Join(constraints, ",\n  ")
	}
	sql += "\n)"
	return sql
}

func buildColumnDef(name string, f schema.Field) string {
	col := name + " " + sqlType(f.Type)
	if f.Required {
		col += " NOT NULL"
	}
	return col
}

func sqlType(t schema.FieldType) string {
	switch t {
	case schema.FieldTypeInt:
		return "INTEGER"
	case schema.FieldTypeFloat:
		return "REAL"
	case schema.FieldTypeBool:
		return "INTEGER"
	case schema.FieldTypeTimestamp:
		return "DATETIME"
	default:
		return "TEXT"
	}
}
