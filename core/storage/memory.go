package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wappdev/wapp/core/schema"
)

// MemoryStore is an in-memory Store for tests and ephemeral use.
type MemoryStore struct {
	mu     sync.RWMutex
	models map[string]schema.Model
	tables map[string]map[string]Record
	order  map[string][]string // insertion order per table
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		models: make(map[string]schema.Model),
		tables: make(map[string]map[string]Record),
		order:  make(map[string][]string),
	}
}

// Register allocates the backing table for a model.
func (s *MemoryStore) Register(_ context.Context, m schema.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := m.TableName()
	if _, exists := s.tables[table]; !exists {
		s.tables[table] = make(map[string]Record)
	}
	s.models[table] = m
	return nil
}

// Create inserts a new record and returns its id.
func (s *MemoryStore) Create(_ context.Context, table string, data Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.models[table]
	if !ok {
		return "", fmt.Errorf("table %q not registered", table)
	}

	id, ok := data["id"].(string)
	if !ok || id == "" {
		id = uuid.New().String()
	}
	if _, exists := s.tables[table][id]; exists {
		return "", ErrDuplicate
	}

	now := time.Now().UTC().Format(time.RFC3339)
	rec := Record{"id": id, "created_at": now, "updated_at": now}
	for name, f := range m.Fields {
		if val, exists := data[name]; exists {
			rec[name] = val
		} else if f.Default != nil {
			rec[name] = f.Default
		}
	}

	if err := s.checkUnique(table, m, rec, id); err != nil {
		return "", err
	}

	s.tables[table][id] = rec
	s.order[table] = append(s.order[table], id)
	return id, nil
}

// Get retrieves a record by id.
func (s *MemoryStore) Get(_ context.Context, table, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.models[table]; !ok {
		return nil, fmt.Errorf("table %q not registered", table)
	}
	rec, ok := s.tables[table][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRecord(rec), nil
}

// List retrieves records according to opts.
func (s *MemoryStore) List(_ context.Context, table string, opts ListOptions) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.models[table]
	if !ok {
		return nil, fmt.Errorf("table %q not registered", table)
	}
	if opts.OrderBy != "" && !SortableColumn(m, opts.OrderBy) {
		return nil, fmt.Errorf("invalid order_by column %q", opts.OrderBy)
	}

	var records []Record
	for _, id := range s.order[table] {
		rec, ok := s.tables[table][id]
		if !ok {
			continue
		}
		if !matchesFilters(rec, opts.Filters) {
			continue
		}
		records = append(records, copyRecord(rec))
	}

	if opts.OrderBy != "" {
		sort.SliceStable(records, func(i, j int) bool {
			a := fmt.Sprint(records[i][opts.OrderBy])
			b := fmt.Sprint(records[j][opts.OrderBy])
			if opts.Desc {
				return a > b
			}
			return a < b
		})
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(records) {
			return nil, nil
		}
		records = records[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(records) {
		records = records[:opts.Limit]
	}
	return records, nil
}

// Update modifies an existing record.
func (s *MemoryStore) Update(_ context.Context, table, id string, data Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.models[table]
	if !ok {
		return fmt.Errorf("table %q not registered", table)
	}
	rec, ok := s.tables[table][id]
	if !ok {
		return ErrNotFound
	}

	updated := copyRecord(rec)
	for name := range m.Fields {
		if val, exists := data[name]; exists {
			updated[name] = val
		}
	}
	if err := s.checkUnique(table, m, updated, id); err != nil {
		return err
	}

	updated["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	s.tables[table][id] = updated
	return nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(_ context.Context, table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.models[table]; !ok {
		return fmt.Errorf("table %q not registered", table)
	}
	if _, ok := s.tables[table][id]; !ok {
		return ErrNotFound
	}
	delete(s.tables[table], id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// checkUnique enforces unique fields. Caller holds the write lock.
func (s *MemoryStore) checkUnique(table string, m schema.Model, rec Record, selfID string) error {
	for name, f := range m.Fields {
		if !f.Unique {
			continue
		}
		val, exists := rec[name]
		if !exists {
			continue
		}
		for id, other := range s.tables[table] {
			if id == selfID {
				continue
			}
			if fmt.Sprint(other[name]) == fmt.Sprint(val) {
				return ErrDuplicate
			}
		}
	}
	return nil
}

func matchesFilters(rec Record, filters map[string]any) bool {
	for name, want := range filters {
		if fmt.Sprint(rec[name]) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func copyRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
