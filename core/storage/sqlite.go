package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/wappdev/wapp/core/schema"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store with SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex

	// models maps table names to their model definitions.
	models map[string]schema.Model
}

// OpenSQLite creates a new SQLite-backed store. Use ":memory:" for an
// in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Set pragmas for performance
	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	return &SQLiteStore{
		db:     db,
		models: make(map[string]schema.Model),
	}, nil
}

// Register creates the backing table for a model.
func (s *SQLiteStore) Register(ctx context.Context, m schema.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := m.TableName()
	if _, err := s.db.ExecContext(ctx, BuildCreateTableSQL(m)); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	s.models[table] = m
	return nil
}

// Create inserts a new record and returns its id.
func (s *SQLiteStore) Create(ctx context.Context, table string, data Record) (string, error) {
	m, err := s.model(table)
	if err != nil {
		return "", err
	}

	id, ok := data["id"].(string)
	if !ok || id == "" {
		id = uuid.New().String()
	}

	columns := []string{"id"}
	placeholders := []string{"?"}
	values := []any{id}

	for _, name := range m.FieldNames() {
		val, exists := data[name]
		if !exists {
			if m.Fields[name].Default == nil {
				continue
			}
			val = m.Fields[name].Default
		}
		columns = append(columns, name)
		placeholders = append(placeholders, "?")
		values = append(values, toSQLValue(val))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		if isUniqueConstraintError(err) {
			return "", ErrDuplicate
		}
		return "", fmt.Errorf("insert into %s: %w", table, err)
	}
	return id, nil
}

// Get retrieves a record by id.
func (s *SQLiteStore) Get(ctx context.Context, table, id string) (Record, error) {
	if _, err := s.model(table); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT * FROM %s WHERE id = ?", table), id)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return scanRecord(rows)
}

// List retrieves records according to opts.
func (s *SQLiteStore) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	m, err := s.model(table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s", table)
	var args []any

	if len(opts.Filters) > 0 {
		var fields []string
		for f := range opts.Filters {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		var conds []string
		for _, f := range fields {
			conds = append(conds, f+" = ?")
			args = append(args, toSQLValue(opts.Filters[f]))
		}
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	if !SortableColumn(m, orderBy) {
		return nil, fmt.Errorf("invalid order_by column %q", orderBy)
	}
	query += " ORDER BY " + orderBy
	if opts.Desc {
		query += " DESC"
	}

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Update modifies an existing record.
func (s *SQLiteStore) Update(ctx context.Context, table, id string, data Record) error {
	m, err := s.model(table)
	if err != nil {
		return err
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var values []any
	for _, name := range m.FieldNames() {
		val, exists := data[name]
		if !exists {
			continue
		}
		sets = append(sets, name+" = ?")
		values = append(values, toSQLValue(val))
	}
	values = append(values, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	result, err := s.db.ExecContext(ctx, query, values...)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update %s: %w", table, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record.
func (s *SQLiteStore) Delete(ctx context.Context, table, id string) error {
	if _, err := s.model(table); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) model(table string) (schema.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[table]
	if !ok {
		return schema.Model{}, fmt.Errorf("table %q not registered", table)
	}
	return m, nil
}

// scanRecord reads the current row into its dictionary projection.
func scanRecord(rows *sql.Rows) (Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}

	rec := make(Record, len(columns))
	for i, col := range columns {
		switch v := values[i].(type) {
		case []byte:
			rec[col] = string(v)
		default:
			rec[col] = v
		}
	}
	return rec, nil
}

// toSQLValue converts handler-facing values into driver-friendly ones.
func toSQLValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
