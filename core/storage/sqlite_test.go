package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/wappdev/wapp/core/schema"
)

func newSQLiteStore(t *testing.T) (*SQLiteStore, schema.Model) {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := schema.Model{
		Slug: "user",
		Name: "User",
		Fields: map[string]schema.Field{
			"name":   {Type: schema.FieldTypeString, Required: true},
			"email":  {Type: schema.FieldTypeEmail, Unique: true},
			"active": {Type: schema.FieldTypeBool, Default: true},
			"age":    {Type: schema.FieldTypeInt},
		},
	}
	if err := store.Register(context.Background(), m); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	return store, m
}

func TestSQLiteRegisterIdempotent(t *testing.T) {
	store, m := newSQLiteStore(t)
	if err := store.Register(context.Background(), m); err != nil {
		t.Errorf("second Register() error: %v", err)
	}
}

func TestSQLiteCreateGet(t *testing.T) {
	store, m := newSQLiteStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, m.TableName(), Record{
		"name":  "Ada",
		"email": "ada@example.com",
		"age":   36,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	rec, err := store.Get(ctx, m.TableName(), id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if rec["name"] != "Ada" {
		t.Errorf("name = %v", rec["name"])
	}
	if rec["age"] != int64(36) {
		t.Errorf("age = %v (%T), want int64 36", rec["age"], rec["age"])
	}
	// Bool default travels as its integer column value.
	if rec["active"] != int64(1) {
		t.Errorf("active = %v (%T), want int64 1", rec["active"], rec["active"])
	}
	if rec["created_at"] == nil {
		t.Error("created_at not set")
	}
}

func TestSQLiteUniqueConstraint(t *testing.T) {
	store, m := newSQLiteStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, m.TableName(), Record{"name": "A", "email": "dup@example.com"}); err != nil {
		t.Fatal(err)
	}
	_, err := store.Create(ctx, m.TableName(), Record{"name": "B", "email": "dup@example.com"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Create() error = %v, want ErrDuplicate", err)
	}
}

func TestSQLiteListPagingAndFilters(t *testing.T) {
	store, m := newSQLiteStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := store.Create(ctx, m.TableName(), Record{"name": name, "email": name + "@example.com"}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.List(ctx, m.TableName(), ListOptions{OrderBy: "name", Desc: true, Limit: 2})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 2 || records[0]["name"] != "c" {
		t.Errorf("ordered list = %v", records)
	}

	// Offset without limit still applies.
	records, err = store.List(ctx, m.TableName(), ListOptions{OrderBy: "name", Offset: 1})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 2 || records[0]["name"] != "b" {
		t.Errorf("offset list = %v", records)
	}

	records, err = store.List(ctx, m.TableName(), ListOptions{Filters: map[string]any{"name": "b"}})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 || records[0]["email"] != "b@example.com" {
		t.Errorf("filtered list = %v", records)
	}
}

func TestSQLiteUpdateDelete(t *testing.T) {
	store, m := newSQLiteStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, m.TableName(), Record{"name": "before", "email": "x@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Update(ctx, m.TableName(), id, Record{"name": "after"}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	rec, _ := store.Get(ctx, m.TableName(), id)
	if rec["name"] != "after" {
		t.Errorf("name = %v", rec["name"])
	}
	if rec["email"] != "x@example.com" {
		t.Error("partial update touched an omitted field")
	}

	if err := store.Update(ctx, m.TableName(), "missing", Record{"name": "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() missing = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, m.TableName(), id); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, m.TableName(), id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, m.TableName(), id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() = %v, want ErrNotFound", err)
	}
}

func TestSQLiteListRejectsUnknownOrderBy(t *testing.T) {
	store, m := newSQLiteStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, m.TableName(), Record{"name": "a", "email": "a@example.com"}); err != nil {
		t.Fatal(err)
	}

	for _, orderBy := range []string{"name LIMIT 1 --", "bogus", "users.name"} {
		if _, err := store.List(ctx, m.TableName(), ListOptions{OrderBy: orderBy}); err == nil {
			t.Errorf("List() accepted order_by %q", orderBy)
		}
	}

	// Implicit columns remain sortable.
	if _, err := store.List(ctx, m.TableName(), ListOptions{OrderBy: "updated_at"}); err != nil {
		t.Errorf("List() rejected updated_at: %v", err)
	}
}

func TestSQLiteUnregisteredTable(t *testing.T) {
	store, _ := newSQLiteStore(t)
	if _, err := store.Get(context.Background(), "nope", "1"); err == nil {
		t.Error("unregistered table should fail")
	}
}
