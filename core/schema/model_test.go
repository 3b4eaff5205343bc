package schema

import (
	"strings"
	"testing"
)

func TestModelValidate(t *testing.T) {
	tests := []struct {
		name    string
		model   Model
		wantErr string
	}{
		{
			name:  "valid",
			model: Model{Slug: "user", Name: "User", Fields: map[string]Field{"name": {Type: FieldTypeString}}},
		},
		{
			name:    "missing name",
			model:   Model{Slug: "user"},
			wantErr: "name is required",
		},
		{
			name:    "slug not URL-safe",
			model:   Model{Slug: "us/er", Name: "User"},
			wantErr: "not URL-safe",
		},
		{
			name:  "empty slug with explicit table",
			model: Model{Slug: "", Name: "Root", Table: "roots"},
		},
		{
			name:    "empty slug without table",
			model:   Model{Slug: "", Name: "Root"},
			wantErr: "table is required",
		},
		{
			name:    "reserved field",
			model:   Model{Slug: "user", Name: "User", Fields: map[string]Field{"id": {Type: FieldTypeString}}},
			wantErr: "reserved",
		},
		{
			name:    "unknown field type",
			model:   Model{Slug: "user", Name: "User", Fields: map[string]Field{"age": {Type: "number"}}},
			wantErr: "unknown type",
		},
		{
			name:    "enum without values",
			model:   Model{Slug: "user", Name: "User", Fields: map[string]Field{"role": {Type: FieldTypeEnum}}},
			wantErr: "no values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestModelTableName(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		want  string
	}{
		{"explicit table", Model{Slug: "user", Table: "accounts"}, "accounts"},
		{"derived plural", Model{Slug: "user"}, "users"},
		{"plural es", Model{Slug: "box"}, "boxes"},
		{"plural ies", Model{Slug: "category"}, "categories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.model.TableName(); got != tt.want {
				t.Errorf("TableName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"user", "users"},
		{"class", "classes"},
		{"box", "boxes"},
		{"quiz", "quizes"},
		{"church", "churches"},
		{"dish", "dishes"},
		{"category", "categories"},
		{"day", "days"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := Pluralize(tt.word); got != tt.want {
				t.Errorf("Pluralize(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestFieldNamesSorted(t *testing.T) {
	m := Model{Fields: map[string]Field{
		"zeta":  {Type: FieldTypeString},
		"alpha": {Type: FieldTypeString},
		"mid":   {Type: FieldTypeString},
	}}

	got := m.FieldNames()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("FieldNames() returned %d names, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FieldNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
