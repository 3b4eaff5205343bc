package schema

import (
	"context"
	"strings"
	"testing"
)

func testHandler(method, pattern string) Handler {
	return NewHandler(Meta{Method: method, Pattern: pattern}, func(ctx context.Context, req Request) Result {
		return Result{}
	})
}

func TestOverrideNormalizeCRUD(t *testing.T) {
	actions, err := CRUD().Normalize()
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if len(actions) != 5 {
		t.Fatalf("Normalize() returned %d actions, want 5", len(actions))
	}
	for _, a := range ActionOrder {
		if !actions[a].IsEnabled() {
			t.Errorf("action %q not enabled", a)
		}
	}
}

func TestOverrideNormalizeNoCRUD(t *testing.T) {
	actions, err := NoCRUD().Normalize()
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	for _, a := range ActionOrder {
		if !actions[a].IsDisabled() {
			t.Errorf("action %q not disabled", a)
		}
	}
}

func TestOverrideZeroValueDisablesAll(t *testing.T) {
	var o Override
	actions, err := o.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	for _, a := range ActionOrder {
		if !actions[a].IsDisabled() {
			t.Errorf("action %q not disabled for zero-value override", a)
		}
	}
}

func TestOverrideNormalizePerAction(t *testing.T) {
	h := testHandler("GET", "/special/{id}")
	o := Actions(map[Action]ActionOverride{
		ActionList: Enabled,
		ActionGet:  Custom(h),
	})

	actions, err := o.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	if !actions[ActionList].IsEnabled() {
		t.Error("list should be enabled")
	}
	got, ok := actions[ActionGet].CustomHandler()
	if !ok {
		t.Fatal("get should carry a custom handler")
	}
	if got.Meta().Pattern != "/special/{id}" {
		t.Errorf("custom handler pattern = %q", got.Meta().Pattern)
	}

	// Omitted actions are disabled, not defaulted.
	for _, a := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
		if !actions[a].IsDisabled() {
			t.Errorf("omitted action %q should be disabled", a)
		}
	}
}

func TestOverrideNormalizeUnknownAction(t *testing.T) {
	o := Actions(map[Action]ActionOverride{
		ActionList: Enabled,
		"patch":    Enabled,
	})

	_, err := o.Normalize()
	if err == nil {
		t.Fatal("Normalize() should fail on unknown action key")
	}
	if !strings.Contains(err.Error(), "patch") {
		t.Errorf("error %q should name the offending key", err)
	}
}

func TestActionsCopiesInput(t *testing.T) {
	m := map[Action]ActionOverride{ActionList: Enabled}
	o := Actions(m)
	m[ActionGet] = Enabled

	actions, err := o.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if !actions[ActionGet].IsDisabled() {
		t.Error("mutating the input map after Actions() changed the override")
	}
}

func TestActionOverrideZeroValueIsDisabled(t *testing.T) {
	var ov ActionOverride
	if !ov.IsDisabled() {
		t.Error("zero-value ActionOverride should be disabled")
	}
	if ov.IsEnabled() {
		t.Error("zero-value ActionOverride should not be enabled")
	}
	if _, ok := ov.CustomHandler(); ok {
		t.Error("zero-value ActionOverride should have no handler")
	}
}
