package collections_test

import (
	"testing"

	"github.com/pocketbase/pocketbase"

	"doorquote/collections"
	"doorquote/testhelpers"
)

// clearAlwaysRequired resets the flag behind the record hooks' back, as for
// data created before the flag existed.
func clearAlwaysRequired(t *testing.T, app *pocketbase.PocketBase) {
	t.Helper()
	if _, err := app.DB().NewQuery("UPDATE parameters SET is_always_required = 0").Execute(); err != nil {
		t.Fatalf("clear is_always_required: %v", err)
	}
}

func TestMigrateAlwaysRequiredFlag(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	model := testhelpers.CreateTestParameter(t, app, "Model", "SELECT", nil)
	modello := testhelpers.CreateTestParameter(t, app, "Style", "SELECT", map[string]any{"name_localized": "Modello"})
	material := testhelpers.CreateTestParameter(t, app, "Material", "SELECT", nil)
	clearAlwaysRequired(t, app)

	if err := collections.MigrateAlwaysRequiredFlag(app); err != nil {
		t.Fatalf("MigrateAlwaysRequiredFlag() error: %v", err)
	}

	tests := []struct {
		id   string
		name string
		want bool
	}{
		{model.Id, "Model", true},
		{modello.Id, "Style/Modello", true},
		{material.Id, "Material", false},
	}
	for _, tt := range tests {
		r, err := app.FindRecordById("parameters", tt.id)
		if err != nil {
			t.Fatalf("reload %s: %v", tt.name, err)
		}
		if got := r.GetBool("is_always_required"); got != tt.want {
			t.Errorf("%s is_always_required = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMigrateAlwaysRequiredFlag_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestParameter(t, app, "model", "SELECT", nil)
	clearAlwaysRequired(t, app)

	for i := 0; i < 2; i++ {
		if err := collections.MigrateAlwaysRequiredFlag(app); err != nil {
			t.Fatalf("run %d error: %v", i+1, err)
		}
	}

	flagged, err := app.FindRecordsByFilter("parameters", "is_always_required = true", "", 0, 0, nil)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(flagged) != 1 {
		t.Errorf("expected 1 flagged parameter, got %d", len(flagged))
	}
}
