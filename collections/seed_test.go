package collections_test

import (
	"testing"

	"doorquote/collections"
	"doorquote/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	counts := map[string]int{
		"categories":          2,
		"parameters":          11,
		"supplier_categories": 3,
		"proposals":           1,
		"proposal_groups":     2,
		"proposal_positions":  3,
	}
	for name, want := range counts {
		records, err := app.FindAllRecords(name)
		if err != nil {
			t.Fatalf("query %s error: %v", name, err)
		}
		if len(records) != want {
			t.Errorf("%s: expected %d records, got %d", name, want, len(records))
		}
	}

	// Model carries the explicit flag.
	model, err := app.FindFirstRecordByData("parameters", "name", "Model")
	if err != nil {
		t.Fatalf("Model parameter not found: %v", err)
	}
	if !model.GetBool("is_always_required") {
		t.Error("Model should be always required")
	}

	// RAL codes are derived from the hex colour by the record hook.
	anthracite, err := app.FindFirstRecordByData("parameter_values", "value", "Anthracite")
	if err != nil {
		t.Fatalf("Anthracite value not found: %v", err)
	}
	if got := anthracite.GetString("ral_code"); got != "RAL 7016" {
		t.Errorf("Anthracite ral_code = %q, want RAL 7016", got)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	params, _ := app.FindAllRecords("parameters")
	if len(params) != 11 {
		t.Errorf("expected 11 parameters after seeding twice, got %d", len(params))
	}
	proposals, _ := app.FindAllRecords("proposals")
	if len(proposals) != 1 {
		t.Errorf("expected 1 proposal after seeding twice, got %d", len(proposals))
	}
}
