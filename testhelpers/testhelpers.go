// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app, runs collections.Setup to create all tables and
// registers the catalog hooks. The temporary directory is cleaned up
// automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)
	collections.RegisterHooks(app)

	return app
}

// CreateRecord saves a record with the given fields into collection and returns it.
func CreateRecord(t *testing.T, app *pocketbase.PocketBase, collection string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}

	return record
}

// CreateTestCounterparty creates a counterparty of the given type ("client",
// "supplier", "partner" or "installer").
func CreateTestCounterparty(t *testing.T, app *pocketbase.PocketBase, name, kind string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "counterparties", map[string]any{
		"name":       name,
		"type":       kind,
		"email":      "test@example.com",
		"phone":      "+39 02 1234567",
		"vat_number": "IT01234567890",
	})
}

// CreateTestCategory creates a product category.
func CreateTestCategory(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "categories", map[string]any{"name": name})
}

// LinkSupplierToCategory creates a supplier_categories link record.
func LinkSupplierToCategory(t *testing.T, app *pocketbase.PocketBase, supplierID, categoryID string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "supplier_categories", map[string]any{
		"supplier": supplierID,
		"category": categoryID,
	})
}

// CreateTestParameter creates a parameter record. Extra fields (bounds,
// is_system, ...) are merged over the defaults.
func CreateTestParameter(t *testing.T, app *pocketbase.PocketBase, name, kind string, extra map[string]any) *core.Record {
	t.Helper()
	fields := map[string]any{"name": name, "kind": kind}
	for k, v := range extra {
		fields[k] = v
	}
	return CreateRecord(t, app, "parameters", fields)
}

// CreateTestParameterValue creates an active value of a SELECT/COLOR parameter.
func CreateTestParameterValue(t *testing.T, app *pocketbase.PocketBase, parameterID, value string, sortOrder int) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "parameter_values", map[string]any{
		"parameter":  parameterID,
		"value":      value,
		"sort_order": sortOrder,
		"is_active":  true,
	})
}

// BindParameter creates a category_parameters binding.
func BindParameter(t *testing.T, app *pocketbase.PocketBase, categoryID, parameterID string, required bool, sortOrder int) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "category_parameters", map[string]any{
		"category":    categoryID,
		"parameter":   parameterID,
		"is_required": required,
		"is_visible":  true,
		"sort_order":  sortOrder,
	})
}

// CreateTestOverride creates a supplier_parameter_overrides record. fields
// may set is_available, range_override and custom_values.
func CreateTestOverride(t *testing.T, app *pocketbase.PocketBase, supplierID, parameterID string, fields map[string]any) *core.Record {
	t.Helper()
	all := map[string]any{"supplier": supplierID, "parameter": parameterID, "is_available": true}
	for k, v := range fields {
		all[k] = v
	}
	return CreateRecord(t, app, "supplier_parameter_overrides", all)
}

// CreateTestProposal creates a draft proposal for a client.
func CreateTestProposal(t *testing.T, app *pocketbase.PocketBase, clientID, number string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "proposals", map[string]any{
		"number":  number,
		"client":  clientID,
		"manager": "Test Manager",
		"status":  "draft",
		"locale":  "en",
	})
}

// CreateTestGroup creates a proposal group.
func CreateTestGroup(t *testing.T, app *pocketbase.PocketBase, proposalID, name string, sortOrder int) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "proposal_groups", map[string]any{
		"proposal":   proposalID,
		"name":       name,
		"sort_order": sortOrder,
	})
}

// CreateTestPosition creates a priced position inside a group.
func CreateTestPosition(t *testing.T, app *pocketbase.PocketBase, groupID, categoryID, linkID string, configuration map[string]any, unitPrice, qty, discount, vat float64) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "proposal_positions", map[string]any{
		"proposal_group":    groupID,
		"category":          categoryID,
		"supplier_category": linkID,
		"configuration":     configuration,
		"description":       "Test position",
		"unit_price":        unitPrice,
		"quantity":          qty,
		"discount_percent":  discount,
		"vat_percent":       vat,
	})
}

// DoorFixture is a minimal interior-door catalog with one supplier, one
// client and an empty draft proposal.
//
//	Width, Height  system NUMBER 600..1200 / 1800..2400
//	Model          SELECT, always required
//	Material       SELECT MDF / Wood, required
//	Glazed         BOOLEAN
type DoorFixture struct {
	Category *core.Record
	Supplier *core.Record
	Link     *core.Record
	Client   *core.Record

	Width    *core.Record
	Height   *core.Record
	Model    *core.Record
	Material *core.Record
	Glazed   *core.Record

	Proposal *core.Record
	Group    *core.Record
}

// ValidConfiguration returns a configuration that passes validation.
func (f DoorFixture) ValidConfiguration() map[string]any {
	return map[string]any{
		f.Width.Id:    900,
		f.Height.Id:   2100,
		f.Model.Id:    "Linea",
		f.Material.Id: "Wood",
		f.Glazed.Id:   true,
	}
}

// CreateDoorFixture builds a DoorFixture.
func CreateDoorFixture(t *testing.T, app *pocketbase.PocketBase) DoorFixture {
	t.Helper()

	var f DoorFixture
	f.Category = CreateTestCategory(t, app, "Interior doors")
	f.Supplier = CreateTestCounterparty(t, app, "Porte Rossi", "supplier")
	f.Link = LinkSupplierToCategory(t, app, f.Supplier.Id, f.Category.Id)
	f.Client = CreateTestCounterparty(t, app, "Studio Verdi", "client")

	f.Width = CreateTestParameter(t, app, "Width", "NUMBER", map[string]any{
		"unit": "mm", "is_system": true, "sort_order": 1,
		"bounds": map[string]any{"min": 600, "max": 1200, "step": 10},
	})
	f.Height = CreateTestParameter(t, app, "Height", "NUMBER", map[string]any{
		"unit": "mm", "is_system": true, "sort_order": 2,
		"bounds": map[string]any{"min": 1800, "max": 2400},
	})
	f.Model = CreateTestParameter(t, app, "Model", "SELECT", map[string]any{"is_always_required": true, "sort_order": 3})
	CreateTestParameterValue(t, app, f.Model.Id, "Linea", 1)
	CreateTestParameterValue(t, app, f.Model.Id, "Classica", 2)
	f.Material = CreateTestParameter(t, app, "Material", "SELECT", map[string]any{"sort_order": 4})
	CreateTestParameterValue(t, app, f.Material.Id, "MDF", 1)
	CreateTestParameterValue(t, app, f.Material.Id, "Wood", 2)
	f.Glazed = CreateTestParameter(t, app, "Glazed", "BOOLEAN", map[string]any{"sort_order": 5})

	BindParameter(t, app, f.Category.Id, f.Width.Id, true, 1)
	BindParameter(t, app, f.Category.Id, f.Height.Id, true, 2)
	BindParameter(t, app, f.Category.Id, f.Model.Id, false, 3)
	BindParameter(t, app, f.Category.Id, f.Material.Id, true, 4)
	BindParameter(t, app, f.Category.Id, f.Glazed.Id, false, 5)

	f.Proposal = CreateTestProposal(t, app, f.Client.Id, "PRV-2026-0001")
	f.Group = CreateTestGroup(t, app, f.Proposal.Id, "Ground floor", 1)
	return f
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
