package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// CounterpartyTypes are the allowed values of counterparties.type.
var CounterpartyTypes = []string{"client", "supplier", "partner", "installer"}

// ParameterKinds are the allowed values of parameters.kind.
var ParameterKinds = []string{"NUMBER", "SELECT", "COLOR", "TEXT", "BOOLEAN", "MULTI_SELECT", "DATE", "RANGE"}

// ProposalStatuses are the allowed values of proposals.status.
var ProposalStatuses = []string{"draft", "sent", "accepted", "rejected"}

// Setup programmatically creates/ensures the catalog, counterparty and
// proposal collections exist. Totals are never stored; they are derived from
// proposal_positions on every read.
func Setup(app *pocketbase.PocketBase) {
	counterparties := ensureCollection(app, "counterparties", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "type",
			Required:  true,
			Values:    CounterpartyTypes,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.EmailField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "vat_number"})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	categories := ensureCollection(app, "categories", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "name_localized"})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
	})

	// A supplier-category link: the supplier sells products of the category.
	supplierCategories := ensureCollection(app, "supplier_categories", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "supplier",
			Required:      true,
			CollectionId:  counterparties.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "category",
			Required:      true,
			CollectionId:  categories.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "product_line"})
		c.AddIndex("idx_supplier_categories_pair", true, "supplier, category", "")
	})

	parameters := ensureCollection(app, "parameters", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "name_localized"})
		c.Fields.Add(&core.SelectField{
			Name:      "kind",
			Required:  true,
			Values:    ParameterKinds,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "unit"})
		// {"min": n|null, "max": n|null, "step": n|null}
		c.Fields.Add(&core.JSONField{Name: "bounds"})
		c.Fields.Add(&core.BoolField{Name: "is_system"})
		c.Fields.Add(&core.BoolField{Name: "is_global"})
		c.Fields.Add(&core.BoolField{Name: "is_always_required"})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
	})

	ensureCollection(app, "parameter_values", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "parameter",
			Required:      true,
			CollectionId:  parameters.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "value", Required: true})
		c.Fields.Add(&core.TextField{Name: "value_localized"})
		c.Fields.Add(&core.TextField{Name: "hex_color"})
		c.Fields.Add(&core.TextField{Name: "ral_code"})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "category_parameters", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "category",
			Required:      true,
			CollectionId:  categories.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "parameter",
			Required:     true,
			CollectionId: parameters.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.BoolField{Name: "is_required"})
		c.Fields.Add(&core.BoolField{Name: "is_visible"})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.AddIndex("idx_category_parameters_pair", true, "category, parameter", "")
	})

	ensureCollection(app, "supplier_parameter_overrides", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "supplier",
			Required:      true,
			CollectionId:  counterparties.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "parameter",
			Required:     true,
			CollectionId: parameters.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.BoolField{Name: "is_available"})
		// {"min": n|null, "max": n|null}
		c.Fields.Add(&core.JSONField{Name: "range_override"})
		// ["Bordeaux", "Sage green"]
		c.Fields.Add(&core.JSONField{Name: "custom_values"})
		c.AddIndex("idx_supplier_parameter_overrides_pair", true, "supplier, parameter", "")
	})

	proposals := ensureCollection(app, "proposals", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "number", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "client",
			Required:     true,
			CollectionId: counterparties.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "manager"})
		c.Fields.Add(&core.DateField{Name: "date"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    ProposalStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.TextField{Name: "locale"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_proposals_number", true, "number", "")
	})

	groups := ensureCollection(app, "proposal_groups", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "proposal",
			Required:      true,
			CollectionId:  proposals.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
	})

	ensureCollection(app, "proposal_positions", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "proposal_group",
			Required:      true,
			CollectionId:  groups.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "category",
			Required:     true,
			CollectionId: categories.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "supplier_category",
			Required:     true,
			CollectionId: supplierCategories.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.JSONField{Name: "configuration"})
		c.Fields.Add(&core.TextField{Name: "description"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.NumberField{Name: "unit_price"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.NumberField{Name: "discount_percent"})
		c.Fields.Add(&core.NumberField{Name: "vat_percent"})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
