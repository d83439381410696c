package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/engine"
)

var (
	// ErrLinkNotFound is returned when a supplier-category link does not exist.
	ErrLinkNotFound = errors.New("supplier-category link not found")
	// ErrLinkCategoryMismatch is returned when a supplier-category link
	// belongs to another category than the one requested.
	ErrLinkCategoryMismatch = errors.New("supplier-category link does not belong to the category")
)

// numberBounds is the JSON shape of parameters.bounds and
// supplier_parameter_overrides.range_override. A null side means "no bound".
type numberBounds struct {
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
	Step *float64 `json:"step,omitempty"`
}

// decodeJSONField unmarshals a JSON field into dst. Empty and null fields
// leave dst untouched.
func decodeJSONField(r *core.Record, key string, dst any) error {
	raw := strings.TrimSpace(r.GetString(key))
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func sortedRecords(app *pocketbase.PocketBase, collection string, where dbx.Expression) ([]*core.Record, error) {
	records := []*core.Record{}
	q := app.RecordQuery(collection)
	if where != nil {
		q = q.AndWhere(where)
	}
	if err := q.OrderBy("sort_order ASC", "id ASC").All(&records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadCatalog reads every parameter with its values, every category and
// every supplier into an engine.Catalog.
func LoadCatalog(app *pocketbase.PocketBase) (*engine.Catalog, error) {
	paramRecs, err := sortedRecords(app, "parameters", nil)
	if err != nil {
		return nil, fmt.Errorf("load catalog: parameters: %w", err)
	}
	valueRecs, err := sortedRecords(app, "parameter_values", nil)
	if err != nil {
		return nil, fmt.Errorf("load catalog: parameter values: %w", err)
	}
	categoryRecs, err := sortedRecords(app, "categories", nil)
	if err != nil {
		return nil, fmt.Errorf("load catalog: categories: %w", err)
	}
	supplierRecs, err := app.FindAllRecords("counterparties", dbx.HashExp{"type": "supplier"})
	if err != nil {
		return nil, fmt.Errorf("load catalog: suppliers: %w", err)
	}

	valuesByParam := make(map[string][]engine.ParameterValue)
	for _, r := range valueRecs {
		pid := r.GetString("parameter")
		valuesByParam[pid] = append(valuesByParam[pid], valueFromRecord(r))
	}

	catalog := &engine.Catalog{}
	for _, r := range paramRecs {
		catalog.Parameters = append(catalog.Parameters, parameterFromRecord(r, valuesByParam[r.Id]))
	}
	for _, r := range categoryRecs {
		catalog.Categories = append(catalog.Categories, engine.Category{ID: r.Id, Name: r.GetString("name")})
	}
	for _, r := range supplierRecs {
		catalog.Suppliers = append(catalog.Suppliers, engine.Supplier{ID: r.Id, Name: r.GetString("name")})
	}
	return catalog, nil
}

func parameterFromRecord(r *core.Record, values []engine.ParameterValue) engine.Parameter {
	p := engine.Parameter{
		ID:               r.Id,
		Name:             r.GetString("name"),
		NameLocalized:    r.GetString("name_localized"),
		Kind:             engine.ParseKind(r.GetString("kind")),
		Unit:             r.GetString("unit"),
		IsSystem:         r.GetBool("is_system"),
		IsGlobal:         r.GetBool("is_global"),
		IsAlwaysRequired: r.GetBool("is_always_required"),
		Order:            r.GetInt("sort_order"),
		Values:           values,
	}
	var b numberBounds
	if err := decodeJSONField(r, "bounds", &b); err != nil {
		log.Printf("catalog: parameterFromRecord: bad bounds on %s: %v", r.Id, err)
	}
	p.Min, p.Max, p.Step = b.Min, b.Max, b.Step
	return p
}

func valueFromRecord(r *core.Record) engine.ParameterValue {
	return engine.ParameterValue{
		ID:             r.Id,
		Value:          r.GetString("value"),
		ValueLocalized: r.GetString("value_localized"),
		HexColor:       r.GetString("hex_color"),
		RALCode:        r.GetString("ral_code"),
		Order:          r.GetInt("sort_order"),
		IsActive:       r.GetBool("is_active"),
	}
}

// LoadBindings returns the category_parameters bindings of a category.
func LoadBindings(app *pocketbase.PocketBase, categoryID string) ([]engine.CategoryParameter, error) {
	records, err := sortedRecords(app, "category_parameters", dbx.HashExp{"category": categoryID})
	if err != nil {
		return nil, fmt.Errorf("load bindings for %s: %w", categoryID, err)
	}
	out := make([]engine.CategoryParameter, 0, len(records))
	for _, r := range records {
		out = append(out, engine.CategoryParameter{
			CategoryID:  r.GetString("category"),
			ParameterID: r.GetString("parameter"),
			IsRequired:  r.GetBool("is_required"),
			IsVisible:   r.GetBool("is_visible"),
			Order:       r.GetInt("sort_order"),
		})
	}
	return out, nil
}

// LoadOverrides returns the supplier_parameter_overrides of a supplier.
func LoadOverrides(app *pocketbase.PocketBase, supplierID string) ([]engine.SupplierParameterOverride, error) {
	records, err := app.FindAllRecords("supplier_parameter_overrides", dbx.HashExp{"supplier": supplierID})
	if err != nil {
		return nil, fmt.Errorf("load overrides for %s: %w", supplierID, err)
	}
	out := make([]engine.SupplierParameterOverride, 0, len(records))
	for _, r := range records {
		o := engine.SupplierParameterOverride{
			SupplierID:  r.GetString("supplier"),
			ParameterID: r.GetString("parameter"),
			IsAvailable: r.GetBool("is_available"),
		}
		var b numberBounds
		if err := decodeJSONField(r, "range_override", &b); err != nil {
			log.Printf("catalog: LoadOverrides: bad range_override on %s: %v", r.Id, err)
		}
		o.MinOverride, o.MaxOverride = b.Min, b.Max
		if err := decodeJSONField(r, "custom_values", &o.CustomValues); err != nil {
			log.Printf("catalog: LoadOverrides: bad custom_values on %s: %v", r.Id, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// ResolveParameters loads the catalog, the category's bindings and the
// supplier's overrides and resolves the effective parameter list.
func ResolveParameters(app *pocketbase.PocketBase, categoryID, supplierID string) ([]engine.EffectiveParameter, error) {
	catalog, err := LoadCatalog(app)
	if err != nil {
		return nil, err
	}
	bindings, err := LoadBindings(app, categoryID)
	if err != nil {
		return nil, err
	}
	overrides, err := LoadOverrides(app, supplierID)
	if err != nil {
		return nil, err
	}
	return engine.Resolve(categoryID, supplierID, catalog, bindings, overrides), nil
}

// SupplierForLink returns the supplier of a supplier-category link. When
// categoryID is not empty the link must belong to that category.
func SupplierForLink(app *pocketbase.PocketBase, linkID, categoryID string) (string, error) {
	link, err := app.FindRecordById("supplier_categories", linkID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrLinkNotFound, linkID)
	}
	if categoryID != "" && link.GetString("category") != categoryID {
		return "", fmt.Errorf("%w: link %s, category %s", ErrLinkCategoryMismatch, linkID, categoryID)
	}
	return link.GetString("supplier"), nil
}

// PreparedPosition is a configuration checked against its effective
// parameters. Description is only set when the configuration is valid.
type PreparedPosition struct {
	SupplierID  string
	Params      []engine.EffectiveParameter
	Result      engine.ValidationResult
	Description string
}

// PreparePosition resolves the parameters for a category and
// supplier-category link, validates cfg and, when valid, renders the
// description. Validation failures are returned as data in Result; the
// error is reserved for lookup failures.
func PreparePosition(app *pocketbase.PocketBase, categoryID, linkID string, cfg engine.Configuration, notes string, loc engine.Locale) (PreparedPosition, error) {
	supplierID, err := SupplierForLink(app, linkID, categoryID)
	if err != nil {
		return PreparedPosition{}, err
	}
	params, err := ResolveParameters(app, categoryID, supplierID)
	if err != nil {
		return PreparedPosition{}, err
	}
	out := PreparedPosition{
		SupplierID: supplierID,
		Params:     params,
		Result:     engine.Validate(params, cfg),
	}
	if out.Result.OK {
		out.Description = engine.Describe(params, cfg, loc, notes)
	}
	return out, nil
}
