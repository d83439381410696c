package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type valueDef struct {
	value     string
	localized string
	hex       string
	inactive  bool
}

type parameterDef struct {
	key            string
	name           string
	localized      string
	kind           string
	unit           string
	min, max, step *float64
	system         bool
	global         bool
	alwaysRequired bool
	values         []valueDef
}

type bindingDef struct {
	param    string
	required bool
	hidden   bool
}

type overrideDef struct {
	param       string
	unavailable bool
	min, max    *float64
	custom      []string
}

type positionDef struct {
	category      string
	supplier      string
	configuration map[string]any // keyed by parameterDef.key
	description   string
	notes         string
	unitPrice     float64
	quantity      float64
	discount      float64
	vat           float64
}

func num(f float64) *float64 { return &f }

// Seed populates the catalog with a demo interior-door and window range, two
// suppliers with overrides, a client and one draft proposal. It is safe to
// call on every startup because it returns early if any parameter records
// already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if the catalog already exists ──────────────
	paramsCol, err := app.FindCollectionByNameOrId("parameters")
	if err != nil {
		return fmt.Errorf("seed: could not find parameters collection: %w", err)
	}
	existing, err := app.CountRecords(paramsCol)
	if err != nil {
		return fmt.Errorf("seed: could not count parameters: %w", err)
	}
	if existing > 0 {
		return nil // already seeded
	}

	log.Println("seed: parameters collection is empty – inserting seed data …")

	cols := map[string]*core.Collection{}
	for _, name := range []string{
		"counterparties", "categories", "supplier_categories", "parameter_values",
		"category_parameters", "supplier_parameter_overrides",
		"proposals", "proposal_groups", "proposal_positions",
	} {
		c, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			return fmt.Errorf("seed: could not find %s collection: %w", name, err)
		}
		cols[name] = c
	}

	// ── helper: save a record from a field map ───────────────────────
	save := func(col string, fields map[string]any) (*core.Record, error) {
		r := core.NewRecord(cols[col])
		for k, v := range fields {
			r.Set(k, v)
		}
		if err := app.Save(r); err != nil {
			return nil, fmt.Errorf("seed: save %s: %w", col, err)
		}
		return r, nil
	}

	// ── Catalog: parameters and values ───────────────────────────────
	parameterDefs := []parameterDef{
		{key: "width", name: "Width", localized: "Larghezza", kind: "NUMBER", unit: "mm", min: num(600), max: num(1200), step: num(10), system: true},
		{key: "height", name: "Height", localized: "Altezza", kind: "NUMBER", unit: "mm", min: num(1800), max: num(2700), step: num(10), system: true},
		{key: "model", name: "Model", localized: "Modello", kind: "SELECT", alwaysRequired: true, values: []valueDef{
			{value: "Linea"}, {value: "Classica"}, {value: "Filomuro"},
		}},
		{key: "material", name: "Material", localized: "Materiale", kind: "SELECT", values: []valueDef{
			{value: "MDF"}, {value: "Wood", localized: "Legno"}, {value: "Laminate", localized: "Laminato"},
			{value: "Solid oak", localized: "Rovere massello", inactive: true},
		}},
		{key: "finish", name: "Finish", localized: "Finitura", kind: "SELECT", values: []valueDef{
			{value: "Matt", localized: "Opaco"}, {value: "Gloss", localized: "Lucido"},
		}},
		{key: "colour", name: "Colour", localized: "Colore", kind: "COLOR", values: []valueDef{
			{value: "Traffic white", localized: "Bianco traffico", hex: "#F6F6F6"},
			{value: "Anthracite", localized: "Antracite", hex: "#293133"},
			{value: "Pure white", localized: "Bianco puro", hex: "#F4F4F4"},
			{value: "Walnut", localized: "Noce"},
		}},
		{key: "opening", name: "Opening", localized: "Apertura", kind: "SELECT", values: []valueDef{
			{value: "Tilt and turn", localized: "Anta ribalta"}, {value: "Casement", localized: "Battente"},
		}},
		{key: "glazed", name: "Glazed", localized: "Vetrata", kind: "BOOLEAN"},
		{key: "handle", name: "Handle height", localized: "Altezza maniglia", kind: "NUMBER", unit: "mm", min: num(900), max: num(1100)},
		{key: "extras", name: "Extras", localized: "Accessori", kind: "TEXT"},
		{key: "warranty", name: "Extended warranty", localized: "Garanzia estesa", kind: "BOOLEAN", global: true},
	}

	params := map[string]*core.Record{}
	for i, d := range parameterDefs {
		p := core.NewRecord(paramsCol)
		p.Set("name", d.name)
		p.Set("name_localized", d.localized)
		p.Set("kind", d.kind)
		p.Set("unit", d.unit)
		if d.kind == "NUMBER" {
			p.Set("bounds", map[string]*float64{"min": d.min, "max": d.max, "step": d.step})
		}
		p.Set("is_system", d.system)
		p.Set("is_global", d.global)
		p.Set("is_always_required", d.alwaysRequired)
		p.Set("sort_order", i+1)
		if err := app.Save(p); err != nil {
			return fmt.Errorf("seed: save parameter %q: %w", d.name, err)
		}
		params[d.key] = p

		for j, v := range d.values {
			if _, err := save("parameter_values", map[string]any{
				"parameter":       p.Id,
				"value":           v.value,
				"value_localized": v.localized,
				"hex_color":       v.hex,
				"sort_order":      j + 1,
				"is_active":       !v.inactive,
			}); err != nil {
				return err
			}
		}
	}

	// ── Categories and bindings ──────────────────────────────────────
	doors, err := save("categories", map[string]any{"name": "Interior doors", "name_localized": "Porte interne", "sort_order": 1})
	if err != nil {
		return err
	}
	windows, err := save("categories", map[string]any{"name": "Windows", "name_localized": "Finestre", "sort_order": 2})
	if err != nil {
		return err
	}

	bind := func(categoryID string, defs []bindingDef) error {
		for i, b := range defs {
			if _, err := save("category_parameters", map[string]any{
				"category":    categoryID,
				"parameter":   params[b.param].Id,
				"is_required": b.required,
				"is_visible":  !b.hidden,
				"sort_order":  i + 1,
			}); err != nil {
				return err
			}
		}
		return nil
	}
	if err := bind(doors.Id, []bindingDef{
		{param: "width", required: true}, {param: "height", required: true},
		{param: "model"}, {param: "material", required: true}, {param: "finish"},
		{param: "colour"}, {param: "glazed"}, {param: "handle"}, {param: "extras"},
	}); err != nil {
		return err
	}
	if err := bind(windows.Id, []bindingDef{
		{param: "width", required: true}, {param: "height", required: true},
		{param: "model"}, {param: "opening", required: true}, {param: "colour", required: true},
		{param: "extras"},
	}); err != nil {
		return err
	}

	// ── Counterparties ───────────────────────────────────────────────
	rossi, err := save("counterparties", map[string]any{
		"name": "Porte Rossi S.r.l.", "type": "supplier", "email": "ordini@porterossi.it",
		"phone": "+39 0444 123456", "vat_number": "IT01234567890", "address": "Via dell'Industria 12, 36100 Vicenza",
	})
	if err != nil {
		return err
	}
	bianchi, err := save("counterparties", map[string]any{
		"name": "Serramenti Bianchi S.p.A.", "type": "supplier", "email": "commerciale@bianchiserramenti.it",
		"phone": "+39 035 987654", "vat_number": "IT09876543210", "address": "Via Roma 88, 24100 Bergamo",
	})
	if err != nil {
		return err
	}
	client, err := save("counterparties", map[string]any{
		"name": "Studio Verdi Architetti", "type": "client", "email": "info@studioverdi.it",
		"phone": "+39 02 5551234", "vat_number": "IT11223344556", "address": "Corso Magenta 5, 20123 Milano",
	})
	if err != nil {
		return err
	}
	if _, err := save("counterparties", map[string]any{
		"name": "Posa Facile", "type": "installer", "phone": "+39 333 1234567",
	}); err != nil {
		return err
	}

	links := map[string]*core.Record{}
	for _, l := range []struct{ key, supplier, category, line string }{
		{"rossi-doors", rossi.Id, doors.Id, "Linea Casa"},
		{"bianchi-doors", bianchi.Id, doors.Id, "Design"},
		{"bianchi-windows", bianchi.Id, windows.Id, "Clima PVC"},
	} {
		r, err := save("supplier_categories", map[string]any{"supplier": l.supplier, "category": l.category, "product_line": l.line})
		if err != nil {
			return err
		}
		links[l.key] = r
	}

	// ── Supplier overrides ───────────────────────────────────────────
	override := func(supplierID string, d overrideDef) error {
		fields := map[string]any{
			"supplier":     supplierID,
			"parameter":    params[d.param].Id,
			"is_available": !d.unavailable,
		}
		if d.min != nil || d.max != nil {
			fields["range_override"] = map[string]*float64{"min": d.min, "max": d.max}
		}
		if len(d.custom) > 0 {
			fields["custom_values"] = d.custom
		}
		_, err := save("supplier_parameter_overrides", fields)
		return err
	}
	for _, d := range []overrideDef{
		{param: "handle", min: num(950)},
		{param: "finish", unavailable: true},
	} {
		if err := override(rossi.Id, d); err != nil {
			return err
		}
	}
	for _, d := range []overrideDef{
		{param: "width", max: num(1400)},
		{param: "glazed", unavailable: true},
		{param: "colour", custom: []string{"Bordeaux", "Sage green"}},
	} {
		if err := override(bianchi.Id, d); err != nil {
			return err
		}
	}

	// ── Draft proposal ───────────────────────────────────────────────
	now := time.Now()
	proposal, err := save("proposals", map[string]any{
		"number":  fmt.Sprintf("PRV-%d-0001", now.Year()),
		"client":  client.Id,
		"manager": "Giulia Neri",
		"date":    now,
		"status":  "draft",
		"notes":   "Prices valid for 30 days.",
		"locale":  "it",
	})
	if err != nil {
		return err
	}

	// Configurations are stored keyed by parameter record id.
	configuration := func(values map[string]any) map[string]any {
		out := make(map[string]any, len(values))
		for k, v := range values {
			out[params[k].Id] = v
		}
		return out
	}

	groups := []struct {
		name      string
		positions []positionDef
	}{
		{"Piano terra", []positionDef{
			{
				category: "doors", supplier: "rossi-doors",
				configuration: map[string]any{"width": 800, "height": 2100, "model": "Linea", "material": "Wood", "colour": "Traffic white", "glazed": false},
				description:   "800x2100 | Linea | Legno | Bianco traffico (RAL 9016) | Vetrata: No",
				unitPrice:     420, quantity: 4, discount: 10, vat: 22,
			},
			{
				category: "doors", supplier: "bianchi-doors",
				configuration: map[string]any{"width": 900, "height": 2400, "model": "Filomuro", "material": "Laminate", "colour": "Bordeaux"},
				description:   "900x2400 | Filomuro | Laminato | Bordeaux | Nota: porta cantina",
				notes:         "porta cantina",
				unitPrice:     610, quantity: 1, vat: 22,
			},
		}},
		{"Primo piano", []positionDef{
			{
				category: "windows", supplier: "bianchi-windows",
				configuration: map[string]any{"width": 1200, "height": 1800, "model": "Classica", "opening": "Tilt and turn", "colour": "Anthracite"},
				description:   "1200x1800 | Classica | Anta ribalta | Antracite (RAL 7016)",
				unitPrice:     780, quantity: 3, discount: 5, vat: 10,
			},
		}},
	}
	categoriesByKey := map[string]string{"doors": doors.Id, "windows": windows.Id}
	for i, g := range groups {
		group, err := save("proposal_groups", map[string]any{"proposal": proposal.Id, "name": g.name, "sort_order": i + 1})
		if err != nil {
			return err
		}
		for j, p := range g.positions {
			if _, err := save("proposal_positions", map[string]any{
				"proposal_group":    group.Id,
				"category":          categoriesByKey[p.category],
				"supplier_category": links[p.supplier].Id,
				"configuration":     configuration(p.configuration),
				"description":       p.description,
				"notes":             p.notes,
				"unit_price":        p.unitPrice,
				"quantity":          p.quantity,
				"discount_percent":  p.discount,
				"vat_percent":       p.vat,
				"sort_order":        j + 1,
			}); err != nil {
				return err
			}
		}
	}

	log.Println("seed: done.")
	return nil
}
