package engine

import "math"

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ptr(f float64) *float64 { return &f }

// doorCatalog is a small interior-door catalog shared by the engine tests.
//
//	width, height   system NUMBER (mm)
//	model           SELECT, always required
//	material        SELECT MDF / Wood (Legno)
//	colour          COLOR with RAL codes
//	glazed          BOOLEAN
//	handle          NUMBER 900..1100
//	extras          TEXT
//	warranty        global BOOLEAN, no binding
func doorCatalog() *Catalog {
	return &Catalog{
		Categories: []Category{{ID: "doors", Name: "Interior doors"}, {ID: "windows", Name: "Windows"}},
		Suppliers:  []Supplier{{ID: "acme", Name: "Acme Porte"}, {ID: "beta", Name: "Beta Serramenti"}},
		Parameters: []Parameter{
			{ID: "width", Name: "Width", NameLocalized: "Larghezza", Kind: KindNumber, Unit: "mm", Min: ptr(600), Max: ptr(1200), Step: ptr(10), IsSystem: true, Order: 1},
			{ID: "height", Name: "Height", NameLocalized: "Altezza", Kind: KindNumber, Unit: "mm", Min: ptr(1800), Max: ptr(2400), IsSystem: true, Order: 2},
			{ID: "model", Name: "Model", NameLocalized: "Modello", Kind: KindSelect, IsAlwaysRequired: true, Order: 3, Values: []ParameterValue{
				{ID: "m1", Value: "Linea", Order: 1, IsActive: true},
				{ID: "m2", Value: "Classica", Order: 2, IsActive: true},
			}},
			{ID: "material", Name: "Material", NameLocalized: "Materiale", Kind: KindSelect, Order: 4, Values: []ParameterValue{
				{ID: "v-wood", Value: "Wood", ValueLocalized: "Legno", Order: 2, IsActive: true},
				{ID: "v-mdf", Value: "MDF", Order: 1, IsActive: true},
				{ID: "v-oak", Value: "Solid oak", ValueLocalized: "Rovere massello", Order: 3, IsActive: false},
			}},
			{ID: "colour", Name: "Colour", NameLocalized: "Colore", Kind: KindColor, Order: 5, Values: []ParameterValue{
				{ID: "c-white", Value: "Traffic white", ValueLocalized: "Bianco traffico", HexColor: "#F6F6F6", RALCode: "RAL 9016", Order: 1, IsActive: true},
				{ID: "c-grey", Value: "Anthracite", ValueLocalized: "Antracite", HexColor: "#293133", RALCode: "RAL 7016", Order: 2, IsActive: true},
				{ID: "c-walnut", Value: "Walnut", ValueLocalized: "Noce", Order: 3, IsActive: true},
			}},
			{ID: "glazed", Name: "Glazed", NameLocalized: "Vetrata", Kind: KindBoolean, Order: 6},
			{ID: "handle", Name: "Handle height", NameLocalized: "Altezza maniglia", Kind: KindNumber, Unit: "mm", Min: ptr(900), Max: ptr(1100), Order: 7},
			{ID: "extras", Name: "Extras", NameLocalized: "Accessori", Kind: KindText, Order: 8},
			{ID: "warranty", Name: "Extended warranty", NameLocalized: "Garanzia estesa", Kind: KindBoolean, IsGlobal: true, Order: 20},
			{ID: "install", Name: "Install date", Kind: KindDate, Order: 9},
		},
	}
}

func doorBindings() []CategoryParameter {
	return []CategoryParameter{
		{CategoryID: "doors", ParameterID: "material", IsRequired: true, IsVisible: true, Order: 3},
		{CategoryID: "doors", ParameterID: "height", IsRequired: true, IsVisible: true, Order: 20},
		{CategoryID: "doors", ParameterID: "model", IsVisible: false, Order: 1},
		{CategoryID: "doors", ParameterID: "width", IsRequired: true, IsVisible: true, Order: 10},
		{CategoryID: "doors", ParameterID: "colour", IsVisible: true, Order: 4},
		{CategoryID: "doors", ParameterID: "glazed", IsVisible: true, Order: 5},
		{CategoryID: "doors", ParameterID: "handle", IsVisible: true, Order: 6},
		{CategoryID: "doors", ParameterID: "extras", IsVisible: true, Order: 7},
		{CategoryID: "windows", ParameterID: "width", IsRequired: true, IsVisible: true, Order: 1},
	}
}

func ids(params []EffectiveParameter) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.ID
	}
	return out
}

func findEffective(params []EffectiveParameter, id string) (EffectiveParameter, bool) {
	for _, p := range params {
		if p.ID == id {
			return p, true
		}
	}
	return EffectiveParameter{}, false
}
