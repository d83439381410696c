package engine

import "testing"

func TestDescribeReferenceScenario(t *testing.T) {
	params := []EffectiveParameter{
		{Parameter: Parameter{ID: "w", Name: "Width", Kind: KindNumber, IsSystem: true}, IsVisible: true},
		{Parameter: Parameter{ID: "h", Name: "Height", Kind: KindNumber, IsSystem: true}, IsVisible: true},
		{Parameter: Parameter{ID: "mat", Name: "Material", Kind: KindSelect, Values: []ParameterValue{
			{ID: "1", Value: "MDF", IsActive: true, Order: 1},
			{ID: "2", Value: "Wood", IsActive: true, Order: 2},
		}}, IsVisible: true},
		{Parameter: Parameter{ID: "g", Name: "Glazed", Kind: KindBoolean}, IsVisible: true},
	}
	cfg := Configuration{"w": 900, "h": 2100, "mat": "Wood", "g": true}

	got := Describe(params, cfg, LocaleEN, "urgent")
	want := "900x2100 | Wood | Glazed: Yes | Note: urgent"
	if got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
	if again := Describe(params, cfg, LocaleEN, "urgent"); again != got {
		t.Errorf("Describe is not deterministic: %q then %q", got, again)
	}
}

func TestDescribe(t *testing.T) {
	catalog := doorCatalog()
	overrides := []SupplierParameterOverride{
		{SupplierID: "beta", ParameterID: "colour", IsAvailable: true, CustomValues: []string{"Bordeaux"}},
	}
	acme := Resolve("doors", "acme", catalog, doorBindings(), nil)
	beta := Resolve("doors", "beta", catalog, doorBindings(), overrides)

	full := Configuration{
		"width":    900,
		"height":   2100,
		"model":    "Linea",
		"material": "Wood",
		"colour":   "Anthracite",
		"glazed":   false,
		"handle":   1000,
		"extras":   []any{"Kick plate", " ", "Peephole"},
		"warranty": true,
	}

	tests := []struct {
		name   string
		params []EffectiveParameter
		cfg    Configuration
		loc    Locale
		notes  string
		want   string
	}{
		{
			name:   "italian_full",
			params: acme, cfg: full, loc: LocaleIT, notes: "consegna al piano",
			want: "900x2100 | Linea | Legno | Antracite (RAL 7016) | 1000mm | Kick plate, Peephole | Vetrata: No | Garanzia estesa: Sì | Nota: consegna al piano",
		},
		{
			name:   "english_full",
			params: acme, cfg: full, loc: LocaleEN,
			want: "900x2100 | Linea | Wood | Anthracite (RAL 7016) | 1000mm | Kick plate, Peephole | Glazed: No | Extended warranty: Yes",
		},
		{
			name:   "height_only",
			params: acme, cfg: Configuration{"height": "2100", "model": "Classica"}, loc: LocaleEN,
			want: "2100 | Classica",
		},
		{
			name:   "width_only_fractional",
			params: acme, cfg: Configuration{"width": 812.5}, loc: LocaleEN,
			want: "812.5",
		},
		{
			name:   "colour_without_ral",
			params: acme, cfg: Configuration{"colour": "Noce"}, loc: LocaleIT,
			want: "Noce",
		},
		{
			name:   "custom_value",
			params: beta, cfg: Configuration{"colour": "Bordeaux"}, loc: LocaleIT,
			want: "Bordeaux",
		},
		{
			name:   "notes_only",
			params: acme, cfg: Configuration{}, loc: LocaleEN, notes: " call first ",
			want: "Note: call first",
		},
		{name: "empty_english", params: acme, cfg: Configuration{}, loc: LocaleEN, want: "Product"},
		{name: "empty_italian", params: acme, cfg: nil, loc: LocaleIT, want: "Prodotto"},
		{name: "no_parameters", params: nil, cfg: full, loc: LocaleEN, want: "Product"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.params, tt.cfg, tt.loc, tt.notes); got != tt.want {
				t.Errorf("Describe =\n  %q\nwant\n  %q", got, tt.want)
			}
		})
	}
}

func TestDescribeKinds(t *testing.T) {
	params := []EffectiveParameter{
		{Parameter: Parameter{ID: "slider", Name: "Slider", Kind: Kind("SLIDER")}},
		{Parameter: Parameter{ID: "date", Name: "Install date", Kind: KindDate}},
		{Parameter: Parameter{ID: "note", Name: "Engraving", Kind: KindText}},
		{Parameter: Parameter{ID: "sys", Name: "Frame depth", Kind: KindNumber, Unit: "mm", IsSystem: true}},
	}
	cfg := Configuration{"slider": 5, "date": "2026-03-01", "note": "A&B", "sys": 90}
	got := Describe(params, cfg, LocaleEN, "")
	want := "5 | A&B"
	if got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
}
