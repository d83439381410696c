package engine

import (
	"cmp"
	"slices"
)

// CategoryParameter binds a parameter to a category with per-category flags.
type CategoryParameter struct {
	CategoryID  string
	ParameterID string
	IsRequired  bool
	IsVisible   bool
	Order       int
}

// Binding pairs a catalog parameter with its category binding.
type Binding struct {
	Parameter Parameter
	CategoryParameter
}

// BindingsFor returns the parameters bound to categoryID, sorted by binding
// order with system parameters ahead of all others. Bindings that point at
// parameters missing from the catalog are skipped.
func BindingsFor(catalog *Catalog, bindings []CategoryParameter, categoryID string) []Binding {
	if categoryID == "" {
		return nil
	}
	var out []Binding
	seen := make(map[string]bool)
	for _, b := range bindings {
		if b.CategoryID != categoryID || seen[b.ParameterID] {
			continue
		}
		p, ok := catalog.Parameter(b.ParameterID)
		if !ok {
			continue
		}
		seen[b.ParameterID] = true
		out = append(out, Binding{Parameter: p, CategoryParameter: b})
	}
	slices.SortStableFunc(out, func(a, b Binding) int {
		if a.Parameter.IsSystem != b.Parameter.IsSystem {
			if a.Parameter.IsSystem {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}
