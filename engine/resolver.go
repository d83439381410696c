package engine

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// SupplierParameterOverride is a supplier-specific change to one parameter.
type SupplierParameterOverride struct {
	SupplierID  string
	ParameterID string
	// IsAvailable false hides the parameter for this supplier entirely.
	IsAvailable bool
	// MinOverride and MaxOverride replace the catalog bounds of a NUMBER
	// parameter, each side independently.
	MinOverride *float64
	MaxOverride *float64
	// CustomValues are appended after the catalog values of a SELECT or
	// COLOR parameter.
	CustomValues []string
}

// ParameterGroup is the rendering group an effective parameter belongs to.
type ParameterGroup string

const (
	GroupSystem ParameterGroup = "system"
	GroupOther  ParameterGroup = "other"
)

// EffectiveParameter is a parameter after supplier overrides were applied.
// Min, Max and Values are owned by the EffectiveParameter; changing them
// never touches the catalog.
type EffectiveParameter struct {
	Parameter

	IsRequired bool
	IsVisible  bool
	// Bound is false for global parameters that reached the list without a
	// category binding.
	Bound        bool
	BindingOrder int
	Group        ParameterGroup
}

// Required reports whether a value must be present.
func (p EffectiveParameter) Required() bool {
	return p.IsAlwaysRequired || p.IsRequired
}

// Resolve returns the effective parameter list for a category and supplier.
//
// The result starts from the category bindings plus every global parameter,
// drops parameters the supplier marked unavailable, replaces NUMBER bounds
// with the supplier's overrides and appends the supplier's custom values to
// SELECT and COLOR parameters. System parameters come first, then the rest.
// An unknown category or supplier yields an empty list.
func Resolve(categoryID, supplierID string, catalog *Catalog, bindings []CategoryParameter, overrides []SupplierParameterOverride) []EffectiveParameter {
	if catalog == nil {
		panic("engine: Resolve called with a nil catalog")
	}
	out := []EffectiveParameter{}
	if !catalog.HasCategory(categoryID) || !catalog.HasSupplier(supplierID) {
		return out
	}

	candidates := BindingsFor(catalog, bindings, categoryID)
	included := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		included[c.Parameter.ID] = true
	}
	bound := len(candidates)
	for _, p := range catalog.Parameters {
		if !p.IsGlobal || included[p.ID] {
			continue
		}
		included[p.ID] = true
		candidates = append(candidates, Binding{
			Parameter: p,
			CategoryParameter: CategoryParameter{
				CategoryID:  categoryID,
				ParameterID: p.ID,
				IsVisible:   true,
				Order:       p.Order,
			},
		})
	}

	byParam := indexOverrides(overrides, supplierID)
	for i, c := range candidates {
		o, hasOverride := byParam[c.Parameter.ID]
		if hasOverride && !o.IsAvailable {
			continue
		}
		ep := EffectiveParameter{
			Parameter:    c.Parameter,
			IsRequired:   c.IsRequired,
			IsVisible:    c.IsVisible,
			Bound:        i < bound,
			BindingOrder: c.Order,
			Group:        GroupOther,
		}
		if c.Parameter.IsSystem {
			ep.Group = GroupSystem
		}
		ep.Min = copyFloat(c.Parameter.Min)
		ep.Max = copyFloat(c.Parameter.Max)
		ep.Step = copyFloat(c.Parameter.Step)
		ep.Values = nil

		switch {
		case c.Parameter.Kind == KindNumber && hasOverride:
			if o.MinOverride != nil {
				ep.Min = copyFloat(o.MinOverride)
			}
			if o.MaxOverride != nil {
				ep.Max = copyFloat(o.MaxOverride)
			}
		case c.Parameter.Kind.Enumerable():
			var custom []string
			if hasOverride {
				custom = o.CustomValues
			}
			ep.Values = effectiveValues(c.Parameter.Values, custom)
		}
		out = append(out, ep)
	}

	slices.SortStableFunc(out, compareEffective)
	return out
}

// compareEffective orders system parameters first, then bound parameters
// before unbound globals, then by binding order.
func compareEffective(a, b EffectiveParameter) int {
	if a.IsSystem != b.IsSystem {
		if a.IsSystem {
			return -1
		}
		return 1
	}
	if a.Bound != b.Bound {
		if a.Bound {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.BindingOrder, b.BindingOrder)
}

func indexOverrides(overrides []SupplierParameterOverride, supplierID string) map[string]SupplierParameterOverride {
	byParam := make(map[string]SupplierParameterOverride)
	for _, o := range overrides {
		if o.SupplierID != supplierID {
			continue
		}
		if _, dup := byParam[o.ParameterID]; dup {
			continue
		}
		byParam[o.ParameterID] = o
	}
	return byParam
}

// effectiveValues copies the catalog values in display order and appends one
// synthetic value per non-blank custom value. Synthetic ids are negative
// ("-1", "-2", ...) so they never collide with catalog ids.
func effectiveValues(catalog []ParameterValue, custom []string) []ParameterValue {
	values := make([]ParameterValue, 0, len(catalog)+len(custom))
	values = append(values, catalog...)
	slices.SortStableFunc(values, func(a, b ParameterValue) int {
		return cmp.Compare(a.Order, b.Order)
	})

	next := 0
	for _, v := range values {
		next = max(next, v.Order)
	}
	n := 0
	for _, text := range custom {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		n++
		next++
		values = append(values, ParameterValue{
			ID:       strconv.Itoa(-n),
			Value:    text,
			Order:    next,
			IsActive: true,
			IsCustom: true,
		})
	}
	return values
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
