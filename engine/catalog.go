// Package engine resolves configurable product parameters for a category and
// supplier, validates and describes submitted configurations, and prices
// proposal documents. Every function in this package is pure: no I/O, no
// shared mutable state.
package engine

import (
	"errors"
	"strings"
)

// Kind is the data type of a configurable parameter.
type Kind string

const (
	KindNumber  Kind = "NUMBER"
	KindSelect  Kind = "SELECT"
	KindColor   Kind = "COLOR"
	KindText    Kind = "TEXT"
	KindBoolean Kind = "BOOLEAN"

	// Recognised, but nothing resolves, validates or describes them yet.
	KindMultiSelect Kind = "MULTI_SELECT"
	KindDate        Kind = "DATE"
	KindRange       Kind = "RANGE"
)

// ErrKindNotSupported is the reason reported for values of a kind that is
// known but not implemented.
var ErrKindNotSupported = errors.New("parameter kind is not supported yet")

// AllKinds lists every recognised kind in display order.
var AllKinds = []Kind{
	KindNumber, KindSelect, KindColor, KindText, KindBoolean,
	KindMultiSelect, KindDate, KindRange,
}

// ParseKind maps a stored kind name onto a Kind. Unrecognised names are kept
// verbatim (upper-cased) so callers can still tell them apart.
func ParseKind(s string) Kind {
	return Kind(strings.ToUpper(strings.TrimSpace(s)))
}

// Known reports whether k is one of the recognised kinds.
func (k Kind) Known() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Supported reports whether k has resolution, validation and description logic.
func (k Kind) Supported() bool {
	switch k {
	case KindNumber, KindSelect, KindColor, KindText, KindBoolean:
		return true
	}
	return false
}

// Enumerable reports whether k draws its value from a list of ParameterValues.
func (k Kind) Enumerable() bool {
	return k == KindSelect || k == KindColor
}

// Parameter is a configurable product attribute.
type Parameter struct {
	ID            string
	Name          string
	NameLocalized string
	Kind          Kind

	// NUMBER only.
	Unit string
	Min  *float64
	Max  *float64
	Step *float64

	// IsSystem marks dimensional parameters (width, height) that render
	// first and cannot be deleted.
	IsSystem bool
	// IsGlobal parameters apply to every category without a binding.
	IsGlobal bool
	// IsAlwaysRequired overrides the per-category required flag.
	IsAlwaysRequired bool

	Order  int
	Values []ParameterValue
}

// Label returns the parameter name for the given locale, falling back to the
// canonical name when no localized label exists.
func (p Parameter) Label(loc Locale) string {
	if loc == LocaleIT && strings.TrimSpace(p.NameLocalized) != "" {
		return p.NameLocalized
	}
	return p.Name
}

// ParameterValue is one selectable option of a SELECT or COLOR parameter.
type ParameterValue struct {
	ID             string
	Value          string
	ValueLocalized string
	HexColor       string
	RALCode        string
	Order          int
	IsActive       bool
	// IsCustom marks values injected from a supplier override.
	IsCustom bool
}

// Label returns the value text for the given locale.
func (v ParameterValue) Label(loc Locale) string {
	if loc == LocaleIT && strings.TrimSpace(v.ValueLocalized) != "" {
		return v.ValueLocalized
	}
	return v.Value
}

// Matches reports whether text equals the value or its localized text.
func (v ParameterValue) Matches(text string) bool {
	if text == "" {
		return false
	}
	return v.Value == text || (v.ValueLocalized != "" && v.ValueLocalized == text)
}

// Category is a product family.
type Category struct {
	ID   string
	Name string
}

// Supplier is a counterparty that sells configured products.
type Supplier struct {
	ID   string
	Name string
}

// Catalog is the static parameter catalog plus the known categories and
// suppliers it applies to.
type Catalog struct {
	Parameters []Parameter
	Categories []Category
	Suppliers  []Supplier
}

// Parameter returns the parameter with the given id.
func (c *Catalog) Parameter(id string) (Parameter, bool) {
	for _, p := range c.Parameters {
		if p.ID == id {
			return p, true
		}
	}
	return Parameter{}, false
}

// HasCategory reports whether id names a known category.
func (c *Catalog) HasCategory(id string) bool {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return true
		}
	}
	return false
}

// HasSupplier reports whether id names a known supplier.
func (c *Catalog) HasSupplier(id string) bool {
	for _, s := range c.Suppliers {
		if s.ID == id {
			return true
		}
	}
	return false
}

// FindValue looks up a value of a parameter by value id first, then by value
// text, then by localized text.
func (c *Catalog) FindValue(parameterID, valueIDOrText string) (ParameterValue, bool) {
	p, ok := c.Parameter(parameterID)
	if !ok {
		return ParameterValue{}, false
	}
	return findValue(p.Values, valueIDOrText)
}

func findValue(values []ParameterValue, key string) (ParameterValue, bool) {
	if key == "" {
		return ParameterValue{}, false
	}
	for _, v := range values {
		if v.ID == key {
			return v, true
		}
	}
	for _, v := range values {
		if v.Value == key {
			return v, true
		}
	}
	for _, v := range values {
		if v.ValueLocalized != "" && v.ValueLocalized == key {
			return v, true
		}
	}
	return ParameterValue{}, false
}
