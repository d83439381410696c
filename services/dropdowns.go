package services

import "slices"

// VATOptions are the Italian VAT rates offered in the group VAT selector.
var VATOptions = []float64{0, 4, 5, 10, 22}

// VATOptionsWith returns VATOptions plus current when it is not one of them,
// so an edited group keeps showing its rate.
func VATOptionsWith(current float64) []float64 {
	if slices.Contains(VATOptions, current) {
		return VATOptions
	}
	out := append(slices.Clone(VATOptions), current)
	slices.Sort(out)
	return out
}
