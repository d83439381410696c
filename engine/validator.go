package engine

import (
	"fmt"
)

// FormErrorKey is the Errors key for problems with the configuration as a
// whole rather than with one parameter.
const FormErrorKey = "_form"

// ValidationResult is the outcome of Validate. Errors maps parameter ids (or
// FormErrorKey) to a human-readable reason.
type ValidationResult struct {
	OK     bool              `json:"ok"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Validate checks a configuration against an effective parameter list. Every
// parameter is checked independently and every violation is reported.
//
// Keys of the configuration that are not in params are ignored. The NUMBER
// step is advisory and not checked here.
func Validate(params []EffectiveParameter, cfg Configuration) ValidationResult {
	errs := make(map[string]string)
	anyValue := false

	for _, p := range params {
		raw := cfg[p.ID]
		present := hasValue(raw)
		if present {
			anyValue = true
		}

		if !p.Kind.Supported() {
			if present || mustBeFilled(p) {
				errs[p.ID] = fmt.Sprintf("%s: %v (%s)", p.Name, ErrKindNotSupported, p.Kind)
			}
			continue
		}

		if !present {
			if mustBeFilled(p) {
				errs[p.ID] = fmt.Sprintf("%s is required", p.Name)
			}
			continue
		}

		if msg := checkValue(p, raw); msg != "" {
			errs[p.ID] = msg
		}
	}

	if !anyValue {
		errs[FormErrorKey] = "Configuration is empty: fill in at least one parameter"
	}

	if len(errs) == 0 {
		return ValidationResult{OK: true}
	}
	return ValidationResult{OK: false, Errors: errs}
}

// mustBeFilled applies the required rules. Visibility does not matter.
func mustBeFilled(p EffectiveParameter) bool {
	return p.IsAlwaysRequired || p.IsRequired
}

func checkValue(p EffectiveParameter, raw any) string {
	switch p.Kind {
	case KindNumber:
		f, err := parseNumber(raw)
		if err != nil {
			return fmt.Sprintf("%s must be a number", p.Name)
		}
		switch {
		case p.Min != nil && p.Max != nil && (f < *p.Min || f > *p.Max):
			return fmt.Sprintf("%s must be between %s and %s", p.Name, formatNumber(*p.Min), formatNumber(*p.Max))
		case p.Min != nil && f < *p.Min:
			return fmt.Sprintf("%s must be at least %s", p.Name, formatNumber(*p.Min))
		case p.Max != nil && f > *p.Max:
			return fmt.Sprintf("%s must be at most %s", p.Name, formatNumber(*p.Max))
		}

	case KindSelect, KindColor:
		text, err := scalarText(raw)
		if err != nil {
			return fmt.Sprintf("%s must be a single option", p.Name)
		}
		v, ok := matchValue(p.Values, text)
		if !ok {
			return fmt.Sprintf("%q is not a valid option for %s", text, p.Name)
		}
		if !v.IsActive {
			return fmt.Sprintf("%q is no longer offered for %s", text, p.Name)
		}

	case KindText:
		if _, err := textEntries(raw); err != nil {
			return fmt.Sprintf("%s must be text", p.Name)
		}

	case KindBoolean:
		if _, err := parseBool(raw); err != nil {
			return fmt.Sprintf("%s must be yes or no", p.Name)
		}
	}
	return ""
}

// matchValue finds the value whose text or localized text equals text.
func matchValue(values []ParameterValue, text string) (ParameterValue, bool) {
	for _, v := range values {
		if v.Matches(text) {
			return v, true
		}
	}
	return ParameterValue{}, false
}
