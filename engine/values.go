package engine

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Configuration maps parameter ids to submitted values. Values are whatever
// a JSON decoder produced: strings, float64 or json.Number, bools, []any,
// maps, or nil.
type Configuration map[string]any

var (
	errNotNumber  = errors.New("not a number")
	errNotFinite  = errors.New("not a finite number")
	errNotBoolean = errors.New("not a boolean")
	errNotScalar  = errors.New("not a single value")
	errNotText    = errors.New("not text")
)

// hasValue reports whether v carries anything a user actually entered.
// Explicit false counts as a value; blank strings and arrays of blank
// strings do not.
func hasValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case []string:
		for _, s := range x {
			if strings.TrimSpace(s) != "" {
				return true
			}
		}
		return false
	case []any:
		for _, e := range x {
			if hasValue(e) {
				return true
			}
		}
		return false
	}
	return true
}

func parseNumber(v any) (float64, error) {
	var f float64
	var err error
	switch x := v.(type) {
	case bool, nil, []any, []string, map[string]any:
		return 0, errNotNumber
	case json.Number:
		f, err = x.Float64()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, errNotNumber
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		f, err = cast.ToFloat64E(x)
	}
	if err != nil {
		return 0, errNotNumber
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

func parseBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes", "on", "si", "sì":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		}
		return false, errNotBoolean
	case []any, []string, map[string]any, nil:
		return false, errNotBoolean
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return false, errNotBoolean
	}
	switch f {
	case 1:
		return true, nil
	case 0:
		return false, nil
	}
	return false, errNotBoolean
}

// scalarText renders a single submitted option as text.
func scalarText(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), nil
	case bool, nil, []any, []string, map[string]any:
		return "", errNotScalar
	case json.Number:
		return x.String(), nil
	}
	if f, err := parseNumber(v); err == nil {
		return formatNumber(f), nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", errNotScalar
	}
	return s, nil
}

// textEntries returns the non-blank trimmed entries of a TEXT value, which
// may be one string or an array of strings.
func textEntries(v any) ([]string, error) {
	var raw []string
	switch x := v.(type) {
	case string:
		raw = []string{x}
	case []string:
		raw = x
	case []any:
		for _, e := range x {
			if e == nil {
				continue
			}
			s, ok := e.(string)
			if !ok {
				return nil, errNotText
			}
			raw = append(raw, s)
		}
	default:
		return nil, errNotText
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// rawString is the last-resort rendering of a value of an unknown kind.
func rawString(v any) string {
	if entries, err := textEntries(v); err == nil {
		return strings.Join(entries, ", ")
	}
	if s, err := scalarText(v); err == nil {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
