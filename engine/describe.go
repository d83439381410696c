package engine

import (
	"strings"
)

// TokenSeparator joins the parts of a generated description.
const TokenSeparator = " | "

type dimension int

const (
	notDimension dimension = iota
	dimWidth
	dimHeight
)

var dimensionNames = map[string]dimension{
	"width":     dimWidth,
	"larghezza": dimWidth,
	"height":    dimHeight,
	"altezza":   dimHeight,
}

func dimensionOf(p EffectiveParameter) dimension {
	if !p.IsSystem {
		return notDimension
	}
	for _, name := range []string{p.Name, p.NameLocalized} {
		if d, ok := dimensionNames[strings.ToLower(strings.TrimSpace(name))]; ok {
			return d
		}
	}
	return notDimension
}

// Describe renders a configuration as a one-line product description.
//
// Tokens are emitted in a fixed order: "{width}x{height}" (or whichever one
// is set), then the value of every non-system parameter in params order,
// then "{name}: {Yes|No}" for booleans, then "Note: {notes}". Tokens are
// joined with " | "; an empty result becomes a generic placeholder.
func Describe(params []EffectiveParameter, cfg Configuration, loc Locale, notes string) string {
	ph := phrasesFor(loc)
	var tokens, booleans []string

	var width, height string
	for _, p := range params {
		switch dimensionOf(p) {
		case dimWidth:
			if width == "" {
				width = numberText(cfg[p.ID])
			}
		case dimHeight:
			if height == "" {
				height = numberText(cfg[p.ID])
			}
		}
	}
	switch {
	case width != "" && height != "":
		tokens = append(tokens, width+"x"+height)
	case width != "":
		tokens = append(tokens, width)
	case height != "":
		tokens = append(tokens, height)
	}

	for _, p := range params {
		raw := cfg[p.ID]
		if !hasValue(raw) {
			continue
		}
		if p.Kind == KindBoolean {
			b, err := parseBool(raw)
			if err != nil {
				continue
			}
			answer := ph.no
			if b {
				answer = ph.yes
			}
			booleans = append(booleans, p.Label(loc)+": "+answer)
			continue
		}
		if p.IsSystem {
			continue
		}
		if tok := valueToken(p, raw, loc); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	tokens = append(tokens, booleans...)

	if n := strings.TrimSpace(notes); n != "" {
		tokens = append(tokens, ph.note+": "+n)
	}
	if len(tokens) == 0 {
		return ph.placeholder
	}
	return strings.Join(tokens, TokenSeparator)
}

// valueToken renders one non-system, non-boolean value without its
// parameter name.
func valueToken(p EffectiveParameter, raw any, loc Locale) string {
	switch p.Kind {
	case KindNumber:
		return numberText(raw) + p.Unit

	case KindSelect, KindColor:
		text, err := scalarText(raw)
		if err != nil {
			return rawString(raw)
		}
		v, ok := matchValue(p.Values, text)
		if !ok {
			return text
		}
		tok := v.Label(loc)
		if v.RALCode != "" {
			tok += " (" + v.RALCode + ")"
		}
		return tok

	case KindText:
		entries, err := textEntries(raw)
		if err != nil {
			return rawString(raw)
		}
		return strings.Join(entries, ", ")
	}

	if p.Kind.Known() {
		// Recognised kinds without description logic produce no token.
		return ""
	}
	return rawString(raw)
}

// numberText renders a numeric value canonically ("900", "2.5"); values
// that do not parse are returned trimmed as entered.
func numberText(raw any) string {
	if !hasValue(raw) {
		return ""
	}
	if f, err := parseNumber(raw); err == nil {
		return formatNumber(f)
	}
	return rawString(raw)
}
