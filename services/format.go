package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"doorquote/engine"
)

// moneyFormats are the go-humanize number patterns per locale.
var moneyFormats = map[engine.Locale]string{
	engine.LocaleIT: "#.###,##",
	engine.LocaleEN: "#,###.##",
}

// FormatMoney formats an amount in euro with two decimals and the locale's
// grouping: "€ 1.234,56" (it) or "€1,234.56" (en). Negative amounts get a
// leading minus sign.
func FormatMoney(amount float64, loc engine.Locale) string {
	if math.Round(amount*100) == 0 {
		amount = 0
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	pattern, ok := moneyFormats[loc]
	if !ok {
		pattern = moneyFormats[engine.LocaleEN]
	}
	symbol := "€"
	if loc == engine.LocaleIT {
		symbol = "€ "
	}
	return sign + symbol + humanize.FormatFloat(pattern, amount)
}

// FormatPercent formats a percentage without trailing zeros ("22%", "7,5%").
func FormatPercent(p float64, loc engine.Locale) string {
	return FormatQuantity(p, loc) + "%"
}

// FormatQuantity returns a string representation of a quantity. Whole numbers
// are formatted without decimals; fractional values keep up to 2 decimals
// with the locale's decimal separator.
func FormatQuantity(qty float64, loc engine.Locale) string {
	s := strconv.FormatFloat(math.Round(qty*100)/100, 'f', -1, 64)
	if loc == engine.LocaleIT {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}

// FormatDate formats a date as 15/10/2026 (it) or Oct 15, 2026 (en). The
// zero time formats as an empty string.
func FormatDate(t time.Time, loc engine.Locale) string {
	if t.IsZero() {
		return ""
	}
	if loc == engine.LocaleIT {
		return t.Format("02/01/2006")
	}
	return t.Format("Jan 2, 2006")
}
