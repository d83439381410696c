package collections

import (
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// alwaysRequiredNames are the parameter names that used to be required by
// naming convention alone.
var alwaysRequiredNames = map[string]bool{
	"model":   true,
	"modello": true,
}

// hasAlwaysRequiredName reports whether a parameter record is named
// "Model"/"Modello" in either its canonical or localized name.
func hasAlwaysRequiredName(p *core.Record) bool {
	name := strings.ToLower(strings.TrimSpace(p.GetString("name")))
	localized := strings.ToLower(strings.TrimSpace(p.GetString("name_localized")))
	return alwaysRequiredNames[name] || alwaysRequiredNames[localized]
}

// MigrateAlwaysRequiredFlag sets is_always_required on parameters that are
// named "Model"/"Modello" (canonical or localized name) but do not carry the
// flag yet. Records saved after startup are flagged by RegisterHooks.
// Parameters already flagged are left alone.
func MigrateAlwaysRequiredFlag(app *pocketbase.PocketBase) error {
	params, err := app.FindRecordsByFilter("parameters", "is_always_required = false", "", 0, 0, nil)
	if err != nil {
		return fmt.Errorf("migrate_required: could not query parameters: %w", err)
	}

	migrated := 0
	for _, p := range params {
		if !hasAlwaysRequiredName(p) {
			continue
		}
		p.Set("is_always_required", true)
		if err := app.Save(p); err != nil {
			log.Printf("migrate_required: failed to flag parameter %s (%q): %v\n", p.Id, p.GetString("name"), err)
			continue
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("migrate_required: flagged %d parameter(s) as always required.\n", migrated)
	}
	return nil
}
