package handlers

import (
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// apiError is the JSON body of every failed API call.
type apiError struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
}

func jsonError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, apiError{Error: message})
}

func jsonFieldErrors(e *core.RequestEvent, status int, message string, errs map[string]string) error {
	return e.JSON(status, apiError{Error: message, Errors: errs})
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// nextSortOrder returns one past the highest sort_order of the records of
// collection whose field equals value.
func nextSortOrder(app *pocketbase.PocketBase, collection, field, value string) int {
	existing, err := app.FindRecordsByFilter(
		collection,
		field+" = {:value}",
		"-sort_order",
		1,
		0,
		map[string]any{"value": value},
	)
	if err != nil || len(existing) == 0 {
		return 1
	}
	return existing[0].GetInt("sort_order") + 1
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	return strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-", `"`, "").Replace(s)
}
