package collections

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/engine"
)

var (
	// ErrSystemParameter is returned when deleting a system (dimensional) parameter.
	ErrSystemParameter = errors.New("system parameters cannot be deleted")
	// ErrParameterInUse is returned when deleting a parameter that a category
	// binding or a supplier override still references.
	ErrParameterInUse = errors.New("parameter is still referenced")
)

// RegisterHooks binds the record hooks that keep catalog data consistent:
// RAL codes are derived from hex colours when none is given, parameters named
// "Model"/"Modello" are flagged always required, and parameters cannot be
// deleted while they are system parameters or still referenced.
func RegisterHooks(app *pocketbase.PocketBase) {
	deriveRAL := func(e *core.RecordEvent) error {
		hex := strings.TrimSpace(e.Record.GetString("hex_color"))
		if hex != "" && strings.TrimSpace(e.Record.GetString("ral_code")) == "" {
			e.Record.Set("ral_code", engine.RALFromHex(hex))
		}
		return e.Next()
	}
	app.OnRecordCreate("parameter_values").BindFunc(deriveRAL)
	app.OnRecordUpdate("parameter_values").BindFunc(deriveRAL)

	flagAlwaysRequired := func(e *core.RecordEvent) error {
		if hasAlwaysRequiredName(e.Record) {
			e.Record.Set("is_always_required", true)
		}
		return e.Next()
	}
	app.OnRecordCreate("parameters").BindFunc(flagAlwaysRequired)
	app.OnRecordUpdate("parameters").BindFunc(flagAlwaysRequired)

	app.OnRecordDelete("parameters").BindFunc(func(e *core.RecordEvent) error {
		if e.Record.GetBool("is_system") {
			return fmt.Errorf("%w: %s", ErrSystemParameter, e.Record.GetString("name"))
		}
		for _, col := range []string{"category_parameters", "supplier_parameter_overrides"} {
			n, err := e.App.CountRecords(col, dbx.HashExp{"parameter": e.Record.Id})
			if err != nil {
				return fmt.Errorf("hooks: count %s: %w", col, err)
			}
			if n > 0 {
				return fmt.Errorf("%w: %s is used by %d %s record(s)", ErrParameterInUse, e.Record.GetString("name"), n, col)
			}
		}
		return e.Next()
	})
}
