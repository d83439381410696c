package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/services"
)

const maxImportSize = 10 << 20

// HandleParameterValuesImport handles POST /api/parameters/{parameterId}/values/import.
// The multipart field "file" holds an xlsx workbook or a CSV file. A file
// with any invalid row is rejected as a whole with 422 and the row errors.
func HandleParameterValuesImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		parameterID := e.Request.PathValue("parameterId")
		if _, err := app.FindRecordById("parameters", parameterID); err != nil {
			return jsonError(e, http.StatusNotFound, "parameter not found")
		}

		if err := e.Request.ParseMultipartForm(maxImportSize); err != nil {
			return jsonError(e, http.StatusBadRequest, "file too large or invalid form data")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "please select a file to upload")
		}
		defer file.Close()

		result, err := services.ImportParameterValues(app, parameterID, header.Filename, file)
		if err != nil {
			log.Printf("value_import: %s: %v", header.Filename, err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}
		if result.RolledBack {
			return e.JSON(http.StatusUnprocessableEntity, result)
		}

		SetToast(e, toastSuccess, fmt.Sprintf("%d values imported", result.Imported))
		return e.JSON(http.StatusOK, result)
	}
}
