package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/config"
	"doorquote/services"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// exportFilename returns the download name of a proposal export.
func exportFilename(number, ext string) string {
	if number == "" {
		number = "draft"
	}
	return fmt.Sprintf("Proposal_%s.%s", sanitizeFilename(number), ext)
}

// handleProposalExport loads the proposal, renders it with generate and
// sends the result as an attachment.
func handleProposalExport(app *pocketbase.PocketBase, cfg *config.Config, kind, ext, contentType string, generate func(services.ExportData) ([]byte, error)) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return e.String(http.StatusBadRequest, "Missing proposal ID")
		}

		data, err := services.BuildProposalExportData(app, id, cfg.Company)
		if err != nil {
			log.Printf("export_%s: %v", kind, err)
			return e.String(http.StatusNotFound, "Proposal not found")
		}

		out, err := generate(data)
		if err != nil {
			log.Printf("export_%s: failed to generate %s: %v", kind, data.Number, err)
			return e.String(http.StatusInternalServerError, "Failed to generate "+kind+" file")
		}

		e.Response.Header().Set("Content-Type", contentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data.Number, ext)))
		_, err = e.Response.Write(out)
		return err
	}
}

// HandleProposalExportExcel handles GET /proposals/{id}/export/excel.
func HandleProposalExportExcel(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return handleProposalExport(app, cfg, "excel", "xlsx", contentTypeXLSX, services.GenerateProposalExcel)
}

// HandleProposalExportPDF handles GET /proposals/{id}/export/pdf.
func HandleProposalExportPDF(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return handleProposalExport(app, cfg, "pdf", "pdf", contentTypePDF, services.GenerateProposalPDF)
}
