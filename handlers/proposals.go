package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/config"
	"doorquote/engine"
	"doorquote/services"
	"doorquote/templates"
)

// buildProposalViewData formats a loaded proposal for the HTML page.
func buildProposalViewData(doc engine.Document) templates.ProposalViewData {
	loc := doc.Locale
	totals := engine.Recompute(doc)
	data := templates.ProposalViewData{
		ID:         doc.ID,
		Number:     doc.Number,
		ClientName: doc.ClientName,
		Manager:    doc.Manager,
		Date:       services.FormatDate(doc.Date, loc),
		Status:     string(doc.Status),
		Notes:      doc.Notes,
		Lang:       string(loc),
		Subtotal:   services.FormatMoney(totals.Subtotal, loc),
		Discount:   services.FormatMoney(totals.Discount, loc),
		VATAmount:  services.FormatMoney(totals.VATAmount, loc),
		Total:      services.FormatMoney(totals.Total, loc),
	}
	for i, g := range doc.Groups {
		gt := totals.Groups[i]
		current := 0.0
		if len(g.Positions) > 0 {
			current = g.Positions[0].VATPercent
		}
		group := templates.GroupData{
			ID:        g.ID,
			Name:      g.Name,
			Subtotal:  services.FormatMoney(gt.Subtotal, loc),
			VATAmount: services.FormatMoney(gt.VATAmount, loc),
			Total:     services.FormatMoney(gt.Total, loc),
		}
		for _, v := range services.VATOptionsWith(current) {
			group.VATOptions = append(group.VATOptions, fmt.Sprint(v))
		}
		for j, p := range g.Positions {
			group.Positions = append(group.Positions, templates.PositionRowData{
				ID:          p.ID,
				Index:       fmt.Sprintf("%d.%d", i+1, j+1),
				Description: p.Description,
				Qty:         services.FormatQuantity(p.Quantity, loc),
				UnitPrice:   services.FormatMoney(p.UnitPrice, loc),
				Discount:    services.FormatPercent(p.DiscountPercent, loc),
				VAT:         services.FormatPercent(p.VATPercent, loc),
				Total:       services.FormatMoney(gt.Positions[j].Total, loc),
			})
		}
		data.Groups = append(data.Groups, group)
	}
	return data
}

// renderProposal writes the proposal page, or only its content for HTMX
// requests.
func renderProposal(e *core.RequestEvent, doc engine.Document) error {
	data := buildProposalViewData(doc)
	if isHTMX(e) {
		return templates.ProposalViewContent(data).Render(e.Request.Context(), e.Response)
	}
	return templates.ProposalViewPage(data).Render(e.Request.Context(), e.Response)
}

// HandleProposalCreate handles POST /api/proposals.
func HandleProposalCreate(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.ProposalInput
		if err := e.BindBody(&in); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if errs := services.ValidateProposalInput(in); len(errs) > 0 {
			return jsonFieldErrors(e, http.StatusBadRequest, "please fix the errors", errs)
		}
		client, err := app.FindRecordById("counterparties", in.ClientID)
		if err != nil || client.GetString("type") != "client" {
			return jsonFieldErrors(e, http.StatusBadRequest, "please fix the errors", map[string]string{
				"client": "must be an existing client",
			})
		}

		status := in.Status
		if status == "" {
			status = string(engine.StatusDraft)
		}
		locale := cfg.Locale
		if in.Locale != "" {
			locale = engine.ParseLocale(in.Locale)
		}

		now := time.Now()
		number, err := services.GenerateProposalNumber(app, now)
		if err != nil {
			log.Printf("proposals: HandleProposalCreate: number generation failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "could not allocate a proposal number")
		}

		col, err := app.FindCollectionByNameOrId("proposals")
		if err != nil {
			log.Printf("proposals: HandleProposalCreate: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "something went wrong")
		}
		record := core.NewRecord(col)
		record.Set("number", number)
		record.Set("client", in.ClientID)
		record.Set("manager", in.Manager)
		record.Set("date", now)
		record.Set("status", status)
		record.Set("notes", in.Notes)
		record.Set("locale", string(locale))
		if err := app.Save(record); err != nil {
			log.Printf("proposals: HandleProposalCreate: save failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "could not save proposal")
		}

		SetToast(e, toastSuccess, "Proposal "+number+" created")
		return e.JSON(http.StatusCreated, map[string]string{"id": record.Id, "number": number})
	}
}

// HandleProposalView handles GET /proposals/{id}.
func HandleProposalView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		doc, err := services.LoadProposal(app, id)
		if err != nil {
			log.Printf("proposals: HandleProposalView: %v", err)
			return e.String(http.StatusNotFound, "Proposal not found")
		}
		return renderProposal(e, doc)
	}
}

// HandleProposalTotals handles GET /api/proposals/{id}/totals. Totals are
// always recomputed from the stored positions.
func HandleProposalTotals(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, err := services.LoadProposal(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "proposal not found")
		}
		return e.JSON(http.StatusOK, engine.Recompute(doc))
	}
}

// HandleProposalRevalidate handles GET /api/proposals/{id}/revalidate.
func HandleProposalRevalidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		report, err := services.RevalidateProposal(app, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "proposal not found")
		}
		return e.JSON(http.StatusOK, report)
	}
}
