package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/config"
	"doorquote/engine"
	"doorquote/services"
	"doorquote/templates"
)

// positionRequest is the body of POST .../positions. A missing vat_percent
// falls back to the configured default rate.
type positionRequest struct {
	CategoryID         string         `json:"category"`
	SupplierCategoryID string         `json:"supplier_category"`
	Configuration      map[string]any `json:"configuration"`
	Notes              string         `json:"notes"`
	UnitPrice          float64        `json:"unit_price"`
	Quantity           float64        `json:"quantity"`
	DiscountPercent    float64        `json:"discount_percent"`
	VATPercent         *float64       `json:"vat_percent"`
}

// positionPatch is the body of PATCH .../positions/{positionId}. Only the
// fields that are present change.
type positionPatch struct {
	Configuration   map[string]any `json:"configuration"`
	Notes           *string        `json:"notes"`
	UnitPrice       *float64       `json:"unit_price"`
	Quantity        *float64       `json:"quantity"`
	DiscountPercent *float64       `json:"discount_percent"`
	VATPercent      *float64       `json:"vat_percent"`
}

// rejectConfiguration answers an invalid configuration: the error list
// fragment for HTMX, 422 with the errors otherwise.
func rejectConfiguration(e *core.RequestEvent, prep services.PreparedPosition, loc engine.Locale) error {
	if isHTMX(e) {
		e.Response.Header().Set("HX-Retarget", "#position-errors")
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		e.Response.WriteHeader(http.StatusUnprocessableEntity)
		return templates.ValidationErrors(prep.Result.Errors, parameterLabels(prep.Params, loc)).
			Render(e.Request.Context(), e.Response)
	}
	return jsonFieldErrors(e, http.StatusUnprocessableEntity, "configuration is not valid", prep.Result.Errors)
}

func lookupFailure(e *core.RequestEvent, where string, err error) error {
	if status := statusForLookup(err); status != http.StatusInternalServerError {
		return jsonError(e, status, err.Error())
	}
	log.Printf("positions: %s: %v", where, err)
	return jsonError(e, http.StatusInternalServerError, "could not resolve parameters")
}

func positionResponse(r *core.Record) map[string]any {
	return map[string]any{
		"id":               r.Id,
		"description":      r.GetString("description"),
		"unit_price":       r.GetFloat("unit_price"),
		"quantity":         r.GetFloat("quantity"),
		"discount_percent": r.GetFloat("discount_percent"),
		"vat_percent":      r.GetFloat("vat_percent"),
		"sort_order":       r.GetInt("sort_order"),
	}
}

// HandlePositionCreate handles POST /api/proposals/{id}/groups/{groupId}/positions.
// The configuration is resolved and validated against the category and
// supplier link; only a valid configuration is saved, with its generated
// description.
func HandlePositionCreate(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		groupID := e.Request.PathValue("groupId")

		proposal, err := app.FindRecordById("proposals", proposalID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "proposal not found")
		}
		if !groupInProposal(app, proposalID, groupID) {
			return jsonError(e, http.StatusNotFound, "group not found")
		}

		var body positionRequest
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		in := services.PositionInput{
			CategoryID:         body.CategoryID,
			SupplierCategoryID: body.SupplierCategoryID,
			Configuration:      body.Configuration,
			Notes:              body.Notes,
			UnitPrice:          body.UnitPrice,
			Quantity:           body.Quantity,
			DiscountPercent:    body.DiscountPercent,
			VATPercent:         cfg.DefaultVAT,
		}
		if body.VATPercent != nil {
			in.VATPercent = *body.VATPercent
		}
		if errs := services.ValidatePositionInput(in); len(errs) > 0 {
			return jsonFieldErrors(e, http.StatusBadRequest, "please fix the errors", errs)
		}

		loc := engine.ParseLocale(proposal.GetString("locale"))
		prep, err := services.PreparePosition(app, in.CategoryID, in.SupplierCategoryID, in.Configuration, in.Notes, loc)
		if err != nil {
			return lookupFailure(e, "HandlePositionCreate", err)
		}
		if !prep.Result.OK {
			return rejectConfiguration(e, prep, loc)
		}

		col, err := app.FindCollectionByNameOrId("proposal_positions")
		if err != nil {
			log.Printf("positions: HandlePositionCreate: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "something went wrong")
		}
		record := core.NewRecord(col)
		record.Set("proposal_group", groupID)
		record.Set("category", in.CategoryID)
		record.Set("supplier_category", in.SupplierCategoryID)
		record.Set("configuration", in.Configuration)
		record.Set("description", prep.Description)
		record.Set("notes", in.Notes)
		record.Set("unit_price", in.UnitPrice)
		record.Set("quantity", in.Quantity)
		record.Set("discount_percent", in.DiscountPercent)
		record.Set("vat_percent", in.VATPercent)
		record.Set("sort_order", nextSortOrder(app, "proposal_positions", "proposal_group", groupID))
		if err := app.Save(record); err != nil {
			log.Printf("positions: HandlePositionCreate: save failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "could not save position")
		}

		SetToast(e, toastSuccess, "Position added")
		notifyTotalsChanged(e, proposalID)
		if isHTMX(e) {
			if doc, err := services.LoadProposal(app, proposalID); err == nil {
				e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
				e.Response.WriteHeader(http.StatusCreated)
				return renderProposal(e, doc)
			}
		}
		return e.JSON(http.StatusCreated, positionResponse(record))
	}
}

// findPosition loads a position and checks that its group belongs to the
// given proposal.
func findPosition(app *pocketbase.PocketBase, proposalID, positionID string) (*core.Record, bool) {
	rec, err := app.FindRecordById("proposal_positions", positionID)
	if err != nil || !groupInProposal(app, proposalID, rec.GetString("proposal_group")) {
		return nil, false
	}
	return rec, true
}

// HandlePositionUpdate handles PATCH /api/proposals/{id}/positions/{positionId}.
// The configuration is validated again, and the description regenerated,
// only when the configuration or the notes change.
func HandlePositionUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")

		proposal, err := app.FindRecordById("proposals", proposalID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "proposal not found")
		}
		record, ok := findPosition(app, proposalID, e.Request.PathValue("positionId"))
		if !ok {
			return jsonError(e, http.StatusNotFound, "position not found")
		}

		var patch positionPatch
		if err := e.BindBody(&patch); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		current := positionFromRecordFields(record)
		in := current
		if patch.Configuration != nil {
			in.Configuration = patch.Configuration
		}
		if patch.Notes != nil {
			in.Notes = *patch.Notes
		}
		if patch.UnitPrice != nil {
			in.UnitPrice = *patch.UnitPrice
		}
		if patch.Quantity != nil {
			in.Quantity = *patch.Quantity
		}
		if patch.DiscountPercent != nil {
			in.DiscountPercent = *patch.DiscountPercent
		}
		if patch.VATPercent != nil {
			in.VATPercent = *patch.VATPercent
		}
		if errs := services.ValidatePositionInput(in); len(errs) > 0 {
			return jsonFieldErrors(e, http.StatusBadRequest, "please fix the errors", errs)
		}

		if patch.Configuration != nil || patch.Notes != nil {
			loc := engine.ParseLocale(proposal.GetString("locale"))
			prep, err := services.PreparePosition(app, in.CategoryID, in.SupplierCategoryID, in.Configuration, in.Notes, loc)
			if err != nil {
				return lookupFailure(e, "HandlePositionUpdate", err)
			}
			if !prep.Result.OK {
				return rejectConfiguration(e, prep, loc)
			}
			record.Set("configuration", in.Configuration)
			record.Set("notes", in.Notes)
			record.Set("description", prep.Description)
		}
		record.Set("unit_price", in.UnitPrice)
		record.Set("quantity", in.Quantity)
		record.Set("discount_percent", in.DiscountPercent)
		record.Set("vat_percent", in.VATPercent)
		if err := app.Save(record); err != nil {
			log.Printf("positions: HandlePositionUpdate: save of %s failed: %v", record.Id, err)
			return jsonError(e, http.StatusInternalServerError, "could not save position")
		}

		SetToast(e, toastSuccess, "Position updated")
		notifyTotalsChanged(e, proposalID)
		return e.JSON(http.StatusOK, positionResponse(record))
	}
}

// positionFromRecordFields reads the editable fields of a stored position.
func positionFromRecordFields(r *core.Record) services.PositionInput {
	in := services.PositionInput{
		CategoryID:         r.GetString("category"),
		SupplierCategoryID: r.GetString("supplier_category"),
		Notes:              r.GetString("notes"),
		UnitPrice:          r.GetFloat("unit_price"),
		Quantity:           r.GetFloat("quantity"),
		DiscountPercent:    r.GetFloat("discount_percent"),
		VATPercent:         r.GetFloat("vat_percent"),
	}
	if err := r.UnmarshalJSONField("configuration", &in.Configuration); err != nil {
		log.Printf("positions: stored configuration of %s is unreadable: %v", r.Id, err)
	}
	return in
}

// HandlePositionDelete handles DELETE /api/proposals/{id}/positions/{positionId}.
func HandlePositionDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		record, ok := findPosition(app, proposalID, e.Request.PathValue("positionId"))
		if !ok {
			return ErrorToast(e, http.StatusNotFound, "Position not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("positions: HandlePositionDelete: delete of %s failed: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not delete position")
		}

		SetToast(e, toastSuccess, "Position deleted")
		notifyTotalsChanged(e, proposalID)
		if isHTMX(e) {
			if doc, err := services.LoadProposal(app, proposalID); err == nil {
				return renderProposal(e, doc)
			}
		}
		return e.NoContent(http.StatusNoContent)
	}
}
