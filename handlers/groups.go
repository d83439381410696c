package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/engine"
	"doorquote/services"
)

// groupInProposal reports whether groupID belongs to proposalID.
func groupInProposal(app *pocketbase.PocketBase, proposalID, groupID string) bool {
	owner, err := services.ProposalIDForGroup(app, groupID)
	return err == nil && owner == proposalID
}

// HandleGroupCreate handles POST /api/proposals/{id}/groups.
func HandleGroupCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("proposals", proposalID); err != nil {
			return jsonError(e, http.StatusNotFound, "proposal not found")
		}

		var body struct {
			Name string `json:"name"`
		}
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return jsonFieldErrors(e, http.StatusBadRequest, "please fix the errors", map[string]string{"name": "cannot be blank"})
		}

		col, err := app.FindCollectionByNameOrId("proposal_groups")
		if err != nil {
			log.Printf("groups: HandleGroupCreate: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "something went wrong")
		}
		record := core.NewRecord(col)
		record.Set("proposal", proposalID)
		record.Set("name", name)
		record.Set("sort_order", nextSortOrder(app, "proposal_groups", "proposal", proposalID))
		if err := app.Save(record); err != nil {
			log.Printf("groups: HandleGroupCreate: save failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "could not save group")
		}

		SetToast(e, toastSuccess, "Group added")
		return e.JSON(http.StatusCreated, map[string]any{
			"id":         record.Id,
			"name":       name,
			"sort_order": record.GetInt("sort_order"),
		})
	}
}

// HandleGroupVAT handles POST /api/proposals/{id}/groups/{groupId}/vat.
// Every position of the group gets the submitted VAT rate; the positions
// are saved in one transaction.
func HandleGroupVAT(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		groupID := e.Request.PathValue("groupId")

		var body struct {
			VATPercent *float64 `json:"vat_percent" form:"vat_percent"`
		}
		if err := e.BindBody(&body); err != nil || body.VATPercent == nil {
			return ErrorToast(e, http.StatusBadRequest, "vat_percent is required")
		}
		if err := services.ValidateVATPercent(*body.VATPercent); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "VAT "+err.Error())
		}

		doc, err := services.LoadProposal(app, proposalID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}
		updated, err := engine.SetGroupVAT(doc, groupID, *body.VATPercent)
		if errors.Is(err, engine.ErrGroupNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Group not found")
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			for _, g := range updated.Groups {
				if g.ID != groupID {
					continue
				}
				for _, p := range g.Positions {
					rec, err := txApp.FindRecordById("proposal_positions", p.ID)
					if err != nil {
						return err
					}
					rec.Set("vat_percent", p.VATPercent)
					if err := txApp.Save(rec); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("groups: HandleGroupVAT: update of group %s failed: %v", groupID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not update VAT")
		}

		SetToast(e, toastSuccess, "VAT updated")
		notifyTotalsChanged(e, proposalID)
		if isHTMX(e) {
			return renderProposal(e, updated)
		}
		return e.JSON(http.StatusOK, engine.Recompute(updated))
	}
}
