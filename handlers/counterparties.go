package handlers

import (
	"log"
	"net/http"
	"slices"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/collections"
	"doorquote/services"
)

type counterpartyView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	VATNumber string `json:"vat_number,omitempty"`
	Address   string `json:"address,omitempty"`
}

func toCounterpartyView(r *core.Record) counterpartyView {
	return counterpartyView{
		ID:        r.Id,
		Name:      r.GetString("name"),
		Type:      r.GetString("type"),
		Email:     r.GetString("email"),
		Phone:     r.GetString("phone"),
		VATNumber: r.GetString("vat_number"),
		Address:   r.GetString("address"),
	}
}

// HandleCounterpartyList handles GET /api/counterparties?type=.
func HandleCounterpartyList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind := e.Request.URL.Query().Get("type")
		if kind != "" && !slices.Contains(collections.CounterpartyTypes, kind) {
			return jsonError(e, http.StatusBadRequest, "unknown counterparty type")
		}

		q := app.RecordQuery("counterparties").OrderBy("name ASC")
		if kind != "" {
			q = q.AndWhere(dbx.HashExp{"type": kind})
		}
		records := []*core.Record{}
		if err := q.All(&records); err != nil {
			log.Printf("counterparties: HandleCounterpartyList: query failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "could not list counterparties")
		}

		out := make([]counterpartyView, 0, len(records))
		for _, r := range records {
			out = append(out, toCounterpartyView(r))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleCounterpartyCreate handles POST /api/counterparties.
func HandleCounterpartyCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.CounterpartyInput
		if err := e.BindBody(&in); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		in.Normalize()
		if errs := services.ValidateCounterparty(in); len(errs) > 0 {
			return jsonFieldErrors(e, http.StatusBadRequest, "please fix the errors", errs)
		}

		col, err := app.FindCollectionByNameOrId("counterparties")
		if err != nil {
			log.Printf("counterparties: HandleCounterpartyCreate: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "something went wrong")
		}
		record := core.NewRecord(col)
		record.Set("name", in.Name)
		record.Set("type", in.Type)
		record.Set("email", in.Email)
		record.Set("phone", in.Phone)
		record.Set("vat_number", in.VATNumber)
		record.Set("address", in.Address)
		record.Set("notes", in.Notes)
		if err := app.Save(record); err != nil {
			log.Printf("counterparties: HandleCounterpartyCreate: save failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "could not save counterparty")
		}

		SetToast(e, toastSuccess, "Counterparty created")
		return e.JSON(http.StatusCreated, toCounterpartyView(record))
	}
}
