package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/engine"
	"doorquote/services"
	"doorquote/templates"
)

// configurationRequest is the body of the validate and describe endpoints.
type configurationRequest struct {
	CategoryID         string         `json:"category"`
	SupplierCategoryID string         `json:"supplier_category"`
	Configuration      map[string]any `json:"configuration"`
	Notes              string         `json:"notes"`
	Locale             string         `json:"locale"`
}

func (r configurationRequest) locale(req *http.Request) engine.Locale {
	if r.Locale != "" {
		return engine.ParseLocale(r.Locale)
	}
	return GetLocale(req)
}

// prepareFromRequest binds the body and runs the resolve/validate/describe
// pipeline. A nil result means a response was already written.
func prepareFromRequest(app *pocketbase.PocketBase, e *core.RequestEvent) (*services.PreparedPosition, engine.Locale, error) {
	var body configurationRequest
	if err := e.BindBody(&body); err != nil {
		return nil, "", jsonError(e, http.StatusBadRequest, "invalid request body")
	}
	missing := make(map[string]string)
	if body.CategoryID == "" {
		missing["category"] = "is required"
	}
	if body.SupplierCategoryID == "" {
		missing["supplier_category"] = "is required"
	}
	if len(missing) > 0 {
		return nil, "", jsonFieldErrors(e, http.StatusBadRequest, "missing fields", missing)
	}
	loc := body.locale(e.Request)
	prep, err := services.PreparePosition(app, body.CategoryID, body.SupplierCategoryID, body.Configuration, body.Notes, loc)
	if err != nil {
		if status := statusForLookup(err); status != http.StatusInternalServerError {
			return nil, loc, jsonError(e, status, err.Error())
		}
		log.Printf("configurations: prepareFromRequest: %v", err)
		return nil, loc, jsonError(e, http.StatusInternalServerError, "could not resolve parameters")
	}
	return &prep, loc, nil
}

// HandleValidateConfiguration handles POST /api/configurations/validate.
// Invalid configurations are a normal outcome and answer 200 with ok=false.
func HandleValidateConfiguration(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		prep, loc, err := prepareFromRequest(app, e)
		if prep == nil {
			return err
		}
		if isHTMX(e) && !prep.Result.OK {
			e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
			return templates.ValidationErrors(prep.Result.Errors, parameterLabels(prep.Params, loc)).
				Render(e.Request.Context(), e.Response)
		}
		return e.JSON(http.StatusOK, prep.Result)
	}
}

// HandleDescribeConfiguration handles POST /api/configurations/describe.
// Only valid configurations are described; others answer 422 with the
// validation errors.
func HandleDescribeConfiguration(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		prep, _, err := prepareFromRequest(app, e)
		if prep == nil {
			return err
		}
		if !prep.Result.OK {
			return jsonFieldErrors(e, http.StatusUnprocessableEntity, "configuration is not valid", prep.Result.Errors)
		}
		return e.JSON(http.StatusOK, map[string]string{"description": prep.Description})
	}
}
