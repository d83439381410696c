package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/engine"
)

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// reorderRecords rewrites sort_order of records so that they follow the
// requested ids, where key gives the id a record is known by. All records are
// saved in one transaction; a failed save leaves every order unchanged.
func reorderRecords(app *pocketbase.PocketBase, records []*core.Record, key func(*core.Record) string, requested []string) error {
	current := make([]string, 0, len(records))
	byKey := make(map[string]*core.Record, len(records))
	for _, r := range records {
		current = append(current, key(r))
		byKey[key(r)] = r
	}
	order, err := engine.Reorder(current, requested)
	if err != nil {
		return err
	}
	return app.RunInTransaction(func(txApp core.App) error {
		for i, id := range order {
			rec := byKey[id]
			rec.Set("sort_order", i+1)
			if err := txApp.Save(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// handleReorder loads the records to reorder and answers the request. load
// returns nil records when the owner does not exist.
func handleReorder(app *pocketbase.PocketBase, where string, load func(e *core.RequestEvent) ([]*core.Record, error), key func(*core.Record) string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body reorderRequest
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		records, err := load(e)
		if err != nil {
			return jsonError(e, http.StatusNotFound, err.Error())
		}
		if err := reorderRecords(app, records, key, body.IDs); err != nil {
			if errors.Is(err, engine.ErrReorderMismatch) {
				return jsonError(e, http.StatusBadRequest, err.Error())
			}
			log.Printf("reorder: %s: %v", where, err)
			return jsonError(e, http.StatusInternalServerError, "could not save the new order")
		}
		return e.JSON(http.StatusOK, map[string][]string{"ids": body.IDs})
	}
}

func ordered(app *pocketbase.PocketBase, collection string, where dbx.Expression) ([]*core.Record, error) {
	records := []*core.Record{}
	err := app.RecordQuery(collection).AndWhere(where).OrderBy("sort_order ASC", "id ASC").All(&records)
	return records, err
}

// HandleCategoryParametersReorder handles POST /api/categories/{categoryId}/parameters/reorder.
// The ids are parameter ids; the category's bindings carry the order.
func HandleCategoryParametersReorder(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return handleReorder(app, "HandleCategoryParametersReorder",
		func(e *core.RequestEvent) ([]*core.Record, error) {
			categoryID := e.Request.PathValue("categoryId")
			if _, err := app.FindRecordById("categories", categoryID); err != nil {
				return nil, errors.New("category not found")
			}
			return ordered(app, "category_parameters", dbx.HashExp{"category": categoryID})
		},
		func(r *core.Record) string { return r.GetString("parameter") },
	)
}

// HandleParameterValuesReorder handles POST /api/parameters/{parameterId}/values/reorder.
func HandleParameterValuesReorder(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return handleReorder(app, "HandleParameterValuesReorder",
		func(e *core.RequestEvent) ([]*core.Record, error) {
			parameterID := e.Request.PathValue("parameterId")
			if _, err := app.FindRecordById("parameters", parameterID); err != nil {
				return nil, errors.New("parameter not found")
			}
			return ordered(app, "parameter_values", dbx.HashExp{"parameter": parameterID})
		},
		func(r *core.Record) string { return r.Id },
	)
}

// HandleGroupsReorder handles POST /api/proposals/{id}/groups/reorder.
func HandleGroupsReorder(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return handleReorder(app, "HandleGroupsReorder",
		func(e *core.RequestEvent) ([]*core.Record, error) {
			proposalID := e.Request.PathValue("id")
			if _, err := app.FindRecordById("proposals", proposalID); err != nil {
				return nil, errors.New("proposal not found")
			}
			return ordered(app, "proposal_groups", dbx.HashExp{"proposal": proposalID})
		},
		func(r *core.Record) string { return r.Id },
	)
}
