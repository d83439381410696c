package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/engine"
	"doorquote/services"
)

type valueView struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	HexColor string `json:"hexColor,omitempty"`
	RALCode  string `json:"ralCode,omitempty"`
	IsCustom bool   `json:"isCustom,omitempty"`
}

type parameterView struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Label            string      `json:"label"`
	Kind             string      `json:"kind"`
	Unit             string      `json:"unit,omitempty"`
	Min              *float64    `json:"min,omitempty"`
	Max              *float64    `json:"max,omitempty"`
	Step             *float64    `json:"step,omitempty"`
	Group            string      `json:"group"`
	IsSystem         bool        `json:"isSystem"`
	IsRequired       bool        `json:"isRequired"`
	IsAlwaysRequired bool        `json:"isAlwaysRequired"`
	IsVisible        bool        `json:"isVisible"`
	Supported        bool        `json:"supported"`
	Values           []valueView `json:"values,omitempty"`
}

func toParameterViews(params []engine.EffectiveParameter, loc engine.Locale) []parameterView {
	out := make([]parameterView, 0, len(params))
	for _, p := range params {
		v := parameterView{
			ID:               p.ID,
			Name:             p.Name,
			Label:            p.Label(loc),
			Kind:             string(p.Kind),
			Unit:             p.Unit,
			Min:              p.Min,
			Max:              p.Max,
			Step:             p.Step,
			Group:            string(p.Group),
			IsSystem:         p.IsSystem,
			IsRequired:       p.IsRequired,
			IsAlwaysRequired: p.IsAlwaysRequired,
			IsVisible:        p.IsVisible,
			Supported:        p.Kind.Supported(),
		}
		for _, val := range p.Values {
			v.Values = append(v.Values, valueView{
				ID:       val.ID,
				Value:    val.Value,
				Label:    val.Label(loc),
				HexColor: val.HexColor,
				RALCode:  val.RALCode,
				IsCustom: val.IsCustom,
			})
		}
		out = append(out, v)
	}
	return out
}

func parameterLabels(params []engine.EffectiveParameter, loc engine.Locale) map[string]string {
	labels := make(map[string]string, len(params))
	for _, p := range params {
		labels[p.ID] = p.Label(loc)
	}
	return labels
}

// HandleEffectiveParameters handles GET /api/categories/{categoryId}/parameters.
// The supplier is given either directly (?supplier=) or through a
// supplier-category link (?link=).
func HandleEffectiveParameters(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		categoryID := e.Request.PathValue("categoryId")
		q := e.Request.URL.Query()
		supplierID := q.Get("supplier")

		if link := q.Get("link"); link != "" {
			id, err := services.SupplierForLink(app, link, categoryID)
			if err != nil {
				return jsonError(e, statusForLookup(err), err.Error())
			}
			supplierID = id
		}
		if supplierID == "" {
			return jsonError(e, http.StatusBadRequest, "supplier or link is required")
		}

		params, err := services.ResolveParameters(app, categoryID, supplierID)
		if err != nil {
			log.Printf("parameters: HandleEffectiveParameters: resolve %s/%s: %v", categoryID, supplierID, err)
			return jsonError(e, http.StatusInternalServerError, "could not load parameters")
		}
		return e.JSON(http.StatusOK, toParameterViews(params, GetLocale(e.Request)))
	}
}

func statusForLookup(err error) int {
	switch {
	case errors.Is(err, services.ErrLinkNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrLinkCategoryMismatch):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
