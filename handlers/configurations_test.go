package handlers

import (
	"net/http"
	"strings"
	"testing"

	"doorquote/engine"
	"doorquote/testhelpers"
)

func TestHandleValidateConfiguration(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := testhelpers.CreateDoorFixture(t, app)

	tooWide := f.ValidConfiguration()
	tooWide[f.Width.Id] = 1500
	noModel := f.ValidConfiguration()
	delete(noModel, f.Model.Id)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantOK     bool
		wantErrKey string
	}{
		{"valid", map[string]any{"category": f.Category.Id, "supplier_category": f.Link.Id, "configuration": f.ValidConfiguration()}, http.StatusOK, true, ""},
		{"out of range", map[string]any{"category": f.Category.Id, "supplier_category": f.Link.Id, "configuration": tooWide}, http.StatusOK, false, f.Width.Id},
		{"always required missing", map[string]any{"category": f.Category.Id, "supplier_category": f.Link.Id, "configuration": noModel}, http.StatusOK, false, f.Model.Id},
		{"missing category", map[string]any{"supplier_category": f.Link.Id}, http.StatusBadRequest, false, ""},
		{"unknown link", map[string]any{"category": f.Category.Id, "supplier_category": "nolink"}, http.StatusNotFound, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/api/configurations/validate", tt.body)
			rec := serve(t, app, HandleValidateConfiguration(app), req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got engine.ValidationResult
			decodeBody(t, rec, &got)
			if got.OK != tt.wantOK {
				t.Errorf("ok = %v, want %v (errors %v)", got.OK, tt.wantOK, got.Errors)
			}
			if tt.wantErrKey != "" {
				if _, ok := got.Errors[tt.wantErrKey]; !ok {
					t.Errorf("expected an error for %s, got %v", tt.wantErrKey, got.Errors)
				}
			}
		})
	}
}

func TestHandleValidateConfiguration_HTMXFragment(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := testhelpers.CreateDoorFixture(t, app)
	cfg := f.ValidConfiguration()
	cfg[f.Width.Id] = 1500

	req := jsonRequest(t, http.MethodPost, "/api/configurations/validate", map[string]any{
		"category": f.Category.Id, "supplier_category": f.Link.Id, "configuration": cfg, "locale": "en",
	})
	req.Header.Set("HX-Request", "true")
	rec := serve(t, app, HandleValidateConfiguration(app), req)

	testhelpers.AssertHTMLContains(t, rec.Body.String(), `class="validation-errors"`, "Width")
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestHandleDescribeConfiguration(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := testhelpers.CreateDoorFixture(t, app)

	t.Run("valid", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/configurations/describe", map[string]any{
			"category": f.Category.Id, "supplier_category": f.Link.Id,
			"configuration": f.ValidConfiguration(), "notes": "Left hinge", "locale": "en",
		})
		rec := serve(t, app, HandleDescribeConfiguration(app), req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
		}
		var got map[string]string
		decodeBody(t, rec, &got)
		want := "900x2100 | Linea | Wood | Glazed: Yes | Note: Left hinge"
		if got["description"] != want {
			t.Errorf("description = %q, want %q", got["description"], want)
		}
	})

	t.Run("italian", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/configurations/describe", map[string]any{
			"category": f.Category.Id, "supplier_category": f.Link.Id,
			"configuration": f.ValidConfiguration(), "locale": "it",
		})
		rec := serve(t, app, HandleDescribeConfiguration(app), req)
		var got map[string]string
		decodeBody(t, rec, &got)
		if !strings.HasSuffix(got["description"], ": Sì") {
			t.Errorf("description = %q, want an Italian boolean answer", got["description"])
		}
	})

	t.Run("invalid is rejected", func(t *testing.T) {
		cfg := f.ValidConfiguration()
		cfg[f.Material.Id] = "Plastic"
		req := jsonRequest(t, http.MethodPost, "/api/configurations/describe", map[string]any{
			"category": f.Category.Id, "supplier_category": f.Link.Id, "configuration": cfg,
		})
		rec := serve(t, app, HandleDescribeConfiguration(app), req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
		var got apiError
		decodeBody(t, rec, &got)
		if _, ok := got.Errors[f.Material.Id]; !ok {
			t.Errorf("expected a material error, got %v", got.Errors)
		}
	})
}
