package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"doorquote/testhelpers"
)

func TestHandleEffectiveParameters(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := testhelpers.CreateDoorFixture(t, app)
	other := testhelpers.CreateTestCategory(t, app, "Windows")

	tests := []struct {
		name       string
		categoryID string
		query      string
		wantStatus int
		wantCount  int
	}{
		{"by supplier", f.Category.Id, "?supplier=" + f.Supplier.Id, http.StatusOK, 5},
		{"by link", f.Category.Id, "?link=" + f.Link.Id, http.StatusOK, 5},
		{"missing supplier", f.Category.Id, "", http.StatusBadRequest, 0},
		{"unknown link", f.Category.Id, "?link=doesnotexist123", http.StatusNotFound, 0},
		{"link of another category", other.Id, "?link=" + f.Link.Id, http.StatusBadRequest, 0},
		{"unknown supplier gives empty list", f.Category.Id, "?supplier=nobody", http.StatusOK, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/categories/"+tt.categoryID+"/parameters"+tt.query, nil)
			req.SetPathValue("categoryId", tt.categoryID)
			rec := serve(t, app, HandleEffectiveParameters(app), req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got []parameterView
			decodeBody(t, rec, &got)
			if len(got) != tt.wantCount {
				t.Fatalf("got %d parameters, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestHandleEffectiveParameters_Shape(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := testhelpers.CreateDoorFixture(t, app)
	testhelpers.CreateTestOverride(t, app, f.Supplier.Id, f.Width.Id, map[string]any{
		"range_override": map[string]any{"min": 700, "max": 1000},
	})
	testhelpers.CreateTestOverride(t, app, f.Supplier.Id, f.Material.Id, map[string]any{
		"custom_values": []string{"Oak"},
	})
	testhelpers.CreateTestOverride(t, app, f.Supplier.Id, f.Glazed.Id, map[string]any{"is_available": false})

	req := httptest.NewRequest(http.MethodGet, "/api/categories/x/parameters?supplier="+f.Supplier.Id, nil)
	req.SetPathValue("categoryId", f.Category.Id)
	rec := serve(t, app, HandleEffectiveParameters(app), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var got []parameterView
	decodeBody(t, rec, &got)
	if len(got) != 4 {
		t.Fatalf("got %d parameters, want 4 (Glazed unavailable)", len(got))
	}
	width := got[0]
	if width.ID != f.Width.Id || width.Group != "system" {
		t.Errorf("first parameter = %s/%s, want Width in the system group", width.Name, width.Group)
	}
	if width.Min == nil || *width.Min != 700 || width.Max == nil || *width.Max != 1000 {
		t.Errorf("width bounds = %v..%v, want 700..1000", width.Min, width.Max)
	}
	var material parameterView
	for _, p := range got {
		if p.ID == f.Material.Id {
			material = p
		}
	}
	if n := len(material.Values); n != 3 {
		t.Fatalf("material has %d values, want 3", n)
	}
	if last := material.Values[2]; last.Value != "Oak" || !last.IsCustom {
		t.Errorf("last material value = %+v, want custom Oak", last)
	}
}
