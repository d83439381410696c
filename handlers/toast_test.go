package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func newToastEvent() (*core.RequestEvent, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	return e, rec
}

func parseTrigger(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	trigger := rec.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("expected HX-Trigger header to be set")
	}
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trigger), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	return parsed
}

func TestSetToast(t *testing.T) {
	tests := []struct {
		name      string
		toastType string
		message   string
	}{
		{"success", "success", "Position added"},
		{"error", "error", "Could not save position"},
		{"quotes", "info", `Group "Ground floor" saved`},
		{"markup", "info", `<script>alert("x")</script>`},
		{"unicode", "success", "IVA 22% aggiornata ✔"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newToastEvent()
			SetToast(e, tt.toastType, tt.message)

			var toast map[string]string
			if err := json.Unmarshal(parseTrigger(t, rec)["showToast"], &toast); err != nil {
				t.Fatalf("showToast is not valid JSON: %v", err)
			}
			if toast["type"] != tt.toastType {
				t.Errorf("type = %q, want %q", toast["type"], tt.toastType)
			}
			if toast["message"] != tt.message {
				t.Errorf("message = %q, want %q", toast["message"], tt.message)
			}
		})
	}
}

func TestAddTrigger_KeepsExistingEvents(t *testing.T) {
	e, rec := newToastEvent()
	SetToast(e, "success", "VAT updated")
	notifyTotalsChanged(e, "prop1")

	parsed := parseTrigger(t, rec)
	if _, ok := parsed["showToast"]; !ok {
		t.Error("showToast event was lost")
	}
	var changed map[string]string
	if err := json.Unmarshal(parsed["totalsChanged"], &changed); err != nil {
		t.Fatalf("totalsChanged is not valid JSON: %v", err)
	}
	if changed["proposal"] != "prop1" {
		t.Errorf("totalsChanged.proposal = %q, want prop1", changed["proposal"])
	}
}

func TestAddTrigger_ReplacesInvalidHeader(t *testing.T) {
	e, rec := newToastEvent()
	rec.Header().Set("HX-Trigger", "notValidJSON")

	SetToast(e, "error", "Overwritten")

	parsed := parseTrigger(t, rec)
	if len(parsed) != 1 {
		t.Errorf("expected only showToast, got %d events", len(parsed))
	}
}

func TestErrorToast(t *testing.T) {
	tests := []struct {
		name string
		code int
		msg  string
	}{
		{"bad request", http.StatusBadRequest, "vat_percent is required"},
		{"not found", http.StatusNotFound, "Group not found"},
		{"server error", http.StatusInternalServerError, "Could not update VAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newToastEvent()
			if err := ErrorToast(e, tt.code, tt.msg); err != nil {
				t.Fatalf("ErrorToast returned error: %v", err)
			}
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
			if rec.Header().Get("HX-Reswap") != "none" {
				t.Error("expected HX-Reswap: none")
			}
			if rec.Body.String() != tt.msg {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.msg)
			}
			var toast map[string]string
			if err := json.Unmarshal(parseTrigger(t, rec)["showToast"], &toast); err != nil {
				t.Fatalf("showToast is not valid JSON: %v", err)
			}
			if toast["type"] != "error" {
				t.Errorf("type = %q, want error", toast["type"])
			}
		})
	}
}
