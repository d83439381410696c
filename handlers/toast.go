package handlers

import (
	"encoding/json"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// Client-side events sent through the HX-Trigger header.
const (
	eventToast         = "showToast"
	eventTotalsChanged = "totalsChanged"
	headerTrigger      = "HX-Trigger"
	headerReswap       = "HX-Reswap"
	toastSuccess       = "success"
	toastError         = "error"
)

// addTrigger adds one event to the HX-Trigger header, keeping events that
// are already there. A header that is not a JSON object is replaced.
func addTrigger(e *core.RequestEvent, event string, payload any) {
	events := map[string]any{}
	if existing := e.Response.Header().Get(headerTrigger); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			log.Printf("toast: existing HX-Trigger is not a JSON object, replacing it: %v", err)
			events = map[string]any{}
		}
	}
	events[event] = payload

	data, err := json.Marshal(events)
	if err != nil {
		log.Printf("toast: failed to marshal HX-Trigger for %s: %v", event, err)
		return
	}
	e.Response.Header().Set(headerTrigger, string(data))
}

// SetToast asks the page to show a toast of the given type.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	addTrigger(e, eventToast, map[string]string{
		"message": message,
		"type":    toastType,
	})
}

// notifyTotalsChanged tells the page that the totals of a proposal are stale.
func notifyTotalsChanged(e *core.RequestEvent, proposalID string) {
	addTrigger(e, eventTotalsChanged, map[string]string{"proposal": proposalID})
}

// ErrorToast shows an error toast and answers with a plain-text error that
// HTMX does not swap into the page.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, toastError, message)
	e.Response.Header().Set(headerReswap, "none")
	return e.String(statusCode, message)
}
