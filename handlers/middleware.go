package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"doorquote/engine"
)

type contextKey string

const LocaleKey contextKey = "locale"

// GetLocale extracts the request locale stored by LocaleMiddleware.
func GetLocale(r *http.Request) engine.Locale {
	if val, ok := r.Context().Value(LocaleKey).(engine.Locale); ok {
		return val
	}
	return engine.DefaultLocale
}

// LocaleMiddleware picks the request locale from the "locale" query
// parameter, then the Accept-Language header, then fallback, and stores it
// in the request context.
func LocaleMiddleware(fallback engine.Locale) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		loc := fallback
		if q := e.Request.URL.Query().Get("locale"); q != "" {
			loc = engine.ParseLocale(q)
		} else if h := e.Request.Header.Get("Accept-Language"); h != "" {
			loc = engine.ParseLocale(h)
		}
		ctx := context.WithValue(e.Request.Context(), LocaleKey, loc)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}
