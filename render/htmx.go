package render

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
)

// Write renders a component as an HTML response.
func Write(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX reports whether the request was sent by HTMX.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// IsBoosted reports whether the request is a boosted navigation.
func IsBoosted(r *http.Request) bool {
	return r.Header.Get("HX-Boosted") == "true"
}

// TriggerID returns the id of the element that sent the request.
func TriggerID(r *http.Request) string {
	return r.Header.Get("HX-Trigger")
}

// TargetID returns the id of the element receiving the response.
func TargetID(r *http.Request) string {
	return r.Header.Get("HX-Target")
}

// TriggerHeader builds an HX-Trigger header value. Without data the event
// name is used as is; with data it becomes {"event": data}.
func TriggerHeader(event string, data any) string {
	if event == "" {
		return ""
	}
	if data == nil {
		return event
	}
	encoded, err := json.Marshal(map[string]any{event: data})
	if err != nil {
		return event
	}
	return string(encoded)
}
