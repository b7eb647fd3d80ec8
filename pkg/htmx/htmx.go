// Package htmx adapts handlers to HTMX partial requests.
package htmx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

const (
	// RequestHeader marks requests initiated by HTMX.
	RequestHeader = "HX-Request"
	// TriggerHeader asks the client to dispatch events after the response.
	TriggerHeader = "HX-Trigger"
)

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeader), "true")
}

// AcceptsHTML reports whether a non-HTMX caller is a browser expecting a
// document, such as a plain form submission.
func AcceptsHTML(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// RenderPage renders fragment for HTMX requests and full otherwise.
// A nil fragment falls back to full and vice versa.
func RenderPage(w http.ResponseWriter, r *http.Request, fragment templ.Component, full templ.Component) {
	target := full
	if IsHTMXRequest(r) && fragment != nil {
		target = fragment
	}
	if target == nil {
		target = fragment
	}
	if target == nil {
		return
	}
	templ.Handler(target).ServeHTTP(w, r)
}

// Trigger sets the HX-Trigger header so the client dispatches event with
// detail. A nil detail sends the bare event name.
func Trigger(w http.ResponseWriter, event string, detail interface{}) {
	if detail == nil {
		w.Header().Set(TriggerHeader, event)
		return
	}
	payload, err := json.Marshal(map[string]interface{}{event: detail})
	if err != nil {
		w.Header().Set(TriggerHeader, event)
		return
	}
	w.Header().Set(TriggerHeader, string(payload))
}
