// Package preferences persists per-browser dashboard preferences in cookies.
package preferences

import (
	"net/http"
	"time"

	"invoice-dashboard/pkg/models"
)

const (
	// SelectedTabCookie stores the active invoices filter tab.
	SelectedTabCookie = "selectedTab"
	// TabParam is the query parameter used to pick a tab from a link.
	TabParam = "tab"
)

// ActiveFilter reads the persisted filter tab. Missing or unknown values fall back to all.
func ActiveFilter(r *http.Request) models.FilterTab {
	if r == nil {
		return models.TabAll
	}
	cookie, err := r.Cookie(SelectedTabCookie)
	if err != nil {
		return models.TabAll
	}
	if tab, ok := models.ParseFilterTab(cookie.Value); ok {
		return tab
	}
	return models.TabAll
}

// SetActiveFilter persists tab as the active filter.
func SetActiveFilter(w http.ResponseWriter, tab models.FilterTab) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SelectedTabCookie,
		Value:    string(tab),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ResolveFilter picks the tab for this request: a valid ?tab= wins (and
// should be persisted, reported by the bool), then the cookie, then all.
func ResolveFilter(r *http.Request) (models.FilterTab, bool) {
	if r != nil {
		if tab, ok := models.ParseFilterTab(r.URL.Query().Get(TabParam)); ok {
			return tab, true
		}
	}
	return ActiveFilter(r), false
}
