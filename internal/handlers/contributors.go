package handlers

import (
	"net/http"
)

// GetContributors returns the contributor showcase list. The underlying
// service absorbs all fetch errors through its cache/fallback chain, so
// this handler never renders an error state.
func (h *Handlers) GetContributors(w http.ResponseWriter, r *http.Request) {
	list := h.contributors.List(r.Context())

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, list)
}
