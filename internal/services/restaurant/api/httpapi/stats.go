package httpapi

import "net/http"

// handleStats always answers 200; a failed load is reported through the
// degraded flag with zeroed figures.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.deps.Stats.Snapshot(r.Context())
	writeJSON(w, http.StatusOK, presentStats(stats))
}
