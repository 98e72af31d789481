package transport

import "net/http"

// HandleGetStats returns the validator's running counters and rates.
func (h *Handlers) HandleGetStats(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.Validator.Stats())
}

// HandleResetStats zeroes the validator's counters.
func (h *Handlers) HandleResetStats(w http.ResponseWriter, _ *http.Request) {
	h.Validator.ResetStats()
	w.WriteHeader(http.StatusNoContent)
}

// HandleClearCache empties the fingerprint cache.
func (h *Handlers) HandleClearCache(w http.ResponseWriter, _ *http.Request) {
	evicted := h.Validator.ClearCache()
	WriteJSON(w, http.StatusOK, map[string]int{"evicted": evicted})
}
