package content

import (
	"encoding/json"
	"log"
	"net/http"

	"Pulse/internal/core/contents"
)

// StatsHandler handles the aggregate stats endpoint
type StatsHandler struct {
	service contents.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service contents.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

// HandleStats handles GET /api/contents/stats
// Accepts the same filter parameters as the listing endpoint; the two
// share one filter compiler so their candidate sets cannot diverge.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	filter, err := contents.CompileFilter(r.URL.Query())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	stats, err := h.service.GetStats(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
	}
}
