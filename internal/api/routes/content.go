package routes

import (
	"Pulse/internal/api/handlers/content"
	"Pulse/internal/core/contents"

	"github.com/go-chi/chi/v5"
)

// RegisterContentRoutes registers the content listing, stats, and
// ingest endpoints on the router.
func RegisterContentRoutes(r chi.Router, service contents.Service) {
	listHandler := content.NewListHandler(service)
	statsHandler := content.NewStatsHandler(service)
	ingestHandler := content.NewIngestHandler(service)

	// Read endpoints - both share the same filter parameters
	r.Get("/api/contents", listHandler.HandleList)
	r.Get("/api/contents/stats", statsHandler.HandleStats)

	// Write endpoint - bulk upsert from the ingestion pipeline
	r.Post("/api/contents", ingestHandler.HandleIngest)
}
