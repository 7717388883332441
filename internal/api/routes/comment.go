package routes

import (
	"Pulse/internal/api/handlers/comment"
	"Pulse/internal/api/middleware"
	"Pulse/internal/jobs"

	"github.com/go-chi/chi/v5"
)

// RegisterCommentRoutes registers the AI-comment trigger endpoint.
// Authenticated via API key and rate-limited per IP; the handler only
// enqueues work and returns.
func RegisterCommentRoutes(r chi.Router, queue jobs.Queue, auth *middleware.APIKeyAuth, limiter *middleware.RateLimiter) {
	generateHandler := comment.NewGenerateHandler(queue)

	r.With(auth.RequireKey, limiter.Middleware).
		Get("/api/comments/generate", generateHandler.HandleGenerate)
}
