package comment

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Pulse/internal/jobs"
)

// GenerateHandler handles the AI comment trigger endpoint
type GenerateHandler struct {
	queue jobs.Queue
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(queue jobs.Queue) *GenerateHandler {
	return &GenerateHandler{queue: queue}
}

// HandleGenerate handles GET /api/comments/generate
// Fire-and-forget: enqueues one comment-generation job and returns
// immediately with no body. Auth and rate limiting are applied by
// middleware on the route.
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := h.queue.Enqueue(jobs.JobGenerateComment); err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			writeError(w, http.StatusServiceUnavailable, "QueueFull",
				"Job queue is full. Please try again later.")
			return
		}
		log.Printf("Unexpected error enqueueing comment job: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   errorType,
		"message": message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
