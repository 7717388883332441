package content

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"Pulse/internal/core/contents"
)

// IngestHandler handles the bulk content upsert endpoint
type IngestHandler struct {
	service contents.Service
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(service contents.Service) *IngestHandler {
	return &IngestHandler{service: service}
}

// HandleIngest handles POST /api/contents
// Accepts a single record or a list of records. Records are processed
// independently: the response reports persisted records and per-record
// rejections side by side.
func (h *IngestHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	// 10MB allows sizeable batches with metadata blobs while preventing abuse
	r.Body = http.MaxBytesReader(w, r.Body, 10*1024*1024)

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
				"Request body too large (max 10MB)")
			return
		}
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	records, err := decodeRecords(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest",
			"Request body must be a content object or a list of content objects")
		return
	}

	resp, err := h.service.IngestContents(r.Context(), records)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if len(resp.Results) == 0 && len(resp.Errors) > 0 {
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode ingest response: %v", err)
	}
}

// decodeRecords accepts either one record object or a list of them.
func decodeRecords(raw json.RawMessage) ([]contents.IngestContent, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []contents.IngestContent
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var record contents.IngestContent
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return []contents.IngestContent{record}, nil
}
