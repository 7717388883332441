package content

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"Pulse/internal/core/contents"
)

// ListHandler handles the paginated content listing endpoint
type ListHandler struct {
	service contents.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service contents.Service) *ListHandler {
	return &ListHandler{service: service}
}

// listEnvelope is the pagination envelope the existing client already
// consumes: count plus absolute next/previous page URLs.
type listEnvelope struct {
	Count    int64                   `json:"count"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
	Results  []*contents.ContentItem `json:"results"`
}

// HandleList handles GET /api/contents
// Query params: author_id, author_username, timeframe, tag_id, title,
// page, items_per_page.
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	filter, err := contents.CompileFilter(params)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	page, err := parseQueryInt(params, "page")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	perPage, err := parseQueryInt(params, "items_per_page")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp, err := h.service.ListContents(r.Context(), contents.ListContentsRequest{
		Filter:       filter,
		Page:         page,
		ItemsPerPage: perPage,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	envelope := listEnvelope{
		Count:   resp.Total,
		Results: resp.Items,
	}
	if int64(resp.Page)*int64(resp.ItemsPerPage) < resp.Total {
		envelope.Next = pageURL(r, resp.Page+1)
	}
	if resp.Page > 1 {
		envelope.Previous = pageURL(r, resp.Page-1)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		log.Printf("Failed to encode listing response: %v", err)
	}
}

// parseQueryInt parses an optional positive integer query parameter.
// Absent means 0 (the service applies defaults); malformed fails with a
// validation error instead of silently using a default.
func parseQueryInt(params url.Values, name string) (int, error) {
	raw := params.Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, contents.NewValidationError(name,
			fmt.Sprintf("must be a positive integer, got %q", raw))
	}
	return value, nil
}

// pageURL rebuilds the request URL with the page parameter replaced.
func pageURL(r *http.Request, page int) *string {
	u := *r.URL

	query := u.Query()
	query.Set("page", strconv.Itoa(page))
	u.RawQuery = query.Encode()

	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}

	s := u.String()
	return &s
}
