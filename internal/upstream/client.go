// Package upstream talks to the third-party content API: the periodic
// content pull and the AI comment round-trip both live here, invoked
// only from background jobs, never from the request path.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"Pulse/internal/core/contents"
)

// Client is an HTTP client for the upstream content API. All calls
// carry the x-api-key header and a bounded timeout.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a new upstream API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// FetchContents pulls the latest content snapshot from the upstream
// source. The payload is the same wire shape the ingest endpoint
// accepts.
func (c *Client) FetchContents(ctx context.Context) ([]contents.IngestContent, error) {
	body, err := c.get(ctx, "/api/v1/contents/")
	if err != nil {
		return nil, err
	}

	var records []contents.IngestContent
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to parse upstream contents: %w", err)
	}

	return records, nil
}

// AIComment is one generated comment for a content item.
type AIComment struct {
	ContentID   string `json:"content_id"`
	CommentText string `json:"comment_text"`
}

// FetchAIComment requests one AI-generated comment from upstream.
func (c *Client) FetchAIComment(ctx context.Context) (*AIComment, error) {
	body, err := c.get(ctx, "/api/v1/ai_comment/")
	if err != nil {
		return nil, err
	}

	var comment AIComment
	if err := json.Unmarshal(body, &comment); err != nil {
		return nil, fmt.Errorf("failed to parse AI comment: %w", err)
	}
	if comment.ContentID == "" {
		return nil, fmt.Errorf("upstream AI comment missing content_id")
	}

	return &comment, nil
}

// PostComment relays a generated comment back to the upstream comment
// endpoint.
func (c *Client) PostComment(ctx context.Context, comment *AIComment) error {
	payload, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal comment payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/comment/", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create comment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream comment request failed: %w", err)
	}
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upstream comment endpoint returned %d: %s",
			resp.StatusCode, readErrorBody(resp))
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream %s returned %d: %s", path, resp.StatusCode, readErrorBody(resp))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	return body, nil
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		log.Printf("WARN: failed to close upstream response body: %v", err)
	}
}

// readErrorBody returns a truncated error body safe for logs.
func readErrorBody(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 200))
	if err != nil {
		return "(unreadable body)"
	}
	return string(body)
}
