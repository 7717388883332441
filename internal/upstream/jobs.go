package upstream

import (
	"context"
	"fmt"
	"log"

	"Pulse/internal/core/contents"
	"Pulse/internal/jobs"
)

// PullContentsJob returns the handler for the periodic content pull:
// fetch the upstream snapshot and run it through the same ingest path
// the HTTP endpoint uses, with no HTTP relay in between.
func PullContentsJob(client *Client, service contents.Service) jobs.Handler {
	return func(ctx context.Context) error {
		records, err := client.FetchContents(ctx)
		if err != nil {
			return fmt.Errorf("content pull fetch failed: %w", err)
		}
		if len(records) == 0 {
			log.Println("[CONTENT-PULL] Upstream returned no records")
			return nil
		}

		resp, err := service.IngestContents(ctx, records)
		if err != nil {
			return fmt.Errorf("content pull ingest failed: %w", err)
		}

		log.Printf("[CONTENT-PULL] Ingested %d records, %d rejected", len(resp.Results), len(resp.Errors))
		return nil
	}
}

// GenerateCommentJob returns the handler for the AI comment round-trip:
// fetch one generated comment and relay it to the upstream comment
// endpoint.
func GenerateCommentJob(client *Client) jobs.Handler {
	return func(ctx context.Context) error {
		comment, err := client.FetchAIComment(ctx)
		if err != nil {
			return fmt.Errorf("AI comment fetch failed: %w", err)
		}

		if err := client.PostComment(ctx, comment); err != nil {
			return fmt.Errorf("AI comment post failed: %w", err)
		}

		log.Printf("[AI-COMMENT] Posted comment for content %s", comment.ContentID)
		return nil
	}
}
