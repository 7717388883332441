package contents

import (
	"context"
	"fmt"
	"log"
	"strings"

	"Pulse/internal/validation"
)

// Pagination bounds for the listing endpoint. The client may override
// the page size up to the ceiling; anything larger is clamped to keep
// responses bounded.
const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

type contentService struct {
	repo     Repository
	validate *validation.Validator
}

// NewContentService creates a new content service
func NewContentService(repo Repository) Service {
	return &contentService{
		repo:     repo,
		validate: validation.New(),
	}
}

// ListContents retrieves one page of filtered content.
// Flow: count matched rows -> fetch page with authors joined ->
// batch-fetch tags for the page -> attach derived metrics.
// Three store round-trips per request, independent of page size.
func (s *contentService) ListContents(ctx context.Context, req ListContentsRequest) (*ListContentsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	perPage := req.ItemsPerPage
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}

	total, err := s.repo.Count(ctx, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count contents: %w", err)
	}

	resp := &ListContentsResponse{
		Items:        []*ContentItem{},
		Total:        total,
		Page:         page,
		ItemsPerPage: perPage,
	}

	if total == 0 {
		return resp, nil
	}

	offset := (page - 1) * perPage
	rows, err := s.repo.List(ctx, req.Filter, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	if len(rows) == 0 {
		return resp, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.Content.ID
	}

	tagsByContent, err := s.repo.TagNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}

	for _, row := range rows {
		resp.Items = append(resp.Items, buildContentItem(row, tagsByContent[row.Content.ID]))
	}

	return resp, nil
}

// GetStats computes aggregate counters over the same filtered set the
// listing sees, then derives engagement metrics once from the aggregate
// sums (not as an average of per-item rates).
func (s *contentService) GetStats(ctx context.Context, filter ContentFilter) (*ContentStats, error) {
	agg, err := s.repo.Aggregate(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate content stats: %w", err)
	}

	metrics := ComputeEngagement(agg.Likes, agg.Comments, agg.Shares, agg.Views)

	return &ContentStats{
		TotalLikes:          agg.Likes,
		TotalShares:         agg.Shares,
		TotalViews:          agg.Views,
		TotalComments:       agg.Comments,
		TotalEngagement:     metrics.TotalEngagement,
		TotalEngagementRate: metrics.EngagementRate,
		TotalContents:       agg.Contents,
		TotalFollowers:      agg.Followers,
	}, nil
}

// IngestContents validates and upserts a batch of incoming records.
// Each record commits as its own transaction; a record that fails
// validation is reported by index and skipped without discarding
// records already committed. Store failures abort the remainder of the
// batch and surface as an internal error - never a silent success.
func (s *contentService) IngestContents(ctx context.Context, records []IngestContent) (*IngestResponse, error) {
	resp := &IngestResponse{
		Results: []*ContentItem{},
		Errors:  []IngestError{},
	}

	var persisted []*ContentWithAuthor

	for i, record := range records {
		if err := s.validateRecord(&record); err != nil {
			valErr := AsValidationError(err)
			if valErr == nil {
				return nil, fmt.Errorf("failed to validate record %d: %w", i, err)
			}
			log.Printf("[INGEST] Rejected record %d (%s): %s", i, valErr.Field, valErr.Message)
			resp.Errors = append(resp.Errors, IngestError{
				Index:   i,
				Field:   valErr.Field,
				Message: valErr.Message,
			})
			continue
		}

		row, err := s.repo.Upsert(ctx, buildUpsertRecord(&record))
		if err != nil {
			// Store errors are not locally recoverable. Records committed
			// so far stay committed; re-ingesting them is a no-op.
			return nil, fmt.Errorf("failed to upsert content %s: %w", record.UnqExternalID, err)
		}
		persisted = append(persisted, row)
	}

	if len(persisted) > 0 {
		ids := make([]int64, len(persisted))
		for i, row := range persisted {
			ids[i] = row.Content.ID
		}
		tagsByContent, err := s.repo.TagNames(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tags for ingested contents: %w", err)
		}
		for _, row := range persisted {
			resp.Results = append(resp.Results, buildContentItem(row, tagsByContent[row.Content.ID]))
		}
	}

	log.Printf("[INGEST] Batch processed: %d persisted, %d rejected", len(resp.Results), len(resp.Errors))
	return resp, nil
}

// validateRecord runs schema validation and converts field errors into
// the domain validation error type.
func (s *contentService) validateRecord(record *IngestContent) error {
	if err := s.validate.Validate(record); err != nil {
		if fieldErr := validation.AsFieldError(err); fieldErr != nil {
			return NewValidationError(fieldErr.Field, fieldErr.Message)
		}
		return err
	}
	return nil
}

// buildUpsertRecord maps a validated ingest record to the repository
// upsert shape. Tag names are trimmed and de-duplicated so a payload
// repeating a hashtag cannot produce duplicate association attempts.
func buildUpsertRecord(record *IngestContent) *UpsertRecord {
	seen := make(map[string]bool, len(record.Hashtags))
	tags := make([]string, 0, len(record.Hashtags))
	for _, name := range record.Hashtags {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}

	return &UpsertRecord{
		Author: Author{
			UniqueID:    record.Author.UniqueExternalID,
			Username:    record.Author.UniqueName,
			Name:        record.Author.FullName,
			URL:         record.Author.URL,
			Title:       record.Author.Title,
			BigMetadata: record.Author.BigMetadata,
			SecretValue: record.Author.SecretValue,
		},
		Content: Content{
			UniqueID:     record.UnqExternalID,
			Title:        record.Title,
			BigMetadata:  record.BigMetadata,
			SecretValue:  record.SecretValue,
			ThumbnailURL: record.ThumbnailViewURL,
			LikeCount:    *record.Stats.Likes,
			CommentCount: *record.Stats.Comments,
			ShareCount:   *record.Stats.Shares,
			ViewCount:    *record.Stats.Views,
		},
		Tags: tags,
	}
}

// buildContentItem projects a stored row into the external-safe item
// shape. Secrets and metadata blobs are excluded by construction: the
// view structs simply have no fields for them.
func buildContentItem(row *ContentWithAuthor, tags []string) *ContentItem {
	if tags == nil {
		tags = []string{}
	}

	metrics := ComputeEngagement(
		row.Content.LikeCount,
		row.Content.CommentCount,
		row.Content.ShareCount,
		row.Content.ViewCount,
	)

	return &ContentItem{
		Author: &AuthorView{
			ID:        row.Author.ID,
			Username:  row.Author.Username,
			Name:      row.Author.Name,
			URL:       row.Author.URL,
			Title:     row.Author.Title,
			Followers: row.Author.Followers,
		},
		Content: &ContentView{
			ID:              row.Content.ID,
			Title:           row.Content.Title,
			ThumbnailURL:    row.Content.ThumbnailURL,
			LikeCount:       row.Content.LikeCount,
			CommentCount:    row.Content.CommentCount,
			ShareCount:      row.Content.ShareCount,
			ViewCount:       row.Content.ViewCount,
			TotalEngagement: metrics.TotalEngagement,
			EngagementRate:  metrics.EngagementRate,
			Tags:            tags,
		},
	}
}
