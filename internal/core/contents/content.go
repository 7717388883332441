package contents

import (
	"encoding/json"
	"time"
)

// Author is an upstream content producer. UniqueID is the identifier
// assigned by the upstream source and is the natural key for upserts;
// ID is the internal storage identifier exposed to API consumers.
type Author struct {
	ID          int64
	UniqueID    string
	Username    string
	Name        string
	URL         string
	Title       string
	BigMetadata json.RawMessage
	SecretValue string
	Followers   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Content is a single piece of ingested content. Counters always hold
// the most recently ingested snapshot; they are replaced on upsert,
// never summed.
type Content struct {
	ID           int64
	UniqueID     string
	AuthorID     int64
	Title        string
	BigMetadata  json.RawMessage
	SecretValue  string
	ThumbnailURL string
	LikeCount    int64
	CommentCount int64
	ShareCount   int64
	ViewCount    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Tag is a topic label, created lazily on first reference from an
// ingested content record. Name is unique.
type Tag struct {
	ID          int64
	Name        string
	Description string
}

// ContentWithAuthor is the row shape the repository returns for listing
// and upsert results: one content row joined with its author.
type ContentWithAuthor struct {
	Content Content
	Author  Author
}

// AuthorView is the external-safe author projection. Fields are an
// explicit allow-list: secret_value and big_metadata must never appear
// in API responses, so they have no place here at all.
type AuthorView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Followers int64  `json:"followers"`
}

// ContentView is the external-safe content projection, including the
// derived engagement metrics and tag names. Same allow-list rule as
// AuthorView.
type ContentView struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	ThumbnailURL    string   `json:"thumbnail_url"`
	LikeCount       int64    `json:"like_count"`
	CommentCount    int64    `json:"comment_count"`
	ShareCount      int64    `json:"share_count"`
	ViewCount       int64    `json:"view_count"`
	TotalEngagement int64    `json:"total_engagement"`
	EngagementRate  float64  `json:"engagement_rate"`
	Tags            []string `json:"tags"`
}

// ContentItem is the per-item payload shared by the listing response
// and the ingest response. The nesting is a compatibility contract with
// the existing client and must not change.
type ContentItem struct {
	Author  *AuthorView  `json:"author"`
	Content *ContentView `json:"content"`
}

// ListContentsRequest carries the compiled filter plus pagination.
type ListContentsRequest struct {
	Filter       ContentFilter
	Page         int
	ItemsPerPage int
}

// ListContentsResponse is the paginated listing result. Total is the
// full count of matched rows, not just this page.
type ListContentsResponse struct {
	Items        []*ContentItem
	Total        int64
	Page         int
	ItemsPerPage int
}

// ContentStats is the aggregate over the filtered set. All sums default
// to zero when nothing matches. TotalFollowers counts each matched
// author's followers once, no matter how many of their content rows
// matched.
type ContentStats struct {
	TotalLikes          int64   `json:"total_likes"`
	TotalShares         int64   `json:"total_shares"`
	TotalViews          int64   `json:"total_views"`
	TotalComments       int64   `json:"total_comments"`
	TotalEngagement     int64   `json:"total_engagement"`
	TotalEngagementRate float64 `json:"total_engagement_rate"`
	TotalContents       int64   `json:"total_contents"`
	TotalFollowers      int64   `json:"total_followers"`
}

// AggregateRow is the raw sum row the repository computes for stats.
type AggregateRow struct {
	Likes     int64
	Shares    int64
	Views     int64
	Comments  int64
	Contents  int64
	Followers int64
}

// IngestAuthor is the nested author sub-object of an ingest record.
// Field names follow the upstream wire contract.
type IngestAuthor struct {
	UniqueExternalID string          `json:"unique_external_id" validate:"required"`
	UniqueName       string          `json:"unique_name" validate:"required"`
	FullName         string          `json:"full_name"`
	URL              string          `json:"url"`
	Title            string          `json:"title"`
	BigMetadata      json.RawMessage `json:"big_metadata"`
	SecretValue      string          `json:"secret_value"`
}

// IngestStats is the nested counter snapshot of an ingest record.
// Pointers distinguish "missing" from a legitimate zero.
type IngestStats struct {
	Likes    *int64 `json:"likes" validate:"required,gte=0"`
	Comments *int64 `json:"comments" validate:"required,gte=0"`
	Shares   *int64 `json:"shares" validate:"required,gte=0"`
	Views    *int64 `json:"views" validate:"required,gte=0"`
}

// IngestContent is one incoming content record. Validated as a whole
// before any store mutation.
type IngestContent struct {
	UnqExternalID    string          `json:"unq_external_id" validate:"required"`
	Title            string          `json:"title"`
	BigMetadata      json.RawMessage `json:"big_metadata"`
	SecretValue      string          `json:"secret_value"`
	ThumbnailViewURL string          `json:"thumbnail_view_url"`
	Author           *IngestAuthor   `json:"author" validate:"required"`
	Stats            *IngestStats    `json:"stats" validate:"required"`
	Hashtags         []string        `json:"hashtags"`
}

// IngestError reports one rejected record from a batch. Index refers to
// the record's position in the submitted payload.
type IngestError struct {
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// IngestResponse carries the persisted records alongside per-record
// rejections. A batch is never all-or-nothing: records that validated
// are committed even when later records fail.
type IngestResponse struct {
	Results []*ContentItem `json:"results"`
	Errors  []IngestError  `json:"errors"`
}

// UpsertRecord is the repository-facing form of one validated ingest
// record. Author.ID and Content.ID are unset on input; the store
// resolves or creates both rows by their UniqueID natural keys.
type UpsertRecord struct {
	Author  Author
	Content Content
	Tags    []string
}
