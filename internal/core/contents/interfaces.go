package contents

import "context"

// Service defines the business logic interface for the content engine:
// the filtered listing, the aggregate stats over the same filter set,
// and the idempotent ingest reconciler.
type Service interface {
	// ListContents returns one page of filtered content, newest first,
	// with author, tag names, and derived engagement metrics attached.
	ListContents(ctx context.Context, req ListContentsRequest) (*ListContentsResponse, error)

	// GetStats computes the aggregate counters over the filtered set and
	// derives engagement metrics from the aggregate sums.
	GetStats(ctx context.Context, filter ContentFilter) (*ContentStats, error)

	// IngestContents validates and upserts a batch of incoming records.
	// Records are processed independently: one record's validation
	// failure does not discard records already committed in the batch.
	IngestContents(ctx context.Context, records []IngestContent) (*IngestResponse, error)
}

// Repository defines the data access interface for contents. The same
// ContentFilter drives List, Count, and Aggregate so the listing and
// stats paths always operate over identical candidate sets.
type Repository interface {
	// List returns one page of matched rows joined with their authors,
	// ordered by created_at DESC with id DESC as the tie-break.
	List(ctx context.Context, filter ContentFilter, limit, offset int) ([]*ContentWithAuthor, error)

	// Count returns the total number of matched rows for the filter.
	Count(ctx context.Context, filter ContentFilter) (int64, error)

	// TagNames batch-fetches tag names for a set of content ids in a
	// single query, keyed by content id. Bounded round-trips: one call
	// covers a whole page regardless of page size.
	TagNames(ctx context.Context, contentIDs []int64) (map[int64][]string, error)

	// Aggregate computes the stats sums over the matched set, counting
	// each distinct author's followers once.
	Aggregate(ctx context.Context, filter ContentFilter) (*AggregateRow, error)

	// Upsert applies one validated record as a single transaction:
	// author resolve-or-create, content resolve-or-create with the
	// counter snapshot fully replacing prior values, and idempotent
	// tag association. Returns the persisted row joined with its author.
	Upsert(ctx context.Context, record *UpsertRecord) (*ContentWithAuthor, error)
}
