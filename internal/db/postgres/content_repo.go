package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"

	"Pulse/internal/core/contents"
)

type postgresContentRepo struct {
	db *sql.DB
}

// NewContentRepository creates a new PostgreSQL content repository
func NewContentRepository(db *sql.DB) contents.Repository {
	return &postgresContentRepo{db: db}
}

// buildFilterClauses renders a ContentFilter into WHERE conditions with
// positional args, starting at paramIndex. The listing, count, and
// aggregate queries all render the same filter through this one
// function, so the two read paths always see the same candidate set.
func buildFilterClauses(filter contents.ContentFilter, paramIndex int) ([]string, []interface{}, int) {
	var conditions []string
	var args []interface{}

	if filter.AuthorID > 0 {
		conditions = append(conditions, fmt.Sprintf("c.author_id = $%d", paramIndex))
		args = append(args, filter.AuthorID)
		paramIndex++
	}

	if filter.AuthorUsername != "" {
		conditions = append(conditions, fmt.Sprintf("a.username = $%d", paramIndex))
		args = append(args, filter.AuthorUsername)
		paramIndex++
	}

	if filter.Timeframe != nil {
		conditions = append(conditions,
			fmt.Sprintf("c.created_at >= NOW() - ($%d * INTERVAL '1 day')", paramIndex))
		args = append(args, *filter.Timeframe)
		paramIndex++
	}

	if filter.TagID > 0 {
		// EXISTS rather than a join: a content row with several matching
		// tag rows must still appear (and be counted) exactly once.
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM content_tags ct WHERE ct.content_id = c.id AND ct.tag_id = $%d)",
			paramIndex))
		args = append(args, filter.TagID)
		paramIndex++
	}

	if filter.Title != "" {
		conditions = append(conditions, fmt.Sprintf("c.title ILIKE '%%' || $%d || '%%'", paramIndex))
		args = append(args, filter.Title)
		paramIndex++
	}

	return conditions, args, paramIndex
}

func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conditions, " AND ")
}

const contentSelectColumns = `
		c.id, c.unique_id, c.author_id, c.title, c.thumbnail_url,
		c.like_count, c.comment_count, c.share_count, c.view_count,
		c.created_at, c.updated_at,
		a.id, a.unique_id, a.username, a.name, a.url, a.title, a.followers,
		a.created_at, a.updated_at`

// List retrieves one page of matched content joined with authors.
// Ordered newest first with id as the deterministic tie-break so
// pagination stays stable when creation timestamps collide.
func (r *postgresContentRepo) List(ctx context.Context, filter contents.ContentFilter, limit, offset int) ([]*contents.ContentWithAuthor, error) {
	conditions, args, paramIndex := buildFilterClauses(filter, 1)

	query := fmt.Sprintf(`
		SELECT %s
		FROM contents c
		INNER JOIN authors a ON c.author_id = a.id
		%s
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $%d OFFSET $%d
	`, contentSelectColumns, whereClause(conditions), paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contents: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("WARN: failed to close rows: %v", err)
		}
	}()

	var results []*contents.ContentWithAuthor
	for rows.Next() {
		row, err := scanContentWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content results: %w", err)
	}

	return results, nil
}

// Count returns the total number of rows matched by the filter.
func (r *postgresContentRepo) Count(ctx context.Context, filter contents.ContentFilter) (int64, error) {
	conditions, args, _ := buildFilterClauses(filter, 1)

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM contents c
		INNER JOIN authors a ON c.author_id = a.id
		%s
	`, whereClause(conditions))

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contents: %w", err)
	}

	return count, nil
}

// TagNames batch-fetches tag names for a whole page of content ids in
// one query, grouped in memory by content id.
func (r *postgresContentRepo) TagNames(ctx context.Context, contentIDs []int64) (map[int64][]string, error) {
	tagsByContent := make(map[int64][]string, len(contentIDs))
	if len(contentIDs) == 0 {
		return tagsByContent, nil
	}

	query := `
		SELECT ct.content_id, t.name
		FROM content_tags ct
		INNER JOIN tags t ON ct.tag_id = t.id
		WHERE ct.content_id = ANY($1)
		ORDER BY ct.content_id, t.name
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(contentIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("WARN: failed to close rows: %v", err)
		}
	}()

	for rows.Next() {
		var contentID int64
		var name string
		if err := rows.Scan(&contentID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tagsByContent[contentID] = append(tagsByContent[contentID], name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag results: %w", err)
	}

	return tagsByContent, nil
}

// Aggregate computes the stats sums over the matched set in a single
// query. Follower totals come from the distinct authors of the matched
// rows, so an author with many matched contents is counted once.
func (r *postgresContentRepo) Aggregate(ctx context.Context, filter contents.ContentFilter) (*contents.AggregateRow, error) {
	conditions, args, _ := buildFilterClauses(filter, 1)

	query := fmt.Sprintf(`
		WITH matched AS (
			SELECT c.id, c.author_id, c.like_count, c.comment_count, c.share_count, c.view_count
			FROM contents c
			INNER JOIN authors a ON c.author_id = a.id
			%s
		)
		SELECT
			COALESCE(SUM(m.like_count), 0)::bigint,
			COALESCE(SUM(m.share_count), 0)::bigint,
			COALESCE(SUM(m.view_count), 0)::bigint,
			COALESCE(SUM(m.comment_count), 0)::bigint,
			COUNT(m.id),
			COALESCE((
				SELECT SUM(a.followers)
				FROM authors a
				WHERE a.id IN (SELECT DISTINCT m2.author_id FROM matched m2)
			), 0)::bigint
		FROM matched m
	`, whereClause(conditions))

	var agg contents.AggregateRow
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&agg.Likes, &agg.Shares, &agg.Views, &agg.Comments,
		&agg.Contents, &agg.Followers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate contents: %w", err)
	}

	return &agg, nil
}

// Upsert applies one record as a single transaction: author write,
// content write, and tag reconciliation commit together, so a reader
// never observes a new author paired with stale content. ON CONFLICT on
// the unique_id natural keys makes concurrent upserts of the same
// record serialize to last-write-wins without any cross-record locking.
func (r *postgresContentRepo) Upsert(ctx context.Context, record *contents.UpsertRecord) (*contents.ContentWithAuthor, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin upsert transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			log.Printf("WARN: failed to rollback upsert transaction: %v", err)
		}
	}()

	row := &contents.ContentWithAuthor{}

	// Author profile is a full replace of the incoming fields; followers
	// are not part of the ingest payload and are left untouched.
	authorQuery := `
		INSERT INTO authors (unique_id, username, name, url, title, big_metadata, secret_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (unique_id) DO UPDATE SET
			username = EXCLUDED.username,
			name = EXCLUDED.name,
			url = EXCLUDED.url,
			title = EXCLUDED.title,
			big_metadata = EXCLUDED.big_metadata,
			secret_value = EXCLUDED.secret_value,
			updated_at = NOW()
		RETURNING id, unique_id, username, name, url, title, followers, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, authorQuery,
		record.Author.UniqueID, record.Author.Username, record.Author.Name,
		record.Author.URL, record.Author.Title,
		nullableJSON(record.Author.BigMetadata), record.Author.SecretValue,
	).Scan(
		&row.Author.ID, &row.Author.UniqueID, &row.Author.Username,
		&row.Author.Name, &row.Author.URL, &row.Author.Title,
		&row.Author.Followers, &row.Author.CreatedAt, &row.Author.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert author %s: %w", record.Author.UniqueID, err)
	}

	// Counters are replaced with the incoming snapshot, never summed
	// onto prior values.
	contentQuery := `
		INSERT INTO contents (
			unique_id, author_id, title, big_metadata, secret_value, thumbnail_url,
			like_count, comment_count, share_count, view_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (unique_id) DO UPDATE SET
			author_id = EXCLUDED.author_id,
			title = EXCLUDED.title,
			big_metadata = EXCLUDED.big_metadata,
			secret_value = EXCLUDED.secret_value,
			thumbnail_url = EXCLUDED.thumbnail_url,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count,
			share_count = EXCLUDED.share_count,
			view_count = EXCLUDED.view_count,
			updated_at = NOW()
		RETURNING id, unique_id, author_id, title, thumbnail_url,
			like_count, comment_count, share_count, view_count,
			created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, contentQuery,
		record.Content.UniqueID, row.Author.ID, record.Content.Title,
		nullableJSON(record.Content.BigMetadata), record.Content.SecretValue,
		record.Content.ThumbnailURL,
		record.Content.LikeCount, record.Content.CommentCount,
		record.Content.ShareCount, record.Content.ViewCount,
	).Scan(
		&row.Content.ID, &row.Content.UniqueID, &row.Content.AuthorID,
		&row.Content.Title, &row.Content.ThumbnailURL,
		&row.Content.LikeCount, &row.Content.CommentCount,
		&row.Content.ShareCount, &row.Content.ViewCount,
		&row.Content.CreatedAt, &row.Content.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert content %s: %w", record.Content.UniqueID, err)
	}

	// Tag reconciliation is append-only: tags from prior ingests that
	// are absent from this payload keep their association.
	for _, name := range record.Tags {
		var tagID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name).Scan(&tagID)
		if err != nil {
			return nil, fmt.Errorf("failed to get or create tag %q: %w", name, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO content_tags (content_id, tag_id) VALUES ($1, $2)
			ON CONFLICT (content_id, tag_id) DO NOTHING
		`, row.Content.ID, tagID)
		if err != nil {
			return nil, fmt.Errorf("failed to associate tag %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit upsert transaction: %w", err)
	}

	return row, nil
}

// nullableJSON maps an absent JSON blob to SQL NULL.
func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

// scanContentWithAuthor scans a joined content+author row.
func scanContentWithAuthor(rows *sql.Rows) (*contents.ContentWithAuthor, error) {
	row := &contents.ContentWithAuthor{}
	err := rows.Scan(
		&row.Content.ID, &row.Content.UniqueID, &row.Content.AuthorID,
		&row.Content.Title, &row.Content.ThumbnailURL,
		&row.Content.LikeCount, &row.Content.CommentCount,
		&row.Content.ShareCount, &row.Content.ViewCount,
		&row.Content.CreatedAt, &row.Content.UpdatedAt,
		&row.Author.ID, &row.Author.UniqueID, &row.Author.Username,
		&row.Author.Name, &row.Author.URL, &row.Author.Title,
		&row.Author.Followers, &row.Author.CreatedAt, &row.Author.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return row, nil
}
