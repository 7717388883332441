package contents

import (
	"fmt"
	"net/url"
	"strconv"
)

// ContentFilter is the compiled form of the optional query parameters
// shared by the listing and stats endpoints. Zero values impose no
// constraint. Both read paths consume the same compiled filter, so they
// can never disagree about which rows are in scope.
type ContentFilter struct {
	AuthorID       int64  // internal author id (contents.author_id)
	AuthorUsername string // exact match
	Timeframe      *int   // days; created_at >= now - N days
	TagID          int64  // internal tag id
	Title          string // case-insensitive substring
}

// IsZero reports whether no constraint was supplied.
func (f ContentFilter) IsZero() bool {
	return f.AuthorID == 0 && f.AuthorUsername == "" && f.Timeframe == nil &&
		f.TagID == 0 && f.Title == ""
}

// CompileFilter parses the raw query parameters into a ContentFilter.
// Unsupplied parameters are left unconstrained. Malformed values fail
// with a ValidationError naming the offending parameter rather than
// silently matching everything.
func CompileFilter(params url.Values) (ContentFilter, error) {
	var filter ContentFilter

	if raw := params.Get("author_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return ContentFilter{}, NewValidationError("author_id",
				fmt.Sprintf("must be a positive integer, got %q", raw))
		}
		filter.AuthorID = id
	}

	filter.AuthorUsername = params.Get("author_username")

	if raw := params.Get("timeframe"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			return ContentFilter{}, NewValidationError("timeframe",
				fmt.Sprintf("must be a non-negative integer number of days, got %q", raw))
		}
		filter.Timeframe = &days
	}

	if raw := params.Get("tag_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return ContentFilter{}, NewValidationError("tag_id",
				fmt.Sprintf("must be a positive integer, got %q", raw))
		}
		filter.TagID = id
	}

	filter.Title = params.Get("title")

	return filter, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive")
	}
	return id, nil
}
