package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Pulse/internal/core/contents"
)

// mockContentService returns canned responses for handler tests
type mockContentService struct {
	listResp  *contents.ListContentsResponse
	statsResp *contents.ContentStats
	ingestFn  func(records []contents.IngestContent) (*contents.IngestResponse, error)

	lastFilter contents.ContentFilter
	lastReq    contents.ListContentsRequest
}

func (m *mockContentService) ListContents(ctx context.Context, req contents.ListContentsRequest) (*contents.ListContentsResponse, error) {
	m.lastReq = req
	if m.listResp != nil {
		return m.listResp, nil
	}
	return &contents.ListContentsResponse{
		Items: []*contents.ContentItem{}, Page: 1, ItemsPerPage: contents.DefaultPageSize,
	}, nil
}

func (m *mockContentService) GetStats(ctx context.Context, filter contents.ContentFilter) (*contents.ContentStats, error) {
	m.lastFilter = filter
	if m.statsResp != nil {
		return m.statsResp, nil
	}
	return &contents.ContentStats{}, nil
}

func (m *mockContentService) IngestContents(ctx context.Context, records []contents.IngestContent) (*contents.IngestResponse, error) {
	if m.ingestFn != nil {
		return m.ingestFn(records)
	}
	return &contents.IngestResponse{Results: []*contents.ContentItem{}, Errors: []contents.IngestError{}}, nil
}

func sampleItem() *contents.ContentItem {
	return &contents.ContentItem{
		Author: &contents.AuthorView{
			ID: 1, Username: "jane", Name: "Jane Doe",
			URL: "https://example.com/jane", Title: "Creator", Followers: 1000,
		},
		Content: &contents.ContentView{
			ID: 7, Title: "A Post", ThumbnailURL: "https://cdn.example.com/7.jpg",
			LikeCount: 10, CommentCount: 2, ShareCount: 1, ViewCount: 100,
			TotalEngagement: 13, EngagementRate: 0.13,
			Tags: []string{"go"},
		},
	}
}

func TestHandleList_Envelope(t *testing.T) {
	service := &mockContentService{
		listResp: &contents.ListContentsResponse{
			Items:        []*contents.ContentItem{sampleItem()},
			Total:        3,
			Page:         2,
			ItemsPerPage: 1,
		},
	}
	handler := NewListHandler(service)

	req := httptest.NewRequest(http.MethodGet, "http://api.test/api/contents?page=2&items_per_page=1", nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Count    int64             `json:"count"`
		Next     *string           `json:"next"`
		Previous *string           `json:"previous"`
		Results  []json.RawMessage `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	assert.Equal(t, int64(3), envelope.Count)
	require.NotNil(t, envelope.Next)
	assert.Contains(t, *envelope.Next, "page=3")
	require.NotNil(t, envelope.Previous)
	assert.Contains(t, *envelope.Previous, "page=1")
	assert.Len(t, envelope.Results, 1)
}

func TestHandleList_NoNextOnLastPage(t *testing.T) {
	service := &mockContentService{
		listResp: &contents.ListContentsResponse{
			Items:        []*contents.ContentItem{sampleItem()},
			Total:        1,
			Page:         1,
			ItemsPerPage: 100,
		},
	}
	handler := NewListHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/contents", nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	var envelope struct {
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Next)
	assert.Nil(t, envelope.Previous)
}

func TestHandleList_NeverLeaksSecretsOrMetadata(t *testing.T) {
	service := &mockContentService{
		listResp: &contents.ListContentsResponse{
			Items: []*contents.ContentItem{sampleItem()},
			Total: 1, Page: 1, ItemsPerPage: 100,
		},
	}
	handler := NewListHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/contents", nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	body := rec.Body.String()
	assert.NotContains(t, body, "secret_value")
	assert.NotContains(t, body, "big_metadata")
	assert.NotContains(t, body, "unique_id")
}

func TestHandleList_ItemShape(t *testing.T) {
	service := &mockContentService{
		listResp: &contents.ListContentsResponse{
			Items: []*contents.ContentItem{sampleItem()},
			Total: 1, Page: 1, ItemsPerPage: 100,
		},
	}
	handler := NewListHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/contents", nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	var envelope struct {
		Results []struct {
			Author  map[string]json.RawMessage `json:"author"`
			Content map[string]json.RawMessage `json:"content"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Results, 1)

	author := envelope.Results[0].Author
	for _, field := range []string{"id", "username", "name", "url", "title", "followers"} {
		assert.Contains(t, author, field)
	}

	content := envelope.Results[0].Content
	for _, field := range []string{
		"id", "title", "thumbnail_url",
		"like_count", "comment_count", "share_count", "view_count",
		"total_engagement", "engagement_rate", "tags",
	} {
		assert.Contains(t, content, field)
	}
}

func TestHandleList_MalformedTimeframe(t *testing.T) {
	handler := NewListHandler(&mockContentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/contents?timeframe=abc", nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "timeframe")
}

func TestHandleList_MalformedPage(t *testing.T) {
	handler := NewListHandler(&mockContentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/contents?page=zero", nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "page")
}

func TestHandleStats_SharesFilterCompiler(t *testing.T) {
	service := &mockContentService{
		statsResp: &contents.ContentStats{TotalLikes: 10, TotalContents: 2},
	}
	handler := NewStatsHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/contents/stats?author_username=jane&timeframe=7", nil)
	rec := httptest.NewRecorder()
	handler.HandleStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane", service.lastFilter.AuthorUsername)
	require.NotNil(t, service.lastFilter.Timeframe)
	assert.Equal(t, 7, *service.lastFilter.Timeframe)
}

func TestHandleStats_ZeroDefaultsPresent(t *testing.T) {
	handler := NewStatsHandler(&mockContentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/contents/stats", nil)
	rec := httptest.NewRecorder()
	handler.HandleStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.Number
	decoder := json.NewDecoder(rec.Body)
	decoder.UseNumber()
	require.NoError(t, decoder.Decode(&body))

	for _, field := range []string{
		"total_likes", "total_shares", "total_views", "total_comments",
		"total_engagement", "total_engagement_rate", "total_contents", "total_followers",
	} {
		require.Contains(t, body, field, "stats must include %s even when zero", field)
		assert.Equal(t, "0", body[field].String())
	}
}

func TestHandleStats_MalformedFilter(t *testing.T) {
	handler := NewStatsHandler(&mockContentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/contents/stats?timeframe=-2", nil)
	rec := httptest.NewRecorder()
	handler.HandleStats(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
