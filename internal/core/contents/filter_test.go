package contents

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFilter_Empty(t *testing.T) {
	filter, err := CompileFilter(url.Values{})
	require.NoError(t, err)
	assert.True(t, filter.IsZero(), "no params should compile to an unconstrained filter")
}

func TestCompileFilter_AllParams(t *testing.T) {
	params := url.Values{}
	params.Set("author_id", "42")
	params.Set("author_username", "jane")
	params.Set("timeframe", "7")
	params.Set("tag_id", "3")
	params.Set("title", "sql")

	filter, err := CompileFilter(params)
	require.NoError(t, err)

	assert.Equal(t, int64(42), filter.AuthorID)
	assert.Equal(t, "jane", filter.AuthorUsername)
	require.NotNil(t, filter.Timeframe)
	assert.Equal(t, 7, *filter.Timeframe)
	assert.Equal(t, int64(3), filter.TagID)
	assert.Equal(t, "sql", filter.Title)
}

func TestCompileFilter_ZeroDayTimeframe(t *testing.T) {
	params := url.Values{}
	params.Set("timeframe", "0")

	filter, err := CompileFilter(params)
	require.NoError(t, err)
	require.NotNil(t, filter.Timeframe)
	assert.Equal(t, 0, *filter.Timeframe)
}

func TestCompileFilter_MalformedTimeframe(t *testing.T) {
	for _, raw := range []string{"abc", "-1", "7.5", "7d"} {
		params := url.Values{}
		params.Set("timeframe", raw)

		_, err := CompileFilter(params)
		require.Error(t, err, "timeframe=%s must be rejected", raw)
		assert.True(t, IsValidationError(err))
		assert.Equal(t, "timeframe", AsValidationError(err).Field)
	}
}

func TestCompileFilter_MalformedIDs(t *testing.T) {
	for _, tt := range []struct{ name, value string }{
		{"author_id", "abc"},
		{"author_id", "0"},
		{"author_id", "-3"},
		{"tag_id", "x"},
		{"tag_id", "0"},
	} {
		params := url.Values{}
		params.Set(tt.name, tt.value)

		_, err := CompileFilter(params)
		require.Error(t, err, "%s=%s must be rejected", tt.name, tt.value)
		assert.True(t, IsValidationError(err))
		assert.Equal(t, tt.name, AsValidationError(err).Field)
	}
}
