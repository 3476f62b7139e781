package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

type countingSource struct {
	calls map[string]int
	pages map[int][]model.RawIssue
}

func newCountingSource() *countingSource {
	return &countingSource{calls: make(map[string]int), pages: make(map[int][]model.RawIssue)}
}

func (s *countingSource) Search(_ context.Context, params model.SearchParams) (*model.SearchResult, error) {
	s.calls["search"]++
	issues := MockIssues(2, testNow)
	return &model.SearchResult{Issues: issues, TotalCount: len(issues)}, nil
}

func (s *countingSource) Popular(_ context.Context, count int) ([]model.RawIssue, error) {
	s.calls["popular"]++
	return MockIssues(count, testNow), nil
}

func (s *countingSource) MorePopular(_ context.Context, page, count int) ([]model.RawIssue, error) {
	s.calls["more"]++
	return s.pages[page], nil
}

func (s *countingSource) Issue(_ context.Context, owner, repo string, number int) (*model.RawIssue, error) {
	s.calls["issue"]++
	issue := MockIssues(1, testNow)[0]
	issue.Number = number
	return &issue, nil
}

func newCached(t *testing.T) (*CachedSource, *countingSource) {
	t.Helper()
	cache, err := NewCache(CacheConfig{MemoryOnly: true})
	require.NoError(t, err)
	inner := newCountingSource()
	return NewCachedSource(inner, cache), inner
}

func TestCachedSourceSearch(t *testing.T) {
	cs, inner := newCached(t)
	ctx := context.Background()
	params := model.SearchParams{Query: "x"}

	for range 2 {
		res, err := cs.Search(ctx, params)
		require.NoError(t, err)
		assert.Len(t, res.Issues, 2)
	}
	assert.Equal(t, 1, inner.calls["search"])

	_, err := cs.Search(ctx, model.SearchParams{Query: "y"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls["search"])

	require.NoError(t, cs.Invalidate(ctx, params))
	_, err = cs.Search(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls["search"])
}

func TestCachedSourcePopularAndIssue(t *testing.T) {
	cs, inner := newCached(t)
	ctx := context.Background()

	a, err := cs.Popular(ctx, 3)
	require.NoError(t, err)
	b, err := cs.Popular(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, inner.calls["popular"])

	issue, err := cs.Issue(ctx, "o", "r", 5)
	require.NoError(t, err)
	again, err := cs.Issue(ctx, "o", "r", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Number)
	assert.Equal(t, issue, again)
	assert.Equal(t, 1, inner.calls["issue"])
}

func TestCachedSourceSkipsEmptyPages(t *testing.T) {
	cs, inner := newCached(t)
	ctx := context.Background()
	inner.pages[2] = MockIssues(4, testNow)

	for range 2 {
		issues, err := cs.MorePopular(ctx, 2, 20)
		require.NoError(t, err)
		assert.Len(t, issues, 4)
	}
	assert.Equal(t, 1, inner.calls["more"])

	for range 2 {
		issues, err := cs.MorePopular(ctx, 3, 20)
		require.NoError(t, err)
		assert.Empty(t, issues)
	}
	assert.Equal(t, 3, inner.calls["more"])
}
