package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// CachedSource wraps a Source with a TTL cache.
type CachedSource struct {
	source Source
	cache  *Cache
}

// NewCachedSource creates a source whose responses are cached.
func NewCachedSource(source Source, cache *Cache) *CachedSource {
	return &CachedSource{source: source, cache: cache}
}

// Search returns cached search results when available.
func (cs *CachedSource) Search(ctx context.Context, params model.SearchParams) (*model.SearchResult, error) {
	return WithCache(ctx, cs.cache, searchCacheKey(params), func(ctx context.Context) (*model.SearchResult, error) {
		return cs.source.Search(ctx, params)
	})
}

// Popular returns cached popular issues when available.
func (cs *CachedSource) Popular(ctx context.Context, count int) ([]model.RawIssue, error) {
	return WithCache(ctx, cs.cache, fmt.Sprintf("popular:%d", count), func(ctx context.Context) ([]model.RawIssue, error) {
		return cs.source.Popular(ctx, count)
	})
}

// MorePopular returns a cached page of popular issues when available.
// Empty pages are not cached.
func (cs *CachedSource) MorePopular(ctx context.Context, page, count int) ([]model.RawIssue, error) {
	key := fmt.Sprintf("popular:%d:%d", page, count)

	var cached []model.RawIssue
	if cs.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	issues, err := cs.source.MorePopular(ctx, page, count)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		_ = cs.cache.Set(ctx, key, issues)
	}
	return issues, nil
}

// Issue returns a cached issue when available.
func (cs *CachedSource) Issue(ctx context.Context, owner, repo string, number int) (*model.RawIssue, error) {
	key := "issue:" + model.IssueRef{Owner: owner, Repo: repo, Number: number}.String()
	return WithCache(ctx, cs.cache, key, func(ctx context.Context) (*model.RawIssue, error) {
		return cs.source.Issue(ctx, owner, repo, number)
	})
}

// Invalidate drops the cached search results for params.
func (cs *CachedSource) Invalidate(ctx context.Context, params model.SearchParams) error {
	return cs.cache.Delete(ctx, searchCacheKey(params))
}

func searchCacheKey(params model.SearchParams) string {
	data, _ := json.Marshal(params)
	return "search:" + string(data)
}
