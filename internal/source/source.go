// Package source retrieves raw issues from GitHub and decorates sources
// with caching.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

var (
	// ErrRateLimited is returned when the provider refuses requests due to rate limiting.
	ErrRateLimited = errors.New("github api rate limit exceeded, try again later")

	// ErrInvalidQuery is returned when the provider rejects a search query.
	ErrInvalidQuery = errors.New("invalid search query")

	// ErrNotFound is returned when an issue or repository does not exist.
	ErrNotFound = errors.New("not found")
)

// Source defines the interface for retrieving raw issues.
type Source interface {
	// Search returns one page of open issues matching the parameters.
	Search(ctx context.Context, params model.SearchParams) (*model.SearchResult, error)

	// Popular returns up to count beginner-friendly issues from popular repositories.
	Popular(ctx context.Context, count int) ([]model.RawIssue, error)

	// MorePopular returns the given page of the Popular listing.
	MorePopular(ctx context.Context, page, count int) ([]model.RawIssue, error)

	// Issue returns a single issue with its repository snapshot.
	Issue(ctx context.Context, owner, repo string, number int) (*model.RawIssue, error)
}

// Config configures a GitHub source.
type Config struct {
	// Token is a GitHub token. Anonymous access is used when empty.
	Token string

	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise.
	BaseURL string

	// MaxRetries and InitialBackoff tune the retrying transport used for
	// anonymous access.
	MaxRetries     int
	InitialBackoff time.Duration

	// Concurrency bounds parallel repository lookups. Default is 8.
	Concurrency int

	// Now is the clock used for fallback data. Default is time.Now.
	Now func() time.Time
}

// NewGitHub creates a GitHub source from the given configuration.
func NewGitHub(ctx context.Context, cfg Config) (Source, error) {
	return NewGitHubSource(ctx, cfg)
}
