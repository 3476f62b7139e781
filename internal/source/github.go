package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/grokify/gogithub/auth"
	"github.com/grokify/mogo/net/http/retryhttp"
	"golang.org/x/sync/errgroup"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

const defaultConcurrency = 8

// GitHubSource implements Source using the GitHub REST API.
type GitHubSource struct {
	client      *github.Client
	concurrency int
	now         func() time.Time

	mu    sync.RWMutex
	repos map[string]model.Repository
}

// NewGitHubSource creates a GitHub source. With a token the client is
// built by gogithub; anonymous clients go through a retrying transport so
// 429 responses are retried with backoff.
func NewGitHubSource(ctx context.Context, cfg Config) (*GitHubSource, error) {
	var client *github.Client
	if cfg.Token != "" {
		client = auth.NewGitHubClient(ctx, cfg.Token)
	} else {
		var retryOpts []retryhttp.Option
		if cfg.MaxRetries > 0 {
			retryOpts = append(retryOpts, retryhttp.WithMaxRetries(cfg.MaxRetries))
		}
		if cfg.InitialBackoff > 0 {
			retryOpts = append(retryOpts, retryhttp.WithInitialBackoff(cfg.InitialBackoff))
		}
		client = github.NewClient(&http.Client{Transport: retryhttp.NewWithOptions(retryOpts...)})
	}

	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid github base url: %w", err)
		}
		client.BaseURL = base
	}

	return NewGitHubSourceWithClient(client, cfg), nil
}

// NewGitHubSourceWithClient creates a GitHub source around an existing client.
func NewGitHubSourceWithClient(client *github.Client, cfg Config) *GitHubSource {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &GitHubSource{
		client:      client,
		concurrency: cfg.Concurrency,
		now:         cfg.Now,
		repos:       make(map[string]model.Repository),
	}
}

// Search returns one page of open issues matching the parameters.
// Pull requests in the results are skipped.
func (s *GitHubSource) Search(ctx context.Context, params model.SearchParams) (*model.SearchResult, error) {
	query := BuildQuery(params)
	opts := &github.SearchOptions{
		Sort:  searchSort(params),
		Order: searchOrder(params),
		ListOptions: github.ListOptions{
			Page:    params.Page,
			PerPage: searchPerPage(params),
		},
	}

	slog.DebugContext(ctx, "searching issues", "query", query, "page", params.Page)

	res, _, err := s.client.Search.Issues(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", classify(err))
	}

	var ghIssues []*github.Issue
	var names []string
	seen := make(map[string]bool)
	for _, gi := range res.Issues {
		if gi.IsPullRequest() {
			continue
		}
		ghIssues = append(ghIssues, gi)
		name := repoFullName(gi.GetRepositoryURL())
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	snapshots := s.repositories(ctx, names)

	issues := make([]model.RawIssue, 0, len(ghIssues))
	for _, gi := range ghIssues {
		issues = append(issues, convertIssue(gi, snapshots[repoFullName(gi.GetRepositoryURL())]))
	}

	return &model.SearchResult{
		Issues:            issues,
		TotalCount:        res.GetTotal(),
		IncompleteResults: res.GetIncompleteResults(),
	}, nil
}

// Popular returns up to count "good first issue" results, falling back to
// "help wanted" and finally to built-in sample issues.
func (s *GitHubSource) Popular(ctx context.Context, count int) ([]model.RawIssue, error) {
	for _, q := range []string{popularQuery, fallbackQuery} {
		res, err := s.Search(ctx, model.SearchParams{Query: q, Sort: model.SortUpdated, Order: "desc"})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.WarnContext(ctx, "popular issue search failed, using sample issues", "error", err)
			return MockIssues(count, s.now()), nil
		}
		if len(res.Issues) > 0 {
			return head(res.Issues, count), nil
		}
	}

	slog.WarnContext(ctx, "no popular issues found, using sample issues")
	return MockIssues(count, s.now()), nil
}

// MorePopular returns the given page of the Popular listing. Errors are
// logged and reported as an empty page.
func (s *GitHubSource) MorePopular(ctx context.Context, page, count int) ([]model.RawIssue, error) {
	for _, q := range []string{popularQuery, fallbackQuery} {
		res, err := s.Search(ctx, model.SearchParams{
			Query:   q,
			Sort:    model.SortUpdated,
			Order:   "desc",
			Page:    page,
			PerPage: count,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.WarnContext(ctx, "loading more popular issues failed", "page", page, "error", err)
			return []model.RawIssue{}, nil
		}
		if len(res.Issues) > 0 {
			return head(res.Issues, count), nil
		}
	}
	return []model.RawIssue{}, nil
}

// Issue returns a single issue together with a fresh repository snapshot.
func (s *GitHubSource) Issue(ctx context.Context, owner, repo string, number int) (*model.RawIssue, error) {
	var gi *github.Issue
	var gr *github.Repository

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gi, _, err = s.client.Issues.Get(gctx, owner, repo, number)
		return err
	})
	g.Go(func() error {
		var err error
		gr, _, err = s.client.Repositories.Get(gctx, owner, repo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get issue %s/%s#%d: %w", owner, repo, number, classify(err))
	}

	snapshot := convertRepository(gr)
	s.remember(snapshot.FullName, snapshot)

	issue := convertIssue(gi, snapshot)
	return &issue, nil
}

// repositories resolves snapshots for the named repositories, fetching the
// ones not seen before with bounded concurrency. Lookups that fail fall
// back to a snapshot derived from the name alone.
func (s *GitHubSource) repositories(ctx context.Context, names []string) map[string]model.Repository {
	result := make(map[string]model.Repository, len(names))
	var missing []string

	s.mu.RLock()
	for _, name := range names {
		if r, ok := s.repos[name]; ok {
			result[name] = r
		} else {
			missing = append(missing, name)
		}
	}
	s.mu.RUnlock()

	if len(missing) == 0 {
		return result
	}

	fetched := make([]model.Repository, len(missing))
	ok := make([]bool, len(missing))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, name := range missing {
		g.Go(func() error {
			ref := model.ParseRepoRef(name)
			gr, _, err := s.client.Repositories.Get(gctx, ref.Owner, ref.Name)
			if err != nil {
				slog.DebugContext(gctx, "repository lookup failed", "repo", name, "error", err)
				fetched[i] = fallbackRepository(name)
				return nil
			}
			fetched[i] = convertRepository(gr)
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for i, name := range missing {
		result[name] = fetched[i]
		if ok[i] {
			s.remember(name, fetched[i])
		}
	}

	return result
}

func (s *GitHubSource) remember(name string, r model.Repository) {
	s.mu.Lock()
	s.repos[name] = r
	s.mu.Unlock()
}

// classify maps GitHub API errors onto the package sentinels.
func classify(err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusForbidden, http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		case http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
	}

	return err
}

// repoFullName extracts owner/repo from an API repository URL.
func repoFullName(repositoryURL string) string {
	parts := strings.Split(strings.TrimSuffix(repositoryURL, "/"), "/")
	if len(parts) < 2 {
		return "unknown/unknown"
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1]
}

func fallbackRepository(fullName string) model.Repository {
	ref := model.ParseRepoRef(fullName)
	return model.Repository{
		Name:     ref.Name,
		FullName: fullName,
		Owner:    ref.Owner,
		HTMLURL:  "https://github.com/" + fullName,
	}
}

// convertRepository converts a GitHub repository to our snapshot.
func convertRepository(r *github.Repository) model.Repository {
	return model.Repository{
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Language:    r.GetLanguage(),
		Description: r.GetDescription(),
		HTMLURL:     r.GetHTMLURL(),
		Owner:       r.GetOwner().GetLogin(),
	}
}

// convertIssue converts a GitHub issue to our model.
func convertIssue(gi *github.Issue, repo model.Repository) model.RawIssue {
	labels := make([]model.Label, 0, len(gi.Labels))
	for _, l := range gi.Labels {
		labels = append(labels, model.Label{
			ID:    l.GetID(),
			Name:  l.GetName(),
			Color: l.GetColor(),
		})
	}

	if repo.FullName == "" {
		repo = fallbackRepository(repoFullName(gi.GetRepositoryURL()))
	}

	return model.RawIssue{
		ID:         gi.GetID(),
		Number:     gi.GetNumber(),
		Title:      gi.GetTitle(),
		Body:       gi.GetBody(),
		State:      model.IssueState(gi.GetState()),
		CreatedAt:  gi.GetCreatedAt().Time,
		UpdatedAt:  gi.GetUpdatedAt().Time,
		Comments:   gi.GetComments(),
		Author:     gi.GetUser().GetLogin(),
		HTMLURL:    gi.GetHTMLURL(),
		Labels:     labels,
		Repository: repo,
	}
}

func head(issues []model.RawIssue, n int) []model.RawIssue {
	if n >= 0 && len(issues) > n {
		return issues[:n]
	}
	return issues
}
