package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type mockGitHub struct {
	server      *httptest.Server
	mux         *http.ServeMux
	repoLookups atomic.Int32
	lastQuery   atomic.Value
}

func newMockGitHub(t *testing.T) *mockGitHub {
	t.Helper()
	m := &mockGitHub{mux: http.NewServeMux()}
	m.server = httptest.NewServer(m.mux)
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockGitHub) source() *GitHubSource {
	client := github.NewClient(nil)
	client.BaseURL, _ = client.BaseURL.Parse(m.server.URL + "/")
	return NewGitHubSourceWithClient(client, Config{Concurrency: 2, Now: func() time.Time { return testNow }})
}

func (m *mockGitHub) repoURL(fullName string) string {
	return m.server.URL + "/repos/" + fullName
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func makeIssue(id int64, number int, title, repoURL string, labels ...string) *github.Issue {
	gi := &github.Issue{
		ID:            github.Ptr(id),
		Number:        github.Ptr(number),
		Title:         github.Ptr(title),
		Body:          github.Ptr("body of " + title),
		State:         github.Ptr("open"),
		Comments:      github.Ptr(3),
		HTMLURL:       github.Ptr("https://github.com/issue"),
		RepositoryURL: github.Ptr(repoURL),
		User:          &github.User{Login: github.Ptr("octocat")},
		CreatedAt:     &github.Timestamp{Time: testNow.Add(-48 * time.Hour)},
		UpdatedAt:     &github.Timestamp{Time: testNow.Add(-time.Hour)},
	}
	for i, l := range labels {
		gi.Labels = append(gi.Labels, &github.Label{ID: github.Ptr(int64(i + 1)), Name: github.Ptr(l), Color: github.Ptr("7057ff")})
	}
	return gi
}

func makeRepo(owner, name, language string, stars int) *github.Repository {
	return &github.Repository{
		Name:            github.Ptr(name),
		FullName:        github.Ptr(owner + "/" + name),
		Owner:           &github.User{Login: github.Ptr(owner)},
		StargazersCount: github.Ptr(stars),
		ForksCount:      github.Ptr(stars / 10),
		Language:        github.Ptr(language),
		Description:     github.Ptr("a repository"),
		HTMLURL:         github.Ptr("https://github.com/" + owner + "/" + name),
	}
}

func (m *mockGitHub) handleRepo(t *testing.T, repo *github.Repository) {
	m.mux.HandleFunc("GET /repos/"+repo.GetFullName(), func(w http.ResponseWriter, r *http.Request) {
		m.repoLookups.Add(1)
		writeJSON(t, w, http.StatusOK, repo)
	})
}

func (m *mockGitHub) handleSearch(t *testing.T, fn func(query string) (int, any)) {
	m.mux.HandleFunc("GET /search/issues", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		m.lastQuery.Store(q)
		status, body := fn(q)
		writeJSON(t, w, status, body)
	})
}

func searchResult(issues ...*github.Issue) *github.IssuesSearchResult {
	return &github.IssuesSearchResult{
		Total:             github.Ptr(len(issues)),
		IncompleteResults: github.Ptr(false),
		Issues:            issues,
	}
}

func TestSearch(t *testing.T) {
	m := newMockGitHub(t)
	m.handleRepo(t, makeRepo("acme", "widgets", "Go", 4200))

	pr := makeIssue(3, 12, "a pull request", m.repoURL("acme/widgets"))
	pr.PullRequestLinks = &github.PullRequestLinks{URL: github.Ptr("https://api.github.com/pulls/12")}

	m.handleSearch(t, func(string) (int, any) {
		return http.StatusOK, searchResult(
			makeIssue(1, 10, "First", m.repoURL("acme/widgets"), "good first issue"),
			pr,
			makeIssue(2, 11, "Second", m.repoURL("acme/widgets")),
		)
	})

	res, err := m.source().Search(context.Background(), model.SearchParams{Query: "parser", Language: "Go"})
	require.NoError(t, err)

	require.Len(t, res.Issues, 2)
	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, "(parser in:title OR parser in:body OR label:parser) language:Go state:open type:issue", m.lastQuery.Load())
	assert.Equal(t, int32(1), m.repoLookups.Load())

	first := res.Issues[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, 10, first.Number)
	assert.Equal(t, "octocat", first.Author)
	assert.Equal(t, model.IssueStateOpen, first.State)
	assert.Equal(t, []string{"good first issue"}, first.LabelNames())
	assert.Equal(t, 4200, first.Repository.Stars)
	assert.Equal(t, "Go", first.Repository.Language)
	assert.Equal(t, "acme/widgets", first.Repository.FullName)
	assert.True(t, first.UpdatedAt.Equal(testNow.Add(-time.Hour)))
}

func TestSearchRepositorySnapshotsAreReused(t *testing.T) {
	m := newMockGitHub(t)
	m.handleRepo(t, makeRepo("acme", "widgets", "Go", 4200))
	m.handleSearch(t, func(string) (int, any) {
		return http.StatusOK, searchResult(makeIssue(1, 10, "First", m.repoURL("acme/widgets")))
	})

	src := m.source()
	for range 3 {
		_, err := src.Search(context.Background(), model.SearchParams{})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), m.repoLookups.Load())
}

func TestSearchRepositoryLookupFailureDegrades(t *testing.T) {
	m := newMockGitHub(t)
	m.handleSearch(t, func(string) (int, any) {
		return http.StatusOK, searchResult(makeIssue(1, 10, "Orphan", m.repoURL("ghost/gone")))
	})

	res, err := m.source().Search(context.Background(), model.SearchParams{})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)

	repo := res.Issues[0].Repository
	assert.Equal(t, "ghost/gone", repo.FullName)
	assert.Equal(t, "ghost", repo.Owner)
	assert.Equal(t, "gone", repo.Name)
	assert.Equal(t, 0, repo.Stars)
	assert.Equal(t, "https://github.com/ghost/gone", repo.HTMLURL)
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"forbidden is rate limited", http.StatusForbidden, ErrRateLimited},
		{"unprocessable is invalid query", http.StatusUnprocessableEntity, ErrInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockGitHub(t)
			m.handleSearch(t, func(string) (int, any) {
				return tt.status, map[string]string{"message": "nope"}
			})

			_, err := m.source().Search(context.Background(), model.SearchParams{Query: "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPopularFallsBackToHelpWanted(t *testing.T) {
	m := newMockGitHub(t)
	m.handleRepo(t, makeRepo("acme", "widgets", "Go", 4200))

	var mu sync.Mutex
	var queries []string
	m.handleSearch(t, func(q string) (int, any) {
		mu.Lock()
		defer mu.Unlock()
		queries = append(queries, q)
		if len(queries) == 1 {
			return http.StatusOK, searchResult()
		}
		return http.StatusOK, searchResult(
			makeIssue(1, 1, "One", m.repoURL("acme/widgets")),
			makeIssue(2, 2, "Two", m.repoURL("acme/widgets")),
			makeIssue(3, 3, "Three", m.repoURL("acme/widgets")),
		)
	})

	issues, err := m.source().Popular(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, issues, 2)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, queries, 2)
	assert.Contains(t, queries[0], "good first issue in:title")
	assert.Contains(t, queries[1], "help wanted in:title")
}

func TestPopularFallsBackToSamples(t *testing.T) {
	m := newMockGitHub(t)
	m.handleSearch(t, func(string) (int, any) {
		return http.StatusForbidden, map[string]string{"message": "rate limited"}
	})

	issues, err := m.source().Popular(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, MockIssues(7, testNow), issues)
}

func TestMorePopular(t *testing.T) {
	m := newMockGitHub(t)
	m.handleRepo(t, makeRepo("acme", "widgets", "Go", 4200))

	var page, perPage atomic.Value
	m.mux.HandleFunc("GET /search/issues", func(w http.ResponseWriter, r *http.Request) {
		page.Store(r.URL.Query().Get("page"))
		perPage.Store(r.URL.Query().Get("per_page"))
		writeJSON(t, w, http.StatusOK, searchResult(makeIssue(9, 9, "Nine", m.repoURL("acme/widgets"))))
	})

	issues, err := m.source().MorePopular(context.Background(), 3, 20)
	require.NoError(t, err)

	assert.Len(t, issues, 1)
	assert.Equal(t, "3", page.Load())
	assert.Equal(t, "20", perPage.Load())
}

func TestMorePopularErrorIsEmptyPage(t *testing.T) {
	m := newMockGitHub(t)
	m.handleSearch(t, func(string) (int, any) {
		return http.StatusUnprocessableEntity, map[string]string{"message": "bad"}
	})

	issues, err := m.source().MorePopular(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestIssue(t *testing.T) {
	m := newMockGitHub(t)
	m.handleRepo(t, makeRepo("acme", "widgets", "Rust", 15000))
	m.mux.HandleFunc("GET /repos/acme/widgets/issues/42", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, makeIssue(420, 42, "Answer", m.repoURL("acme/widgets"), "bug"))
	})

	issue, err := m.source().Issue(context.Background(), "acme", "widgets", 42)
	require.NoError(t, err)

	assert.Equal(t, 42, issue.Number)
	assert.Equal(t, "Answer", issue.Title)
	assert.Equal(t, 15000, issue.Repository.Stars)
	assert.Equal(t, "Rust", issue.Repository.Language)
	assert.Equal(t, model.IssueRef{Owner: "acme", Repo: "widgets", Number: 42}, issue.Ref())
}

func TestIssueNotFound(t *testing.T) {
	m := newMockGitHub(t)
	m.handleRepo(t, makeRepo("acme", "widgets", "Rust", 15000))

	_, err := m.source().Issue(context.Background(), "acme", "widgets", 404)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewGitHubSourceBaseURL(t *testing.T) {
	m := newMockGitHub(t)
	m.handleRepo(t, makeRepo("acme", "widgets", "Go", 10))
	m.handleSearch(t, func(string) (int, any) {
		return http.StatusOK, searchResult(makeIssue(1, 1, "One", m.repoURL("acme/widgets")))
	})

	src, err := NewGitHubSource(context.Background(), Config{BaseURL: m.server.URL, MaxRetries: 1})
	require.NoError(t, err)

	res, err := src.Search(context.Background(), model.SearchParams{})
	require.NoError(t, err)
	assert.Len(t, res.Issues, 1)
}

func TestRepoFullName(t *testing.T) {
	assert.Equal(t, "acme/widgets", repoFullName("https://api.github.com/repos/acme/widgets"))
	assert.Equal(t, "acme/widgets", repoFullName("https://api.github.com/repos/acme/widgets/"))
	assert.Equal(t, "unknown/unknown", repoFullName(""))
}
