package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/evaluate"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/session"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/source"
	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeSource struct{}

func (fakeSource) Search(_ context.Context, params model.SearchParams) (*model.SearchResult, error) {
	switch params.Query {
	case "limited":
		return nil, fmt.Errorf("search: %w", source.ErrRateLimited)
	case "bad":
		return nil, fmt.Errorf("search: %w", source.ErrInvalidQuery)
	}
	issues := source.MockIssues(10, testNow)
	return &model.SearchResult{Issues: issues, TotalCount: len(issues)}, nil
}

func (fakeSource) Popular(_ context.Context, count int) ([]model.RawIssue, error) {
	return source.MockIssues(count, testNow), nil
}

func (fakeSource) MorePopular(_ context.Context, page, count int) ([]model.RawIssue, error) {
	return source.MockIssues(count, testNow), nil
}

func (fakeSource) Issue(_ context.Context, owner, repo string, number int) (*model.RawIssue, error) {
	if number == 404 {
		return nil, source.ErrNotFound
	}
	issue := source.MockIssues(1, testNow)[0]
	issue.Number = number
	issue.Repository.FullName = owner + "/" + repo
	return &issue, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	srv := New(Config{}, session.Deps{
		Source: fakeSource{},
		Engine: evaluate.NewEngine(evaluate.WithClock(func() time.Time { return testNow })),
	})
	return srv.Router()
}

func do(t *testing.T, router *gin.Engine, method, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodGet, "/api/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestPopularAndFilter(t *testing.T) {
	router := newTestRouter()

	w := do(t, router, http.MethodGet, "/api/issues/popular", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(SessionHeader)
	require.NotEmpty(t, id)

	var st session.State
	decode(t, w, &st)
	assert.Len(t, st.Issues, session.PopularCount)

	w = do(t, router, http.MethodPost, "/api/issues/filter", id, map[string]any{"language": "CSS"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, w.Header().Get(SessionHeader))
	decode(t, w, &st)
	assert.Len(t, st.Filtered, 6)

	w = do(t, router, http.MethodPost, "/api/issues/filter", id, map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &st)
	assert.Len(t, st.Filtered, session.PopularCount)
}

func TestFilter_InvalidDifficulty(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodPost, "/api/issues/filter", "", map[string]any{"difficulty": "expert"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"ok", "q=theme&min_stars=50000", http.StatusOK},
		{"rate limited", "q=limited", http.StatusTooManyRequests},
		{"invalid query", "q=bad", http.StatusUnprocessableEntity},
		{"bad page", "q=x&page=two", http.StatusBadRequest},
		{"bad difficulty", "q=x&difficulty=hard", http.StatusBadRequest},
		{"bad date", "q=x&updated_since=yesterday", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodGet, "/api/issues/search?"+tt.query, "", nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				var body map[string]string
				decode(t, w, &body)
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestSearch_AppliesFilters(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodGet, "/api/issues/search?q=theme&min_stars=200000", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var st session.State
	decode(t, w, &st)
	assert.Len(t, st.Issues, 10)
	for _, issue := range st.Filtered {
		assert.GreaterOrEqual(t, issue.Repository.Stars, 200000)
	}
	require.NotNil(t, st.Filters.MinStars)
	assert.Equal(t, 200000, *st.Filters.MinStars)
}

func TestSearch_DifficultyFiltersResults(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"search param", "q=x&difficulty=advanced"},
		{"filter param", "q=x&filter_difficulty=advanced"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestRouter(), http.MethodGet, "/api/issues/search?"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var st session.State
			decode(t, w, &st)
			assert.Len(t, st.Issues, 10)
			assert.Equal(t, model.DifficultyAdvanced, st.Filters.Difficulty)
			for _, issue := range st.Filtered {
				assert.Equal(t, model.DifficultyAdvanced, issue.Difficulty)
			}
		})
	}
}

func TestSearch_DifficultyParamKeepsMatches(t *testing.T) {
	router := newTestRouter()

	w := do(t, router, http.MethodGet, "/api/issues/search?q=x", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all session.State
	decode(t, w, &all)
	require.NotEmpty(t, all.Issues)
	want := all.Issues[0].Difficulty

	w = do(t, router, http.MethodGet, "/api/issues/search?q=x&difficulty="+string(want), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st session.State
	decode(t, w, &st)
	require.NotEmpty(t, st.Filtered)
	for _, issue := range st.Filtered {
		assert.Equal(t, want, issue.Difficulty)
	}
}

func TestRecommended(t *testing.T) {
	router := newTestRouter()
	w := do(t, router, http.MethodGet, "/api/issues/popular", "", nil)
	id := w.Header().Get(SessionHeader)

	w = do(t, router, http.MethodGet, "/api/issues/recommended?limit=5", id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Issues []model.EvaluatedIssue `json:"issues"`
		Total  int                    `json:"total"`
	}
	decode(t, w, &body)
	assert.Len(t, body.Issues, 5)
	assert.Equal(t, 5, body.Total)

	w = do(t, router, http.MethodGet, "/api/issues/recommended?limit=x", id, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIssueAndAnalysis(t *testing.T) {
	router := newTestRouter()

	w := do(t, router, http.MethodGet, "/api/issues/acme/widgets/12", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var issue model.EvaluatedIssue
	decode(t, w, &issue)
	assert.Equal(t, 12, issue.Number)
	assert.NotEmpty(t, issue.Difficulty)
	assert.Contains(t, issue.Tags, string(issue.Difficulty))

	w = do(t, router, http.MethodPost, "/api/issues/acme/widgets/12/analysis", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Issue    model.EvaluatedIssue `json:"issue"`
		Analysis model.Analysis       `json:"analysis"`
	}
	decode(t, w, &body)
	assert.Equal(t, 12, body.Issue.Number)
	assert.Equal(t, "template", body.Analysis.Provider)
	assert.NotEmpty(t, body.Analysis.Summary)

	w = do(t, router, http.MethodGet, "/api/issues/acme/widgets/404", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/issues/acme/widgets/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(fmt.Errorf("search: %w", session.ErrStale)))
	assert.Equal(t, http.StatusTooManyRequests, statusFor(source.ErrRateLimited))
	assert.Equal(t, http.StatusBadRequest, statusFor(invalid("nope")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
