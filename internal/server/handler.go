package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/recommend"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/session"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/source"
	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// badRequest marks an error caused by invalid client input.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func invalid(format string, a ...any) error {
	return badRequest{fmt.Errorf(format, a...)}
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, source.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, source.ErrInvalidQuery):
		return http.StatusUnprocessableEntity
	case errors.Is(err, source.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrStale):
		return http.StatusConflict
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "error", err)
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func (s *Server) popular(c *gin.Context) {
	sess := sessionFrom(c)

	var (
		st  session.State
		err error
	)
	if c.Query("refresh") == "true" {
		st, err = sess.Refresh(c.Request.Context())
	} else {
		st, err = sess.FetchPopular(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) more(c *gin.Context) {
	st, err := sessionFrom(c).LoadMore(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) search(c *gin.Context) {
	params, err := searchParamsFrom(c)
	if err != nil {
		writeError(c, err)
		return
	}
	criteria, err := criteriaFrom(c)
	if err != nil {
		writeError(c, err)
		return
	}
	// The search qualifiers cannot express difficulty, so it is applied
	// after evaluation.
	if criteria.Difficulty == "" {
		criteria.Difficulty = params.Difficulty
	}

	sess := sessionFrom(c)
	if !criteria.IsEmpty() {
		sess.ApplyFilters(criteria)
	}

	st, err := sess.Search(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) filter(c *gin.Context) {
	var criteria model.FilterCriteria
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&criteria); err != nil {
			writeError(c, invalid("invalid filter body: %w", err))
			return
		}
	}
	if criteria.Difficulty != "" && !criteria.Difficulty.Valid() {
		writeError(c, invalid("invalid difficulty %q", criteria.Difficulty))
		return
	}

	sess := sessionFrom(c)
	if criteria.IsEmpty() {
		c.JSON(http.StatusOK, sess.ClearFilters())
		return
	}
	c.JSON(http.StatusOK, sess.ApplyFilters(criteria))
}

func (s *Server) recommended(c *gin.Context) {
	st := sessionFrom(c).Snapshot()

	issues := st.Recommended
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, invalid("invalid limit %q", raw))
			return
		}
		issues = recommend.Recommended(st.Issues, limit)
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues, "total": len(issues)})
}

func (s *Server) issue(c *gin.Context) {
	issue, err := s.resolve(c)
	if err != nil {
		writeError(c, err)
		return
	}
	sessionFrom(c).SetCurrent(issue)
	c.JSON(http.StatusOK, issue)
}

func (s *Server) analyze(c *gin.Context) {
	issue, err := s.resolve(c)
	if err != nil {
		writeError(c, err)
		return
	}

	st, err := sessionFrom(c).Analyze(c.Request.Context(), issue)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"issue": st.Current, "analysis": st.Analysis})
}

// resolve finds the issue named by the path in the session, or fetches and
// evaluates it.
func (s *Server) resolve(c *gin.Context) (model.EvaluatedIssue, error) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		return model.EvaluatedIssue{}, invalid("invalid issue number %q", c.Param("number"))
	}
	ref := model.IssueRef{Owner: c.Param("owner"), Repo: c.Param("repo"), Number: number}

	if issue, ok := sessionFrom(c).Find(ref); ok {
		return issue, nil
	}

	raw, err := s.source.Issue(c.Request.Context(), ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return model.EvaluatedIssue{}, fmt.Errorf("get %s: %w", ref, err)
	}
	return s.engine.Evaluate(*raw), nil
}

func searchParamsFrom(c *gin.Context) (model.SearchParams, error) {
	params := model.SearchParams{
		Query:      c.Query("q"),
		Repository: c.Query("repo"),
		Labels:     c.Query("labels"),
		Language:   c.Query("language"),
		Sort:       model.SearchSort(c.Query("sort")),
		Order:      c.Query("order"),
	}

	if d := c.Query("difficulty"); d != "" {
		diff, ok := model.ParseDifficulty(d)
		if !ok {
			return params, invalid("invalid difficulty %q", d)
		}
		params.Difficulty = diff
	}

	var err error
	if params.Page, err = intQuery(c, "page"); err != nil {
		return params, err
	}
	if params.PerPage, err = intQuery(c, "per_page"); err != nil {
		return params, err
	}
	return params, nil
}

// criteriaFrom reads the post-fetch filter dimensions from the query string.
func criteriaFrom(c *gin.Context) (model.FilterCriteria, error) {
	var criteria model.FilterCriteria

	if d := c.Query("filter_difficulty"); d != "" {
		diff, ok := model.ParseDifficulty(d)
		if !ok {
			return criteria, invalid("invalid difficulty %q", d)
		}
		criteria.Difficulty = diff
	}
	criteria.Language = c.Query("filter_language")

	for _, key := range []string{"min_stars", "max_stars"} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, invalid("invalid %s %q", key, raw)
		}
		if key == "min_stars" {
			criteria.MinStars = &n
		} else {
			criteria.MaxStars = &n
		}
	}

	if raw := c.Query("updated_since"); raw != "" {
		t, err := model.ParseDate(raw)
		if err != nil {
			return criteria, invalid("invalid updated_since %q", raw)
		}
		criteria.UpdatedSince = &t
	}

	for _, l := range c.QueryArray("label") {
		if l = strings.TrimSpace(l); l != "" {
			criteria.Labels = append(criteria.Labels, l)
		}
	}
	return criteria, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid("invalid %s %q", key, raw)
	}
	return n, nil
}
