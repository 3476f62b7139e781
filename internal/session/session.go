// Package session holds the per-client issue browsing state behind the
// HTTP API: the fetched collection, its filtered and recommended views,
// and the current analysis.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/analysis"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/evaluate"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/filter"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/recommend"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/source"
	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// ErrStale is returned when an action finished after a newer action of the
// same kind was started. Its result is discarded.
var ErrStale = errors.New("superseded by a newer request")

const (
	// PopularCount is the number of issues fetched by FetchPopular and Refresh.
	PopularCount = 30
	// MoreCount is the number of issues fetched per LoadMore page.
	MoreCount = 20
)

type actionKind int

// Actions that replace the collection share one kind, so only the most
// recently started of them may commit.
const (
	kindCollection actionKind = iota
	kindMore
	kindAnalysis
)

// Deps are the collaborators a session drives.
type Deps struct {
	Source    source.Source
	Engine    *evaluate.Engine
	Generator analysis.Generator
}

// State is a point-in-time copy of a session.
type State struct {
	Issues      []model.EvaluatedIssue `json:"issues"`
	Filtered    []model.EvaluatedIssue `json:"filtered"`
	Recommended []model.EvaluatedIssue `json:"recommended"`
	Current     *model.EvaluatedIssue  `json:"current,omitempty"`
	Analysis    *model.Analysis        `json:"analysis,omitempty"`
	Filters     model.FilterCriteria   `json:"filters"`
	Params      model.SearchParams     `json:"params"`
	Page        int                    `json:"page"`
	HasMore     bool                   `json:"hasMore"`
}

// Session is the browsing state of one client. Every method is safe for
// concurrent use. Fetching actions run without holding the lock and commit
// their result only if no newer action of the same kind started meanwhile.
// FetchPopular, Refresh and Search count as one kind.
type Session struct {
	ID string

	deps Deps

	mu     sync.Mutex
	state  State
	tokens map[actionKind]ulid.ULID
}

// New creates an empty session.
func New(id string, deps Deps) *Session {
	if deps.Engine == nil {
		deps.Engine = evaluate.NewEngine()
	}
	if deps.Generator == nil {
		deps.Generator = analysis.NewTemplateGenerator()
	}
	return &Session{
		ID:     id,
		deps:   deps,
		state:  State{Page: 1, HasMore: true},
		tokens: make(map[actionKind]ulid.ULID),
	}
}

// NewID returns a new ULID string.
func NewID() string {
	return ulid.Make().String()
}

// begin issues a generation token for kind, superseding any in-flight
// action of that kind.
func (s *Session) begin(kind actionKind) ulid.ULID {
	token := ulid.Make()
	s.mu.Lock()
	s.tokens[kind] = token
	s.mu.Unlock()
	return token
}

// commit applies fn if token is still the latest for kind.
func (s *Session) commit(kind actionKind, token ulid.ULID, fn func(*State)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tokens[kind] != token {
		return State{}, ErrStale
	}
	fn(&s.state)
	return s.snapshotLocked(), nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	st := s.state
	st.Issues = clone(st.Issues)
	st.Filtered = clone(st.Filtered)
	st.Recommended = clone(st.Recommended)
	st.Filters.Labels = append([]string(nil), st.Filters.Labels...)
	if st.Current != nil {
		cur := *st.Current
		st.Current = &cur
	}
	if st.Analysis != nil {
		a := *st.Analysis
		st.Analysis = &a
	}
	return st
}

func clone(issues []model.EvaluatedIssue) []model.EvaluatedIssue {
	if issues == nil {
		return []model.EvaluatedIssue{}
	}
	return append([]model.EvaluatedIssue(nil), issues...)
}

// FetchPopular replaces the collection with the popular issues and resets
// paging and filters.
func (s *Session) FetchPopular(ctx context.Context) (State, error) {
	token := s.begin(kindCollection)

	raw, err := s.deps.Source.Popular(ctx, PopularCount)
	if err != nil {
		return State{}, fmt.Errorf("fetch popular issues: %w", err)
	}
	evaluated := s.deps.Engine.EvaluateAndSort(raw)
	recommended := recommend.Recommended(evaluated, PopularCount)

	return s.commit(kindCollection, token, func(st *State) {
		st.Issues = evaluated
		st.Filtered = evaluated
		st.Recommended = recommended
		st.Filters = model.FilterCriteria{}
		st.Page = 1
		st.HasMore = len(raw) >= PopularCount
		// A page load started before this reset belongs to the old collection.
		delete(s.tokens, kindMore)
	})
}

// Refresh refetches the popular issues. It behaves like FetchPopular.
func (s *Session) Refresh(ctx context.Context) (State, error) {
	return s.FetchPopular(ctx)
}

// LoadMore fetches the next popular page and appends its recommendations.
// It is a no-op once HasMore is false.
func (s *Session) LoadMore(ctx context.Context) (State, error) {
	s.mu.Lock()
	if !s.state.HasMore {
		st := s.snapshotLocked()
		s.mu.Unlock()
		return st, nil
	}
	next := s.state.Page + 1
	s.mu.Unlock()

	token := s.begin(kindMore)

	raw, err := s.deps.Source.MorePopular(ctx, next, MoreCount)
	if err != nil {
		return State{}, fmt.Errorf("load page %d: %w", next, err)
	}
	if len(raw) == 0 {
		return s.commit(kindMore, token, func(st *State) {
			st.HasMore = false
		})
	}

	evaluated := s.deps.Engine.EvaluateAndSort(raw)
	recommended := recommend.Recommended(evaluated, MoreCount)

	return s.commit(kindMore, token, func(st *State) {
		st.Recommended = append(st.Recommended, recommended...)
		st.Page = next
		st.HasMore = len(raw) >= MoreCount
	})
}

// Search replaces the collection with the search results. The filters in
// effect when the results arrive are applied to them.
func (s *Session) Search(ctx context.Context, params model.SearchParams) (State, error) {
	token := s.begin(kindCollection)

	s.mu.Lock()
	s.state.Params = params
	s.mu.Unlock()

	result, err := s.deps.Source.Search(ctx, params)
	if err != nil {
		return State{}, fmt.Errorf("search issues: %w", err)
	}
	evaluated := s.deps.Engine.EvaluateAndSort(result.Issues)

	return s.commit(kindCollection, token, func(st *State) {
		st.Issues = evaluated
		st.Filtered = filter.Apply(evaluated, st.Filters)
		delete(s.tokens, kindMore)
	})
}

// ApplyFilters stores criteria and recomputes the filtered view.
func (s *Session) ApplyFilters(criteria model.FilterCriteria) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Filters = criteria
	s.state.Filtered = filter.Apply(s.state.Issues, criteria)
	return s.snapshotLocked()
}

// ClearFilters removes all criteria.
func (s *Session) ClearFilters() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Filters = model.FilterCriteria{}
	s.state.Filtered = s.state.Issues
	return s.snapshotLocked()
}

// SetCurrent selects an issue and drops the previous analysis.
func (s *Session) SetCurrent(issue model.EvaluatedIssue) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Current = &issue
	s.state.Analysis = nil
	return s.snapshotLocked()
}

// Find returns the issue with the given reference from the session's
// collection or recommendations.
func (s *Session) Find(ref model.IssueRef) (model.EvaluatedIssue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, list := range [][]model.EvaluatedIssue{s.state.Issues, s.state.Recommended} {
		for _, issue := range list {
			if issue.Number == ref.Number && issue.Repository.FullName == ref.Owner+"/"+ref.Repo {
				return issue, true
			}
		}
	}
	return model.EvaluatedIssue{}, false
}

// Analyze selects issue and generates its analysis.
func (s *Session) Analyze(ctx context.Context, issue model.EvaluatedIssue) (State, error) {
	s.SetCurrent(issue)
	token := s.begin(kindAnalysis)

	a, err := s.deps.Generator.Generate(ctx, &issue)
	if err != nil {
		return State{}, fmt.Errorf("analyze %s: %w", issue.Ref(), err)
	}

	return s.commit(kindAnalysis, token, func(st *State) {
		st.Analysis = a
	})
}
