// Package evaluate classifies, scores and tags raw issues.
package evaluate

import (
	"sort"
	"time"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// Engine evaluates raw issues against a set of rules.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	rules *Rules
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules sets the rule tables. A nil value keeps the defaults.
func WithRules(rules *Rules) Option {
	return func(e *Engine) {
		if rules != nil {
			e.rules = rules
		}
	}
}

// WithClock sets the clock used by Evaluate and EvaluateAndSort.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an Engine using DefaultRules unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules: DefaultRules(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the engine's rule tables.
func (e *Engine) Rules() *Rules {
	return e.rules
}

// Evaluate attaches difficulty, score and tags to a single issue.
func (e *Engine) Evaluate(issue model.RawIssue) model.EvaluatedIssue {
	return e.evaluateAt(issue, e.now())
}

func (e *Engine) evaluateAt(issue model.RawIssue, now time.Time) model.EvaluatedIssue {
	difficulty := e.Difficulty(&issue)
	return model.EvaluatedIssue{
		RawIssue:   issue,
		Difficulty: difficulty,
		Score:      e.Score(&issue, now),
		Tags:       e.Tags(&issue, difficulty),
	}
}

// EvaluateAndSort evaluates every issue and orders them by descending score.
// Issues with equal scores keep their input order. The clock is read once
// so every issue in the batch is scored against the same instant.
func (e *Engine) EvaluateAndSort(issues []model.RawIssue) []model.EvaluatedIssue {
	now := e.now()
	result := make([]model.EvaluatedIssue, len(issues))
	for i, issue := range issues {
		result[i] = e.evaluateAt(issue, now)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	return result
}

// Explanation breaks an evaluation down into the rules that fired.
type Explanation struct {
	Difficulty       model.Difficulty `json:"difficulty"`
	DifficultyPoints int              `json:"difficultyPoints"`
	DifficultyTerms  []Contribution   `json:"difficultyTerms"`
	Score            int              `json:"score"`
	ScoreTerms       []Contribution   `json:"scoreTerms"`
	Tags             []string         `json:"tags"`
}

// Explain evaluates an issue and reports each contributing rule.
func (e *Engine) Explain(issue *model.RawIssue) Explanation {
	now := e.now()
	dTerms := e.difficultyTerms(issue)
	points := 0
	for _, t := range dTerms {
		points += int(t.Points)
	}
	difficulty := e.classify(points)
	sTerms := e.scoreTerms(issue, now)

	return Explanation{
		Difficulty:       difficulty,
		DifficultyPoints: points,
		DifficultyTerms:  dTerms,
		Score:            roundTotal(sTerms),
		ScoreTerms:       sTerms,
		Tags:             e.Tags(issue, difficulty),
	}
}

var defaultEngine = NewEngine()

// EvaluateAndSort evaluates issues with the default rules and the wall clock.
func EvaluateAndSort(issues []model.RawIssue) []model.EvaluatedIssue {
	return defaultEngine.EvaluateAndSort(issues)
}

// Evaluate evaluates one issue with the default rules and the wall clock.
func Evaluate(issue model.RawIssue) model.EvaluatedIssue {
	return defaultEngine.Evaluate(issue)
}

// Difficulty classifies an issue with the default rules.
func Difficulty(issue *model.RawIssue) model.Difficulty {
	return defaultEngine.Difficulty(issue)
}

// Score ranks an issue with the default rules as of now.
func Score(issue *model.RawIssue, now time.Time) int {
	return defaultEngine.Score(issue, now)
}

// Tags derives display tags with the default rules.
func Tags(issue *model.RawIssue, difficulty model.Difficulty) []string {
	return defaultEngine.Tags(issue, difficulty)
}
