package evaluate

import (
	"errors"
	"fmt"
	"strings"
)

// Rules holds the declarative keyword tables and thresholds used by the engine.
type Rules struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Difficulty  DifficultyRules `json:"difficulty" yaml:"difficulty"`
	Score       ScoreRules      `json:"score" yaml:"score"`
	Tags        TagRules        `json:"tags" yaml:"tags"`
}

// KeywordRule adds Weight to an accumulator once when any keyword matches.
type KeywordRule struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Weight   int      `json:"weight" yaml:"weight"`
}

// LengthRule adds Weight when the body is longer than MinLength characters.
type LengthRule struct {
	MinLength int `json:"minLength" yaml:"minLength"`
	Weight    int `json:"weight" yaml:"weight"`
}

// DifficultyRules drives the difficulty accumulator.
type DifficultyRules struct {
	// Label rules match when any label name contains a keyword.
	Labels []KeywordRule `json:"labels" yaml:"labels"`

	// Title rules match when the title contains a keyword.
	Title []KeywordRule `json:"title" yaml:"title"`

	// Language rules match when the repository language equals a keyword.
	Language []KeywordRule `json:"language" yaml:"language"`

	// BodyLength rules are checked in order; only the first match applies.
	BodyLength []LengthRule `json:"bodyLength" yaml:"bodyLength"`

	// BeginnerMax is the highest accumulator value classified as beginner.
	BeginnerMax int `json:"beginnerMax" yaml:"beginnerMax"`

	// IntermediateMax is the highest accumulator value classified as intermediate.
	IntermediateMax int `json:"intermediateMax" yaml:"intermediateMax"`
}

// BonusRule adds Points to the ranking score once when any keyword matches.
type BonusRule struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Points   float64  `json:"points" yaml:"points"`
}

// ScoreRules drives the ranking score.
type ScoreRules struct {
	// StarThreshold splits the two star weighting regimes.
	StarThreshold int `json:"starThreshold" yaml:"starThreshold"`

	// Below the threshold: min(LowStarCap, log10(stars) * LowStarFactor).
	LowStarFactor float64 `json:"lowStarFactor" yaml:"lowStarFactor"`
	LowStarCap    float64 `json:"lowStarCap" yaml:"lowStarCap"`

	// At or above the threshold: log10(stars) * HighStarFactor.
	HighStarFactor float64 `json:"highStarFactor" yaml:"highStarFactor"`

	// RecencyDays is the maximum recency bonus; it decays one point per day.
	RecencyDays float64 `json:"recencyDays" yaml:"recencyDays"`

	Labels   []BonusRule `json:"labels" yaml:"labels"`
	Language []BonusRule `json:"language" yaml:"language"`
}

// TagRule emits Tag when any label name contains a keyword.
type TagRule struct {
	Tag      string   `json:"tag" yaml:"tag"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// TierRule emits Tag when the repository has more than MinStars stars.
type TierRule struct {
	Tag      string `json:"tag" yaml:"tag"`
	MinStars int    `json:"minStars" yaml:"minStars"`
}

// TagRules drives tag generation.
type TagRules struct {
	Labels []TagRule `json:"labels" yaml:"labels"`

	// Popularity tiers are checked in order; only the first match applies.
	Popularity []TierRule `json:"popularity" yaml:"popularity"`
}

// DefaultRules returns the built-in rule tables.
func DefaultRules() *Rules {
	return &Rules{
		Name:        "default",
		Description: "Built-in difficulty, ranking and tag rules",
		Difficulty: DifficultyRules{
			Labels: []KeywordRule{
				{Name: "beginner", Keywords: []string{"good first issue", "beginner", "easy", "documentation", "help wanted"}, Weight: -2},
				{Name: "intermediate", Keywords: []string{"enhancement", "feature", "refactor", "performance"}, Weight: 1},
				{Name: "advanced", Keywords: []string{"bug", "critical", "security", "architecture", "breaking change"}, Weight: 3},
			},
			Title: []KeywordRule{
				{Name: "complex", Keywords: []string{"refactor", "architecture", "performance", "security", "breaking"}, Weight: 2},
				{Name: "simple", Keywords: []string{"typo", "documentation", "readme", "comment", "example"}, Weight: -1},
			},
			Language: []KeywordRule{
				{Name: "complex", Keywords: []string{"c++", "rust", "assembly", "haskell"}, Weight: 1},
				{Name: "beginner", Keywords: []string{"python", "javascript", "html", "css", "markdown"}, Weight: -1},
			},
			BodyLength: []LengthRule{
				{MinLength: 1000, Weight: 2},
				{MinLength: 500, Weight: 1},
			},
			BeginnerMax:     -1,
			IntermediateMax: 2,
		},
		Score: ScoreRules{
			StarThreshold:  1000,
			LowStarFactor:  5,
			LowStarCap:     15,
			HighStarFactor: 15,
			RecencyDays:    30,
			Labels: []BonusRule{
				{Name: "good", Keywords: []string{"good first issue", "help wanted", "beginner", "documentation"}, Points: 20},
				{Name: "bonus", Keywords: []string{"hacktoberfest", "bounty", "priority"}, Points: 10},
			},
			Language: []BonusRule{
				{Name: "popular", Keywords: []string{"javascript", "python", "java", "typescript", "react", "vue"}, Points: 5},
			},
		},
		Tags: TagRules{
			Labels: []TagRule{
				{Tag: "bug fix", Keywords: []string{"bug"}},
				{Tag: "feature", Keywords: []string{"feature", "enhancement"}},
				{Tag: "documentation", Keywords: []string{"documentation"}},
				{Tag: "testing", Keywords: []string{"test"}},
			},
			Popularity: []TierRule{
				{Tag: "hot project", MinStars: 10000},
				{Tag: "active project", MinStars: 1000},
			},
		},
	}
}

// Validate checks the rule tables for internal consistency.
func (r *Rules) Validate() error {
	var errs []error

	d := r.Difficulty
	if d.BeginnerMax >= d.IntermediateMax {
		errs = append(errs, fmt.Errorf("difficulty.beginnerMax (%d) must be below difficulty.intermediateMax (%d)", d.BeginnerMax, d.IntermediateMax))
	}
	for i := 1; i < len(d.BodyLength); i++ {
		if d.BodyLength[i].MinLength >= d.BodyLength[i-1].MinLength {
			errs = append(errs, fmt.Errorf("difficulty.bodyLength must be ordered by descending minLength"))
			break
		}
	}
	errs = append(errs, checkKeywordRules("difficulty.labels", d.Labels)...)
	errs = append(errs, checkKeywordRules("difficulty.title", d.Title)...)
	errs = append(errs, checkKeywordRules("difficulty.language", d.Language)...)

	s := r.Score
	if s.StarThreshold < 1 {
		errs = append(errs, fmt.Errorf("score.starThreshold must be positive"))
	}
	if s.RecencyDays < 0 {
		errs = append(errs, fmt.Errorf("score.recencyDays must not be negative"))
	}
	for _, b := range append(append([]BonusRule{}, s.Labels...), s.Language...) {
		if len(b.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("score rule %q has no keywords", b.Name))
		}
	}

	for _, t := range r.Tags.Labels {
		if t.Tag == "" || len(t.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("tag rule %q needs a tag and keywords", t.Tag))
		}
	}
	for i := 1; i < len(r.Tags.Popularity); i++ {
		if r.Tags.Popularity[i].MinStars >= r.Tags.Popularity[i-1].MinStars {
			errs = append(errs, fmt.Errorf("tags.popularity must be ordered by descending minStars"))
			break
		}
	}

	return errors.Join(errs...)
}

func checkKeywordRules(section string, rules []KeywordRule) []error {
	var errs []error
	for _, kr := range rules {
		if len(kr.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("%s rule %q has no keywords", section, kr.Name))
		}
		for _, kw := range kr.Keywords {
			if strings.TrimSpace(kw) == "" {
				errs = append(errs, fmt.Errorf("%s rule %q has an empty keyword", section, kr.Name))
				break
			}
		}
	}
	return errs
}
