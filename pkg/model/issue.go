package model

import (
	"strings"
	"time"
)

// IssueState is the open/closed state of a GitHub issue.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// RawIssue is an issue record as supplied by an issue source, before evaluation.
type RawIssue struct {
	ID         int64      `json:"id"`
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	Body       string     `json:"body,omitempty"`
	State      IssueState `json:"state"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Comments   int        `json:"comments"`
	Author     string     `json:"author"`
	HTMLURL    string     `json:"htmlUrl"`
	Labels     []Label    `json:"labels,omitempty"`
	Repository Repository `json:"repository"`
}

// Label is a GitHub issue label.
type Label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // 6 hex digits, no leading '#'
}

// LabelNames returns the lower-cased label names in order.
func (i *RawIssue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, strings.ToLower(l.Name))
	}
	return names
}

// Ref returns the owner/repo#number reference for the issue.
func (i *RawIssue) Ref() IssueRef {
	ref := ParseRepoRef(i.Repository.FullName)
	return IssueRef{Owner: ref.Owner, Repo: ref.Name, Number: i.Number}
}

// Difficulty is the estimated effort class of an issue.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Difficulties lists all difficulty classes from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// Valid reports whether d is one of the known difficulty classes.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// ParseDifficulty parses a difficulty name case-insensitively.
// The empty string parses to the empty Difficulty, meaning "unset".
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return "", true
	}
	return d, d.Valid()
}

// EvaluatedIssue is a RawIssue with the engine-computed difficulty, score and tags attached.
type EvaluatedIssue struct {
	RawIssue
	Difficulty Difficulty `json:"difficulty"`
	Score      int        `json:"score"`
	Tags       []string   `json:"tags"`
}
