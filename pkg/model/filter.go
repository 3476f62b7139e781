package model

import "time"

// FilterCriteria defines optional constraints for filtering evaluated issues.
// A nil or empty field imposes no constraint on that dimension.
type FilterCriteria struct {
	Difficulty   Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Language     string     `json:"language,omitempty" yaml:"language,omitempty"`
	MinStars     *int       `json:"minStars,omitempty" yaml:"minStars,omitempty"`
	MaxStars     *int       `json:"maxStars,omitempty" yaml:"maxStars,omitempty"`
	UpdatedSince *time.Time `json:"updatedSince,omitempty" yaml:"updatedSince,omitempty"`
	Labels       []string   `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// IsEmpty reports whether no dimension is constrained.
func (c FilterCriteria) IsEmpty() bool {
	return c.Difficulty == "" &&
		c.Language == "" &&
		c.MinStars == nil &&
		c.MaxStars == nil &&
		c.UpdatedSince == nil &&
		len(c.Labels) == 0
}

// SearchSort is the GitHub search sort field.
type SearchSort string

const (
	SortCreated  SearchSort = "created"
	SortUpdated  SearchSort = "updated"
	SortComments SearchSort = "comments"
)

// SearchParams describes an issue search request to an issue source.
type SearchParams struct {
	Query      string     `json:"query,omitempty"`
	Repository string     `json:"repository,omitempty"` // owner/repo
	Labels     string     `json:"labels,omitempty"`
	Language   string     `json:"language,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Sort       SearchSort `json:"sort,omitempty"`
	Order      string     `json:"order,omitempty"` // asc, desc
	Page       int        `json:"page,omitempty"`
	PerPage    int        `json:"perPage,omitempty"`
}

// SearchResult is a page of raw issues returned by an issue source.
type SearchResult struct {
	Issues            []RawIssue `json:"issues"`
	TotalCount        int        `json:"totalCount"`
	IncompleteResults bool       `json:"incompleteResults"`
}

// ParseDate parses an RFC 3339 timestamp or a plain YYYY-MM-DD date, as
// accepted for UpdatedSince.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
