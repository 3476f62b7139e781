// Package filter narrows evaluated issues down to user-selected criteria.
package filter

import (
	"strings"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// Apply returns the issues that satisfy every constrained dimension of the
// criteria, in input order. The input slice is never modified.
func Apply(issues []model.EvaluatedIssue, criteria model.FilterCriteria) []model.EvaluatedIssue {
	result := make([]model.EvaluatedIssue, 0, len(issues))
	for i := range issues {
		if Matches(&issues[i], criteria) {
			result = append(result, issues[i])
		}
	}
	return result
}

// Matches reports whether a single issue satisfies the criteria.
func Matches(issue *model.EvaluatedIssue, criteria model.FilterCriteria) bool {
	if criteria.Difficulty != "" && issue.Difficulty != criteria.Difficulty {
		return false
	}

	if criteria.Language != "" && !strings.EqualFold(issue.Repository.Language, criteria.Language) {
		return false
	}

	stars := issue.Repository.Stars
	if criteria.MinStars != nil && stars < *criteria.MinStars {
		return false
	}
	if criteria.MaxStars != nil && stars > *criteria.MaxStars {
		return false
	}

	if criteria.UpdatedSince != nil && issue.UpdatedAt.Before(*criteria.UpdatedSince) {
		return false
	}

	if len(criteria.Labels) > 0 && !matchesAnyLabel(issue.LabelNames(), criteria.Labels) {
		return false
	}

	return true
}

func matchesAnyLabel(issueLabels, wanted []string) bool {
	for _, w := range wanted {
		w = strings.ToLower(w)
		for _, l := range issueLabels {
			if strings.Contains(l, w) {
				return true
			}
		}
	}
	return false
}
