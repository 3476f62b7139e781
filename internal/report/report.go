// Package report renders issue lists, single issues and analysis reports.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// Formatter defines the interface for formatting results.
type Formatter interface {
	// FormatIssueList formats a ranked list of evaluated issues.
	FormatIssueList(list *model.IssueList) (string, error)

	// FormatIssue formats a single evaluated issue.
	FormatIssue(issue *model.EvaluatedIssue) (string, error)

	// FormatAnalysis formats an analysis report for an issue.
	FormatAnalysis(issue *model.EvaluatedIssue, analysis *model.Analysis) (string, error)
}

// Formats lists the supported output format names.
func Formats() []string {
	return []string{"table", "json", "markdown", "csv"}
}

// NewFormatter returns the formatter for name. Unknown names get a table.
func NewFormatter(name string) Formatter {
	switch strings.ToLower(name) {
	case "json":
		return NewJSONFormatter()
	case "markdown", "md":
		return NewMarkdownFormatter()
	case "csv":
		return NewCSVFormatter()
	default:
		return NewTableFormatter()
	}
}

// describeCriteria renders the non-empty filter dimensions.
func describeCriteria(c model.FilterCriteria) string {
	var parts []string
	if c.Difficulty != "" {
		parts = append(parts, "difficulty="+string(c.Difficulty))
	}
	if c.Language != "" {
		parts = append(parts, "language="+c.Language)
	}
	if c.MinStars != nil {
		parts = append(parts, fmt.Sprintf("stars>=%d", *c.MinStars))
	}
	if c.MaxStars != nil {
		parts = append(parts, fmt.Sprintf("stars<=%d", *c.MaxStars))
	}
	if c.UpdatedSince != nil {
		parts = append(parts, "updated>="+c.UpdatedSince.Format(time.DateOnly))
	}
	if len(c.Labels) > 0 {
		parts = append(parts, "labels="+strings.Join(c.Labels, "|"))
	}
	return strings.Join(parts, ", ")
}

func labelNames(issue *model.EvaluatedIssue) []string {
	names := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		names = append(names, l.Name)
	}
	return names
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
