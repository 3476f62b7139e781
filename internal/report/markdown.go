package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// MarkdownFormatter formats results as Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new Markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// FormatIssueList formats an issue list as a Markdown table.
func (f *MarkdownFormatter) FormatIssueList(list *model.IssueList) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", list.Title))
	sb.WriteString(fmt.Sprintf("**Time:** %s\n\n", list.Timestamp.Format(time.RFC3339)))
	if list.Query != "" {
		sb.WriteString(fmt.Sprintf("**Query:** `%s`\n\n", list.Query))
	}
	if c := describeCriteria(list.Criteria); c != "" {
		sb.WriteString(fmt.Sprintf("**Filters:** %s\n\n", c))
	}
	sb.WriteString(fmt.Sprintf("**Issues:** %d of %d\n\n", len(list.Issues), list.Total))

	if len(list.Issues) == 0 {
		sb.WriteString("No issues found.\n")
		return sb.String(), nil
	}

	sb.WriteString("| # | Issue | Title | Difficulty | Score | Stars | Language | Tags |\n")
	sb.WriteString("|---|-------|-------|------------|-------|-------|----------|------|\n")
	for i := range list.Issues {
		issue := &list.Issues[i]
		sb.WriteString(fmt.Sprintf("| %d | [%s](%s) | %s | %s | %d | %d | %s | %s |\n",
			i+1,
			issue.Ref(),
			issue.HTMLURL,
			escapeCell(truncate(issue.Title, 60)),
			issue.Difficulty,
			issue.Score,
			issue.Repository.Stars,
			issue.Repository.Language,
			strings.Join(issue.Tags, ", "),
		))
	}

	return sb.String(), nil
}

// FormatIssue formats a single issue as Markdown.
func (f *MarkdownFormatter) FormatIssue(issue *model.EvaluatedIssue) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# [%s](%s): %s\n\n", issue.Ref(), issue.HTMLURL, issue.Title))
	sb.WriteString(fmt.Sprintf("**Difficulty:** %s | **Score:** %d\n\n", issue.Difficulty, issue.Score))
	if len(issue.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("**Tags:** %s\n\n", strings.Join(issue.Tags, ", ")))
	}
	if labels := labelNames(issue); len(labels) > 0 {
		sb.WriteString(fmt.Sprintf("**Labels:** %s\n\n", strings.Join(labels, ", ")))
	}
	sb.WriteString(fmt.Sprintf("**Repository:** %s (%d stars, %s)\n\n",
		issue.Repository.FullName, issue.Repository.Stars, orDash(issue.Repository.Language)))
	sb.WriteString(fmt.Sprintf("**Updated:** %s | **Comments:** %d\n\n",
		issue.UpdatedAt.Format(time.RFC3339), issue.Comments))

	if body := strings.TrimSpace(issue.Body); body != "" {
		sb.WriteString("## Description\n\n")
		sb.WriteString(body + "\n")
	}

	return sb.String(), nil
}

// FormatAnalysis formats an analysis report as Markdown.
func (f *MarkdownFormatter) FormatAnalysis(issue *model.EvaluatedIssue, a *model.Analysis) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Analysis: [%s](%s)\n\n", issue.Ref(), issue.HTMLURL))
	sb.WriteString(fmt.Sprintf("**%s**\n\n", issue.Title))
	sb.WriteString(fmt.Sprintf("**Priority:** %s | **Provider:** %s\n\n", a.Priority, a.Provider))

	sb.WriteString("## Summary\n\n" + strings.TrimSpace(a.Summary) + "\n\n")
	sb.WriteString("## Technical Analysis\n\n" + strings.TrimSpace(a.TechnicalAnalysis) + "\n\n")

	if len(a.Solutions) > 0 {
		sb.WriteString("## Solutions\n\n")
		for _, s := range a.Solutions {
			sb.WriteString(strings.TrimSpace(s) + "\n\n")
		}
	}

	sb.WriteString("## Estimated Time\n\n" + strings.TrimSpace(a.EstimatedTime) + "\n\n")

	if len(a.RequiredSkills) > 0 {
		sb.WriteString("## Required Skills\n\n")
		for _, s := range a.RequiredSkills {
			sb.WriteString("- " + s + "\n")
		}
	}

	return sb.String(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
