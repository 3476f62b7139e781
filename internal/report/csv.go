package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// CSVFormatter formats results as CSV.
type CSVFormatter struct{}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

var issueHeader = []string{"Repository", "Number", "Title", "Difficulty", "Score", "Stars", "Language", "Tags", "Labels", "Comments", "Updated", "URL"}

func issueRow(issue *model.EvaluatedIssue) []string {
	return []string{
		issue.Repository.FullName,
		fmt.Sprintf("%d", issue.Number),
		issue.Title,
		string(issue.Difficulty),
		fmt.Sprintf("%d", issue.Score),
		fmt.Sprintf("%d", issue.Repository.Stars),
		issue.Repository.Language,
		strings.Join(issue.Tags, ";"),
		strings.Join(labelNames(issue), ";"),
		fmt.Sprintf("%d", issue.Comments),
		issue.UpdatedAt.Format(time.RFC3339),
		issue.HTMLURL,
	}
}

// FormatIssueList formats an issue list as CSV, one row per issue.
func (f *CSVFormatter) FormatIssueList(list *model.IssueList) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(issueHeader); err != nil {
		return "", err
	}
	for i := range list.Issues {
		if err := w.Write(issueRow(&list.Issues[i])); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// FormatIssue formats a single issue as a one-row CSV.
func (f *CSVFormatter) FormatIssue(issue *model.EvaluatedIssue) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(issueHeader); err != nil {
		return "", err
	}
	if err := w.Write(issueRow(issue)); err != nil {
		return "", err
	}

	w.Flush()
	return buf.String(), w.Error()
}

// FormatAnalysis formats an analysis as field/value rows.
func (f *CSVFormatter) FormatAnalysis(issue *model.EvaluatedIssue, a *model.Analysis) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Field", "Value"},
		{"Issue", issue.Ref().String()},
		{"Provider", a.Provider},
		{"Priority", a.Priority},
		{"Summary", a.Summary},
		{"TechnicalAnalysis", a.TechnicalAnalysis},
		{"EstimatedTime", a.EstimatedTime},
		{"RequiredSkills", strings.Join(a.RequiredSkills, ";")},
	}
	for i, s := range a.Solutions {
		rows = append(rows, []string{fmt.Sprintf("Solution%d", i+1), s})
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}
