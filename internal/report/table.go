package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/output"
	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// TableFormatter formats results as text tables.
type TableFormatter struct {
	// Color enables lipgloss styling of headers and difficulty badges.
	Color bool
}

// NewTableFormatter creates a new table formatter. Color follows the
// global output setting.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{Color: !output.IsNoColor()}
}

func (f *TableFormatter) header(s string) string {
	if f.Color {
		return output.StyleHeader.Render(s)
	}
	return s
}

func (f *TableFormatter) difficulty(d model.Difficulty) string {
	if f.Color {
		return output.DifficultyBadge(d)
	}
	return string(d)
}

func newTable(sb *strings.Builder, headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(sb,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

// FormatIssueList formats a ranked issue list as a text table.
func (f *TableFormatter) FormatIssueList(list *model.IssueList) (string, error) {
	var sb strings.Builder

	sb.WriteString(f.header(list.Title))
	sb.WriteString(fmt.Sprintf(" (%s)\n", list.Timestamp.Format(time.RFC3339)))
	if list.Query != "" {
		sb.WriteString(fmt.Sprintf("Query: %s\n", list.Query))
	}
	if c := describeCriteria(list.Criteria); c != "" {
		sb.WriteString(fmt.Sprintf("Filters: %s\n", c))
	}
	sb.WriteString(fmt.Sprintf("Issues: %d of %d\n", len(list.Issues), list.Total))
	sb.WriteString(strings.Repeat("-", 100) + "\n")

	if len(list.Issues) == 0 {
		sb.WriteString("No issues found.\n")
		return sb.String(), nil
	}

	table := newTable(&sb, []string{"#", "ISSUE", "TITLE", "DIFFICULTY", "SCORE", "STARS", "LANGUAGE", "TAGS"})
	for i := range list.Issues {
		issue := &list.Issues[i]
		if err := table.Append([]string{
			fmt.Sprintf("%d", i+1),
			truncate(issue.Ref().String(), 35),
			truncate(issue.Title, 45),
			f.difficulty(issue.Difficulty),
			fmt.Sprintf("%d", issue.Score),
			fmt.Sprintf("%d", issue.Repository.Stars),
			issue.Repository.Language,
			strings.Join(issue.Tags, ", "),
		}); err != nil {
			return "", err
		}
	}
	if err := table.Render(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// FormatIssue formats a single issue as a key/value block.
func (f *TableFormatter) FormatIssue(issue *model.EvaluatedIssue) (string, error) {
	var sb strings.Builder

	sb.WriteString(f.header(fmt.Sprintf("%s  %s", issue.Ref(), issue.Title)))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	table := newTable(&sb, []string{"FIELD", "VALUE"})
	rows := [][]string{
		{"Difficulty", f.difficulty(issue.Difficulty)},
		{"Score", fmt.Sprintf("%d", issue.Score)},
		{"Tags", strings.Join(issue.Tags, ", ")},
		{"Labels", strings.Join(labelNames(issue), ", ")},
		{"State", string(issue.State)},
		{"Author", issue.Author},
		{"Comments", fmt.Sprintf("%d", issue.Comments)},
		{"Created", issue.CreatedAt.Format(time.RFC3339)},
		{"Updated", issue.UpdatedAt.Format(time.RFC3339)},
		{"Repository", issue.Repository.FullName},
		{"Stars", fmt.Sprintf("%d", issue.Repository.Stars)},
		{"Language", issue.Repository.Language},
		{"URL", issue.HTMLURL},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return "", err
		}
	}
	if err := table.Render(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// FormatAnalysis formats an analysis report as plain sections.
func (f *TableFormatter) FormatAnalysis(issue *model.EvaluatedIssue, a *model.Analysis) (string, error) {
	var sb strings.Builder

	sb.WriteString(f.header(fmt.Sprintf("Analysis of %s  %s", issue.Ref(), issue.Title)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Provider: %s | Priority: %s | Estimated time: %s\n",
		a.Provider, a.Priority, firstLine(a.EstimatedTime)))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	section := func(title, body string) {
		if body == "" {
			return
		}
		sb.WriteString("\n" + f.header(title) + "\n\n")
		sb.WriteString(strings.TrimSpace(body) + "\n")
	}

	section("Summary", a.Summary)
	section("Technical analysis", a.TechnicalAnalysis)
	for i, s := range a.Solutions {
		section(fmt.Sprintf("Solution %d", i+1), s)
	}
	section("Estimate", a.EstimatedTime)
	if len(a.RequiredSkills) > 0 {
		section("Required skills", "- "+strings.Join(a.RequiredSkills, "\n- "))
	}

	return sb.String(), nil
}

// firstLine returns the first non-heading line of a markdown block.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return strings.ReplaceAll(line, "**", "")
	}
	return ""
}
