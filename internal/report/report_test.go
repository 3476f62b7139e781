package report

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleIssues() []model.EvaluatedIssue {
	return []model.EvaluatedIssue{
		{
			RawIssue: model.RawIssue{
				ID: 1, Number: 7, Title: "Add dark theme support",
				State: model.IssueStateOpen, UpdatedAt: testTime, Comments: 4,
				HTMLURL:    "https://github.com/acme/ui/issues/7",
				Labels:     []model.Label{{Name: "good first issue"}},
				Repository: model.Repository{FullName: "acme/ui", Stars: 78000, Language: "CSS"},
			},
			Difficulty: model.DifficultyBeginner,
			Score:      118,
			Tags:       []string{"CSS", "beginner", "hot project"},
		},
		{
			RawIssue: model.RawIssue{
				ID: 2, Number: 9, Title: "Crash | on startup",
				State: model.IssueStateOpen, UpdatedAt: testTime,
				HTMLURL:    "https://github.com/acme/core/issues/9",
				Labels:     []model.Label{{Name: "bug"}},
				Repository: model.Repository{FullName: "acme/core", Stars: 120},
			},
			Difficulty: model.DifficultyAdvanced,
			Score:      40,
			Tags:       []string{"advanced", "bug fix"},
		},
	}
}

func sampleList() *model.IssueList {
	minStars := 100
	issues := sampleIssues()
	return &model.IssueList{
		Timestamp: testTime,
		Title:     "Search Results",
		Query:     "theme",
		Criteria:  model.FilterCriteria{Language: "CSS", MinStars: &minStars},
		Total:     5,
		Issues:    issues,
	}
}

func sampleAnalysis() *model.Analysis {
	return &model.Analysis{
		Summary:           "Add a dark palette.",
		TechnicalAnalysis: "CSS variables.",
		Solutions:         []string{"Use prefers-color-scheme", "Add a toggle"},
		EstimatedTime:     "## Effort\n\n**Estimated time**: 1-3 days",
		RequiredSkills:    []string{"CSS", "Git"},
		Priority:          "beginner-friendly",
		Provider:          "template",
	}
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, NewFormatter("json"))
	assert.IsType(t, &MarkdownFormatter{}, NewFormatter("md"))
	assert.IsType(t, &MarkdownFormatter{}, NewFormatter("Markdown"))
	assert.IsType(t, &CSVFormatter{}, NewFormatter("csv"))
	assert.IsType(t, &TableFormatter{}, NewFormatter("table"))
	assert.IsType(t, &TableFormatter{}, NewFormatter("nope"))
}

func TestTableFormatter_IssueList(t *testing.T) {
	f := &TableFormatter{}
	out, err := f.FormatIssueList(sampleList())
	require.NoError(t, err)

	assert.Contains(t, out, "Search Results (2026-03-01T12:00:00Z)")
	assert.Contains(t, out, "Query: theme")
	assert.Contains(t, out, "Filters: language=CSS, stars>=100")
	assert.Contains(t, out, "Issues: 2 of 5")
	assert.Contains(t, out, "acme/ui#7")
	assert.Contains(t, out, "hot project")
	assert.Contains(t, out, "118")
}

func TestTableFormatter_EmptyList(t *testing.T) {
	f := &TableFormatter{}
	out, err := f.FormatIssueList(&model.IssueList{Title: "Recommended", Timestamp: testTime})
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found.")
}

func TestTableFormatter_IssueAndAnalysis(t *testing.T) {
	f := &TableFormatter{}
	issue := &sampleIssues()[0]

	out, err := f.FormatIssue(issue)
	require.NoError(t, err)
	assert.Contains(t, out, "acme/ui#7  Add dark theme support")
	assert.Contains(t, out, "good first issue")
	assert.Contains(t, out, "78000")

	out, err = f.FormatAnalysis(issue, sampleAnalysis())
	require.NoError(t, err)
	assert.Contains(t, out, "Provider: template | Priority: beginner-friendly | Estimated time: Estimated time: 1-3 days")
	assert.Contains(t, out, "Solution 2")
	assert.Contains(t, out, "- CSS\n- Git")
}

func TestJSONFormatter(t *testing.T) {
	f := NewJSONFormatter()

	out, err := f.FormatIssueList(sampleList())
	require.NoError(t, err)
	var list model.IssueList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list.Issues, 2)
	assert.Equal(t, 118, list.Issues[0].Score)

	out, err = f.FormatAnalysis(&sampleIssues()[0], sampleAnalysis())
	require.NoError(t, err)
	assert.Contains(t, out, `"analysis"`)
	assert.Contains(t, out, `"provider": "template"`)
}

func TestMarkdownFormatter(t *testing.T) {
	f := NewMarkdownFormatter()

	out, err := f.FormatIssueList(sampleList())
	require.NoError(t, err)
	assert.Contains(t, out, "# Search Results")
	assert.Contains(t, out, "[acme/ui#7](https://github.com/acme/ui/issues/7)")
	assert.Contains(t, out, `Crash \| on startup`)

	out, err = f.FormatIssue(&sampleIssues()[1])
	require.NoError(t, err)
	assert.Contains(t, out, "(120 stars, -)")

	out, err = f.FormatAnalysis(&sampleIssues()[0], sampleAnalysis())
	require.NoError(t, err)
	assert.Contains(t, out, "## Required Skills\n\n- CSS\n- Git")
}

func TestCSVFormatter(t *testing.T) {
	f := NewCSVFormatter()

	out, err := f.FormatIssueList(sampleList())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Repository", records[0][0])
	assert.Equal(t, []string{"acme/ui", "7", "Add dark theme support", "beginner", "118", "78000", "CSS"}, records[1][:7])
	assert.Equal(t, "CSS;beginner;hot project", records[1][7])

	out, err = f.FormatAnalysis(&sampleIssues()[0], sampleAnalysis())
	require.NoError(t, err)
	records, err = csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Solution2", "Add a toggle"}, records[len(records)-1])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
