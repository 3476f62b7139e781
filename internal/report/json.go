package report

import (
	"encoding/json"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	Indent bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{Indent: true}
}

// FormatIssueList formats an issue list as JSON.
func (f *JSONFormatter) FormatIssueList(list *model.IssueList) (string, error) {
	return f.marshal(list)
}

// FormatIssue formats a single issue as JSON.
func (f *JSONFormatter) FormatIssue(issue *model.EvaluatedIssue) (string, error) {
	return f.marshal(issue)
}

// FormatAnalysis formats an analysis together with its issue as JSON.
func (f *JSONFormatter) FormatAnalysis(issue *model.EvaluatedIssue, a *model.Analysis) (string, error) {
	return f.marshal(struct {
		Issue    *model.EvaluatedIssue `json:"issue"`
		Analysis *model.Analysis       `json:"analysis"`
	}{issue, a})
}

func (f *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if f.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}
