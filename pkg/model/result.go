package model

import "time"

// IssueList contains a list of evaluated issues ready for formatting.
type IssueList struct {
	Timestamp time.Time        `json:"timestamp"`
	Title     string           `json:"title"`
	Query     string           `json:"query,omitempty"`
	Criteria  FilterCriteria   `json:"criteria,omitempty"`
	Total     int              `json:"total"`
	Issues    []EvaluatedIssue `json:"issues"`
}

// Analysis is a structured analysis report for a single issue.
// Text fields may contain markdown.
type Analysis struct {
	Summary           string   `json:"summary" jsonschema_description:"Short summary of the core problem"`
	TechnicalAnalysis string   `json:"technicalAnalysis" jsonschema_description:"Tech stack, likely causes and complexity"`
	Solutions         []string `json:"solutions" jsonschema_description:"Two or three candidate solution plans, each with an implementation outline"`
	EstimatedTime     string   `json:"estimatedTime" jsonschema_description:"Estimated effort to resolve the issue"`
	RequiredSkills    []string `json:"requiredSkills" jsonschema_description:"Skills needed to resolve the issue"`
	Priority          string   `json:"priority" jsonschema_description:"Suggested priority: high, medium, moderate, normal or beginner-friendly"`

	// Provider names the generator that produced the report.
	Provider string `json:"provider,omitempty" jsonschema:"-"`
}
