package source

import (
	"fmt"
	"time"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

type sampleIssue struct {
	title    string
	body     string
	author   string
	label    model.Label
	comments int
	age      time.Duration
	repo     model.Repository
}

// Every sample repository has well over 1000 stars.
var sampleIssues = []sampleIssue{
	{
		title:    "Add new UI component support",
		body:     "We need a new button component to improve the user experience, with support for multiple themes and sizes.",
		author:   "reactdev",
		label:    model.Label{ID: 1, Name: "good first issue", Color: "7057ff"},
		comments: 8,
		age:      time.Hour,
		repo: model.Repository{
			Name:        "react",
			FullName:    "facebook/react",
			Stars:       220000,
			Forks:       45000,
			Language:    "JavaScript",
			Description: "A declarative, efficient, and flexible JavaScript library for building user interfaces.",
			HTMLURL:     "https://github.com/facebook/react",
			Owner:       "facebook",
		},
	},
	{
		title:    "Improve TypeScript type definitions",
		body:     "The new APIs need more accurate TypeScript type definitions.",
		author:   "vscodedev",
		label:    model.Label{ID: 2, Name: "good first issue", Color: "0e8a16"},
		comments: 12,
		age:      2 * time.Hour,
		repo: model.Repository{
			Name:        "vscode",
			FullName:    "microsoft/vscode",
			Stars:       158000,
			Forks:       28000,
			Language:    "TypeScript",
			Description: "Visual Studio Code",
			HTMLURL:     "https://github.com/microsoft/vscode",
			Owner:       "microsoft",
		},
	},
	{
		title:    "Optimize build performance",
		body:     "The build is slow; the webpack configuration needs tuning to speed up development.",
		author:   "vuedev",
		label:    model.Label{ID: 3, Name: "good first issue", Color: "fbca04"},
		comments: 6,
		age:      3 * time.Hour,
		repo: model.Repository{
			Name:        "vue",
			FullName:    "vuejs/vue",
			Stars:       206000,
			Forks:       33000,
			Language:    "JavaScript",
			Description: "Vue.js is a progressive, incrementally-adoptable JavaScript framework.",
			HTMLURL:     "https://github.com/vuejs/vue",
			Owner:       "vuejs",
		},
	},
	{
		title:    "Add dark theme support",
		body:     "Users have asked for a dark theme to make the app more comfortable to use at night.",
		author:   "tailwinddev",
		label:    model.Label{ID: 4, Name: "good first issue", Color: "f9d71c"},
		comments: 15,
		age:      4 * time.Hour,
		repo: model.Repository{
			Name:        "tailwindcss",
			FullName:    "tailwindlabs/tailwindcss",
			Stars:       78000,
			Forks:       3900,
			Language:    "CSS",
			Description: "A utility-first CSS framework for rapid UI development.",
			HTMLURL:     "https://github.com/tailwindlabs/tailwindcss",
			Owner:       "tailwindlabs",
		},
	},
	{
		title:    "Improve documentation examples",
		body:     "Some example code in the docs is out of date and should reflect the latest API changes.",
		author:   "nodedev",
		label:    model.Label{ID: 5, Name: "good first issue", Color: "d73a4a"},
		comments: 9,
		age:      5 * time.Hour,
		repo: model.Repository{
			Name:        "node",
			FullName:    "nodejs/node",
			Stars:       104000,
			Forks:       28500,
			Language:    "JavaScript",
			Description: "Node.js JavaScript runtime",
			HTMLURL:     "https://github.com/nodejs/node",
			Owner:       "nodejs",
		},
	},
}

// MockIssues returns count sample issues cycled from a fixed set of popular
// repositories. Each copy gets a distinct ID, number and title suffix.
// Timestamps are relative to now.
func MockIssues(count int, now time.Time) []model.RawIssue {
	if count <= 0 {
		return []model.RawIssue{}
	}

	issues := make([]model.RawIssue, 0, count)
	for i := range count {
		base := sampleIssues[i%len(sampleIssues)]
		number := 100 + i
		issues = append(issues, model.RawIssue{
			ID:         int64(i + 1),
			Number:     number,
			Title:      fmt.Sprintf("%s #%d", base.title, i+1),
			Body:       base.body,
			State:      model.IssueStateOpen,
			CreatedAt:  now.Add(-base.age * 24),
			UpdatedAt:  now.Add(-base.age),
			Comments:   base.comments,
			Author:     base.author,
			HTMLURL:    fmt.Sprintf("%s/issues/%d", base.repo.HTMLURL, number),
			Labels:     []model.Label{base.label},
			Repository: base.repo,
		})
	}
	return issues
}
