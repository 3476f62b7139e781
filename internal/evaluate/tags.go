package evaluate

import "github.com/Weichenleeeee123/AI-issues-finder/pkg/model"

// Tags returns the display tags for an issue with the given difficulty.
// Order: language, difficulty, label categories, popularity tier.
func (e *Engine) Tags(issue *model.RawIssue, difficulty model.Difficulty) []string {
	var tags []string
	if issue.Repository.Language != "" {
		tags = append(tags, issue.Repository.Language)
	}
	tags = append(tags, string(difficulty))

	labels := issue.LabelNames()
	for _, r := range e.rules.Tags.Labels {
		if anyLabelContains(labels, r.Keywords) {
			tags = append(tags, r.Tag)
		}
	}

	for _, tier := range e.rules.Tags.Popularity {
		if issue.Repository.Stars > tier.MinStars {
			tags = append(tags, tier.Tag)
			break
		}
	}

	return tags
}
