package evaluate

import (
	"math"
	"time"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

func (e *Engine) scoreTerms(issue *model.RawIssue, now time.Time) []Contribution {
	s := e.rules.Score
	terms := make([]Contribution, 0, 5)

	stars := issue.Repository.Stars
	logStars := math.Log10(float64(max(stars, 1)))
	if stars < s.StarThreshold {
		terms = append(terms, Contribution{Rule: "stars", Points: math.Min(s.LowStarCap, logStars*s.LowStarFactor)})
	} else {
		terms = append(terms, Contribution{Rule: "stars", Points: logStars * s.HighStarFactor})
	}

	// Updates stamped in the future count as made right now.
	days := math.Max(0, now.Sub(issue.UpdatedAt).Hours()/24)
	terms = append(terms, Contribution{Rule: "recency", Points: math.Max(0, s.RecencyDays-days)})

	labels := issue.LabelNames()
	for _, b := range s.Labels {
		if anyLabelContains(labels, b.Keywords) {
			terms = append(terms, Contribution{Rule: "label:" + b.Name, Points: b.Points})
		}
	}
	for _, b := range s.Language {
		if equalsAny(issue.Repository.Language, b.Keywords) {
			terms = append(terms, Contribution{Rule: "language:" + b.Name, Points: b.Points})
		}
	}

	return terms
}

// Score computes the ranking score of an issue as of now.
func (e *Engine) Score(issue *model.RawIssue, now time.Time) int {
	return roundTotal(e.scoreTerms(issue, now))
}

func roundTotal(terms []Contribution) int {
	var total float64
	for _, t := range terms {
		total += t.Points
	}
	return int(math.Round(total))
}
