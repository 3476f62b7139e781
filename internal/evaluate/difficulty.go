package evaluate

import (
	"fmt"
	"unicode/utf16"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// Contribution is one rule's effect on an accumulator.
type Contribution struct {
	Rule   string  `json:"rule"`
	Points float64 `json:"points"`
}

func (e *Engine) difficultyTerms(issue *model.RawIssue) []Contribution {
	d := e.rules.Difficulty
	labels := issue.LabelNames()

	var terms []Contribution
	for _, r := range d.Labels {
		if anyLabelContains(labels, r.Keywords) {
			terms = append(terms, Contribution{Rule: "label:" + r.Name, Points: float64(r.Weight)})
		}
	}

	bodyLen := utf16Len(issue.Body)
	for _, r := range d.BodyLength {
		if bodyLen > r.MinLength {
			terms = append(terms, Contribution{Rule: fmt.Sprintf("body>%d", r.MinLength), Points: float64(r.Weight)})
			break
		}
	}

	for _, r := range d.Title {
		if containsAny(issue.Title, r.Keywords) {
			terms = append(terms, Contribution{Rule: "title:" + r.Name, Points: float64(r.Weight)})
		}
	}

	for _, r := range d.Language {
		if equalsAny(issue.Repository.Language, r.Keywords) {
			terms = append(terms, Contribution{Rule: "language:" + r.Name, Points: float64(r.Weight)})
		}
	}

	return terms
}

// DifficultyPoints returns the raw difficulty accumulator for an issue.
func (e *Engine) DifficultyPoints(issue *model.RawIssue) int {
	total := 0
	for _, t := range e.difficultyTerms(issue) {
		total += int(t.Points)
	}
	return total
}

// Difficulty classifies an issue as beginner, intermediate or advanced.
func (e *Engine) Difficulty(issue *model.RawIssue) model.Difficulty {
	return e.classify(e.DifficultyPoints(issue))
}

func (e *Engine) classify(points int) model.Difficulty {
	switch {
	case points <= e.rules.Difficulty.BeginnerMax:
		return model.DifficultyBeginner
	case points <= e.rules.Difficulty.IntermediateMax:
		return model.DifficultyIntermediate
	default:
		return model.DifficultyAdvanced
	}
}

// utf16Len returns the length of s in UTF-16 code units, so characters
// outside the Basic Multilingual Plane count twice.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
