// Package recommend builds a bounded, difficulty-diverse selection of issues
// that favors well-starred repositories.
package recommend

import (
	"math"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// DefaultLimit is the selection size used when none is given.
const DefaultLimit = 12

// Quota controls the difficulty mix drawn from the high-star pool.
type Quota struct {
	// StarThreshold: repositories with more stars than this form the high-star pool.
	StarThreshold int

	Beginner     float64
	Intermediate float64
	Advanced     float64
}

// DefaultQuota is a 50/30/20 beginner/intermediate/advanced mix over
// repositories with more than 1000 stars.
var DefaultQuota = Quota{
	StarThreshold: 1000,
	Beginner:      0.5,
	Intermediate:  0.3,
	Advanced:      0.2,
}

// Recommended selects up to limit issues using DefaultQuota.
func Recommended(issues []model.EvaluatedIssue, limit int) []model.EvaluatedIssue {
	return RecommendWithQuota(issues, limit, DefaultQuota)
}

// RecommendWithQuota selects up to limit issues. Input order is assumed to
// be the ranking order and is preserved within each stage:
//
//  1. high-star issues per difficulty quota (beginner, intermediate, advanced)
//  2. remaining high-star issues
//  3. low-star issues
//
// The result holds min(limit, len(issues)) issues and never repeats one.
func RecommendWithQuota(issues []model.EvaluatedIssue, limit int, q Quota) []model.EvaluatedIssue {
	if limit <= 0 || len(issues) == 0 {
		return []model.EvaluatedIssue{}
	}

	var high, low []int
	for i := range issues {
		if issues[i].Repository.Stars > q.StarThreshold {
			high = append(high, i)
		} else {
			low = append(low, i)
		}
	}

	picked := make([]int, 0, limit)
	seen := make(map[int]bool, limit)
	take := func(idx int) {
		if !seen[idx] {
			seen[idx] = true
			picked = append(picked, idx)
		}
	}

	strata := []struct {
		difficulty model.Difficulty
		share      float64
	}{
		{model.DifficultyBeginner, q.Beginner},
		{model.DifficultyIntermediate, q.Intermediate},
		{model.DifficultyAdvanced, q.Advanced},
	}
	for _, s := range strata {
		quota := int(math.Ceil(float64(limit) * s.share))
		for _, idx := range high {
			if quota == 0 {
				break
			}
			if issues[idx].Difficulty == s.difficulty {
				take(idx)
				quota--
			}
		}
	}

	for _, pool := range [][]int{high, low} {
		for _, idx := range pool {
			if len(picked) >= limit {
				break
			}
			take(idx)
		}
	}

	if len(picked) > limit {
		picked = picked[:limit]
	}

	result := make([]model.EvaluatedIssue, len(picked))
	for i, idx := range picked {
		result[i] = issues[idx]
	}
	return result
}
