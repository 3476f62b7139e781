package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

func issue(id int64, stars int, d model.Difficulty) model.EvaluatedIssue {
	return model.EvaluatedIssue{
		RawIssue: model.RawIssue{
			ID:         id,
			Repository: model.Repository{Stars: stars},
		},
		Difficulty: d,
	}
}

var cycle = []model.Difficulty{
	model.DifficultyAdvanced,
	model.DifficultyIntermediate,
	model.DifficultyBeginner,
}

func mixed(n, stars int, startID int64) []model.EvaluatedIssue {
	out := make([]model.EvaluatedIssue, 0, n)
	for i := range n {
		out = append(out, issue(startID+int64(i), stars, cycle[i%len(cycle)]))
	}
	return out
}

func ids(issues []model.EvaluatedIssue) []int64 {
	var out []int64
	for _, i := range issues {
		out = append(out, i.ID)
	}
	return out
}

func TestRecommendedBound(t *testing.T) {
	for _, n := range []int{0, 1, 5, 11, 12, 13, 40} {
		in := append(mixed(n/2, 5000, 1), mixed(n-n/2, 200, 1000)...)
		got := Recommended(in, DefaultLimit)
		assert.Len(t, got, min(DefaultLimit, n), "supply %d", n)
	}
}

func TestRecommendedStratification(t *testing.T) {
	in := mixed(18, 5000, 1)

	got := Recommended(in, 12)

	require.Len(t, got, 12)
	for i := 0; i < 6; i++ {
		assert.Equal(t, model.DifficultyBeginner, got[i].Difficulty, "position %d", i)
	}
	for i := 6; i < 10; i++ {
		assert.Equal(t, model.DifficultyIntermediate, got[i].Difficulty, "position %d", i)
	}
	for i := 10; i < 12; i++ {
		assert.Equal(t, model.DifficultyAdvanced, got[i].Difficulty, "position %d", i)
	}
}

func TestRecommendedPreservesOrderWithinStratum(t *testing.T) {
	in := mixed(18, 5000, 1)

	got := Recommended(in, 12)

	// Beginners sit at positions 2, 5, 8, ... in the input cycle.
	assert.Equal(t, []int64{3, 6, 9, 12, 15, 18}, ids(got[:6]))
}

func TestRecommendedHighStarTopUp(t *testing.T) {
	// Only advanced issues in the high-star pool: the quota yields 2, the
	// top-up fills the rest from the same pool before touching low stars.
	var in []model.EvaluatedIssue
	for i := range 10 {
		in = append(in, issue(int64(i+1), 2000, model.DifficultyAdvanced))
	}
	in = append(in, issue(100, 10, model.DifficultyBeginner))

	got := Recommended(in, 8)

	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, ids(got))
}

func TestRecommendedLowStarFallback(t *testing.T) {
	in := []model.EvaluatedIssue{
		issue(1, 100, model.DifficultyBeginner),
		issue(2, 5000, model.DifficultyAdvanced),
		issue(3, 1000, model.DifficultyBeginner),
		issue(4, 999999, model.DifficultyIntermediate),
	}

	got := Recommended(in, 12)

	// 1000 stars is not "more than 1000", so issue 3 lands in the low pool.
	assert.Equal(t, []int64{4, 2, 1, 3}, ids(got))
}

func TestRecommendedNonPositiveLimit(t *testing.T) {
	in := mixed(6, 5000, 1)
	assert.Empty(t, Recommended(in, 0))
	assert.Empty(t, Recommended(in, -3))
}

func TestRecommendedRepeatedIDs(t *testing.T) {
	in := []model.EvaluatedIssue{
		issue(7, 5000, model.DifficultyBeginner),
		issue(7, 5000, model.DifficultyBeginner),
		issue(7, 50, model.DifficultyBeginner),
	}

	assert.Len(t, Recommended(in, 12), 3)
}

func TestRecommendWithQuota(t *testing.T) {
	in := mixed(18, 5000, 1)
	q := Quota{StarThreshold: 1000, Advanced: 1}

	got := RecommendWithQuota(in, 4, q)

	require.Len(t, got, 4)
	for _, g := range got {
		assert.Equal(t, model.DifficultyAdvanced, g.Difficulty)
	}
}
