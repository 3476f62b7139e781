package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIssueRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    IssueRef
		wantErr bool
	}{
		{"short form", "facebook/react#123", IssueRef{Owner: "facebook", Repo: "react", Number: 123}, false},
		{"url", "https://github.com/nodejs/node/issues/42", IssueRef{Owner: "nodejs", Repo: "node", Number: 42}, false},
		{"url trailing slash", "https://github.com/nodejs/node/issues/42/", IssueRef{Owner: "nodejs", Repo: "node", Number: 42}, false},
		{"path form", " vuejs/vue/issues/7 ", IssueRef{Owner: "vuejs", Repo: "vue", Number: 7}, false},
		{"no number", "facebook/react", IssueRef{}, true},
		{"no owner", "react#1", IssueRef{}, true},
		{"zero", "facebook/react#0", IssueRef{}, true},
		{"not a number", "facebook/react#abc", IssueRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIssueRef(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIssueRefString(t *testing.T) {
	ref := IssueRef{Owner: "facebook", Repo: "react", Number: 9}
	assert.Equal(t, "facebook/react#9", ref.String())

	parsed, err := ParseIssueRef(ref.String())
	require.NoError(t, err)
	assert.Equal(t, ref, parsed)
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input string
		want  Difficulty
		ok    bool
	}{
		{"beginner", DifficultyBeginner, true},
		{" Intermediate ", DifficultyIntermediate, true},
		{"ADVANCED", DifficultyAdvanced, true},
		{"", "", true},
		{"expert", "expert", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDifficulty(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", "2026-02-03T04:05:06Z", time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC), false},
		{"date only", "2026-02-03", time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), false},
		{"other layout", "03/02/2026", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestRawIssueHelpers(t *testing.T) {
	issue := RawIssue{
		Number:     5,
		Labels:     []Label{{Name: "Good First Issue"}, {Name: "docs"}},
		Repository: Repository{FullName: "tailwindlabs/tailwindcss"},
	}

	assert.Equal(t, []string{"good first issue", "docs"}, issue.LabelNames())
	assert.Equal(t, IssueRef{Owner: "tailwindlabs", Repo: "tailwindcss", Number: 5}, issue.Ref())
}

func TestFilterCriteriaIsEmpty(t *testing.T) {
	assert.True(t, FilterCriteria{}.IsEmpty())

	zero := 0
	assert.False(t, FilterCriteria{MinStars: &zero}.IsEmpty())
	assert.False(t, FilterCriteria{Labels: []string{"ui"}}.IsEmpty())
}
