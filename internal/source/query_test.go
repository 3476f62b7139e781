package source

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		params model.SearchParams
		want   string
	}{
		{
			name:   "empty defaults to good first issue",
			params: model.SearchParams{},
			want:   "good first issue state:open type:issue",
		},
		{
			name:   "single word adds label term",
			params: model.SearchParams{Query: " parser "},
			want:   "(parser in:title OR parser in:body OR label:parser) state:open type:issue",
		},
		{
			name:   "phrase skips label term",
			params: model.SearchParams{Query: "dark mode"},
			want:   "(dark mode in:title OR dark mode in:body) state:open type:issue",
		},
		{
			name:   "repository only",
			params: model.SearchParams{Repository: "golang/go"},
			want:   "repo:golang/go state:open type:issue",
		},
		{
			name:   "label with spaces is quoted",
			params: model.SearchParams{Labels: "help wanted"},
			want:   `label:"help wanted" state:open type:issue`,
		},
		{
			name:   "everything",
			params: model.SearchParams{Query: "cache", Repository: "a/b", Labels: "bug", Language: "Go"},
			want:   "(cache in:title OR cache in:body OR label:cache) repo:a/b label:bug language:Go state:open type:issue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.params))
		})
	}
}

func TestSearchDefaults(t *testing.T) {
	p := model.SearchParams{}
	assert.Equal(t, "updated", searchSort(p))
	assert.Equal(t, "desc", searchOrder(p))
	assert.Equal(t, 100, searchPerPage(p))

	p = model.SearchParams{Sort: model.SortComments, Order: "asc", PerPage: 20}
	assert.Equal(t, "comments", searchSort(p))
	assert.Equal(t, "asc", searchOrder(p))
	assert.Equal(t, 20, searchPerPage(p))

	assert.Equal(t, 100, searchPerPage(model.SearchParams{PerPage: 500}))
}
