package source

import (
	"strings"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

const (
	defaultSort    = model.SortUpdated
	defaultOrder   = "desc"
	defaultPerPage = 100

	popularQuery  = "good first issue"
	fallbackQuery = "help wanted"
)

// BuildQuery renders search parameters as a GitHub issue search query.
//
// Free text is matched against title and body, and also as a label when
// it is a single word. Only open issues are searched. When nothing beyond
// the state qualifiers is requested the query defaults to "good first issue".
func BuildQuery(params model.SearchParams) string {
	var parts []string

	if q := strings.TrimSpace(params.Query); q != "" {
		terms := []string{q + " in:title", q + " in:body"}
		if !strings.Contains(q, " ") {
			terms = append(terms, "label:"+q)
		}
		parts = append(parts, "("+strings.Join(terms, " OR ")+")")
	}

	if r := strings.TrimSpace(params.Repository); r != "" {
		parts = append(parts, "repo:"+r)
	}

	if l := strings.TrimSpace(params.Labels); l != "" {
		parts = append(parts, "label:"+quote(l))
	}

	if lang := strings.TrimSpace(params.Language); lang != "" {
		parts = append(parts, "language:"+quote(lang))
	}

	if len(parts) == 0 {
		parts = append(parts, popularQuery)
	}

	parts = append(parts, "state:open", "type:issue")
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if strings.Contains(s, " ") && !strings.HasPrefix(s, `"`) {
		return `"` + s + `"`
	}
	return s
}

func searchSort(params model.SearchParams) string {
	if params.Sort == "" {
		return string(defaultSort)
	}
	return string(params.Sort)
}

func searchOrder(params model.SearchParams) string {
	if params.Order == "" {
		return defaultOrder
	}
	return params.Order
}

func searchPerPage(params model.SearchParams) int {
	if params.PerPage <= 0 || params.PerPage > defaultPerPage {
		return defaultPerPage
	}
	return params.PerPage
}
