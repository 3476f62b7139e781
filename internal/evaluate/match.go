package evaluate

import "strings"

// anyLabelContains reports whether any label contains any keyword.
// Labels are expected to be lower-cased already.
func anyLabelContains(labels, keywords []string) bool {
	for _, label := range labels {
		for _, kw := range keywords {
			if strings.Contains(label, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}

// containsAny reports whether s contains any keyword, case-insensitively.
func containsAny(s string, keywords []string) bool {
	s = strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// equalsAny reports whether s equals any keyword, case-insensitively.
func equalsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.EqualFold(s, kw) {
			return true
		}
	}
	return false
}
