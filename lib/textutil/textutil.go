package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeLabel lower-cases a label, trims it and collapses runs of
// whitespace to a single space.
func NormalizeLabel(label string) string {
	label = strings.ToLower(label)
	label = strings.TrimSpace(label)
	label = whitespaceRegex.ReplaceAllString(label, " ")
	return label
}

// MatchKeyword reports whether the normalized label contains any of the
// given keywords as a substring.
func MatchKeyword(label string, keywords []string) bool {
	label = NormalizeLabel(label)
	for _, k := range keywords {
		if strings.Contains(label, k) {
			return true
		}
	}
	return false
}
