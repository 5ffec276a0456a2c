package monitor

import (
	"strings"

	"bitbucket.org/creachadair/stringset"
)

// ParseKeywords splits a comma separated list into lower-case keywords.
// Blank entries and duplicates are dropped; the result is sorted.
func ParseKeywords(csv string) []string {
	set := stringset.New()
	for _, keyword := range strings.Split(csv, ",") {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			set.Add(keyword)
		}
	}
	return set.Elements()
}

// Matches reports whether any keyword occurs in the title or content, ignoring case.
// Keywords must already be lower-case.
func Matches(keywords []string, title, content string) bool {
	title = strings.ToLower(title)
	content = strings.ToLower(content)
	for _, keyword := range keywords {
		if strings.Contains(title, keyword) || strings.Contains(content, keyword) {
			return true
		}
	}
	return false
}
