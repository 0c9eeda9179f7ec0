package coursework

import "strings"

// ShouldSkip reports whether courseName contains any of the patterns, ignoring case.
// Only the priority report applies it.
func ShouldSkip(courseName string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	name := strings.ToLower(courseName)
	for _, p := range patterns {
		p = strings.ToLower(p)
		if p != "" && strings.Contains(name, p) {
			return true
		}
	}
	return false
}
