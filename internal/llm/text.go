package llm

import "unicode/utf8"

// TruncatedSuffix is appended to content cut by Truncate
const TruncatedSuffix = "... [truncated]"

// Truncate caps s at limit characters and appends TruncatedSuffix when it cuts.
// Strings at or under the cap are returned unchanged.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return Clip(s, limit) + TruncatedSuffix
}

// Clip returns the first limit characters of s without any marker
func Clip(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
