package format

import "strings"

// Excerpt collapses whitespace and truncates s to max runes for table cells.
func Excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// YesNo renders a boolean for table cells.
func YesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
