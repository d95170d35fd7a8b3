// Package similar flags previously recorded failures that share vocabulary
// with a new report.
//
// The heuristic is intentionally coarse: lowercase word tokens, words of
// three characters or fewer discarded, and a membership threshold driven by
// the query's token count rather than the candidate's. Two failures with very
// different vocabularies but a handful of overlapping distinctive tokens
// surface as related. There is no ranking beyond membership.
package similar

import (
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`[a-z0-9_]+`)

// Tokens returns the significant-word set of text: lowercase word tokens
// longer than three characters.
func Tokens(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 3 {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// Threshold returns the minimum overlap for a query with n significant
// tokens: min(3, 0.5 * n).
func Threshold(n int) float64 {
	t := 0.5 * float64(n)
	if t > 3 {
		return 3
	}
	return t
}

// Matches reports whether candidate text shares enough significant tokens
// with the query token set. An empty query matches nothing.
func Matches(query map[string]struct{}, candidate string) bool {
	if len(query) == 0 {
		return false
	}
	overlap := 0
	for w := range Tokens(candidate) {
		if _, ok := query[w]; ok {
			overlap++
		}
	}
	return float64(overlap) >= Threshold(len(query))
}
