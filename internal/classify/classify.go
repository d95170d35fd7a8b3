// Package classify guesses a failure category from raw text using a fixed
// keyword table. It is the best-effort front door for reports submitted
// without a category; detection against the taxonomy happens afterwards and
// may still find no structured match.
package classify

import "strings"

type keywordEntry struct {
	keyword  string
	category string
}

// Order matters: earlier entries win. Python's NameError message also
// contains "is not defined", so it must be listed before the bare
// JavaScript form.
var keywords = []keywordEntry{
	{"referenceerror", "interpreted-runtime"},
	{"before initialization", "interpreted-runtime"},
	{"cannot read propert", "interpreted-runtime"},
	{"is not a function", "interpreted-runtime"},
	{"syntaxerror", "interpreted-syntax"},
	{"unexpected token", "interpreted-syntax"},
	{"unterminated string", "interpreted-syntax"},
	{"modulenotfounderror", "module-import"},
	{"cannot find module", "module-import"},
	{"importerror", "module-import"},
	{"nameerror", "general-runtime"},
	{"attributeerror", "general-runtime"},
	{"typeerror", "general-runtime"},
	{"segmentation fault", "process-crash"},
	{"sigsegv", "process-crash"},
	{"at-spi", "process-crash"},
	{"operationalerror", "storage"},
	{"no such table", "storage"},
	{"is not defined", "interpreted-runtime"},
}

// Guess returns the first category whose keyword occurs in text
// (case-insensitive), or "" when nothing matches.
func Guess(text string) string {
	lower := strings.ToLower(text)
	for _, e := range keywords {
		if strings.Contains(lower, e.keyword) {
			return e.category
		}
	}
	return ""
}
