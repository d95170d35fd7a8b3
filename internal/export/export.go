// Package export merges synthesized fragments into existing test-file text.
//
// Deduplication is a verbatim name-substring check against the existing file:
// coarse on purpose. It guarantees idempotence (re-running export never
// appends the same name twice) but does not catch semantic duplicates under
// different names, nor a hand-deleted body whose name survives in a comment.
package export

import (
	"strings"

	"regress/internal/registry"
	"regress/internal/taxonomy"
)

// markerText labels the generated-content envelope that separates appended
// fragments from hand-written tests.
const markerText = "regress: generated regression checks - do not edit below this marker"

// Marker returns the envelope marker line in the comment syntax of the kind.
func Marker(kind taxonomy.TestKind) string {
	return commentPrefix(kind) + " --- " + markerText + " ---"
}

func commentPrefix(kind taxonomy.TestKind) string {
	if kind == taxonomy.KindInterpreter {
		return "#"
	}
	return "//"
}

// Append returns the text to append to a test file of the given kind:
// fragments of that kind whose name does not already occur verbatim in
// existing, wrapped in the generated-content envelope. Returns "" when
// nothing needs appending.
func Append(kind taxonomy.TestKind, fragments []registry.TestFragment, existing string) string {
	var pending []registry.TestFragment
	for _, f := range fragments {
		if f.TestKind != kind {
			continue
		}
		if strings.Contains(existing, f.Name) {
			continue
		}
		pending = append(pending, f)
	}
	if len(pending) == 0 {
		return ""
	}

	var sb strings.Builder
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		sb.WriteString("\n")
	}
	if !strings.Contains(existing, markerText) {
		sb.WriteString("\n")
		sb.WriteString(Marker(kind))
		sb.WriteString("\n")
	}
	for _, f := range pending {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(f.SourceText, "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Kinds returns the test kinds that can carry exported fragments, in a
// stable order.
func Kinds() []taxonomy.TestKind {
	return []taxonomy.TestKind{taxonomy.KindBrowser, taxonomy.KindInterpreter}
}
