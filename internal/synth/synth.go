// Package synth turns detected failure patterns into regression-test
// fragments. One strategy per (test kind, extracted kind) pair; unrecognized
// pairs yield nothing, which is the correct outcome for categories with no
// safe automated reproduction.
package synth

import (
	"strings"
	"text/template"
	"time"
	"unicode"

	"regress/internal/registry"
	"regress/internal/taxonomy"
)

// LintRule is the fixed static-analysis rule recorded for syntax-class
// failures: an undefined-reference style check.
const LintRule = "no-undef"

// Outcome is the result of one synthesis attempt. At most one field is set;
// both nil means the record cannot be auto-synthesized.
type Outcome struct {
	Fragment *registry.TestFragment
	Lint     *registry.LintPatternEntry
}

// Empty reports whether synthesis produced nothing.
func (o Outcome) Empty() bool {
	return o.Fragment == nil && o.Lint == nil
}

// Synthesize dispatches on the record's detected pattern. Records with no
// pattern, or with a pair no strategy covers, produce an empty Outcome.
func Synthesize(rec *registry.FailureRecord, now time.Time) Outcome {
	m := rec.DetectedPattern
	if m == nil {
		return Outcome{}
	}

	switch m.TestKind {
	case taxonomy.KindBrowser:
		switch m.Kind {
		case taxonomy.UndefinedIdentifier:
			return fragment(rec, m, undefinedIdentifierTmpl, now)
		case taxonomy.UseBeforeInit:
			return fragment(rec, m, useBeforeInitTmpl, now)
		case taxonomy.NotCallable:
			return fragment(rec, m, notCallableTmpl, now)
		}
	case taxonomy.KindLintRule:
		switch m.Kind {
		case taxonomy.UnexpectedToken, taxonomy.UnterminatedLiteral:
			return Outcome{Lint: &registry.LintPatternEntry{
				ErrorID:     rec.ID,
				Rule:        LintRule,
				GeneratedAt: now,
			}}
		}
	case taxonomy.KindInterpreter:
		switch m.Kind {
		case taxonomy.MissingModule:
			return fragment(rec, m, missingModuleTmpl, now)
		case taxonomy.UndefinedName:
			return fragment(rec, m, undefinedNameTmpl, now)
		}
	}
	return Outcome{}
}

func fragment(rec *registry.FailureRecord, m *taxonomy.Match, tmpl *template.Template, now time.Time) Outcome {
	capture := firstCapture(m)
	name := FragmentName(m.Kind, capture)
	var sb strings.Builder
	err := tmpl.Execute(&sb, fragmentData{
		Name:     name,
		Ident:    escapeLiteral(capture),
		Accessor: accessorName(capture),
		Raw:      m.Raw,
	})
	if err != nil {
		// Templates are static; execution cannot realistically fail.
		return Outcome{}
	}
	return Outcome{Fragment: &registry.TestFragment{
		ErrorID:     rec.ID,
		Name:        name,
		SourceText:  sb.String(),
		TestKind:    m.TestKind,
		GeneratedAt: now,
	}}
}

// FragmentName derives the deterministic fragment name from the extraction
// kind and the first capture: same input, same name, so re-synthesis of an
// equivalent failure deduplicates at export.
func FragmentName(kind taxonomy.ExtractedKind, capture string) string {
	slug := strings.ReplaceAll(string(kind), "-", "_")
	return "test_" + slug + "_" + sanitize(capture)
}

func firstCapture(m *taxonomy.Match) string {
	for _, c := range m.Captures {
		if c != "" {
			return c
		}
	}
	return ""
}

// escapeLiteral makes a capture safe inside a quoted JS or Python string
// literal. Backslashes and both quote styles are escaped; \' and \" are valid
// escapes in either language regardless of the enclosing quote.
func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// sanitize keeps identifier-safe runes and folds everything else to '_'.
func sanitize(s string) string {
	if s == "" {
		return "anonymous"
	}
	var sb strings.Builder
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// accessorName returns the conventional get-accessor for an identifier:
// "fooBar" -> "getFooBar".
func accessorName(ident string) string {
	ident = sanitize(ident)
	if ident == "" {
		return "get"
	}
	return "get" + strings.ToUpper(ident[:1]) + ident[1:]
}
